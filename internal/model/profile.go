package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OperatorProfileRecordID is the fixed primary key of the single profile row.
const OperatorProfileRecordID = "operator-profile"

var errUnsupportedStringListSource = errors.New("model: unsupported string list source type")

// StringList stores an ordered list of strings as a JSON text column.
type StringList []string

// Value serializes the list for storage.
func (list StringList) Value() (driver.Value, error) {
	if list == nil {
		list = StringList{}
	}
	encoded, marshalErr := json.Marshal(list)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return string(encoded), nil
}

// Scan deserializes the stored JSON text back into the list.
func (list *StringList) Scan(source any) error {
	if source == nil {
		*list = StringList{}
		return nil
	}
	switch typedSource := source.(type) {
	case string:
		return list.decode([]byte(typedSource))
	case []byte:
		return list.decode(typedSource)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedStringListSource, source)
	}
}

func (list *StringList) decode(encoded []byte) error {
	if len(encoded) == 0 {
		*list = StringList{}
		return nil
	}
	return json.Unmarshal(encoded, list)
}

// Contains reports whether the list holds the given value.
func (list StringList) Contains(value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

// OperatorProfile is the site owner's editable identity and contact data plus
// the selected practice-area ids. Exactly one row exists per database.
type OperatorProfile struct {
	ID                 string     `gorm:"primaryKey;size:36"`
	Name               string     `gorm:"size:200"`
	RegistrationNumber string     `gorm:"size:40"`
	Email              string     `gorm:"size:320"`
	Phone              string     `gorm:"size:20"`
	Address            string     `gorm:"size:500"`
	SelectedAreaIDs    StringList `gorm:"type:text"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

// EmptyOperatorProfile returns the all-empty default profile used when no row
// exists yet or the stored row cannot be read.
func EmptyOperatorProfile() OperatorProfile {
	return OperatorProfile{
		ID:              OperatorProfileRecordID,
		SelectedAreaIDs: StringList{},
	}
}
