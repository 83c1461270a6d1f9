package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/phone"
)

const (
	SexMasculine = "masculino"
	SexFeminine  = "feminino"
	SexOther     = "outro"

	contactNameMinLength      = 3
	contactSituationMinLength = 10
	contactAgeMinimum         = 1
	contactAgeMaximum         = 120

	contactNameMaxLength      = 200
	contactSituationMaxLength = 4000

	FieldName      = "name"
	FieldPhone     = "phone"
	FieldSex       = "sex"
	FieldAge       = "age"
	FieldSituation = "situation"

	messageNameRequired      = "Nome é obrigatório"
	messageNameTooShort      = "Nome deve ter pelo menos 3 caracteres"
	messagePhoneRequired     = "Telefone é obrigatório"
	messagePhoneInvalid      = "Telefone inválido. Use (00) 00000-0000 ou (00) 0000-0000"
	messageSexRequired       = "Selecione o sexo"
	messageAgeRequired       = "Idade é obrigatória"
	messageAgeOutOfRange     = "Idade inválida (entre 1 e 120 anos)"
	messageSituationRequired = "Descreva sua situação"
	messageSituationTooShort = "Descreva sua situação com pelo menos 10 caracteres"
)

// FieldErrors maps field names to human-readable validation messages.
type FieldErrors map[string]string

// Contact is a visitor-submitted inquiry awaiting operator follow-up. The
// phone is stored in display form together with its digits-only copy used for
// search, duplicate detection and deep links.
type Contact struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Name        string     `gorm:"not null;size:200"`
	Phone       string     `gorm:"not null;size:20"`
	PhoneDigits string     `gorm:"not null;size:11;index"`
	Sex         string     `gorm:"not null;size:16"`
	Age         int        `gorm:"not null"`
	Situation   string     `gorm:"not null;size:4000"`
	ReadAt      *time.Time `gorm:"index"`
	SubmittedAt time.Time  `gorm:"not null;index"`
}

// ContactInput holds the raw values submitted through the contact form.
type ContactInput struct {
	Name      string
	Phone     string
	Sex       string
	Age       int
	Situation string
}

// NewContact validates the input field by field and constructs a Contact. A
// non-empty FieldErrors means validation failed and the Contact is zero.
func NewContact(input ContactInput) (Contact, FieldErrors) {
	fieldErrors := ValidateContactInput(input)
	if len(fieldErrors) > 0 {
		return Contact{}, fieldErrors
	}

	formattedPhone, _ := phone.Format(input.Phone)

	return Contact{
		ID:          uuid.NewString(),
		Name:        truncateRunes(strings.TrimSpace(input.Name), contactNameMaxLength),
		Phone:       formattedPhone,
		PhoneDigits: phone.Digits(input.Phone),
		Sex:         input.Sex,
		Age:         input.Age,
		Situation:   truncateRunes(strings.TrimSpace(input.Situation), contactSituationMaxLength),
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// ValidateContactInput runs the per-field contact form rules and returns a
// message per failing field.
func ValidateContactInput(input ContactInput) FieldErrors {
	fieldErrors := make(FieldErrors)

	trimmedName := strings.TrimSpace(input.Name)
	switch {
	case trimmedName == "":
		fieldErrors[FieldName] = messageNameRequired
	case len([]rune(trimmedName)) < contactNameMinLength:
		fieldErrors[FieldName] = messageNameTooShort
	}

	trimmedPhone := strings.TrimSpace(input.Phone)
	switch {
	case trimmedPhone == "":
		fieldErrors[FieldPhone] = messagePhoneRequired
	case !phone.IsValid(trimmedPhone):
		fieldErrors[FieldPhone] = messagePhoneInvalid
	}

	switch input.Sex {
	case SexMasculine, SexFeminine, SexOther:
	case "":
		fieldErrors[FieldSex] = messageSexRequired
	default:
		fieldErrors[FieldSex] = messageSexRequired
	}

	switch {
	case input.Age == 0:
		fieldErrors[FieldAge] = messageAgeRequired
	case input.Age < contactAgeMinimum || input.Age > contactAgeMaximum:
		fieldErrors[FieldAge] = messageAgeOutOfRange
	}

	trimmedSituation := strings.TrimSpace(input.Situation)
	switch {
	case trimmedSituation == "":
		fieldErrors[FieldSituation] = messageSituationRequired
	case len([]rune(trimmedSituation)) < contactSituationMinLength:
		fieldErrors[FieldSituation] = messageSituationTooShort
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// IsRead reports whether the operator has already reviewed the contact.
func (contact Contact) IsRead() bool {
	return contact.ReadAt != nil
}

func truncateRunes(value string, maxLength int) string {
	runes := []rune(value)
	if len(runes) <= maxLength {
		return value
	}
	return string(runes[:maxLength])
}

// AgeFromString parses a submitted age value, tolerating surrounding spaces.
// Unparseable values map to zero, which fails the required-age rule.
func AgeFromString(rawValue string) int {
	parsed, parseErr := strconv.Atoi(strings.TrimSpace(rawValue))
	if parseErr != nil {
		return 0
	}
	return parsed
}
