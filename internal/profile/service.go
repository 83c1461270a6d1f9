// Package profile owns the operator profile record: the single mutable
// configuration of the site. The service is constructed once at startup and is
// the sole writer of the profile row; every mutation persists immediately.
package profile

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/catalog"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/model"
)

const (
	FieldName               = "name"
	FieldRegistrationNumber = "registration_number"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldAddress            = "address"

	messageInvalidEmail        = "E-mail inválido"
	messageInvalidPhone        = "Telefone contém caracteres inválidos"
	messageInvalidRegistration = "Registro inválido. Use o formato OAB/UF 123456"

	logEventLoadProfile    = "load_profile"
	logEventPersistProfile = "persist_profile"
)

var (
	registrationNumberPattern = regexp.MustCompile(`^OAB/[A-Z]{2} ?[0-9]{4,6}$`)
	phoneCharacterPattern     = regexp.MustCompile(`^[0-9()+\- ]+$`)
)

// Update carries the profile fields to merge. Nil fields are left untouched.
type Update struct {
	Name               *string
	RegistrationNumber *string
	Email              *string
	Phone              *string
	Address            *string
}

// Service loads, mutates and persists the operator profile.
type Service struct {
	database *gorm.DB
	logger   *zap.Logger
	mutex    sync.Mutex
	current  model.OperatorProfile
}

// NewService constructs the profile service and loads the stored profile. A
// missing or unreadable row degrades to the empty default and is logged, never
// surfaced to the caller.
func NewService(database *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		database: database,
		logger:   logger,
		current:  model.EmptyOperatorProfile(),
	}

	var stored model.OperatorProfile
	loadErr := database.First(&stored, "id = ?", model.OperatorProfileRecordID).Error
	switch {
	case loadErr == nil:
		if stored.SelectedAreaIDs == nil {
			stored.SelectedAreaIDs = model.StringList{}
		}
		service.current = stored
	case errors.Is(loadErr, gorm.ErrRecordNotFound):
	default:
		logger.Warn(logEventLoadProfile, zap.Error(loadErr))
	}

	return service
}

// Current returns a copy of the operator profile.
func (service *Service) Current() model.OperatorProfile {
	service.mutex.Lock()
	defer service.mutex.Unlock()
	return service.snapshot()
}

// MergeUpdate validates the provided fields and shallow-merges the valid ones
// into the profile, persisting the result. Fields failing validation are
// reported in the returned FieldErrors and are not committed; the remaining
// fields are still applied, mirroring the per-field commit behavior of the
// dashboard form.
func (service *Service) MergeUpdate(update Update) (model.OperatorProfile, model.FieldErrors, error) {
	fieldErrors := ValidateUpdate(update)

	service.mutex.Lock()
	defer service.mutex.Unlock()

	changed := false
	if update.Name != nil {
		service.current.Name = strings.TrimSpace(*update.Name)
		changed = true
	}
	if update.RegistrationNumber != nil && fieldErrors[FieldRegistrationNumber] == "" {
		service.current.RegistrationNumber = strings.TrimSpace(*update.RegistrationNumber)
		changed = true
	}
	if update.Email != nil && fieldErrors[FieldEmail] == "" {
		service.current.Email = strings.TrimSpace(*update.Email)
		changed = true
	}
	if update.Phone != nil && fieldErrors[FieldPhone] == "" {
		service.current.Phone = strings.TrimSpace(*update.Phone)
		changed = true
	}
	if update.Address != nil {
		service.current.Address = strings.TrimSpace(*update.Address)
		changed = true
	}

	if changed {
		if persistErr := service.persistLocked(); persistErr != nil {
			return service.snapshot(), fieldErrors, persistErr
		}
	}

	return service.snapshot(), fieldErrors, nil
}

// ToggleArea adds the practice-area id to the selection when absent and
// removes it when present, persisting the result. The returned boolean
// reports the new membership state.
func (service *Service) ToggleArea(areaID string) (bool, model.OperatorProfile, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	selected := make(model.StringList, 0, len(service.current.SelectedAreaIDs)+1)
	removed := false
	for _, existingID := range service.current.SelectedAreaIDs {
		if existingID == areaID {
			removed = true
			continue
		}
		selected = append(selected, existingID)
	}
	if !removed {
		selected = append(selected, areaID)
	}
	service.current.SelectedAreaIDs = selected

	if persistErr := service.persistLocked(); persistErr != nil {
		return !removed, service.snapshot(), persistErr
	}

	return !removed, service.snapshot(), nil
}

// SelectedAreas resolves the selected ids against the catalog. Ids that no
// longer reference a catalog entry are silently skipped.
func (service *Service) SelectedAreas() []catalog.PracticeArea {
	currentProfile := service.Current()

	var areas []catalog.PracticeArea
	for _, areaID := range currentProfile.SelectedAreaIDs {
		if area, found := catalog.ByID(areaID); found {
			areas = append(areas, area)
		}
	}
	return areas
}

// ValidateUpdate runs the light per-field format rules over the provided
// fields. Empty values always pass: every profile field is optional.
func ValidateUpdate(update Update) model.FieldErrors {
	fieldErrors := make(model.FieldErrors)

	if update.Email != nil {
		trimmedEmail := strings.TrimSpace(*update.Email)
		if trimmedEmail != "" {
			if _, parseErr := mail.ParseAddress(trimmedEmail); parseErr != nil {
				fieldErrors[FieldEmail] = messageInvalidEmail
			}
		}
	}

	if update.Phone != nil {
		trimmedPhone := strings.TrimSpace(*update.Phone)
		if trimmedPhone != "" && !phoneCharacterPattern.MatchString(trimmedPhone) {
			fieldErrors[FieldPhone] = messageInvalidPhone
		}
	}

	if update.RegistrationNumber != nil {
		trimmedRegistration := strings.TrimSpace(*update.RegistrationNumber)
		if trimmedRegistration != "" && !registrationNumberPattern.MatchString(trimmedRegistration) {
			fieldErrors[FieldRegistrationNumber] = messageInvalidRegistration
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func (service *Service) persistLocked() error {
	if saveErr := service.database.Save(&service.current).Error; saveErr != nil {
		service.logger.Warn(logEventPersistProfile, zap.Error(saveErr))
		return saveErr
	}
	return nil
}

func (service *Service) snapshot() model.OperatorProfile {
	copied := service.current
	copied.SelectedAreaIDs = make(model.StringList, len(service.current.SelectedAreaIDs))
	copy(copied.SelectedAreaIDs, service.current.SelectedAreaIDs)
	return copied
}
