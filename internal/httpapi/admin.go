package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/catalog"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/model"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/phone"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/profile"
)

const (
	// ContactStatusFilterAll selects every contact.
	ContactStatusFilterAll = "all"
	// ContactStatusFilterNew selects contacts the operator has not read yet.
	ContactStatusFilterNew = "new"
	// ContactStatusFilterRead selects contacts already reviewed.
	ContactStatusFilterRead = "read"

	queryParameterSearch   = "q"
	queryParameterStatus   = "status"
	queryParameterCategory = "category"

	errorValueInvalidStatus     = "invalid_status"
	errorValueInvalidCategory   = "invalid_category"
	errorValueUnknownContact    = "unknown_contact"
	errorValueMissingArea       = "missing_area"
	errorValueDeleteFailed      = "delete_failed"
	errorValueUpdateFailed      = "update_failed"
	errorValueStreamUnavailable = "stream_unavailable"

	logEventDeleteContact            = "delete_contact"
	logEventMarkContactRead          = "mark_contact_read"
	logEventListContacts             = "list_contacts"
	logEventMarshalContactEventError = "marshal_contact_event_failed"
)

// AdminHandlers serves the session-guarded dashboard API: profile editing,
// practice-area selection and the contacts inbox.
type AdminHandlers struct {
	database           *gorm.DB
	logger             *zap.Logger
	profileService     *profile.Service
	contactBroadcaster *ContactEventBroadcaster
}

// NewAdminHandlers constructs the admin handlers.
func NewAdminHandlers(database *gorm.DB, logger *zap.Logger, profileService *profile.Service, contactBroadcaster *ContactEventBroadcaster) *AdminHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandlers{
		database:           database,
		logger:             logger,
		profileService:     profileService,
		contactBroadcaster: contactBroadcaster,
	}
}

type profileResponse struct {
	Name               string   `json:"name"`
	RegistrationNumber string   `json:"registration_number"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Address            string   `json:"address"`
	SelectedAreaIDs    []string `json:"selected_area_ids"`
	SelectedCount      int      `json:"selected_count"`
	TotalCount         int      `json:"total_count"`
}

type updateProfileRequest struct {
	Name               *string `json:"name"`
	RegistrationNumber *string `json:"registration_number"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
}

type areaResponse struct {
	catalog.PracticeArea
	Selected bool `json:"selected"`
}

type listAreasResponse struct {
	Areas         []areaResponse `json:"areas"`
	Categories    []string       `json:"categories"`
	SelectedCount int            `json:"selected_count"`
	TotalCount    int            `json:"total_count"`
}

type toggleAreaResponse struct {
	AreaID        string `json:"area_id"`
	Selected      bool   `json:"selected"`
	SelectedCount int    `json:"selected_count"`
	TotalCount    int    `json:"total_count"`
}

type contactResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Sex          string `json:"sex"`
	Age          int    `json:"age"`
	Situation    string `json:"situation"`
	SubmittedAt  string `json:"submitted_at"`
	Read         bool   `json:"read"`
	TelLink      string `json:"tel_link"`
	WhatsAppLink string `json:"whatsapp_link"`
}

type listContactsResponse struct {
	Contacts   []contactResponse `json:"contacts"`
	TotalCount int               `json:"total_count"`
	ShownCount int               `json:"shown_count"`
}

// GetProfile returns the operator profile.
func (handlers *AdminHandlers) GetProfile(context *gin.Context) {
	context.JSON(http.StatusOK, toProfileResponse(handlers.profileService.Current()))
}

// UpdateProfile merges the provided fields into the profile. Fields failing
// the per-field format rules are reported back and left uncommitted while the
// valid fields persist.
func (handlers *AdminHandlers) UpdateProfile(context *gin.Context) {
	var payload updateProfileRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	updatedProfile, fieldErrors, updateErr := handlers.profileService.MergeUpdate(profile.Update{
		Name:               payload.Name,
		RegistrationNumber: payload.RegistrationNumber,
		Email:              payload.Email,
		Phone:              payload.Phone,
		Address:            payload.Address,
	})
	if updateErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	responseBody := gin.H{"profile": toProfileResponse(updatedProfile)}
	if len(fieldErrors) > 0 {
		responseBody[jsonKeyErrors] = fieldErrors
	}
	context.JSON(http.StatusOK, responseBody)
}

// ListAreas returns the practice-area catalog, optionally filtered by
// category, with each entry's selection state.
func (handlers *AdminHandlers) ListAreas(context *gin.Context) {
	category := strings.TrimSpace(context.Query(queryParameterCategory))
	if category != "" && !isKnownCategory(category) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidCategory})
		return
	}

	currentProfile := handlers.profileService.Current()
	filteredAreas := catalog.ByCategory(category)

	areas := make([]areaResponse, 0, len(filteredAreas))
	for _, area := range filteredAreas {
		areas = append(areas, areaResponse{
			PracticeArea: area,
			Selected:     currentProfile.SelectedAreaIDs.Contains(area.ID),
		})
	}

	context.JSON(http.StatusOK, listAreasResponse{
		Areas:         areas,
		Categories:    catalog.Categories(),
		SelectedCount: len(currentProfile.SelectedAreaIDs),
		TotalCount:    catalog.Count(),
	})
}

// ToggleArea flips the selection state of the practice-area id. Unknown ids
// toggle too: that is how a selection referencing a removed catalog entry can
// still be cleared.
func (handlers *AdminHandlers) ToggleArea(context *gin.Context) {
	areaID := strings.TrimSpace(context.Param("id"))
	if areaID == "" {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingArea})
		return
	}

	selected, updatedProfile, toggleErr := handlers.profileService.ToggleArea(areaID)
	if toggleErr != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, toggleAreaResponse{
		AreaID:        areaID,
		Selected:      selected,
		SelectedCount: len(updatedProfile.SelectedAreaIDs),
		TotalCount:    catalog.Count(),
	})
}

// ListContacts re-reads the full submission list sorted most recent first and
// applies the text search and status filter in memory.
func (handlers *AdminHandlers) ListContacts(context *gin.Context) {
	statusFilter := strings.TrimSpace(context.Query(queryParameterStatus))
	if statusFilter == "" {
		statusFilter = ContactStatusFilterAll
	}
	switch statusFilter {
	case ContactStatusFilterAll, ContactStatusFilterNew, ContactStatusFilterRead:
	default:
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidStatus})
		return
	}

	var storedContacts []model.Contact
	if queryErr := handlers.database.Order("submitted_at desc").Find(&storedContacts).Error; queryErr != nil {
		handlers.logger.Warn(logEventListContacts, zap.Error(queryErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	searchTerm := strings.ToLower(strings.TrimSpace(context.Query(queryParameterSearch)))

	contacts := make([]contactResponse, 0, len(storedContacts))
	for _, storedContact := range storedContacts {
		if !matchesStatusFilter(storedContact, statusFilter) {
			continue
		}
		if !matchesSearchTerm(storedContact, searchTerm) {
			continue
		}
		contacts = append(contacts, toContactResponse(storedContact))
	}

	context.JSON(http.StatusOK, listContactsResponse{
		Contacts:   contacts,
		TotalCount: len(storedContacts),
		ShownCount: len(contacts),
	})
}

// MarkContactRead stamps the contact as reviewed. Marking an already-read
// contact keeps the original timestamp.
func (handlers *AdminHandlers) MarkContactRead(context *gin.Context) {
	contactID := strings.TrimSpace(context.Param("id"))

	var storedContact model.Contact
	if findErr := handlers.database.First(&storedContact, "id = ?", contactID).Error; findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownContact})
			return
		}
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if storedContact.ReadAt == nil {
		readTime := time.Now().UTC()
		storedContact.ReadAt = &readTime
		if saveErr := handlers.database.Save(&storedContact).Error; saveErr != nil {
			handlers.logger.Warn(logEventMarkContactRead, zap.Error(saveErr))
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueUpdateFailed})
			return
		}
	}

	context.JSON(http.StatusOK, toContactResponse(storedContact))
}

// DeleteContact removes exactly the addressed contact.
func (handlers *AdminHandlers) DeleteContact(context *gin.Context) {
	contactID := strings.TrimSpace(context.Param("id"))

	var storedContact model.Contact
	if findErr := handlers.database.First(&storedContact, "id = ?", contactID).Error; findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownContact})
			return
		}
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if deleteErr := handlers.database.Delete(&model.Contact{}, "id = ?", contactID).Error; deleteErr != nil {
		handlers.logger.Warn(logEventDeleteContact, zap.Error(deleteErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}

	handlers.broadcastContactEvent(storedContact, ContactEventTypeDeleted)

	context.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}

// StreamContactUpdates streams contact created/deleted events to the inbox
// over Server-Sent Events, replacing the blind polling of the original inbox.
func (handlers *AdminHandlers) StreamContactUpdates(ginContext *gin.Context) {
	if handlers.contactBroadcaster == nil {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}
	subscription := handlers.contactBroadcaster.Subscribe()
	if subscription == nil {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}
	defer subscription.Close()

	ginContext.Header("Content-Type", "text/event-stream")
	ginContext.Header("Cache-Control", "no-cache")
	ginContext.Header("Connection", "keep-alive")

	flusher, flushable := ginContext.Writer.(http.Flusher)
	if !flushable {
		ginContext.JSON(http.StatusServiceUnavailable, gin.H{jsonKeyError: errorValueStreamUnavailable})
		return
	}

	ginContext.Writer.WriteHeaderNow()
	flusher.Flush()

	requestContext := ginContext.Request.Context()

	for {
		select {
		case <-requestContext.Done():
			return
		case event, ok := <-subscription.Events():
			if !ok {
				return
			}
			payload := struct {
				ContactID    string `json:"contact_id"`
				EventType    string `json:"event_type"`
				SubmittedAt  int64  `json:"submitted_at"`
				ContactCount int64  `json:"contact_count"`
			}{
				ContactID:    event.ContactID,
				EventType:    event.EventType,
				SubmittedAt:  event.SubmittedAt.UTC().Unix(),
				ContactCount: event.ContactCount,
			}
			serializedPayload, marshalErr := json.Marshal(payload)
			if marshalErr != nil {
				handlers.logger.Debug(logEventMarshalContactEventError, zap.Error(marshalErr))
				continue
			}
			if _, writeErr := ginContext.Writer.WriteString("data: " + string(serializedPayload) + "\n\n"); writeErr != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (handlers *AdminHandlers) broadcastContactEvent(contact model.Contact, eventType string) {
	var contactCount int64
	if countErr := handlers.database.Model(&model.Contact{}).Count(&contactCount).Error; countErr != nil {
		handlers.logger.Debug("count_contacts", zap.Error(countErr))
	}
	handlers.contactBroadcaster.Broadcast(ContactEvent{
		ContactID:    contact.ID,
		EventType:    eventType,
		SubmittedAt:  contact.SubmittedAt,
		ContactCount: contactCount,
	})
}

func matchesStatusFilter(contact model.Contact, statusFilter string) bool {
	switch statusFilter {
	case ContactStatusFilterNew:
		return !contact.IsRead()
	case ContactStatusFilterRead:
		return contact.IsRead()
	default:
		return true
	}
}

func matchesSearchTerm(contact model.Contact, searchTerm string) bool {
	if searchTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(contact.Name), searchTerm) ||
		strings.Contains(contact.Phone, searchTerm) ||
		strings.Contains(strings.ToLower(contact.Situation), searchTerm)
}

func toProfileResponse(operatorProfile model.OperatorProfile) profileResponse {
	return profileResponse{
		Name:               operatorProfile.Name,
		RegistrationNumber: operatorProfile.RegistrationNumber,
		Email:              operatorProfile.Email,
		Phone:              operatorProfile.Phone,
		Address:            operatorProfile.Address,
		SelectedAreaIDs:    []string(operatorProfile.SelectedAreaIDs),
		SelectedCount:      len(operatorProfile.SelectedAreaIDs),
		TotalCount:         catalog.Count(),
	}
}

func toContactResponse(contact model.Contact) contactResponse {
	return contactResponse{
		ID:           contact.ID,
		Name:         contact.Name,
		Phone:        contact.Phone,
		Sex:          contact.Sex,
		Age:          contact.Age,
		Situation:    contact.Situation,
		SubmittedAt:  contact.SubmittedAt.Format(time.RFC3339),
		Read:         contact.IsRead(),
		TelLink:      phone.TelLink(contact.Phone),
		WhatsAppLink: phone.WhatsAppLink(contact.Phone),
	}
}

func isKnownCategory(category string) bool {
	for _, knownCategory := range catalog.Categories() {
		if knownCategory == category {
			return true
		}
	}
	return false
}
