package httpapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/model"
	"github.com/MarkoPoloResearchLab/advocacia_site/internal/phone"
)

const (
	jsonKeyError  = "error"
	jsonKeyErrors = "errors"
	jsonKeyStatus = "status"

	statusValueOK = "ok"

	errorValueInvalidJSON      = "invalid_json"
	errorValueValidationFailed = "validation_failed"
	errorValueDuplicatePhone   = "duplicate_phone"
	errorValueSaveFailed       = "save_failed"
	errorValueQueryFailed      = "query_failed"
	errorValueRateLimited      = "rate_limited"

	messageDuplicatePhone = "Este telefone já está cadastrado. Verifique se você já enviou um contato anteriormente."

	logEventSaveContact          = "save_contact"
	logEventCheckDuplicateFailed = "check_duplicate_contact"
)

// PublicHandlers serves the unauthenticated contact intake endpoint.
type PublicHandlers struct {
	database                  *gorm.DB
	logger                    *zap.Logger
	contactBroadcaster        *ContactEventBroadcaster
	rateWindow                time.Duration
	maxRequestsPerIPPerWindow int
	rateCountersByIP          map[string]int
	rateCountersMutex         sync.Mutex
}

// NewPublicHandlers constructs the public handlers.
func NewPublicHandlers(database *gorm.DB, logger *zap.Logger, contactBroadcaster *ContactEventBroadcaster) *PublicHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicHandlers{
		database:                  database,
		logger:                    logger,
		contactBroadcaster:        contactBroadcaster,
		rateWindow:                30 * time.Second,
		maxRequestsPerIPPerWindow: 6,
		rateCountersByIP:          make(map[string]int),
	}
}

type createContactRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Sex       string `json:"sex"`
	Age       int    `json:"age"`
	Situation string `json:"situation"`
}

type contactCreatedResponse struct {
	Status      string `json:"status"`
	ContactID   string `json:"contact_id"`
	SubmittedAt string `json:"submitted_at"`
}

// CreateContact validates a contact form submission, rejects duplicates by
// normalized phone number and appends the contact to the store.
func (handlers *PublicHandlers) CreateContact(context *gin.Context) {
	clientIP := context.ClientIP()
	if handlers.isRateLimited(clientIP) {
		context.JSON(http.StatusTooManyRequests, gin.H{jsonKeyError: errorValueRateLimited})
		return
	}

	var payload createContactRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	contact, fieldErrors := model.NewContact(model.ContactInput{
		Name:      payload.Name,
		Phone:     payload.Phone,
		Sex:       payload.Sex,
		Age:       payload.Age,
		Situation: payload.Situation,
	})
	if len(fieldErrors) > 0 {
		context.JSON(http.StatusBadRequest, gin.H{
			jsonKeyError:  errorValueValidationFailed,
			jsonKeyErrors: fieldErrors,
		})
		return
	}

	duplicated, duplicateErr := handlers.phoneAlreadyRegistered(contact.PhoneDigits)
	if duplicateErr != nil {
		handlers.logger.Warn(logEventCheckDuplicateFailed, zap.Error(duplicateErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	if duplicated {
		context.JSON(http.StatusConflict, gin.H{
			jsonKeyError: errorValueDuplicatePhone,
			"message":    messageDuplicatePhone,
		})
		return
	}

	if saveErr := handlers.database.Create(&contact).Error; saveErr != nil {
		handlers.logger.Warn(logEventSaveContact, zap.Error(saveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	handlers.broadcastContactEvent(contact, ContactEventTypeCreated)

	context.JSON(http.StatusOK, contactCreatedResponse{
		Status:      statusValueOK,
		ContactID:   contact.ID,
		SubmittedAt: contact.SubmittedAt.Format(time.RFC3339),
	})
}

// phoneAlreadyRegistered compares the normalized phone against every stored
// contact. The check happens at submit time only; the store itself carries no
// uniqueness constraint.
func (handlers *PublicHandlers) phoneAlreadyRegistered(phoneDigits string) (bool, error) {
	var storedContacts []model.Contact
	if queryErr := handlers.database.Select("phone").Find(&storedContacts).Error; queryErr != nil {
		return false, queryErr
	}
	for _, storedContact := range storedContacts {
		if phone.Digits(storedContact.Phone) == phoneDigits {
			return true, nil
		}
	}
	return false, nil
}

func (handlers *PublicHandlers) broadcastContactEvent(contact model.Contact, eventType string) {
	if handlers.contactBroadcaster == nil {
		return
	}
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

func (handlers *PublicHandlers) isRateLimited(ip string) bool {
	nowBucket := time.Now().Unix() / int64(handlers.rateWindow.Seconds())
	key := fmt.Sprintf("%s:%d", ip, nowBucket)

	handlers.rateCountersMutex.Lock()
	defer handlers.rateCountersMutex.Unlock()

	handlers.rateCountersByIP[key]++
	return handlers.rateCountersByIP[key] > handlers.maxRequestsPerIPPerWindow
}
