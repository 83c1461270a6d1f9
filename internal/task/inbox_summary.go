package task

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/model"
)

const (
	logEventInboxSummary       = "inbox_summary"
	logEventInboxSummaryFailed = "inbox_summary_failed"

	logFieldTotalContacts  = "total_contacts"
	logFieldUnreadContacts = "unread_contacts"
)

// InboxSummaryJob periodically counts stored contacts and logs an inbox
// summary so the operator log shows intake volume without opening the
// dashboard.
type InboxSummaryJob struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewInboxSummaryJob constructs the summary job.
func NewInboxSummaryJob(database *gorm.DB, logger *zap.Logger) *InboxSummaryJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboxSummaryJob{database: database, logger: logger}
}

// Run counts total and unread contacts and logs the result.
func (job *InboxSummaryJob) Run(ctx context.Context) {
	totalCount, unreadCount, countErr := job.Counts(ctx)
	if countErr != nil {
		job.logger.Warn(logEventInboxSummaryFailed, zap.Error(countErr))
		return
	}
	job.logger.Info(logEventInboxSummary,
		zap.Int64(logFieldTotalContacts, totalCount),
		zap.Int64(logFieldUnreadContacts, unreadCount),
	)
}

// Counts returns the total and unread contact counts.
func (job *InboxSummaryJob) Counts(ctx context.Context) (int64, int64, error) {
	var totalCount int64
	if countErr := job.database.WithContext(ctx).Model(&model.Contact{}).Count(&totalCount).Error; countErr != nil {
		return 0, 0, countErr
	}

	var unreadCount int64
	if countErr := job.database.WithContext(ctx).Model(&model.Contact{}).
		Where("read_at IS NULL").
		Count(&unreadCount).Error; countErr != nil {
		return 0, 0, countErr
	}

	return totalCount, unreadCount, nil
}

// Scheduler wires the job into an interval scheduler.
func (job *InboxSummaryJob) Scheduler(interval time.Duration) *Scheduler {
	return NewScheduler(interval, job.Run)
}
