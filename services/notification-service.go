package services

import (
	"context"
	"time"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// Notifier delivers a short message to one account.
type Notifier interface {
	Notify(ctx context.Context, accountID, message string) error
}

// NotificationService stores notifications in Cassandra. Without a
// repository it drops notifications and reports reads as unavailable.
type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Enabled() bool {
	return s.repo != nil
}

func (s *NotificationService) Notify(ctx context.Context, accountID, message string) error {
	if !s.Enabled() {
		logging.Logger.Debugf("Event ID: NOTIFICATION_SKIPPED, Description: Notifications disabled, dropping message for %s", accountID)
		return nil
	}
	notification := &models.Notification{
		AccountID: accountID,
		Message:   message,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return storeError(err, "notification")
	}
	logging.Logger.Infof("Event ID: NOTIFICATION_CREATED, Description: Notification %s created for account %s", notification.ID, accountID)
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, accountID string) ([]models.Notification, error) {
	if !s.Enabled() {
		return nil, NewError(ErrorCodeStoreUnavailable, "notifications are disabled")
	}
	notifications, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, storeError(err, "notifications")
	}
	return notifications, nil
}

// MarkAsRead flags a notification of accountID as read. createdAt is
// RFC 3339, as returned in the notification list.
func (s *NotificationService) MarkAsRead(ctx context.Context, accountID, createdAt, id string) error {
	if !s.Enabled() {
		return NewError(ErrorCodeStoreUnavailable, "notifications are disabled")
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return NewError(ErrorCodeInvalidIdentifier, "invalid notification timestamp")
	}
	if err := s.repo.MarkRead(ctx, accountID, ts, id); err != nil {
		return storeError(err, "notification")
	}
	return nil
}
