package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// ListByAccount returns the notifications of one account, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, accountID string, createdAt time.Time, id string) error
	Close()
}

type CassandraNotificationRepository struct {
	session *gocql.Session
	timeout time.Duration
}

// NewCassandraNotificationRepository creates the keyspace when missing and
// opens a session bound to it.
func NewCassandraNotificationRepository(hosts []string, keyspace string, timeout time.Duration) (*CassandraNotificationRepository, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	cluster.Timeout = timeout
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to cassandra")
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
		 WITH replication = {
			 'class': 'SimpleStrategy',
			 'replication_factor': 1
		 }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create keyspace")
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s keyspace", keyspace)
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", keyspace)
	return &CassandraNotificationRepository{session: session, timeout: timeout}, nil
}

func (r *CassandraNotificationRepository) Close() {
	r.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_SESSION_CLOSED, Description: Cassandra session closed")
}

// Ping is used by the health check.
func (r *CassandraNotificationRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.session.Query(`SELECT now() FROM system.local`).WithContext(ctx).Exec()
}

func (r *CassandraNotificationRepository) CreateTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			account_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((account_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return errors.Wrap(err, "failed to create notifications table")
	}
	logging.Logger.Info("Event ID: NOTIFICATIONS_TABLE_READY, Description: Notifications table created successfully")
	return nil
}

func (r *CassandraNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	id, err := gocql.ParseUUID(notification.ID)
	if err != nil {
		return errors.Wrap(err, "notifications.create")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err = r.session.Query(
		`INSERT INTO notifications (id, account_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?)`,
		id, notification.AccountID, notification.Message, notification.CreatedAt, notification.IsRead,
	).WithContext(ctx).Exec()
	return classifyCQL("notifications.create", err)
}

func (r *CassandraNotificationRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	iter := r.session.Query(
		`SELECT id, account_id, message, created_at, is_read
		 FROM notifications WHERE account_id = ?`, accountID,
	).WithContext(ctx).Iter()

	notifications := make([]models.Notification, 0)
	var (
		id           gocql.UUID
		notification models.Notification
	)
	for iter.Scan(&id, &notification.AccountID, &notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notification.ID = id.String()
		notifications = append(notifications, notification)
	}
	if err := iter.Close(); err != nil {
		return nil, classifyCQL("notifications.list", err)
	}
	return notifications, nil
}

// MarkRead flags one notification of accountID as read. UPDATE in CQL is
// an upsert, so the row is looked up first.
func (r *CassandraNotificationRepository) MarkRead(ctx context.Context, accountID string, createdAt time.Time, id string) error {
	uuid, err := gocql.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var found gocql.UUID
	err = r.session.Query(
		`SELECT id FROM notifications WHERE account_id = ? AND created_at = ? AND id = ?`,
		accountID, createdAt, uuid,
	).WithContext(ctx).Scan(&found)
	if err != nil {
		return classifyCQL("notifications.mark_read", err)
	}

	err = r.session.Query(
		`UPDATE notifications SET is_read = true WHERE account_id = ? AND created_at = ? AND id = ?`,
		accountID, createdAt, uuid,
	).WithContext(ctx).Exec()
	return classifyCQL("notifications.mark_read", err)
}

func classifyCQL(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrNotFound
	}
	logging.Logger.Errorf("Event ID: NOTIFICATION_STORE_ERROR, Description: %s failed: %v", op, err)
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
