package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Ensure PgNotificationStore implements store.NotificationStore.
var _ store.NotificationStore = (*PgNotificationStore)(nil)

const notificationColumns = `id, user_id, type, read, sender_id, sender_name, sender_avatar, message, request_id, created_at`

type PgNotificationStore struct {
	db DB
}

// NewPgNotificationStore creates a new PostgreSQL notification store.
func NewPgNotificationStore(db DB) *PgNotificationStore {
	return &PgNotificationStore{db: db}
}

func scanNotification(row scanner) (*types.Notification, error) {
	var n types.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Read, &n.SenderID, &n.SenderName,
		&n.SenderAvatar, &n.Message, &n.RequestID, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Normalize(now())
	return &n, nil
}

// Create inserts a new unread notification.
func (s *PgNotificationStore) Create(ctx context.Context, n *types.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Read = false
	n.Normalize(now())
	if err := validation.Struct("notification", n); err != nil {
		return "", err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, read, sender_id, sender_name, sender_avatar, message, request_id, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, n.Type, n.SenderID, n.SenderName, n.SenderAvatar, n.Message, n.RequestID, n.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return n.ID, nil
}

// GetByID retrieves a notification by its ID.
func (s *PgNotificationStore) GetByID(ctx context.Context, id string) (*types.Notification, error) {
	n, err := scanNotification(s.db.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("notification with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification by id: %w", err)
	}
	return n, nil
}

// ListByUser returns a user's notifications newest first.
func (s *PgNotificationStore) ListByUser(ctx context.Context, userID string, limit int) ([]types.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications by user: %w", err)
	}
	defer rows.Close()

	notifications := []types.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration for notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a single notification as read for its recipient. Marking an
// already read notification succeeds.
func (s *PgNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	cmdTag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var ownerID string
	err = s.db.QueryRow(ctx, `SELECT user_id FROM notifications WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("cannot mark notification %s as read: %w", id, store.ErrNotFound)
		}
		return fmt.Errorf("failed to check notification owner: %w", err)
	}
	return fmt.Errorf("user %s not authorized to mark notification %s as read: %w", userID, id, store.ErrForbidden)
}

// MarkAllReadByUser marks all unread notifications as read for a specific user.
func (s *PgNotificationStore) MarkAllReadByUser(ctx context.Context, userID string) (int64, error) {
	cmdTag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// GetUnreadCount retrieves the count of unread notifications for a specific user.
func (s *PgNotificationStore) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread notification count: %w", err)
	}
	return count, nil
}

// DeleteAllByUser removes every notification addressed to userID.
func (s *PgNotificationStore) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
