package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusconnect/campus-backend/internal/validation"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.UserStore = (*PgUserStore)(nil)

const userColumns = `id, display_name, major, email, profile_pic, photo_url,
	notify_friend_requests, notify_likes, notify_comments, notify_messages, created_at, updated_at`

// PgUserStore implements store.UserStore using PostgreSQL.
type PgUserStore struct {
	db DB
}

// NewPgUserStore creates a new PostgreSQL user store.
func NewPgUserStore(db DB) *PgUserStore {
	return &PgUserStore{db: db}
}

func scanUser(row scanner) (*types.UserProfile, error) {
	var u types.UserProfile
	ns := &u.NotificationSettings
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Major, &u.Email, &u.ProfilePic, &u.PhotoURL,
		&ns.FriendRequests, &ns.Likes, &ns.Comments, &ns.Messages, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Normalize(now())
	return &u, nil
}

// GetProfile retrieves a user's settings document.
func (s *PgUserStore) GetProfile(ctx context.Context, id string) (*types.UserProfile, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateProfile inserts the profile unless one already exists, then returns
// the stored row either way.
func (s *PgUserStore) CreateProfile(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Normalize(now())
	if err := validation.Struct("profile", p); err != nil {
		return nil, err
	}

	ns := p.NotificationSettings
	u, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (id, display_name, major, email, profile_pic, photo_url,
			notify_friend_requests, notify_likes, notify_comments, notify_messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING `+userColumns,
		p.ID, p.DisplayName, p.Major, p.Email, p.ProfilePic, p.PhotoURL,
		ns.FriendRequests, ns.Likes, ns.Comments, ns.Messages, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// UpdateProfile writes the editable profile fields.
func (s *PgUserStore) UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.UserProfile, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		UPDATE users SET display_name = $2, major = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+userColumns,
		id, strings.TrimSpace(update.DisplayName), strings.TrimSpace(update.Major), now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (s *PgUserStore) UpdateNotificationSettings(ctx context.Context, id string, ns types.NotificationSettings) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET notify_friend_requests = $2, notify_likes = $3, notify_comments = $4, notify_messages = $5, updated_at = $6
		WHERE id = $1`,
		id, ns.FriendRequests, ns.Likes, ns.Comments, ns.Messages, now())
	if err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *PgUserStore) UpdateProfilePic(ctx context.Context, id, url string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET profile_pic = $2, updated_at = $3 WHERE id = $1`, id, url, now())
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found: %w", id, store.ErrNotFound)
	}
	return nil
}

// Delete removes the settings document. Missing users are not an error.
func (s *PgUserStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
