package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/jackc/pgx/v5"
)

var _ store.FriendRequestStore = (*PgFriendRequestStore)(nil)

// PgFriendRequestStore resolves friend requests and records friendships.
type PgFriendRequestStore struct {
	db DB
}

func NewPgFriendRequestStore(db DB) *PgFriendRequestStore {
	return &PgFriendRequestStore{db: db}
}

// Resolve moves a pending request to the decided status. Accepting also
// writes the friendship in both directions.
func (s *PgFriendRequestStore) Resolve(ctx context.Context, requestID, recipientID string, decision types.FriendRequestDecision) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	var senderID string
	err = tx.QueryRow(ctx, `
		UPDATE friend_requests SET status = $3, resolved_at = NOW()
		WHERE id = $1 AND recipient_id = $2 AND status = 'pending'
		RETURNING sender_id`, requestID, recipientID, string(decision)).Scan(&senderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("pending friend request %s not found: %w", requestID, store.ErrNotFound)
		}
		return fmt.Errorf("failed to resolve friend request: %w", err)
	}

	if decision == types.FriendRequestAccepted {
		_, err = tx.Exec(ctx, `
			INSERT INTO friendships (user_id, friend_id)
			VALUES ($1, $2), ($2, $1)
			ON CONFLICT DO NOTHING`, senderID, recipientID)
		if err != nil {
			return fmt.Errorf("failed to record friendship: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit friend request: %w", err)
	}
	return nil
}
