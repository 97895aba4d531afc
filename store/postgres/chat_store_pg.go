package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
)

var _ store.ChatStore = (*PgChatStore)(nil)

// PgChatStore persists direct chats. A pair of users has at most one chat,
// stored with user_a < user_b.
type PgChatStore struct {
	db DB
}

func NewPgChatStore(db DB) *PgChatStore {
	return &PgChatStore{db: db}
}

func orderedPair(a, b string) (string, string) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// GetOrCreateDirectChat returns the existing chat for the pair or opens one.
func (s *PgChatStore) GetOrCreateDirectChat(ctx context.Context, userA, userB string) (*types.DirectChat, error) {
	if userA == "" || userB == "" || userA == userB {
		return nil, fmt.Errorf("a direct chat needs two distinct users: %w", store.ErrConflict)
	}
	a, b := orderedPair(userA, userB)

	var c types.DirectChat
	err := s.db.QueryRow(ctx, `
		INSERT INTO direct_chats (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a
		RETURNING id, user_a, user_b, created_at`,
		uuid.NewString(), a, b, now()).Scan(&c.ID, &c.UserA, &c.UserB, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to open direct chat: %w", err)
	}
	return &c, nil
}

// SendMessage appends a message to a chat.
func (s *PgChatStore) SendMessage(ctx context.Context, msg *types.ChatMessage) (string, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_messages (id, chat_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.Content, msg.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return "", fmt.Errorf("chat with id %s not found: %w", msg.ChatID, store.ErrNotFound)
		}
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}
