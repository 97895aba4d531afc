package types

import (
	"strings"
	"time"
)

// CommentParent names the collection a comment hangs off.
type CommentParent string

const (
	CommentParentEvent     CommentParent = "event"
	CommentParentLostFound CommentParent = "lost_found"
)

// Comment belongs to its author; only the author may delete it.
type Comment struct {
	ID           string        `json:"id"`
	ParentType   CommentParent `json:"-"`
	ParentID     string        `json:"parentId" validate:"required"`
	AuthorID     string        `json:"authorId" validate:"required"`
	AuthorName   string        `json:"authorName"`
	AuthorAvatar string        `json:"authorAvatar,omitempty"`
	Content      string        `json:"content" validate:"required,max=2000"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (c *Comment) Normalize(now time.Time) {
	if strings.TrimSpace(c.AuthorName) == "" {
		c.AuthorName = UnknownUserName
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
}

// DirectChat is a two person conversation opened from the lost and found board.
type DirectChat struct {
	ID        string    `json:"id"`
	UserA     string    `json:"userA"`
	UserB     string    `json:"userB"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is a message inside a DirectChat.
type ChatMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
