package types

import (
	"strings"
	"time"
)

type NotificationType string

const (
	NotificationTypeFriendRequest NotificationType = "friend_request"
	NotificationTypeLike          NotificationType = "like"
	NotificationTypeComment       NotificationType = "comment"
	NotificationTypeMessage       NotificationType = "message"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeFriendRequest, NotificationTypeLike, NotificationTypeComment, NotificationTypeMessage:
		return true
	}
	return false
}

// Notification is addressed to UserID. Read only moves from false to true.
// RequestID is set only for friend_request notifications.
type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId" validate:"required"`
	Type         NotificationType `json:"type" validate:"required"`
	Read         bool             `json:"read"`
	SenderID     string           `json:"senderId,omitempty"`
	SenderName   string           `json:"senderName"`
	SenderAvatar string           `json:"senderAvatar,omitempty"`
	Message      string           `json:"message"`
	RequestID    string           `json:"requestId,omitempty" validate:"required_if=Type friend_request"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func (n *Notification) Normalize(now time.Time) {
	if strings.TrimSpace(n.SenderName) == "" {
		n.SenderName = UnknownUserName
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
}

// BelongsTo reports whether the notification is addressed to userID.
func (n Notification) BelongsTo(userID string) bool {
	return n.UserID != "" && n.UserID == userID
}

// NotificationSettings are per-user opt-outs, all enabled by default.
type NotificationSettings struct {
	FriendRequests bool `json:"friendRequests"`
	Likes          bool `json:"likes"`
	Comments       bool `json:"comments"`
	Messages       bool `json:"messages"`
}

// DefaultNotificationSettings enables every notification type.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{FriendRequests: true, Likes: true, Comments: true, Messages: true}
}

// Allows reports whether a notification of type t should be delivered.
func (s NotificationSettings) Allows(t NotificationType) bool {
	switch t {
	case NotificationTypeFriendRequest:
		return s.FriendRequests
	case NotificationTypeLike:
		return s.Likes
	case NotificationTypeComment:
		return s.Comments
	case NotificationTypeMessage:
		return s.Messages
	}
	return false
}

// FriendRequestDecision is the outcome applied to a pending friend request.
type FriendRequestDecision string

const (
	FriendRequestAccepted FriendRequestDecision = "accepted"
	FriendRequestDeclined FriendRequestDecision = "declined"
)
