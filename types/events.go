package types

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/errors"
)

type EventType string

const (
	CategoryClub         = "CLUB"
	CategoryPost         = "CLUB_POST"
	CategoryNotification = "NOTIFICATION"
	CategoryEvent        = "EVENT"
	CategoryLostFound    = "LOST_FOUND"
)

const (
	EventTypeClubMemberJoined EventType = CategoryClub + "_MEMBER_JOINED"
	EventTypeClubMemberLeft   EventType = CategoryClub + "_MEMBER_LEFT"

	EventTypePostCreated EventType = CategoryPost + "_CREATED"
	EventTypePostUpdated EventType = CategoryPost + "_UPDATED"
	EventTypePostDeleted EventType = CategoryPost + "_DELETED"
	EventTypePostLiked   EventType = CategoryPost + "_LIKED"

	EventTypeNotificationCreated EventType = CategoryNotification + "_CREATED"

	EventTypeEventRSVPUpdated EventType = CategoryEvent + "_RSVP_UPDATED"
	EventTypeEventCommented   EventType = CategoryEvent + "_COMMENTED"

	EventTypeLostFoundResolved  EventType = CategoryLostFound + "_RESOLVED"
	EventTypeLostFoundContacted EventType = CategoryLostFound + "_CONTACTED"
)

// ClubScope is the pub/sub scope for activity inside a club.
func ClubScope(clubID string) string {
	return fmt.Sprintf("club:%s", clubID)
}

// NotificationScope is the pub/sub scope a user's notification stream listens on.
func NotificationScope(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// EventScope is the pub/sub scope for a campus event.
func EventScope(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

// LostFoundScope is the pub/sub scope for a lost-and-found item.
func LostFoundScope(itemID string) string {
	return fmt.Sprintf("lostfound:%s", itemID)
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Scope     string    `json:"scope"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// EventMetadata for tracking and debugging
type EventMetadata struct {
	CorrelationID string            `json:"correlationId,omitempty"`
	Source        string            `json:"source"`
	Tags          map[string]string `json:"tags,omitempty"`
}

type Event struct {
	BaseEvent
	Metadata EventMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

func (e Event) Validate() error {
	if e.ID == "" {
		return errors.ValidationFailed("invalid event", "event ID is required")
	}
	if e.Type == "" {
		return errors.ValidationFailed("invalid event", "event type is required")
	}
	if e.Scope == "" {
		return errors.ValidationFailed("invalid event", "scope is required")
	}
	if e.Timestamp.IsZero() {
		return errors.ValidationFailed("invalid event", "timestamp is required")
	}
	return nil
}

// EventPublisher fans realtime events out to subscribers of a scope.
type EventPublisher interface {
	Publish(ctx context.Context, scope string, event Event) error
	Subscribe(ctx context.Context, scope string, subscriberID string, filters ...EventType) (<-chan Event, error)
	Unsubscribe(ctx context.Context, scope string, subscriberID string) error
}

// EventHandler consumes events routed in-process.
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event) error
	SupportedEvents() []EventType
}

type PostLikedPayload struct {
	PostID      string `json:"postId"`
	ClubID      string `json:"clubId"`
	AuthorID    string `json:"authorId"`
	Liked       bool   `json:"liked"`
	Likes       int    `json:"likes"`
	LikedBy     string `json:"likedBy"`
	LikerName   string `json:"likerName"`
	LikerAvatar string `json:"likerAvatar,omitempty"`
}

type EventCommentedPayload struct {
	EventID      string `json:"eventId"`
	EventTitle   string `json:"eventTitle"`
	OrganizerID  string `json:"organizerId"`
	CommentID    string `json:"commentId"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
}

type MembershipPayload struct {
	ClubID      string `json:"clubId"`
	UserID      string `json:"userId"`
	MemberCount int    `json:"memberCount"`
}

type LostFoundContactPayload struct {
	ItemID       string `json:"itemId"`
	ItemTitle    string `json:"itemTitle"`
	ReporterID   string `json:"reporterId"`
	ChatID       string `json:"chatId"`
	SenderID     string `json:"senderId"`
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar,omitempty"`
	Message      string `json:"message"`
}
