// Package store defines the persistence gateway: one typed interface per entity
// family. Implementations normalize records on read so callers never handle
// partially written rows.
package store

import (
	"context"
	"time"

	"github.com/campusconnect/campus-backend/types"
)

// ClubStore persists clubs and their membership roster.
type ClubStore interface {
	List(ctx context.Context) ([]types.Club, error)
	GetByID(ctx context.Context, id string) (*types.Club, error)
	Create(ctx context.Context, club *types.Club) (string, error)
	Count(ctx context.Context) (int64, error)

	// AddMember inserts the membership and increments member_count in one
	// transaction. Returns ErrConflict if the user is already a member.
	AddMember(ctx context.Context, member *types.ClubMember) (memberCount int, err error)
	// RemoveMember deletes every membership of (clubID, userID) and decrements
	// member_count by the number removed. Returns ErrNotFound if none existed.
	RemoveMember(ctx context.Context, clubID, userID string) (memberCount int, err error)
	ListMembers(ctx context.Context, clubID string) ([]types.ClubMember, error)
	ListJoinedClubIDs(ctx context.Context, userID string) ([]string, error)
	// RemoveAllMemberships drops a user from every club, keeping counters in step.
	RemoveAllMemberships(ctx context.Context, userID string) (int64, error)
	// ReconcileMemberCounts recomputes member_count from club_members and returns
	// the number of clubs that were corrected.
	ReconcileMemberCounts(ctx context.Context) (int64, error)
}

// PostStore persists club feed posts.
type PostStore interface {
	Create(ctx context.Context, post *types.ClubPost) (string, error)
	GetByID(ctx context.Context, id string) (*types.ClubPost, error)
	// ListByClub returns posts newest first. Empty slice when there are none.
	ListByClub(ctx context.Context, clubID string) ([]types.ClubPost, error)
	UpdateContent(ctx context.Context, id, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	// ToggleLike adds or removes userID from liked_by and sets likes to the set
	// size under a row lock. liked reports the state after the toggle.
	ToggleLike(ctx context.Context, postID, userID string) (post *types.ClubPost, liked bool, err error)
	// ReconcileLikeCounts rewrites likes from liked_by where they disagree.
	ReconcileLikeCounts(ctx context.Context) (int64, error)
}

// NotificationStore persists notification records addressed to users.
type NotificationStore interface {
	Create(ctx context.Context, n *types.Notification) (string, error)
	GetByID(ctx context.Context, id string) (*types.Notification, error)
	// ListByUser returns notifications newest first. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]types.Notification, error)
	// MarkRead sets read=true. Returns ErrNotFound or ErrForbidden when the
	// notification is missing or addressed to someone else.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllReadByUser(ctx context.Context, userID string) (int64, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}

// EventStore persists campus events and their attendee lists.
type EventStore interface {
	// List returns events by date ascending. An empty category lists all.
	List(ctx context.Context, category string) ([]types.CampusEvent, error)
	GetByID(ctx context.Context, id string) (*types.CampusEvent, error)
	Create(ctx context.Context, e *types.CampusEvent) (string, error)
	// AddAttendee is a no-op for an existing attendee. Returns ErrCapacity when full.
	AddAttendee(ctx context.Context, eventID, userID string) (*types.CampusEvent, error)
	RemoveAttendee(ctx context.Context, eventID, userID string) (*types.CampusEvent, error)
	RemoveAttendeeEverywhere(ctx context.Context, userID string) (int64, error)
}

// CommentStore persists comments for events and lost-and-found items.
type CommentStore interface {
	Create(ctx context.Context, c *types.Comment) (string, error)
	GetByID(ctx context.Context, parent types.CommentParent, id string) (*types.Comment, error)
	// ListByParent returns comments oldest first.
	ListByParent(ctx context.Context, parent types.CommentParent, parentID string) ([]types.Comment, error)
	Delete(ctx context.Context, parent types.CommentParent, id string) error
}

// LostFoundStore persists the lost-and-found board.
type LostFoundStore interface {
	// ListOpen returns unresolved items newest first.
	ListOpen(ctx context.Context) ([]types.LostFoundItem, error)
	GetByID(ctx context.Context, id string) (*types.LostFoundItem, error)
	Create(ctx context.Context, item *types.LostFoundItem) (*types.LostFoundItem, error)
	MarkResolved(ctx context.Context, id string) error
}

// UserStore persists user settings documents.
type UserStore interface {
	GetProfile(ctx context.Context, id string) (*types.UserProfile, error)
	// CreateProfile inserts the profile if it does not exist and returns the stored row.
	CreateProfile(ctx context.Context, p *types.UserProfile) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, update types.ProfileUpdate) (*types.UserProfile, error)
	UpdateNotificationSettings(ctx context.Context, id string, s types.NotificationSettings) error
	UpdateProfilePic(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}

// FriendRequestStore resolves pending friend requests.
type FriendRequestStore interface {
	// Resolve applies decision to a pending request addressed to recipientID.
	// Returns ErrNotFound if there is no such pending request.
	Resolve(ctx context.Context, requestID, recipientID string, decision types.FriendRequestDecision) error
}

// ChatStore persists direct chats opened from the board.
type ChatStore interface {
	GetOrCreateDirectChat(ctx context.Context, userA, userB string) (*types.DirectChat, error)
	SendMessage(ctx context.Context, msg *types.ChatMessage) (string, error)
}
