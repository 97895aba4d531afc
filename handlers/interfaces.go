package handlers

import (
	"context"

	"github.com/campusconnect/campus-backend/types"
)

// ClubServiceInterface is the club and feed surface used by ClubHandler.
type ClubServiceInterface interface {
	ListClubs(ctx context.Context, filter types.ClubFilter) ([]types.Club, error)
	TopClubs(ctx context.Context, n int) ([]types.Club, error)
	GetClub(ctx context.Context, clubID string) (*types.Club, error)
	JoinClub(ctx context.Context, actor types.Actor, clubID string) (*types.MembershipPayload, error)
	LeaveClub(ctx context.Context, actor types.Actor, clubID string) (*types.MembershipPayload, error)
	GetClubMembers(ctx context.Context, clubID string) ([]types.ClubMember, error)
	GetJoinedClubs(ctx context.Context, actor types.Actor) ([]string, error)
	GetClubPosts(ctx context.Context, clubID string) ([]types.ClubPost, error)
	PostToClub(ctx context.Context, actor types.Actor, clubID string, input types.NewPostInput) (*types.ClubPost, error)
	EditPost(ctx context.Context, actor types.Actor, postID, content string) (*types.ClubPost, error)
	DeletePost(ctx context.Context, actor types.Actor, postID string) error
	LikePost(ctx context.Context, actor types.Actor, postID string) (*types.ClubPost, error)
}

// NotificationServiceInterface is the inbox surface used by NotificationHandler.
type NotificationServiceInterface interface {
	GetNotifications(ctx context.Context, actor types.Actor) ([]types.Notification, error)
	Recent(ctx context.Context, actor types.Actor, n int) ([]types.Notification, error)
	UnreadCount(ctx context.Context, actor types.Actor) (int64, error)
	MarkNotificationAsRead(ctx context.Context, actor types.Actor, notificationID string) error
	MarkAllNotificationsAsRead(ctx context.Context, actor types.Actor) (int64, error)
	AcceptFriendRequest(ctx context.Context, actor types.Actor, notificationID string) error
	DeclineFriendRequest(ctx context.Context, actor types.Actor, notificationID string) error
}

// EventServiceInterface is the campus event surface used by EventHandler.
type EventServiceInterface interface {
	ListEvents(ctx context.Context, category string) ([]types.CampusEvent, error)
	GetEvent(ctx context.Context, id string) (*types.CampusEvent, error)
	CreateEvent(ctx context.Context, actor types.Actor, in types.NewEventInput) (*types.CampusEvent, error)
	ToggleRSVP(ctx context.Context, actor types.Actor, eventID string) (*types.RSVPResult, error)
	CancelRSVP(ctx context.Context, actor types.Actor, eventID string) (*types.RSVPResult, error)
	ListComments(ctx context.Context, eventID string) ([]types.Comment, error)
	AddComment(ctx context.Context, actor types.Actor, eventID, content string) (*types.Comment, error)
	DeleteComment(ctx context.Context, actor types.Actor, eventID, commentID string) error
}

// LostFoundServiceInterface is the board surface used by LostFoundHandler.
type LostFoundServiceInterface interface {
	ListItems(ctx context.Context, filter types.LostFoundFilter) ([]types.LostFoundItem, error)
	GetItem(ctx context.Context, id string) (*types.LostFoundItem, error)
	CreateItem(ctx context.Context, actor types.Actor, in types.NewLostFoundInput) (*types.LostFoundItem, error)
	ResolveItem(ctx context.Context, actor types.Actor, id string) error
	ContactReporter(ctx context.Context, actor types.Actor, itemID, message string) (*types.ContactResult, error)
	ListComments(ctx context.Context, itemID string) ([]types.Comment, error)
	AddComment(ctx context.Context, actor types.Actor, itemID, content string) (*types.Comment, error)
	DeleteComment(ctx context.Context, actor types.Actor, itemID, commentID string) error
}

// SettingsServiceInterface is the account surface used by SettingsHandler.
type SettingsServiceInterface interface {
	GetSettings(ctx context.Context, actor types.Actor) (*types.SettingsView, error)
	UpdateProfile(ctx context.Context, actor types.Actor, update types.ProfileUpdate) (*types.UserProfile, error)
	UpdateNotificationSettings(ctx context.Context, actor types.Actor, settings types.NotificationSettings) error
	UploadProfilePhoto(ctx context.Context, actor types.Actor, img types.ImageUpload) (string, error)
	DeleteAccount(ctx context.Context, actor types.Actor) error
}

// HealthChecker reports component health and readiness.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
	IsReady(ctx context.Context) bool
}
