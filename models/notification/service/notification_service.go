package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRecentLimit is the dropdown size used by Recent when n <= 0.
const DefaultRecentLimit = 5

// Emailer sends an email copy of a notification.
type Emailer interface {
	SendNotificationEmail(ctx context.Context, to string, n types.Notification) error
}

// NotificationService is the notification centre: reading and acknowledging
// notifications, resolving friend requests, and creating new notifications.
type NotificationService struct {
	notifications  store.NotificationStore
	users          store.UserStore
	friendRequests store.FriendRequestStore
	publisher      types.EventPublisher
	emailer        Emailer
	logger         *zap.Logger
	now            func() time.Time
}

// NewNotificationService creates the service. emailer may be nil.
func NewNotificationService(ns store.NotificationStore, us store.UserStore, fr store.FriendRequestStore, ep types.EventPublisher, emailer Emailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications:  ns,
		users:          us,
		friendRequests: fr,
		publisher:      ep,
		emailer:        emailer,
		logger:         logger.Named("NotificationService"),
		now:            time.Now,
	}
}

// GetNotifications returns every notification addressed to the actor, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, actor types.Actor) ([]types.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, actor.UserID, 0)
	if err != nil {
		return nil, ierrors.FromStore(err, "Notification", "")
	}
	return list, nil
}

// Recent returns the newest n notifications for the dropdown.
func (s *NotificationService) Recent(ctx context.Context, actor types.Actor, n int) ([]types.Notification, error) {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	list, err := s.notifications.ListByUser(ctx, actor.UserID, n)
	if err != nil {
		return nil, ierrors.FromStore(err, "Notification", "")
	}
	return list, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor types.Actor) (int64, error) {
	count, err := s.notifications.GetUnreadCount(ctx, actor.UserID)
	if err != nil {
		return 0, ierrors.FromStore(err, "Notification", "")
	}
	return count, nil
}

// MarkNotificationAsRead marks one of the actor's notifications read.
// Marking an already read notification succeeds.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, actor types.Actor, notificationID string) error {
	if err := s.notifications.MarkRead(ctx, notificationID, actor.UserID); err != nil {
		return ierrors.FromStore(err, "Notification", notificationID)
	}
	s.logger.Debug("Notification marked as read",
		zap.String("notificationID", notificationID),
		zap.String("userID", actor.UserID))
	return nil
}

// MarkAllNotificationsAsRead returns the number of notifications it changed.
func (s *NotificationService) MarkAllNotificationsAsRead(ctx context.Context, actor types.Actor) (int64, error) {
	affected, err := s.notifications.MarkAllReadByUser(ctx, actor.UserID)
	if err != nil {
		return 0, ierrors.FromStore(err, "Notification", "")
	}
	s.logger.Info("All notifications marked as read",
		zap.String("userID", actor.UserID),
		zap.Int64("affectedRows", affected))
	return affected, nil
}

func (s *NotificationService) AcceptFriendRequest(ctx context.Context, actor types.Actor, notificationID string) error {
	return s.resolveFriendRequest(ctx, actor, notificationID, types.FriendRequestAccepted)
}

func (s *NotificationService) DeclineFriendRequest(ctx context.Context, actor types.Actor, notificationID string) error {
	return s.resolveFriendRequest(ctx, actor, notificationID, types.FriendRequestDeclined)
}

// resolveFriendRequest applies the decision, then marks the notification read.
// The two writes are not atomic; a failed mark-read is returned and can be
// retried on its own.
func (s *NotificationService) resolveFriendRequest(ctx context.Context, actor types.Actor, notificationID string, decision types.FriendRequestDecision) error {
	log := s.logger.With(
		zap.String("notificationID", notificationID),
		zap.String("userID", actor.UserID),
		zap.String("decision", string(decision)))

	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return ierrors.FromStore(err, "Notification", notificationID)
	}
	if !n.BelongsTo(actor.UserID) {
		return ierrors.NotOwner("This notification is addressed to another user")
	}
	if n.Type != types.NotificationTypeFriendRequest || n.RequestID == "" {
		return errors.ValidationFailed("Not a friend request", "notification has no pending friend request")
	}

	if err := s.friendRequests.Resolve(ctx, n.RequestID, actor.UserID, decision); err != nil {
		mapped := ierrors.FromStore(err, "Friend request", n.RequestID)
		if appErr, ok := errors.As(mapped); ok && appErr.Type == errors.NotFoundError {
			appErr.Message = "Friend request is no longer pending"
		}
		return mapped
	}

	if err := s.notifications.MarkRead(ctx, notificationID, actor.UserID); err != nil {
		log.Warn("Friend request resolved but notification not marked read", zap.Error(err))
		return ierrors.FromStore(err, "Notification", notificationID)
	}

	log.Info("Friend request resolved")
	return nil
}

// Create stores a notification for n.UserID unless the recipient disabled
// that type. created reports whether anything was stored.
func (s *NotificationService) Create(ctx context.Context, n *types.Notification) (created bool, err error) {
	log := s.logger.With(zap.String("userID", n.UserID), zap.String("type", string(n.Type)))

	if !n.Type.IsValid() {
		return false, errors.ValidationFailed("invalid notification", fmt.Sprintf("unknown type %q", n.Type))
	}

	profile, err := s.users.GetProfile(ctx, n.UserID)
	settings := types.DefaultNotificationSettings()
	switch {
	case err == nil:
		settings = profile.NotificationSettings
	case stderrors.Is(err, store.ErrNotFound):
		profile = nil
	default:
		return false, ierrors.FromStore(err, "User", n.UserID)
	}

	if !settings.Allows(n.Type) {
		log.Debug("Notification skipped by recipient preference")
		return false, nil
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Read = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if _, err := s.notifications.Create(ctx, n); err != nil {
		return false, ierrors.FromStore(err, "Notification", n.ID)
	}
	log.Info("Notification created", zap.String("notificationID", n.ID))

	if err := events.PublishEventWithContext(s.publisher, ctx, types.EventTypeNotificationCreated,
		types.NotificationScope(n.UserID), n.SenderID, n, "NotificationService"); err != nil {
		log.Warn("Failed to publish notification event", zap.Error(err))
	}

	s.sendEmailCopy(ctx, profile, *n)
	return true, nil
}

// sendEmailCopy mails friend requests and messages to recipients with an email
// address. Failures are logged only.
func (s *NotificationService) sendEmailCopy(ctx context.Context, recipient *types.UserProfile, n types.Notification) {
	if s.emailer == nil || recipient == nil || recipient.Email == "" {
		return
	}
	if n.Type != types.NotificationTypeFriendRequest && n.Type != types.NotificationTypeMessage {
		return
	}
	if err := s.emailer.SendNotificationEmail(ctx, recipient.Email, n); err != nil {
		s.logger.Warn("Failed to send notification email",
			zap.String("notificationID", n.ID),
			zap.Error(err))
	}
}

// DeleteAllForUser removes every notification addressed to userID.
func (s *NotificationService) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.notifications.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, ierrors.FromStore(err, "Notification", "")
	}
	return deleted, nil
}
