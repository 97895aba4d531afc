package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/internal/storage"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"go.uber.org/zap"
)

const profilePicFolder = "profile-pics"

// SettingsService manages a user's profile, notification preferences, profile
// photo and account deletion.
type SettingsService struct {
	users         store.UserStore
	clubs         store.ClubStore
	events        store.EventStore
	notifications store.NotificationStore
	photos        storage.FileStorage
	imageLimits   storage.ImageLimits
	logger        *zap.Logger
	now           func() time.Time
}

// NewSettingsService wires the service. photos is the profile picture bucket.
func NewSettingsService(users store.UserStore, clubs store.ClubStore, events store.EventStore, notifications store.NotificationStore, photos storage.FileStorage, limits storage.ImageLimits, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		users:         users,
		clubs:         clubs,
		events:        events,
		notifications: notifications,
		photos:        photos,
		imageLimits:   limits,
		logger:        logger.Named("SettingsService"),
		now:           time.Now,
	}
}

// GetProfile returns the actor's profile, creating it from the token claims on
// first access.
func (s *SettingsService) GetProfile(ctx context.Context, actor types.Actor) (*types.UserProfile, error) {
	p, err := s.users.GetProfile(ctx, actor.UserID)
	if err == nil {
		return p, nil
	}
	if !stderrors.Is(err, store.ErrNotFound) {
		return nil, ierrors.FromStore(err, "User", actor.UserID)
	}

	now := s.now()
	p, err = s.users.CreateProfile(ctx, &types.UserProfile{
		ID:                   actor.UserID,
		DisplayName:          strings.TrimSpace(actor.DisplayName),
		Email:                actor.Email,
		PhotoURL:             actor.AvatarURL,
		NotificationSettings: types.DefaultNotificationSettings(),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		return nil, ierrors.FromStore(err, "User", actor.UserID)
	}
	s.logger.Info("Profile created on first access",
		zap.String("userID", actor.UserID),
		zap.String("email", logger.MaskEmail(actor.Email)))
	return p, nil
}

// GetSettings returns the profile with its resolved avatar.
func (s *SettingsService) GetSettings(ctx context.Context, actor types.Actor) (*types.SettingsView, error) {
	p, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &types.SettingsView{Profile: *p, Avatar: p.AvatarURL(), Initial: p.Initial()}, nil
}

func (s *SettingsService) UpdateProfile(ctx context.Context, actor types.Actor, update types.ProfileUpdate) (*types.UserProfile, error) {
	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Major = strings.TrimSpace(update.Major)
	if update.DisplayName == "" {
		return nil, errors.ValidationFailed("Display name cannot be empty", "displayName is required")
	}
	if _, err := s.GetProfile(ctx, actor); err != nil {
		return nil, err
	}
	p, err := s.users.UpdateProfile(ctx, actor.UserID, update)
	if err != nil {
		return nil, ierrors.FromStore(err, "User", actor.UserID)
	}
	return p, nil
}

func (s *SettingsService) UpdateNotificationSettings(ctx context.Context, actor types.Actor, settings types.NotificationSettings) error {
	if _, err := s.GetProfile(ctx, actor); err != nil {
		return err
	}
	if err := s.users.UpdateNotificationSettings(ctx, actor.UserID, settings); err != nil {
		return ierrors.FromStore(err, "User", actor.UserID)
	}
	s.logger.Debug("Notification settings updated", zap.String("userID", actor.UserID))
	return nil
}

// UploadProfilePhoto compresses img, stores it in the profile bucket and
// points the profile at it. The previous photo is removed best-effort.
func (s *SettingsService) UploadProfilePhoto(ctx context.Context, actor types.Actor, img types.ImageUpload) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.ValidationFailed("No image provided", "image is required")
	}
	current, err := s.GetProfile(ctx, actor)
	if err != nil {
		return "", err
	}

	data, contentType, err := storage.PrepareImage(img.Data, s.imageLimits)
	if err != nil {
		if stderrors.Is(err, storage.ErrUnsupportedImage) {
			return "", errors.ValidationFailed("Unsupported image", err.Error())
		}
		return "", errors.ValidationFailed("Could not process image", err.Error())
	}

	key := fmt.Sprintf("%s/%s_%d.%s", profilePicFolder, actor.UserID, s.now().UnixMilli(), extensionFor(contentType))
	url, err := s.photos.Save(ctx, key, data, contentType)
	if err != nil {
		return "", errors.NewBackendError("supabase_storage", err)
	}
	if err := s.users.UpdateProfilePic(ctx, actor.UserID, url); err != nil {
		return "", ierrors.FromStore(err, "User", actor.UserID)
	}

	s.removePhoto(ctx, current.ProfilePic)
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	}
	return "jpg"
}

func (s *SettingsService) removePhoto(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.photos.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete old profile photo", zap.String("key", key), zap.Error(err))
	}
}

// DeleteAccount removes the actor's memberships (adjusting member counts),
// RSVPs, notifications, profile photo and profile, in that order. A failure
// stops the cascade; repeating the call continues it.
func (s *SettingsService) DeleteAccount(ctx context.Context, actor types.Actor) error {
	log := s.logger.With(zap.String("userID", actor.UserID))

	profile, err := s.users.GetProfile(ctx, actor.UserID)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return ierrors.FromStore(err, "User", actor.UserID)
	}

	memberships, err := s.clubs.RemoveAllMemberships(ctx, actor.UserID)
	if err != nil {
		return ierrors.FromStore(err, "Membership", "")
	}
	rsvps, err := s.events.RemoveAttendeeEverywhere(ctx, actor.UserID)
	if err != nil {
		return ierrors.FromStore(err, "Event", "")
	}
	notifications, err := s.notifications.DeleteAllByUser(ctx, actor.UserID)
	if err != nil {
		return ierrors.FromStore(err, "Notification", "")
	}
	if profile != nil {
		s.removePhoto(ctx, profile.ProfilePic)
		if err := s.users.Delete(ctx, actor.UserID); err != nil && !stderrors.Is(err, store.ErrNotFound) {
			return ierrors.FromStore(err, "User", actor.UserID)
		}
	}

	log.Info("Account deleted",
		zap.Int64("memberships", memberships),
		zap.Int64("rsvps", rsvps),
		zap.Int64("notifications", notifications))
	return nil
}
