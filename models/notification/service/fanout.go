package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campusconnect/campus-backend/services"
	"github.com/campusconnect/campus-backend/types"
	"go.uber.org/zap"
)

// JobSubmitter queues background work without blocking.
type JobSubmitter interface {
	Submit(job services.Job) bool
}

// FanOut turns domain events into notifications for the people they concern.
// It is registered as an in-process handler on the event service and creates
// the notifications on the worker pool.
type FanOut struct {
	notifier *NotificationService
	jobs     JobSubmitter
	logger   *zap.Logger
}

var _ types.EventHandler = (*FanOut)(nil)

// NewFanOut creates the handler. With a nil jobs the notification is created
// inline.
func NewFanOut(notifier *NotificationService, jobs JobSubmitter, logger *zap.Logger) *FanOut {
	return &FanOut{
		notifier: notifier,
		jobs:     jobs,
		logger:   logger.Named("NotificationFanOut"),
	}
}

func (f *FanOut) SupportedEvents() []types.EventType {
	return []types.EventType{
		types.EventTypePostLiked,
		types.EventTypeEventCommented,
		types.EventTypeLostFoundContacted,
	}
}

func (f *FanOut) HandleEvent(ctx context.Context, event types.Event) error {
	n, err := notificationFor(event)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}

	job := services.Job{
		Name: fmt.Sprintf("notify:%s:%s", n.Type, n.UserID),
		Execute: func(ctx context.Context) error {
			_, err := f.notifier.Create(ctx, n)
			return err
		},
	}
	if f.jobs == nil {
		return job.Execute(ctx)
	}
	if !f.jobs.Submit(job) {
		f.logger.Warn("Notification dropped, queue full",
			zap.String("eventType", string(event.Type)),
			zap.String("userID", n.UserID))
		return fmt.Errorf("notification queue full")
	}
	return nil
}

// notificationFor builds the notification an event implies, or nil when it
// implies none (unlikes, self likes, commenting on your own event).
func notificationFor(event types.Event) (*types.Notification, error) {
	switch event.Type {
	case types.EventTypePostLiked:
		var p types.PostLikedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		if !p.Liked || p.AuthorID == "" || p.AuthorID == p.LikedBy {
			return nil, nil
		}
		return &types.Notification{
			UserID:       p.AuthorID,
			Type:         types.NotificationTypeLike,
			SenderID:     p.LikedBy,
			SenderName:   p.LikerName,
			SenderAvatar: p.LikerAvatar,
			Message:      fmt.Sprintf("%s liked your post", displayName(p.LikerName)),
		}, nil

	case types.EventTypeEventCommented:
		var p types.EventCommentedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		if p.OrganizerID == "" || p.OrganizerID == p.AuthorID {
			return nil, nil
		}
		return &types.Notification{
			UserID:       p.OrganizerID,
			Type:         types.NotificationTypeComment,
			SenderID:     p.AuthorID,
			SenderName:   p.AuthorName,
			SenderAvatar: p.AuthorAvatar,
			Message:      fmt.Sprintf("%s commented on %q", displayName(p.AuthorName), p.EventTitle),
		}, nil

	case types.EventTypeLostFoundContacted:
		var p types.LostFoundContactPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		if p.ReporterID == "" || p.ReporterID == p.SenderID {
			return nil, nil
		}
		return &types.Notification{
			UserID:       p.ReporterID,
			Type:         types.NotificationTypeMessage,
			SenderID:     p.SenderID,
			SenderName:   p.SenderName,
			SenderAvatar: p.SenderAvatar,
			Message:      p.Message,
		}, nil
	}
	return nil, nil
}

func displayName(name string) string {
	if name == "" {
		return types.UnknownUserName
	}
	return name
}
