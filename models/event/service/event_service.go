package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	ierrors "github.com/campusconnect/campus-backend/internal/errors"
	"github.com/campusconnect/campus-backend/internal/storage"
	commentsvc "github.com/campusconnect/campus-backend/models/comment/service"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const eventImageFolder = "events"

var rsvpChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_event_rsvp_changes_total",
	Help: "RSVP changes by outcome",
}, []string{"outcome"})

// EventService lists campus events and handles RSVPs and comments.
type EventService struct {
	events      store.EventStore
	comments    *commentsvc.Thread
	files       storage.FileStorage
	publisher   types.EventPublisher
	imageLimits storage.ImageLimits
	logger      *zap.Logger
	now         func() time.Time
}

func NewEventService(es store.EventStore, cs store.CommentStore, files storage.FileStorage, publisher types.EventPublisher, limits storage.ImageLimits, logger *zap.Logger) *EventService {
	return &EventService{
		events:      es,
		comments:    commentsvc.NewThread(cs, types.CommentParentEvent, logger),
		files:       files,
		publisher:   publisher,
		imageLimits: limits,
		logger:      logger.Named("EventService"),
		now:         time.Now,
	}
}

// ListEvents returns events by date ascending. An empty or "all" category
// lists every event.
func (s *EventService) ListEvents(ctx context.Context, category string) ([]types.CampusEvent, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && category != "all" && !types.EventCategory(category).IsValid() {
		return nil, errors.ValidationFailed("Unknown event category", fmt.Sprintf("category %q", category))
	}
	list, err := s.events.List(ctx, category)
	if err != nil {
		return nil, ierrors.FromStore(err, "Event", "")
	}
	return list, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*types.CampusEvent, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, ierrors.FromStore(err, "Event", id)
	}
	return e, nil
}

func validateNewEvent(in *types.NewEventInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", in.Title}, {"date", in.Date}, {"time", in.Time}, {"location", in.Location},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.ValidationFailed("Missing required event fields", strings.Join(missing, ", "))
	}
	if _, err := time.Parse(types.EventDateLayout, in.Date); err != nil {
		return errors.ValidationFailed("Invalid event date", "date must be YYYY-MM-DD")
	}
	if in.Category == "" {
		in.Category = types.EventCategoryOther
	}
	if !in.Category.IsValid() {
		return errors.ValidationFailed("Unknown event category", fmt.Sprintf("category %q", in.Category))
	}
	if in.MaxAttendees != nil && *in.MaxAttendees <= 0 {
		return errors.ValidationFailed("Invalid capacity", "maxAttendees must be positive")
	}
	return nil
}

// CreateEvent publishes a new event organized by actor. The image, if any, is
// uploaded before the event is stored.
func (s *EventService) CreateEvent(ctx context.Context, actor types.Actor, in types.NewEventInput) (*types.CampusEvent, error) {
	if err := validateNewEvent(&in); err != nil {
		return nil, err
	}

	now := s.now()
	e := &types.CampusEvent{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		Date:          in.Date,
		Time:          in.Time,
		Location:      in.Location,
		Category:      in.Category,
		OrganizerID:   actor.UserID,
		OrganizerName: actor.Name(),
		Attendees:     []string{},
		MaxAttendees:  in.MaxAttendees,
		CreatedAt:     now,
	}

	if in.Image != nil && len(in.Image.Data) > 0 {
		data, contentType, err := storage.PrepareImage(in.Image.Data, s.imageLimits)
		if err != nil {
			if stderrors.Is(err, storage.ErrUnsupportedImage) {
				return nil, errors.ValidationFailed("Unsupported image", err.Error())
			}
			return nil, errors.ValidationFailed("Could not process image", err.Error())
		}
		key := fmt.Sprintf("%s/%s_%d", eventImageFolder, actor.UserID, now.UnixMilli())
		url, err := s.files.Save(ctx, key, data, contentType)
		if err != nil {
			return nil, errors.NewBackendError("object_storage", err)
		}
		e.ImageURL = url
	}

	if _, err := s.events.Create(ctx, e); err != nil {
		return nil, ierrors.FromStore(err, "Event", e.ID)
	}
	s.logger.Info("Event created", zap.String("eventID", e.ID), zap.String("organizerID", actor.UserID))
	return e, nil
}

// ToggleRSVP adds the actor to the attendees, or removes them if already
// attending. Adding to a full event fails with a conflict.
func (s *EventService) ToggleRSVP(ctx context.Context, actor types.Actor, eventID string) (*types.RSVPResult, error) {
	current, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Event", eventID)
	}
	if current.IsAttending(actor.UserID) {
		return s.CancelRSVP(ctx, actor, eventID)
	}

	updated, err := s.events.AddAttendee(ctx, eventID, actor.UserID)
	if err != nil {
		mapped := ierrors.FromStore(err, "Event", eventID)
		if appErr, ok := errors.As(mapped); ok && appErr.Code == ierrors.ErrEventFull {
			appErr.Message = "Event is full"
			rsvpChanges.WithLabelValues("full").Inc()
		}
		return nil, mapped
	}
	rsvpChanges.WithLabelValues("joined").Inc()
	return s.rsvpResult(ctx, actor, updated, true), nil
}

// CancelRSVP removes the actor from the attendees. Cancelling when not
// attending succeeds.
func (s *EventService) CancelRSVP(ctx context.Context, actor types.Actor, eventID string) (*types.RSVPResult, error) {
	updated, err := s.events.RemoveAttendee(ctx, eventID, actor.UserID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Event", eventID)
	}
	rsvpChanges.WithLabelValues("cancelled").Inc()
	return s.rsvpResult(ctx, actor, updated, false), nil
}

func (s *EventService) rsvpResult(ctx context.Context, actor types.Actor, e *types.CampusEvent, attending bool) *types.RSVPResult {
	res := &types.RSVPResult{EventID: e.ID, Attending: attending, Attendees: len(e.Attendees)}
	s.publish(ctx, types.EventTypeEventRSVPUpdated, e.ID, actor.UserID, res)
	return res
}

func (s *EventService) ListComments(ctx context.Context, eventID string) ([]types.Comment, error) {
	return s.comments.List(ctx, eventID)
}

// AddComment comments on an event and tells the organizer about it.
func (s *EventService) AddComment(ctx context.Context, actor types.Actor, eventID, content string) (*types.Comment, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, ierrors.FromStore(err, "Event", eventID)
	}
	c, err := s.comments.Add(ctx, actor, eventID, content)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, types.EventTypeEventCommented, eventID, actor.UserID, types.EventCommentedPayload{
		EventID:      eventID,
		EventTitle:   e.Title,
		OrganizerID:  e.OrganizerID,
		CommentID:    c.ID,
		AuthorID:     actor.UserID,
		AuthorName:   c.AuthorName,
		AuthorAvatar: c.AuthorAvatar,
	})
	return c, nil
}

func (s *EventService) DeleteComment(ctx context.Context, actor types.Actor, eventID, commentID string) error {
	return s.comments.Delete(ctx, actor, eventID, commentID)
}

func (s *EventService) publish(ctx context.Context, eventType types.EventType, eventID, userID string, payload interface{}) {
	if err := events.PublishEventWithContext(s.publisher, ctx, eventType, types.EventScope(eventID), userID, payload, "EventService"); err != nil {
		s.logger.Warn("Failed to publish event update", zap.Error(err), zap.String("eventType", string(eventType)))
	}
}
