package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	"github.com/campusconnect/campus-backend/internal/storage"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/store/mocks"
	"github.com/campusconnect/campus-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	organizer = types.Actor{UserID: "u1", DisplayName: "Alice"}
	student   = types.Actor{UserID: "u2", DisplayName: "Bob"}
)

type fixture struct {
	svc       *EventService
	events    *mocks.EventStore
	comments  *mocks.CommentStore
	files     *mocks.FileStorage
	publisher *events.MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		events:    new(mocks.EventStore),
		comments:  new(mocks.CommentStore),
		files:     new(mocks.FileStorage),
		publisher: events.NewMockPublisher(),
	}
	f.svc = NewEventService(f.events, f.comments, f.files, f.publisher, storage.ImageLimits{MaxDimension: 32, MaxBytes: 32 * 1024}, zap.NewNop())
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.comments.SetClock(f.svc.now)
	t.Cleanup(func() {
		f.events.AssertExpectations(t)
		f.comments.AssertExpectations(t)
		f.files.AssertExpectations(t)
	})
	return f
}

func requireAppError(t *testing.T, err error, want errors.ErrorType) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, want, appErr.Type)
	return appErr
}

func intPtr(n int) *int { return &n }

func hackNight(attendees ...string) *types.CampusEvent {
	return &types.CampusEvent{
		ID: "e1", Title: "Hack Night", Date: "2026-03-10", Time: "18:00", Location: "Lab 2",
		Category: types.EventCategoryWorkshop, OrganizerID: "u1", Attendees: attendees, MaxAttendees: intPtr(2),
	}
}

func TestListEvents(t *testing.T) {
	f := newFixture(t)
	f.events.On("List", mock.Anything, "workshop").Return([]types.CampusEvent{*hackNight()}, nil)

	got, err := f.svc.ListEvents(context.Background(), " Workshop ")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.ListEvents(context.Background(), "party")
	requireAppError(t, err, errors.ValidationError)
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *types.CampusEvent) bool {
		return e.OrganizerID == "u1" && e.OrganizerName == "Alice" && e.Category == types.EventCategoryOther &&
			len(e.Attendees) == 0 && e.CreatedAt.Equal(fixedNow)
	})).Return("e1", nil)

	e, err := f.svc.CreateEvent(context.Background(), organizer, types.NewEventInput{
		Title: " Career Fair ", Date: "2026-04-01", Time: "10:00", Location: "Hall A",
	})
	require.NoError(t, err)
	assert.Equal(t, "Career Fair", e.Title)
}

func TestCreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   types.NewEventInput
	}{
		{"missing fields", types.NewEventInput{Title: "x"}},
		{"bad date", types.NewEventInput{Title: "x", Date: "10/03/2026", Time: "1", Location: "y"}},
		{"bad category", types.NewEventInput{Title: "x", Date: "2026-03-10", Time: "1", Location: "y", Category: "rave"}},
		{"zero capacity", types.NewEventInput{Title: "x", Date: "2026-03-10", Time: "1", Location: "y", MaxAttendees: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateEvent(context.Background(), organizer, tt.in)
			requireAppError(t, err, errors.ValidationError)
		})
	}
}

func TestCreateEvent_WithImage(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))

	key := fmt.Sprintf("events/u1_%d", fixedNow.UnixMilli())
	f.files.On("Save", mock.Anything, key, mock.Anything, "image/jpeg").Return("https://cdn/"+key, nil)
	f.events.On("Create", mock.Anything, mock.MatchedBy(func(e *types.CampusEvent) bool {
		return e.ImageURL == "https://cdn/"+key
	})).Return("e1", nil)

	_, err := f.svc.CreateEvent(context.Background(), organizer, types.NewEventInput{
		Title: "Expo", Date: "2026-04-01", Time: "10:00", Location: "Hall A",
		Image: &types.ImageUpload{Filename: "poster.png", Data: buf.Bytes()},
	})
	require.NoError(t, err)
}

func TestToggleRSVP(t *testing.T) {
	t.Run("joins", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetByID", mock.Anything, "e1").Return(hackNight(), nil)
		f.events.On("AddAttendee", mock.Anything, "e1", "u2").Return(hackNight("u2"), nil)

		res, err := f.svc.ToggleRSVP(context.Background(), student, "e1")
		require.NoError(t, err)
		assert.True(t, res.Attending)
		assert.Equal(t, 1, res.Attendees)
		assert.Equal(t, []types.EventType{types.EventTypeEventRSVPUpdated}, f.publisher.EventTypes(types.EventScope("e1")))
	})

	t.Run("second toggle leaves", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetByID", mock.Anything, "e1").Return(hackNight("u2"), nil)
		f.events.On("RemoveAttendee", mock.Anything, "e1", "u2").Return(hackNight(), nil)

		res, err := f.svc.ToggleRSVP(context.Background(), student, "e1")
		require.NoError(t, err)
		assert.False(t, res.Attending)
		assert.Zero(t, res.Attendees)
	})

	t.Run("full", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetByID", mock.Anything, "e1").Return(hackNight("u3", "u4"), nil)
		f.events.On("AddAttendee", mock.Anything, "e1", "u2").Return(nil, fmt.Errorf("event e1 is full: %w", store.ErrCapacity))

		_, err := f.svc.ToggleRSVP(context.Background(), student, "e1")
		appErr := requireAppError(t, err, errors.ConflictError)
		assert.Equal(t, "Event is full", appErr.Message)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.events.On("GetByID", mock.Anything, "e9").Return(nil, store.ErrNotFound)

		_, err := f.svc.ToggleRSVP(context.Background(), student, "e9")
		requireAppError(t, err, errors.NotFoundError)
	})
}

func TestAddComment_PublishesForOrganizer(t *testing.T) {
	f := newFixture(t)
	f.events.On("GetByID", mock.Anything, "e1").Return(hackNight(), nil)
	f.comments.On("Create", mock.Anything, mock.Anything).Return("c1", nil)

	c, err := f.svc.AddComment(context.Background(), student, "e1", "Count me in")
	require.NoError(t, err)
	assert.Equal(t, "Bob", c.AuthorName)

	published := f.publisher.GetEvents(types.EventScope("e1"))
	require.Len(t, published, 1)
	assert.Equal(t, types.EventTypeEventCommented, published[0].Type)
	assert.Contains(t, string(published[0].Payload), `"organizerId":"u1"`)
}

func TestAddComment_UnknownEvent(t *testing.T) {
	f := newFixture(t)
	f.events.On("GetByID", mock.Anything, "e9").Return(nil, store.ErrNotFound)

	_, err := f.svc.AddComment(context.Background(), student, "e9", "hello")
	requireAppError(t, err, errors.NotFoundError)
	f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
