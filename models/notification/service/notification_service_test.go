package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/internal/events"
	"github.com/campusconnect/campus-backend/services"
	"github.com/campusconnect/campus-backend/store"
	"github.com/campusconnect/campus-backend/store/mocks"
	"github.com/campusconnect/campus-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var alice = types.Actor{UserID: "u1", DisplayName: "Alice"}

type sentEmail struct {
	to string
	n  types.Notification
}

type fakeEmailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailer) SendNotificationEmail(ctx context.Context, to string, n types.Notification) error {
	f.sent = append(f.sent, sentEmail{to: to, n: n})
	return f.err
}

type fixture struct {
	svc           *NotificationService
	notifications *mocks.NotificationStore
	users         *mocks.UserStore
	requests      *mocks.FriendRequestStore
	publisher     *events.MockPublisher
	emailer       *fakeEmailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		notifications: new(mocks.NotificationStore),
		users:         new(mocks.UserStore),
		requests:      new(mocks.FriendRequestStore),
		publisher:     events.NewMockPublisher(),
		emailer:       &fakeEmailer{},
	}
	f.svc = NewNotificationService(f.notifications, f.users, f.requests, f.publisher, f.emailer, zap.NewNop())
	f.svc.now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		f.notifications.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.requests.AssertExpectations(t)
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

func TestRecent_DefaultsToFive(t *testing.T) {
	f := newFixture(t)
	f.notifications.On("ListByUser", mock.Anything, "u1", DefaultRecentLimit).
		Return([]types.Notification{{ID: "n1", UserID: "u1"}}, nil)

	got, err := f.svc.Recent(context.Background(), alice, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetNotifications_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.notifications.On("ListByUser", mock.Anything, "u1", 0).Return(nil, fmt.Errorf("conn reset"))

	_, err := f.svc.GetNotifications(context.Background(), alice)
	requireAppError(t, err, errors.DatabaseError)
}

func TestMarkNotificationAsRead(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("MarkRead", mock.Anything, "n1", "u1").Return(nil).Twice()

		require.NoError(t, f.svc.MarkNotificationAsRead(context.Background(), alice, "n1"))
		require.NoError(t, f.svc.MarkNotificationAsRead(context.Background(), alice, "n1"))
	})

	t.Run("other user's notification", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("MarkRead", mock.Anything, "n2", "u1").
			Return(fmt.Errorf("notification n2: %w", store.ErrForbidden))

		err := f.svc.MarkNotificationAsRead(context.Background(), alice, "n2")
		appErr := requireAppError(t, err, errors.ForbiddenError)
		assert.Equal(t, "NOT_OWNER", appErr.Code)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("MarkRead", mock.Anything, "nope", "u1").Return(store.ErrNotFound)

		err := f.svc.MarkNotificationAsRead(context.Background(), alice, "nope")
		appErr := requireAppError(t, err, errors.NotFoundError)
		assert.Equal(t, "NOTIFICATION_NOT_FOUND", appErr.Code)
	})
}

func TestMarkAllNotificationsAsRead(t *testing.T) {
	f := newFixture(t)
	f.notifications.On("MarkAllReadByUser", mock.Anything, "u1").Return(int64(3), nil)
	f.notifications.On("GetUnreadCount", mock.Anything, "u1").Return(int64(0), nil)

	affected, err := f.svc.MarkAllNotificationsAsRead(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	unread, err := f.svc.UnreadCount(context.Background(), alice)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func friendRequest(id, to string) *types.Notification {
	return &types.Notification{ID: id, UserID: to, Type: types.NotificationTypeFriendRequest, SenderID: "u9", RequestID: "fr-" + id}
}

func TestAcceptFriendRequest(t *testing.T) {
	f := newFixture(t)
	f.notifications.On("GetByID", mock.Anything, "n1").Return(friendRequest("n1", "u1"), nil)
	f.requests.On("Resolve", mock.Anything, "fr-n1", "u1", types.FriendRequestAccepted).Return(nil)
	f.notifications.On("MarkRead", mock.Anything, "n1", "u1").Return(nil)

	require.NoError(t, f.svc.AcceptFriendRequest(context.Background(), alice, "n1"))
}

func TestDeclineFriendRequest(t *testing.T) {
	f := newFixture(t)
	f.notifications.On("GetByID", mock.Anything, "n1").Return(friendRequest("n1", "u1"), nil)
	f.requests.On("Resolve", mock.Anything, "fr-n1", "u1", types.FriendRequestDeclined).Return(nil)
	f.notifications.On("MarkRead", mock.Anything, "n1", "u1").Return(nil)

	require.NoError(t, f.svc.DeclineFriendRequest(context.Background(), alice, "n1"))
}

func TestResolveFriendRequest_Rejections(t *testing.T) {
	t.Run("addressed to someone else", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("GetByID", mock.Anything, "n1").Return(friendRequest("n1", "u2"), nil)

		err := f.svc.AcceptFriendRequest(context.Background(), alice, "n1")
		requireAppError(t, err, errors.ForbiddenError)
		f.requests.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not a friend request", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("GetByID", mock.Anything, "n1").
			Return(&types.Notification{ID: "n1", UserID: "u1", Type: types.NotificationTypeLike}, nil)

		err := f.svc.AcceptFriendRequest(context.Background(), alice, "n1")
		requireAppError(t, err, errors.ValidationError)
	})

	t.Run("already resolved", func(t *testing.T) {
		f := newFixture(t)
		f.notifications.On("GetByID", mock.Anything, "n1").Return(friendRequest("n1", "u1"), nil)
		f.requests.On("Resolve", mock.Anything, "fr-n1", "u1", types.FriendRequestAccepted).Return(store.ErrNotFound)

		err := f.svc.AcceptFriendRequest(context.Background(), alice, "n1")
		appErr := requireAppError(t, err, errors.NotFoundError)
		assert.Equal(t, "Friend request is no longer pending", appErr.Message)
		f.notifications.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreate_StoresPublishesAndEmails(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetProfile", mock.Anything, "u1").Return(&types.UserProfile{
		ID: "u1", Email: "alice@campus.edu", NotificationSettings: types.DefaultNotificationSettings(),
	}, nil)
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *types.Notification) bool {
		return n.UserID == "u1" && !n.Read && n.CreatedAt.Equal(fixedNow) && n.ID != ""
	})).Return("n1", nil)

	n := friendRequest("", "u1")
	n.Read = true
	created, err := f.svc.Create(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, []types.EventType{types.EventTypeNotificationCreated},
		f.publisher.EventTypes(types.NotificationScope("u1")))
	require.Len(t, f.emailer.sent, 1)
	assert.Equal(t, "alice@campus.edu", f.emailer.sent[0].to)
}

func TestCreate_LikesAreNotEmailed(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetProfile", mock.Anything, "u1").Return(&types.UserProfile{
		ID: "u1", Email: "alice@campus.edu", NotificationSettings: types.DefaultNotificationSettings(),
	}, nil)
	f.notifications.On("Create", mock.Anything, mock.Anything).Return("n1", nil)

	created, err := f.svc.Create(context.Background(), &types.Notification{UserID: "u1", Type: types.NotificationTypeLike})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, f.emailer.sent)
}

func TestCreate_RespectsPreferences(t *testing.T) {
	f := newFixture(t)
	settings := types.DefaultNotificationSettings()
	settings.Likes = false
	f.users.On("GetProfile", mock.Anything, "u1").Return(&types.UserProfile{ID: "u1", NotificationSettings: settings}, nil)

	created, err := f.svc.Create(context.Background(), &types.Notification{UserID: "u1", Type: types.NotificationTypeLike})
	require.NoError(t, err)
	assert.False(t, created)
	f.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.GetEvents(types.NotificationScope("u1")))
}

func TestCreate_MissingProfileUsesDefaults(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetProfile", mock.Anything, "u1").Return(nil, store.ErrNotFound)
	f.notifications.On("Create", mock.Anything, mock.Anything).Return("n1", nil)

	created, err := f.svc.Create(context.Background(), &types.Notification{UserID: "u1", Type: types.NotificationTypeMessage})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, f.emailer.sent)
}

func TestCreate_EmailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.emailer.err = fmt.Errorf("smtp down")
	f.users.On("GetProfile", mock.Anything, "u1").Return(&types.UserProfile{
		ID: "u1", Email: "alice@campus.edu", NotificationSettings: types.DefaultNotificationSettings(),
	}, nil)
	f.notifications.On("Create", mock.Anything, mock.Anything).Return("n1", nil)

	created, err := f.svc.Create(context.Background(), &types.Notification{UserID: "u1", Type: types.NotificationTypeMessage})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreate_UnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), &types.Notification{UserID: "u1", Type: "poke"})
	requireAppError(t, err, errors.ValidationError)
}

type recordingJobs struct {
	jobs []services.Job
	full bool
}

func (r *recordingJobs) Submit(job services.Job) bool {
	if r.full {
		return false
	}
	r.jobs = append(r.jobs, job)
	return true
}

func mustEvent(t *testing.T, typ types.EventType, payload any) types.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return types.Event{BaseEvent: types.BaseEvent{Type: typ, Scope: "test", Timestamp: fixedNow}, Payload: data}
}

func TestFanOut_LikeNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	jobs := &recordingJobs{}
	fan := NewFanOut(f.svc, jobs, zap.NewNop())

	event := mustEvent(t, types.EventTypePostLiked, types.PostLikedPayload{
		PostID: "p1", AuthorID: "u1", Liked: true, Likes: 1, LikedBy: "u2", LikerName: "Bob",
	})
	require.NoError(t, fan.HandleEvent(context.Background(), event))
	require.Len(t, jobs.jobs, 1)

	f.users.On("GetProfile", mock.Anything, "u1").Return(nil, store.ErrNotFound)
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *types.Notification) bool {
		return n.Type == types.NotificationTypeLike && n.SenderID == "u2" && n.Message == "Bob liked your post"
	})).Return("n1", nil)
	require.NoError(t, jobs.jobs[0].Execute(context.Background()))
}

func TestFanOut_Skips(t *testing.T) {
	tests := []struct {
		name  string
		event types.EventType
		body  any
	}{
		{"unlike", types.EventTypePostLiked, types.PostLikedPayload{AuthorID: "u1", Liked: false, LikedBy: "u2"}},
		{"self like", types.EventTypePostLiked, types.PostLikedPayload{AuthorID: "u1", Liked: true, LikedBy: "u1"}},
		{"organizer comment", types.EventTypeEventCommented, types.EventCommentedPayload{OrganizerID: "u1", AuthorID: "u1"}},
		{"self contact", types.EventTypeLostFoundContacted, types.LostFoundContactPayload{ReporterID: "u1", SenderID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			jobs := &recordingJobs{}
			fan := NewFanOut(f.svc, jobs, zap.NewNop())

			require.NoError(t, fan.HandleEvent(context.Background(), mustEvent(t, tt.event, tt.body)))
			assert.Empty(t, jobs.jobs)
		})
	}
}

func TestFanOut_CommentInline(t *testing.T) {
	f := newFixture(t)
	fan := NewFanOut(f.svc, nil, zap.NewNop())

	f.users.On("GetProfile", mock.Anything, "u1").Return(nil, store.ErrNotFound)
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *types.Notification) bool {
		return n.Type == types.NotificationTypeComment && n.Message == `Bob commented on "Hack Night"`
	})).Return("n1", nil)

	event := mustEvent(t, types.EventTypeEventCommented, types.EventCommentedPayload{
		EventID: "e1", EventTitle: "Hack Night", OrganizerID: "u1", AuthorID: "u2", AuthorName: "Bob",
	})
	require.NoError(t, fan.HandleEvent(context.Background(), event))
}

func TestFanOut_QueueFull(t *testing.T) {
	f := newFixture(t)
	fan := NewFanOut(f.svc, &recordingJobs{full: true}, zap.NewNop())

	event := mustEvent(t, types.EventTypeLostFoundContacted, types.LostFoundContactPayload{
		ItemID: "i1", ReporterID: "u1", SenderID: "u2", Message: "I found your keys",
	})
	assert.Error(t, fan.HandleEvent(context.Background(), event))
}

func TestFanOut_BadPayload(t *testing.T) {
	f := newFixture(t)
	fan := NewFanOut(f.svc, nil, zap.NewNop())

	err := fan.HandleEvent(context.Background(), types.Event{BaseEvent: types.BaseEvent{Type: types.EventTypePostLiked}, Payload: json.RawMessage(`{`)})
	assert.ErrorContains(t, err, "decode")
}
