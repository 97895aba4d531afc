package events

import (
	"context"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(eventType types.EventType, scope string) types.Event {
	return types.Event{
		BaseEvent: types.BaseEvent{
			ID:        "test-event",
			Type:      eventType,
			Scope:     scope,
			UserID:    "test-user",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Version:   1,
		},
		Metadata: types.EventMetadata{
			Source: "test",
		},
		Payload: []byte(`{"postId":"p1"}`),
	}
}

func TestService_RegisterHandler(t *testing.T) {
	service := NewService(NewMockPublisher())
	handler := newRecorder(types.EventTypePostCreated)

	t.Run("successful registration", func(t *testing.T) {
		err := service.RegisterHandler("test-handler", handler)
		require.NoError(t, err)
		assert.Contains(t, service.GetHandlerNames(), "test-handler")
	})

	t.Run("duplicate registration", func(t *testing.T) {
		err := service.RegisterHandler("test-handler", handler)
		require.Error(t, err)
		assert.Equal(t, "handler with name test-handler already registered", err.Error())
	})
}

func TestService_UnregisterHandler(t *testing.T) {
	service := NewService(NewMockPublisher())
	handler := newRecorder(types.EventTypePostCreated)

	t.Run("successful unregistration", func(t *testing.T) {
		require.NoError(t, service.RegisterHandler("test-handler", handler))
		require.NoError(t, service.UnregisterHandler("test-handler"))
		assert.NotContains(t, service.GetHandlerNames(), "test-handler")
	})

	t.Run("unregister non-existent handler", func(t *testing.T) {
		err := service.UnregisterHandler("test-handler")
		require.Error(t, err)
		assert.Equal(t, "handler test-handler not found", err.Error())
	})
}

func TestService_PublishAndSubscribe(t *testing.T) {
	publisher := NewMockPublisher()
	service := NewService(publisher)
	handler := newRecorder(types.EventTypePostCreated)
	require.NoError(t, service.RegisterHandler("test-handler", handler))

	ctx := context.Background()
	scope := types.ClubScope("c1")
	ch, err := service.Subscribe(ctx, scope, "test-user")
	require.NoError(t, err)

	event := testEvent(types.EventTypePostCreated, scope)
	require.NoError(t, service.Publish(ctx, scope, event))

	events := handler.received()
	require.Len(t, events, 1)
	assert.Equal(t, event, events[0])

	select {
	case received := <-ch:
		assert.Equal(t, event, received)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	assert.Equal(t, []types.EventType{types.EventTypePostCreated}, publisher.EventTypes(scope))
}

func TestService_PublishFillsScope(t *testing.T) {
	publisher := NewMockPublisher()
	service := NewService(publisher)

	event := testEvent(types.EventTypePostLiked, "")
	require.NoError(t, service.Publish(context.Background(), types.ClubScope("c9"), event))

	got := publisher.GetEvents(types.ClubScope("c9"))
	require.Len(t, got, 1)
	assert.Equal(t, "club:c9", got[0].Scope)
}

func TestService_HandlerErrorDoesNotBlockFanOut(t *testing.T) {
	publisher := NewMockPublisher()
	service := NewService(publisher)
	handler := newRecorder(types.EventTypePostCreated)
	handler.fail = true
	require.NoError(t, service.RegisterHandler("test-handler", handler))

	scope := types.ClubScope("c1")
	require.NoError(t, service.Publish(context.Background(), scope, testEvent(types.EventTypePostCreated, scope)))
	assert.Len(t, publisher.GetEvents(scope), 1)
}

func TestService_LocalOnly(t *testing.T) {
	service := NewService(nil)
	handler := newRecorder(types.EventTypePostDeleted)
	require.NoError(t, service.RegisterHandler("local", handler))

	scope := types.ClubScope("c1")
	require.NoError(t, service.Publish(context.Background(), scope, testEvent(types.EventTypePostDeleted, scope)))
	assert.Len(t, handler.received(), 1)

	_, err := service.Subscribe(context.Background(), scope, "u1")
	assert.Error(t, err)
	assert.NoError(t, service.Unsubscribe(context.Background(), scope, "u1"))
}

func TestService_Shutdown(t *testing.T) {
	service := NewService(NewMockPublisher())
	require.NoError(t, service.RegisterHandler("a", newRecorder(types.EventTypePostCreated)))
	require.NoError(t, service.RegisterHandler("b", newRecorder(types.EventTypePostLiked)))

	require.NoError(t, service.Shutdown(context.Background()))
	assert.Empty(t, service.GetHandlerNames())
}
