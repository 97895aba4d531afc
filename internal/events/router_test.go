package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clubEvent(kind types.EventType) types.Event {
	return types.Event{BaseEvent: types.BaseEvent{ID: "ev-" + string(kind), Type: kind, Scope: types.ClubScope("c1")}}
}

func TestRouter_RegisterIndexesByType(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	posts := newRecorder(types.EventTypePostCreated, types.EventTypePostLiked)
	likes := newRecorder(types.EventTypePostLiked)

	r.RegisterHandler(posts)
	r.RegisterHandler(likes)
	r.RegisterHandler(posts)

	assert.Len(t, r.Handlers(types.EventTypePostCreated), 1)
	assert.Len(t, r.Handlers(types.EventTypePostLiked), 2)
	assert.Empty(t, r.Handlers(types.EventTypePostDeleted))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.metrics.handlers))
}

func TestRouter_RegisterIgnoresHandlerWithoutTypes(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	r.RegisterHandler(newRecorder())
	assert.Zero(t, testutil.ToFloat64(r.metrics.handlers))
}

func TestRouter_Unregister(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	keep := newRecorder(types.EventTypePostLiked)
	drop := newRecorder(types.EventTypePostLiked, types.EventTypePostCreated)
	r.RegisterHandler(keep)
	r.RegisterHandler(drop)

	r.UnregisterHandler(drop)

	assert.Equal(t, []types.EventHandler{keep}, r.Handlers(types.EventTypePostLiked))
	assert.Empty(t, r.Handlers(types.EventTypePostCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.handlers))
}

func TestRouter_HandleEvent(t *testing.T) {
	tests := []struct {
		name     string
		handlers func() []*recorder
		wantErr  string
		wantSeen []int
	}{
		{
			name:     "every subscriber receives the event",
			handlers: func() []*recorder { return []*recorder{newRecorder(types.EventTypePostCreated), newRecorder(types.EventTypePostCreated)} },
			wantSeen: []int{1, 1},
		},
		{
			name: "only matching types are delivered",
			handlers: func() []*recorder {
				return []*recorder{newRecorder(types.EventTypePostCreated), newRecorder(types.EventTypePostDeleted)}
			},
			wantSeen: []int{1, 0},
		},
		{
			name: "failures are joined and do not stop others",
			handlers: func() []*recorder {
				a, b := newRecorder(types.EventTypePostCreated), newRecorder(types.EventTypePostCreated)
				a.fail, b.fail = true, true
				return []*recorder{a, b, newRecorder(types.EventTypePostCreated)}
			},
			wantErr:  errRecorder.Error(),
			wantSeen: []int{0, 0, 1},
		},
		{
			name: "a panicking handler becomes an error",
			handlers: func() []*recorder {
				p := newRecorder(types.EventTypePostCreated)
				p.panics = true
				return []*recorder{p, newRecorder(types.EventTypePostCreated)}
			},
			wantErr:  "panicked: recorder panic",
			wantSeen: []int{0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetMetricsForTesting()
			r := NewRouter()
			hs := tt.handlers()
			for _, h := range hs {
				r.RegisterHandler(h)
			}

			err := r.HandleEvent(context.Background(), clubEvent(types.EventTypePostCreated))
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			for i, h := range hs {
				assert.Len(t, h.received(), tt.wantSeen[i], "handler %d", i)
			}
		})
	}
}

func TestRouter_JoinedErrorsAreInspectable(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	bad := newRecorder(types.EventTypeEventRSVPUpdated)
	bad.fail = true
	r.RegisterHandler(bad)

	err := r.HandleEvent(context.Background(), clubEvent(types.EventTypeEventRSVPUpdated))
	assert.True(t, errors.Is(err, errRecorder))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.failures.WithLabelValues("dispatch", string(types.EventTypeEventRSVPUpdated))))
}

func TestRouter_NoHandlersIsCounted(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	require.NoError(t, r.HandleEvent(context.Background(), clubEvent(types.EventTypePostDeleted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.metrics.dispatchDrops))
}

func TestRouter_HandlersRunConcurrently(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter()
	slow1, slow2 := newRecorder(types.EventTypePostLiked), newRecorder(types.EventTypePostLiked)
	slow1.delay, slow2.delay = 100*time.Millisecond, 100*time.Millisecond
	r.RegisterHandler(slow1)
	r.RegisterHandler(slow2)

	start := time.Now()
	require.NoError(t, r.HandleEvent(context.Background(), clubEvent(types.EventTypePostLiked)))
	assert.Less(t, time.Since(start), 180*time.Millisecond)
}

func TestRouter_HandlerTimeout(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter(WithHandlerTimeout(30 * time.Millisecond))
	stuck := newRecorder(types.EventTypeNotificationCreated)
	stuck.block = true
	r.RegisterHandler(stuck)

	err := r.HandleEvent(context.Background(), clubEvent(types.EventTypeNotificationCreated))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRouter_CallerCancellation(t *testing.T) {
	resetMetricsForTesting()
	r := NewRouter(WithHandlerTimeout(0))
	stuck := newRecorder(types.EventTypeNotificationCreated)
	stuck.block = true
	r.RegisterHandler(stuck)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.HandleEvent(ctx, clubEvent(types.EventTypeNotificationCreated)), context.DeadlineExceeded)
}
