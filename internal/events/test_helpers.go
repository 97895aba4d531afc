package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var errRecorder = errors.New("recorder failure")

// recorder is an EventHandler that keeps what it receives. Its behaviour is
// switched by the fail/delay/block/panics fields before use.
type recorder struct {
	kinds  []types.EventType
	fail   bool
	delay  time.Duration
	block  bool
	panics bool

	mu   sync.Mutex
	seen []types.Event
}

func newRecorder(kinds ...types.EventType) *recorder {
	return &recorder{kinds: kinds}
}

func (r *recorder) SupportedEvents() []types.EventType { return r.kinds }

func (r *recorder) HandleEvent(ctx context.Context, event types.Event) error {
	switch {
	case r.panics:
		panic("recorder panic")
	case r.block:
		<-ctx.Done()
		return ctx.Err()
	case r.fail:
		return errRecorder
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	r.seen = append(r.seen, event)
	r.mu.Unlock()
	return nil
}

func (r *recorder) received() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.seen...)
}

// startRedis runs a throwaway Redis for the pub/sub round-trip tests.
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container tests are skipped with -short")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
