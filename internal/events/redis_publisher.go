package events

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config tunes the Redis transport.
type Config struct {
	PublishTimeout   time.Duration
	SubscribeTimeout time.Duration
	EventBufferSize  int
}

func DefaultConfig() Config {
	return Config{
		PublishTimeout:   5 * time.Second,
		SubscribeTimeout: 10 * time.Second,
		EventBufferSize:  100,
	}
}

// RedisPublisher carries events over Redis pub/sub. A scope such as
// "club:<id>" or "notifications:<userID>" is used verbatim as the channel.
type RedisPublisher struct {
	rdb     *redis.Client
	cfg     Config
	log     *zap.SugaredLogger
	metrics *eventMetrics

	mu      sync.Mutex
	streams map[streamKey]*stream
	readers sync.WaitGroup
}

type streamKey struct {
	scope      string
	subscriber string
}

// stream is one live Redis subscription feeding one consumer channel.
type stream struct {
	key    streamKey
	pubsub *redis.PubSub
	out    chan types.Event
	kinds  []types.EventType
	stop   context.CancelFunc
	closed sync.Once
}

func (s *stream) close() error {
	var err error
	s.closed.Do(func() {
		s.stop()
		err = s.pubsub.Close()
	})
	return err
}

var _ types.EventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb *redis.Client, cfg ...Config) *RedisPublisher {
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = DefaultConfig().EventBufferSize
	}
	return &RedisPublisher{
		rdb:     rdb,
		cfg:     c,
		log:     logger.GetLogger().Named("redis_events"),
		metrics: metricsFor(),
		streams: make(map[streamKey]*stream),
	}
}

// withDefaults stamps an id, time, version and scope on events that lack them.
func withDefaults(scope string, event types.Event) types.Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Version == 0 {
		event.Version = 1
	}
	if event.Scope == "" {
		event.Scope = scope
	}
	return event
}

func (p *RedisPublisher) Publish(ctx context.Context, scope string, event types.Event) error {
	defer func(start time.Time) {
		p.metrics.publishTime.Observe(time.Since(start).Seconds())
	}(time.Now())

	event = withDefaults(scope, event)
	if err := event.Validate(); err != nil {
		p.metrics.failures.WithLabelValues("publish", "invalid").Inc()
		return fmt.Errorf("invalid event: %w", err)
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.metrics.failures.WithLabelValues("publish", "encode").Inc()
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, scope, body).Err(); err != nil {
		p.metrics.failures.WithLabelValues("publish", "redis").Inc()
		return fmt.Errorf("redis publish to %s: %w", scope, err)
	}
	p.metrics.published.WithLabelValues(string(event.Type)).Inc()
	return nil
}

// Subscribe opens a stream of events on scope for subscriberID, keeping only
// the listed kinds when any are given. A subscriber may hold one stream per
// scope at a time.
func (p *RedisPublisher) Subscribe(ctx context.Context, scope string, subscriberID string, kinds ...types.EventType) (<-chan types.Event, error) {
	key := streamKey{scope: scope, subscriber: subscriberID}

	p.mu.Lock()
	if _, dup := p.streams[key]; dup {
		p.mu.Unlock()
		p.metrics.failures.WithLabelValues("subscribe", "duplicate").Inc()
		return nil, fmt.Errorf("subscriber %s already listens on %s", subscriberID, scope)
	}
	readCtx, stop := context.WithCancel(context.Background())
	s := &stream{
		key:    key,
		pubsub: p.rdb.Subscribe(ctx, scope),
		out:    make(chan types.Event, p.cfg.EventBufferSize),
		kinds:  kinds,
		stop:   stop,
	}
	p.streams[key] = s
	p.mu.Unlock()

	confirmCtx, cancel := context.WithTimeout(ctx, p.cfg.SubscribeTimeout)
	defer cancel()
	if _, err := s.pubsub.Receive(confirmCtx); err != nil {
		if ctx.Err() != nil {
			p.drop(s)
			return nil, ctx.Err()
		}
		// Redis may confirm late; the reader still delivers once it does.
		p.log.Warnw("Subscription not confirmed in time", "scope", scope, "subscriber", subscriberID, "error", err)
	}

	p.metrics.subscribers.Inc()
	p.readers.Add(1)
	go p.read(readCtx, s)
	return s.out, nil
}

// read forwards messages until the stream is stopped. A slow consumer loses
// events rather than stalling the Redis connection.
func (p *RedisPublisher) read(ctx context.Context, s *stream) {
	defer p.readers.Done()
	defer func() {
		_ = s.close()
		close(s.out)
		p.metrics.subscribers.Dec()
	}()

	msgs := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event types.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.metrics.failures.WithLabelValues("receive", "decode").Inc()
				p.log.Warnw("Skipping undecodable event", "scope", s.key.scope, "error", err)
				continue
			}
			if !matchesFilters(event.Type, s.kinds) {
				continue
			}
			select {
			case s.out <- event:
				p.metrics.delivered.WithLabelValues(string(event.Type)).Inc()
			default:
				p.metrics.failures.WithLabelValues("receive", "consumer_full").Inc()
				p.log.Warnw("Consumer buffer full, event dropped", "scope", s.key.scope,
					"subscriber", s.key.subscriber, "eventType", event.Type)
			}
		}
	}
}

func matchesFilters(kind types.EventType, kinds []types.EventType) bool {
	return len(kinds) == 0 || slices.Contains(kinds, kind)
}

// drop forgets s and closes its Redis subscription.
func (p *RedisPublisher) drop(s *stream) {
	p.mu.Lock()
	if p.streams[s.key] == s {
		delete(p.streams, s.key)
	}
	p.mu.Unlock()
	if err := s.close(); err != nil {
		p.log.Debugw("Closing subscription", "scope", s.key.scope, "error", err)
	}
}

func (p *RedisPublisher) Unsubscribe(ctx context.Context, scope string, subscriberID string) error {
	p.mu.Lock()
	s, ok := p.streams[streamKey{scope: scope, subscriber: subscriberID}]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("subscriber %s has no stream on %s", subscriberID, scope)
	}
	p.drop(s)
	return nil
}

// Shutdown closes every stream and waits for the readers to finish.
func (p *RedisPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	open := make([]*stream, 0, len(p.streams))
	for _, s := range p.streams {
		open = append(open, s)
	}
	p.mu.Unlock()

	p.log.Infow("Closing realtime streams", "count", len(open))
	for _, s := range open {
		p.drop(s)
	}

	done := make(chan struct{})
	go func() {
		p.readers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
