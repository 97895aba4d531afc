package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// EventSubscriber is the subscribe half of types.EventPublisher.
type EventSubscriber interface {
	Subscribe(ctx context.Context, scope string, subscriberID string, filters ...types.EventType) (<-chan types.Event, error)
	Unsubscribe(ctx context.Context, scope string, subscriberID string) error
}

// ClubLister lists the clubs a user belongs to.
type ClubLister interface {
	ListJoinedClubIDs(ctx context.Context, userID string) ([]string, error)
}

type HubConfig struct {
	PingInterval time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   256,
	}
}

var (
	hubGaugeOnce sync.Once
	hubOpen      prometheus.Gauge
	hubDrops     prometheus.Counter
)

func hubMetrics() (prometheus.Gauge, prometheus.Counter) {
	hubGaugeOnce.Do(func() {
		hubOpen = promauto.NewGauge(prometheus.GaugeOpts{
			Name: "campus_ws_connections",
			Help: "Open realtime websocket connections",
		})
		hubDrops = promauto.NewCounter(prometheus.CounterOpts{
			Name: "campus_ws_dropped_events_total",
			Help: "Events dropped because a connection's send queue was full",
		})
	})
	return hubOpen, hubDrops
}

// Hub keeps at most one socket per user. A new socket for the same user
// replaces the old one. Every socket follows the user's notification scope
// and the scopes of the clubs they joined, plus whatever the client asks for.
type Hub struct {
	log    *zap.SugaredLogger
	events EventSubscriber
	clubs  ClubLister
	cfg    HubConfig

	open  prometheus.Gauge
	drops prometheus.Counter

	mu    sync.RWMutex
	conns map[string]*Connection
	down  bool
}

func NewHub(events EventSubscriber, clubs ClubLister, cfg ...HubConfig) *Hub {
	c := DefaultHubConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = DefaultHubConfig().SendBuffer
	}
	open, drops := hubMetrics()
	return &Hub{
		log:    logger.GetLogger().Named("websocket_hub"),
		events: events,
		clubs:  clubs,
		cfg:    c,
		open:   open,
		drops:  drops,
		conns:  make(map[string]*Connection),
	}
}

// Register attaches conn to userID and follows the user's default scopes.
// Failing to follow one scope is logged; the rest still apply.
func (h *Hub) Register(ctx context.Context, userID string, conn Closer) (*Connection, error) {
	scopes, err := h.defaultScopes(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := newConnection(userID, conn, h.cfg.SendBuffer)
	h.mu.Lock()
	if h.down {
		h.mu.Unlock()
		return nil, fmt.Errorf("realtime hub is shutting down")
	}
	previous := h.conns[userID]
	h.conns[userID] = c
	h.mu.Unlock()

	if previous != nil {
		h.close(previous, "replaced by new connection")
	}
	h.open.Inc()

	for _, scope := range scopes {
		if err := h.follow(ctx, c, scope); err != nil {
			h.log.Warnw("Could not follow scope", "userID", userID, "scope", scope, "error", err)
		}
	}
	h.log.Infow("Realtime connection opened", "userID", userID, "scopes", len(scopes))
	return c, nil
}

func (h *Hub) defaultScopes(ctx context.Context, userID string) ([]string, error) {
	scopes := []string{types.NotificationScope(userID)}
	if h.clubs == nil {
		return scopes, nil
	}
	clubIDs, err := h.clubs.ListJoinedClubIDs(ctx, userID)
	if err != nil {
		h.log.Errorw("Listing joined clubs failed", "userID", userID, "error", err)
		return nil, fmt.Errorf("list joined clubs: %w", err)
	}
	for _, id := range clubIDs {
		scopes = append(scopes, types.ClubScope(id))
	}
	return scopes, nil
}

func (h *Hub) follow(ctx context.Context, c *Connection, scope string) error {
	subCtx, ok := c.claim(ctx, scope)
	if !ok {
		return nil
	}
	stream, err := h.events.Subscribe(subCtx, scope, c.UserID)
	if err != nil {
		c.release(scope)
		return err
	}
	go c.pump(subCtx, stream, func(e types.Event) {
		h.drops.Inc()
		h.log.Warnw("Send queue full, dropping event", "userID", c.UserID, "scope", scope, "eventType", e.Type)
	})
	return nil
}

// close shuts c and releases its subscriptions.
func (h *Hub) close(c *Connection, reason string) {
	scopes, first := c.shut()
	if !first {
		return
	}
	for _, scope := range scopes {
		if err := h.events.Unsubscribe(context.Background(), scope, c.UserID); err != nil {
			h.log.Debugw("Unsubscribe on close", "userID", c.UserID, "scope", scope, "error", err)
		}
	}
	if c.Conn != nil {
		_ = c.Conn.Close(websocket.StatusNormalClosure, reason)
	}
	h.open.Dec()
	h.log.Infow("Realtime connection closed", "userID", c.UserID, "reason", reason)
}

func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	c, ok := h.conns[userID]
	if ok {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	if ok {
		h.close(c, "unregistered")
	}
}

// Detach closes c unless it was already replaced, in which case only c is
// closed and the newer connection stays registered.
func (h *Hub) Detach(c *Connection) {
	h.mu.Lock()
	if h.conns[c.UserID] == c {
		delete(h.conns, c.UserID)
	}
	h.mu.Unlock()
	h.close(c, "client disconnected")
}

func (h *Hub) lookup(userID string) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[userID]
	return c, ok
}

// AddSubscription follows one more scope for a connected user. Unknown users
// and scopes already followed are ignored.
func (h *Hub) AddSubscription(ctx context.Context, userID, scope string) error {
	c, ok := h.lookup(userID)
	if !ok {
		return nil
	}
	return h.follow(ctx, c, scope)
}

// RemoveSubscription stops following scope. The user's own notification
// scope always stays.
func (h *Hub) RemoveSubscription(ctx context.Context, userID, scope string) error {
	if scope == types.NotificationScope(userID) {
		return nil
	}
	c, ok := h.lookup(userID)
	if !ok || !c.release(scope) {
		return nil
	}
	return h.events.Unsubscribe(ctx, scope, userID)
}

// Scopes lists what a connected user follows.
func (h *Hub) Scopes(userID string) []string {
	c, ok := h.lookup(userID)
	if !ok {
		return nil
	}
	return c.scopes()
}

func (h *Hub) GetConnection(userID string) (*Connection, bool) {
	return h.lookup(userID)
}

func (h *Hub) GetConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown closes every connection and refuses new ones.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.down = true
	open := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		open = append(open, c)
	}
	h.conns = make(map[string]*Connection)
	h.mu.Unlock()

	for _, c := range open {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.close(c, "server shutdown")
	}
	h.log.Infow("Realtime hub stopped", "closed", len(open))
	return nil
}
