package websocket

import (
	"context"
	"sync"

	"github.com/campusconnect/campus-backend/types"
	"nhooyr.io/websocket"
)

// Closer is the part of *websocket.Conn the hub needs.
type Closer interface {
	Close(code websocket.StatusCode, reason string) error
}

// Connection is one user's socket plus the scopes it follows. Events from
// every followed scope are merged into a single bounded send queue.
type Connection struct {
	UserID string
	Conn   Closer

	outbox chan types.Event
	done   chan struct{}

	mu      sync.Mutex
	follows map[string]context.CancelFunc
	closed  bool
}

func newConnection(userID string, conn Closer, buffer int) *Connection {
	return &Connection{
		UserID:  userID,
		Conn:    conn,
		outbox:  make(chan types.Event, buffer),
		done:    make(chan struct{}),
		follows: make(map[string]context.CancelFunc),
	}
}

// claim reserves scope for this connection. It returns false when the
// connection is closed or already follows scope.
func (c *Connection) claim(ctx context.Context, scope string) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	if _, ok := c.follows[scope]; ok {
		return nil, false
	}
	sub, cancel := context.WithCancel(ctx)
	c.follows[scope] = cancel
	return sub, true
}

// release forgets scope and reports whether it was followed.
func (c *Connection) release(scope string) bool {
	c.mu.Lock()
	cancel, ok := c.follows[scope]
	delete(c.follows, scope)
	c.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// pump copies events into the outbox until the stream ends or the
// connection closes. A full outbox drops the event.
func (c *Connection) pump(ctx context.Context, in <-chan types.Event, onDrop func(types.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case event, ok := <-in:
			if !ok {
				return
			}
			select {
			case c.outbox <- event:
			default:
				onDrop(event)
			}
		}
	}
}

// shut marks the connection closed and returns the scopes it followed.
// Only the first call returns scopes.
func (c *Connection) shut() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	c.closed = true
	close(c.done)
	scopes := make([]string, 0, len(c.follows))
	for scope, cancel := range c.follows {
		cancel()
		scopes = append(scopes, scope)
	}
	c.follows = nil
	return scopes, true
}

func (c *Connection) scopes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.follows))
	for s := range c.follows {
		out = append(out, s)
	}
	return out
}

// SendChannel is read by the handler's write loop.
func (c *Connection) SendChannel() <-chan types.Event {
	return c.outbox
}

// Done is closed once the hub closes the connection.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
