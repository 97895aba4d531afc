package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusconnect/campus-backend/types"
)

// MockPublisher is an in-memory types.EventPublisher for tests. It records
// every event per scope and delivers to local subscribers.
type MockPublisher struct {
	mu            sync.RWMutex
	events        map[string][]types.Event
	subscriptions map[string]map[string]chan types.Event
	closed        bool
}

var _ types.EventPublisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events:        make(map[string][]types.Event),
		subscriptions: make(map[string]map[string]chan types.Event),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, scope string, event types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("publisher is closed")
	}
	event = withDefaults(scope, event)
	m.events[scope] = append(m.events[scope], event)

	for _, ch := range m.subscriptions[scope] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe ignores filters; tests assert on the types they receive.
func (m *MockPublisher) Subscribe(ctx context.Context, scope string, subscriberID string, filters ...types.EventType) (<-chan types.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("publisher is closed")
	}
	if m.subscriptions[scope] == nil {
		m.subscriptions[scope] = make(map[string]chan types.Event)
	}
	if _, exists := m.subscriptions[scope][subscriberID]; exists {
		return nil, fmt.Errorf("subscription already exists for %s and subscriber %s", scope, subscriberID)
	}
	ch := make(chan types.Event, 100)
	m.subscriptions[scope][subscriberID] = ch
	return ch, nil
}

func (m *MockPublisher) Unsubscribe(ctx context.Context, scope string, subscriberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.subscriptions[scope][subscriberID]
	if !ok {
		return fmt.Errorf("no subscription found for %s and subscriber %s", scope, subscriberID)
	}
	close(ch)
	delete(m.subscriptions[scope], subscriberID)
	return nil
}

// GetEvents returns the events published on scope.
func (m *MockPublisher) GetEvents(scope string) []types.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.Event(nil), m.events[scope]...)
}

// EventTypes returns the types published on scope in order.
func (m *MockPublisher) EventTypes(scope string) []types.EventType {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.EventType, 0, len(m.events[scope]))
	for _, e := range m.events[scope] {
		out = append(out, e.Type)
	}
	return out
}

// Close makes further publishes fail.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, subs := range m.subscriptions {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
	}
}
