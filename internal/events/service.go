package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"go.uber.org/zap"
)

// Service routes each published event to in-process handlers, then fans it
// out over the underlying publisher.
type Service struct {
	log       *zap.SugaredLogger
	publisher types.EventPublisher
	router    *Router
	mu        sync.RWMutex
	handlers  map[string]types.EventHandler
}

var _ types.EventPublisher = (*Service)(nil)

// NewService wraps publisher. A nil publisher routes locally only.
func NewService(publisher types.EventPublisher) *Service {
	return &Service{
		log:       logger.GetLogger().Named("event_service"),
		publisher: publisher,
		router:    NewRouter(),
		handlers:  make(map[string]types.EventHandler),
	}
}

// RegisterHandler adds a named in-process handler.
func (s *Service) RegisterHandler(name string, handler types.EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.handlers[name]; exists {
		return fmt.Errorf("handler with name %s already registered", name)
	}
	s.handlers[name] = handler
	s.router.RegisterHandler(handler)

	s.log.Infow("Registered event handler", "name", name, "supportedEvents", handler.SupportedEvents())
	return nil
}

func (s *Service) UnregisterHandler(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	handler, exists := s.handlers[name]
	if !exists {
		return fmt.Errorf("handler %s not found", name)
	}
	s.router.UnregisterHandler(handler)
	delete(s.handlers, name)
	return nil
}

// Publish handles the event locally first. A local handler failure is logged
// and does not stop the fan-out.
func (s *Service) Publish(ctx context.Context, scope string, event types.Event) error {
	if event.Scope == "" {
		event.Scope = scope
	}
	if err := s.router.HandleEvent(ctx, event); err != nil {
		s.log.Errorw("Error handling event locally",
			"error", err,
			"scope", scope,
			"eventType", event.Type,
		)
	}

	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, scope, event)
}

func (s *Service) Subscribe(ctx context.Context, scope string, subscriberID string, filters ...types.EventType) (<-chan types.Event, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("realtime delivery is not configured")
	}
	return s.publisher.Subscribe(ctx, scope, subscriberID, filters...)
}

func (s *Service) Unsubscribe(ctx context.Context, scope string, subscriberID string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Unsubscribe(ctx, scope, subscriberID)
}

// Shutdown drops all handlers and shuts the publisher down if it supports it.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for name, h := range s.handlers {
		s.router.UnregisterHandler(h)
		delete(s.handlers, name)
	}
	s.mu.Unlock()

	if sd, ok := s.publisher.(interface{ Shutdown(context.Context) error }); ok {
		if err := sd.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown publisher: %w", err)
		}
	}
	s.log.Info("Event service shutdown complete")
	return nil
}

// GetHandlerNames returns the registered handler names.
func (s *Service) GetHandlerNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}
