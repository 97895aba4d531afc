package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/types"
	"go.uber.org/zap"
)

const defaultHandlerTimeout = 10 * time.Second

// Router dispatches an event to every in-process handler that declared its
// type. Handlers run concurrently and a failing or panicking handler never
// hides the outcome of the others.
type Router struct {
	log     *zap.SugaredLogger
	metrics *eventMetrics
	timeout time.Duration

	mu     sync.RWMutex
	byType map[types.EventType][]types.EventHandler
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithHandlerTimeout bounds the time one handler may spend on one event.
// Zero disables the bound.
func WithHandlerTimeout(d time.Duration) RouterOption {
	return func(r *Router) { r.timeout = d }
}

func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		log:     logger.GetLogger().Named("event_router"),
		metrics: metricsFor(),
		timeout: defaultHandlerTimeout,
		byType:  make(map[types.EventType][]types.EventHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterHandler subscribes handler to each type it supports. Registering
// the same handler twice for a type is a no-op.
func (r *Router) RegisterHandler(handler types.EventHandler) {
	kinds := handler.SupportedEvents()
	if len(kinds) == 0 {
		r.log.Warnw("Ignoring handler without event types", "handler", fmt.Sprintf("%T", handler))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range kinds {
		if containsHandler(r.byType[kind], handler) {
			continue
		}
		r.byType[kind] = append(r.byType[kind], handler)
	}
	r.metrics.handlers.Set(float64(r.distinctLocked()))
	r.log.Debugw("Handler registered", "handler", fmt.Sprintf("%T", handler), "eventTypes", kinds)
}

// UnregisterHandler removes handler from every type it was registered for.
func (r *Router) UnregisterHandler(handler types.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range handler.SupportedEvents() {
		kept := r.byType[kind][:0]
		for _, h := range r.byType[kind] {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(r.byType, kind)
		} else {
			r.byType[kind] = kept
		}
	}
	r.metrics.handlers.Set(float64(r.distinctLocked()))
}

// Handlers returns a snapshot of the handlers subscribed to kind.
func (r *Router) Handlers(kind types.EventType) []types.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.EventHandler(nil), r.byType[kind]...)
}

// HandleEvent waits for every subscribed handler and joins their errors.
func (r *Router) HandleEvent(ctx context.Context, event types.Event) error {
	targets := r.Handlers(event.Type)
	if len(targets) == 0 {
		r.metrics.dispatchDrops.Inc()
		return nil
	}

	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, h := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.dispatch(ctx, h, event)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (r *Router) dispatch(ctx context.Context, h types.EventHandler, event types.Event) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler %T panicked: %v", h, p)
		}
		r.metrics.dispatchTime.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
		if err != nil {
			r.metrics.failures.WithLabelValues("dispatch", string(event.Type)).Inc()
			r.log.Errorw("Event handler failed", "handler", fmt.Sprintf("%T", h), "eventType", event.Type, "eventID", event.ID, "error", err)
		}
	}()

	if err := h.HandleEvent(ctx, event); err != nil {
		return fmt.Errorf("handler %T: %w", h, err)
	}
	return nil
}

func (r *Router) distinctLocked() int {
	seen := make(map[types.EventHandler]struct{})
	for _, hs := range r.byType {
		for _, h := range hs {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}

func containsHandler(hs []types.EventHandler, target types.EventHandler) bool {
	for _, h := range hs {
		if h == target {
			return true
		}
	}
	return false
}
