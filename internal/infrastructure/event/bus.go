// Package event provides the in-process event bus that carries domain
// events from the application services to their subscribed handlers.
package event

import (
	"context"
	"sync"

	"github.com/budgeterp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// subscription ties a handler to the event types it wants. A nil type
// set means the handler receives every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) wants(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventBus delivers domain events synchronously, in
// subscription order, within the publisher's goroutine. Handler
// failures are logged and never propagate back to the publisher.
type InMemoryEventBus struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *zap.Logger
	started       bool
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: logger}
}

// Subscribe registers a handler. With no explicit event types the
// handler's own EventTypes() is consulted; an empty result subscribes
// it to all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subscriptions = append(b.subscriptions, sub)
	b.mu.Unlock()

	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes every subscription held by the handler.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	kept := b.subscriptions[:0]
	for _, sub := range b.subscriptions {
		if sub.handler != handler {
			kept = append(kept, sub)
		}
	}
	b.subscriptions = kept
	b.mu.Unlock()
}

// Publish dispatches each event to its matching handlers. It always
// returns nil: a failed handler must not roll back the business
// operation that emitted the event.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	subs := make([]subscription, len(b.subscriptions))
	copy(subs, b.subscriptions)
	b.mu.RUnlock()

	for _, evt := range events {
		for _, sub := range subs {
			if !sub.wants(evt.EventType()) {
				continue
			}
			b.deliver(ctx, sub.handler, evt)
		}
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.String("aggregate_id", evt.AggregateID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, evt); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
	}
}

func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	b.logger.Info("event bus started")
	return nil
}

func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.started = false
	b.mu.Unlock()
	b.logger.Info("event bus stopped")
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
