// Package event provides the in-process bus carrying domain events
// from the application services to their subscribers.
package event

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Handler consumes a single domain event
type Handler func(ctx context.Context, e shared.DomainEvent) error

// InMemoryEventBus implements shared.EventPublisher with in-process
// pub/sub. Handler failures are logged, never propagated: the state
// change that produced the event has already committed.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates an empty event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryEventBus) Subscribe(handler Handler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish dispatches events to all registered handlers synchronously
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		b.mu.RLock()
		handlers := b.handlers[e.EventType()]
		b.mu.RUnlock()

		b.logger.Debug("publishing domain event",
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
		)

		for _, handler := range handlers {
			if err := b.dispatch(ctx, handler, e); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// dispatch runs one handler, converting a panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler Handler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", e.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler(ctx, e)
}
