package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeExperienceChange EventType = "experience_change"
	EventTypeSettingsUpdated  EventType = "settings_updated"
	EventTypeServerJoined     EventType = "server_joined"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ExperienceChangeEvent represents a ledger write that has been committed.
// Delta is signed: positive for grants, negative for removals. RemovedAll is
// set when the whole row was deleted, in which case Delta carries the total
// that was removed.
type ExperienceChangeEvent struct {
	UserID     int64
	ServerID   int64
	ActorID    int64
	Delta      int64
	Reason     string
	RemovedAll bool
}

func (e ExperienceChangeEvent) Type() EventType {
	return EventTypeExperienceChange
}

// SettingsUpdatedEvent represents a settings field edit that was persisted
type SettingsUpdatedEvent struct {
	ServerID int64
	Field    string
	EditorID int64
}

func (e SettingsUpdatedEvent) Type() EventType {
	return EventTypeSettingsUpdated
}

// ServerJoinedEvent represents the bot being added to a server
type ServerJoinedEvent struct {
	ServerID int64
}

func (e ServerJoinedEvent) Type() EventType {
	return EventTypeServerJoined
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so emitters are never blocked.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events until the surrounding unit of work commits,
// then flushes them to the real bus. Discarded on rollback.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so they outlive the transaction's context.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
