package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGuildSettingsCreated EventType = "guild_settings_created"
	EventTypeGuildSettingsDeleted EventType = "guild_settings_deleted"
	EventTypeDailyPosted          EventType = "daily_posted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GuildSettingsCreatedEvent fires when a default settings row is materialized
type GuildSettingsCreatedEvent struct {
	GuildID int64
}

func (e GuildSettingsCreatedEvent) Type() EventType {
	return EventTypeGuildSettingsCreated
}

// GuildSettingsDeletedEvent fires when a guild's settings are removed
type GuildSettingsDeletedEvent struct {
	GuildID int64
}

func (e GuildSettingsDeletedEvent) Type() EventType {
	return EventTypeGuildSettingsDeleted
}

// DailyPostedEvent fires after the autodaily poster delivers an announcement
type DailyPostedEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
}

func (e DailyPostedEvent) Type() EventType {
	return EventTypeDailyPosted
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

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
