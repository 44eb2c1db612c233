package events

import (
	"context"
	"sync"

	"supportbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLevelUp        EventType = "level_up"
	EventTypeCreditsAwarded EventType = "credits_awarded"
	EventTypeTicketOpened   EventType = "ticket_opened"
	EventTypeTicketClosed   EventType = "ticket_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LevelUpEvent fires when a user's XP crosses a level threshold. ChannelID
// is the channel the qualifying message arrived in, so the announcement
// lands where the user is active.
type LevelUpEvent struct {
	UserID    string
	ChannelID string
	NewLevel  models.Level
	XP        int
	XPToNext  int
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// CreditsAwardedEvent fires on every credit balance change.
type CreditsAwardedEvent struct {
	UserID     string
	Amount     int
	NewBalance int
}

func (e CreditsAwardedEvent) Type() EventType {
	return EventTypeCreditsAwarded
}

// TicketOpenedEvent fires after a support channel is created and recorded.
type TicketOpenedEvent struct {
	UserID    string
	ChannelID string
}

func (e TicketOpenedEvent) Type() EventType {
	return EventTypeTicketOpened
}

// TicketClosedEvent fires after a ticket's channel is removed.
type TicketClosedEvent struct {
	UserID    string
	ChannelID string
}

func (e TicketClosedEvent) Type() EventType {
	return EventTypeTicketClosed
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

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking the event source
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
