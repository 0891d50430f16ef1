package pipeline

import (
	"sync"
	"time"
)

// EventType represents the type of pipeline event.
type EventType string

const (
	EventStageStart    EventType = "stage_start"
	EventStageComplete EventType = "stage_complete"
	EventStageFail     EventType = "stage_fail"
)

// Event records a stage transition.
type Event struct {
	Type      EventType
	Stage     string
	Timestamp time.Time
	Err       error
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// EventBus fans stage events out to subscribers (UI, logger). It keeps the
// pipeline client decoupled from whoever is watching it.
type EventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler for all stage events.
func (eb *EventBus) Subscribe(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers = append(eb.handlers, handler)
}

// Publish sends an event to all registered handlers.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, handler := range eb.handlers {
		handler(event)
	}
}

func (eb *EventBus) stageStart(stage string) {
	eb.Publish(Event{Type: EventStageStart, Stage: stage})
}

func (eb *EventBus) stageDone(stage string, err error) {
	if err != nil {
		eb.Publish(Event{Type: EventStageFail, Stage: stage, Err: err})
		return
	}
	eb.Publish(Event{Type: EventStageComplete, Stage: stage})
}
