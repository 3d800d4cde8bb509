// Package input turns window-system events into backend-neutral events.
package input

// EventType identifies what happened.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Key is a backend-neutral key code. Only keys the demo reacts to are
// named; everything else arrives as KeyOther.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeySpace
	KeyR
	KeyP
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Queue collects events between frames.
type Queue struct {
	events []Event
	quit   bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	if e.Type == EventQuit {
		q.quit = true
	}
	q.events = append(q.events, e)
}

// Drain returns the queued events and empties the queue. The returned
// slice is only valid until the next Push.
func (q *Queue) Drain() []Event {
	events := q.events
	q.events = q.events[:0]
	return events
}

// QuitRequested reports whether a quit event was ever pushed.
func (q *Queue) QuitRequested() bool {
	return q.quit
}

// KeyPressed reports whether events contain a key-down for key.
func KeyPressed(events []Event, key Key) bool {
	for _, e := range events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}
