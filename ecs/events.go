package ecs

// EventKind identifies a gameplay notification delivered to the shell.
type EventKind uint8

const (
	EventSound EventKind = iota + 1
	EventTransition
	EventScore
)

func (k EventKind) String() string {
	switch k {
	case EventSound:
		return "sound"
	case EventTransition:
		return "transition"
	case EventScore:
		return "score"
	default:
		return "unknown"
	}
}

// Event is one notification. Data is a component.SoundKind for EventSound
// and the target screen name for EventTransition.
type Event struct {
	Kind EventKind
	Data any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Reset drops pending events.
func (q *EventQueue) Reset() {
	if q == nil {
		return
	}
	q.items = nil
}
