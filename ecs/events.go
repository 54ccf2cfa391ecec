package ecs

// EventKind identifies a world lifecycle event.
type EventKind uint8

const (
	EntityCreated EventKind = iota + 1
	EntityDestroyed
	ComponentAdded
	ComponentRemoved
)

func (k EventKind) String() string {
	switch k {
	case EntityCreated:
		return "entity_created"
	case EntityDestroyed:
		return "entity_destroyed"
	case ComponentAdded:
		return "component_added"
	case ComponentRemoved:
		return "component_removed"
	default:
		return "unknown"
	}
}

// Event records a structural change to the world. Component is only
// meaningful for ComponentAdded and ComponentRemoved.
type Event struct {
	Kind      EventKind
	Entity    Entity
	Component ComponentID
}

// EventQueue is a simple FIFO queue. Events nobody drains are dropped by the
// second World.Update after they were pushed.
type EventQueue struct {
	items    []Event
	stale    int
	disabled bool
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil || q.disabled {
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
	q.stale = 0
	return out
}

// expire drops events that were already pending at the previous call and
// marks the rest as pending.
func (q *EventQueue) expire() {
	if q == nil {
		return
	}
	if q.stale > 0 {
		q.items = append([]Event(nil), q.items[q.stale:]...)
	}
	q.stale = len(q.items)
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
