package mysqlddl

import (
	"fmt"

	"github.com/vermilion1/schematrack/sqlschema"
)

// EventType tags the structural change a DDL statement produced.
type EventType int

const (
	EventCreateTable EventType = iota
	EventAlterTable
	EventDropTable
)

func (t EventType) String() string {
	switch t {
	case EventCreateTable:
		return "CREATE TABLE"
	case EventAlterTable:
		return "ALTER TABLE"
	case EventDropTable:
		return "DROP TABLE"
	}
	return "UNKNOWN"
}

// Event is emitted once per recognized structural statement, after the
// catalog mutation for that statement has fully completed. DDL is the
// verbatim statement text as it appeared on the stream.
type Event struct {
	Type  EventType
	Table sqlschema.TableID
	DDL   string
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s: %s", e.Type, e.Table, e.DDL)
}

// Listener observes structural schema changes as the interpreter applies
// them. Implementations must not retain or mutate catalog state from within
// the callback; they are invoked synchronously between statements.
type Listener interface {
	HandleDDLEvent(event Event)
}

// Listeners fans one event out to an ordered collection of listeners.
type Listeners struct {
	listeners []Listener
}

// Add appends a listener; it will observe all subsequent events.
func (l *Listeners) Add(listener Listener) {
	l.listeners = append(l.listeners, listener)
}

// HandleDDLEvent dispatches to every registered listener in add order, so a
// Listeners is itself usable anywhere a Listener is.
func (l *Listeners) HandleDDLEvent(event Event) {
	for _, listener := range l.listeners {
		listener.HandleDDLEvent(event)
	}
}

// EventRecorder is the reference in-process listener: it accumulates events
// in arrival order for later inspection. Used heavily by tests.
type EventRecorder struct {
	events []Event
}

func (r *EventRecorder) HandleDDLEvent(event Event) {
	r.events = append(r.events, event)
}

// Events returns the recorded events in arrival order.
func (r *EventRecorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

// Len returns the total number of recorded events.
func (r *EventRecorder) Len() int {
	return len(r.events)
}

// Reset discards all recorded events.
func (r *EventRecorder) Reset() {
	r.events = nil
}
