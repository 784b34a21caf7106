// Package event defines the archived record unit the indexing core builds
// bitmap indexes over: an identifier, a timestamp, an event name, and a
// value tree.
package event

import (
	"time"

	"github.com/tenzir/vast/value"
)

// ID uniquely identifies an event. 0 is reserved as the invalid ID so bit
// position 0 in every bitmap index can be pre-filled false.
type ID uint64

const (
	// InvalidID marks "not an event"; never assigned to a real event.
	InvalidID ID = 0
	// MinID is the smallest ID a real event may carry.
	MinID ID = 1
	// MaxID is the largest ID a real event may carry; the top value of the
	// range is reserved the same way the source reserves max_event_id.
	MaxID ID = ID(^uint64(0)) - 1
)

// Valid reports whether id falls in the assignable range [MinID, MaxID].
func (id ID) Valid() bool { return id >= MinID && id <= MaxID }

// Event is an archived unit: an ID, a timestamp, the originating event's
// name, and its value tree (typically a Record).
type Event struct {
	ID        ID
	Timestamp time.Time
	Name      string
	Value     value.Value
}

// New constructs an Event. val is typically value.NewRecord(...) but any
// Value is accepted, mirroring the source's permissive value tree.
func New(id ID, name string, ts time.Time, val value.Value) Event {
	return Event{ID: id, Timestamp: ts, Name: name, Value: val}
}

// At resolves a field inside Value by offset path, reporting false if the
// path does not resolve.
func (e Event) At(offset ...int) (value.Value, bool) {
	return e.Value.At(offset...)
}
