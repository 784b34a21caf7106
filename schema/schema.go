// Package schema maps event names to typed record shapes and resolves
// name-paths to the set of offsets they denote across a schema's events.
package schema

import (
	"sort"

	"github.com/tenzir/vast/value"
)

// FieldType names a field's type: either a scalar discriminant or a
// nested record.
type FieldType struct {
	Kind   value.Kind
	Record *RecordType // non-nil iff Kind == value.Record
}

// Scalar builds a leaf FieldType of the given discriminant.
func Scalar(k value.Kind) FieldType { return FieldType{Kind: k} }

// Nested builds a record-typed FieldType.
func Nested(rt *RecordType) FieldType { return FieldType{Kind: value.Record, Record: rt} }

// Field is one named, typed member of a RecordType.
type Field struct {
	Name string
	Type FieldType
}

// RecordType is an ordered sequence of named, typed fields.
type RecordType struct {
	Fields []Field
}

// Record builds a RecordType from its fields.
func Record(fields ...Field) *RecordType { return &RecordType{Fields: fields} }

// F is a convenience constructor for a Field.
func F(name string, t FieldType) Field { return Field{Name: name, Type: t} }

// EventInfo is the name and top-level record shape of one event type.
type EventInfo struct {
	Name   string
	Record RecordType
}

// Offset is a path of positional indices identifying a field inside a
// (possibly nested) record.
type Offset []int

// Schema maps event names to their typed record shapes.
type Schema struct {
	Events map[string]EventInfo
}

// New returns an empty Schema.
func New() *Schema { return &Schema{Events: make(map[string]EventInfo)} }

// Add registers (or replaces) an event's shape.
func (s *Schema) Add(ei EventInfo) { s.Events[ei.Name] = ei }

// FindEvent looks up an event's shape by name.
func (s *Schema) FindEvent(name string) (EventInfo, bool) {
	ei, ok := s.Events[name]
	return ei, ok
}

// EventOffset pairs an event name with one offset that a name-path
// resolved to within that event's record.
type EventOffset struct {
	Event  string
	Offset Offset
}

// FindOffsets resolves a name-path against every event in the schema,
// returning one EventOffset per position in any event's record tree where
// the path's field names occur at consecutive depths. A path component
// need not anchor at the record root: "b","y"
// matches wherever a field named "b" is itself followed, one level down,
// by a field named "y" — independent of how deep "b" sits in the tree.
// The last component must name a non-record field: a path ending on a
// record-typed field yields no offset for that field.
// Results are ordered by event name for determinism.
func (s *Schema) FindOffsets(path []string) []EventOffset {
	if len(path) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Events))
	for name := range s.Events {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []EventOffset
	for _, name := range names {
		ei := s.Events[name]
		for _, off := range findOffsetsIn(&ei.Record, path) {
			out = append(out, EventOffset{Event: name, Offset: off})
		}
	}
	return out
}

func findOffsetsIn(rt *RecordType, path []string) []Offset {
	var out []Offset
	for idx, f := range rt.Fields {
		if f.Name == path[0] {
			if len(path) == 1 {
				if f.Type.Kind != value.Record {
					out = append(out, Offset{idx})
				}
			} else if f.Type.Kind == value.Record {
				for _, sub := range findOffsetsIn(f.Type.Record, path[1:]) {
					out = append(out, prepend(idx, sub))
				}
			}
		}
		if f.Type.Kind == value.Record {
			for _, sub := range findOffsetsIn(f.Type.Record, path) {
				out = append(out, prepend(idx, sub))
			}
		}
	}
	return out
}

func prepend(idx int, rest Offset) Offset {
	out := make(Offset, 0, len(rest)+1)
	out = append(out, idx)
	out = append(out, rest...)
	return out
}

// FindType resolves the discriminant of the field at offset within the
// named event's record, reporting false if the event is unknown or the
// offset does not resolve.
func (s *Schema) FindType(event string, offset Offset) (value.Kind, bool) {
	ei, ok := s.Events[event]
	if !ok || len(offset) == 0 {
		return value.Invalid, false
	}
	cur := &ei.Record
	var kind value.Kind
	for i, idx := range offset {
		if idx < 0 || idx >= len(cur.Fields) {
			return value.Invalid, false
		}
		f := cur.Fields[idx]
		kind = f.Type.Kind
		if i < len(offset)-1 {
			if f.Type.Kind != value.Record {
				return value.Invalid, false
			}
			cur = f.Type.Record
		}
	}
	return kind, true
}

// Represents reports whether two discriminants are mutually representative
// for the purpose of a schema predicate spanning several offsets (spec
// §4.5.2 point 3): here, simply identical discriminants, since a predicate
// operator dispatches on a single (lhs.Kind, rhs.Kind) pair and cannot mix
// value kinds across the offsets it was resolved from.
func Represents(a, b value.Kind) bool { return a == b }
