package expr

import (
	"github.com/tenzir/vast/schema"
	"github.com/tenzir/vast/value"
)

// LogicalOp joins a Query's head predicate to its subsequent tails.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

// QueryPredicate is the parser's validated predicate shape: one of
// TagPredicate, TypePredicate, OffsetPredicate, SchemaPredicate, or a
// NegatedPredicate wrapping any of the above.
type QueryPredicate interface {
	predicate()
}

// TagPredicate compares a built-in event tag ("name", "time", "id")
// against a constant.
type TagPredicate struct {
	LHS string
	Op  value.Operator
	RHS value.Value
}

// TypePredicate compares every value of a given discriminant found in an
// event's record against a constant.
type TypePredicate struct {
	LHS value.Kind
	Op  value.Operator
	RHS value.Value
}

// OffsetPredicate compares the field at a pre-resolved offset, scoped to
// one event type, against a constant.
type OffsetPredicate struct {
	Event string
	Off   schema.Offset
	Op    value.Operator
	RHS   value.Value
}

// SchemaPredicate compares the field(s) a name-path resolves to, across
// every event in the schema, against a constant.
type SchemaPredicate struct {
	LHS []string
	Op  value.Operator
	RHS value.Value
}

// NegatedPredicate wraps a predicate whose operator is complemented during
// normalization rather than carried as a runtime "not" node.
type NegatedPredicate struct {
	Operand QueryPredicate
}

func (TagPredicate) predicate()     {}
func (TypePredicate) predicate()    {}
func (OffsetPredicate) predicate()  {}
func (SchemaPredicate) predicate()  {}
func (NegatedPredicate) predicate() {}

// Tail is one {logicalOp, predicate} pair following a Query's head.
type Tail struct {
	Op        LogicalOp
	Predicate QueryPredicate
}

// Query is the parser's validated query shape: a head predicate and a list
// of AND/OR-joined tails.
type Query struct {
	Head QueryPredicate
	Rest []Tail
}
