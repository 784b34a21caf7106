// Package expr implements the normalized query AST and its two evaluation
// strategies: a per-event walk and an index-driven batch evaluator. The
// AST is a closed sum type over extractors, a constant, a predicate, and
// the two n-ary boolean combinators: a Go interface with a type switch
// standing in for visitor dispatch over the node hierarchy.
package expr

import (
	"strconv"
	"strings"

	"github.com/tenzir/vast/schema"
	"github.com/tenzir/vast/value"
)

// Node is any element of the normalized AST.
type Node interface {
	node()
	String() string
}

// NameExtractor yields the originating event's name.
type NameExtractor struct{}

// TimestampExtractor yields the originating event's timestamp.
type TimestampExtractor struct{}

// IDExtractor yields the originating event's ID.
type IDExtractor struct{}

// OffsetExtractor yields the field at Offset within the record of an event
// named Event, or invalid if the event does not match.
type OffsetExtractor struct {
	Event  string
	Offset schema.Offset
}

// TypeExtractor walks an event's record depth-first, yielding successive
// values whose discriminant equals Type; a resumable cursor drives this
// walk across the retries one predicate evaluation performs.
type TypeExtractor struct {
	Type value.Kind
}

// Constant wraps a literal value.
type Constant struct {
	Value value.Value
}

// Predicate is a binary relation between an LHS and RHS subtree.
type Predicate struct {
	Op  value.Operator
	LHS Node
	RHS Node
}

// Conjunction is the n-ary AND combinator.
type Conjunction struct {
	Operands []Node
}

// Disjunction is the n-ary OR combinator.
type Disjunction struct {
	Operands []Node
}

func (NameExtractor) node()      {}
func (TimestampExtractor) node() {}
func (IDExtractor) node()        {}
func (*OffsetExtractor) node()   {}
func (*TypeExtractor) node()     {}
func (*Constant) node()          {}
func (*Predicate) node()         {}
func (*Conjunction) node()       {}
func (*Disjunction) node()       {}

func (NameExtractor) String() string      { return "&name" }
func (TimestampExtractor) String() string { return "&time" }
func (IDExtractor) String() string        { return "&id" }

func (o *OffsetExtractor) String() string {
	var b strings.Builder
	b.WriteString(o.Event)
	b.WriteByte('@')
	for i, idx := range o.Offset {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}

func (t *TypeExtractor) String() string { return ":" + t.Type.String() }

func (c *Constant) String() string { return c.Value.String() }

func (p *Predicate) String() string {
	return p.LHS.String() + " " + p.Op.String() + " " + p.RHS.String()
}

func (c *Conjunction) String() string { return joinOperands(c.Operands, " && ", '{', '}') }
func (d *Disjunction) String() string { return joinOperands(d.Operands, " || ", '[', ']') }

func joinOperands(ops []Node, sep string, open, close byte) string {
	var b strings.Builder
	singular := len(ops) == 1
	if singular {
		b.WriteByte(open)
	}
	for i, op := range ops {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(op.String())
	}
	if singular {
		b.WriteByte(close)
	}
	return b.String()
}
