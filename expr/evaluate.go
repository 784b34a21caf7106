package expr

import (
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

// frame is one level of the depth-first walk a TypeExtractor performs over
// an event's record tree.
type frame struct {
	rec []value.Value
	idx int
}

// extractorState is the resumable cursor a TypeExtractor threads through
// repeated predicate evaluation, carrying a stateful walk position across
// successive retries. Re-architected as a value the caller owns and
// advances explicitly instead of a field mutated by a visitor.
type extractorState struct {
	stack     []frame
	exhausted bool
}

// next advances the cursor to the next value of discriminant kind found in
// the walk, reporting false once the tree is exhausted.
func (s *extractorState) next(kind value.Kind) (value.Value, bool) {
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]
		if top.idx >= len(top.rec) {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		arg := top.rec[top.idx]
		top.idx++
		if arg.Kind == value.Invalid {
			continue
		}
		if arg.Kind == value.Record {
			s.stack = append(s.stack, frame{rec: arg.Fields(), idx: 0})
			continue
		}
		if arg.Kind == kind {
			return arg, true
		}
	}
	s.exhausted = true
	return value.Value{}, false
}

// Evaluate evaluates a normalized AST against a single event.
// A nil node (the empty-query case) yields invalid, which BoolVal reports
// as false.
func Evaluate(n Node, e event.Event) value.Value {
	if n == nil {
		return value.NewInvalid()
	}
	switch t := n.(type) {
	case *Predicate:
		return value.NewBool(evalPredicate(t, e))
	case *Conjunction:
		for _, op := range t.Operands {
			if !Evaluate(op, e).BoolVal() {
				return value.NewBool(false)
			}
		}
		return value.NewBool(true)
	case *Disjunction:
		for _, op := range t.Operands {
			if Evaluate(op, e).BoolVal() {
				return value.NewBool(true)
			}
		}
		return value.NewBool(false)
	default:
		var state *extractorState
		return evalLeaf(n, e, &state)
	}
}

// Matches is the boolean convenience wrapper over Evaluate used by callers
// that only care about truthiness; an empty AST is false.
func Matches(n Node, e event.Event) bool {
	return Evaluate(n, e).BoolVal()
}

// evalPredicate evaluates LHS then RHS and applies the predicate's
// operator, retrying with successive TypeExtractor yields until the result
// is true or the shared cursor is exhausted.
func evalPredicate(p *Predicate, e event.Event) bool {
	var state *extractorState
	for {
		lhs := evalLeaf(p.LHS, e, &state)
		rhs := evalLeaf(p.RHS, e, &state)
		if value.Visit(p.Op, lhs, rhs) {
			return true
		}
		if state == nil || state.exhausted {
			return false
		}
	}
}

// evalLeaf evaluates an extractor or constant node, lazily allocating
// *state on first use by a TypeExtractor.
func evalLeaf(n Node, e event.Event, state **extractorState) value.Value {
	switch t := n.(type) {
	case NameExtractor:
		return value.NewString(e.Name)
	case TimestampExtractor:
		return value.NewTimePoint(e.Timestamp)
	case IDExtractor:
		return value.NewUint(uint64(e.ID))
	case *OffsetExtractor:
		if e.Name != t.Event {
			return value.NewInvalid()
		}
		v, ok := e.At(t.Offset...)
		if !ok {
			return value.NewInvalid()
		}
		return v
	case *Constant:
		return t.Value
	case *TypeExtractor:
		if *state == nil {
			*state = &extractorState{stack: []frame{{rec: e.Value.Fields()}}}
		}
		v, found := (*state).next(t.Type)
		if !found {
			return value.NewInvalid()
		}
		return v
	default:
		return value.NewInvalid()
	}
}
