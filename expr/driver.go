package expr

import (
	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitmapindex"
	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/schema"
)

// IndexResolver maps an extractor to the bitmap index backing it, so the
// driver can dispatch a leaf predicate to the appropriate bitmap index
// based on its LHS extractor kind, without per-event evaluation.
type IndexResolver interface {
	NameIndex() bitmapindex.Index
	TimeIndex() bitmapindex.Index
	OffsetIndex(eventName string, off schema.Offset) (bitmapindex.Index, bool)
}

// EventStore resolves an event ID to its archived event, for the fallback
// per-event path.
type EventStore interface {
	Event(id event.ID) (event.Event, bool)
}

// Driver is the index-driven batch evaluator. It replays a normalized AST
// bottom-up, substituting index lookups for predicate leaves and C2's
// bitwise ops for the boolean combinators, falling back to per-event
// evaluation for predicates an index cannot answer.
type Driver struct {
	Resolver IndexResolver
	Events   EventStore
	Size     uint64
	log      *zap.Logger
}

// NewDriver constructs a Driver over size event-ID positions (0 reserved).
func NewDriver(resolver IndexResolver, events EventStore, size uint64, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{Resolver: resolver, Events: events, Size: size, log: log}
}

func (d *Driver) allOnes() bitstream.Bitstream {
	bs := bitstream.NewEWAH()
	if d.Size > 0 {
		bs.Append(d.Size, true)
	}
	return bs
}

func (d *Driver) allZeros() bitstream.Bitstream {
	bs := bitstream.NewEWAH()
	if d.Size > 0 {
		bs.Append(d.Size, false)
	}
	return bs
}

// Evaluate answers n over the whole event-ID range, returning the
// bitstream of matching positions.
func (d *Driver) Evaluate(n Node) bitstream.Bitstream {
	switch t := n.(type) {
	case *Predicate:
		if bits, ok := d.lookupPredicate(t); ok {
			return bits
		}
		return d.perEventScan(nil, t)
	case *Conjunction:
		return d.evalConjunction(t)
	case *Disjunction:
		return d.evalDisjunction(t)
	default:
		return d.allZeros()
	}
}

func (d *Driver) evalConjunction(c *Conjunction) bitstream.Bitstream {
	acc := d.allOnes()
	var fallback []*Predicate
	for _, op := range c.Operands {
		if p, ok := op.(*Predicate); ok {
			if bits, ok := d.lookupPredicate(p); ok {
				acc = acc.And(bits)
				continue
			}
			fallback = append(fallback, p)
			continue
		}
		acc = acc.And(d.Evaluate(op))
	}
	if len(fallback) == 0 {
		return acc
	}
	return d.perEventScan(candidateSet(acc), fallback...)
}

// candidateSet drains a bitstream's set positions into a roaring bitmap, the
// scratch membership set perEventScan tests against — the same
// lockable-set-of-IDs role tsdb's series ID set fills, minus the locking:
// the driver owns this set exclusively for the duration of one evaluation.
func candidateSet(bits bitstream.Bitstream) *roaring.Bitmap {
	rb := roaring.NewBitmap()
	bits.Ones(func(pos uint64) bool {
		rb.Add(uint32(pos))
		return true
	})
	return rb
}

func (d *Driver) evalDisjunction(disj *Disjunction) bitstream.Bitstream {
	acc := d.allZeros()
	for _, op := range disj.Operands {
		if p, ok := op.(*Predicate); ok {
			if bits, ok := d.lookupPredicate(p); ok {
				acc = acc.Or(bits)
				continue
			}
			acc = acc.Or(d.perEventScan(nil, p))
			continue
		}
		acc = acc.Or(d.Evaluate(op))
	}
	return acc
}

// lookupPredicate dispatches p to the bitmap index its LHS names, failing
// (ok=false) whenever the predicate needs per-event evaluation: a
// TypeExtractor LHS (it yields varying values per event) or a
// non-constant RHS.
func (d *Driver) lookupPredicate(p *Predicate) (bitstream.Bitstream, bool) {
	constant, ok := p.RHS.(*Constant)
	if !ok {
		return nil, false
	}
	var idx bitmapindex.Index
	switch lhs := p.LHS.(type) {
	case NameExtractor:
		idx = d.Resolver.NameIndex()
	case TimestampExtractor:
		idx = d.Resolver.TimeIndex()
	case *OffsetExtractor:
		var found bool
		idx, found = d.Resolver.OffsetIndex(lhs.Event, lhs.Offset)
		if !found {
			return nil, false
		}
	default:
		return nil, false
	}
	if idx == nil {
		return nil, false
	}
	bits, err := idx.Lookup(p.Op, constant.Value)
	if err != nil {
		d.log.Warn("expr: index lookup failed, falling back to per-event evaluation",
			zap.String("op", p.Op.String()), zap.Error(err))
		return nil, false
	}
	return bits, true
}

// perEventScan evaluates preds against every event position, restricted to
// those already a member of restrict (if non-nil) — the candidate set a
// conjunction's indexable operands narrow the fallback down to. Position 0
// is never a real event and is always false.
func (d *Driver) perEventScan(restrict *roaring.Bitmap, preds ...*Predicate) bitstream.Bitstream {
	result := bitstream.NewEWAH()
	if d.Size == 0 {
		return result
	}
	result.PushBack(false)
	for pos := uint64(1); pos < d.Size; pos++ {
		if restrict != nil && !restrict.Contains(uint32(pos)) {
			result.PushBack(false)
			continue
		}
		ev, ok := d.Events.Event(event.ID(pos))
		if !ok {
			result.PushBack(false)
			continue
		}
		match := true
		for _, p := range preds {
			if !Matches(p, ev) {
				match = false
				break
			}
		}
		result.PushBack(match)
	}
	return result
}
