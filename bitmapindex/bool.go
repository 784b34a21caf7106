package bitmapindex

import (
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

// BoolIndex is the discrete, one-bitstream-per-value encoding applied to
// bool, the discrete index at its smallest since there are only ever two
// distinct values.
type BoolIndex struct {
	discrete
}

func NewBoolIndex(log *zap.Logger) *BoolIndex {
	return &BoolIndex{discrete: newDiscrete(log)}
}

func boolKey(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

func (b *BoolIndex) PushBack(v value.Value, id event.ID) error {
	if v.Kind != value.Bool {
		return typeMismatch("bitmapindex.bool.pushBack", b.log, v.Kind)
	}
	return b.discrete.pushBack(boolKey(v.BoolVal()), v, id)
}

func (b *BoolIndex) Append(n uint64, bit bool) { b.discrete.appendRaw(n, bit) }

func (b *BoolIndex) Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error) {
	if query.Kind != value.Bool {
		return bitstream.NewEWAH(), typeMismatch("bitmapindex.bool.lookup", b.log, query.Kind)
	}
	switch op {
	case value.OpEqual, value.OpNotEqual:
		return b.discrete.lookup(func(stored value.Value) bool {
			return value.Visit(op, stored, query)
		}), nil
	default:
		return bitstream.NewEWAH(), unsupportedOperator("bitmapindex.bool.lookup", b.log, op)
	}
}
