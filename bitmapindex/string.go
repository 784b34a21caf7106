package bitmapindex

import (
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

// StringIndex is one bitstream per distinct string value, supporting
// equality, substring (in/!in/ni/!ni), and regex (~/!~) predicates (spec
// §4.4's per-type table).
type StringIndex struct {
	discrete
}

func NewStringIndex(log *zap.Logger) *StringIndex {
	return &StringIndex{discrete: newDiscrete(log)}
}

func (s *StringIndex) PushBack(v value.Value, id event.ID) error {
	if v.Kind != value.String {
		return typeMismatch("bitmapindex.string.pushBack", s.log, v.Kind)
	}
	return s.discrete.pushBack(v.StringVal(), v, id)
}

func (s *StringIndex) Append(n uint64, bit bool) { s.discrete.appendRaw(n, bit) }

func (s *StringIndex) Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error) {
	switch op {
	case value.OpEqual, value.OpNotEqual,
		value.OpIn, value.OpNotIn,
		value.OpNi, value.OpNotNi,
		value.OpMatch, value.OpNotMatch:
		return s.discrete.lookup(func(stored value.Value) bool {
			return value.Visit(op, stored, query)
		}), nil
	default:
		return bitstream.NewEWAH(), unsupportedOperator("bitmapindex.string.lookup", s.log, op)
	}
}
