package bitmapindex

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

// PortIndex is one bitstream per distinct (number, protocol) tuple,
// supporting equality and ordering predicates via value.Compare's
// (number, then protocol) lexicographic order.
type PortIndex struct {
	discrete
}

func NewPortIndex(log *zap.Logger) *PortIndex {
	return &PortIndex{discrete: newDiscrete(log)}
}

func portKey(p value.PortNumber) string {
	return fmt.Sprintf("%d/%d", p.Number, p.Proto)
}

func (p *PortIndex) PushBack(v value.Value, id event.ID) error {
	if v.Kind != value.Port {
		return typeMismatch("bitmapindex.port.pushBack", p.log, v.Kind)
	}
	return p.discrete.pushBack(portKey(v.PortVal()), v, id)
}

func (p *PortIndex) Append(n uint64, bit bool) { p.discrete.appendRaw(n, bit) }

func (p *PortIndex) Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error) {
	if query.Kind != value.Port {
		return bitstream.NewEWAH(), typeMismatch("bitmapindex.port.lookup", p.log, query.Kind)
	}
	switch op {
	case value.OpEqual, value.OpNotEqual,
		value.OpLess, value.OpLessEqual,
		value.OpGreater, value.OpGreaterEqual:
		return p.discrete.lookup(func(stored value.Value) bool {
			return value.Visit(op, stored, query)
		}), nil
	default:
		return bitstream.NewEWAH(), unsupportedOperator("bitmapindex.port.lookup", p.log, op)
	}
}
