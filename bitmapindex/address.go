package bitmapindex

import (
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

const addressWidth = 128

// AddressIndex is one bitstream per bit of the 128-bit address (spec
// §4.4's per-type table); IPv4 addresses are stored in their IPv4-in-IPv6
// form, so an IPv4 prefix's network bits line up with the low 32 bits of
// that form (offset 96) — every IPv4 address shares the same leading 96
// bits, so the comparison over those bits is a constant true/false and
// does not need special-casing.
type AddressIndex struct {
	base
	planes [addressWidth]*bitstream.EWAH
}

func NewAddressIndex(log *zap.Logger) *AddressIndex {
	a := &AddressIndex{base: newBase(log)}
	for i := range a.planes {
		a.planes[i] = bitstream.NewEWAH()
	}
	return a
}

func (a *AddressIndex) managed() []bitstream.Bitstream {
	out := make([]bitstream.Bitstream, addressWidth)
	for i, p := range a.planes {
		out[i] = p
	}
	return out
}

// bitAt returns bit i (0 = most significant) of the 16-byte address in
// network order.
func bitAt(b [16]byte, i int) bool {
	byteIdx := i / 8
	bitIdx := 7 - (i % 8)
	return (b[byteIdx]>>uint(bitIdx))&1 != 0
}

func (a *AddressIndex) PushBack(v value.Value, id event.ID) error {
	if v.Kind != value.Address {
		return typeMismatch("bitmapindex.address.pushBack", a.log, v.Kind)
	}
	bits := v.AddressVal().As16()
	if err := a.padAllTo(a.managed(), id); err != nil {
		return err
	}
	for i := 0; i < addressWidth; i++ {
		a.planes[i].PushBack(bitAt(bits, i))
	}
	a.markDefined()
	a.size = uint64(id) + 1
	return nil
}

func (a *AddressIndex) Append(n uint64, bit bool) {
	for _, p := range a.planes {
		p.Append(n, bit)
	}
	a.padDefined(n)
	a.size += n
}

// equalMask ANDs together, over the first upTo planes, whichever of
// plane/NOT(plane) matches bits' corresponding bit — the equality-encoded
// bit-sliced comparison restricted to a bit prefix, which is exactly
// prefix containment when upTo is the prefix length.
func (a *AddressIndex) equalMask(bits [16]byte, upTo int) bitstream.Bitstream {
	acc := allBits(a.size, true)
	for i := 0; i < upTo; i++ {
		if bitAt(bits, i) {
			acc = acc.And(a.planes[i])
		} else {
			acc = acc.And(a.planes[i].Not())
		}
	}
	return acc
}

// Every undefined position (position 0, or a gap padAllTo filled for a
// skipped id) has all-zero planes, which equalMask can trivially match
// (an all-zero query or prefix) and which Not() will otherwise leak into
// ≠/!in results almost unconditionally. Masking with defined excludes
// those positions regardless of which branch ran.
func (a *AddressIndex) Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error) {
	switch op {
	case value.OpEqual, value.OpNotEqual:
		if query.Kind != value.Address {
			return bitstream.NewEWAH(), typeMismatch("bitmapindex.address.lookup", a.log, query.Kind)
		}
		eq := a.equalMask(query.AddressVal().As16(), addressWidth)
		if op == value.OpNotEqual {
			return eq.Not().And(a.defined), nil
		}
		return eq.And(a.defined), nil
	case value.OpIn, value.OpNotIn:
		if query.Kind != value.Prefix {
			return bitstream.NewEWAH(), typeMismatch("bitmapindex.address.lookup", a.log, query.Kind)
		}
		pfx := query.PrefixVal()
		prefixLen := pfx.Bits()
		if pfx.Addr().Is4() {
			prefixLen += 96
		}
		contained := a.equalMask(pfx.Addr().As16(), prefixLen)
		if op == value.OpNotIn {
			return contained.Not().And(a.defined), nil
		}
		return contained.And(a.defined), nil
	default:
		return bitstream.NewEWAH(), unsupportedOperator("bitmapindex.address.lookup", a.log, op)
	}
}
