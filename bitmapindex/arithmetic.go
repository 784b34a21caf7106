package bitmapindex

import (
	"math"

	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

const arithmeticWidth = 64

// ArithmeticIndex is a bit-sliced index (one bitstream per bit of a
// monotonic unsigned encoding of the value) shared by int, uint, double,
// timeRange, and timePoint. Range predicates are answered with the classic
// bit-sliced greater-or-equal sweep, most significant plane to least.
type ArithmeticIndex struct {
	base
	kind   value.Kind
	planes [arithmeticWidth]*bitstream.EWAH
}

func NewArithmeticIndex(kind value.Kind, log *zap.Logger) *ArithmeticIndex {
	a := &ArithmeticIndex{base: newBase(log), kind: kind}
	for i := range a.planes {
		a.planes[i] = bitstream.NewEWAH()
	}
	return a
}

func (a *ArithmeticIndex) managed() []bitstream.Bitstream {
	out := make([]bitstream.Bitstream, arithmeticWidth)
	for i, p := range a.planes {
		out[i] = p
	}
	return out
}

// monotonicInt64 maps a signed integer to an unsigned one preserving
// order, by flipping the sign bit (standard two's-complement-to-
// unsigned-offset trick).
func monotonicInt64(i int64) uint64 { return uint64(i) ^ (uint64(1) << 63) }

// monotonicFloat64 maps an IEEE-754 double to an unsigned integer
// preserving order: flip the sign bit for non-negatives, flip every bit
// for negatives, canceling out the sign-magnitude/two's-complement
// mismatch between float and integer comparison.
func monotonicFloat64(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(uint64(1)<<63) != 0 {
		return ^bits
	}
	return bits | (uint64(1) << 63)
}

// bitsOf converts v to this index's monotonic unsigned encoding, failing
// if v's discriminant does not match the index's configured kind.
func (a *ArithmeticIndex) bitsOf(v value.Value) (uint64, bool) {
	if v.Kind != a.kind {
		return 0, false
	}
	switch a.kind {
	case value.Int:
		return monotonicInt64(v.IntVal()), true
	case value.Uint:
		return v.UintVal(), true
	case value.Double:
		return monotonicFloat64(v.DoubleVal()), true
	case value.TimeRange:
		return monotonicInt64(int64(v.TimeRangeVal())), true
	case value.TimePoint:
		return monotonicInt64(v.TimePointVal().UnixNano()), true
	default:
		return 0, false
	}
}

func (a *ArithmeticIndex) PushBack(v value.Value, id event.ID) error {
	bits, ok := a.bitsOf(v)
	if !ok {
		return typeMismatch("bitmapindex.arithmetic.pushBack", a.log, v.Kind)
	}
	if err := a.padAllTo(a.managed(), id); err != nil {
		return err
	}
	for i := 0; i < arithmeticWidth; i++ {
		bit := (bits>>uint(i))&1 != 0
		a.planes[i].PushBack(bit)
	}
	a.markDefined()
	a.size = uint64(id) + 1
	return nil
}

func (a *ArithmeticIndex) Append(n uint64, bit bool) {
	for _, p := range a.planes {
		p.Append(n, bit)
	}
	a.padDefined(n)
	a.size += n
}

// compare sweeps the planes most-significant-first, returning the
// strictly-greater-than mask and the equal-to mask for bits.
func (a *ArithmeticIndex) compare(bits uint64) (gt, eq bitstream.Bitstream) {
	eqAcc := allBits(a.size, true)
	gtAcc := allBits(a.size, false)
	for i := arithmeticWidth - 1; i >= 0; i-- {
		plane := a.planes[i]
		if (bits>>uint(i))&1 != 0 {
			eqAcc = eqAcc.And(plane)
		} else {
			gtAcc = gtAcc.Or(eqAcc.And(plane))
			eqAcc = eqAcc.And(plane.Not())
		}
	}
	return gtAcc, eqAcc
}

func (a *ArithmeticIndex) Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error) {
	bits, ok := a.bitsOf(query)
	if !ok {
		return bitstream.NewEWAH(), typeMismatch("bitmapindex.arithmetic.lookup", a.log, query.Kind)
	}
	gt, eq := a.compare(bits)
	var result bitstream.Bitstream
	switch op {
	case value.OpEqual:
		result = eq
	case value.OpNotEqual:
		result = eq.Not()
	case value.OpGreater:
		result = gt
	case value.OpGreaterEqual:
		result = gt.Or(eq)
	case value.OpLess:
		result = gt.Or(eq).Not()
	case value.OpLessEqual:
		result = gt.Not()
	default:
		return bitstream.NewEWAH(), unsupportedOperator("bitmapindex.arithmetic.lookup", a.log, op)
	}
	// Every undefined position (position 0, or a gap padAllTo filled for a
	// skipped id) reads as the all-zero encoding in every plane, which
	// trivially satisfies `<`/`≤`/`≠` against almost any query. Masking
	// with defined excludes those positions regardless of which op ran.
	return result.And(a.defined), nil
}
