// Package bitstream implements the abstract bit-sequence contract used by
// the bitmap indexes and the expression driver: append, bitwise ops,
// position search, and lazy blockwise (sequence) iteration, over two
// concrete encodings — an uncompressed ("null") encoding and the Enhanced
// Word-Aligned Hybrid (EWAH) compressed encoding.
package bitstream

import "github.com/tenzir/vast/bitvector"

// BlockWidth is the width, in bits, of one block. Fixed at 64, the native
// machine word size; all constants below assume it.
const BlockWidth = bitvector.BlockWidth

// NPos is the "no such position" sentinel shared with bitvector.
const NPos = bitvector.NPos

// Bitstream is the capability set every encoding implements. Binary
// operators return a newly allocated result of the same concrete encoding
// as the receiver and never mutate their arguments; the *InPlace variants
// mutate the receiver.
type Bitstream interface {
	Size() uint64
	Count() uint64
	Empty() bool

	Append(n uint64, bit bool) bool
	AppendBlock(block uint64, nbits uint64) bool
	PushBack(bit bool) bool

	At(i uint64) bool
	Back() bool

	FindFirst() uint64
	FindNext(i uint64) uint64
	FindLast() uint64
	FindPrev(i uint64) uint64

	Not() Bitstream
	And(other Bitstream) Bitstream
	Or(other Bitstream) Bitstream
	Xor(other Bitstream) Bitstream
	Subtract(other Bitstream) Bitstream

	NotInPlace()
	AndInPlace(other Bitstream)
	OrInPlace(other Bitstream)
	XorInPlace(other Bitstream)
	SubtractInPlace(other Bitstream)

	Trim()
	Clear()

	// Ones calls fn for every set-bit position in ascending order, stopping
	// early if fn returns false.
	Ones(fn func(pos uint64) bool)

	// Sequences returns a fresh forward iterator over this bitstream's
	// blockwise runs (see Sequence), the primitive bitwise ops are built on.
	Sequences() SequenceIter
}

// Kind tags a Sequence as a homogeneous run (Fill) or a literal, possibly
// mixed, block (Literal).
type Kind int

const (
	Fill Kind = iota
	Literal
)

// Sequence is one blockwise run yielded by a SequenceIter: Fill runs have a
// Length that is always a multiple of BlockWidth and Data is 0 or AllOnes;
// Literal runs cover at most one block's worth of bits, with Data holding
// the literal bits right-justified (bit i of the run is bit i of Data).
type Sequence struct {
	Offset uint64
	Data   uint64
	Length uint64
	Kind   Kind
}

// Bit returns whether the run sets the bit at local index (0-based, < Length
// for Literal runs). Only meaningful for Literal; Fill runs are uniform.
func (s Sequence) Bit(local uint64) bool {
	if s.Kind == Fill {
		return s.Data != 0
	}
	return s.Data&(1<<local) != 0
}

// SequenceIter is a lazy forward iterator over a bitstream's runs.
type SequenceIter interface {
	// Next returns the next run and true, or a zero Sequence and false when
	// exhausted.
	Next() (Sequence, bool)
}

func maskLow(n uint64) uint64 {
	if n >= BlockWidth {
		return ^uint64(0)
	}
	if n == 0 {
		return 0
	}
	return (uint64(1) << n) - 1
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
