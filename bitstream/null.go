package bitstream

import "github.com/tenzir/vast/bitvector"

// Null is the uncompressed encoding: a 1:1 wrapper over a Bitvector. It
// exists for small or write-once bitstreams (and as a cross-check oracle
// in tests) where EWAH's marker bookkeeping isn't worth the complexity.
type Null struct {
	v *bitvector.Bitvector
}

// NewNull returns an empty Null bitstream.
func NewNull() *Null {
	return &Null{v: bitvector.New()}
}

var _ Bitstream = (*Null)(nil)

func (n *Null) Size() uint64  { return n.v.Size() }
func (n *Null) Empty() bool   { return n.v.Size() == 0 }
func (n *Null) Count() uint64 { return n.v.Count() }

func (n *Null) Append(bits uint64, bit bool) bool {
	if bits == 0 {
		return false
	}
	n.v.AppendBits(bits, bit)
	return true
}

func (n *Null) AppendBlock(block uint64, nbits uint64) bool {
	if nbits == 0 {
		return false
	}
	n.v.AppendBlock(block, nbits)
	return true
}

func (n *Null) PushBack(bit bool) bool {
	n.v.PushBit(bit)
	return true
}

func (n *Null) At(i uint64) bool { return n.v.At(i) }

func (n *Null) Back() bool {
	if n.v.Size() == 0 {
		panic("bitstream: Back on empty Null")
	}
	return n.v.At(n.v.Size() - 1)
}

func (n *Null) FindFirst() uint64      { return n.v.FindFirst() }
func (n *Null) FindNext(i uint64) uint64 { return n.v.FindNext(i) }
func (n *Null) FindLast() uint64       { return n.v.FindLast() }
func (n *Null) FindPrev(i uint64) uint64 { return n.v.FindPrev(i) }

func (n *Null) Trim() {
	last := n.v.FindLast()
	newSize := uint64(0)
	if last != bitvector.NPos {
		newSize = last + 1
	}
	if newSize == n.v.Size() {
		return
	}
	fresh := bitvector.New()
	nBlocks := (newSize + BlockWidth - 1) / BlockWidth
	for i := uint64(0); i < nBlocks; i++ {
		take := BlockWidth
		if rem := newSize - i*BlockWidth; rem < BlockWidth {
			take = int(rem)
		}
		fresh.AppendBlock(n.v.Block(int(i)), uint64(take))
	}
	n.v = fresh
}

func (n *Null) Clear() { n.v.Clear() }

func (n *Null) Ones(fn func(pos uint64) bool) {
	for p := n.v.FindFirst(); p != bitvector.NPos; p = n.v.FindNext(p) {
		if !fn(p) {
			return
		}
	}
}

func (n *Null) Sequences() SequenceIter { return &nullIter{n: n} }

type nullIter struct {
	n      *Null
	offset uint64
}

func (it *nullIter) Next() (Sequence, bool) {
	size := it.n.v.Size()
	if it.offset >= size {
		return Sequence{}, false
	}
	blk := int(it.offset / BlockWidth)
	length := uint64(BlockWidth)
	if rem := size - it.offset; rem < BlockWidth {
		length = rem
	}
	word := it.n.v.Block(blk) & maskLow(length)
	s := Sequence{Offset: it.offset, Data: word, Length: length, Kind: Literal}
	it.offset += length
	return s, true
}

func (n *Null) Not() Bitstream {
	out := NewNull()
	it := n.Sequences()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		out.AppendBlock(^s.Data&maskLow(s.Length), s.Length)
	}
	return out
}

func (n *Null) NotInPlace() { *n = *n.Not().(*Null) }

func (n *Null) And(other Bitstream) Bitstream      { return toNull(combine(n, other, opAnd)) }
func (n *Null) Or(other Bitstream) Bitstream       { return toNull(combine(n, other, opOr)) }
func (n *Null) Xor(other Bitstream) Bitstream      { return toNull(combine(n, other, opXor)) }
func (n *Null) Subtract(other Bitstream) Bitstream { return toNull(combine(n, other, opSub)) }

func (n *Null) AndInPlace(other Bitstream)      { *n = *n.And(other).(*Null) }
func (n *Null) OrInPlace(other Bitstream)       { *n = *n.Or(other).(*Null) }
func (n *Null) XorInPlace(other Bitstream)      { *n = *n.Xor(other).(*Null) }
func (n *Null) SubtractInPlace(other Bitstream) { *n = *n.Subtract(other).(*Null) }

// toNull re-materializes an EWAH combine result as a Null, since combine
// always builds its output as an EWAH internally.
func toNull(b Bitstream) *Null {
	out := NewNull()
	it := b.Sequences()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		if s.Kind == Fill {
			out.Append(s.Length, s.Data != 0)
		} else {
			out.AppendBlock(s.Data, s.Length)
		}
	}
	return out
}
