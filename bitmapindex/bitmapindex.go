// Package bitmapindex implements the per-type family of bitmap indexes
// that map domain values to event-ID bitstreams: one bitstream per
// distinct value for bool/string/port, a bit-sliced encoding for the
// arithmetic types, and a per-bit encoding for addresses.
package bitmapindex

import (
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
	"github.com/tenzir/vast/vasterr"
)

// Index is the shared contract every per-type bitmap index implements.
type Index interface {
	// PushBack associates v with id, padding with false up to id first
	// (position 0 is reserved for "not an event"). Fails if v's
	// discriminant does not match the index's type, or id has already
	// been assigned.
	PushBack(v value.Value, id event.ID) error
	// Append raises the index's size by n bits of raw padding, without
	// associating any value.
	Append(n uint64, bit bool)
	// Lookup returns the bitstream of positions k for which `storedValue[k]
	// op query` holds. Unsupported (type, op) pairs fail and are logged;
	// callers receive an empty bitstream rather than a propagated error
	// meant to abort the surrounding query.
	Lookup(op value.Operator, query value.Value) (bitstream.Bitstream, error)
	// Size is the index's current bit length (== max(eventID) + 1 seen).
	Size() uint64
	// Appended is the number of bits appended since the last Checkpoint.
	Appended() uint64
	// Checkpoint marks the current size as flushed.
	Checkpoint()
}

// base holds the bookkeeping shared by every concrete index: size
// tracking, checkpointing, the logger for degraded failures, and the
// defined mask.
//
// defined tracks which positions were assigned a real value via PushBack,
// as opposed to raw padding (position 0, gaps padAllTo fills for skipped
// ids, or Append's bare size bumps). Indexes that answer lookups by
// complementing a comparison (e.g. arithmetic's `<`/`≤`/`≠`, address's
// `≠`/`!in`) must intersect their result with defined: an undefined
// position's planes read as all-zero, which trivially satisfies almost
// every negated or less-than query and would otherwise leak "not an
// event" positions into results.
type base struct {
	size           uint64
	lastCheckpoint uint64
	log            *zap.Logger
	defined        *bitstream.EWAH
}

func newBase(log *zap.Logger) base {
	if log == nil {
		log = zap.NewNop()
	}
	return base{log: log, defined: bitstream.NewEWAH()}
}

func (b *base) Size() uint64     { return b.size }
func (b *base) Appended() uint64 { return b.size - b.lastCheckpoint }
func (b *base) Checkpoint()      { b.lastCheckpoint = b.size }

// markDefined records that the position just pushed onto size (id itself,
// not any preceding gap) holds a real value.
func (b *base) markDefined() { b.defined.PushBack(true) }

// padDefined marks n raw-padded positions (Append, not PushBack) as
// undefined.
func (b *base) padDefined(n uint64) { b.defined.Append(n, false) }

// padAllTo pads every bitstream in bss with false up to id, enforcing
// that ids arrive in strictly increasing order, the monotonic-ingest
// assumption. It leaves b.size at id; the caller appends the bit(s) for
// id itself and bumps size to id+1.
func (b *base) padAllTo(bss []bitstream.Bitstream, id event.ID) error {
	idx := uint64(id)
	if idx < b.size {
		return vasterr.New(vasterr.KindInternalInvariant,
			vasterr.WithOp("bitmapindex.pushBack"),
			vasterr.WithMsg("event id below current index size"))
	}
	if idx > b.size {
		gap := idx - b.size
		for _, bs := range bss {
			bs.Append(gap, false)
		}
		b.defined.Append(gap, false)
		b.size = idx
	}
	return nil
}

// allBits returns a fresh bitstream of size bits, all set to bit.
func allBits(size uint64, bit bool) bitstream.Bitstream {
	bs := bitstream.NewEWAH()
	if size > 0 {
		bs.Append(size, bit)
	}
	return bs
}

func typeMismatch(op string, log *zap.Logger, got value.Kind) error {
	log.Warn("bitmapindex: value discriminant does not match index type",
		zap.String("op", op), zap.String("kind", got.String()))
	return vasterr.New(vasterr.KindTypeMismatch, vasterr.WithOp(op))
}

func unsupportedOperator(op string, log *zap.Logger, o value.Operator) error {
	log.Warn("bitmapindex: unsupported operator for this index type",
		zap.String("op", op), zap.Int("operator", int(o)))
	return vasterr.New(vasterr.KindUnsupportedOperator, vasterr.WithOp(op))
}
