package bitmapindex

import (
	"go.uber.org/zap"

	"github.com/tenzir/vast/bitstream"
	"github.com/tenzir/vast/event"
	"github.com/tenzir/vast/value"
)

// discrete is a one-bitstream-per-distinct-value index, shared by Bool,
// String, and Port. Every distinct value seen so far gets its own
// EWAH bitstream, kept in lockstep with the index's overall size; a
// lookup ORs together the bitstreams of whichever distinct values
// satisfy the predicate.
type discrete struct {
	base
	dict   map[string]*bitstream.EWAH
	decode map[string]value.Value
	order  []string
}

func newDiscrete(log *zap.Logger) discrete {
	return discrete{
		base:   newBase(log),
		dict:   make(map[string]*bitstream.EWAH),
		decode: make(map[string]value.Value),
	}
}

func (d *discrete) managed() []bitstream.Bitstream {
	out := make([]bitstream.Bitstream, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.dict[k])
	}
	return out
}

// pushBack associates the value v (already validated by the caller) under
// dictionary key, creating key's bitstream on first sight.
func (d *discrete) pushBack(key string, v value.Value, id event.ID) error {
	if err := d.padAllTo(d.managed(), id); err != nil {
		return err
	}
	if _, ok := d.dict[key]; !ok {
		bs := bitstream.NewEWAH()
		if d.size > 0 {
			bs.Append(d.size, false)
		}
		d.dict[key] = bs
		d.decode[key] = v
		d.order = append(d.order, key)
	}
	for _, k := range d.order {
		d.dict[k].PushBack(k == key)
	}
	d.size++
	return nil
}

func (d *discrete) appendRaw(n uint64, bit bool) {
	for _, bs := range d.managed() {
		bs.Append(n, bit)
	}
	d.size += n
}

// lookup ORs together the bitstreams of every distinct value for which
// match holds, padding the empty result to the index's current size so
// callers get a well-formed bitstream even with zero matches.
func (d *discrete) lookup(match func(value.Value) bool) bitstream.Bitstream {
	result := allBits(d.size, false)
	for _, k := range d.order {
		if match(d.decode[k]) {
			result = result.Or(d.dict[k])
		}
	}
	return result
}
