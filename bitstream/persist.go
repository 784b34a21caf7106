package bitstream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoding tags the on-disk representation of a bitstream.
type Encoding uint8

const (
	EncodingNull Encoding = 0
	EncodingEWAH Encoding = 1
)

// Write serializes b as: a one-byte encoding tag, an 8-byte little-endian
// logical size, an 8-byte little-endian block count, then that many
// 8-byte little-endian blocks.
func Write(w io.Writer, b Bitstream) error {
	var enc Encoding
	var blocks []uint64
	switch v := b.(type) {
	case *Null:
		enc = EncodingNull
		blocks = v.v.RawBlocks()
	case *EWAH:
		enc = EncodingEWAH
		blocks = v.blocks
	default:
		return fmt.Errorf("bitstream: cannot serialize unknown type %T", b)
	}
	if err := binary.Write(w, binary.LittleEndian, enc); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, b.Size()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(blocks))); err != nil {
		return err
	}
	for _, blk := range blocks {
		if err := binary.Write(w, binary.LittleEndian, blk); err != nil {
			return err
		}
	}
	return nil
}

// Read deserializes a bitstream previously produced by Write.
func Read(r io.Reader) (Bitstream, error) {
	var enc Encoding
	if err := binary.Read(r, binary.LittleEndian, &enc); err != nil {
		return nil, err
	}
	var size, nblocks uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nblocks); err != nil {
		return nil, err
	}
	blocks := make([]uint64, nblocks)
	for i := range blocks {
		if err := binary.Read(r, binary.LittleEndian, &blocks[i]); err != nil {
			return nil, err
		}
	}
	switch enc {
	case EncodingNull:
		n := NewNull()
		for i, blk := range blocks {
			take := uint64(BlockWidth)
			if rem := size - uint64(i)*BlockWidth; rem < BlockWidth {
				take = rem
			}
			n.v.AppendBlock(blk, take)
		}
		return n, nil
	case EncodingEWAH:
		e := &EWAH{blocks: blocks, size: size}
		e.lastMarker = findLastMarker(blocks)
		return e, nil
	default:
		return nil, fmt.Errorf("bitstream: unknown encoding tag %d", enc)
	}
}

// findLastMarker recomputes the index of the trailing marker word by
// walking the block stream from the start (the format stores no explicit
// back-pointer).
func findLastMarker(blocks []uint64) int {
	i, last := 0, 0
	for i < len(blocks) {
		last = i
		nd := int(markerNumDirty(blocks[i]))
		if i+1+nd == len(blocks)-1 {
			break // the trailing dirty block is not counted by its marker
		}
		i += 1 + nd
	}
	return last
}
