package bitstream_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitstream"
)

// requireBlocks compares an EWAH's rendered blocks against a single
// newline-joined expected trace, the same shape the reference
// implementation's to_string produces (its cosmetic right-justification
// padding on the final partial line is irrelevant here and stripped).
func requireBlocks(t *testing.T, e *bitstream.EWAH, expected string) {
	t.Helper()
	lines := strings.Split(expected, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, " ")
	}
	require.Equal(t, lines, e.DebugBlocks())
}

// TestEWAHFixtureTrace ports the append sequence and expected intermediate
// states used to pin down marker splitting, dirty-block overflow, clean-run
// coalescing and the 2^32-1 clean-run saturation boundary.
func TestEWAHFixtureTrace(t *testing.T) {
	ewah := bitstream.NewEWAH()

	ewah.Append(10, true)
	ewah.Append(20, false)

	// Overflows the first dirty block, bumping marker0's dirty count to 1.
	ewah.Append(40, true)

	// Fills another dirty block.
	ewah.PushBack(false)
	ewah.PushBack(true)
	ewah.PushBack(false)
	ewah.Append(53, true)
	ewah.PushBack(false)
	ewah.PushBack(false)

	require.EqualValues(t, 128, ewah.Size())

	// Bumps the dirty count to 2 and fills the current dirty block.
	ewah.PushBack(true)
	ewah.Append(63, true)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1111111111111111111111111111111111111111111111111111111111111111")

	// Appending anything now transforms the last block into a marker,
	// because it turns out it was all 1s.
	ewah.PushBack(true)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1000000000000000000000000000000010000000000000000000000000000000\n"+
			"1")
	require.EqualValues(t, 193, ewah.Size())

	// Fills the dirty block and appends another full block; bumps the
	// clean count of the last marker to 2.
	ewah.Append(63, true)
	ewah.Append(64, true)

	// Adds a full clean block of 0, bumping the last marker's clean count
	// to 3.
	ewah.Append(64, false)

	require.EqualValues(t, 384, ewah.Size())

	// Adds 15 clean blocks of 0: 14 merge into the previous marker (whose
	// clean count was 1, for the single 0 block just added, reaching 15),
	// and 1 remains as a terminating dirty block.
	ewah.Append(64*15, false)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1000000000000000000000000000000110000000000000000000000000000000\n"+
			"0000000000000000000000000000011110000000000000000000000000000000\n"+
			"0000000000000000000000000000000000000000000000000000000000000000")
	require.EqualValues(t, 384+64*15, ewah.Size())

	// Adds the maximum number of 1-blocks: 64*(2^32-1) bits, in 2^32-2
	// blocks (the invariant that the last block is always dirty costs one
	// more block than the raw maximum clean count).
	ewah.Append(64*((uint64(1)<<32)-1), true)

	// A single bit now just coalesces the trailing block into the current
	// marker, maxing its clean count out at 2^32-1.
	ewah.PushBack(false)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1000000000000000000000000000000110000000000000000000000000000000\n"+
			"0000000000000000000000000000100000000000000000000000000000000000\n"+
			"1111111111111111111111111111111110000000000000000000000000000000\n"+
			"0")
	require.EqualValues(t, 1344+274877906880+1, ewah.Size())

	// Completes that block as dirty.
	ewah.Append(63, true)

	// Another full dirty block, alternating bits, to exercise the dirty
	// counter.
	for i := 0; i < 64; i++ {
		ewah.PushBack(i%2 == 0)
	}

	require.EqualValues(t, 274877908352, ewah.Size())

	// Adds 2^3 full markers' worth of 0 blocks. Since the max clean count
	// is 2^32-1, this yields 8 full markers and 7 leftover clean blocks.
	ewah.Append((uint64(1)<<(32+3))*64, false)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1000000000000000000000000000000110000000000000000000000000000000\n"+
			"0000000000000000000000000000100000000000000000000000000000000000\n"+
			"1111111111111111111111111111111110000000000000000000000000000010\n"+
			"1111111111111111111111111111111111111111111111111111111111111110\n"+
			"0101010101010101010101010101010101010101010101010101010101010101\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0000000000000000000000000000001110000000000000000000000000000000\n"+
			"0000000000000000000000000000000000000000000000000000000000000000")
	require.EqualValues(t, 274877908352+2199023255552, ewah.Size())

	// Another bit just consolidates the last clean block into the last
	// marker.
	ewah.PushBack(true)

	requireBlocks(t, ewah,
		"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"1111111111111111111111111111111111000000000000000000001111111111\n"+
			"0011111111111111111111111111111111111111111111111111111010111111\n"+
			"1000000000000000000000000000000110000000000000000000000000000000\n"+
			"0000000000000000000000000000100000000000000000000000000000000000\n"+
			"1111111111111111111111111111111110000000000000000000000000000010\n"+
			"1111111111111111111111111111111111111111111111111111111111111110\n"+
			"0101010101010101010101010101010101010101010101010101010101010101\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0111111111111111111111111111111110000000000000000000000000000000\n"+
			"0000000000000000000000000000010000000000000000000000000000000000\n"+
			"1")
	require.EqualValues(t, 2473901163905, ewah.Size())
}

func TestEWAHFixtureTraceSmall(t *testing.T) {
	ewah2 := bitstream.NewEWAH()
	ewah2.PushBack(false)
	ewah2.PushBack(true)
	ewah2.Append(421, false)
	ewah2.PushBack(true)
	ewah2.PushBack(true)

	requireBlocks(t, ewah2,
		"0000000000000000000000000000000000000000000000000000000000000001\n"+
			"0000000000000000000000000000000000000000000000000000000000000010\n"+
			"0000000000000000000000000000001010000000000000000000000000000000\n"+
			"11000000000000000000000000000000000000000")

	ewah3 := bitstream.NewEWAH()
	ewah3.Append(222, true)
	ewah3.PushBack(false)
	ewah3.PushBack(true)
	ewah3.PushBack(false)
	ewah3.AppendBlock(0xcccccccccc, 64)
	ewah3.PushBack(false)
	ewah3.PushBack(true)

	requireBlocks(t, ewah3,
		"1000000000000000000000000000000110000000000000000000000000000001\n"+
			"1001100110011001100110011001100010111111111111111111111111111111\n"+
			"10000000000000000000000000110011001")
}

func TestEWAHFindFamily(t *testing.T) {
	e := bitstream.NewEWAH()
	e.Append(10, true)
	e.Append(20, false)
	e.Append(40, true)

	require.EqualValues(t, 0, e.FindFirst())
	require.EqualValues(t, 30, e.FindNext(9))
	require.EqualValues(t, 69, e.FindLast())
	require.EqualValues(t, bitstream.NPos, e.FindNext(e.FindLast()))
	require.EqualValues(t, bitstream.NPos, e.FindPrev(e.FindFirst()))
}

func TestEWAHCountAndAt(t *testing.T) {
	e := bitstream.NewEWAH()
	e.Append(64*3, false)
	e.Append(5, true)
	e.Append(64*2, false)

	require.EqualValues(t, 64*5+5, e.Size())
	require.EqualValues(t, 5, e.Count())
	for i := uint64(0); i < 192; i++ {
		require.False(t, e.At(i))
	}
	for i := uint64(192); i < 197; i++ {
		require.True(t, e.At(i))
	}
	for i := uint64(197); i < 325; i++ {
		require.False(t, e.At(i))
	}
}

func TestEWAHTrim(t *testing.T) {
	e := bitstream.NewEWAH()
	e.Append(10, true)
	e.Append(64*5, false)
	e.Trim()

	require.EqualValues(t, 10, e.Size())
	require.EqualValues(t, 9, e.FindLast())
}

func TestEWAHNot(t *testing.T) {
	e := bitstream.NewEWAH()
	e.Append(3, true)
	e.Append(5, false)

	not := e.Not().(*bitstream.EWAH)
	require.EqualValues(t, 8, not.Size())
	for i := uint64(0); i < 3; i++ {
		require.False(t, not.At(i))
	}
	for i := uint64(3); i < 8; i++ {
		require.True(t, not.At(i))
	}
}
