package bitmapindex_test

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitmapindex"
	"github.com/tenzir/vast/value"
)

func TestPersistRoundTripString(t *testing.T) {
	idx := bitmapindex.NewStringIndex(nil)
	require.NoError(t, idx.PushBack(value.NewString("foo"), 1))
	require.NoError(t, idx.PushBack(value.NewString("bar"), 2))
	require.NoError(t, idx.PushBack(value.NewString("foo"), 3))
	idx.Checkpoint()

	var buf bytes.Buffer
	require.NoError(t, bitmapindex.Write(&buf, idx))

	restored, err := bitmapindex.Read(&buf)
	require.NoError(t, err)
	require.EqualValues(t, idx.Size(), restored.Size())
	require.EqualValues(t, 0, restored.Appended())

	hits, err := restored.Lookup(value.OpEqual, value.NewString("foo"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, setPositions(t, hits))
}

func TestPersistRoundTripArithmetic(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.Int, nil)
	require.NoError(t, idx.PushBack(value.NewInt(-5), 1))
	require.NoError(t, idx.PushBack(value.NewInt(42), 2))

	var buf bytes.Buffer
	require.NoError(t, bitmapindex.Write(&buf, idx))

	restored, err := bitmapindex.Read(&buf)
	require.NoError(t, err)
	hits, err := restored.Lookup(value.OpGreater, value.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, setPositions(t, hits))

	// The defined mask travels across the round trip too: ≠ must still
	// exclude position 0 after a deserialize, not just on a live index.
	neq, err := restored.Lookup(value.OpNotEqual, value.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, neq))
}

func TestPersistRoundTripAddress(t *testing.T) {
	idx := bitmapindex.NewAddressIndex(nil)
	a := netip.MustParseAddr("10.1.1.2")
	require.NoError(t, idx.PushBack(value.NewAddress(a), 1))

	var buf bytes.Buffer
	require.NoError(t, bitmapindex.Write(&buf, idx))

	restored, err := bitmapindex.Read(&buf)
	require.NoError(t, err)
	pfx := netip.MustParsePrefix("10.0.0.0/8")
	hits, err := restored.Lookup(value.OpIn, value.NewPrefix(pfx))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, hits))
}

func TestPersistRoundTripPort(t *testing.T) {
	idx := bitmapindex.NewPortIndex(nil)
	require.NoError(t, idx.PushBack(value.NewPort(80, value.ProtoTCP), 1))
	require.NoError(t, idx.PushBack(value.NewPort(443, value.ProtoTCP), 2))

	var buf bytes.Buffer
	require.NoError(t, bitmapindex.Write(&buf, idx))

	restored, err := bitmapindex.Read(&buf)
	require.NoError(t, err)
	hits, err := restored.Lookup(value.OpEqual, value.NewPort(80, value.ProtoTCP))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, hits))
}

func TestPersistRoundTripBool(t *testing.T) {
	idx := bitmapindex.NewBoolIndex(nil)
	require.NoError(t, idx.PushBack(value.NewBool(true), 1))
	require.NoError(t, idx.PushBack(value.NewBool(false), 2))

	var buf bytes.Buffer
	require.NoError(t, bitmapindex.Write(&buf, idx))

	restored, err := bitmapindex.Read(&buf)
	require.NoError(t, err)
	hits, err := restored.Lookup(value.OpEqual, value.NewBool(true))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, hits))
}
