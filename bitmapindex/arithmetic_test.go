package bitmapindex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitmapindex"
	"github.com/tenzir/vast/value"
)

func TestArithmeticIndexIntRelational(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.Int, nil)
	require.NoError(t, idx.PushBack(value.NewInt(-5), 1))
	require.NoError(t, idx.PushBack(value.NewInt(0), 2))
	require.NoError(t, idx.PushBack(value.NewInt(42), 3))
	require.NoError(t, idx.PushBack(value.NewInt(42), 4))

	eq, err := idx.Lookup(value.OpEqual, value.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, setPositions(t, eq))

	gt, err := idx.Lookup(value.OpGreater, value.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, setPositions(t, gt))

	le, err := idx.Lookup(value.OpLessEqual, value.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, setPositions(t, le))

	lt, err := idx.Lookup(value.OpLess, value.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, lt))
}

func TestArithmeticIndexUint(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.Uint, nil)
	require.NoError(t, idx.PushBack(value.NewUint(1), 1))
	require.NoError(t, idx.PushBack(value.NewUint(1000000), 2))

	ge, err := idx.Lookup(value.OpGreaterEqual, value.NewUint(500000))
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, setPositions(t, ge))
}

func TestArithmeticIndexDoubleNegativeOrdering(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.Double, nil)
	require.NoError(t, idx.PushBack(value.NewDouble(-3.5), 1))
	require.NoError(t, idx.PushBack(value.NewDouble(-0.5), 2))
	require.NoError(t, idx.PushBack(value.NewDouble(1.25), 3))

	lt, err := idx.Lookup(value.OpLess, value.NewDouble(0))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, setPositions(t, lt))

	gt, err := idx.Lookup(value.OpGreater, value.NewDouble(-1))
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, setPositions(t, gt))
}

func TestArithmeticIndexTimePoint(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.TimePoint, nil)
	t0 := time.Unix(1000, 0).UTC()
	t1 := time.Unix(2000, 0).UTC()
	require.NoError(t, idx.PushBack(value.NewTimePoint(t0), 1))
	require.NoError(t, idx.PushBack(value.NewTimePoint(t1), 2))

	hits, err := idx.Lookup(value.OpGreater, value.NewTimePoint(t0))
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, setPositions(t, hits))
}

func TestArithmeticIndexTypeMismatch(t *testing.T) {
	idx := bitmapindex.NewArithmeticIndex(value.Int, nil)
	require.Error(t, idx.PushBack(value.NewUint(1), 1))
	_, err := idx.Lookup(value.OpEqual, value.NewUint(1))
	require.Error(t, err)
}
