package bitmapindex_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitmapindex"
	"github.com/tenzir/vast/value"
)

func TestStringIndexEqualityLookup(t *testing.T) {
	idx := bitmapindex.NewStringIndex(nil)
	require.NoError(t, idx.PushBack(value.NewString("foo"), 1))
	require.NoError(t, idx.PushBack(value.NewString("bar"), 2))
	require.NoError(t, idx.PushBack(value.NewString("foo"), 3))

	hits, err := idx.Lookup(value.OpEqual, value.NewString("foo"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, setPositions(t, hits))
}

func TestStringIndexSubstringLookup(t *testing.T) {
	idx := bitmapindex.NewStringIndex(nil)
	require.NoError(t, idx.PushBack(value.NewString("hello world"), 1))
	require.NoError(t, idx.PushBack(value.NewString("goodbye"), 2))

	hits, err := idx.Lookup(value.OpIn, value.NewString("say hello world there"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, hits))
}

func TestStringIndexRegexLookup(t *testing.T) {
	idx := bitmapindex.NewStringIndex(nil)
	require.NoError(t, idx.PushBack(value.NewString("192.168.1.1"), 1))
	require.NoError(t, idx.PushBack(value.NewString("not-an-ip"), 2))

	re := regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
	hits, err := idx.Lookup(value.OpMatch, value.NewRegex(re))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, setPositions(t, hits))
}

func TestStringIndexTypeMismatch(t *testing.T) {
	idx := bitmapindex.NewStringIndex(nil)
	require.Error(t, idx.PushBack(value.NewBool(true), 1))
}
