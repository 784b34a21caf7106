package bitstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitstream"
)

func TestNullAppendAndAt(t *testing.T) {
	n := bitstream.NewNull()
	n.Append(10, true)
	n.Append(20, false)
	n.Append(40, true)

	require.EqualValues(t, 70, n.Size())
	require.EqualValues(t, 50, n.Count())
	require.EqualValues(t, 0, n.FindFirst())
	require.EqualValues(t, 69, n.FindLast())
}

func TestNullAndEWAHAgree(t *testing.T) {
	null := bitstream.NewNull()
	ewah := bitstream.NewEWAH()
	for _, bit := range []bool{true, true, false, true, false, false, false, true} {
		null.PushBack(bit)
		ewah.PushBack(bit)
	}
	require.Equal(t, null.Count(), ewah.Count())
	for i := uint64(0); i < null.Size(); i++ {
		require.Equal(t, null.At(i), ewah.At(i))
	}
}

func TestNullTrim(t *testing.T) {
	n := bitstream.NewNull()
	n.Append(3, true)
	n.Append(10, false)
	n.Trim()
	require.EqualValues(t, 3, n.Size())
}
