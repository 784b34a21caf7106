package bitstream_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenzir/vast/bitstream"
)

func TestPersistEWAHRoundTrip(t *testing.T) {
	e := bitstream.NewEWAH()
	e.Append(10, true)
	e.Append(64*3, false)
	e.Append(7, true)

	var buf bytes.Buffer
	require.NoError(t, bitstream.Write(&buf, e))

	got, err := bitstream.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, e.Size(), got.Size())
	require.Equal(t, e.Count(), got.Count())
	for i := uint64(0); i < e.Size(); i++ {
		require.Equal(t, e.At(i), got.At(i))
	}
}

func TestPersistNullRoundTrip(t *testing.T) {
	n := bitstream.NewNull()
	n.Append(5, true)
	n.Append(20, false)

	var buf bytes.Buffer
	require.NoError(t, bitstream.Write(&buf, n))

	got, err := bitstream.Read(&buf)
	require.NoError(t, err)
	require.IsType(t, &bitstream.Null{}, got)
	require.Equal(t, n.Size(), got.Size())
	require.Equal(t, n.Count(), got.Count())
}
