package tree

import (
	"encoding/hex"
	"testing"

	"github.com/go-mmdb/mmdbquery/internal/byterange"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnsupportedRecordSize(t *testing.T) {
	_, err := New(byterange.New(nil), 16, 0, 6)
	require.Error(t, err)
}

func TestReadChild24Bit(t *testing.T) {
	raw, err := hex.DecodeString("000001000002" + "000000000001")
	require.NoError(t, err)
	w, err := New(byterange.New(raw), 24, 2, 4)
	require.NoError(t, err)

	v, err := w.ReadChild(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)

	v, err = w.ReadChild(0, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)

	v, err = w.ReadChild(1, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), v)

	v, err = w.ReadChild(1, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)
}

func TestReadChild28Bit(t *testing.T) {
	raw, err := hex.DecodeString("01000000000002")
	require.NoError(t, err)
	w, err := New(byterange.New(raw), 28, 3, 4)
	require.NoError(t, err)

	left, err := w.ReadChild(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(65536), left)

	right, err := w.ReadChild(0, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(2), right)
}

func TestIPv4StartComputedOnceFromRoot(t *testing.T) {
	// A 2-node, 24-bit-record tree whose bit=0 edges cycle 0 -> 1 -> 0 -> ...
	// 96 bit=0 steps from the root (even) land back on node 0.
	raw, err := hex.DecodeString("000001000002" + "000000000001")
	require.NoError(t, err)
	w, err := New(byterange.New(raw), 24, 2, 6)
	require.NoError(t, err)
	require.Equal(t, uint32(0), w.IPv4Start())
	require.Equal(t, uint32(0), w.StartNode(32))
	require.Equal(t, uint32(0), w.StartNode(128))
}

func TestIPv4StartSkippedForIPv4Database(t *testing.T) {
	raw, err := hex.DecodeString("000001000002" + "000000000001")
	require.NoError(t, err)
	w, err := New(byterange.New(raw), 24, 2, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(0), w.IPv4Start())
}
