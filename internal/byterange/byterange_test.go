package byterange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceBounds(t *testing.T) {
	r := New([]byte{1, 2, 3, 4, 5})

	b, err := r.Slice(1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, b)

	_, err = r.Slice(3, 3)
	require.Error(t, err)

	_, err = r.Slice(1, ^uint(0))
	require.Error(t, err, "overflowing offset+size must not wrap around")
}

func TestIntegerReads(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	u8, err := r.Uint8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), u8)

	u16, err := r.Uint16(0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), u16)

	u24, err := r.Uint24(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x010203), u24)

	u32, err := r.Uint32(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), u32)

	u64, err := r.Uint64(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)
}

func TestLastIndex(t *testing.T) {
	marker := []byte{0xAB, 0xCD, 0xEF}
	r := New([]byte{0x00, 0xAB, 0xCD, 0xEF, 0x11, 0xAB, 0xCD, 0xEF, 0x22})
	require.Equal(t, 5, r.LastIndex(marker))
	require.Equal(t, -1, r.LastIndex([]byte{0xFF, 0xFF}))
}

func TestSliceAliasesBackingArray(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	r := New(data)
	b, err := r.Slice(0, 4)
	require.NoError(t, err)
	b[0] = 99
	require.Equal(t, byte(99), data[0], "Slice must alias, not copy")
}
