package mmdbquery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetworkAddressIPv4(t *testing.T) {
	addr := []byte{192, 168, 1, 200}
	require.Equal(t, []byte{192, 168, 1, 0}, NetworkAddress(addr, 24))
	require.Equal(t, []byte{192, 168, 0, 0}, NetworkAddress(addr, 16))
	require.Equal(t, []byte{192, 168, 1, 200}, NetworkAddress(addr, 32))
	require.Equal(t, []byte{0, 0, 0, 0}, NetworkAddress(addr, 0))
}

func TestNetworkAddressIPv6(t *testing.T) {
	addr := []byte{0x20, 0x01, 0x0d, 0xb8, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	masked := NetworkAddress(addr, 32)
	require.Equal(t, []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, masked)
}

func TestNetworkAddressDoesNotAliasInput(t *testing.T) {
	addr := []byte{192, 168, 1, 200}
	masked := NetworkAddress(addr, 24)
	masked[0] = 1
	require.Equal(t, byte(192), addr[0])
}

func TestNetworkAddressPartialByte(t *testing.T) {
	// 10101010 masked to 3 bits keeps the top 3 bits: 101 -> 10100000.
	addr := []byte{0b10101010}
	require.Equal(t, []byte{0b10100000}, NetworkAddress(addr, 3))
}
