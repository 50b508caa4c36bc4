package mmdbquery

// NetworkAddress returns a copy of addr with every bit past prefixLength
// masked to zero, i.e. the first address in the network addr/prefixLength
// belongs to. It works on both 4-byte (IPv4) and 16-byte (IPv6) forms.
//
// [RecordCallback.OnNetwork] hands callers the raw queried address plus
// the matched prefix length rather than a pre-masked network address, so
// that callers who only need the prefix length never pay for the mask.
// NetworkAddress is the canonicalization step for callers who do want it,
// ported from the original implementation's Network.getNetworkAddress().
func NetworkAddress(addr []byte, prefixLength int) []byte {
	out := make([]byte, len(addr))

	if prefixLength <= 0 {
		return out
	}
	if prefixLength >= len(addr)*8 {
		copy(out, addr)
		return out
	}

	fullBytes := prefixLength / 8
	copy(out[:fullBytes], addr[:fullBytes])

	remainingBits := prefixLength % 8
	if remainingBits > 0 {
		mask := byte(0xFF << (8 - remainingBits))
		out[fullBytes] = addr[fullBytes] & mask
	}
	return out
}
