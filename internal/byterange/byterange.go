// Package byterange provides a bounded, read-only view over the bytes of an
// opened database: the search tree, the data section, and the metadata that
// follows them. It is the one place that does raw bounds checking so the
// rest of the decode path can trust its reads.
package byterange

import (
	"bytes"
	"encoding/binary"

	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// Range is an immutable, random-access view over a byte slice. The zero
// value is an empty range.
//
// A Range never copies its backing slice; callers that memory-map a file
// hold a Range over the mapping, and slices returned by [Range.Slice] stay
// valid only as long as the backing storage does.
type Range struct {
	data []byte
}

// New wraps data in a Range. The Range aliases data; it does not copy it.
func New(data []byte) Range {
	return Range{data: data}
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return len(r.data)
}

// Raw returns the backing slice itself, aliased rather than copied. It
// exists for callers that need to hand the whole buffer to something
// outside the decode path, such as unmapping it on close.
func (r Range) Raw() []byte {
	return r.data
}

// Slice returns the sub-slice [offset, offset+size). The returned slice
// aliases the range's backing array and must not be retained past the
// range's own lifetime.
func (r Range) Slice(offset, size uint) ([]byte, error) {
	end := offset + size
	if end < offset || end > uint(len(r.data)) {
		return nil, mmdberrors.NewOffsetError()
	}
	return r.data[offset:end], nil
}

// Uint8 reads one byte at offset.
func (r Range) Uint8(offset uint) (uint8, error) {
	b, err := r.Slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a big-endian uint16 at offset.
func (r Range) Uint16(offset uint) (uint16, error) {
	b, err := r.Slice(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint24 reads a big-endian 24-bit unsigned integer at offset.
func (r Range) Uint24(offset uint) (uint32, error) {
	b, err := r.Slice(offset, 3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Uint32 reads a big-endian uint32 at offset.
func (r Range) Uint32(offset uint) (uint32, error) {
	b, err := r.Slice(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64 reads a big-endian uint64 at offset.
func (r Range) Uint64(offset uint) (uint64, error) {
	b, err := r.Slice(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// LastIndex returns the offset of the last occurrence of marker in the
// range, or -1 if marker does not occur.
func (r Range) LastIndex(marker []byte) int {
	return bytes.LastIndex(r.data, marker)
}
