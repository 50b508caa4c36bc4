// Package decoder implements the streaming, cursor-based decoder of the
// MMDB data section: control-byte and size parsing, pointer chasing, and
// dispatch of decoded values either to a callback tree (the zero-alloc
// path) or into a materialized any-tree (the convenience path).
package decoder

import (
	"math"
	"math/big"

	"github.com/go-mmdb/mmdbquery/internal/byterange"
	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// maximumDataStructureDepth bounds pointer-chase and container-nesting
// recursion. The format does not forbid chained pointers; 32 is the depth
// the spec calls safe, well short of any legitimate record.
const maximumDataStructureDepth = 32

// pointerValueOffset is indexed by pointer_size (1..4); see §3 of the
// format for the derivation of these constants.
var pointerValueOffset = [5]uint{0, 0, 2048, 526336, 0}

// DataDecoder decodes values out of a byte range given the pointer base
// that applies to it: search_tree_size+16 for the data section, 0 for the
// metadata map (which contains no cross-pointers into the data section).
type DataDecoder struct {
	br          byterange.Range
	pointerBase uint
}

// New creates a DataDecoder over br with the given pointer base.
func New(br byterange.Range, pointerBase uint) DataDecoder {
	return DataDecoder{br: br, pointerBase: pointerBase}
}

// Range returns the underlying byte range.
func (d *DataDecoder) Range() byterange.Range {
	return d.br
}

// DecodeCtrlData decodes the control byte and size at offset, returning the
// kind, the size, and the offset of the value's payload.
func (d *DataDecoder) DecodeCtrlData(offset uint) (Kind, uint, uint, error) {
	ctrlByte, err := d.br.Uint8(offset)
	if err != nil {
		return 0, 0, 0, err
	}
	newOffset := offset + 1

	kind := Kind(ctrlByte >> 5)
	if kind == KindExtended {
		extra, err := d.br.Uint8(newOffset)
		if err != nil {
			return 0, 0, 0, err
		}
		if uint(extra)+7 < 8 {
			return 0, 0, 0, mmdberrors.NewInvalidDatabaseError(
				"invalid extended type byte: %d", extra,
			)
		}
		kind = Kind(uint(extra) + 7)
		newOffset++
	}

	size, newOffset, err := d.sizeFromCtrlByte(ctrlByte, newOffset)
	return kind, size, newOffset, err
}

func (d *DataDecoder) sizeFromCtrlByte(ctrlByte byte, offset uint) (uint, uint, error) {
	size := uint(ctrlByte & 0x1f)
	if size < 29 {
		return size, offset, nil
	}

	bytesToRead := size - 28
	switch size {
	case 29:
		b, err := d.br.Uint8(offset)
		if err != nil {
			return 0, 0, err
		}
		return 29 + uint(b), offset + 1, nil
	case 30:
		b, err := d.br.Slice(offset, bytesToRead)
		if err != nil {
			return 0, 0, err
		}
		return 285 + uintFromBytes(0, b), offset + bytesToRead, nil
	default:
		b, err := d.br.Slice(offset, bytesToRead)
		if err != nil {
			return 0, 0, err
		}
		return 65821 + uintFromBytes(0, b), offset + bytesToRead, nil
	}
}

// DecodePointer decodes a pointer payload of the given control-byte size at
// offset, returning the absolute data-section offset it resolves to and the
// offset just past the pointer's own bytes.
func (d *DataDecoder) DecodePointer(size, offset uint) (uint, uint, error) {
	pointerSize := ((size >> 3) & 0x3) + 1
	payload, err := d.br.Slice(offset, pointerSize)
	if err != nil {
		return 0, 0, err
	}

	var prefix uint
	if pointerSize != 4 {
		prefix = size & 0x7
	}
	unpacked := uintFromBytes(prefix, payload)
	target := unpacked + d.pointerBase + pointerValueOffset[pointerSize]
	return target, offset + pointerSize, nil
}

// DecodeBool decodes a boolean from its control-byte size; booleans carry
// no payload bytes, so offset is returned unchanged.
func (d *DataDecoder) DecodeBool(size, offset uint) (bool, uint, error) {
	if size > 1 {
		return false, 0, mmdberrors.NewInvalidDatabaseError(
			"bad boolean size: %d", size,
		)
	}
	return size != 0, offset, nil
}

// DecodeBytes returns a borrowed view of size bytes at offset. The caller
// must copy the slice to retain it past the current decode.
func (d *DataDecoder) DecodeBytes(size, offset uint) ([]byte, uint, error) {
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return nil, 0, err
	}
	return b, offset + size, nil
}

// DecodeString returns a borrowed view of a UTF8_STRING's bytes at offset.
// It does not validate UTF-8; callers that need the validated-text
// contract do that at the callback dispatch layer.
func (d *DataDecoder) DecodeString(size, offset uint) ([]byte, uint, error) {
	return d.DecodeBytes(size, offset)
}

// DecodeKey decodes a map key, following pointer indirection up to
// maximumDataStructureDepth, and returns it as a borrowed []byte view.
// Using []byte instead of string lets the caller do a map[string]T lookup
// keyed by a []byte-to-string conversion without an allocation (the Go
// compiler special-cases this conversion inside an index expression).
func (d *DataDecoder) DecodeKey(offset uint) ([]byte, uint, error) {
	return d.decodeKey(offset, 0)
}

func (d *DataDecoder) decodeKey(offset uint, depth int) ([]byte, uint, error) {
	if depth > maximumDataStructureDepth {
		return nil, 0, mmdberrors.NewInvalidDatabaseError(
			"exceeded maximum pointer/nesting depth; database is likely corrupt",
		)
	}

	kind, size, dataOffset, err := d.DecodeCtrlData(offset)
	if err != nil {
		return nil, 0, err
	}
	if kind == KindPointer {
		pointer, afterPointer, err := d.DecodePointer(size, dataOffset)
		if err != nil {
			return nil, 0, err
		}
		key, _, err := d.decodeKey(pointer, depth+1)
		return key, afterPointer, err
	}
	if kind != KindString {
		return nil, 0, mmdberrors.NewInvalidDatabaseError(
			"unexpected type when decoding a map key: %v", kind,
		)
	}
	return d.DecodeBytes(size, dataOffset)
}

// DecodeFloat64 decodes a DOUBLE; size must be 8.
func (d *DataDecoder) DecodeFloat64(size, offset uint) (float64, uint, error) {
	if size != 8 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad double size: %d", size,
		)
	}
	bits, err := d.br.Uint64(offset)
	if err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(bits), offset + size, nil
}

// DecodeFloat32 decodes a FLOAT; size must be 4.
func (d *DataDecoder) DecodeFloat32(size, offset uint) (float32, uint, error) {
	if size != 4 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad float size: %d", size,
		)
	}
	bits, err := d.br.Uint32(offset)
	if err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(bits), offset + size, nil
}

// DecodeInt32 decodes an INT32: a big-endian two's-complement value stored
// in the minimum number of bytes needed, zero/sign handled by the caller's
// width (size <= 4).
func (d *DataDecoder) DecodeInt32(size, offset uint) (int32, uint, error) {
	if size > 4 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad int32 size: %d", size,
		)
	}
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return 0, 0, err
	}
	var val int32
	for _, c := range b {
		val = (val << 8) | int32(c)
	}
	return val, offset + size, nil
}

// DecodeUint16 decodes a UINT16.
func (d *DataDecoder) DecodeUint16(size, offset uint) (uint16, uint, error) {
	if size > 2 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad uint16 size: %d", size,
		)
	}
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return 0, 0, err
	}
	return uint16(uintFromBytes(0, b)), offset + size, nil
}

// DecodeUint32 decodes a UINT32.
func (d *DataDecoder) DecodeUint32(size, offset uint) (uint32, uint, error) {
	if size > 4 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad uint32 size: %d", size,
		)
	}
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return 0, 0, err
	}
	return uint32(uintFromBytes(0, b)), offset + size, nil
}

// DecodeUint64 decodes a UINT64.
func (d *DataDecoder) DecodeUint64(size, offset uint) (uint64, uint, error) {
	if size > 8 {
		return 0, 0, mmdberrors.NewInvalidDatabaseError(
			"bad uint64 size: %d", size,
		)
	}
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return 0, 0, err
	}
	return uint64(uintFromBytes(0, b)), offset + size, nil
}

// DecodeUint128 decodes a UINT128 into a freshly allocated *big.Int.
// DecodeUint128Bytes is the non-allocating alternative: it returns the
// borrowed big-endian bytes instead.
func (d *DataDecoder) DecodeUint128(size, offset uint) (*big.Int, uint, error) {
	b, err := d.br.Slice(offset, size)
	if err != nil {
		return nil, 0, err
	}
	return new(big.Int).SetBytes(b), offset + size, nil
}

// DecodeUint128Bytes returns the big-endian bytes of a UINT128 as a
// borrowed view, with no big.Int allocation.
func (d *DataDecoder) DecodeUint128Bytes(size, offset uint) ([]byte, uint, error) {
	return d.DecodeBytes(size, offset)
}

// NextValueOffset skips over numberToSkip logical values starting at
// offset without decoding them, for structural skip of uninteresting
// subtrees. A map counts as 2*size values (key, value per entry); a slice
// counts as size values; a pointer skip advances only past the pointer's
// own payload bytes — it does not chase the pointer.
func (d *DataDecoder) NextValueOffset(offset, numberToSkip uint) (uint, error) {
	for numberToSkip > 0 {
		kind, size, dataOffset, err := d.DecodeCtrlData(offset)
		if err != nil {
			return 0, err
		}
		switch kind {
		case KindPointer:
			_, dataOffset, err = d.DecodePointer(size, dataOffset)
			if err != nil {
				return 0, err
			}
			offset = dataOffset
		case KindMap:
			numberToSkip += 2 * size
			offset = dataOffset
		case KindSlice:
			numberToSkip += size
			offset = dataOffset
		case KindBool:
			offset = dataOffset
		default:
			offset = dataOffset + size
		}
		numberToSkip--
	}
	return offset, nil
}

func uintFromBytes(prefix uint, b []byte) uint {
	val := prefix
	for _, c := range b {
		val = (val << 8) | uint(c)
	}
	return val
}
