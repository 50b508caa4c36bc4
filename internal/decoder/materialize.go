package decoder

import (
	"math/big"

	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// DecodeAny fully materializes the value at offset into a generic Go
// value: map[string]any for MAP, []any for ARRAY, string for UTF8_STRING,
// int64 for UINT16/UINT32/INT32, float64 for DOUBLE/FLOAT, []byte for
// BYTES, bool for BOOLEAN, and *big.Int for UINT64/UINT128.
//
// This is the non-core, explicitly non-zero-alloc path: it exists so
// metadata decode and the convenience [github.com/go-mmdb/mmdbquery.Reader.Decode]
// API have something to call without the caller building a callback tree.
func DecodeAny(d *DataDecoder, offset uint) (any, error) {
	v, _, err := decodeAny(d, offset, 0)
	return v, err
}

func decodeAny(d *DataDecoder, offset uint, depth int) (any, uint, error) {
	if depth > maximumDataStructureDepth {
		return nil, 0, wrapError(mmdberrors.NewInvalidDatabaseError(
			"exceeded maximum pointer/nesting depth; database is likely corrupt",
		), offset, nil)
	}

	kind, size, dataOffset, err := d.DecodeCtrlData(offset)
	if err != nil {
		return nil, 0, wrapError(err, offset, nil)
	}

	switch kind {
	case KindPointer:
		target, next, err := d.DecodePointer(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		v, _, err := decodeAny(d, target, depth+1)
		return v, next, err

	case KindMap:
		m := make(map[string]any, size)
		offset = dataOffset
		for i := uint(0); i < size; i++ {
			key, valueOffset, err := d.DecodeKey(offset)
			if err != nil {
				return nil, 0, wrapError(err, offset, nil)
			}
			v, next, err := decodeAny(d, valueOffset, depth+1)
			if err != nil {
				return nil, 0, prependMapKey(err, string(key))
			}
			m[string(key)] = v
			offset = next
		}
		return m, offset, nil

	case KindSlice:
		arr := make([]any, size)
		offset = dataOffset
		for i := uint(0); i < size; i++ {
			v, next, err := decodeAny(d, offset, depth+1)
			if err != nil {
				return nil, 0, prependSliceIndex(err, int(i))
			}
			arr[i] = v
			offset = next
		}
		return arr, offset, nil

	case KindString:
		b, next, err := d.DecodeString(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return string(b), next, nil

	case KindBytes:
		b, next, err := d.DecodeBytes(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, next, nil

	case KindFloat64:
		v, next, err := d.DecodeFloat64(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return v, next, nil

	case KindFloat32:
		v, next, err := d.DecodeFloat32(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return float64(v), next, nil

	case KindUint16:
		v, next, err := d.DecodeUint16(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return int64(v), next, nil

	case KindUint32:
		v, next, err := d.DecodeUint32(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return int64(v), next, nil

	case KindInt32:
		v, next, err := d.DecodeInt32(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return int64(v), next, nil

	case KindUint64, KindUint128:
		b, next, err := d.DecodeUint128Bytes(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return new(big.Int).SetBytes(b), next, nil

	case KindBool:
		v, next, err := d.DecodeBool(size, dataOffset)
		if err != nil {
			return nil, 0, wrapError(err, dataOffset, nil)
		}
		return v, next, nil

	default:
		return nil, 0, wrapError(mmdberrors.NewInvalidDatabaseError("unknown type: %v", kind), offset, nil)
	}
}
