package decoder

import (
	"unicode/utf8"

	"github.com/go-mmdb/mmdbquery/callback"
	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// DecodeInto streams the value at offset against node, dispatching decoded
// leaves to node's sinks and skipping structurally wherever node does not
// declare interest. It never allocates on the decode path itself; the
// only allocations below this call are the ones the caller's own sinks
// choose to make.
func DecodeInto[S any](d *DataDecoder, offset uint, node callback.Node[S], state S, scratch *Scratch) error {
	_, err := decodeInto(d, offset, node, state, scratch)
	return err
}

// decodeInto decodes the value at offset and returns the offset of the
// next sibling value, so callers decoding a map or array can advance
// without a second structural walk of what was just decoded.
func decodeInto[S any](
	d *DataDecoder, offset uint, node callback.Node[S], state S, scratch *Scratch,
) (uint, error) {
	if err := scratch.enter(); err != nil {
		return 0, err
	}
	defer scratch.exit()

	kind, size, dataOffset, err := d.DecodeCtrlData(offset)
	if err != nil {
		return 0, err
	}

	if kind == KindPointer {
		target, afterPointer, err := d.DecodePointer(size, dataOffset)
		if err != nil {
			return 0, err
		}
		if _, err := decodeInto(d, target, node, state, scratch); err != nil {
			return 0, err
		}
		return afterPointer, nil
	}

	switch sink := node.(type) {
	case callback.TextCallback[S]:
		if kind != KindString {
			return skipValue(d, kind, size, dataOffset)
		}
		b, next, err := d.DecodeString(size, dataOffset)
		if err != nil {
			return 0, err
		}
		if !utf8.Valid(b) {
			return 0, mmdberrors.BadUTF8Error{Offset: dataOffset}
		}
		if sink.OnValue != nil {
			if err := sink.OnValue(state, b); err != nil {
				return 0, err
			}
		}
		return next, nil

	case callback.IntCallback[S]:
		switch kind {
		case KindUint16:
			v, next, err := d.DecodeUint16(size, dataOffset)
			if err != nil {
				return 0, err
			}
			if sink.OnValue != nil {
				if err := sink.OnValue(state, int64(v)); err != nil {
					return 0, err
				}
			}
			return next, nil
		case KindUint32:
			v, next, err := d.DecodeUint32(size, dataOffset)
			if err != nil {
				return 0, err
			}
			if sink.OnValue != nil {
				if err := sink.OnValue(state, int64(v)); err != nil {
					return 0, err
				}
			}
			return next, nil
		case KindInt32:
			v, next, err := d.DecodeInt32(size, dataOffset)
			if err != nil {
				return 0, err
			}
			if sink.OnValue != nil {
				if err := sink.OnValue(state, int64(v)); err != nil {
					return 0, err
				}
			}
			return next, nil
		default:
			return skipValue(d, kind, size, dataOffset)
		}

	case callback.FloatCallback[S]:
		switch kind {
		case KindFloat64:
			v, next, err := d.DecodeFloat64(size, dataOffset)
			if err != nil {
				return 0, err
			}
			if sink.OnValue != nil {
				if err := sink.OnValue(state, v); err != nil {
					return 0, err
				}
			}
			return next, nil
		case KindFloat32:
			v, next, err := d.DecodeFloat32(size, dataOffset)
			if err != nil {
				return 0, err
			}
			if sink.OnValue != nil {
				if err := sink.OnValue(state, float64(v)); err != nil {
					return 0, err
				}
			}
			return next, nil
		default:
			return skipValue(d, kind, size, dataOffset)
		}

	case callback.BytesCallback[S]:
		if kind != KindBytes {
			return skipValue(d, kind, size, dataOffset)
		}
		b, next, err := d.DecodeBytes(size, dataOffset)
		if err != nil {
			return 0, err
		}
		if sink.OnValue != nil {
			if err := sink.OnValue(state, b); err != nil {
				return 0, err
			}
		}
		return next, nil

	case callback.BoolCallback[S]:
		if kind != KindBool {
			return skipValue(d, kind, size, dataOffset)
		}
		v, next, err := d.DecodeBool(size, dataOffset)
		if err != nil {
			return 0, err
		}
		if sink.OnValue != nil {
			if err := sink.OnValue(state, v); err != nil {
				return 0, err
			}
		}
		return next, nil

	case callback.BigIntCallback[S]:
		if kind != KindUint64 && kind != KindUint128 {
			return skipValue(d, kind, size, dataOffset)
		}
		b, next, err := d.DecodeUint128Bytes(size, dataOffset)
		if err != nil {
			return 0, err
		}
		if sink.OnValue != nil {
			if err := sink.OnValue(state, b); err != nil {
				return 0, err
			}
		}
		return next, nil

	case callback.ArrayCallback[S]:
		if kind != KindSlice {
			return skipValue(d, kind, size, dataOffset)
		}
		return decodeArray(d, size, dataOffset, sink, state, scratch)

	case callback.ObjectCallback[S]:
		if kind != KindMap {
			return skipValue(d, kind, size, dataOffset)
		}
		return decodeObject(d, size, dataOffset, sink, state, scratch)

	case callback.RecordCallback[S]:
		if kind != KindMap {
			return skipValue(d, kind, size, dataOffset)
		}
		return decodeObject(d, size, dataOffset, sink.ObjectCallback, state, scratch)

	default:
		// Unregistered node (including the nil interest that field/element
		// lookups pass for paths the caller didn't ask for): skip
		// structurally without dispatch.
		return skipValue(d, kind, size, dataOffset)
	}
}

func decodeArray[S any](
	d *DataDecoder,
	size, offset uint,
	sink callback.ArrayCallback[S],
	state S,
	scratch *Scratch,
) (uint, error) {
	if sink.OnBegin != nil {
		if err := sink.OnBegin(state, int(size)); err != nil {
			return 0, err
		}
	}
	for i := uint(0); i < size; i++ {
		var child callback.Node[S]
		var err error
		if sink.OnElement != nil {
			child, err = sink.OnElement(state, int(i), int(size))
			if err != nil {
				return 0, err
			}
		}
		if child == nil {
			offset, err = d.NextValueOffset(offset, 1)
		} else {
			offset, err = decodeInto(d, offset, child, state, scratch)
		}
		if err != nil {
			return 0, err
		}
	}
	if sink.OnEnd != nil {
		if err := sink.OnEnd(state); err != nil {
			return 0, err
		}
	}
	return offset, nil
}

func decodeObject[S any](
	d *DataDecoder,
	size, offset uint,
	sink callback.ObjectCallback[S],
	state S,
	scratch *Scratch,
) (uint, error) {
	if sink.OnBegin != nil {
		if err := sink.OnBegin(state); err != nil {
			return 0, err
		}
	}
	for i := uint(0); i < size; i++ {
		key, valueOffset, err := d.DecodeKey(offset)
		if err != nil {
			return 0, err
		}

		child, hasChild := sink.Fields[string(key)]
		if hasChild {
			offset, err = decodeInto(d, valueOffset, child, state, scratch)
		} else {
			offset, err = d.NextValueOffset(valueOffset, 1)
		}
		if err != nil {
			return 0, err
		}
	}
	if sink.OnEnd != nil {
		if err := sink.OnEnd(state); err != nil {
			return 0, err
		}
	}
	return offset, nil
}

// skipValue structurally skips the value already identified by kind/size
// at offset (the payload offset, i.e. just after the control byte and any
// size-extension bytes) and returns the offset of the next sibling value.
func skipValue(d *DataDecoder, kind Kind, size, offset uint) (uint, error) {
	switch kind {
	case KindMap:
		return d.NextValueOffset(offset, 2*size)
	case KindSlice:
		return d.NextValueOffset(offset, size)
	case KindBool:
		return offset, nil
	default:
		return offset + size, nil
	}
}
