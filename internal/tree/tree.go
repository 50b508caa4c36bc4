// Package tree walks the MMDB binary search tree: a packed radix trie over
// IP address bits, with variable record widths of 24, 28, or 32 bits.
package tree

import (
	"github.com/go-mmdb/mmdbquery/internal/byterange"
	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// Walker reads trie nodes by index and child bit. It is immutable after
// construction and safe for concurrent use by any number of goroutines.
type Walker struct {
	br         byterange.Range
	recordSize uint
	nodeCount  uint32
	nodeBytes  uint
	ipv4Start  uint32
}

// New builds a Walker over br, which must begin at the first byte of the
// search tree. recordSize is one of 24, 28, or 32; nodeCount is the number
// of nodes in the tree. ipVersion is 4 or 6, used to compute the IPv4 start
// node once, at construction, per the spec's "computed once at open" rule.
func New(br byterange.Range, recordSize uint, nodeCount uint32, ipVersion int) (*Walker, error) {
	if recordSize != 24 && recordSize != 28 && recordSize != 32 {
		return nil, mmdberrors.NewInvalidDatabaseError(
			"unsupported record_size: %d", recordSize,
		)
	}
	w := &Walker{
		br:         br,
		recordSize: recordSize,
		nodeCount:  nodeCount,
		nodeBytes:  recordSize * 2 / 8,
	}
	start, err := w.computeIPv4Start(ipVersion)
	if err != nil {
		return nil, err
	}
	w.ipv4Start = start
	return w, nil
}

// NodeCount returns the number of nodes in the tree.
func (w *Walker) NodeCount() uint32 {
	return w.nodeCount
}

// ReadChild fetches the child record for node at the given bit (0 or 1).
// node must be < NodeCount().
func (w *Walker) ReadChild(node uint32, bit int) (uint32, error) {
	base := uint(node) * w.nodeBytes

	switch w.recordSize {
	case 24:
		if bit == 0 {
			v, err := w.br.Uint24(base)
			return v, err
		}
		v, err := w.br.Uint24(base + 3)
		return v, err

	case 32:
		if bit == 0 {
			v, err := w.br.Uint32(base)
			return v, err
		}
		v, err := w.br.Uint32(base + 4)
		return v, err

	default: // 28
		raw, err := w.br.Slice(base, 7)
		if err != nil {
			return 0, err
		}
		middle := raw[3]
		if bit == 0 {
			left := uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2])
			left |= uint32(middle&0xF0) << 20
			return left, nil
		}
		right := uint32(raw[4])<<16 | uint32(raw[5])<<8 | uint32(raw[6])
		right |= uint32(middle&0x0F) << 24
		return right, nil
	}
}

// IPv4Start returns the node to begin an IPv4 lookup from, computed once at
// construction by walking 96 bit=0 steps from the root of an IPv6 tree.
func (w *Walker) IPv4Start() uint32 {
	return w.ipv4Start
}

// StartNode returns the node to begin a lookup from for an address of the
// given bit length (32 for IPv4, 128 for IPv6).
func (w *Walker) StartNode(addressBitLength int) uint32 {
	if addressBitLength == 32 {
		return w.ipv4Start
	}
	return 0
}

func (w *Walker) computeIPv4Start(ipVersion int) (uint32, error) {
	if ipVersion == 4 {
		return 0, nil
	}
	var node uint32
	for i := 0; i < 96 && node < w.nodeCount; i++ {
		next, err := w.ReadChild(node, 0)
		if err != nil {
			return 0, err
		}
		node = next
	}
	return node, nil
}
