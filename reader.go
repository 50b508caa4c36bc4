// Package mmdbquery is a zero-allocation reader for the MaxMind DB (MMDB)
// binary format: a longest-prefix-match lookup over an IP radix trie, with
// a streaming, callback-driven decoder that only materializes the fields
// of the matched record a caller has declared interest in.
package mmdbquery

import (
	"os"
	"sync/atomic"

	"github.com/go-mmdb/mmdbquery/callback"
	"github.com/go-mmdb/mmdbquery/internal/byterange"
	"github.com/go-mmdb/mmdbquery/internal/decoder"
	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
	"github.com/go-mmdb/mmdbquery/internal/tree"
)

// Reader provides lookups against an open MaxMind DB. A Reader is safe
// for concurrent use by any number of goroutines; Close invalidates it for
// all of them.
type Reader struct {
	file   *os.File
	br     byterange.Range
	meta   Metadata
	walker *tree.Walker
	// pointerBase is the offset of the data section within br: every
	// in-data pointer payload is relative to it. Search-tree records are
	// resolved separately, in findAddress.
	pointerBase uint
	scratch     *decoder.ScratchProvider
	closed      atomic.Bool
}

// Open memory-maps the database at path and parses its metadata and search
// tree shape. The returned Reader must be closed with [Reader.Close].
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, mmdberrors.NewIOError(err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, mmdberrors.NewIOError(err)
	}

	data, err := mmap(int(file.Fd()), int(stat.Size()))
	if err != nil {
		file.Close()
		return nil, mmdberrors.NewIOError(err)
	}

	r, err := newReader(data)
	if err != nil {
		munmap(data)
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// OpenBytes parses a database already loaded into memory, e.g. read whole
// from disk or embedded with go:embed. The returned Reader does not own
// data; it must outlive every call made through the Reader.
func OpenBytes(data []byte) (*Reader, error) {
	return newReader(data)
}

func newReader(data []byte) (*Reader, error) {
	br := byterange.New(data)

	metadataStart, err := locateMetadataStart(br)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(br, metadataStart)
	if err != nil {
		return nil, err
	}

	searchTreeSize := meta.SearchTreeSize()
	treeBytes, err := br.Slice(0, searchTreeSize)
	if err != nil {
		return nil, mmdberrors.NewInvalidDatabaseError(
			"search tree of size %d does not fit in a database of size %d",
			searchTreeSize, br.Len(),
		)
	}

	walker, err := tree.New(byterange.New(treeBytes), meta.RecordSize, uint32(meta.NodeCount), int(meta.IPVersion))
	if err != nil {
		return nil, err
	}

	return &Reader{
		br:          br,
		meta:        meta,
		walker:      walker,
		pointerBase: searchTreeSize + dataSectionSeparatorSize,
		scratch:     decoder.NewScratchProvider(),
	}, nil
}

// Metadata returns the database's parsed metadata.
func (r *Reader) Metadata() Metadata {
	return r.meta
}

// Close unmaps and closes the underlying file, if Open was used to open
// it. Close is idempotent; every Lookup call made after Close returns
// [ClosedDatabaseError].
func (r *Reader) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.file == nil {
		return nil
	}
	if err := munmap(r.br.Raw()); err != nil {
		r.file.Close()
		return mmdberrors.NewIOError(err)
	}
	return mmdberrors.NewIOError(r.file.Close())
}

// Lookup finds the network containing address (4 bytes for IPv4, 16 for
// IPv6) and streams its record through record. OnNetwork, if set, is
// invoked exactly once with the raw queried address and the matched
// prefix length, whether or not a data record was found; the rest of
// record's callback tree is only invoked when the search tree resolves to
// a data pointer. record may be nil to query only the matched network.
func Lookup[S any](r *Reader, address []byte, record *callback.RecordCallback[S], state S) error {
	offset, found, prefixLength, err := r.findAddress(address)
	if err != nil {
		return err
	}

	if record != nil && record.OnNetwork != nil {
		if err := record.OnNetwork(state, address, prefixLength); err != nil {
			return err
		}
	}
	if !found || record == nil {
		return nil
	}

	scratch := r.scratch.Acquire()
	defer r.scratch.Release(scratch)

	d := decoder.New(r.br, r.pointerBase)
	return decoder.DecodeInto[S](&d, offset, *record, state, scratch)
}

// findAddress walks the search tree for address and returns the resolved
// data-section offset, whether a data record was found, and the matched
// prefix length. It is the shared tree-walk behind [Lookup] and
// [Reader.Decode].
func (r *Reader) findAddress(address []byte) (offset uint, found bool, prefixLength int, err error) {
	if r.closed.Load() {
		return 0, false, 0, mmdberrors.ClosedDatabaseError{}
	}

	bitLength := len(address) * 8
	node := r.walker.StartNode(bitLength)
	nodeCount := r.walker.NodeCount()

	for ; prefixLength < bitLength && node < nodeCount; prefixLength++ {
		bit := int(1 & (address[prefixLength/8] >> (7 - uint(prefixLength%8))))
		next, err := r.walker.ReadChild(node, bit)
		if err != nil {
			return 0, false, 0, err
		}
		node = next
	}

	if node <= nodeCount {
		return 0, false, prefixLength, nil
	}
	return uint(node-nodeCount) + r.meta.SearchTreeSize(), true, prefixLength, nil
}
