package decoder

import (
	"sync"

	"github.com/go-mmdb/mmdbquery/internal/mmdberrors"
)

// Scratch is the mutable state a lookup needs beyond the immutable byte
// range: the pointer-chase/nesting depth counter that [DecodeInto] threads
// through its own recursion. It exists as a distinct, poolable type so
// Reader.Lookup has something to acquire and release per call instead of
// allocating fresh state, which is this module's stand-in for the
// per-caller-thread scratch the spec describes (Go has no thread-local
// storage to hang it on).
type Scratch struct {
	depth int
}

// enter increments the depth counter and fails once it passes
// maximumDataStructureDepth; exit, deferred by the caller, undoes the
// increment so sibling values in the same map or array are checked against
// their own depth rather than whatever a deeper sibling left behind.
func (s *Scratch) enter() error {
	s.depth++
	if s.depth > maximumDataStructureDepth {
		return mmdberrors.NewInvalidDatabaseError(
			"exceeded maximum pointer/nesting depth; database is likely corrupt",
		)
	}
	return nil
}

func (s *Scratch) exit() {
	s.depth--
}

// ScratchProvider acquires and releases [Scratch] values for decode
// operations, backed by a [sync.Pool]. This mirrors the
// Acquire()/Release()-via-sync.Pool shape the teacher corpus uses for its
// string-interning cache providers, repurposed here for per-lookup scratch
// since this module's decode path returns borrowed views rather than
// interned strings.
type ScratchProvider struct {
	pool sync.Pool
}

// NewScratchProvider creates a pooled ScratchProvider.
func NewScratchProvider() *ScratchProvider {
	return &ScratchProvider{
		pool: sync.Pool{
			New: func() any { return new(Scratch) },
		},
	}
}

// Acquire returns a Scratch for exclusive use by the caller until Release.
// The depth counter is reset, since a pooled instance may be whatever a
// prior caller left it as.
func (p *ScratchProvider) Acquire() *Scratch {
	s := p.pool.Get().(*Scratch)
	s.depth = 0
	return s
}

// Release returns s to the pool.
func (p *ScratchProvider) Release(s *Scratch) {
	p.pool.Put(s)
}
