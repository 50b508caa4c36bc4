package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratchProviderAcquireRelease(t *testing.T) {
	p := NewScratchProvider()
	s := p.Acquire()
	require.NotNil(t, s)
	p.Release(s)

	s2 := p.Acquire()
	require.NotNil(t, s2)
	p.Release(s2)
}

func TestScratchEnterExceedsMaxDepth(t *testing.T) {
	s := new(Scratch)
	for i := 0; i < maximumDataStructureDepth; i++ {
		require.NoError(t, s.enter())
	}
	require.Error(t, s.enter())
}

func TestScratchProviderAcquireResetsDepth(t *testing.T) {
	p := NewScratchProvider()
	s := p.Acquire()
	for i := 0; i < maximumDataStructureDepth; i++ {
		require.NoError(t, s.enter())
	}
	p.Release(s)

	// A reused instance must not carry over the previous caller's depth.
	s2 := p.Acquire()
	require.NoError(t, s2.enter())
}

func TestScratchProviderConcurrentUse(t *testing.T) {
	p := NewScratchProvider()
	done := make(chan struct{})
	for i := 0; i < 32; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			s := p.Acquire()
			defer p.Release(s)
		}()
	}
	for i := 0; i < 32; i++ {
		<-done
	}
}
