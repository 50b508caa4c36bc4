// Package callback defines the "areas of interest" callback tree: the
// caller-built specification of which fields and array indices of a
// decoded record should be materialized, and into which sinks. Anything
// the tree does not cover is skipped by the decoder without allocation.
//
// S is the caller-owned state type threaded through every sink invocation.
// It is typically a pointer to a struct the caller is accumulating into.
package callback

// Node is the common interface of every callback tree node. It is a
// closed, tagged-variant sum type: the decoder type-switches on the
// concrete type to decide how to dispatch a decoded value, and a value
// whose on-disk type does not match the node it is offered to is skipped
// rather than treated as an error.
type Node[S any] interface {
	isNode()
}

// TextCallback receives a decoded UTF8_STRING as a transient view: the
// byte slice passed to OnValue is only valid for the duration of the call
// and must be copied if the caller wants to retain it.
type TextCallback[S any] struct {
	OnValue func(state S, value []byte) error
}

func (TextCallback[S]) isNode() {}

// IntCallback receives a decoded UINT16, UINT32, or INT32 value widened to
// int64.
type IntCallback[S any] struct {
	OnValue func(state S, value int64) error
}

func (IntCallback[S]) isNode() {}

// FloatCallback receives a decoded DOUBLE or FLOAT value widened to
// float64.
type FloatCallback[S any] struct {
	OnValue func(state S, value float64) error
}

func (FloatCallback[S]) isNode() {}

// BytesCallback receives a decoded BYTES value as a transient view, with
// the same retention contract as TextCallback.
type BytesCallback[S any] struct {
	OnValue func(state S, value []byte) error
}

func (BytesCallback[S]) isNode() {}

// BoolCallback receives a decoded BOOLEAN value.
type BoolCallback[S any] struct {
	OnValue func(state S, value bool) error
}

func (BoolCallback[S]) isNode() {}

// BigIntCallback receives a decoded UINT64 or UINT128 value as its
// big-endian bytes, a transient view with the same retention contract as
// TextCallback.
type BigIntCallback[S any] struct {
	OnValue func(state S, value []byte) error
}

func (BigIntCallback[S]) isNode() {}

// ArrayCallback describes interest in an ARRAY. OnBegin is invoked with the
// array's size before any element; OnElement is asked, for each index in
// ascending order, which node (if any) should receive that element —
// returning nil skips the element structurally; OnEnd is invoked after the
// last element.
type ArrayCallback[S any] struct {
	OnBegin   func(state S, size int) error
	OnElement func(state S, index, size int) (Node[S], error)
	OnEnd     func(state S) error
}

func (ArrayCallback[S]) isNode() {}

// ObjectCallback describes interest in a MAP. Fields maps a field name to
// the node that should receive its value; a key not present in Fields is
// skipped structurally. OnBegin/OnEnd, if set, are invoked before the
// first and after the last field respectively, regardless of how many
// fields matched.
type ObjectCallback[S any] struct {
	Fields  map[string]Node[S]
	OnBegin func(state S) error
	OnEnd   func(state S) error
}

func (ObjectCallback[S]) isNode() {}

// RecordCallback is the callback tree's root: an ObjectCallback plus
// OnNetwork, invoked once per lookup with the raw queried address and the
// matched prefix length, regardless of whether a data record was found.
type RecordCallback[S any] struct {
	ObjectCallback[S]
	OnNetwork func(state S, address []byte, prefixLength int) error
}
