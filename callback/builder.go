package callback

import "github.com/go-mmdb/mmdbquery/internal/mmdberrors"

// ObjectBuilder incrementally constructs an ObjectCallback. Each Text,
// Int, Float, Bytes, Bool, BigInt, Array, and Obj call registers at most
// one sink per field name; a second call for the same name, or a call
// that conflicts with an already-registered Obj, panics with a
// [mmdberrors.CallerContractError] — this is a programmer error, and the
// spec calls for it to be surfaced eagerly rather than deferred to decode
// time.
type ObjectBuilder[S any] struct {
	fields  map[string]Node[S]
	onBegin func(S) error
	onEnd   func(S) error
}

// NewObjectBuilder creates an empty ObjectBuilder.
func NewObjectBuilder[S any]() *ObjectBuilder[S] {
	return &ObjectBuilder[S]{fields: make(map[string]Node[S])}
}

func (b *ObjectBuilder[S]) register(key string, node Node[S]) {
	if _, exists := b.fields[key]; exists {
		panic(mmdberrors.NewCallerContractError(
			"a callback is already registered for field %q", key,
		))
	}
	b.fields[key] = node
}

// Text registers a text sink for key.
func (b *ObjectBuilder[S]) Text(key string, onValue func(S, []byte) error) *ObjectBuilder[S] {
	b.register(key, TextCallback[S]{OnValue: onValue})
	return b
}

// Int registers an integer sink for key.
func (b *ObjectBuilder[S]) Int(key string, onValue func(S, int64) error) *ObjectBuilder[S] {
	b.register(key, IntCallback[S]{OnValue: onValue})
	return b
}

// Float registers a float sink for key.
func (b *ObjectBuilder[S]) Float(key string, onValue func(S, float64) error) *ObjectBuilder[S] {
	b.register(key, FloatCallback[S]{OnValue: onValue})
	return b
}

// Bytes registers a bytes sink for key.
func (b *ObjectBuilder[S]) Bytes(key string, onValue func(S, []byte) error) *ObjectBuilder[S] {
	b.register(key, BytesCallback[S]{OnValue: onValue})
	return b
}

// Bool registers a boolean sink for key.
func (b *ObjectBuilder[S]) Bool(key string, onValue func(S, bool) error) *ObjectBuilder[S] {
	b.register(key, BoolCallback[S]{OnValue: onValue})
	return b
}

// BigInt registers a UINT64/UINT128 sink for key, delivered as big-endian
// bytes.
func (b *ObjectBuilder[S]) BigInt(key string, onValue func(S, []byte) error) *ObjectBuilder[S] {
	b.register(key, BigIntCallback[S]{OnValue: onValue})
	return b
}

// Array registers an array sink for key.
func (b *ObjectBuilder[S]) Array(
	key string,
	onBegin func(S, int) error,
	onElement func(S, int, int) (Node[S], error),
	onEnd func(S) error,
) *ObjectBuilder[S] {
	b.register(key, ArrayCallback[S]{OnBegin: onBegin, OnElement: onElement, OnEnd: onEnd})
	return b
}

// Obj starts a nested object builder for key and returns it so the caller
// can continue registering fields on the nested object. The parent's Build
// compiles the nested builder along with it, so the nested builder needs
// no Build call of its own.
func (b *ObjectBuilder[S]) Obj(key string) *ObjectBuilder[S] {
	nested := NewObjectBuilder[S]()
	b.register(key, nested.asPendingNode())
	return nested
}

// pendingNode lets Obj register a placeholder that Build later replaces
// with the nested builder's compiled tree, so sibling calls after Obj see
// the duplicate-registration check even before the nested builder is
// finished.
type pendingNode[S any] struct {
	builder *ObjectBuilder[S]
}

func (pendingNode[S]) isNode() {}

func (b *ObjectBuilder[S]) asPendingNode() Node[S] {
	return pendingNode[S]{builder: b}
}

// OnBegin registers the callback invoked before the first field of the
// object is visited.
func (b *ObjectBuilder[S]) OnBegin(fn func(S) error) *ObjectBuilder[S] {
	if b.onBegin != nil {
		panic(mmdberrors.NewCallerContractError(
			"an OnBegin callback is already registered on this object",
		))
	}
	b.onBegin = fn
	return b
}

// OnEnd registers the callback invoked after the last field of the object
// is visited.
func (b *ObjectBuilder[S]) OnEnd(fn func(S) error) *ObjectBuilder[S] {
	if b.onEnd != nil {
		panic(mmdberrors.NewCallerContractError(
			"an OnEnd callback is already registered on this object",
		))
	}
	b.onEnd = fn
	return b
}

// Build compiles the builder into an immutable ObjectCallback, resolving
// any nested Obj builders recursively.
func (b *ObjectBuilder[S]) Build() ObjectCallback[S] {
	resolved := make(map[string]Node[S], len(b.fields))
	for key, node := range b.fields {
		if pending, ok := node.(pendingNode[S]); ok {
			nested := pending.builder.Build()
			resolved[key] = nested
			continue
		}
		resolved[key] = node
	}
	return ObjectCallback[S]{Fields: resolved, OnBegin: b.onBegin, OnEnd: b.onEnd}
}

// RecordBuilder builds the root callback tree for a lookup: an
// ObjectBuilder plus OnNetwork.
type RecordBuilder[S any] struct {
	*ObjectBuilder[S]
	onNetwork func(S, []byte, int) error
}

// NewRecordBuilder creates an empty RecordBuilder.
func NewRecordBuilder[S any]() *RecordBuilder[S] {
	return &RecordBuilder[S]{ObjectBuilder: NewObjectBuilder[S]()}
}

// OnNetwork registers the callback invoked once per lookup with the raw
// queried address and the matched prefix length.
func (b *RecordBuilder[S]) OnNetwork(fn func(S, []byte, int) error) *RecordBuilder[S] {
	if b.onNetwork != nil {
		panic(mmdberrors.NewCallerContractError(
			"an OnNetwork callback is already registered on this record",
		))
	}
	b.onNetwork = fn
	return b
}

// Build compiles the builder into an immutable RecordCallback.
func (b *RecordBuilder[S]) Build() RecordCallback[S] {
	return RecordCallback[S]{
		ObjectCallback: b.ObjectBuilder.Build(),
		OnNetwork:      b.onNetwork,
	}
}
