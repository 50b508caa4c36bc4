package callback

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectBuilderCompilesFields(t *testing.T) {
	b := NewObjectBuilder[*int]()
	b.Text("name", func(_ *int, _ []byte) error { return nil })
	b.Int("age", func(_ *int, _ int64) error { return nil })
	obj := b.Build()

	require.Len(t, obj.Fields, 2)
	require.IsType(t, TextCallback[*int]{}, obj.Fields["name"])
	require.IsType(t, IntCallback[*int]{}, obj.Fields["age"])
}

func TestObjectBuilderDuplicateFieldPanics(t *testing.T) {
	b := NewObjectBuilder[*int]()
	b.Text("name", nil)
	require.Panics(t, func() {
		b.Int("name", nil)
	})
}

func TestObjectBuilderNestedObj(t *testing.T) {
	root := NewObjectBuilder[*int]()
	nested := root.Obj("address")
	nested.Text("city", nil)

	obj := root.Build()
	require.Contains(t, obj.Fields, "address")
	inner, ok := obj.Fields["address"].(ObjectCallback[*int])
	require.True(t, ok)
	require.Contains(t, inner.Fields, "city")
}

func TestObjectBuilderObjThenDuplicateSiblingPanics(t *testing.T) {
	root := NewObjectBuilder[*int]()
	root.Obj("address")
	require.Panics(t, func() {
		root.Text("address", nil)
	})
}

func TestOnBeginOnEndSetOnce(t *testing.T) {
	b := NewObjectBuilder[*int]()
	b.OnBegin(func(_ *int) error { return nil })
	require.Panics(t, func() {
		b.OnBegin(func(_ *int) error { return nil })
	})

	b.OnEnd(func(_ *int) error { return nil })
	require.Panics(t, func() {
		b.OnEnd(func(_ *int) error { return nil })
	})
}

func TestRecordBuilderOnNetworkSetOnce(t *testing.T) {
	b := NewRecordBuilder[*int]()
	b.OnNetwork(func(_ *int, _ []byte, _ int) error { return nil })
	require.Panics(t, func() {
		b.OnNetwork(func(_ *int, _ []byte, _ int) error { return nil })
	})

	record := b.Build()
	require.NotNil(t, record.OnNetwork)
}
