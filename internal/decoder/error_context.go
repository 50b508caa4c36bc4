package decoder

import "github.com/go-mmdb/mmdbquery/internal/mmdberrors"

// wrapError attaches offset (and, if tracker is non-nil, path) context to
// err, allocating only once an error has actually occurred. decodeAny's
// leaf failures wrap with a nil tracker, since the path back to the root
// is only known once the error starts unwinding; prependMapKey and
// prependSliceIndex fill it in as each enclosing frame returns.
func wrapError(err error, offset uint, tracker mmdberrors.ErrorContextTracker) error {
	return mmdberrors.WrapWithContext(err, offset, tracker)
}

// prependMapKey adds key to the front of a wrapped error's path as it
// unwinds back out through the map-decoding frame that read it, using
// PathBuilder's retroactive construction: by the time the error reaches
// DecodeAny's caller, the path reads outermost-key-first. Errors that
// were not wrapped by wrapError (e.g. a caller-supplied sink error) pass
// through unchanged.
func prependMapKey(err error, key string) error {
	ctx, ok := err.(mmdberrors.ContextualError)
	if !ok {
		return err
	}
	pb := mmdberrors.NewPathBuilder()
	pb.ParseAndExtend(ctx.Path)
	pb.PrependMap(key)
	ctx.Path = pb.Build()
	return ctx
}

// prependSliceIndex is prependMapKey's array-index counterpart.
func prependSliceIndex(err error, index int) error {
	ctx, ok := err.(mmdberrors.ContextualError)
	if !ok {
		return err
	}
	pb := mmdberrors.NewPathBuilder()
	pb.ParseAndExtend(ctx.Path)
	pb.PrependSlice(index)
	ctx.Path = pb.Build()
	return ctx
}
