package mmdbquery

import "github.com/go-mmdb/mmdbquery/internal/mmdberrors"

// These are aliases over internal/mmdberrors rather than distinct types so
// that errors.As against the exported name and against the internal
// package name succeed interchangeably, and so the internal package stays
// free to evolve its own helpers without a second copy of each type here.
type (
	// InvalidDatabaseError reports that the database's structure does not
	// match the MMDB format: a bad control byte, an out-of-range size, a
	// corrupt search tree, or a missing metadata marker.
	InvalidDatabaseError = mmdberrors.InvalidDatabaseError

	// ClosedDatabaseError reports a lookup attempted on a Reader after
	// Close.
	ClosedDatabaseError = mmdberrors.ClosedDatabaseError

	// IOError wraps an underlying I/O failure (opening or reading the
	// database file).
	IOError = mmdberrors.IOError

	// BadUTF8Error reports a UTF8_STRING value whose bytes are not valid
	// UTF-8.
	BadUTF8Error = mmdberrors.BadUTF8Error

	// CallerContractError reports a programmer error in how a callback
	// tree was built, such as registering two sinks for the same field.
	CallerContractError = mmdberrors.CallerContractError

	// UnmarshalTypeError reports a mismatch between a decoded value and
	// the Go type [Reader.Decode] was asked to assign it to.
	UnmarshalTypeError = mmdberrors.UnmarshalTypeError
)
