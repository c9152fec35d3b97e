// Package sfcerr defines the error taxonomy shared by the dimension,
// hilbert, binned, and tiered packages. Errors fall into two policies:
// local recovery with a logged warning for conditions arising from
// real-world data irregularities, and hard failure for self-inconsistent
// persisted state.
package sfcerr

import "errors"

var (
	// ErrEmptyInput marks indexing or querying against empty data. Callers
	// should treat it as "no results", not a failure.
	ErrEmptyInput = errors.New("sfc: empty input")

	// ErrCorruptFormat marks malformed serialized bytes: truncation,
	// unknown type tags, or inconsistent declared sizes. Always raised to
	// the caller; never recovered locally.
	ErrCorruptFormat = errors.New("sfc: corrupt format")

	// ErrUnknownTier marks a persisted key whose tier byte is not present
	// in the strategy that is decoding it.
	ErrUnknownTier = errors.New("sfc: unknown tier")

	// ErrPrecondition marks API misuse by a collaborator, such as a
	// subsampling-dimension count mismatch. Callers fall back to an
	// unfiltered result rather than failing.
	ErrPrecondition = errors.New("sfc: precondition violation")
)
