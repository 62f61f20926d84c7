// ABOUTME: Error taxonomy for the rejection core
// ABOUTME: Sentinel errors wrapped with context at the failure site

package rejection

import "errors"

// All failures surfaced by the rejection core wrap one of these
// sentinels, so callers can branch with errors.Is without parsing
// messages. Every failure is recoverable at the boundary: the document
// and history are never left partially mutated.
var (
	// ErrInvalidArgument marks a bad threshold method, mark flag, or
	// threshold value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownFormat marks a rejection file the codec cannot
	// interpret: an unrecognized extension, or a tabular header missing
	// a required column.
	ErrUnknownFormat = errors.New("unknown rejection file format")

	// ErrSizeMismatch marks a rejection file whose row count differs
	// from the live trial count.
	ErrSizeMismatch = errors.New("rejection file row count mismatch")

	// ErrTriggerMismatch marks a rejection file whose trigger column
	// does not match the live trial set element for element.
	ErrTriggerMismatch = errors.New("rejection file trigger mismatch")

	// ErrEmptySelection marks a grand-average request with zero
	// accepted trials.
	ErrEmptySelection = errors.New("no accepted epochs")
)
