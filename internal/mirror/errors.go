package mirror

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMirrorSpec is returned when a mirror definition cannot be
	// turned into a mirror: bad grammar, unknown code, duplicate cell or a
	// cell outside the board.
	ErrMalformedMirrorSpec = errors.New("malformed mirror spec")

	// ErrInvalidEntryPosition is returned when the laser entry cell does not
	// lie on exactly one board edge.
	ErrInvalidEntryPosition = errors.New("invalid entry position")

	// ErrInvalidDimensions is returned for boards with a non-positive size.
	ErrInvalidDimensions = errors.New("invalid board dimensions")
)

// SpecError annotates a load-time failure with the offending input.
// It unwraps to one of the package sentinels.
type SpecError struct {
	Line  int    // 1-based source line, 0 when unknown
	Input string // the text that failed
	Err   error
}

func (e *SpecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Input, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Input, e.Err)
}

func (e *SpecError) Unwrap() error {
	return e.Err
}

// Code returns a short machine-readable code for a load error, suitable
// for API responses. Unknown errors map to "INTERNAL".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedMirrorSpec):
		return "MALFORMED_MIRROR_SPEC"
	case errors.Is(err, ErrInvalidEntryPosition):
		return "INVALID_ENTRY_POSITION"
	case errors.Is(err, ErrInvalidDimensions):
		return "INVALID_DIMENSIONS"
	default:
		return "INTERNAL"
	}
}
