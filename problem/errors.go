package problem

import "errors"

// Sentinel errors for problem construction and validation.
//
// Classification:
//   - ErrMalformed wraps both JSON decode failures and structural validation
//     failures; callers distinguish the two only by the wrapped cause, not by
//     sentinel identity, since both are equally "this input cannot be used".
//
// Usage:
//
//	if err != nil && errors.Is(err, problem.ErrMalformed) { ... }
var (
	// ErrMalformed indicates the input could not be decoded into a Problem
	// or Solution, or decoded but failed structural validation.
	ErrMalformed = errors.New("problem: malformed input")

	// ErrStageOutsideRoom indicates the stage box is not strictly contained
	// in the room box.
	ErrStageOutsideRoom = errors.New("problem: stage is not strictly inside room")

	// ErrInstrumentOutOfRange indicates a musician's instrument index lies
	// outside [0, K), K being the number of distinct musician instruments.
	ErrInstrumentOutOfRange = errors.New("problem: instrument index out of range")

	// ErrTasteLengthMismatch indicates an attendee's taste vector length does
	// not equal the problem's instrument count.
	ErrTasteLengthMismatch = errors.New("problem: taste vector length mismatch")

	// ErrBadPillarRadius indicates a pillar with non-positive radius.
	ErrBadPillarRadius = errors.New("problem: pillar radius must be positive")

	// ErrPlacementCountMismatch indicates a Solution does not have exactly
	// one Placement (and one Volume) per musician.
	ErrPlacementCountMismatch = errors.New("problem: placement count does not match musician count")
)
