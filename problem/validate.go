package problem

import "fmt"

// Validate checks the structural invariants a Problem must satisfy before
// any solver touches it: a non-degenerate stage strictly inside the room,
// every musician instrument index in [0, K) where K is the number of
// distinct instruments, every attendee taste vector of length K, and every
// pillar with a positive radius. A failure wraps both ErrMalformed and the
// specific sentinel.
func Validate(p Problem) error {
	if p.Stage.Min.X < p.Room.Min.X || p.Stage.Min.Y < p.Room.Min.Y ||
		p.Stage.Max.X > p.Room.Max.X || p.Stage.Max.Y > p.Room.Max.Y ||
		p.Stage.Width() <= 0 || p.Stage.Height() <= 0 {
		return fmt.Errorf("%w: %w", ErrMalformed, ErrStageOutsideRoom)
	}

	distinct := make(map[int]bool, len(p.Musicians))
	for _, m := range p.Musicians {
		distinct[m] = true
	}
	k := len(distinct)
	for _, m := range p.Musicians {
		if m < 0 || m >= k {
			return fmt.Errorf("%w: %w", ErrMalformed, ErrInstrumentOutOfRange)
		}
	}
	for _, a := range p.Attendees {
		if len(a.Tastes) != k {
			return fmt.Errorf("%w: %w", ErrMalformed, ErrTasteLengthMismatch)
		}
	}
	for _, pl := range p.Pillars {
		if pl.Radius <= 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, ErrBadPillarRadius)
		}
	}
	return nil
}

// ValidateSolution checks that s assigns exactly one Placement and Volume
// per musician in p. A failure wraps both ErrMalformed and
// ErrPlacementCountMismatch.
func ValidateSolution(p Problem, s Solution) error {
	if len(s.Placements) != len(p.Musicians) || len(s.Volumes) != len(p.Musicians) {
		return fmt.Errorf("%w: %w", ErrMalformed, ErrPlacementCountMismatch)
	}
	return nil
}
