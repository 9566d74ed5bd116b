package board

import "math"

// BoardOptions tunes the derived-index bookkeeping a Board maintains. The
// defaults reproduce the full, exact scoring function; the non-default
// settings trade exactness for speed on large problems.
type BoardOptions struct {
	// ImportantAttendeesRatio is the fraction of attendees (nearest-first,
	// by distance from a musician's placement) for which the Board tracks
	// angular ordering and blocker counts. 1.0 tracks every attendee and
	// reproduces the exact score; a smaller ratio ignores distant attendees
	// entirely, trading exactness for speed on problems with large A.
	ImportantAttendeesRatio float64

	// ImportantMusicianRangeSquared bounds how far another musician can be
	// from the musician being placed before the two stop being considered
	// as blockers of each other. Pillars are always considered. Defaults to
	// +Inf (every other placed musician is a candidate blocker), matching
	// the exact scoring function.
	ImportantMusicianRangeSquared float64

	// UseVisibility switches the Board from an all-or-nothing blocker gate
	// to a continuous visibility multiplier in (0, 1], smoothing the score
	// landscape for local search at the cost of a small, documented drift
	// on repeated place/unplace cycles. Swap panics when this is enabled.
	UseVisibility bool
}

// DefaultBoardOptions returns the exact-scoring configuration: every
// attendee tracked, no musician-range cutoff, no visibility blending.
func DefaultBoardOptions() BoardOptions {
	return BoardOptions{
		ImportantAttendeesRatio:       1.0,
		ImportantMusicianRangeSquared: math.Inf(1),
		UseVisibility:                 false,
	}
}

// BoardOption configures a BoardOptions value via the functional-options
// pattern.
type BoardOption func(*BoardOptions)

// WithImportantAttendeesRatio restricts the Board to the nearest
// ceil(A*ratio) attendees per musician.
func WithImportantAttendeesRatio(ratio float64) BoardOption {
	return func(o *BoardOptions) { o.ImportantAttendeesRatio = ratio }
}

// WithImportantMusicianRange restricts blocker consideration to musicians
// within the given distance (not squared) of the musician being placed;
// pillars are not affected.
func WithImportantMusicianRange(r float64) BoardOption {
	return func(o *BoardOptions) { o.ImportantMusicianRangeSquared = r * r }
}

// WithVisibilityBlending enables the continuous visibility multiplier and
// forbids Swap.
func WithVisibilityBlending() BoardOption {
	return func(o *BoardOptions) { o.UseVisibility = true }
}
