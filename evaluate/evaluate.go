// Package evaluate provides the ground-truth, non-incremental scorer used by
// the tests to validate the Board's incremental score. The stageboard CLI
// does not call it.
package evaluate

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
)

const blockerRadius = 5.0

// Evaluate computes the total score of solution against problem by direct
// O(M*A*(M+P)) enumeration, with no precomputed indices. It is intentionally
// simple: its only job is to be an independently-trustworthy oracle.
func Evaluate(p problem.Problem, s problem.Solution) float64 {
	total := 0.0
	for m := range p.Musicians {
		contribution := 0.0
		for a := range p.Attendees {
			if isBlocked(p, s, a, m) {
				continue
			}
			contribution += evaluateAttendeeMusician(p, s, a, m)
		}
		total += math.Ceil(s.Volumes[m] * closeness(p, s, m) * contribution)
	}
	return total
}

// closeness returns q_m: 1 in v1 problems, else one plus the sum of inverse
// distances to every other musician playing the same instrument.
func closeness(p problem.Problem, s problem.Solution, m int) float64 {
	if !p.IsV2() {
		return 1
	}
	q := 1.0
	for m2 := range p.Musicians {
		if m2 == m || p.Musicians[m2] != p.Musicians[m] {
			continue
		}
		q += 1 / s.Placements[m].Position.Distance(s.Placements[m2].Position)
	}
	return q
}

func evaluateAttendeeMusician(p problem.Problem, s problem.Solution, a, m int) float64 {
	attendee := p.Attendees[a]
	mpos := s.Placements[m].Position
	d2 := attendee.Position.SquareDistance(mpos)
	instrument := p.Musicians[m]
	impact := 1_000_000.0 * attendee.Tastes[instrument] / d2
	return math.Ceil(impact)
}

// isBlocked reports whether any other musician or pillar lies on the segment
// between attendee a and musician m.
func isBlocked(p problem.Problem, s problem.Solution, a, m int) bool {
	attendeePos := p.Attendees[a].Position
	mpos := s.Placements[m].Position
	seg := geom.Segment{A: attendeePos, B: mpos}

	for m2 := range p.Musicians {
		if m2 == m {
			continue
		}
		if isBlockedBy(seg, s.Placements[m2].Position) {
			return true
		}
	}
	for _, pillar := range p.Pillars {
		if isBlockedByCircle(seg, pillar.Center, pillar.Radius) {
			return true
		}
	}
	return false
}

func isBlockedBy(seg geom.Segment, blocker geom.Vec2) bool {
	return isBlockedByCircle(seg, blocker, blockerRadius)
}

// A segment exactly tangent to the disk does not block; inequalities are
// strict throughout so boundary cases favor visibility.
func isBlockedByCircle(seg geom.Segment, center geom.Vec2, radius float64) bool {
	return seg.SquareDistanceToPoint(center) < radius*radius
}
