// Package problem defines the domain model for a musician-placement problem
// instance and its JSON wire format.
//
// Errors:
//
//	ErrMalformed - the JSON input does not decode into the wire schema, or
//	               decodes but fails structural validation.
package problem

import "github.com/fuqinho/icfpc2023-sub000/geom"

// Problem is an immutable problem instance: a room containing a stage, a
// multiset of musicians (each an instrument index), a list of attendees, and
// an optional set of pillars.
type Problem struct {
	Room       geom.Box2D
	Stage      geom.Box2D
	Musicians  []int
	Attendees  []Attendee
	Pillars    []Pillar
}

// Attendee is a member of the audience with a position and a vector of
// per-instrument taste weights, one entry per distinct instrument.
type Attendee struct {
	Position geom.Vec2
	Tastes   []float64
}

// Pillar is a fixed circular obstruction on the stage that blocks sound.
type Pillar struct {
	Center geom.Vec2
	Radius float64
}

// IsV2 reports whether this is a "v2" problem: closeness factors apply
// whenever any pillar is present.
func (p Problem) IsV2() bool { return len(p.Pillars) > 0 }

// NumInstruments returns one plus the largest instrument index used by any
// musician, i.e. the number of distinct instrument slots tastes vectors must
// provide. Returns 0 if there are no musicians.
func (p Problem) NumInstruments() int {
	max := -1
	for _, m := range p.Musicians {
		if m > max {
			max = m
		}
	}
	return max + 1
}

// Solution is a full placement: one Placement per musician in Problem.Musicians
// order, plus a matching volume.
type Solution struct {
	ProblemID  uint32
	Solver     string
	Placements []Placement
	Volumes    []float64
}

// Placement is the 2D position assigned to one musician.
type Placement struct {
	Position geom.Vec2
}
