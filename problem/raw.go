package problem

import (
	"encoding/json"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/pkg/errors"
)

// RawProblem is the on-disk JSON schema for a problem instance, as published
// by the contest. Field names and shapes are fixed by that schema and are not
// idiomatic Go naming by choice.
type RawProblem struct {
	RoomWidth        float64       `json:"room_width"`
	RoomHeight       float64       `json:"room_height"`
	StageWidth       float64       `json:"stage_width"`
	StageHeight      float64       `json:"stage_height"`
	StageBottomLeft  [2]float64    `json:"stage_bottom_left"`
	Musicians        []int         `json:"musicians"`
	Attendees        []RawAttendee `json:"attendees"`
	Pillars          []RawPillar   `json:"pillars"`
}

// RawAttendee is the wire shape of one Attendee.
type RawAttendee struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Tastes []float64 `json:"tastes"`
}

// RawPillar is the wire shape of one Pillar.
type RawPillar struct {
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// RawSolution is the on-disk JSON schema for a solution. Volumes is a
// pointer-like nilable slice so that a solver that never touched volumes can
// round-trip to the wire convention `"volumes": null`.
type RawSolution struct {
	ProblemID  uint32          `json:"problem_id"`
	Solver     string          `json:"solver"`
	Placements []RawPlacement  `json:"placements"`
	Volumes    []float64       `json:"volumes"`
}

// RawPlacement is the wire shape of one Placement.
type RawPlacement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParseProblem decodes raw JSON bytes into a Problem, wrapping any decode
// error in ErrMalformed.
func ParseProblem(data []byte) (Problem, error) {
	var raw RawProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return Problem{}, errors.Wrap(wrapMalformed(err), "problem: decode RawProblem")
	}
	return FromRawProblem(raw), nil
}

// ParseSolution decodes raw JSON bytes into a Solution, wrapping any decode
// error in ErrMalformed.
func ParseSolution(data []byte) (Solution, error) {
	var raw RawSolution
	if err := json.Unmarshal(data, &raw); err != nil {
		return Solution{}, errors.Wrap(wrapMalformed(err), "problem: decode RawSolution")
	}
	return FromRawSolution(raw), nil
}

func wrapMalformed(cause error) error {
	return &malformedError{cause: cause}
}

type malformedError struct{ cause error }

func (e *malformedError) Error() string { return ErrMalformed.Error() + ": " + e.cause.Error() }
func (e *malformedError) Unwrap() error { return ErrMalformed }
func (e *malformedError) Cause() error  { return e.cause }

// FromRawProblem converts the wire representation into the domain type.
func FromRawProblem(raw RawProblem) Problem {
	attendees := make([]Attendee, len(raw.Attendees))
	for i, a := range raw.Attendees {
		attendees[i] = Attendee{
			Position: geom.Vec2{X: a.X, Y: a.Y},
			Tastes:   a.Tastes,
		}
	}
	pillars := make([]Pillar, len(raw.Pillars))
	for i, p := range raw.Pillars {
		pillars[i] = Pillar{
			Center: geom.Vec2{X: p.Center[0], Y: p.Center[1]},
			Radius: p.Radius,
		}
	}
	return Problem{
		Room: geom.Box2D{Min: geom.Vec2{X: 0, Y: 0}, Max: geom.Vec2{X: raw.RoomWidth, Y: raw.RoomHeight}},
		Stage: geom.Box2D{
			Min: geom.Vec2{X: raw.StageBottomLeft[0], Y: raw.StageBottomLeft[1]},
			Max: geom.Vec2{
				X: raw.StageBottomLeft[0] + raw.StageWidth,
				Y: raw.StageBottomLeft[1] + raw.StageHeight,
			},
		},
		Musicians: raw.Musicians,
		Attendees: attendees,
		Pillars:   pillars,
	}
}

// ToRawProblem converts the domain type back into its wire representation.
func ToRawProblem(p Problem) RawProblem {
	attendees := make([]RawAttendee, len(p.Attendees))
	for i, a := range p.Attendees {
		attendees[i] = RawAttendee{X: a.Position.X, Y: a.Position.Y, Tastes: a.Tastes}
	}
	pillars := make([]RawPillar, len(p.Pillars))
	for i, pl := range p.Pillars {
		pillars[i] = RawPillar{Center: [2]float64{pl.Center.X, pl.Center.Y}, Radius: pl.Radius}
	}
	return RawProblem{
		RoomWidth:       p.Room.Width(),
		RoomHeight:      p.Room.Height(),
		StageWidth:      p.Stage.Width(),
		StageHeight:     p.Stage.Height(),
		StageBottomLeft: [2]float64{p.Stage.Min.X, p.Stage.Min.Y},
		Musicians:       p.Musicians,
		Attendees:       attendees,
		Pillars:         pillars,
	}
}

// FromRawSolution converts the wire representation into the domain type. A
// nil Volumes slice on the wire decodes to all-1.0 volumes, one per placement.
func FromRawSolution(raw RawSolution) Solution {
	placements := make([]Placement, len(raw.Placements))
	for i, pl := range raw.Placements {
		placements[i] = Placement{Position: geom.Vec2{X: pl.X, Y: pl.Y}}
	}
	volumes := raw.Volumes
	if volumes == nil {
		volumes = make([]float64, len(placements))
		for i := range volumes {
			volumes[i] = 1.0
		}
	}
	return Solution{
		ProblemID:  raw.ProblemID,
		Solver:     raw.Solver,
		Placements: placements,
		Volumes:    volumes,
	}
}

// ToRawSolution converts the domain type back into its wire representation,
// always emitting the concrete Volumes slice (never null). Use
// MarshalDefaultVolumes to restore the null convention when every volume is
// the default 1.0.
func ToRawSolution(s Solution) RawSolution {
	placements := make([]RawPlacement, len(s.Placements))
	for i, pl := range s.Placements {
		placements[i] = RawPlacement{X: pl.Position.X, Y: pl.Position.Y}
	}
	return RawSolution{
		ProblemID:  s.ProblemID,
		Solver:     s.Solver,
		Placements: placements,
		Volumes:    s.Volumes,
	}
}

// MarshalDefaultVolumes encodes s to JSON, omitting Volumes (emitting the
// wire convention "volumes": null) when every volume equals the default 1.0.
// This mirrors a solver that never touched volumes and should not claim to
// have an opinion about them.
func MarshalDefaultVolumes(s Solution) ([]byte, error) {
	raw := ToRawSolution(s)
	allDefault := true
	for _, v := range s.Volumes {
		if v != 1.0 {
			allDefault = false
			break
		}
	}
	if allDefault {
		raw.Volumes = nil
	}
	return json.Marshal(raw)
}
