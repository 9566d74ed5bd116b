package evaluate

import (
	"testing"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateSimpleUnblocked(t *testing.T) {
	p := problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
		Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
		Musicians: []int{0},
		Attendees: []problem.Attendee{
			{Position: geom.Vec2{X: 110, Y: 15}, Tastes: []float64{1.0}},
		},
	}
	s := problem.Solution{
		Placements: []problem.Placement{{Position: geom.Vec2{X: 10, Y: 15}}},
		Volumes:    []float64{1.0},
	}

	score := Evaluate(p, s)
	assert.Greater(t, score, 0.0)
}

// TestEvaluateTangentMusiciansDoNotBlock checks that two musicians whose
// disks are exactly tangent to the sight line do not block it.
func TestEvaluateTangentMusiciansDoNotBlock(t *testing.T) {
	p := problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
		Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
		Musicians: []int{0, 0, 1},
		Attendees: []problem.Attendee{
			{Position: geom.Vec2{X: 110, Y: 15}, Tastes: []float64{0.0, 1.0}},
		},
	}
	s := problem.Solution{
		Placements: []problem.Placement{
			{Position: geom.Vec2{X: 20, Y: 10}},
			{Position: geom.Vec2{X: 20, Y: 20}},
			{Position: geom.Vec2{X: 10, Y: 15}},
		},
		Volumes: []float64{1.0, 1.0, 1.0},
	}

	score := Evaluate(p, s)
	assert.Equal(t, 1e6/100.0/100.0, score)
}

// TestEvaluateClosenessFactor checks the v2 closeness boost: two musicians
// of the same instrument 60 apart each get q = 1 + 1/60, so a per-pair
// impact of 92 becomes ceil(92 * 61/60) = 94 per musician.
func TestEvaluateClosenessFactor(t *testing.T) {
	p := problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
		Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
		Musicians: []int{0, 0},
		Attendees: []problem.Attendee{
			{Position: geom.Vec2{X: 110, Y: 50}, Tastes: []float64{1.0}},
		},
		Pillars: []problem.Pillar{
			{Center: geom.Vec2{X: 900, Y: 900}, Radius: 1},
		},
	}
	s := problem.Solution{
		Placements: []problem.Placement{
			{Position: geom.Vec2{X: 10, Y: 20}},
			{Position: geom.Vec2{X: 10, Y: 80}},
		},
		Volumes: []float64{1.0, 1.0},
	}

	assert.Equal(t, 188.0, Evaluate(p, s))
}

func TestEvaluateBlockedByPillar(t *testing.T) {
	p := problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
		Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
		Musicians: []int{0},
		Attendees: []problem.Attendee{
			{Position: geom.Vec2{X: 110, Y: 15}, Tastes: []float64{1.0}},
		},
		Pillars: []problem.Pillar{
			{Center: geom.Vec2{X: 60, Y: 15}, Radius: 5},
		},
	}
	s := problem.Solution{
		Placements: []problem.Placement{{Position: geom.Vec2{X: 10, Y: 15}}},
		Volumes:    []float64{1.0},
	}

	assert.Equal(t, 0.0, Evaluate(p, s))
}
