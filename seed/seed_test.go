package seed_test

import (
	"math/rand"
	"testing"

	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/fuqinho/icfpc2023-sub000/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProblem(numMusicians, numAttendees int) problem.Problem {
	rng := rand.New(rand.NewSource(int64(numMusicians*31 + numAttendees)))

	musicians := make([]int, numMusicians)
	for i := range musicians {
		musicians[i] = i % 3
	}
	attendees := make([]problem.Attendee, numAttendees)
	for i := range attendees {
		tastes := make([]float64, 3)
		for k := range tastes {
			tastes[k] = rng.Float64()*4 - 2
		}
		attendees[i] = problem.Attendee{
			Position: geom.Vec2{X: rng.Float64() * 2000, Y: rng.Float64() * 2000},
			Tastes:   tastes,
		}
	}
	return problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 2000, Y: 2000}},
		Stage:     geom.Box2D{Min: geom.Vec2{X: 100, Y: 100}, Max: geom.Vec2{X: 900, Y: 900}},
		Musicians: musicians,
		Attendees: attendees,
	}
}

func TestSeedPerimeterThenGridPlacesEveryMusicianNormal(t *testing.T) {
	p := testProblem(20, 100)
	b := board.NewBoard(1, p, "test")

	require.NoError(t, seed.SeedPerimeterThenGrid(b, seed.Normal))

	for m := 0; m < len(p.Musicians); m++ {
		assert.True(t, b.IsPlaced(m), "musician %d was not placed", m)
	}
}

func TestSeedPerimeterThenGridPlacesEveryMusicianZigZag(t *testing.T) {
	p := testProblem(20, 100)
	b := board.NewBoard(1, p, "test")

	require.NoError(t, seed.SeedPerimeterThenGrid(b, seed.ZigZag))

	for m := 0; m < len(p.Musicians); m++ {
		assert.True(t, b.IsPlaced(m), "musician %d was not placed", m)
	}
}

func TestSeedRespectsSpacingInvariant(t *testing.T) {
	p := testProblem(30, 60)
	b := board.NewBoard(1, p, "test")
	require.NoError(t, seed.SeedPerimeterThenGrid(b, seed.Normal))

	for i := 0; i < len(p.Musicians); i++ {
		pi, _ := b.Position(i)
		for j := i + 1; j < len(p.Musicians); j++ {
			pj, _ := b.Position(j)
			assert.GreaterOrEqual(t, pi.Distance(pj), 10.0-1e-9)
		}
	}
}

func TestComputeOuterPerimeterStaysOnStage(t *testing.T) {
	stage := geom.Box2D{Min: geom.Vec2{X: 100, Y: 100}, Max: geom.Vec2{X: 400, Y: 400}}
	for _, algo := range []seed.Algorithm{seed.Normal, seed.ZigZag} {
		pts := seed.ComputeOuterPerimeter(stage, algo)
		require.NotEmpty(t, pts)
		const margin = 1e-6
		for _, p := range pts {
			assert.GreaterOrEqual(t, p.X, stage.Min.X-margin)
			assert.LessOrEqual(t, p.X, stage.Max.X+margin)
			assert.GreaterOrEqual(t, p.Y, stage.Min.Y-margin)
			assert.LessOrEqual(t, p.Y, stage.Max.Y+margin)
		}
	}
}
