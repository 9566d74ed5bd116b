package move_test

import (
	"math/rand"
	"testing"

	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/move"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProblem(numMusicians, numAttendees int) problem.Problem {
	rng := rand.New(rand.NewSource(int64(numMusicians*1000 + numAttendees)))

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
			Position: geom.Vec2{X: rng.Float64() * 1500, Y: rng.Float64() * 1500},
			Tastes:   tastes,
		}
	}

	return problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1500, Y: 1500}},
		Stage:     geom.Box2D{Min: geom.Vec2{X: 100, Y: 100}, Max: geom.Vec2{X: 600, Y: 600}},
		Musicians: musicians,
		Attendees: attendees,
	}
}

func placeAll(t *testing.T, b *board.Board, p problem.Problem, rng *rand.Rand) {
	t.Helper()
	stage := b.Prob.Stage
	for m := 0; m < len(p.Musicians); m++ {
		for i := 0; i < 10000; i++ {
			pos := geom.Vec2{
				X: stage.Min.X + rng.Float64()*stage.Width(),
				Y: stage.Min.Y + rng.Float64()*stage.Height(),
			}
			if b.CanPlace(m, pos) {
				require.NoError(t, b.TryPlace(m, pos))
				break
			}
			if i == 9999 {
				t.Fatalf("could not place musician %d", m)
			}
		}
	}
}

// TestMoveInvertibility checks invariant 5: every successful Apply, followed
// by Unapply, restores the board's score (within 1e-6), across every basic
// move kind.
func TestMoveInvertibility(t *testing.T) {
	p := testProblem(10, 40)
	rng := rand.New(rand.NewSource(1))

	newBoard := func() *board.Board {
		b := board.NewBoard(1, p, "test")
		placeAll(t, b, p, rng)
		return b
	}

	cases := []struct {
		name string
		mk   func(b *board.Board) move.Move
	}{
		{"ChangePos", func(b *board.Board) move.Move {
			pos, _ := b.Position(3)
			return &move.ChangePos{M: 3, NewPos: geom.Vec2{X: pos.X + 20, Y: pos.Y}}
		}},
		{"Swap", func(b *board.Board) move.Move {
			return &move.Swap{M1: 2, M2: 5}
		}},
		{"ChangeVolume", func(b *board.Board) move.Move {
			return &move.ChangeVolume{M: 4, NewVol: 7.5}
		}},
		{"GradientStep", func(b *board.Board) move.Move {
			return &move.GradientStep{M: 1, Dist: 5}
		}},
		{"Collide", func(b *board.Board) move.Move {
			return &move.Collide{M: 6, Angle: 0.7, MaxDist: 50}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBoard()
			before := b.Score()

			m := tc.mk(b)
			if !m.Apply(b) {
				// A no-op apply must leave the board untouched.
				assert.Equal(t, before, b.Score())
				return
			}
			m.Unapply(b)
			assert.InDelta(t, before, b.Score(), 1e-6)
		})
	}
}

// TestCompositeSequencesAndReverses checks that applying a Composite of a
// Swap and a ChangeVolume and then unapplying it restores the score.
func TestCompositeSequencesAndReverses(t *testing.T) {
	p := testProblem(8, 20)
	rng := rand.New(rand.NewSource(2))
	b := board.NewBoard(1, p, "test")
	placeAll(t, b, p, rng)

	before := b.Score()
	c := &move.Composite{
		Moves: []move.Move{
			&move.Swap{M1: 0, M2: 1},
			&move.ChangeVolume{M: 2, NewVol: 3},
		},
	}
	require.True(t, c.Apply(b))
	c.Unapply(b)
	assert.InDelta(t, before, b.Score(), 1e-6)
}

// TestChangePosRejectsInfeasibleTarget checks that an infeasible ChangePos
// reports no effect and leaves the musician where it was.
func TestChangePosRejectsInfeasibleTarget(t *testing.T) {
	p := testProblem(6, 10)
	rng := rand.New(rand.NewSource(3))
	b := board.NewBoard(1, p, "test")
	placeAll(t, b, p, rng)

	other, _ := b.Position(1)
	mv := &move.ChangePos{M: 0, NewPos: other}
	before, _ := b.Position(0)

	applied := mv.Apply(b)
	assert.False(t, applied)
	after, _ := b.Position(0)
	assert.Equal(t, before, after)
}

// TestSwapIsSelfInverse checks that Swap.Invert returns an equivalent Swap.
func TestSwapIsSelfInverse(t *testing.T) {
	s := &move.Swap{M1: 3, M2: 9}
	inv := s.Invert().(*move.Swap)
	assert.Equal(t, s.M1, inv.M1)
	assert.Equal(t, s.M2, inv.M2)
}
