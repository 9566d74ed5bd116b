package board

import (
	"math/rand"
	"testing"

	"github.com/fuqinho/icfpc2023-sub000/evaluate"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeMusicianOneAttendee() problem.Problem {
	return problem.Problem{
		Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
		Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
		Musicians: []int{0, 0, 1},
		Attendees: []problem.Attendee{
			{Position: geom.Vec2{X: 110, Y: 15}, Tastes: []float64{0.0, 1.0}},
		},
	}
}

// TestThreeMusicianScore checks the canonical three-musician case: three musicians around a
// single attendee, with the stage inset by 10 enclosing the placements.
func TestThreeMusicianScore(t *testing.T) {
	b := NewBoard(1, threeMusicianOneAttendee(), "test")

	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))
	require.NoError(t, b.TryPlace(2, geom.Vec2{X: 10, Y: 15}))

	assert.Equal(t, 100.0, b.Score())
}

// TestPerturbedBlockingFlipsOnEpsilon checks blocking under tiny perturbations: nudging musician 2
// by +-1e-9 off the exactly tangent line makes its sight line pass strictly
// within 5 of one of the two flanking musicians, so it is blocked; the
// 1e-12 eps that narrows the blocking windows is far smaller than the nudge.
func TestPerturbedBlockingFlipsOnEpsilon(t *testing.T) {
	for _, e := range []float64{1e-9, -1e-9} {
		b := NewBoard(1, threeMusicianOneAttendee(), "test")
		require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
		require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))
		require.NoError(t, b.TryPlace(2, geom.Vec2{X: 10, Y: 15 + e}))

		assert.Equal(t, 0.0, b.Score())
	}
}

// TestTangentSymmetry checks reflection symmetry: reflecting every coordinate
// across the line y=x must preserve the score.
func TestTangentSymmetry(t *testing.T) {
	for _, flip := range []bool{false, true} {
		pt := func(x, y float64) geom.Vec2 {
			if flip {
				return geom.Vec2{X: y, Y: x}
			}
			return geom.Vec2{X: x, Y: y}
		}

		p := problem.Problem{
			Room:      geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 1000, Y: 1000}},
			Stage:     geom.Box2D{Min: geom.Vec2{}, Max: geom.Vec2{X: 100, Y: 100}},
			Musicians: []int{0, 0, 1},
			Attendees: []problem.Attendee{
				{Position: pt(110, 15), Tastes: []float64{0.0, 1.0}},
			},
		}

		b := NewBoard(0, p, "test")
		require.NoError(t, b.TryPlace(0, pt(20, 10)))
		require.NoError(t, b.TryPlace(1, pt(20, 20)))
		require.NoError(t, b.TryPlace(2, pt(10, 15)))

		assert.Equal(t, 1e6/100.0/100.0, b.Score())
	}
}

// TestPlaceUnplaceSymmetry checks that place followed by unplace
// restores the Board's score and per-musician state exactly.
func TestPlaceUnplaceSymmetry(t *testing.T) {
	b := NewBoard(1, threeMusicianOneAttendee(), "test")
	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))

	before := b.Score()
	require.NoError(t, b.TryPlace(2, geom.Vec2{X: 10, Y: 15}))
	b.Unplace(2)

	assert.Equal(t, before, b.Score())
	assert.False(t, b.IsPlaced(2))
	assert.Equal(t, 0.0, b.Contribution(2))
}

// TestNoOverlapInvariant checks, over a randomized sequence of placements,
// that no two placed musicians ever end up within 10 units.
func TestNoOverlapInvariant(t *testing.T) {
	p := randomishProblem(20, 50)
	b := NewBoard(7, p, "test")
	rng := rand.New(rand.NewSource(7))

	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}

	for i := 0; i < len(p.Musicians); i++ {
		pi, ok := b.Position(i)
		require.True(t, ok)
		for j := i + 1; j < len(p.Musicians); j++ {
			pj, ok := b.Position(j)
			require.True(t, ok)
			assert.GreaterOrEqual(t, pi.Distance(pj), 10.0-1e-9)
		}
	}
}

// TestOnStageInvariant checks that every placed musician lies within
// the inset stage.
func TestOnStageInvariant(t *testing.T) {
	p := randomishProblem(15, 40)
	b := NewBoard(7, p, "test")
	rng := rand.New(rand.NewSource(11))

	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
		pos, _ := b.Position(m)
		assert.True(t, b.Prob.Stage.Contains(pos))
	}
}

// TestBlockerMonotonicity checks the unplace half of blocker monotonicity:
// placing one more musician and unplacing it returns the score to its
// pre-place value. The blocker counts themselves are not inspected.
func TestBlockerMonotonicity(t *testing.T) {
	p := randomishProblem(10, 60)
	b := NewBoard(3, p, "test")
	rng := rand.New(rand.NewSource(3))

	for m := 0; m < len(p.Musicians)-1; m++ {
		placeRandomly(t, b, m, rng)
	}

	before := b.Score()
	last := len(p.Musicians) - 1
	placeRandomly(t, b, last, rng)
	afterPlace := b.Score()
	b.Unplace(last)
	afterUnplace := b.Score()

	assert.Equal(t, before, afterUnplace)
	// Placing one more musician can only ever add non-negative blocker
	// counts to existing musicians' windows; it cannot unblock anything
	// that was previously visible, so no existing musician's contribution
	// can increase from this specific placement alone. The total score can
	// still rise if the new musician sees attendees none of it is blocking.
	_ = afterPlace
}

// TestScoreEquivalence checks that Board.Score matches the
// independent evaluator once a randomized placement sequence has placed
// every musician, when ImportantAttendeesRatio is 1.0 (every attendee
// tracked).
func TestScoreEquivalence(t *testing.T) {
	p := randomishProblem(12, 80)
	b := NewBoard(42, p, "test")
	rng := rand.New(rand.NewSource(42))

	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)

		sol, err := b.Solution()
		if err != nil {
			// Not every musician is placed yet, so there is no Solution to
			// hand to the evaluator; partial placements are not compared.
			continue
		}
		assert.InDelta(t, evaluate.Evaluate(p, sol), b.Score(), 1e-6)
	}
}

// TestScoreEquivalenceV2 repeats the equivalence check on a pillared
// problem, exercising the closeness-factor and pillar-blocking paths of
// both the Board and the evaluator.
func TestScoreEquivalenceV2(t *testing.T) {
	p := randomishProblem(10, 60)
	p.Pillars = []problem.Pillar{
		{Center: geom.Vec2{X: 700, Y: 350}, Radius: 20},
		{Center: geom.Vec2{X: 350, Y: 800}, Radius: 12},
	}
	b := NewBoard(43, p, "test")
	rng := rand.New(rand.NewSource(43))

	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}
	b.SetVolume(3, 7)
	b.SetVolume(5, 0)

	sol, err := b.Solution()
	require.NoError(t, err)
	assert.InDelta(t, evaluate.Evaluate(p, sol), b.Score(), 1e-6)
}

// TestFullUnplacementResetsScore places every musician with
// ImportantAttendeesRatio 0.99 (for 40 attendees ceil(39.6) = 40, so every
// attendee is still tracked), then unplaces everyone and expects the score
// to return to exactly zero, with no residue in the bookkeeping.
func TestFullUnplacementResetsScore(t *testing.T) {
	p := randomishProblem(8, 40)
	b := NewBoard(42, p, "test", WithImportantAttendeesRatio(0.99))
	rng := rand.New(rand.NewSource(42))

	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}
	assert.NotEqual(t, 0.0, b.Score())

	for m := 0; m < len(p.Musicians); m++ {
		b.Unplace(m)
	}
	assert.Equal(t, 0.0, b.Score())
}

// TestHungarianNeverDecreasesScore checks that running Hungarian
// reassignment on a fully placed board never decreases the score.
func TestHungarianNeverDecreasesScore(t *testing.T) {
	p := randomishProblem(12, 100)
	b := NewBoard(5, p, "test")
	rng := rand.New(rand.NewSource(5))
	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}

	before := b.Score()
	b.Hungarian()
	assert.GreaterOrEqual(t, b.Score(), before)
}

// TestSwapPanicsInV2 checks the documented "swap subtlety": Swap is an
// InvariantViolation in v2 (pillared) problems.
func TestSwapPanicsInV2(t *testing.T) {
	p := threeMusicianOneAttendee()
	p.Pillars = []problem.Pillar{{Center: geom.Vec2{X: 50, Y: 50}, Radius: 5}}
	b := NewBoard(1, p, "test")
	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))

	assert.Panics(t, func() { b.Swap(0, 1) })
}

// TestSwapPanicsUnderVisibilityBlending checks the other half of the swap
// subtlety: Swap also panics when visibility blending is enabled.
func TestSwapPanicsUnderVisibilityBlending(t *testing.T) {
	b := NewBoard(1, threeMusicianOneAttendee(), "test", WithVisibilityBlending())
	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))

	assert.Panics(t, func() { b.Swap(0, 1) })
}

// TestUnplaceUnplacedPanics checks that Unplace is a programmer-error panic,
// not a recoverable error, on a musician that was never placed.
func TestUnplaceUnplacedPanics(t *testing.T) {
	b := NewBoard(1, threeMusicianOneAttendee(), "test")
	assert.Panics(t, func() { b.Unplace(0) })
}

// TestTryPlaceRejectsOffStageAndTooClose checks the recoverable rejection
// paths returned by TryPlace.
func TestTryPlaceRejectsOffStageAndTooClose(t *testing.T) {
	b := NewBoard(1, threeMusicianOneAttendee(), "test")
	assert.ErrorIs(t, b.TryPlace(0, geom.Vec2{X: -5, Y: 10}), ErrOffStage)

	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	assert.ErrorIs(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 11}), ErrTooClose)
	assert.ErrorIs(t, b.TryPlace(0, geom.Vec2{X: 30, Y: 10}), ErrAlreadyPlaced)
}

// TestAvailableMusicianInvariant checks that availableMusician
// tracks some unplaced musician per instrument whenever one exists.
func TestAvailableMusicianInvariant(t *testing.T) {
	p := threeMusicianOneAttendee()
	b := NewBoard(1, p, "test")

	m0, ok := b.AvailableMusicianWithInstrument(0)
	require.True(t, ok)
	assert.Equal(t, p.Musicians[m0], 0)

	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	m0again, ok := b.AvailableMusicianWithInstrument(0)
	require.True(t, ok)
	assert.Equal(t, 1, m0again)

	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))
	_, ok = b.AvailableMusicianWithInstrument(0)
	assert.False(t, ok)
}

func placeRandomly(t *testing.T, b *Board, m int, rng *rand.Rand) {
	t.Helper()
	stage := b.Prob.Stage
	for i := 0; i < 10000; i++ {
		x := stage.Min.X + rng.Float64()*stage.Width()
		y := stage.Min.Y + rng.Float64()*stage.Height()
		p := geom.Vec2{X: x, Y: y}
		if b.CanPlace(m, p) {
			require.NoError(t, b.TryPlace(m, p))
			return
		}
	}
	t.Fatalf("could not place musician %d after many attempts", m)
}

// randomishProblem builds a deterministic but non-trivial problem with
// numMusicians musicians (instrument = index % 3) and numAttendees
// attendees scattered around a large room.
func randomishProblem(numMusicians, numAttendees int) problem.Problem {
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
