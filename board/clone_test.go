package board

import (
	"math/rand"
	"testing"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCloneIsIndependent mutates a clone and checks the original's score,
// placements, and volumes are untouched, then mutates the original and
// checks the clone in turn.
func TestCloneIsIndependent(t *testing.T) {
	p := randomishProblem(8, 40)
	b := NewBoard(1, p, "test")
	rng := rand.New(rand.NewSource(17))
	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}
	b.SetVolume(2, 4)

	c := b.Clone()
	require.Equal(t, b.Score(), c.Score())

	c.Unplace(0)
	c.SetVolume(1, 9)
	assert.True(t, b.IsPlaced(0))
	assert.Equal(t, 1.0, b.Volume(1))

	before := c.Score()
	b.Unplace(3)
	assert.Equal(t, before, c.Score())
	assert.True(t, c.IsPlaced(3))
}

// TestCloneCarriesDerivedState re-places a musician on the clone and checks
// the clone's score still matches a from-scratch board given the same
// placements, so the copied angular/blocker tables are genuinely usable.
func TestCloneCarriesDerivedState(t *testing.T) {
	p := randomishProblem(6, 30)
	b := NewBoard(1, p, "test")
	rng := rand.New(rand.NewSource(23))
	for m := 0; m < len(p.Musicians); m++ {
		placeRandomly(t, b, m, rng)
	}

	c := b.Clone()
	pos, ok := c.Position(4)
	require.True(t, ok)
	c.Unplace(4)
	require.NoError(t, c.TryPlace(4, pos))

	fresh := NewBoard(1, p, "test")
	for m := 0; m < len(p.Musicians); m++ {
		orig, _ := b.Position(m)
		require.NoError(t, fresh.TryPlace(m, orig))
	}
	assert.InDelta(t, fresh.Score(), c.Score(), 1e-9)
}

// TestCloneSharedProblemData checks the clone shares the (read-only)
// attendee slice rather than copying it.
func TestCloneSharedProblemData(t *testing.T) {
	p := randomishProblem(4, 10)
	b := NewBoard(1, p, "test")
	c := b.Clone()
	assert.Same(t, &b.Prob.Attendees[0], &c.Prob.Attendees[0])
}

func TestCloneUnderVisibilityBlending(t *testing.T) {
	p := threeMusicianOneAttendee()
	b := NewBoard(1, p, "test", WithVisibilityBlending())
	require.NoError(t, b.TryPlace(0, geom.Vec2{X: 20, Y: 10}))
	require.NoError(t, b.TryPlace(1, geom.Vec2{X: 20, Y: 20}))

	c := b.Clone()
	assert.InDelta(t, b.Score(), c.Score(), 1e-9)

	c.Unplace(1)
	assert.True(t, b.IsPlaced(1))
}
