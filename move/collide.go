package move

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// collideEpsilon bounds the binary search used to find the farthest feasible
// point along a ray before the musician would collide with the stage edge or
// another musician.
const collideEpsilon = 0.001

// Collide slides musician M along the ray at Angle (radians) as far as
// MaxDist allows without violating the min-spacing or on-stage invariants,
// binary-searching for the farthest feasible point. Always succeeds: in the
// worst case the musician lands back where it started.
type Collide struct {
	M       int
	Angle   float64
	MaxDist float64

	prevPos geom.Vec2
}

func (c *Collide) Apply(b *board.Board) bool {
	prev, ok := b.Position(c.M)
	if !ok {
		return false
	}
	c.prevPos = prev
	dir := geom.Vec2{X: math.Cos(c.Angle), Y: math.Sin(c.Angle)}

	b.Unplace(c.M)
	lo, hi := 0.0, c.MaxDist
	for hi-lo > collideEpsilon {
		mid := (lo + hi) / 2
		candidate := prev.Add(dir.Scale(mid))
		if b.CanPlace(c.M, candidate) {
			lo = mid
		} else {
			hi = mid
		}
	}
	finalPos := prev.Add(dir.Scale(lo))
	_ = b.TryPlace(c.M, finalPos)
	return lo > 0
}

func (c *Collide) Unapply(b *board.Board) {
	b.Unplace(c.M)
	_ = b.TryPlace(c.M, c.prevPos)
}

func (c *Collide) Invert() Move {
	return &ChangePos{M: c.M, NewPos: c.prevPos}
}
