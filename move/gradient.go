package move

import (
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// GradientStep nudges musician M a distance of Dist along the analytic
// gradient of its own contribution with respect to position. It is a no-op
// (Apply returns false) when the gradient is effectively zero, e.g. a
// musician currently seeing no attendees.
type GradientStep struct {
	M    int
	Dist float64

	prevPos geom.Vec2
	applied bool
}

// gradient computes d(contribution(m))/d(position(m)), summing over every
// attendee musician m can currently see. Mirrors the fuqinho-solver SA
// gradient step: each term is the gradient of 1e6*taste/dist^2 with respect
// to the musician's own position, scaled by the musician's closeness factor.
func gradient(b *board.Board, m int) geom.Vec2 {
	mPos, _ := b.Position(m)
	ins := b.Prob.Musicians[m]
	var grad geom.Vec2
	for a, att := range b.Prob.Attendees {
		if !b.IsMusicianSeeing(m, a) {
			continue
		}
		d := att.Position.Sub(mPos)
		dist2 := d.SquareLength()
		if dist2 == 0 {
			continue
		}
		dq := d.Scale(2 / (dist2 * dist2))
		grad = grad.Add(dq.Scale(1_000_000.0 * att.Tastes[ins]))
	}
	return grad.Scale(b.Closeness(m))
}

func (g *GradientStep) Apply(b *board.Board) bool {
	prev, ok := b.Position(g.M)
	if !ok {
		return false
	}
	grad := gradient(b, g.M)
	if grad.SquareLength() < 1e-4 {
		return false
	}
	g.prevPos = prev
	newPos := prev.Add(grad.Normalize().Scale(g.Dist))
	b.Unplace(g.M)
	if b.CanPlace(g.M, newPos) {
		_ = b.TryPlace(g.M, newPos)
		g.applied = true
		return true
	}
	_ = b.TryPlace(g.M, g.prevPos)
	g.applied = false
	return false
}

func (g *GradientStep) Unapply(b *board.Board) {
	if !g.applied {
		return
	}
	b.Unplace(g.M)
	_ = b.TryPlace(g.M, g.prevPos)
}

func (g *GradientStep) Invert() Move {
	return &ChangePos{M: g.M, NewPos: g.prevPos}
}
