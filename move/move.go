// Package move implements the SA driver's move set as a closed sum type: one
// concrete type per move kind, each satisfying the Move interface's
// Apply/Unapply/Invert contract, plus a Composite arm sequencing several
// sub-moves. This realizes "dynamic dispatch over move kinds" the Go way —
// an interface with closed concrete implementations — with no inheritance.
package move

import (
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// Move is one reversible perturbation of a Board. Apply reports whether the
// move actually changed the Board (a false result means the driver should
// discard the attempt without scoring it). Unapply restores the exact
// pre-Apply state; it is only ever called after a successful Apply. Invert
// returns a Move whose Apply would undo this move's effect, for callers that
// need to queue the reversal rather than perform it at once; Composite's
// own Unapply and the anneal driver revert through Unapply instead.
type Move interface {
	Apply(b *board.Board) bool
	Unapply(b *board.Board)
	Invert() Move
}

// ChangePos unplaces musician M and tries to place it at NewPos. If NewPos
// is infeasible, the musician is restored to its previous position and
// Apply returns false.
type ChangePos struct {
	M      int
	NewPos geom.Vec2

	prevPos geom.Vec2
	applied bool
}

func (c *ChangePos) Apply(b *board.Board) bool {
	prev, _ := b.Position(c.M)
	c.prevPos = prev
	b.Unplace(c.M)
	if b.CanPlace(c.M, c.NewPos) {
		_ = b.TryPlace(c.M, c.NewPos)
		c.applied = true
		return true
	}
	_ = b.TryPlace(c.M, c.prevPos)
	c.applied = false
	return false
}

func (c *ChangePos) Unapply(b *board.Board) {
	if !c.applied {
		return
	}
	b.Unplace(c.M)
	_ = b.TryPlace(c.M, c.prevPos)
}

func (c *ChangePos) Invert() Move {
	return &ChangePos{M: c.M, NewPos: c.prevPos}
}

// Swap exchanges the positions of musicians M1 and M2 via board.Board.Swap.
// It is its own inverse.
type Swap struct {
	M1, M2 int
}

func (s *Swap) Apply(b *board.Board) bool {
	b.Swap(s.M1, s.M2)
	return true
}

func (s *Swap) Unapply(b *board.Board) { b.Swap(s.M1, s.M2) }

func (s *Swap) Invert() Move { return &Swap{M1: s.M1, M2: s.M2} }

// ChangeVolume sets musician M's volume to NewVol, remembering the prior
// value for Unapply/Invert.
type ChangeVolume struct {
	M      int
	NewVol float64

	prevVol float64
}

func (c *ChangeVolume) Apply(b *board.Board) bool {
	c.prevVol = b.Volume(c.M)
	b.SetVolume(c.M, c.NewVol)
	return true
}

func (c *ChangeVolume) Unapply(b *board.Board) { b.SetVolume(c.M, c.prevVol) }

func (c *ChangeVolume) Invert() Move { return &ChangeVolume{M: c.M, NewVol: c.prevVol} }
