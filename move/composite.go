package move

import "github.com/fuqinho/icfpc2023-sub000/board"

// Composite sequences several sub-moves as a single atomic move: Apply runs
// each in order, Unapply reverses them in the opposite order. The anneal
// driver uses it to pair two basic perturbations (Collide, GradientStep,
// ChangeVolume or a ChangePos step), e.g. to chain an escape Collide after a
// ChangePos that left the musician pinned against the stage edge.
type Composite struct {
	Moves []Move

	numApplied int
}

func (c *Composite) Apply(b *board.Board) bool {
	any := false
	c.numApplied = 0
	for _, m := range c.Moves {
		if m.Apply(b) {
			any = true
		}
		c.numApplied++
	}
	return any
}

func (c *Composite) Unapply(b *board.Board) {
	for i := c.numApplied - 1; i >= 0; i-- {
		c.Moves[i].Unapply(b)
	}
}

func (c *Composite) Invert() Move {
	inverted := make([]Move, len(c.Moves))
	for i, m := range c.Moves {
		inverted[len(c.Moves)-1-i] = m.Invert()
	}
	return &Composite{Moves: inverted}
}
