package board

import "github.com/fuqinho/icfpc2023-sub000/geom"

// Clone returns a deep copy of the Board, used by the subdivision solver (one
// Board per cell), speculative SA moves that need a fallback snapshot, and
// property tests. The underlying Problem is shared (its Attendees/Pillars
// are never mutated after NewBoard); only the mutable bookkeeping is
// deep-copied.
func (b *Board) Clone() *Board {
	c := &Board{
		ProblemID:         b.ProblemID,
		Solver:            b.Solver,
		Prob:              b.Prob,
		opts:              b.opts,
		numMusicians:      b.numMusicians,
		numPillars:        b.numPillars,
		pos:               append([]geom.Vec2(nil), b.pos...),
		radius:            append([]float64(nil), b.radius...),
		placed:            append([]bool(nil), b.placed...),
		qs:                append([]float64(nil), b.qs...),
		volumes:           append([]float64(nil), b.volumes...),
		impacts:           append([]float64(nil), b.impacts...),
		availableMusician: append([]int(nil), b.availableMusician...),
	}

	c.aids = make([][]aidEntry, b.numMusicians)
	c.aidsRev = make([][]int, b.numMusicians)
	c.blocks = make([][]uint8, b.numMusicians)
	c.individualImpacts = make([][]int64, b.numMusicians)
	for m := 0; m < b.numMusicians; m++ {
		c.aids[m] = append([]aidEntry(nil), b.aids[m]...)
		c.aidsRev[m] = append([]int(nil), b.aidsRev[m]...)
		c.blocks[m] = append([]uint8(nil), b.blocks[m]...)
		c.individualImpacts[m] = append([]int64(nil), b.individualImpacts[m]...)
	}

	if b.opts.UseVisibility {
		c.visibility = make([][]float64, b.numMusicians)
		for m := 0; m < b.numMusicians; m++ {
			c.visibility[m] = append([]float64(nil), b.visibility[m]...)
		}
	}

	return c
}
