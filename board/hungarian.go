package board

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/hungarian"
)

// Hungarian reassigns musician identities across the currently occupied
// positions to maximize total contribution. The set of occupied positions
// is unchanged, but every musician takes part in the assignment, so on a
// partially placed board a previously unplaced musician can receive a
// position and a previously placed one can be left unplaced. It builds an M x M weight matrix where weights[m][m2] is what
// position m2 would contribute if it held musician m's instrument, then
// hands it to the generic hungarian.Solve assignment solver.
func (b *Board) Hungarian() {
	n := b.numMusicians
	weights := make([][]float64, n)
	for m := 0; m < n; m++ {
		weights[m] = make([]float64, n)
		ins := b.Prob.Musicians[m]
		for m2 := 0; m2 < n; m2++ {
			if !b.placed[m2] {
				continue
			}
			weights[m][m2] = math.Max(0, b.ContributionIfInstrument(m2, ins))
		}
	}

	assignment, _ := hungarian.Solve(weights)

	priorPos := make([]geom.Vec2, n)
	wasPlaced := make([]bool, n)
	for m := 0; m < n; m++ {
		if b.placed[m] {
			priorPos[m] = b.pos[m]
			wasPlaced[m] = true
			b.Unplace(m)
		}
	}

	for m := 0; m < n; m++ {
		m2 := assignment[m]
		if m2 < 0 || !wasPlaced[m2] {
			continue
		}
		if err := b.TryPlace(m, priorPos[m2]); err != nil {
			panic(InvariantViolation{Msg: "hungarian: reassigned position rejected: " + err.Error()})
		}
	}
}
