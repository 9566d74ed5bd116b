package seed

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/hungarian"
)

// SeedPerimeterThenGrid places every musician on b: first by matching
// perimeter candidate points to musicians via a maximum-weight assignment
// (scored by what each instrument would contribute from that point while
// the other perimeter points are occupied, see outerMusicianWeights), then
// by walking an interior grid for any musician the perimeter could not fit.
//
// b must have every musician currently unplaced.
func SeedPerimeterThenGrid(b *board.Board, algo Algorithm) error {
	stage := b.Prob.Stage
	outer := ComputeOuterPerimeter(stage, algo)
	alignToStageCorner(outer, stage)

	placed := make([]bool, b.NumMusicians())
	if len(outer) > 0 {
		weights := outerMusicianWeights(b, outer)
		assignment, _ := hungarian.Solve(weights)
		for i, m := range assignment {
			if m < 0 {
				continue
			}
			if err := b.TryPlace(m, outer[i]); err == nil {
				placed[m] = true
			}
		}
	}

	return seedInteriorGrid(b, placed)
}

// alignToStageCorner shifts every outer point so the perimeter's bounding
// box is flush against the stage's top-right corner, then clamps back onto
// the stage. This keeps the perimeter candidates hugging the actual stage
// boundary regardless of how ComputeOuterPerimeter rounded its step grid.
func alignToStageCorner(outer []geom.Vec2, stage geom.Box2D) {
	var maxX, maxY float64
	for _, p := range outer {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	shiftX := stage.Max.X - maxX
	shiftY := stage.Max.Y - maxY
	for i := range outer {
		outer[i].X += shiftX
		outer[i].Y += shiftY
		if outer[i].X > stage.Max.X {
			outer[i].X = stage.Max.X
		}
		if outer[i].Y > stage.Max.Y {
			outer[i].Y = stage.Max.Y
		}
	}
}

// outerMusicianWeights scores, for each outer point and each instrument, the
// contribution a musician of that instrument would make there while a
// virtual musician stands on every other outer point it could be placed on
// (so their blocking counts), using a disposable probe board so the real
// board b is left untouched. It returns
// an (outer points) x (musicians) matrix ready for hungarian.Solve.
func outerMusicianWeights(b *board.Board, outer []geom.Vec2) [][]float64 {
	numInstruments := b.Prob.NumInstruments()

	probeProb := b.Prob
	probeProb.Musicians = make([]int, numInstruments+len(outer))
	for k := 0; k < numInstruments; k++ {
		probeProb.Musicians[k] = k
	}
	probe := board.NewBoard(0, probeProb, "seed-probe")

	virtualPlaced := make([]bool, len(outer))
	for i, o := range outer {
		virtualPlaced[i] = probe.TryPlace(numInstruments+i, o) == nil
	}

	scores := make([][]float64, len(outer))
	for i, o := range outer {
		if virtualPlaced[i] {
			probe.Unplace(numInstruments + i)
		}

		row := make([]float64, numInstruments)
		for k := 0; k < numInstruments; k++ {
			if err := probe.TryPlace(k, o); err == nil {
				row[k] = probe.Contribution(k)
				probe.Unplace(k)
			}
		}
		scores[i] = row

		if virtualPlaced[i] {
			virtualPlaced[i] = probe.TryPlace(numInstruments+i, o) == nil
		}
	}

	weights := make([][]float64, len(outer))
	for i := range outer {
		weights[i] = make([]float64, len(b.Prob.Musicians))
		for m, ins := range b.Prob.Musicians {
			weights[i][m] = scores[i][ins]
		}
	}
	return weights
}

// seedInteriorGrid places every musician not already marked placed onto the
// first feasible point of a D-spaced interior grid, skipping the grid's own
// boundary row/column (those positions are the perimeter candidates' job).
func seedInteriorGrid(b *board.Board, placed []bool) error {
	var remaining []int
	for m, ok := range placed {
		if !ok {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		return nil
	}

	stage := b.Prob.Stage
	xStart := int(math.Ceil(stage.Min.X))
	xEnd := int(math.Floor(stage.Max.X)) - D
	yStart := int(math.Ceil(stage.Min.Y))
	yEnd := int(math.Floor(stage.Max.Y)) - D

	for x := xStart; x < xEnd && len(remaining) > 0; x += D {
		for y := yStart; y < yEnd && len(remaining) > 0; y += D {
			if x == xStart || y == yStart {
				continue
			}
			pos := geom.Vec2{X: float64(x), Y: float64(y)}
			m := remaining[0]
			if b.CanPlace(m, pos) {
				_ = b.TryPlace(m, pos)
				remaining = remaining[1:]
			}
		}
	}

	if len(remaining) > 0 {
		return ErrCouldNotSeedAll
	}
	return nil
}
