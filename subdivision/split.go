// Package subdivision solves large problems by partitioning the stage into a
// grid of cells, running an independent annealing loop per cell in parallel,
// and merging the cell placements into one global board between rounds.
//
// Cell boundaries that touch other cells are modeled as walls: each wall
// seeds two virtual radius-5 pillars at its inner endpoints, so a cell's
// board treats the boundary as a blocker during local search. Locally
// optimal placements therefore remain locally optimal after reassembly:
// no new sight line can open up when the wall disappears; some may close,
// and the global Hungarian pass repairs the assignment.
package subdivision

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
)

const (
	// TargetSide is the preferred cell side length when splitting the stage.
	TargetSide = 120.0
	// MinSide is the smallest cell side the cut generator will accept.
	MinSide = 80.0

	// cellMargin is the half-spacing each cell keeps around its interior so
	// that musicians in adjacent cells can never violate the 10-unit
	// exclusion across a shared border.
	cellMargin = 5.0

	wallPillarRadius = 5.0

	// mergeSlack shrinks each cell stage a hair below the exact half-spacing
	// so that two musicians on opposite sides of a cut, each allowed onto
	// its own boundary within the board's on-stage epsilon, still end up
	// strictly 10 apart when merged into the global board.
	mergeSlack = 1e-6
)

// Wall is one shared border segment between a cell and its neighbors.
type Wall struct {
	From, To geom.Vec2
}

// Cell is one sub-problem of a split stage: its own stage rectangle, the
// walls it shares with other cells, and the virtual pillars seeded at the
// wall endpoints. IsTop/IsRight identify the cell's row/column position so
// the cut generator can recover the grid shape from a flat cell list.
type Cell struct {
	Problem      problem.Problem
	Walls        []Wall
	ExtraPillars []problem.Pillar

	IsTop, IsRight bool
}

// Contains reports whether p lies inside the cell's usable interior: the
// cell stage inset by the board's own 10-unit margin, widened by 1e-12 on
// the max edge so a musician sitting exactly on the inset boundary of the
// top/right cell still counts as inside.
func (c Cell) Contains(p geom.Vec2) bool {
	inner := c.Problem.Stage.Inset(10)
	return p.X >= inner.Min.X && p.Y >= inner.Min.Y &&
		p.X <= inner.Max.X+1e-12 && p.Y <= inner.Max.Y+1e-12
}

// SplitProblem partitions prob's stage into a grid of cells with side as the
// target side length, each at least MinSide wide and tall. The usable region
// is the stage inset by cellMargin; cut positions divide it evenly.
func SplitProblem(prob problem.Problem, side float64) []Cell {
	cutX, cutY := EvenCuts(prob.Stage, side)
	return SplitProblemFromCut(prob, cutX, cutY)
}

// EvenCuts returns the interior cut coordinates that divide the usable
// region (stage inset by cellMargin) into a grid of near-square cells with
// the given target side.
func EvenCuts(stage geom.Box2D, side float64) (cutX, cutY []float64) {
	inner := stage.Inset(cellMargin)

	nw := int(math.Ceil(inner.Width() / side))
	nh := int(math.Ceil(inner.Height() / side))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	// Never let rounding push a cell side under MinSide.
	for nw > 1 && inner.Width()/float64(nw) < MinSide {
		nw--
	}
	for nh > 1 && inner.Height()/float64(nh) < MinSide {
		nh--
	}

	// Shave a hair off each step so the last cut lands strictly inside the
	// usable region even after float accumulation.
	w := inner.Width()/float64(nw) - 1e-9
	h := inner.Height()/float64(nh) - 1e-9

	for i := 1; i < nw; i++ {
		cutX = append(cutX, inner.Min.X+w*float64(i))
	}
	for j := 1; j < nh; j++ {
		cutY = append(cutY, inner.Min.Y+h*float64(j))
	}
	return cutX, cutY
}

// SplitProblemFromCut partitions prob's stage at the given interior cut
// coordinates. Each resulting cell's stage is its grid rectangle expanded
// back out by cellMargin; each border shared with another cell becomes a
// Wall with two virtual pillars at its inner endpoints.
func SplitProblemFromCut(prob problem.Problem, cutX, cutY []float64) []Cell {
	inner := prob.Stage.Inset(cellMargin)

	xs := append(append([]float64{inner.Min.X}, cutX...), inner.Max.X)
	ys := append(append([]float64{inner.Min.Y}, cutY...), inner.Max.Y)
	sortFloats(xs)
	sortFloats(ys)

	isRight := func(i int) bool { return i+1 == len(xs) }
	isTop := func(j int) bool { return j+1 == len(ys) }

	var cells []Cell
	for i := 0; i+1 < len(xs); i++ {
		for j := 0; j+1 < len(ys); j++ {
			ll := geom.Vec2{X: xs[i], Y: ys[j]}
			ur := geom.Vec2{X: xs[i+1], Y: ys[j+1]}
			cellStage := geom.Box2D{
				Min: geom.Vec2{X: ll.X - cellMargin + mergeSlack, Y: ll.Y - cellMargin + mergeSlack},
				Max: geom.Vec2{X: ur.X + cellMargin - mergeSlack, Y: ur.Y + cellMargin - mergeSlack},
			}

			// Corner order: ll, lr, ur, ul; walk the four edges and keep
			// those that border another cell (not on the stage boundary).
			corners := [4]struct{ ci, cj int }{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}}

			var walls []Wall
			var pillars []problem.Pillar
			for k := 0; k < 4; k++ {
				c1 := corners[k]
				c2 := corners[(k+1)%4]

				if (isRight(c1.ci) && isRight(c2.ci)) || (isTop(c1.cj) && isTop(c2.cj)) {
					continue
				}
				if (c1.ci == 0 && c2.ci == 0) || (c1.cj == 0 && c2.cj == 0) {
					continue
				}

				p1 := geom.Vec2{X: xs[c1.ci], Y: ys[c1.cj]}
				p2 := geom.Vec2{X: xs[c2.ci], Y: ys[c2.cj]}

				// Pillar centers sit across the wall, just outside the cell,
				// pulled cellMargin inward along the wall from each endpoint.
				pillarDir := geom.Rotate90(p2.Sub(p1)).Normalize().Scale(-wallPillarRadius)

				p1 = p1.Add(p2.Sub(p1).Normalize().Scale(cellMargin))
				p2 = p2.Add(p1.Sub(p2).Normalize().Scale(cellMargin))
				pillars = append(pillars,
					problem.Pillar{Center: p1.Add(pillarDir), Radius: wallPillarRadius},
					problem.Pillar{Center: p2.Add(pillarDir), Radius: wallPillarRadius})

				walls = append(walls, Wall{From: p1, To: p2})
			}

			cellProb := prob
			cellProb.Stage = cellStage
			cellProb.Pillars = append(append([]problem.Pillar(nil), prob.Pillars...), pillars...)

			cells = append(cells, Cell{
				Problem:      cellProb,
				Walls:        walls,
				ExtraPillars: pillars,
				IsRight:      isRight(i + 1),
				IsTop:        isTop(j + 1),
			})
		}
	}
	return cells
}

func sortFloats(a []float64) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
