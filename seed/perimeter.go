// Package seed builds an initial feasible placement for every musician,
// used to seed simulated annealing (the anneal package) or as a standalone
// cheap solver. It places musicians along the stage perimeter first, where
// sight lines to the audience are least likely to be blocked by other
// musicians, then falls back to an interior grid walk for any musicians
// that do not fit on the perimeter.
package seed

import (
	"math"
	"sort"

	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// Algorithm selects how ComputeOuterPerimeter samples perimeter points.
type Algorithm int

const (
	// Normal samples points every D units along each edge of the stage.
	Normal Algorithm = iota
	// ZigZag flood-fills a diagonal lattice of spacing D/sqrt(2) along the
	// perimeter ring, yielding roughly twice the point density of Normal.
	ZigZag
)

// D is the perimeter sampling step, matching the minimum musician spacing.
const D = 10

// ComputeOuterPerimeter returns candidate points along the inside of the
// stage boundary, the seeding algorithm's first-choice placements.
func ComputeOuterPerimeter(stage geom.Box2D, algo Algorithm) []geom.Vec2 {
	switch algo {
	case ZigZag:
		return computeOuterZigZag(stage)
	default:
		return computeOuterNormal(stage)
	}
}

func computeOuterNormal(bb geom.Box2D) []geom.Vec2 {
	var outer []geom.Vec2

	xMin, xMax := int(math.Ceil(bb.Min.X)), int(math.Floor(bb.Max.X))
	for x := xMin; x < xMax; x += D {
		if bb.Min.Y > D {
			outer = append(outer, geom.Vec2{X: float64(x), Y: bb.Min.Y})
		}
		outer = append(outer, geom.Vec2{X: float64(x), Y: bb.Max.Y})
	}

	yMin, yMax := int(math.Ceil(bb.Min.Y))+D, int(math.Floor(bb.Max.Y))-D
	for y := yMin; y < yMax; y += D {
		if bb.Min.X > D {
			outer = append(outer, geom.Vec2{X: bb.Min.X, Y: float64(y)})
		}
		outer = append(outer, geom.Vec2{X: bb.Max.X, Y: float64(y)})
	}

	return outer
}

// scaledPoint is a lattice point scaled by mul so that the diagonal step
// sqrt2_5 (sqrt(2)/2 step scaled by mul) is exactly representable as an
// integer, making the visited-set lookup exact instead of float-fuzzy.
type scaledPoint struct{ x, y int64 }

func computeOuterZigZag(bb geom.Box2D) []geom.Vec2 {
	const mul int64 = 1_000_000
	const sqrt2_5 int64 = 7_071_068 // round(D/sqrt(2) * mul), i.e. (D/2)*sqrt(2) scaled.
	const eps = 1e-9

	bbOuter := geom.Box2D{Min: bb.Min, Max: geom.Vec2{X: bb.Max.X + eps, Y: bb.Max.Y + eps}}
	inset := float64(sqrt2_5) / float64(mul)
	bbInner := geom.Box2D{
		Min: geom.Vec2{X: bb.Min.X + inset + eps, Y: bb.Min.Y + inset + eps},
		Max: geom.Vec2{X: bb.Max.X - 2*inset - eps, Y: bb.Max.Y - 2*inset - eps},
	}

	init := scaledPoint{
		x: int64(math.Ceil(bb.Min.X)) * mul,
		y: int64(math.Ceil(bb.Min.Y)) * mul,
	}
	visited := map[scaledPoint]bool{init: true}
	stack := []scaledPoint{init}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dx := range [2]int64{-1, 1} {
			for _, dy := range [2]int64{-1, 1} {
				np := scaledPoint{x: p.x + dx*sqrt2_5, y: p.y + dy*sqrt2_5}
				if visited[np] {
					continue
				}
				real := geom.Vec2{X: float64(np.x) / float64(mul), Y: float64(np.y) / float64(mul)}
				if bbOuter.Contains(real) && !bbInner.Contains(real) {
					visited[np] = true
					stack = append(stack, np)
				}
			}
		}
	}

	outer := make([]geom.Vec2, 0, len(visited))
	for p := range visited {
		outer = append(outer, geom.Vec2{X: float64(p.x) / float64(mul), Y: float64(p.y) / float64(mul)})
	}
	sort.Slice(outer, func(i, j int) bool {
		if outer[i].X != outer[j].X {
			return outer[i].X < outer[j].X
		}
		return outer[i].Y < outer[j].Y
	})
	return outer
}
