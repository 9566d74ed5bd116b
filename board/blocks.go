package board

import (
	"math"
	"sort"

	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// updateBlocks is the heart of the incremental update: entity m has just
// been placed at (inc=true) or removed from (inc=false) position p. For
// every other currently placed entity i (musician or pillar), it finds the
// angular window of attendees whose sight line to m is newly blocked by i,
// and the angular window of attendees whose sight line to i is newly
// blocked by m, and adjusts blocks/individualImpacts/impacts accordingly.
func (b *Board) updateBlocks(m int, p geom.Vec2, inc bool) {
	total := b.numMusicians + b.numPillars

	for i := 0; i < total; i++ {
		if i == m || !b.placed[i] {
			continue
		}

		q, r := b.pos[i], b.radius[i]

		if !math.IsInf(b.opts.ImportantMusicianRangeSquared, 1) && i < b.numMusicians {
			if p.SquareDistance(q) > b.opts.ImportantMusicianRangeSquared {
				continue
			}
		}

		t1, t2 := geom.TangentToCircle(p, q, r)
		baseR1 := math.Atan2(t1.Y-p.Y, t1.X-p.X)
		baseR2 := math.Atan2(t2.Y-p.Y, t2.X-p.X)

		// Pass 1: i blocks m's view of the attendees m tracks.
		b.applyBlockingWindow(m, baseR1+eps, baseR2-eps, p, q, inc, i >= b.numMusicians)

		// Pass 2: m blocks i's view of the attendees i tracks. A pillar has
		// no attendee list of its own to adjust, so this pass only runs when
		// i is a musician.
		if i < b.numMusicians {
			r1 := opposite(baseR1) + eps
			r2 := opposite(baseR2) - eps
			b.applyBlockingWindow(i, r1, r2, q, p, inc, false)
		}
	}
}

// applyBlockingWindow adjusts blocks/impacts for blockedM's tracked
// attendees whose angle (as seen from blockedM, at blockedPos) falls in the
// shadow (r1, r2) cast by the disk at blockingPos. blockingIsPillar
// restricts the shadow to attendees strictly beyond the pillar; a musician
// blocker shadows only attendees whose sight line passes strictly within
// MusicianRadius of it, the same test the evaluator applies.
func (b *Board) applyBlockingWindow(blockedM int, r1, r2 float64, blockedPos, blockingPos geom.Vec2, inc, blockingIsPillar bool) {
	aids := b.aids[blockedM]
	if len(aids) == 0 {
		return
	}

	j1 := sort.Search(len(aids), func(j int) bool { return aids[j].Angle >= r1 })

	type window struct {
		start  int
		r1, r2 float64
	}
	var windows []window
	if r1 < r2 {
		windows = []window{{j1, r1, r2}}
	} else {
		windows = []window{
			{j1, r1, math.Pi + eps},
			{0, -math.Pi - eps, r2},
		}
	}

	distBlockerSq := blockedPos.SquareDistance(blockingPos)

	for _, w := range windows {
		for j := w.start; j < len(aids); j++ {
			if aids[j].Angle > w.r2 {
				break
			}

			attendee := b.Prob.Attendees[aids[j].AttendeeID]
			if blockingIsPillar {
				distAttendeeSq := attendee.Position.SquareDistance(blockedPos)
				if distAttendeeSq <= distBlockerSq {
					continue
				}
			} else {
				seg := geom.Segment{A: attendee.Position, B: blockedPos}
				if seg.SquareDistanceToPoint(blockingPos) >= MusicianRadius*MusicianRadius {
					continue
				}
			}

			vis := 0.0
			if b.opts.UseVisibility {
				vis = visibility(aids[j].Angle, w.r1, w.r2)
			}
			b.adjustBlock(blockedM, j, inc, vis)
		}
	}
}

// visibility returns the fractional visibility multiplier for an attendee at
// angle r inside the blocking window (r1, r2): closest to 0 at the center of
// the window, closest to 1 near its edges.
func visibility(r, r1, r2 float64) float64 {
	half := (r2 - r1) / 2
	centrality := math.Min(r2-r, r-r1)
	ratio := 1 - centrality/half + 1e-6
	const threshold = 0.0
	if ratio < threshold {
		return 1e-6
	}
	return (ratio - threshold) / (1 - threshold)
}

func (b *Board) adjustBlock(m, j int, inc bool, vis float64) {
	impact := float64(b.individualImpacts[m][j])

	if b.opts.UseVisibility {
		a := b.aids[m][j].AttendeeID
		prevVis := b.visibility[m][a]
		if inc {
			b.visibility[m][a] *= vis
			b.blocks[m][j]++
		} else {
			b.visibility[m][a] /= vis
			b.blocks[m][j]--
		}
		b.impacts[m] += (b.visibility[m][a] - prevVis) * impact
		return
	}

	if inc {
		b.blocks[m][j]++
		if b.blocks[m][j] == 1 {
			b.impacts[m] -= impact
		}
	} else {
		b.blocks[m][j]--
		if b.blocks[m][j] == 0 {
			b.impacts[m] += impact
		}
	}
}
