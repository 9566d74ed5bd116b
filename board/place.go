package board

import (
	"math"
	"sort"

	"github.com/fuqinho/icfpc2023-sub000/geom"
)

// onStageEpsilon widens the stage's upper bound so a position exactly on the
// max edge (a common result of grid-snapped seeding) is accepted.
const onStageEpsilon = 1e-9

// CanPlace is a pure predicate matching TryPlace's acceptance rule for
// musician i at p: on the inset stage, and at least 10 units from every
// other currently placed musician (i is itself ignored, so CanPlace also
// answers "could i stay here" for an already-placed i).
func (b *Board) CanPlace(i int, p geom.Vec2) bool {
	stage := b.Prob.Stage
	if p.X < stage.Min.X || p.Y < stage.Min.Y ||
		p.X > stage.Max.X+onStageEpsilon || p.Y > stage.Max.Y+onStageEpsilon {
		return false
	}
	for m := 0; m < b.numMusicians; m++ {
		if m == i || !b.placed[m] {
			continue
		}
		if p.SquareDistance(b.pos[m]) < 100 {
			return false
		}
	}
	return true
}

// TryPlace places musician i at p if feasible, updating every derived index.
// It fails with ErrOffStage, ErrTooClose, or ErrAlreadyPlaced without
// mutating the Board.
func (b *Board) TryPlace(i int, p geom.Vec2) error {
	stage := b.Prob.Stage
	if p.X < stage.Min.X || p.Y < stage.Min.Y ||
		p.X > stage.Max.X+onStageEpsilon || p.Y > stage.Max.Y+onStageEpsilon {
		return ErrOffStage
	}
	for m := 0; m < b.numMusicians; m++ {
		if !b.placed[m] {
			continue
		}
		if p.SquareDistance(b.pos[m]) < 100 {
			return ErrTooClose
		}
	}
	if b.placed[i] {
		return ErrAlreadyPlaced
	}
	b.place(i, p)
	return nil
}

// Unplace removes musician m's placement, reversing every derived index
// update made by the corresponding place. Panics with InvariantViolation if
// m is not currently placed.
func (b *Board) Unplace(m int) {
	if !b.placed[m] {
		panic(InvariantViolation{Msg: "unplace of a musician that is not placed"})
	}
	p := b.pos[m]

	b.updateBlocks(m, p, false)
	b.updateQs(m, false)

	b.placed[m] = false
	b.pos[m] = geom.Vec2{}
	b.impacts[m] = 0

	b.updateAvailableMusician(m)
}

func (b *Board) place(m int, p geom.Vec2) {
	b.pos[m] = p
	b.radius[m] = MusicianRadius
	b.placed[m] = true

	b.updateQs(m, true)

	a := len(b.Prob.Attendees)
	important := len(b.aids[m])

	var maxDist2 float64
	haveMaxDist2 := false
	if b.opts.ImportantAttendeesRatio < 1.0 && important < a {
		dists := make([]float64, a)
		for i, at := range b.Prob.Attendees {
			dists[i] = at.Position.SquareDistance(p)
		}
		sort.Float64s(dists)
		maxDist2 = dists[important-1]
		haveMaxDist2 = true
	}

	cnt := 0
	for i := 0; i < a && cnt < important; i++ {
		at := b.Prob.Attendees[i]
		isImportant := true
		if haveMaxDist2 {
			isImportant = at.Position.SquareDistance(p) <= maxDist2
		}
		if !isImportant {
			continue
		}
		b.aids[m][cnt] = aidEntry{Angle: at.Position.AngleFrom(p), AttendeeID: i}
		cnt++
	}

	sort.Slice(b.aids[m], func(x, y int) bool {
		ex, ey := b.aids[m][x], b.aids[m][y]
		if ex.Angle != ey.Angle {
			return ex.Angle < ey.Angle
		}
		return ex.AttendeeID < ey.AttendeeID
	})

	for i := range b.aidsRev[m] {
		b.aidsRev[m][i] = -1
	}
	for j, e := range b.aids[m] {
		b.aidsRev[m][e.AttendeeID] = j
	}

	instrument := b.Prob.Musicians[m]
	b.impacts[m] = 0
	for j := range b.aids[m] {
		impact := int64(b.impactIfInstrument(m, j, instrument))
		b.individualImpacts[m][j] = impact
		b.impacts[m] += float64(impact)
	}

	b.updateBlocks(m, p, true)
	b.updateAvailableMusician(m)
}

// impactIfInstrument returns the per-pair impact ceil(1e6*taste/d²) of the
// attendee at aids[m][j] against an entity at m's position carrying
// instrument k.
func (b *Board) impactIfInstrument(m, j, k int) float64 {
	e := b.aids[m][j]
	attendee := b.Prob.Attendees[e.AttendeeID]
	d2 := attendee.Position.SquareDistance(b.pos[m])
	return math.Ceil(1_000_000.0 * attendee.Tastes[k] / d2)
}

func (b *Board) updateQs(m int, inc bool) {
	if !b.Prob.IsV2() {
		return
	}
	sig := 1.0
	if !inc {
		sig = -1.0
	}
	p := b.pos[m]
	ins := b.Prob.Musicians[m]
	for i := 0; i < b.numMusicians; i++ {
		if i == m || b.Prob.Musicians[i] != ins || !b.placed[i] {
			continue
		}
		d := sig / p.Distance(b.pos[i])
		b.qs[m] += d
		b.qs[i] += d
	}
}

func (b *Board) updateAvailableMusician(m int) {
	ins := b.Prob.Musicians[m]
	if !b.placed[m] {
		b.availableMusician[ins] = m
		return
	}
	if cur := b.availableMusician[ins]; cur != m {
		return
	}
	b.availableMusician[ins] = -1
	for m2 := 0; m2 < b.numMusicians; m2++ {
		if b.placed[m2] {
			continue
		}
		if b.Prob.Musicians[m2] == ins {
			b.availableMusician[ins] = m2
			return
		}
	}
}
