// Package board implements the incremental scoring engine at the center of
// the solver suite: a Board maintains the current musician placement and
// reports the exact contest score in O(1) amortized per edit, by keeping a
// per-musician angular ordering of nearby attendees and a blocker-count
// table instead of re-scanning every (musician, attendee) pair on every move.
//
// Errors:
//
//	ErrOffStage      - TryPlace target lies outside the inset stage.
//	ErrTooClose      - TryPlace target is within the exclusion radius of
//	                    another placed musician.
//	ErrAlreadyPlaced - TryPlace on a musician that already has a position.
//	ErrNotAllPlaced  - Solution requested before every musician is placed.
//
// InvariantViolation is panicked (not returned) for precondition breaks that
// no correctly-written caller should ever trigger: Unplace on an unplaced
// musician, or Swap in v2 / visibility-blending mode.
package board

import (
	"math"

	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/problem"
)

// MusicianRadius is the exclusion/blocking radius of a placed musician.
const MusicianRadius = 5.0

// StageMargin is the distance the Board insets the problem's stage on every
// side, enforcing the musician-exclusion margin from the stage edges.
const StageMargin = 10.0

// eps widens the free angular interval computed for a blocker so that a ray
// exactly tangent to a disk is treated as visible, matching the "strict
// inequalities throughout" edge policy.
const eps = 1e-12

// aidEntry is one (angle, attendee) pair in a musician's angle-sorted
// important-attendee list.
type aidEntry struct {
	Angle      float64
	AttendeeID int
}

// Board is the mutable placement record for one Problem. Indices [0, M) name
// musicians; indices [M, M+P) name pillars, which are always "placed" and
// never move. Board is not safe for concurrent use; callers that need
// parallelism (the subdivision solver) clone a Board per goroutine.
type Board struct {
	ProblemID uint32
	Solver    string

	// Prob is a copy of the input Problem whose Stage has been inset by
	// StageMargin on every side. Attendees and Pillars are shared (read-only)
	// with the original.
	Prob problem.Problem

	opts BoardOptions

	numMusicians int
	numPillars   int

	pos     []geom.Vec2
	radius  []float64
	placed  []bool // len == numMusicians+numPillars; pillars are always true

	// aids[m] is musician m's important attendees sorted by angle from m.
	aids [][]aidEntry
	// aidsRev[m][a] is the index j into aids[m] such that aids[m][j].AttendeeID
	// == a, or -1 if attendee a is not tracked for musician m.
	aidsRev [][]int

	// blocks[m][j] counts placed entities currently occluding m's sight line
	// to aids[m][j]'s attendee.
	blocks [][]uint8
	// individualImpacts[m][j] is the per-pair impact of m on aids[m][j]'s
	// attendee, computed as if unblocked.
	individualImpacts [][]int64
	// impacts[m] is the sum of individualImpacts[m][j] over j with
	// blocks[m][j] == 0 (or, under visibility blending, the
	// visibility-weighted sum).
	impacts []float64

	// visibility[m][a] in (0,1] is used only when opts.UseVisibility.
	visibility [][]float64

	qs      []float64 // closeness factor, one per musician
	volumes []float64 // one per musician

	// availableMusician[k] is an unplaced musician with instrument k, or -1.
	availableMusician []int
}

// NewBoard constructs a Board for prob. The Board insets prob.Stage by
// StageMargin internally; every musician starts unplaced.
func NewBoard(problemID uint32, prob problem.Problem, solver string, opts ...BoardOption) *Board {
	o := DefaultBoardOptions()
	for _, apply := range opts {
		apply(&o)
	}

	n := len(prob.Musicians)
	p := len(prob.Pillars)
	a := len(prob.Attendees)
	k := prob.NumInstruments()

	important := int(math.Ceil(float64(a) * o.ImportantAttendeesRatio))
	if important > a {
		important = a
	}

	prob.Stage = prob.Stage.Inset(StageMargin)

	b := &Board{
		ProblemID:         problemID,
		Solver:            solver,
		Prob:              prob,
		opts:              o,
		numMusicians:      n,
		numPillars:        p,
		pos:               make([]geom.Vec2, n+p),
		radius:            make([]float64, n+p),
		placed:            make([]bool, n+p),
		aids:              make([][]aidEntry, n),
		aidsRev:           make([][]int, n),
		blocks:            make([][]uint8, n),
		individualImpacts: make([][]int64, n),
		impacts:           make([]float64, n),
		qs:                make([]float64, n),
		volumes:           make([]float64, n),
		availableMusician: make([]int, k),
	}
	if o.UseVisibility {
		b.visibility = make([][]float64, n)
	}

	for i := range b.qs {
		b.qs[i] = 1.0
		b.volumes[i] = 1.0
	}
	for i := range b.availableMusician {
		b.availableMusician[i] = -1
	}
	for m, ins := range prob.Musicians {
		if b.availableMusician[ins] == -1 {
			b.availableMusician[ins] = m
		}
	}
	for i, pl := range prob.Pillars {
		idx := n + i
		b.pos[idx] = pl.Center
		b.radius[idx] = pl.Radius
		b.placed[idx] = true
	}
	for m := 0; m < n; m++ {
		b.aids[m] = make([]aidEntry, important)
		b.aidsRev[m] = make([]int, a)
		for i := range b.aidsRev[m] {
			b.aidsRev[m][i] = -1
		}
		b.blocks[m] = make([]uint8, important)
		b.individualImpacts[m] = make([]int64, important)
		if o.UseVisibility {
			b.visibility[m] = make([]float64, a)
			for i := range b.visibility[m] {
				b.visibility[m][i] = 1.0
			}
		}
	}

	return b
}

// NumMusicians returns the number of musicians in the underlying problem.
func (b *Board) NumMusicians() int { return b.numMusicians }

// IsPlaced reports whether musician m currently has a position.
func (b *Board) IsPlaced(m int) bool { return b.placed[m] }

// Position returns musician m's current position. The second return value is
// false if m is unplaced.
func (b *Board) Position(m int) (geom.Vec2, bool) {
	if !b.placed[m] {
		return geom.Vec2{}, false
	}
	return b.pos[m], true
}

// Volume returns musician m's current volume.
func (b *Board) Volume(m int) float64 { return b.volumes[m] }

// Closeness returns musician m's current closeness factor q_m.
func (b *Board) Closeness(m int) float64 { return b.qs[m] }

// Score returns the current total score: sum over musicians of
// ceil(volume * closeness * impactSum).
func (b *Board) Score() float64 {
	total := 0.0
	for m := 0; m < b.numMusicians; m++ {
		total += math.Ceil(b.volumes[m] * b.qs[m] * b.impacts[m])
	}
	return total
}

// ScoreIgnoreNegative returns the total score with every musician's negative
// contribution clamped to zero before summing, matching the "never play a
// musician whose volume could only hurt the score" heuristic used by the SA
// driver's objective.
func (b *Board) ScoreIgnoreNegative() float64 {
	total := 0.0
	for m := 0; m < b.numMusicians; m++ {
		total += math.Ceil(math.Max(0, b.volumes[m]*b.qs[m]*b.impacts[m]))
	}
	return total
}

// Contribution returns m's current integer contribution to the score: the
// sum of unblocked per-pair impacts, ignoring volume and closeness. It is 0
// for an unplaced musician.
func (b *Board) Contribution(m int) float64 {
	if !b.placed[m] {
		return 0
	}
	var total int64
	for j, cnt := range b.blocks[m] {
		if cnt > 0 {
			continue
		}
		total += b.individualImpacts[m][j]
	}
	return float64(total)
}

// ContributionIgnoreNegative2 returns ceil(closeness[m] * impactSum[m]),
// without volume: used by the subdivision solver's zero-score rescue pass to
// judge a musician's placement independent of its current volume setting.
func (b *Board) ContributionIgnoreNegative2(m int) float64 {
	return math.Ceil(b.qs[m] * b.impacts[m])
}

// ContributionIfInstrument returns what m's contribution would be if its
// instrument were k instead of its actual instrument, using its existing
// angle-sorted attendee list (which depends only on position).
func (b *Board) ContributionIfInstrument(m, k int) float64 {
	total := 0.0
	for j, cnt := range b.blocks[m] {
		if cnt > 0 {
			continue
		}
		total += b.impactIfInstrument(m, j, k)
	}
	return total
}

// ContributionFor returns m's contribution from attendee a alone, or 0 if a
// is not tracked for m or is currently blocked.
func (b *Board) ContributionFor(m, a int) float64 {
	j := b.aidsRev[m][a]
	if j < 0 || b.blocks[m][j] > 0 {
		return 0
	}
	return float64(b.individualImpacts[m][j])
}

// IsMusicianSeeing reports whether attendee a currently has an unblocked
// line of sight to musician m.
func (b *Board) IsMusicianSeeing(m, a int) bool {
	j := b.aidsRev[m][a]
	if j < 0 {
		return false
	}
	return b.blocks[m][j] == 0
}

// AvailableMusicianWithInstrument returns an unplaced musician with
// instrument k, if any.
func (b *Board) AvailableMusicianWithInstrument(k int) (int, bool) {
	m := b.availableMusician[k]
	return m, m != -1
}

// SetVolume sets musician m's volume, clamped to [0, 10] by the caller's
// contract (the Board does not itself clamp; it trusts move.ChangeVolume and
// other callers to respect the range).
func (b *Board) SetVolume(m int, v float64) { b.volumes[m] = v }

// ScoreIncreaseIfPutMusicianOn speculatively places m at p, measures the
// resulting score delta, and unplaces m again, leaving the Board unchanged.
// Returns the rejection error from TryPlace if p is infeasible.
func (b *Board) ScoreIncreaseIfPutMusicianOn(m int, p geom.Vec2) (float64, error) {
	before := b.Score()
	if err := b.TryPlace(m, p); err != nil {
		return 0, err
	}
	delta := b.Score() - before
	b.Unplace(m)
	return delta, nil
}

func opposite(r float64) float64 {
	r += math.Pi
	if r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}
