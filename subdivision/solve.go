package subdivision

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/fuqinho/icfpc2023-sub000/anneal"
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/internal/xrand"
	"github.com/fuqinho/icfpc2023-sub000/problem"
)

// Options configures a subdivision run. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	NumOuterRounds int
	TargetSide     float64

	// MoveCutPositions perturbs every interior cut by Normal(0, MoveCutStdDev)
	// between rounds, re-rolling until every cell side stays at least MinSide.
	MoveCutPositions bool
	MoveCutStdDev    float64

	Seed   int64
	Anneal anneal.Config

	// onRound, when set, observes every outer round's merged score (the
	// value best-tracking compares). Settable only within the package; the
	// round-regression test uses it.
	onRound func(round int, score float64)
}

// DefaultOptions returns the reference parameters: 100 outer rounds, target
// cell side 120, fixed cuts.
func DefaultOptions(numIter int) Options {
	return Options{
		NumOuterRounds:   100,
		TargetSide:       TargetSide,
		MoveCutPositions: false,
		MoveCutStdDev:    10.0,
		Anneal:           anneal.DefaultConfig(numIter),
	}
}

// Solve partitions prob's stage into cells, runs opts.NumOuterRounds outer
// rounds of parallel per-cell annealing, and returns the highest-scoring
// merged global board of any round (the later round on a tie). Each round
// anneals every cell concurrently for an
// equal slice of numIter, merges the cell placements, reassigns identities
// with a global Hungarian pass, and rescues musicians whose placement
// contributes nothing.
func Solve(ctx context.Context, problemID uint32, prob problem.Problem, numIter int, initial *problem.Solution, opts Options) (*board.Board, error) {
	rng := xrand.New(opts.Seed)

	rounds := opts.NumOuterRounds
	if rounds < 1 {
		rounds = 1
	}
	numInner := numIter / rounds
	if numInner < 1 {
		numInner = 1
	}

	cutX, cutY := EvenCuts(prob.Stage, opts.TargetSide)
	baseCutX := append([]float64(nil), cutX...)
	baseCutY := append([]float64(nil), cutY...)
	cells := SplitProblemFromCut(prob, cutX, cutY)

	available, initialLocs := partitionMusicians(prob, cells, initial, rng)
	var fixed []fixedMusician

	klog.V(1).Infof("subdivision: %d cells, %d inner iterations per round", len(cells), numInner)

	var seedStream uint64
	var best *board.Board
	bestScore := 0.0

	for round := 0; round < rounds; round++ {
		// A canceled budget returns the best merged board so far, if any
		// round completed.
		if err := ctx.Err(); err != nil {
			if best != nil {
				return best, nil
			}
			return nil, err
		}

		solvers := make([]*MiniSolver, len(cells))
		for i := range cells {
			if len(available[i]) == 0 {
				continue
			}
			seedStream++
			solvers[i] = NewMiniSolver(problemID, cells[i], numIter,
				numInner*round, numInner*(round+1), opts.Anneal,
				available[i], initialLocs[i], xrand.DeriveSeed(opts.Seed, seedStream))
		}

		var g errgroup.Group
		for _, s := range solvers {
			if s == nil {
				continue
			}
			s := s
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						if iv, ok := r.(board.InvariantViolation); ok {
							err = errors.Wrap(iv, "subdivision: cell solve")
							return
						}
						panic(r)
					}
				}()
				s.Solve()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		global := board.NewBoard(problemID, prob, "subdivision")
		for m := 0; m < global.NumMusicians(); m++ {
			global.SetVolume(m, 10.0)
		}
		for i, s := range solvers {
			if s == nil {
				continue
			}
			for _, m := range available[i] {
				p, ok := s.Board.Position(m)
				if !ok {
					continue
				}
				if err := global.TryPlace(m, p); err != nil {
					return nil, errors.Wrapf(err, "subdivision: merging musician %d", m)
				}
			}
		}
		for _, f := range fixed {
			if err := global.TryPlace(f.m, f.pos); err != nil {
				return nil, errors.Wrapf(err, "subdivision: restoring fixed musician %d", f.m)
			}
		}

		global.Hungarian()

		klog.Infof("subdivision: %3d%%  score: %14.0f", ((round+1)*100)/rounds, global.Score())

		rescueZeroScores(global, solvers, rng)

		score := global.Score()
		if opts.onRound != nil {
			opts.onRound(round, score)
		}
		if best == nil || score >= bestScore {
			best = global
			bestScore = score
		}

		if round == rounds-1 {
			return best, nil
		}

		cutX, cutY = nextCuts(prob.Stage, baseCutX, baseCutY, opts, rng)
		cells = SplitProblemFromCut(prob, cutX, cutY)
		available, initialLocs, fixed = repartitionByPosition(global, cells)
	}

	panic("unreachable")
}

type fixedMusician struct {
	m   int
	pos geom.Vec2
}

// nextCuts returns the cut coordinates for the next round. With fixed cuts
// this is the base grid unchanged; with MoveCutPositions each interior cut
// is re-sampled from Normal(base, MoveCutStdDev), re-rolling the whole axis
// until every resulting cell side is at least MinSide.
func nextCuts(stage geom.Box2D, baseCutX, baseCutY []float64, opts Options, rng *rand.Rand) ([]float64, []float64) {
	if !opts.MoveCutPositions {
		return baseCutX, baseCutY
	}

	inner := stage.Inset(cellMargin)
	perturb := func(base []float64, min, max float64) []float64 {
		for {
			cuts := make([]float64, 0, len(base)+2)
			cuts = append(cuts, min)
			for _, c := range base {
				cuts = append(cuts, c+rng.NormFloat64()*opts.MoveCutStdDev)
			}
			cuts = append(cuts, max)
			sortFloats(cuts)

			ok := true
			for i := 0; i+1 < len(cuts); i++ {
				if cuts[i+1]-cuts[i] < MinSide {
					ok = false
					break
				}
			}
			if ok {
				return cuts[1 : len(cuts)-1]
			}
		}
	}

	return perturb(baseCutX, inner.Min.X, inner.Max.X), perturb(baseCutY, inner.Min.Y, inner.Max.Y)
}

// partitionMusicians assigns each musician to a cell. With an initial
// solution, a musician goes to the cell containing its placement; the rest
// are shuffled and spread evenly. Without one, all musicians are shuffled
// and chunked evenly across cells.
func partitionMusicians(prob problem.Problem, cells []Cell, initial *problem.Solution, rng *rand.Rand) ([][]int, [][]*geom.Vec2) {
	n := len(prob.Musicians)
	available := make([][]int, len(cells))
	initialLocs := make([][]*geom.Vec2, len(cells))

	var unassigned []int
	if initial != nil {
		used := make([]bool, n)
		for m := 0; m < n && m < len(initial.Placements); m++ {
			p := initial.Placements[m].Position
			for i, c := range cells {
				if c.Contains(p) {
					pos := p
					available[i] = append(available[i], m)
					initialLocs[i] = append(initialLocs[i], &pos)
					used[m] = true
					break
				}
			}
		}
		for m := 0; m < n; m++ {
			if !used[m] {
				unassigned = append(unassigned, m)
			}
		}
	} else {
		unassigned = make([]int, n)
		for m := range unassigned {
			unassigned[m] = m
		}
	}

	xrand.ShuffleInts(unassigned, rng)
	if len(unassigned) > 0 {
		chunk := (len(unassigned) + len(cells) - 1) / len(cells)
		for i := range cells {
			lo := i * chunk
			if lo >= len(unassigned) {
				break
			}
			hi := lo + chunk
			if hi > len(unassigned) {
				hi = len(unassigned)
			}
			for _, m := range unassigned[lo:hi] {
				available[i] = append(available[i], m)
				initialLocs[i] = append(initialLocs[i], nil)
			}
		}
	}

	return available, initialLocs
}

// repartitionByPosition reassigns every placed musician to the cell holding
// its current position. A musician whose position falls between cells
// (possible only after a cut move) is pinned: it skips the next round's
// annealing and is re-placed verbatim during the merge.
func repartitionByPosition(b *board.Board, cells []Cell) ([][]int, [][]*geom.Vec2, []fixedMusician) {
	available := make([][]int, len(cells))
	initialLocs := make([][]*geom.Vec2, len(cells))
	var fixed []fixedMusician

	for m := 0; m < b.NumMusicians(); m++ {
		p, ok := b.Position(m)
		if !ok {
			panic(board.InvariantViolation{Msg: fmt.Sprintf("subdivision: musician %d unplaced after merge", m)})
		}
		assigned := false
		for i, c := range cells {
			if c.Contains(p) {
				pos := p
				available[i] = append(available[i], m)
				initialLocs[i] = append(initialLocs[i], &pos)
				assigned = true
				break
			}
		}
		if !assigned {
			fixed = append(fixed, fixedMusician{m: m, pos: p})
		}
	}
	return available, initialLocs, fixed
}

// rescueZeroScores unplaces every musician whose placement contributes
// nothing, scrambles their identities across the vacated positions, and
// gives any musician still without a position a fresh random spot that does
// not lower the total score, or, after 100 failed sweeps, any feasible
// random spot.
func rescueZeroScores(b *board.Board, solvers []*MiniSolver, rng *rand.Rand) {
	var musicians []int
	var points []*geom.Vec2
	for m := 0; m < b.NumMusicians(); m++ {
		p, ok := b.Position(m)
		if !ok {
			musicians = append(musicians, m)
			points = append(points, nil)
			continue
		}
		if b.ContributionIgnoreNegative2(m) <= 0 {
			pos := p
			musicians = append(musicians, m)
			points = append(points, &pos)
			b.Unplace(m)
		}
	}
	if len(musicians) == 0 {
		return
	}

	xrand.ShuffleInts(musicians, rng)

	for i, m := range musicians {
		if points[i] != nil {
			if err := b.TryPlace(m, *points[i]); err != nil {
				panic(board.InvariantViolation{Msg: "subdivision: rescue re-place rejected: " + err.Error()})
			}
		}
	}

	order := xrand.PermRange(len(solvers), rng)
	for i, m := range musicians {
		if points[i] != nil {
			continue
		}
		// Insist on a non-decreasing spot first; after enough failed sweeps
		// settle for any feasible one so the rescue always terminates.
		placed := false
		for sweep := 0; !placed; sweep++ {
			for _, j := range order {
				if solvers[j] == nil {
					continue
				}
				prev := b.Score()
				p := solvers[j].RandomPlace()
				if b.TryPlace(m, p) != nil {
					continue
				}
				if sweep >= 100 || b.Score() >= prev {
					placed = true
					break
				}
				b.Unplace(m)
			}
		}
	}
}
