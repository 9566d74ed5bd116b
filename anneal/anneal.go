// Package anneal implements the simulated-annealing driver that perturbs a
// board.Board with moves from the move package, accepting or rejecting each
// proposal by a temperature-scaled criterion until an iteration budget is
// spent.
package anneal

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/move"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Driver runs simulated annealing over a Board. The zero value is not usable;
// construct with NewDriver.
type Driver struct {
	cfg Config
	rng *rand.Rand
}

// NewDriver builds a Driver seeded from seed (use a fixed seed for
// reproducible runs, or a time-derived one for production solving).
func NewDriver(cfg Config, seed int64) *Driver {
	return &Driver{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Run perturbs b in place for cfg.NumIterations proposals, or until ctx is
// canceled, and returns the board's score after the last accepted proposal
// (via Board.ScoreIgnoreNegative, matching the reference solver's
// objective). Accepted worsening moves lower it, so it is the final score,
// not the highest score seen during the run. The Board is assumed to
// already hold a complete, feasible placement (see the seed package);
// Run never places a previously unplaced musician, only moves placed ones.
func (d *Driver) Run(ctx context.Context, b *board.Board) (float64, error) {
	cfg := d.cfg
	bestScore := b.ScoreIgnoreNegative()
	n := b.NumMusicians()
	if n == 0 {
		return bestScore, nil
	}

	var lastSnapshot time.Time
	for iteration := 1; iteration <= cfg.NumIterations; iteration++ {
		select {
		case <-ctx.Done():
			return bestScore, ctx.Err()
		default:
		}

		progress := float64(iteration) / float64(cfg.NumIterations)
		temperature := Temperature(progress, cfg)

		if score, ok := d.proposeAndMaybeAccept(b, n, bestScore, temperature, progress); ok {
			bestScore = score
		}

		if cfg.LogEvery > 0 && iteration%cfg.LogEvery == 0 {
			klog.Infof("I:%d T:%.0f Score:%.0f", iteration, temperature, bestScore)
		}
		if cfg.SnapshotDir != "" {
			due := cfg.SnapshotEvery > 0 && iteration%cfg.SnapshotEvery == 0
			if cfg.SnapshotInterval > 0 && time.Since(lastSnapshot) >= cfg.SnapshotInterval {
				due = true
			}
			if due {
				if err := d.snapshot(b, iteration, bestScore); err != nil {
					klog.Warningf("anneal: snapshot failed: %v", err)
				}
				lastSnapshot = time.Now()
			}
		}
	}

	return bestScore, nil
}

// proposeAndMaybeAccept proposes one move, scores the board if it took
// effect, and either keeps or reverts it per the Metropolis-style criterion.
// It returns the resulting score and whether the proposal was kept, in
// which case that score replaces bestScore (the current score).
func (d *Driver) proposeAndMaybeAccept(b *board.Board, n int, bestScore, temperature, progress float64) (float64, bool) {
	if d.cfg.HungarianRarity > 0 && d.rng.Intn(d.cfg.HungarianRarity) == 0 {
		// Hungarian cannot be unapplied, and never lowers the score for the
		// current position set, so it is kept unconditionally.
		b.Hungarian()
		return b.ScoreIgnoreNegative(), true
	}

	w := d.cfg.Weights
	total := w.Total()
	if total <= 0 {
		total = 1
	}
	r := d.rng.Intn(total)

	if r < w.Swap {
		if !b.CanSwap() {
			return bestScore, false
		}
		m1, m2 := d.rng.Intn(n), d.rng.Intn(n)
		if b.Prob.Musicians[m1] == b.Prob.Musicians[m2] {
			return bestScore, false
		}
		mv := &move.Swap{M1: m1, M2: m2}
		if !mv.Apply(b) {
			return bestScore, false
		}
		score := b.ScoreIgnoreNegative()
		if d.shouldAccept(bestScore, score, temperature) {
			return score, true
		}
		mv.Unapply(b)
		return bestScore, false
	}
	r -= w.Swap

	m := d.rng.Intn(n)
	var mv move.Move
	switch {
	case r < w.RandomPos:
		mv = &randomPosMove{m: m, rng: d.rng}
	case r < w.RandomPos+w.Collide:
		mv = d.collideMove(m)
	case r < w.RandomPos+w.Collide+w.Gradient:
		mv = d.gradientMove(m)
	case r < w.RandomPos+w.Collide+w.Gradient+w.Volume:
		mv = d.volumeMove(b, m)
	case r < w.RandomPos+w.Collide+w.Gradient+w.Volume+w.Composite:
		mv = d.compositeMove(b, m, progress)
	default:
		mv = d.directionStepMove(b, m, progress)
	}

	if mv == nil || !mv.Apply(b) {
		return bestScore, false
	}
	score := b.ScoreIgnoreNegative()
	if d.shouldAccept(bestScore, score, temperature) {
		return score, true
	}
	mv.Unapply(b)
	return bestScore, false
}

func (d *Driver) collideMove(m int) move.Move {
	return &move.Collide{
		M:       m,
		Angle:   d.rng.Float64() * 2 * math.Pi,
		MaxDist: d.cfg.MoveDistance * square(d.rng.Float64()),
	}
}

func (d *Driver) gradientMove(m int) move.Move {
	return &move.GradientStep{M: m, Dist: d.cfg.MoveDistance * square(d.rng.Float64())}
}

func (d *Driver) volumeMove(b *board.Board, m int) move.Move {
	vol := b.Volume(m)
	if d.rng.Intn(2) == 0 {
		vol++
	} else {
		vol--
	}
	return &move.ChangeVolume{M: m, NewVol: math.Max(0, math.Min(10, vol))}
}

// directionStepMove proposes a ChangePos a short step away from m's current
// position, or nil if m is unplaced. The step scale decays as the run
// progresses, and the target is snapped to a grid that halves every 1/8th
// of the run, so late iterations explore ever finer displacements.
func (d *Driver) directionStepMove(b *board.Board, m int, progress float64) move.Move {
	pos, ok := b.Position(m)
	if !ok {
		return nil
	}
	angle := d.rng.Float64() * 2 * math.Pi
	scale := d.cfg.MoveDistance * (1 - progress)
	if scale < 1 {
		scale = 1
	}
	dist := scale * square(d.rng.Float64())
	grid := math.Pow(2, -math.Floor(8*progress))
	return &move.ChangePos{M: m, NewPos: clampToStage(b, geom.Vec2{
		X: snap(pos.X+dist*math.Cos(angle), grid),
		Y: snap(pos.Y+dist*math.Sin(angle), grid),
	})}
}

// compositeMove sequences two basic perturbations, usually of two different
// musicians, into one atomic proposal: both take effect or both are
// reverted. This lets the search cross fitness valleys a single move cannot,
// e.g. a volume nudge chained after a position step, or an escape Collide
// after a ChangePos that pinned the musician against the stage edge.
func (d *Driver) compositeMove(b *board.Board, m int, progress float64) move.Move {
	first := d.basicMove(b, m, progress)
	second := d.basicMove(b, d.rng.Intn(b.NumMusicians()), progress)
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return &move.Composite{Moves: []move.Move{first, second}}
}

func (d *Driver) basicMove(b *board.Board, m int, progress float64) move.Move {
	switch d.rng.Intn(4) {
	case 0:
		return d.collideMove(m)
	case 1:
		return d.gradientMove(m)
	case 2:
		return d.volumeMove(b, m)
	default:
		return d.directionStepMove(b, m, progress)
	}
}

// randomPosMove teleports musician M to a uniformly random feasible stage
// position, grounded on move_at_random_pos: unlike move.ChangePos it always
// finds a feasible spot by resampling rather than rejecting once.
type randomPosMove struct {
	m       int
	rng     *rand.Rand
	prevPos geom.Vec2
}

func (r *randomPosMove) Apply(b *board.Board) bool {
	prev, ok := b.Position(r.m)
	if !ok {
		return false
	}
	r.prevPos = prev
	stage := b.Prob.Stage
	b.Unplace(r.m)
	for {
		pos := geom.Vec2{
			X: stage.Min.X + r.rng.Float64()*stage.Width(),
			Y: stage.Min.Y + r.rng.Float64()*stage.Height(),
		}
		if b.CanPlace(r.m, pos) {
			_ = b.TryPlace(r.m, pos)
			return true
		}
	}
}

func (r *randomPosMove) Unapply(b *board.Board) {
	b.Unplace(r.m)
	_ = b.TryPlace(r.m, r.prevPos)
}

func (r *randomPosMove) Invert() move.Move {
	return &move.ChangePos{M: r.m, NewPos: r.prevPos}
}

func square(x float64) float64 { return x * x }

func snap(x, grid float64) float64 { return math.Round(x/grid) * grid }

func clampToStage(b *board.Board, p geom.Vec2) geom.Vec2 {
	stage := b.Prob.Stage
	return geom.Vec2{
		X: math.Min(math.Max(p.X, stage.Min.X), stage.Max.X),
		Y: math.Min(math.Max(p.Y, stage.Min.Y), stage.Max.Y),
	}
}

// Temperature returns the annealing temperature at progress in [0, 1] under
// cfg's cooling schedule. Exported for the subdivision solver's per-cell
// loops, which run their own proposal logic but share the schedule.
func Temperature(progress float64, cfg Config) float64 {
	switch cfg.CoolingSchedule {
	case CoolingQuadratic:
		return square(1-progress) * cfg.InitialTemperature
	case CoolingExponential:
		return math.Pow(cfg.InitialTemperature, 1-progress) * math.Pow(cfg.FinalTemperature, progress)
	default:
		return (1 - progress) * cfg.InitialTemperature
	}
}

// Accepts decides whether a proposal moving the score from curScore to
// nextScore is kept at the given temperature, under cfg's accept function.
// Improvements are always kept.
func Accepts(rng *rand.Rand, cfg Config, curScore, nextScore, temperature float64) bool {
	if nextScore >= curScore {
		return true
	}
	delta := nextScore - curScore
	switch cfg.AcceptFunction {
	case AcceptExponential:
		return rng.Float64() < math.Exp(delta/(temperature+1e-9))
	default:
		return rng.Float64()*temperature > -delta
	}
}

func (d *Driver) shouldAccept(curScore, nextScore, temperature float64) bool {
	return Accepts(d.rng, d.cfg, curScore, nextScore, temperature)
}

func problemSnapshotName(problemID uint32, iteration int, bestScore float64) string {
	return strconv.FormatUint(uint64(problemID), 10) + "-" +
		strconv.Itoa(iteration/1_000_000) + "M-" +
		strconv.FormatFloat(bestScore, 'f', 0, 64) + ".json"
}

func (d *Driver) snapshot(b *board.Board, iteration int, bestScore float64) error {
	sol, err := b.SolutionWithOptimizedVolume()
	if err != nil {
		return errors.Wrap(err, "anneal: snapshotting incomplete board")
	}
	data, err := json.Marshal(problem.ToRawSolution(sol))
	if err != nil {
		return errors.Wrap(err, "anneal: marshaling snapshot")
	}
	if err := os.MkdirAll(d.cfg.SnapshotDir, 0o755); err != nil {
		return errors.Wrap(err, "anneal: creating snapshot dir")
	}
	name := filepath.Join(d.cfg.SnapshotDir, problemSnapshotName(sol.ProblemID, iteration, bestScore))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(err, "anneal: writing snapshot")
	}
	return nil
}
