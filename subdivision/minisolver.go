package subdivision

import (
	"math"
	"math/rand"

	"github.com/fuqinho/icfpc2023-sub000/anneal"
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/geom"
	"github.com/fuqinho/icfpc2023-sub000/internal/xrand"
)

// MiniSolver anneals one cell's musicians on a cell-local Board for a slice
// of the global iteration budget. A cell with walls carries their pillars,
// which puts its board in v2 mode; the move set is position moves only
// (no Swap), and the global Hungarian pass after each outer round takes
// over the role of identity exchange.
type MiniSolver struct {
	Board *board.Board

	cell    Cell
	numIter int
	from    int
	to      int
	cfg     anneal.Config
	rng     *rand.Rand

	// available are the musician indices this cell owns; initial[i], when
	// non-nil, is available[i]'s starting position.
	available []int
	initial   []*geom.Vec2
}

// NewMiniSolver builds a cell solver. numIter is the global iteration budget
// (temperature progress is measured against it, not against the cell's own
// slice [from, to)), so every outer round continues the cooling curve where
// the previous one stopped.
func NewMiniSolver(problemID uint32, cell Cell, numIter, from, to int, cfg anneal.Config,
	available []int, initial []*geom.Vec2, seed int64) *MiniSolver {
	b := board.NewBoard(problemID, cell.Problem, "subdivision-cell")
	return &MiniSolver{
		Board:     b,
		cell:      cell,
		numIter:   numIter,
		from:      from,
		to:        to,
		cfg:       cfg,
		rng:       xrand.New(seed),
		available: available,
		initial:   initial,
	}
}

// Solve places this cell's musicians (at their initial positions when given,
// else at random feasible points), runs the annealing slice, then sweeps a
// grid to place any musician the annealing loop left unplaced. It returns
// the cell board for the caller to merge.
func (s *MiniSolver) Solve() *board.Board {
	s.initialize()

	for iter := s.from; iter < s.to; iter++ {
		s.step(iter)
	}

	s.placeRemaining()
	return s.Board
}

func (s *MiniSolver) initialize() {
	for m := 0; m < s.Board.NumMusicians(); m++ {
		s.Board.SetVolume(m, 10.0)
	}

	for i, m := range s.available {
		if s.initial != nil && s.initial[i] != nil {
			if s.Board.TryPlace(m, *s.initial[i]) == nil {
				continue
			}
		}
		// A musician that cannot be fit by random sampling stays unplaced
		// here; placeRemaining's grid sweep picks it up after the annealing
		// slice.
		for attempt := 0; attempt < 1000; attempt++ {
			if s.Board.TryPlace(m, s.RandomPlace()) == nil {
				break
			}
		}
	}
}

// RandomPlace returns a uniform point on the cell's usable stage. The point
// is not checked for musician spacing; callers retry on rejection.
func (s *MiniSolver) RandomPlace() geom.Vec2 {
	stage := s.Board.Prob.Stage
	return geom.Vec2{
		X: stage.Min.X + s.rng.Float64()*stage.Width(),
		Y: stage.Min.Y + s.rng.Float64()*stage.Height(),
	}
}

func (s *MiniSolver) step(iter int) {
	progress := float64(iter) / float64(s.numIter)
	temperature := anneal.Temperature(progress, s.cfg)

	m, prev, ok := s.randomPlacedMusician()
	if !ok {
		return
	}

	var dest geom.Vec2
	if s.rng.Intn(3) == 0 {
		dest = s.RandomPlace()
	} else {
		dest = prev.Add(s.randomDirection(temperature))
	}

	before := s.Board.Score()
	if !s.moveMusicianTo(m, dest) {
		return
	}
	if anneal.Accepts(s.rng, s.cfg, before, s.Board.Score(), temperature) {
		return
	}
	if !s.moveMusicianTo(m, prev) {
		panic(board.InvariantViolation{Msg: "subdivision: reverting a cell move failed"})
	}
}

// randomDirection samples a displacement whose scale shrinks with the
// temperature: full MoveDistance at the initial temperature, down to one
// unit near the end of the schedule, squared-uniform within that.
func (s *MiniSolver) randomDirection(temperature float64) geom.Vec2 {
	d := s.rng.Float64()
	angle := (2*s.rng.Float64() - 1) * math.Pi

	maxTemp := s.cfg.InitialTemperature
	frac := 1.0
	if maxTemp > 0 {
		frac = temperature / maxTemp
	}
	maxDist := 1 + (s.cfg.MoveDistance-1)*frac

	r := maxDist * d * d
	return geom.Vec2{X: math.Cos(angle) * r, Y: math.Sin(angle) * r}
}

func (s *MiniSolver) randomPlacedMusician() (int, geom.Vec2, bool) {
	placed := 0
	for _, m := range s.available {
		if s.Board.IsPlaced(m) {
			placed++
		}
	}
	if placed == 0 {
		return 0, geom.Vec2{}, false
	}
	for {
		m := s.available[s.rng.Intn(len(s.available))]
		if p, ok := s.Board.Position(m); ok {
			return m, p, true
		}
	}
}

func (s *MiniSolver) moveMusicianTo(m int, p geom.Vec2) bool {
	if !s.Board.Prob.Stage.Contains(p) {
		return false
	}
	if !s.Board.CanPlace(m, p) {
		return false
	}
	s.Board.Unplace(m)
	if err := s.Board.TryPlace(m, p); err != nil {
		panic(board.InvariantViolation{Msg: "subdivision: CanPlace accepted but TryPlace rejected: " + err.Error()})
	}
	return true
}

// placeRemaining sweeps a 10-unit grid over the cell stage until every
// available musician has a position, relaxing the score-decrease tolerance
// by 10000 each full sweep so the loop always terminates.
func (s *MiniSolver) placeRemaining() {
	var remaining []int
	for _, m := range s.available {
		if !s.Board.IsPlaced(m) {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		return
	}

	stage := s.Board.Prob.Stage
	for acceptDecrease := 0.0; ; acceptDecrease += 10000 {
		for x := math.Ceil(stage.Min.X); x <= stage.Max.X; x += 10 {
			for y := math.Ceil(stage.Min.Y); y <= stage.Max.Y; y += 10 {
				if len(remaining) == 0 {
					return
				}
				m := remaining[len(remaining)-1]
				p := geom.Vec2{X: x, Y: y}

				prev := s.Board.Score()
				if s.Board.TryPlace(m, p) != nil {
					continue
				}
				if s.Board.Score() < prev-acceptDecrease {
					s.Board.Unplace(m)
					continue
				}
				remaining = remaining[:len(remaining)-1]
			}
		}
	}
}
