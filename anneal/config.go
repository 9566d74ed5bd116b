package anneal

import "time"

// CoolingSchedule selects how the annealing temperature decays over the run.
type CoolingSchedule int

const (
	// CoolingLinear decays temperature linearly from InitialTemperature to 0.
	CoolingLinear CoolingSchedule = iota
	// CoolingQuadratic decays temperature as (1-progress)^2.
	CoolingQuadratic
	// CoolingExponential interpolates geometrically between InitialTemperature
	// and FinalTemperature.
	CoolingExponential
)

// AcceptFunction selects how a worsening move is probabilistically accepted.
type AcceptFunction int

const (
	// AcceptLinear accepts a worsening move with probability proportional to
	// temperature relative to the score delta.
	AcceptLinear AcceptFunction = iota
	// AcceptExponential accepts via the classic Metropolis criterion
	// exp(delta/temperature).
	AcceptExponential
)

// MoveWeights controls how often each move kind is proposed, out of a total
// of Total. The zero value is invalid; use DefaultMoveWeights.
type MoveWeights struct {
	Swap         int
	RandomPos    int
	Collide      int
	Gradient     int
	Volume       int
	Composite    int
	RandomDirect int
}

// Total returns the sum of all weights.
func (w MoveWeights) Total() int {
	return w.Swap + w.RandomPos + w.Collide + w.Gradient + w.Volume + w.Composite + w.RandomDirect
}

// DefaultMoveWeights returns the default move mix: 10% swap, 20% composite
// pairs (two basic perturbations applied and reverted atomically), and a
// 9%/9%/9%/9%/34% split of the rest between random repositioning,
// collision-slide, gradient-ascent, volume-nudge, and random-direction
// moves respectively.
func DefaultMoveWeights() MoveWeights {
	return MoveWeights{
		Swap:         10,
		RandomPos:    9,
		Collide:      9,
		Gradient:     9,
		Volume:       9,
		Composite:    20,
		RandomDirect: 34,
	}
}

// Config configures one simulated-annealing run.
type Config struct {
	NumIterations      int
	InitialTemperature float64
	FinalTemperature   float64
	CoolingSchedule    CoolingSchedule
	AcceptFunction     AcceptFunction
	Weights            MoveWeights

	// MoveDistance bounds the random-pos/collide/gradient/random-direction
	// step lengths (squared-uniform sampled, matching the reference solver's
	// 40-unit cap).
	MoveDistance float64

	// HungarianRarity makes one proposal in HungarianRarity a full Hungarian
	// reassignment instead of a weighted move. A Hungarian pass never lowers
	// the score for a fixed position set, so it is always kept; it is also
	// irreversible, which is why it stays rare. Zero disables it.
	HungarianRarity int

	// SnapshotDir, when non-empty, receives a JSON solution snapshot every
	// SnapshotEvery iterations. LogEvery controls progress log cadence.
	SnapshotDir   string
	SnapshotEvery int
	LogEvery      int

	// SnapshotInterval additionally triggers a snapshot on a wall-clock
	// cadence, independent of iteration count; zero disables it.
	SnapshotInterval time.Duration
}

// DefaultConfig returns a Config matching the reference solver's defaults,
// scaled to the given iteration budget.
func DefaultConfig(numIterations int) Config {
	return Config{
		NumIterations:      numIterations,
		InitialTemperature: 1_000_000,
		FinalTemperature:   1,
		CoolingSchedule:    CoolingLinear,
		AcceptFunction:     AcceptLinear,
		Weights:            DefaultMoveWeights(),
		MoveDistance:       40,
		HungarianRarity:    1_000_000,
		SnapshotEvery:      1_000_000,
		LogEvery:           10_000,
	}
}
