// Package config loads solver configuration from a TOML file. Every field
// has a default matching the reference parameters, so an empty file (or no
// file at all) yields a working configuration; a file only needs to name
// the knobs it changes.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/fuqinho/icfpc2023-sub000/anneal"
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/subdivision"
)

// SolverConfig is the full on-disk configuration.
type SolverConfig struct {
	Anneal      AnnealConfig      `toml:"anneal"`
	Subdivision SubdivisionConfig `toml:"subdivision"`
	Board       BoardConfig       `toml:"board"`
	API         APIConfig         `toml:"api"`
}

// AnnealConfig mirrors anneal.Config in TOML-friendly form.
type AnnealConfig struct {
	InitialTemperature float64 `toml:"initial_temperature"`
	FinalTemperature   float64 `toml:"final_temperature"`
	// CoolingSchedule is one of "linear", "quadratic", "exponential".
	CoolingSchedule string `toml:"cooling_schedule"`
	// AcceptFunction is one of "linear", "exponential".
	AcceptFunction  string  `toml:"accept_function"`
	MoveDistance    float64 `toml:"move_distance"`
	HungarianRarity int     `toml:"hungarian_rarity"`

	SnapshotDir             string `toml:"snapshot_dir"`
	SnapshotEvery           int    `toml:"snapshot_every"`
	SnapshotIntervalSeconds int    `toml:"snapshot_interval_seconds"`
	LogEvery                int    `toml:"log_every"`
}

// SubdivisionConfig mirrors subdivision.Options.
type SubdivisionConfig struct {
	NumOuterRounds   int     `toml:"num_outer_rounds"`
	TargetSide       float64 `toml:"target_side"`
	MoveCutPositions bool    `toml:"move_cut_positions"`
	MoveCutStdDev    float64 `toml:"move_cut_std_dev"`
}

// BoardConfig mirrors board.BoardOptions.
type BoardConfig struct {
	ImportantAttendeesRatio float64 `toml:"important_attendees_ratio"`
	ImportantMusicianRange  float64 `toml:"important_musician_range"`
	UseVisibility           bool    `toml:"use_visibility"`
}

// APIConfig configures the contest HTTP client. TokenEnv names the
// environment variable holding the bearer token, so the token itself never
// appears in a config file.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TokenEnv          string  `toml:"token_env"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Default returns the reference configuration.
func Default() SolverConfig {
	return SolverConfig{
		Anneal: AnnealConfig{
			InitialTemperature: 1_000_000,
			FinalTemperature:   1,
			CoolingSchedule:    "linear",
			AcceptFunction:     "linear",
			MoveDistance:       40,
			HungarianRarity:    1_000_000,
			SnapshotEvery:      1_000_000,
			LogEvery:           10_000,
		},
		Subdivision: SubdivisionConfig{
			NumOuterRounds: 100,
			TargetSide:     subdivision.TargetSide,
			MoveCutStdDev:  10,
		},
		Board: BoardConfig{
			ImportantAttendeesRatio: 1.0,
		},
		API: APIConfig{
			BaseURL:           "https://api.icfpcontest.com",
			TokenEnv:          "ICFPC_API_TOKEN",
			RequestsPerSecond: 2,
		},
	}
}

// Load reads a TOML config file, layering it over Default. A missing path
// returns Default unchanged; a present but malformed file is an error.
func Load(path string) (SolverConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}

// ToAnnealConfig converts the TOML form into the anneal package's Config
// for the given iteration budget. Unknown schedule/accept names fall back
// to linear.
func (c SolverConfig) ToAnnealConfig(numIterations int) anneal.Config {
	out := anneal.Config{
		NumIterations:      numIterations,
		InitialTemperature: c.Anneal.InitialTemperature,
		FinalTemperature:   c.Anneal.FinalTemperature,
		MoveDistance:       c.Anneal.MoveDistance,
		HungarianRarity:    c.Anneal.HungarianRarity,
		SnapshotDir:        c.Anneal.SnapshotDir,
		SnapshotEvery:      c.Anneal.SnapshotEvery,
		SnapshotInterval:   time.Duration(c.Anneal.SnapshotIntervalSeconds) * time.Second,
		LogEvery:           c.Anneal.LogEvery,
		Weights:            anneal.DefaultMoveWeights(),
	}
	switch c.Anneal.CoolingSchedule {
	case "quadratic":
		out.CoolingSchedule = anneal.CoolingQuadratic
	case "exponential":
		out.CoolingSchedule = anneal.CoolingExponential
	default:
		out.CoolingSchedule = anneal.CoolingLinear
	}
	if c.Anneal.AcceptFunction == "exponential" {
		out.AcceptFunction = anneal.AcceptExponential
	}
	return out
}

// ToBoardOptions converts the TOML form into board construction options,
// returning only the options that differ from the board's defaults.
func (c SolverConfig) ToBoardOptions() []board.BoardOption {
	var opts []board.BoardOption
	if c.Board.ImportantAttendeesRatio > 0 && c.Board.ImportantAttendeesRatio < 1 {
		opts = append(opts, board.WithImportantAttendeesRatio(c.Board.ImportantAttendeesRatio))
	}
	if c.Board.ImportantMusicianRange > 0 {
		opts = append(opts, board.WithImportantMusicianRange(c.Board.ImportantMusicianRange))
	}
	if c.Board.UseVisibility {
		opts = append(opts, board.WithVisibilityBlending())
	}
	return opts
}

// ToSubdivisionOptions converts the TOML form into subdivision.Options for
// the given iteration budget and seed.
func (c SolverConfig) ToSubdivisionOptions(numIterations int, seed int64) subdivision.Options {
	return subdivision.Options{
		NumOuterRounds:   c.Subdivision.NumOuterRounds,
		TargetSide:       c.Subdivision.TargetSide,
		MoveCutPositions: c.Subdivision.MoveCutPositions,
		MoveCutStdDev:    c.Subdivision.MoveCutStdDev,
		Seed:             seed,
		Anneal:           c.ToAnnealConfig(numIterations),
	}
}
