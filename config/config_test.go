package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuqinho/icfpc2023-sub000/anneal"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[anneal]
cooling_schedule = "exponential"
initial_temperature = 500.0

[subdivision]
num_outer_rounds = 7

[board]
important_attendees_ratio = 0.99
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "exponential", cfg.Anneal.CoolingSchedule)
	assert.Equal(t, 500.0, cfg.Anneal.InitialTemperature)
	assert.Equal(t, 7, cfg.Subdivision.NumOuterRounds)
	assert.Equal(t, 0.99, cfg.Board.ImportantAttendeesRatio)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().API, cfg.API)
	assert.Equal(t, Default().Anneal.MoveDistance, cfg.Anneal.MoveDistance)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("anneal = [[["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestToAnnealConfigScheduleNames(t *testing.T) {
	cfg := Default()
	cfg.Anneal.CoolingSchedule = "quadratic"
	cfg.Anneal.AcceptFunction = "exponential"

	ac := cfg.ToAnnealConfig(1000)
	assert.Equal(t, 1000, ac.NumIterations)
	assert.Equal(t, anneal.CoolingQuadratic, ac.CoolingSchedule)
	assert.Equal(t, anneal.AcceptExponential, ac.AcceptFunction)
}

func TestToBoardOptionsDefaultsAreEmpty(t *testing.T) {
	assert.Empty(t, Default().ToBoardOptions())
}

func TestToSubdivisionOptionsCarriesSeed(t *testing.T) {
	opts := Default().ToSubdivisionOptions(5000, 99)
	assert.Equal(t, int64(99), opts.Seed)
	assert.Equal(t, 5000, opts.Anneal.NumIterations)
	assert.Equal(t, 100, opts.NumOuterRounds)
}
