// Command stageboard solves a musician-placement problem with either the
// flat simulated-annealing driver or the subdivision solver, writes the
// resulting solution JSON, and optionally submits it to the contest API.
//
// Typical runs:
//
//	stageboard -problem problems/42.json -id 42 -iterations 10000000 -out out/42.json
//	stageboard -problem 42 -mode subdivision -seconds 300 -out out/42.json -submit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/fuqinho/icfpc2023-sub000/anneal"
	"github.com/fuqinho/icfpc2023-sub000/board"
	"github.com/fuqinho/icfpc2023-sub000/config"
	"github.com/fuqinho/icfpc2023-sub000/httpapi"
	"github.com/fuqinho/icfpc2023-sub000/problem"
	"github.com/fuqinho/icfpc2023-sub000/seed"
	"github.com/fuqinho/icfpc2023-sub000/subdivision"
)

var (
	flagProblem    = flag.String("problem", "", "Problem JSON path, or a bare problem id to fetch from the API.")
	flagID         = flag.Uint("id", 0, "Problem id recorded in the solution (inferred from -problem when numeric).")
	flagConfig     = flag.String("config", "", "Optional TOML config path.")
	flagMode       = flag.String("mode", "anneal", "Solver mode: anneal or subdivision.")
	flagIterations = flag.Int("iterations", 1_000_000, "Iteration budget.")
	flagSeconds    = flag.Int("seconds", 0, "Wall-clock budget; bounds the run in addition to -iterations when > 0.")
	flagInitial    = flag.String("initial", "", "Optional initial solution JSON path.")
	flagOut        = flag.String("out", "", "Output solution JSON path (stdout when empty).")
	flagSubmit     = flag.Bool("submit", false, "Submit the final solution to the contest API.")
	flagSeed       = flag.Int64("seed", 1, "RNG seed.")
	flagZigZag     = flag.Bool("zigzag", false, "Seed the perimeter with the denser zig-zag lattice.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		klog.Exitf("loading config: %v", err)
	}

	ctx := context.Background()
	if *flagSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*flagSeconds)*time.Second)
		defer cancel()
	}

	client := httpapi.NewClient(cfg.API.BaseURL, os.Getenv(cfg.API.TokenEnv), cfg.API.RequestsPerSecond)

	problemID, prob := loadProblem(ctx, client)
	if err := problem.Validate(prob); err != nil {
		klog.Exitf("problem %d: %v", problemID, err)
	}

	var initial *problem.Solution
	if *flagInitial != "" {
		data, err := os.ReadFile(*flagInitial)
		if err != nil {
			klog.Exitf("reading initial solution: %v", err)
		}
		sol, err := problem.ParseSolution(data)
		if err != nil {
			klog.Exitf("parsing initial solution: %v", err)
		}
		initial = &sol
	}

	var b *board.Board
	switch *flagMode {
	case "anneal":
		b = runAnneal(ctx, cfg, problemID, prob, initial)
	case "subdivision":
		b, err = subdivision.Solve(ctx, problemID, prob, *flagIterations, initial,
			cfg.ToSubdivisionOptions(*flagIterations, *flagSeed))
		if err != nil && b == nil {
			klog.Exitf("subdivision solve: %v", err)
		}
	default:
		klog.Exitf("unknown -mode %q (want anneal or subdivision)", *flagMode)
	}

	sol, err := b.SolutionWithOptimizedVolume()
	if err != nil {
		klog.Exitf("snapshotting solution: %v", err)
	}
	klog.Infof("problem %d: final score %.0f", problemID, b.ScoreIgnoreNegative())

	data, err := json.Marshal(problem.ToRawSolution(sol))
	if err != nil {
		klog.Exitf("encoding solution: %v", err)
	}
	if *flagOut == "" {
		os.Stdout.Write(append(data, '\n'))
	} else {
		if err := os.MkdirAll(filepath.Dir(*flagOut), 0o755); err != nil {
			klog.Exitf("creating output dir: %v", err)
		}
		if err := os.WriteFile(*flagOut, data, 0o644); err != nil {
			klog.Exitf("writing solution: %v", err)
		}
	}

	if *flagSubmit {
		id, err := client.Submit(ctx, problemID, string(data))
		if err != nil {
			klog.Exitf("submitting: %v", err)
		}
		klog.Infof("submitted problem %d: %s", problemID, id)
	}
}

// loadProblem resolves -problem: an existing file is read and parsed; a
// bare integer is fetched from the API.
func loadProblem(ctx context.Context, client *httpapi.Client) (uint32, problem.Problem) {
	if *flagProblem == "" {
		klog.Exitf("-problem is required")
	}

	id := uint32(*flagID)
	if data, err := os.ReadFile(*flagProblem); err == nil {
		prob, err := problem.ParseProblem(data)
		if err != nil {
			klog.Exitf("parsing %s: %v", *flagProblem, err)
		}
		return id, prob
	}

	n, err := strconv.ParseUint(*flagProblem, 10, 32)
	if err != nil {
		klog.Exitf("-problem %q is neither a readable file nor a problem id", *flagProblem)
	}
	if id == 0 {
		id = uint32(n)
	}
	prob, err := client.FetchProblem(ctx, uint32(n))
	if err != nil {
		klog.Exitf("fetching problem %d: %v", n, err)
	}
	return id, prob
}

// runAnneal builds a board (seeded from the initial solution when given,
// else by the perimeter/grid seeder) and refines it with the SA driver.
func runAnneal(ctx context.Context, cfg config.SolverConfig, problemID uint32, prob problem.Problem, initial *problem.Solution) *board.Board {
	b := board.NewBoard(problemID, prob, "stageboard-anneal", cfg.ToBoardOptions()...)

	if initial != nil {
		for m, pl := range initial.Placements {
			if err := b.TryPlace(m, pl.Position); err != nil {
				klog.Exitf("initial solution: placing musician %d: %v", m, err)
			}
			if m < len(initial.Volumes) {
				b.SetVolume(m, initial.Volumes[m])
			}
		}
	} else {
		algo := seed.Normal
		if *flagZigZag {
			algo = seed.ZigZag
		}
		if err := seed.SeedPerimeterThenGrid(b, algo); err != nil {
			klog.Exitf("seeding: %v", err)
		}
	}

	driver := anneal.NewDriver(cfg.ToAnnealConfig(*flagIterations), *flagSeed)
	score, err := driver.Run(ctx, b)
	if err != nil && ctx.Err() == nil {
		klog.Exitf("anneal: %v", err)
	}
	klog.V(1).Infof("anneal finished: best score %.0f", score)
	return b
}
