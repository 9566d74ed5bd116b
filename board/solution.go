package board

import "github.com/fuqinho/icfpc2023-sub000/problem"

// Solution snapshots the current placement and volumes. Fails with
// ErrNotAllPlaced if any musician is currently unplaced.
func (b *Board) Solution() (problem.Solution, error) {
	placements := make([]problem.Placement, b.numMusicians)
	for m := 0; m < b.numMusicians; m++ {
		if !b.placed[m] {
			return problem.Solution{}, ErrNotAllPlaced
		}
		placements[m] = problem.Placement{Position: b.pos[m]}
	}
	volumes := make([]float64, b.numMusicians)
	copy(volumes, b.volumes)
	return problem.Solution{
		ProblemID:  b.ProblemID,
		Solver:     b.Solver,
		Placements: placements,
		Volumes:    volumes,
	}, nil
}

// SolutionWithOptimizedVolume snapshots the current placement with every
// musician's volume set to the extreme that favors its current sign of
// contribution: 10 if non-negative, 0 if negative.
func (b *Board) SolutionWithOptimizedVolume() (problem.Solution, error) {
	sol, err := b.Solution()
	if err != nil {
		return problem.Solution{}, err
	}
	for m := range sol.Volumes {
		if b.Contribution(m) < 0 {
			sol.Volumes[m] = 0
		} else {
			sol.Volumes[m] = 10
		}
	}
	return sol, nil
}
