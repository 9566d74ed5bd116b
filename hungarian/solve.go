// Package hungarian solves the maximum-weight bipartite assignment problem
// over a dense cost matrix in O(n^3) time, using the Jonker-Volgenant
// potentials variant of the Kuhn-Munkres algorithm.
//
// Solve is a pure function of its input matrix: it has no knowledge of
// musicians, attendees, or stages, so the board package (which builds a
// contribution-weighted matrix) and the seed package (which builds a
// perimeter-to-instrument matrix) can both call it without creating an
// import cycle.
package hungarian

import "math"

// forbidden is a sentinel weight used to pad a non-square matrix; it must be
// small enough relative to any realistic contribution weight that it never
// wins an assignment, and large enough in magnitude to dominate the sum
// during the negation-for-minimization step below.
const forbidden = -1e18

// Solve returns the assignment that maximizes the sum of weights[i][assignment[i]]
// over a one-to-one matching between rows and columns, where weights is an
// n x m matrix (not necessarily square). assignment[i] is the column matched
// to row i, or -1 if row i could not be matched (only possible when m < n).
// total is the sum of the matched weights.
//
// Solve pads the matrix to square internally with the forbidden sentinel so
// padding rows/columns never win a real assignment, then runs the classic
// O(n^3) potentials algorithm on the negated (minimization) matrix.
func Solve(weights [][]float64) (assignment []int, total float64) {
	n := len(weights)
	if n == 0 {
		return nil, 0
	}
	m := 0
	if n > 0 {
		m = len(weights[0])
	}

	dim := n
	if m > dim {
		dim = m
	}

	// Build a square cost matrix for minimization: negate weights (maximize
	// sum(weights) == minimize sum(-weights)), pad with -forbidden so padding
	// cells never get selected in place of a real, better assignment.
	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < n && j < m {
				c[i][j] = -weights[i][j]
			} else {
				c[i][j] = -forbidden
			}
		}
	}

	rowAssign := kuhnMunkres(c, dim)

	assignment = make([]int, n)
	total = 0
	for i := 0; i < n; i++ {
		col := rowAssign[i]
		if col < 0 || col >= m || c[i][col] >= -forbidden {
			assignment[i] = -1
			continue
		}
		assignment[i] = col
		total += weights[i][col]
	}
	return assignment, total
}

// kuhnMunkres runs the potentials-based Hungarian algorithm on the dim x dim
// minimization matrix c, returning rowAssign[i] = the column assigned to row
// i (0-indexed). Internally it uses 1-indexed arrays, matching the standard
// presentation of the algorithm.
func kuhnMunkres(c [][]float64, dim int) []int {
	const inf = math.MaxFloat64 / 2

	u := make([]float64, dim+1)
	v := make([]float64, dim+1)
	p := make([]int, dim+1)
	way := make([]int, dim+1)
	minv := make([]float64, dim+1)
	used := make([]bool, dim+1)

	for i := 1; i <= dim; i++ {
		p[0] = i
		j0 := 0

		for j := 1; j <= dim; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= dim; j++ {
				if used[j] {
					continue
				}
				cur := c[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			for j := 0; j <= dim; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	rowAssign := make([]int, dim)
	for i := range rowAssign {
		rowAssign[i] = -1
	}
	for j := 1; j <= dim; j++ {
		if p[j] > 0 && p[j] <= dim {
			rowAssign[p[j]-1] = j - 1
		}
	}
	return rowAssign
}
