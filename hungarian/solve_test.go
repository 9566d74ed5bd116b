package hungarian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveSquareMaximizes(t *testing.T) {
	weights := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	assignment, total := Solve(weights)
	assert.Len(t, assignment, 3)
	// Every permutation of this matrix sums to the same total (3i+j+1 pattern),
	// so any optimal assignment must equal it.
	assert.Equal(t, 15.0, total)

	sum := 0.0
	seen := map[int]bool{}
	for i, j := range assignment {
		assert.False(t, seen[j])
		seen[j] = true
		sum += weights[i][j]
	}
	assert.Equal(t, total, sum)
}

func TestSolveRectangularMoreColumnsThanRows(t *testing.T) {
	weights := [][]float64{
		{5, 1, 1},
		{1, 5, 1},
	}
	assignment, total := Solve(weights)
	assert.Equal(t, []int{0, 1}, assignment)
	assert.Equal(t, 10.0, total)
}

func TestSolveRectangularFewerColumnsThanRows(t *testing.T) {
	weights := [][]float64{
		{5, 1},
		{1, 5},
		{3, 3},
	}
	assignment, total := Solve(weights)
	assert.Len(t, assignment, 3)
	// exactly one row must be unassigned since there are only 2 columns.
	unassigned := 0
	for _, a := range assignment {
		if a == -1 {
			unassigned++
		}
	}
	assert.Equal(t, 1, unassigned)
	assert.Equal(t, 10.0, total)
}

func TestSolveEmpty(t *testing.T) {
	assignment, total := Solve(nil)
	assert.Nil(t, assignment)
	assert.Equal(t, 0.0, total)
}
