package assignment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pair assigns row Unit of the cost matrix to column Slot.
type Pair struct {
	Unit int
	Slot int
}

// Solve finds a minimum-cost assignment for an R x S cost matrix using the
// Kuhn-Munkres (Hungarian) algorithm in O(max(R,S)^3). It returns min(R,S)
// pairs ordered by unit index; no unit or slot appears twice. When R > S the
// surplus units stay unassigned, when R < S the surplus slots stay empty.
//
// A matrix of distinct powers of two, as left by MapIntoPowersOfTwo, spans
// more binary orders of magnitude than float64 potentials can resolve. It is
// solved by rank instead, which gives the exact minimum.
func Solve(costs mat.Matrix) ([]Pair, error) {
	if err := validate(costs); err != nil {
		return nil, err
	}
	rows, cols := costs.Dims()
	if desc, ok := ladderOrder(costs); ok {
		return lexicographicBottleneck(rows, cols, desc), nil
	}

	// Pad to a square matrix with zero-cost dummy rows/columns. A dummy entry
	// costs the same whichever real row or column it pairs with, so padding
	// does not change which real pairs are optimal.
	dim := rows
	if cols > dim {
		dim = cols
	}
	c := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		c[i] = make([]float64, dim)
		if i >= rows {
			continue
		}
		for j := 0; j < cols; j++ {
			c[i][j] = costs.At(i, j)
		}
	}

	rowAssign := kuhnMunkres(c)

	pairs := make([]Pair, 0, min(rows, cols))
	for i := 0; i < rows; i++ {
		if col := rowAssign[i]; col >= 0 && col < cols {
			pairs = append(pairs, Pair{Unit: i, Slot: col})
		}
	}
	return pairs, nil
}

// Total sums the entries of costs selected by pairs.
func Total(costs mat.Matrix, pairs []Pair) float64 {
	var sum float64
	for _, p := range pairs {
		sum += costs.At(p.Unit, p.Slot)
	}
	return sum
}

func validate(costs mat.Matrix) error {
	if costs == nil {
		return fmt.Errorf("%w: nil matrix", ErrInvalidCostMatrix)
	}
	if d, ok := costs.(*mat.Dense); ok && d.IsEmpty() {
		return fmt.Errorf("%w: empty matrix", ErrInvalidCostMatrix)
	}
	rows, cols := costs.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInvalidCostMatrix)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := costs.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: entry (%d,%d) is %v", ErrInvalidCostMatrix, i, j, v)
			}
		}
	}
	return nil
}

// kuhnMunkres solves the square assignment problem on c with row/column
// potentials (Jonker-Volgenant style shortest augmenting paths). It returns
// rowAssign[i] = column assigned to row i.
func kuhnMunkres(c [][]float64) []int {
	dim := len(c)
	const inf = math.MaxFloat64 / 2

	// 1-indexed internally; column 0 is the virtual start of each augmenting path.
	u := make([]float64, dim+1)
	v := make([]float64, dim+1)
	p := make([]int, dim+1)   // p[j] = row matched to column j
	way := make([]int, dim+1) // way[j] = previous column on the augmenting path
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
		if p[j] > 0 {
			rowAssign[p[j]-1] = j - 1
		}
	}
	return rowAssign
}
