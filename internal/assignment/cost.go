package assignment

import (
	"fmt"
	"math"
	"sort"

	"blockage-sim/internal/common"

	"gonum.org/v1/gonum/mat"
)

// maxLadderEntries bounds the number of matrix entries MapIntoPowersOfTwo accepts.
// The ladder spans 2^(-n/2) .. 2^(n/2-1), which must stay inside the normal
// float64 exponent range.
const maxLadderEntries = 2000

// BuildCostMatrix returns the len(from) x len(to) matrix of Euclidean distances,
// row i holding the distances from from[i] to every point in to.
func BuildCostMatrix(from, to []common.Point) (*mat.Dense, error) {
	if len(from) == 0 || len(to) == 0 {
		return nil, fmt.Errorf("%w: need at least one row and one column, got %dx%d", ErrInvalidCostMatrix, len(from), len(to))
	}
	costs := mat.NewDense(len(from), len(to), nil)
	for i, p := range from {
		for j, q := range to {
			costs.Set(i, j, p.Distance(q))
		}
	}
	return costs, nil
}

// MapIntoPowersOfTwo overwrites costs in place so that its entries, taken in
// ascending order of their original values, become the strictly increasing
// sequence 2^(-n/2), 2^(-n/2+1), ... for n = rows*cols. Equal originals keep
// their row-major order. The mapped matrix therefore induces the same total
// order as the original and has no ties.
//
// Because every entry exceeds the sum of all smaller ones, a minimum-sum
// assignment on the mapped matrix first minimizes the largest selected entry,
// then the second largest, and so on.
func MapIntoPowersOfTwo(costs *mat.Dense) error {
	rows, cols := costs.Dims()
	n := rows * cols
	if n == 0 {
		return fmt.Errorf("%w: empty matrix", ErrInvalidCostMatrix)
	}
	if n > maxLadderEntries {
		return fmt.Errorf("%w: %d entries, limit %d", ErrMatrixTooLarge, n, maxLadderEntries)
	}

	values := make([]float64, n)
	order := make([]int, n)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := costs.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: entry (%d,%d) is %v", ErrInvalidCostMatrix, i, j, v)
			}
			values[i*cols+j] = v
			order[i*cols+j] = i*cols + j
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	pow := math.Ldexp(1, -(n / 2))
	for _, idx := range order {
		costs.Set(idx/cols, idx%cols, pow)
		pow *= 2
	}
	return nil
}
