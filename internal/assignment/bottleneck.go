package assignment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ladderOrder reports whether every entry of costs is a distinct positive
// power of two and, if so, returns the row-major cell indices from the
// largest entry down. Such a matrix is what MapIntoPowersOfTwo produces.
func ladderOrder(costs mat.Matrix) ([]int, bool) {
	rows, cols := costs.Dims()
	exps := make([]int, rows*cols)
	seen := make(map[int]struct{}, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := costs.At(i, j)
			if v <= 0 {
				return nil, false
			}
			frac, exp := math.Frexp(v)
			if frac != 0.5 {
				return nil, false
			}
			if _, dup := seen[exp]; dup {
				return nil, false
			}
			seen[exp] = struct{}{}
			exps[i*cols+j] = exp
		}
	}
	order := make([]int, len(exps))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool {
		return exps[order[a]] > exps[order[b]]
	})
	return order, true
}

// lexicographicBottleneck solves the assignment on a matrix of distinct powers
// of two. Each entry exceeds the sum of all smaller ones, so the minimum-sum
// assignment is the one whose selected entries, sorted descending, are
// lexicographically smallest. Walking the cells from the largest down, a cell
// is forbidden whenever a matching of size min(rows, cols) survives without it.
// Every cell left allowed at the end is used by every such matching, so the
// surviving matching is the unique optimum. The walk compares ranks only and
// is exact for any ladder size.
func lexicographicBottleneck(rows, cols int, desc []int) []Pair {
	k := min(rows, cols)
	m := newBipartite(rows, cols)
	for i := 0; i < k; i++ {
		m.match(i, i)
	}

	for _, cell := range desc {
		i, j := cell/cols, cell%cols
		m.allowed[i][j] = false
		if m.rowMatch[i] != j {
			continue
		}
		m.unmatch(i, j)
		if !m.augment() {
			m.allowed[i][j] = true
			m.match(i, j)
		}
	}

	pairs := make([]Pair, 0, k)
	for i := 0; i < rows; i++ {
		if j := m.rowMatch[i]; j >= 0 {
			pairs = append(pairs, Pair{Unit: i, Slot: j})
		}
	}
	return pairs
}

// bipartite is a row/column matching restricted to allowed cells.
type bipartite struct {
	allowed  [][]bool
	rowMatch []int
	colMatch []int
	visited  []bool
}

func newBipartite(rows, cols int) *bipartite {
	b := &bipartite{
		allowed:  make([][]bool, rows),
		rowMatch: make([]int, rows),
		colMatch: make([]int, cols),
		visited:  make([]bool, cols),
	}
	for i := range b.allowed {
		b.allowed[i] = make([]bool, cols)
		for j := range b.allowed[i] {
			b.allowed[i][j] = true
		}
		b.rowMatch[i] = -1
	}
	for j := range b.colMatch {
		b.colMatch[j] = -1
	}
	return b
}

func (b *bipartite) match(i, j int) {
	b.rowMatch[i] = j
	b.colMatch[j] = i
}

func (b *bipartite) unmatch(i, j int) {
	b.rowMatch[i] = -1
	b.colMatch[j] = -1
}

// augment grows the matching by one along an augmenting path from any free
// row. It leaves the matching untouched when no such path exists.
func (b *bipartite) augment() bool {
	for i := range b.rowMatch {
		if b.rowMatch[i] >= 0 {
			continue
		}
		for j := range b.visited {
			b.visited[j] = false
		}
		if b.try(i) {
			return true
		}
	}
	return false
}

// try is one step of Kuhn's depth-first search. Matches are only rewritten on
// the way back from a successful path.
func (b *bipartite) try(i int) bool {
	for j, ok := range b.allowed[i] {
		if !ok || b.visited[j] {
			continue
		}
		b.visited[j] = true
		if b.colMatch[j] < 0 || b.try(b.colMatch[j]) {
			b.match(i, j)
			return true
		}
	}
	return false
}
