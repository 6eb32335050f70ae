// Package graph provides the two adjacency stores the engine refines over:
// a dense store with one bit row per vertex, and a sparse CSR-style store
// with packed neighbor arrays.
//
// Both stores expose the same operation set (order, degree, edge test,
// neighbor iteration, permutation, structural comparison) so the search
// driver can be written once per store without virtual dispatch on the
// refinement hot path.
//
// Vertices are integers 0..n-1 with n < 2^30. For undirected graphs both
// (v,w) and (w,v) are stored; self-loops are permitted and stored once, as
// the vertex's own bit or entry. The engine refines over the stored
// adjacency as it is and does not check for loops.
package graph

import (
	"errors"
	"fmt"

	"github.com/isoclass/isoclass/pkg/bitvec"
)

var (
	// ErrVertexRange is returned when an edge endpoint is outside 0..n-1.
	ErrVertexRange = errors.New("edge endpoint out of range")

	// ErrOrderRange is returned when the vertex count is negative or
	// exceeds the representable limit of 2^30-1.
	ErrOrderRange = errors.New("vertex count out of range")
)

// MaxOrder is the largest supported vertex count.
const MaxOrder = 1<<30 - 1

// Edge is a directed or undirected edge between two vertices.
type Edge struct {
	U, V int
}

// Dense stores adjacency as n rows of m = ⌈n/64⌉ words each.
// Row v holds the out-neighbors of v as a bit vector.
type Dense struct {
	n        int
	m        int
	rows     []uint64
	directed bool
}

// NewDense builds a dense graph from an edge list. For undirected graphs
// both endpoint bits are set. Returns ErrOrderRange or ErrVertexRange on
// invalid input.
func NewDense(n int, edges []Edge, directed bool) (*Dense, error) {
	if n < 0 || n > MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrOrderRange, n)
	}
	g := emptyDense(n, directed)
	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("%w: (%d,%d) with n=%d", ErrVertexRange, e.U, e.V, n)
		}
		g.addEdge(e.U, e.V)
	}
	return g, nil
}

func emptyDense(n int, directed bool) *Dense {
	m := bitvec.WordsFor(n)
	return &Dense{n: n, m: m, rows: make([]uint64, n*m), directed: directed}
}

func (g *Dense) addEdge(v, w int) {
	g.Row(v).Add(w)
	if !g.directed {
		g.Row(w).Add(v)
	}
}

// Order returns the number of vertices.
func (g *Dense) Order() int { return g.n }

// Words returns the number of words per adjacency row.
func (g *Dense) Words() int { return g.m }

// Directed reports whether the graph was built as directed.
func (g *Dense) Directed() bool { return g.directed }

// Row returns the adjacency row of v as a bit vector view.
// The view aliases the graph's storage; callers must not modify it.
func (g *Dense) Row(v int) bitvec.Set {
	return bitvec.Set(g.rows[v*g.m : (v+1)*g.m])
}

// HasEdge reports whether the edge (v,w) is present.
func (g *Dense) HasEdge(v, w int) bool {
	return g.Row(v).Has(w)
}

// Degree returns the out-degree of v.
func (g *Dense) Degree(v int) int {
	return g.Row(v).Size()
}

// Neighbors returns the out-neighbors of v in ascending order.
func (g *Dense) Neighbors(v int) []int {
	row := g.Row(v)
	out := make([]int, 0, row.Size())
	for w := row.NextAfter(-1); w >= 0; w = row.NextAfter(w) {
		out = append(out, w)
	}
	return out
}

// EdgeCount returns the number of stored directed edges; for an undirected
// graph each edge counts once.
func (g *Dense) EdgeCount() int {
	total := 0
	loops := 0
	for v := 0; v < g.n; v++ {
		total += g.Degree(v)
		if g.HasEdge(v, v) {
			loops++
		}
	}
	if g.directed {
		return total
	}
	return (total + loops) / 2
}

// HasLoops reports whether any self-loop is present.
func (g *Dense) HasLoops() bool {
	for v := 0; v < g.n; v++ {
		if g.HasEdge(v, v) {
			return true
		}
	}
	return false
}

// Permute returns the graph p(g) whose edge (i,j) is present iff g has the
// edge (p[i], p[j]). p must be a permutation of 0..n-1.
func (g *Dense) Permute(p []int) *Dense {
	out := emptyDense(g.n, g.directed)
	for i := 0; i < g.n; i++ {
		src := g.Row(p[i])
		dst := out.Row(i)
		for j := 0; j < g.n; j++ {
			if src.Has(p[j]) {
				dst.Add(j)
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (g *Dense) Clone() *Dense {
	out := emptyDense(g.n, g.directed)
	copy(out.rows, g.rows)
	return out
}

// Equal reports bit-identical adjacency.
func (g *Dense) Equal(o *Dense) bool {
	if g.n != o.n {
		return false
	}
	for i := range g.rows {
		if g.rows[i] != o.rows[i] {
			return false
		}
	}
	return true
}

// Compare orders graphs of equal order lexicographically on their rows,
// treating each word as unsigned. It returns -1, 0, or +1. This is the
// total order the canonical competition minimizes over.
func (g *Dense) Compare(o *Dense) int {
	for i := range g.rows {
		switch {
		case g.rows[i] < o.rows[i]:
			return -1
		case g.rows[i] > o.rows[i]:
			return 1
		}
	}
	return 0
}
