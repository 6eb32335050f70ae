package graph

import (
	"fmt"
	"sort"
)

// Sparse stores adjacency CSR-style: the neighbors of v occupy
// edges[offsets[v] : offsets[v]+degree[v]]. Offsets are 64-bit so the
// packed edge array can exceed 2^31 entries.
type Sparse struct {
	n        int
	offsets  []int64
	degree   []int
	edges    []int
	directed bool
}

// NewSparse builds a sparse graph from an edge list. For undirected graphs
// each edge contributes both directions. Adjacency lists come out grouped by
// source but unsorted; call SortAdjacency before structural comparison.
func NewSparse(n int, edges []Edge, directed bool) (*Sparse, error) {
	if n < 0 || n > MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrOrderRange, n)
	}
	deg := make([]int, n)
	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("%w: (%d,%d) with n=%d", ErrVertexRange, e.U, e.V, n)
		}
		deg[e.U]++
		if !directed && e.U != e.V {
			deg[e.V]++
		}
	}

	g := &Sparse{
		n:        n,
		offsets:  make([]int64, n+1),
		degree:   make([]int, n),
		directed: directed,
	}
	for v := 0; v < n; v++ {
		g.offsets[v+1] = g.offsets[v] + int64(deg[v])
	}
	g.edges = make([]int, g.offsets[n])

	for _, e := range edges {
		g.push(e.U, e.V)
		if !directed && e.U != e.V {
			g.push(e.V, e.U)
		}
	}
	return g, nil
}

func (g *Sparse) push(v, w int) {
	g.edges[g.offsets[v]+int64(g.degree[v])] = w
	g.degree[v]++
}

// Order returns the number of vertices.
func (g *Sparse) Order() int { return g.n }

// Directed reports whether the graph was built as directed.
func (g *Sparse) Directed() bool { return g.directed }

// Degree returns the out-degree of v.
func (g *Sparse) Degree(v int) int { return g.degree[v] }

// Neighbors returns the out-neighbors of v as a view into the packed edge
// array. Callers must not modify it.
func (g *Sparse) Neighbors(v int) []int {
	start := g.offsets[v]
	return g.edges[start : start+int64(g.degree[v])]
}

// HasEdge reports whether the edge (v,w) is present. Linear in degree; this
// is only used off the refinement hot path.
func (g *Sparse) HasEdge(v, w int) bool {
	for _, x := range g.Neighbors(v) {
		if x == w {
			return true
		}
	}
	return false
}

// HasLoops reports whether any self-loop is present.
func (g *Sparse) HasLoops() bool {
	for v := 0; v < g.n; v++ {
		if g.HasEdge(v, v) {
			return true
		}
	}
	return false
}

// SortAdjacency sorts every adjacency list ascending. Required before Equal
// or Compare.
func (g *Sparse) SortAdjacency() {
	for v := 0; v < g.n; v++ {
		nb := g.Neighbors(v)
		sort.Ints(nb)
	}
}

// Permute returns the graph p(g) whose edge (i,j) is present iff g has the
// edge (p[i], p[j]). The rewrite runs through the inverse of p.
func (g *Sparse) Permute(p []int) *Sparse {
	inv := make([]int, g.n)
	for i, v := range p {
		inv[v] = i
	}
	out := &Sparse{
		n:        g.n,
		offsets:  make([]int64, g.n+1),
		degree:   make([]int, g.n),
		edges:    make([]int, len(g.edges)),
		directed: g.directed,
	}
	for i := 0; i < g.n; i++ {
		out.offsets[i+1] = out.offsets[i] + int64(g.degree[p[i]])
	}
	for i := 0; i < g.n; i++ {
		for _, w := range g.Neighbors(p[i]) {
			out.push(i, inv[w])
		}
	}
	return out
}

// Equal reports structural equality. Both graphs must have sorted adjacency.
func (g *Sparse) Equal(o *Sparse) bool {
	if g.n != o.n || len(g.edges) != len(o.edges) {
		return false
	}
	for v := 0; v < g.n; v++ {
		if g.degree[v] != o.degree[v] {
			return false
		}
		a, b := g.Neighbors(v), o.Neighbors(v)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Compare orders sparse graphs of equal order lexicographically, row by
// row: first by degree, then by the sorted neighbor list. Both graphs must
// have sorted adjacency. Returns -1, 0, or +1.
func (g *Sparse) Compare(o *Sparse) int {
	for v := 0; v < g.n; v++ {
		if g.degree[v] != o.degree[v] {
			if g.degree[v] < o.degree[v] {
				return -1
			}
			return 1
		}
		a, b := g.Neighbors(v), o.Neighbors(v)
		for i := range a {
			if a[i] != b[i] {
				if a[i] < b[i] {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// ToDense converts to the dense representation.
func (g *Sparse) ToDense() *Dense {
	out := emptyDense(g.n, true)
	out.directed = g.directed
	for v := 0; v < g.n; v++ {
		row := out.Row(v)
		for _, w := range g.Neighbors(v) {
			row.Add(w)
		}
	}
	return out
}

// DenseToSparse converts a dense graph to the sparse representation with
// sorted adjacency.
func DenseToSparse(g *Dense) *Sparse {
	out := &Sparse{
		n:        g.Order(),
		offsets:  make([]int64, g.Order()+1),
		degree:   make([]int, g.Order()),
		directed: g.Directed(),
	}
	for v := 0; v < g.Order(); v++ {
		out.offsets[v+1] = out.offsets[v] + int64(g.Degree(v))
	}
	out.edges = make([]int, out.offsets[g.Order()])
	for v := 0; v < g.Order(); v++ {
		row := g.Row(v)
		for w := row.NextAfter(-1); w >= 0; w = row.NextAfter(w) {
			out.push(v, w)
		}
	}
	return out
}
