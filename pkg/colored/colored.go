// Package colored reduces vertex-colored, edge-labeled graphs to the plain
// directed graphs the engine works on, and maps engine output back.
//
// Vertex colors become cells of the initial ordered partition, ordered
// lexicographically by color. Every labeled edge u -l-> v is replaced by a
// fresh intermediate vertex x with arcs u -> x and x -> v; all
// intermediates carrying the same label form one additional cell. Because
// original vertices and intermediates live in disjoint cells, any
// automorphism or canonical labeling of the reduced graph restricts to a
// permutation of the original vertices.
package colored

import (
	"errors"
	"fmt"
	"slices"

	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/perm"
)

// ErrBadGraph is returned when a colored graph is malformed.
var ErrBadGraph = errors.New("invalid colored graph")

// Edge is a directed edge with an optional label. Unlabeled edges pass
// through the reduction unchanged.
type Edge struct {
	U, V  int
	Label string
}

// Graph is a vertex-colored, edge-labeled graph. Colors may be empty
// strings; all vertices of the same color are interchangeable. When
// Directed is false, unlabeled edges are symmetric; labeled edges are
// always directed.
type Graph struct {
	N        int
	Directed bool
	Colors   []string // len N, or nil for uncolored
	Edges    []Edge
}

// Reduced is the engine-ready form of a colored graph.
type Reduced struct {
	// Dense is the reduced directed graph: the first Orig vertices are
	// the original ones, followed by one intermediate per labeled edge.
	Dense *graph.Dense

	// Lab and Ptn encode the initial ordered partition induced by vertex
	// colors and edge labels.
	Lab []int
	Ptn []int

	// Orig is the number of original vertices.
	Orig int
}

// Reduce builds the reduced directed graph and initial partition.
func Reduce(g Graph) (*Reduced, error) {
	if g.Colors != nil && len(g.Colors) != g.N {
		return nil, fmt.Errorf("%w: %d colors for %d vertices", ErrBadGraph, len(g.Colors), g.N)
	}

	labeled := 0
	for _, e := range g.Edges {
		if e.U < 0 || e.U >= g.N || e.V < 0 || e.V >= g.N {
			return nil, fmt.Errorf("%w: edge (%d,%d) with n=%d", ErrBadGraph, e.U, e.V, g.N)
		}
		if e.Label != "" {
			labeled++
		}
	}

	total := g.N + labeled
	var edges []graph.Edge
	labelOf := make([]string, labeled)
	next := g.N
	for _, e := range g.Edges {
		if e.Label == "" {
			edges = append(edges, graph.Edge{U: e.U, V: e.V})
			if !g.Directed && e.U != e.V {
				edges = append(edges, graph.Edge{U: e.V, V: e.U})
			}
			continue
		}
		x := next
		next++
		labelOf[x-g.N] = e.Label
		edges = append(edges, graph.Edge{U: e.U, V: x}, graph.Edge{U: x, V: e.V})
	}

	dense, err := graph.NewDense(total, edges, true)
	if err != nil {
		return nil, err
	}

	lab, ptn := buildPartition(g, labelOf, total)
	return &Reduced{Dense: dense, Lab: lab, Ptn: ptn, Orig: g.N}, nil
}

// buildPartition orders cells: vertex color classes first,
// lexicographically by color, then edge-label classes lexicographically by
// label. Intermediates are namespaced so a label equal to a vertex color
// still forms a separate cell. With vertex cells leading, the original
// vertices occupy the first Orig positions of Lab throughout any search,
// since refinement only ever splits cells in place.
func buildPartition(g Graph, labelOf []string, total int) (lab, ptn []int) {
	key := make([]string, total)
	for v := 0; v < g.N; v++ {
		if g.Colors != nil {
			key[v] = "0:" + g.Colors[v]
		} else {
			key[v] = "0:"
		}
	}
	for i, l := range labelOf {
		key[g.N+i] = "1:" + l
	}

	lab = make([]int, total)
	for i := range lab {
		lab[i] = i
	}
	slices.SortStableFunc(lab, func(a, b int) int {
		switch {
		case key[a] < key[b]:
			return -1
		case key[a] > key[b]:
			return 1
		default:
			return 0
		}
	})

	ptn = make([]int, total)
	for i := 0; i < total-1; i++ {
		if key[lab[i]] == key[lab[i+1]] {
			ptn[i] = 1
		}
	}
	return lab, ptn
}

// Restrict projects a permutation of the reduced graph onto the original
// vertices. The color cells guarantee original vertices map to original
// vertices.
func (r *Reduced) Restrict(p perm.Perm) perm.Perm {
	out := make(perm.Perm, r.Orig)
	copy(out, p[:r.Orig])
	return out
}

// RestrictLabeling filters a canonical labeling of the reduced graph (a
// sequence of reduced vertices) down to the original vertices, preserving
// their canonical order. This is the reverse mapping a surface layer uses
// to rename the original vertices.
func (r *Reduced) RestrictLabeling(lab perm.Perm) perm.Perm {
	out := make(perm.Perm, 0, r.Orig)
	for _, v := range lab {
		if v < r.Orig {
			out = append(out, v)
		}
	}
	return out
}
