package autom

import (
	"sort"

	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/partition"
)

// store is the operation set the driver needs from an adjacency
// representation: refinement, automorphism verification, and building the
// relabeled graph for the canonical competition. The two implementations
// keep the refinement hot path monomorphic inside partition.Refiner.
type store interface {
	order() int
	refine(r *partition.Refiner, p *partition.Partition, level int) int
	isAutomorphism(images []int) bool
	relabel(lab []int) relabeledGraph
	storeCanon(lab []int, res *Result)
}

// relabeledGraph is a relabeled adjacency structure ordered by the
// canonical total order.
type relabeledGraph interface {
	compareTo(other relabeledGraph) int
}

// ---- dense ----

type denseStore struct {
	g *graph.Dense
}

func (s denseStore) order() int { return s.g.Order() }

func (s denseStore) refine(r *partition.Refiner, p *partition.Partition, level int) int {
	return r.RefineDense(s.g, p, level)
}

// isAutomorphism verifies that every edge (v,w) maps to an edge
// (images[v], images[w]). Because images is a permutation and the edge set
// is finite, one-directional preservation is enough.
func (s denseStore) isAutomorphism(images []int) bool {
	n := s.g.Order()
	for v := 0; v < n; v++ {
		row := s.g.Row(v)
		iv := images[v]
		for w := row.NextAfter(-1); w >= 0; w = row.NextAfter(w) {
			if !s.g.HasEdge(iv, images[w]) {
				return false
			}
		}
	}
	return true
}

type denseRelabeled struct {
	g *graph.Dense
}

func (s denseStore) relabel(lab []int) relabeledGraph {
	return denseRelabeled{g: s.g.Permute(lab)}
}

func (c denseRelabeled) compareTo(other relabeledGraph) int {
	return c.g.Compare(other.(denseRelabeled).g)
}

func (s denseStore) storeCanon(lab []int, res *Result) {
	res.CanonDense = s.g.Permute(lab)
}

// ---- sparse ----

type sparseStore struct {
	g *graph.Sparse
}

// newSparseStore sorts the adjacency lists once so membership tests can
// binary-search.
func newSparseStore(g *graph.Sparse) sparseStore {
	g.SortAdjacency()
	return sparseStore{g: g}
}

func (s sparseStore) order() int { return s.g.Order() }

func (s sparseStore) refine(r *partition.Refiner, p *partition.Partition, level int) int {
	return r.RefineSparse(s.g, p, level)
}

func (s sparseStore) isAutomorphism(images []int) bool {
	n := s.g.Order()
	for v := 0; v < n; v++ {
		iv := images[v]
		target := s.g.Neighbors(iv)
		if len(target) != s.g.Degree(v) {
			return false
		}
		for _, w := range s.g.Neighbors(v) {
			iw := images[w]
			k := sort.SearchInts(target, iw)
			if k >= len(target) || target[k] != iw {
				return false
			}
		}
	}
	return true
}

type sparseRelabeled struct {
	g *graph.Sparse
}

func (s sparseStore) relabel(lab []int) relabeledGraph {
	h := s.g.Permute(lab)
	h.SortAdjacency()
	return sparseRelabeled{g: h}
}

func (c sparseRelabeled) compareTo(other relabeledGraph) int {
	return c.g.Compare(other.(sparseRelabeled).g)
}

func (s sparseStore) storeCanon(lab []int, res *Result) {
	h := s.g.Permute(lab)
	h.SortAdjacency()
	res.CanonSparse = h
}
