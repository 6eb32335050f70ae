package autom

import (
	"math/big"

	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/perm"
)

// Status reports how a search ended.
type Status int

const (
	// StatusOK means the search ran to completion.
	StatusOK Status = iota

	// StatusAborted means a hook raised the abort flag. Generators found
	// so far are valid automorphisms; orbits and group order are
	// best-effort.
	StatusAborted
)

// Stats are the search counters.
type Stats struct {
	Nodes           int // search-tree nodes visited
	BadLeaves       int // leaves pruned by code mismatch
	MaxLevel        int // deepest level reached
	TargetCellTotal int // sum of target-cell sizes over all internal nodes
	CanonUpdates    int // times a better canonical leaf was adopted
}

// GroupSize is the group order as mantissa * 10^exponent. The mantissa is
// rescaled whenever it reaches 1e10, preserving about sixteen significant
// digits for groups of any order.
type GroupSize struct {
	Mantissa float64
	Exponent int
}

func newGroupSize() GroupSize {
	return GroupSize{Mantissa: 1}
}

// MultiplyInt scales the size by an integer factor, rescaling the mantissa
// into range.
func (s *GroupSize) MultiplyInt(factor int) {
	s.Mantissa *= float64(factor)
	for s.Mantissa >= 1e10 {
		s.Mantissa /= 1e10
		s.Exponent += 10
	}
}

// Float returns the order as a float64; +Inf for orders beyond its range.
func (s GroupSize) Float() float64 {
	v := s.Mantissa
	for e := 0; e < s.Exponent; e += 10 {
		v *= 1e10
	}
	return v
}

// Result is the immutable output of a search.
type Result struct {
	Status Status

	// Generators are the retained automorphisms: each strictly reduced the
	// orbit count when discovered, so none is a product of earlier ones.
	Generators []perm.Perm

	// GroupSize is the group order accumulated by the orbit-stabilizer
	// product along the first path.
	GroupSize GroupSize

	// ExactOrder is the Schreier-Sims group order; nil unless
	// Options.Exact was set.
	ExactOrder *big.Int

	// Orbits is the vertex orbit structure under the full group;
	// NumOrbits its class count.
	Orbits    perm.Orbits
	NumOrbits int

	// CanonPerm is the canonical relabeling; nil unless Options.GetCanon.
	// Applying it to the input graph yields CanonDense / CanonSparse.
	CanonPerm   perm.Perm
	CanonDense  *graph.Dense
	CanonSparse *graph.Sparse

	Stats Stats
}
