// Package autom computes automorphism groups and canonical labelings of
// finite graphs.
//
// The engine is a single backtracking search over an equitable-partition
// refinement tree: refinement produces label-independent codes that drive
// the tree traversal, discrete leaves produce candidate permutations,
// verified automorphisms merge vertex orbits, and the orbits feed back into
// pruning and into the orbit-stabilizer product that yields the group
// order. With canonicalization enabled the search additionally keeps the
// lexicographically least relabeled graph over all explored leaves, whose
// labeling is the canonical one: two graphs are isomorphic iff their
// canonical forms are identical.
//
// Entry points are [Dense] and [Sparse], one per adjacency store, plus
// [Isomorphic] for direct isomorphism testing. A single call is
// single-threaded and synchronous; independent calls are safe to run
// concurrently.
package autom

import (
	"github.com/isoclass/isoclass/pkg/perm"
)

// DefaultSeed seeds the Schreier-Sims random products when Options.Seed is
// zero. Fixing the seed makes the exact-order computation reproducible.
const DefaultSeed int64 = 1

// AbortFlag is a cooperative cancellation flag. A hook may call Set; the
// driver observes the flag between refinement and recursion and unwinds,
// marking the result as aborted. No operation is interrupted mid-refinement.
type AbortFlag struct {
	set bool
}

// Set raises the flag.
func (f *AbortFlag) Set() { f.set = true }

// IsSet reports whether the flag has been raised.
func (f *AbortFlag) IsSet() bool { return f != nil && f.set }

// Hooks are optional callbacks invoked synchronously on the calling
// goroutine during the search. Hooks must not mutate engine state; they may
// set an AbortFlag.
type Hooks struct {
	// OnAutomorphism is invoked for every automorphism the search finds,
	// whether or not it is retained as a generator, with the orbit
	// structure after merging it and its fixed-point count.
	OnAutomorphism func(gen perm.Perm, orbits perm.Orbits, fixed int)

	// OnLevel is invoked when the search first reaches a new level.
	OnLevel func(level int)

	// OnNode is invoked for every tree node, with the node's level and the
	// size of its target cell (0 at leaves).
	OnNode func(level, targetCellSize int)

	// OnCanonicalUpdate is invoked whenever a better canonical leaf is
	// adopted.
	OnCanonicalUpdate func(level int)
}

// Options selects engine behavior. The zero value computes generators,
// orbits, and group order for an uncolored graph without canonicalization.
type Options struct {
	// GetCanon enables the canonical-leaf competition and the canonical
	// labeling and graph in the result.
	GetCanon bool

	// Lab and Ptn supply an initial ordered partition (vertex coloring).
	// Both nil means the unit partition. See partition.FromLabPtn for the
	// format.
	Lab []int
	Ptn []int

	// Exact additionally runs a Schreier-Sims base-and-strong-generating-set
	// construction over the discovered generators, producing the exact
	// group order as a big integer in Result.ExactOrder. The chain itself
	// is not kept in the result.
	Exact bool

	// Seed seeds the Schreier-Sims random products. Zero means DefaultSeed.
	Seed int64

	// Abort, when non-nil, is polled at node boundaries.
	Abort *AbortFlag

	// Hooks are the optional progress callbacks.
	Hooks Hooks
}

func (o *Options) seed() int64 {
	if o == nil || o.Seed == 0 {
		return DefaultSeed
	}
	return o.Seed
}
