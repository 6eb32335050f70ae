package autom

import (
	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/group"
)

// Dense runs the search on a dense graph. The result is deterministic for
// a given (graph, options) pair.
func Dense(g *graph.Dense, opts *Options) (*Result, error) {
	return search(denseStore{g: g}, opts)
}

// Sparse runs the search on a sparse graph. The input's adjacency lists
// are sorted in place. Deterministic except for the Schreier-Sims random
// products, which are reproducible under a fixed Options.Seed.
func Sparse(g *graph.Sparse, opts *Options) (*Result, error) {
	return search(newSparseStore(g), opts)
}

func search(eng store, opts *Options) (*Result, error) {
	s, err := newSearcher(eng, opts)
	if err != nil {
		return nil, err
	}
	s.run()
	res := s.result()
	if s.opts.Exact && res.Status == StatusOK {
		res.ExactOrder = group.Build(s.n, res.Generators, s.opts.seed()).Order()
	}
	return res, nil
}

// Isomorphic reports whether two dense graphs are isomorphic, by comparing
// canonical forms. Colorings supplied through opts apply to both graphs,
// so the test respects them.
func Isomorphic(g1, g2 *graph.Dense, opts *Options) (bool, error) {
	if g1.Order() != g2.Order() || g1.EdgeCount() != g2.EdgeCount() {
		return false, nil
	}
	c1, c2, err := canonPair(g1, g2, opts)
	if err != nil {
		return false, err
	}
	return c1.CanonDense.Equal(c2.CanonDense), nil
}

// IsomorphicSparse is Isomorphic for the sparse store.
func IsomorphicSparse(g1, g2 *graph.Sparse, opts *Options) (bool, error) {
	if g1.Order() != g2.Order() {
		return false, nil
	}
	var canonOpts Options
	if opts != nil {
		canonOpts = *opts
	}
	canonOpts.GetCanon = true
	r1, err := Sparse(g1, &canonOpts)
	if err != nil {
		return false, err
	}
	r2, err := Sparse(g2, &canonOpts)
	if err != nil {
		return false, err
	}
	return r1.CanonSparse.Equal(r2.CanonSparse), nil
}

func canonPair(g1, g2 *graph.Dense, opts *Options) (*Result, *Result, error) {
	var canonOpts Options
	if opts != nil {
		canonOpts = *opts
	}
	canonOpts.GetCanon = true
	r1, err := Dense(g1, &canonOpts)
	if err != nil {
		return nil, nil, err
	}
	r2, err := Dense(g2, &canonOpts)
	if err != nil {
		return nil, nil, err
	}
	return r1, r2, nil
}
