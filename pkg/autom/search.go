package autom

import (
	"slices"

	"github.com/isoclass/isoclass/pkg/partition"
	"github.com/isoclass/isoclass/pkg/perm"
)

// searcher owns all working state of one search call. Everything is
// allocated up front, sized by n, and reused across tree nodes; per-level
// snapshots and child lists grow lazily to the depth actually reached.
type searcher struct {
	eng  store
	n    int
	opts *Options

	p *partition.Partition
	r *partition.Refiner

	orbits     perm.Orbits
	orbitCount int
	gens       []perm.Perm

	// First path state.
	haveFirst  bool
	firstLevel int
	firstLab   []int
	firstCode  []int // per-level refinement codes of the first path
	firstTC    []int // target-cell start per level on the first path

	// Canonical competition state.
	haveCanon bool
	canonLab  []int
	canonCode []int
	canonGr   relabeledGraph

	// Greatest-common-ancestor and deepest-code-match levels of the
	// current path against the first and canonical paths.
	eqlevFirst, gcaFirst int
	eqlevCanon, gcaCanon int

	curCode []int // codes along the current path

	snaps    []*partition.Partition
	kids     [][]int
	imgbuf   []int
	size     GroupSize
	stats    Stats
	maxLevel int
	aborted  bool
}

func newSearcher(eng store, opts *Options) (*searcher, error) {
	if opts == nil {
		opts = &Options{}
	}
	n := eng.order()

	var p *partition.Partition
	if opts.Lab != nil || opts.Ptn != nil {
		var err error
		p, err = partition.FromLabPtn(opts.Lab, opts.Ptn)
		if err != nil {
			return nil, err
		}
		if p.N() != n {
			return nil, partition.ErrBadPartition
		}
	} else {
		p = partition.NewUnit(n)
	}

	depth := n + 2
	return &searcher{
		eng:        eng,
		n:          n,
		opts:       opts,
		p:          p,
		r:          partition.NewRefiner(n),
		orbits:     perm.NewOrbits(n),
		orbitCount: n,
		firstLab:   make([]int, n),
		firstCode:  make([]int, depth),
		firstTC:    make([]int, depth),
		canonLab:   make([]int, n),
		canonCode:  make([]int, depth),
		curCode:    make([]int, depth),
		snaps:      make([]*partition.Partition, depth),
		kids:       make([][]int, depth),
		imgbuf:     make([]int, n),
		size:       newGroupSize(),
	}, nil
}

func (s *searcher) run() {
	if s.n == 0 {
		return
	}
	s.r.Reset()
	s.r.ActivateAll(s.p, 0)
	s.curCode[0] = s.eng.refine(s.r, s.p, 0)
	s.node(0)
}

// node processes the search-tree node at the given level. The partition has
// been refined at this level and the per-level code recorded by the caller.
func (s *searcher) node(level int) {
	if s.opts.Abort.IsSet() {
		s.aborted = true
		return
	}
	s.stats.Nodes++
	if level > s.stats.MaxLevel {
		s.stats.MaxLevel = level
	}
	if level > s.maxLevel {
		s.maxLevel = level
		if s.opts.Hooks.OnLevel != nil {
			s.opts.Hooks.OnLevel(level)
		}
	}

	tc := s.p.TargetCell(level)
	if tc < 0 {
		if s.opts.Hooks.OnNode != nil {
			s.opts.Hooks.OnNode(level, 0)
		}
		s.leaf(level)
		return
	}
	tcEnd := s.p.CellEnd(tc, level)
	tcSize := tcEnd - tc + 1
	s.stats.TargetCellTotal += tcSize
	if s.opts.Hooks.OnNode != nil {
		s.opts.Hooks.OnNode(level, tcSize)
	}

	onFirstPath := !s.haveFirst
	snap := s.snapshot(level)
	kids := s.childList(level, snap.Lab[tc:tcEnd+1])
	tv1 := kids[0]

	for idx, v := range kids {
		// On the first path every automorphism found so far stabilizes
		// this node's individualized prefix, so a non-representative
		// vertex is equivalent to its orbit representative and its
		// subtree would repeat the representative's. Off the first path
		// that guarantee is gone and siblings are kept.
		if idx > 0 && onFirstPath && s.orbits.Find(v) != v {
			continue
		}
		if idx > 0 {
			s.p.CopyFrom(snap)
		}
		child := level + 1
		s.p.Individualize(child, tc, v)
		s.r.Reset()
		s.r.Activate(tc)
		code := s.eng.refine(s.r, s.p, child)
		s.curCode[child] = code

		if !s.haveFirst {
			// Leftmost descent: record the path as the reference.
			s.firstCode[child] = code
			s.firstTC[child] = tc
			s.eqlevFirst = child
			s.node(child)
			s.eqlevFirst = level
		} else {
			eqFirst := s.eqlevFirst == level && child <= s.firstLevel && code == s.firstCode[child]
			eqCanon := s.haveCanon && s.eqlevCanon == level && code == s.canonCode[child]
			if !eqFirst && !s.opts.GetCanon {
				s.stats.BadLeaves++
				continue
			}
			savedF, savedC := s.eqlevFirst, s.eqlevCanon
			if eqFirst {
				s.eqlevFirst = child
			}
			if eqCanon {
				s.eqlevCanon = child
			}
			s.node(child)
			s.eqlevFirst, s.eqlevCanon = savedF, savedC
		}
		if s.aborted {
			return
		}
	}

	// Orbit-stabilizer step: the index of the point stabilizer of tv1 is
	// the size of tv1's orbit within the target cell.
	if onFirstPath {
		index := 0
		for _, v := range kids {
			if s.orbits.Same(v, tv1) {
				index++
			}
		}
		s.size.MultiplyInt(index)
	}
}

// leaf processes a discrete partition: the first one becomes the reference
// labeling, later ones are candidate automorphisms or canonical leaves.
func (s *searcher) leaf(level int) {
	lab := s.p.Lab

	if !s.haveFirst {
		s.haveFirst = true
		s.firstLevel = level
		copy(s.firstLab, lab)
		s.gcaFirst, s.eqlevFirst = level, level
		if s.opts.GetCanon {
			s.adoptCanon(level, lab, s.eng.relabel(lab))
			s.stats.CanonUpdates = 1
		}
		return
	}

	// Candidate automorphism against the first leaf, skipped when the code
	// trace already diverged above this leaf.
	if level == s.firstLevel && s.eqlevFirst == level {
		for i := 0; i < s.n; i++ {
			s.imgbuf[s.firstLab[i]] = lab[i]
		}
		if s.eng.isAutomorphism(s.imgbuf) {
			s.handleAutomorphism(s.imgbuf)
			return
		}
	}

	if !s.opts.GetCanon {
		s.stats.BadLeaves++
		return
	}

	cand := s.eng.relabel(lab)
	cmp := cand.compareTo(s.canonGr)
	switch {
	case cmp == 0:
		// Identical relabeled graphs: the map from the canonical leaf's
		// labeling to this one is an automorphism.
		for i := 0; i < s.n; i++ {
			s.imgbuf[s.canonLab[i]] = lab[i]
		}
		s.handleAutomorphism(s.imgbuf)
	case cmp < 0:
		s.adoptCanon(level, lab, cand)
		s.stats.CanonUpdates++
		if s.opts.Hooks.OnCanonicalUpdate != nil {
			s.opts.Hooks.OnCanonicalUpdate(level)
		}
	default:
		s.stats.BadLeaves++
	}
}

// adoptCanon installs the given leaf as the canonical one.
func (s *searcher) adoptCanon(level int, lab []int, gr relabeledGraph) {
	copy(s.canonLab, lab)
	copy(s.canonCode[:level+1], s.curCode[:level+1])
	s.canonGr = gr
	s.haveCanon = true
	s.gcaCanon, s.eqlevCanon = level, level
}

// handleAutomorphism merges the permutation's orbits, retains it as a
// generator when the merge strictly reduced the orbit count, and invokes
// the automorphism hook.
func (s *searcher) handleAutomorphism(images []int) {
	pp := perm.Perm(slices.Clone(images))
	count := s.orbits.JoinPerm(pp)
	if count < s.orbitCount {
		s.orbitCount = count
		s.gens = append(s.gens, pp)
	}
	if s.opts.Hooks.OnAutomorphism != nil {
		s.opts.Hooks.OnAutomorphism(pp, s.orbits, pp.Fixed())
	}
}

func (s *searcher) snapshot(level int) *partition.Partition {
	if s.snaps[level] == nil {
		s.snaps[level] = s.p.Clone()
		return s.snaps[level]
	}
	s.snaps[level].CopyFrom(s.p)
	return s.snaps[level]
}

func (s *searcher) childList(level int, cell []int) []int {
	if s.kids[level] == nil {
		s.kids[level] = make([]int, 0, s.n)
	}
	s.kids[level] = append(s.kids[level][:0], cell...)
	return s.kids[level]
}

func (s *searcher) result() *Result {
	res := &Result{
		Generators: s.gens,
		GroupSize:  s.size,
		Orbits:     s.orbits,
		NumOrbits:  s.orbitCount,
		Stats:      s.stats,
	}
	if s.aborted {
		res.Status = StatusAborted
	}
	if s.n == 0 {
		res.Orbits = perm.NewOrbits(0)
		res.NumOrbits = 0
	}
	if s.opts.GetCanon && s.haveCanon {
		res.CanonPerm = perm.Perm(slices.Clone(s.canonLab))
		s.eng.storeCanon(s.canonLab, res)
	}
	if s.opts.GetCanon && s.n == 0 {
		res.CanonPerm = perm.Perm{}
		s.eng.storeCanon(nil, res)
	}
	return res
}
