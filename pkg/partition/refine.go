package partition

import (
	"github.com/isoclass/isoclass/pkg/bitvec"
	"github.com/isoclass/isoclass/pkg/graph"
)

// Refinement code parameters. The code is a 15-bit running hash of the
// refinement trace; it depends only on the structure of the splits, never on
// vertex identities, so it can be compared across sibling search paths.
const (
	mashConst = 0x6B1D
	codeMask  = 0x7FFF
)

func mash(code, contribution int) int {
	return ((code ^ mashConst) + contribution) & codeMask
}

// Refiner drives an ordered partition to an equitable one. It owns the
// active set of pending splitter cells and all scratch arrays, so a single
// Refiner is reused across every node of a search. Not safe for concurrent
// use.
type Refiner struct {
	n       int
	active  bitvec.Set // cell-start positions not yet used as splitters
	splitst bitvec.Set // dense splitter vertex set
	counts  []int      // adjacency count per lab position
	vcount  []int      // adjacency count per vertex (sparse)
	touched []int      // vertices with nonzero vcount, for O(deg) reset
	bucket  []int      // bucket-sort offsets, indexed by count value
	scratch []int      // sorted cell members
	dist    []int      // BFS distance labels
	queue   []int
	hint    int // start of the smallest fragment of the last split
}

// NewRefiner returns a Refiner for graphs on n vertices.
func NewRefiner(n int) *Refiner {
	return &Refiner{
		n:       n,
		active:  bitvec.New(n),
		splitst: bitvec.New(n),
		counts:  make([]int, n),
		vcount:  make([]int, n),
		touched: make([]int, 0, n),
		bucket:  make([]int, n+2),
		scratch: make([]int, n),
		dist:    make([]int, n),
		queue:   make([]int, 0, n),
		hint:    -1,
	}
}

// Activate marks the cell starting at pos as a pending splitter.
func (r *Refiner) Activate(pos int) {
	r.active.Add(pos)
}

// ActivateAll marks every cell of p at the given level as a pending
// splitter.
func (r *Refiner) ActivateAll(p *Partition, level int) {
	for start := 0; start < p.n; start = p.CellEnd(start, level) + 1 {
		r.active.Add(start)
	}
}

// Reset empties the active set and clears the splitter hint.
func (r *Refiner) Reset() {
	r.active.Clear()
	r.hint = -1
}

// RefineDense refines p at the given level until it is equitable with
// respect to g or discrete, consuming the active set. It returns the
// refinement code.
func (r *Refiner) RefineDense(g *graph.Dense, p *Partition, level int) int {
	code := 0
	for p.Cells < p.n {
		s, ok := r.takeSplitter()
		if !ok {
			break
		}
		se := p.CellEnd(s, level)
		r.splitst.Clear()
		for i := s; i <= se; i++ {
			r.splitst.Add(p.Lab[i])
		}
		code = mash(code, s)

		for start := 0; start < p.n; {
			end := p.CellEnd(start, level)
			if end == start {
				start = end + 1
				continue
			}
			minC := bitvec.AndSize(g.Row(p.Lab[start]), r.splitst)
			maxC := minC
			r.counts[start] = minC
			for i := start + 1; i <= end; i++ {
				c := bitvec.AndSize(g.Row(p.Lab[i]), r.splitst)
				r.counts[i] = c
				if c < minC {
					minC = c
				}
				if c > maxC {
					maxC = c
				}
			}
			if minC == maxC {
				code = mash(code, minC)
			} else {
				code = r.splitCell(p, level, start, end, minC, maxC, code)
			}
			start = end + 1
		}
		code = mash(code, p.Cells)
	}
	if p.Cells == p.n {
		r.Reset()
	}
	return code
}

// RefineSparse is RefineDense for the CSR store: each splitter vertex walks
// its own adjacency list instead of taking a bit-row intersection. At
// shallow levels with a lone singleton splitter and a coarse partition it
// refines by breadth-first distance from the singleton in one pass.
func (r *Refiner) RefineSparse(g *graph.Sparse, p *Partition, level int) int {
	code := 0
	if level <= 2 && p.Cells <= p.n/8 {
		if s, ok := r.loneSingleton(p, level); ok {
			code = r.distanceRefine(g, p, level, s, code)
		}
	}
	for p.Cells < p.n {
		s, ok := r.takeSplitter()
		if !ok {
			break
		}
		se := p.CellEnd(s, level)
		code = mash(code, s)

		r.touched = r.touched[:0]
		for i := s; i <= se; i++ {
			for _, w := range g.Neighbors(p.Lab[i]) {
				if r.vcount[w] == 0 {
					r.touched = append(r.touched, w)
				}
				r.vcount[w]++
			}
		}

		for start := 0; start < p.n; {
			end := p.CellEnd(start, level)
			if end == start {
				start = end + 1
				continue
			}
			minC := r.vcount[p.Lab[start]]
			maxC := minC
			r.counts[start] = minC
			for i := start + 1; i <= end; i++ {
				c := r.vcount[p.Lab[i]]
				r.counts[i] = c
				if c < minC {
					minC = c
				}
				if c > maxC {
					maxC = c
				}
			}
			if minC == maxC {
				code = mash(code, minC)
			} else {
				code = r.splitCell(p, level, start, end, minC, maxC, code)
			}
			start = end + 1
		}
		for _, w := range r.touched {
			r.vcount[w] = 0
		}
		code = mash(code, p.Cells)
	}
	if p.Cells == p.n {
		r.Reset()
	}
	return code
}

// takeSplitter removes and returns the next splitter cell start, preferring
// the hinted smallest fragment of the previous split when it is still
// pending.
func (r *Refiner) takeSplitter() (int, bool) {
	s := -1
	if r.hint >= 0 && r.active.Has(r.hint) {
		s = r.hint
	} else {
		s = r.active.First()
	}
	r.hint = -1
	if s < 0 {
		return 0, false
	}
	r.active.Remove(s)
	return s, true
}

// loneSingleton reports whether the active set holds exactly one cell and
// that cell is a singleton, returning its start position.
func (r *Refiner) loneSingleton(p *Partition, level int) (int, bool) {
	s := r.active.First()
	if s < 0 || r.active.NextAfter(s) >= 0 {
		return 0, false
	}
	if p.CellEnd(s, level) != s {
		return 0, false
	}
	return s, true
}

// distanceRefine splits every non-singleton cell by breadth-first distance
// from the vertex in the singleton cell at start s, consuming that cell as
// a splitter. Unreached vertices sort last with distance n.
func (r *Refiner) distanceRefine(g *graph.Sparse, p *Partition, level, s, code int) int {
	r.active.Remove(s)
	code = mash(code, s)

	source := p.Lab[s]
	for i := range r.dist {
		r.dist[i] = p.n
	}
	r.dist[source] = 0
	r.queue = r.queue[:0]
	r.queue = append(r.queue, source)
	for head := 0; head < len(r.queue); head++ {
		v := r.queue[head]
		for _, w := range g.Neighbors(v) {
			if r.dist[w] == p.n {
				r.dist[w] = r.dist[v] + 1
				r.queue = append(r.queue, w)
			}
		}
	}

	for start := 0; start < p.n; {
		end := p.CellEnd(start, level)
		if end == start {
			start = end + 1
			continue
		}
		minC := r.dist[p.Lab[start]]
		maxC := minC
		r.counts[start] = minC
		for i := start + 1; i <= end; i++ {
			c := r.dist[p.Lab[i]]
			r.counts[i] = c
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
		if minC == maxC {
			code = mash(code, minC)
		} else {
			code = r.splitCell(p, level, start, end, minC, maxC, code)
		}
		start = end + 1
	}
	return mash(code, p.Cells)
}

// splitCell bucket-sorts the members of the cell [start..end] by their
// counts, rewrites Lab with the sorted order, installs the new fragment
// boundaries at the given level, and updates the active set: if the cell
// was itself pending as a splitter every fragment becomes pending,
// otherwise all but the largest do. The smallest fragment becomes the
// splitter hint.
func (r *Refiner) splitCell(p *Partition, level, start, end, minC, maxC, code int) int {
	wasActive := r.active.Has(start)

	for c := minC; c <= maxC; c++ {
		r.bucket[c] = 0
	}
	for i := start; i <= end; i++ {
		r.bucket[r.counts[i]]++
	}
	off := start
	for c := minC; c <= maxC; c++ {
		sz := r.bucket[c]
		r.bucket[c] = off
		off += sz
	}
	for i := start; i <= end; i++ {
		c := r.counts[i]
		r.scratch[r.bucket[c]] = p.Lab[i]
		r.bucket[c]++
	}
	copy(p.Lab[start:end+1], r.scratch[start:end+1])

	// After the scatter pass r.bucket[c] is one past the last position of
	// the fragment with count c, i.e. the next fragment's start.
	if wasActive {
		r.active.Remove(start)
	}
	fragStart := start
	largestStart, largestSize := -1, 0
	smallestStart, smallestSize := -1, p.n+1
	for c := minC; c <= maxC; c++ {
		fragEnd := r.bucket[c] - 1
		if fragEnd < fragStart {
			continue // empty bucket
		}
		code = mash(code, c)
		code = mash(code, fragStart)
		if fragEnd < end {
			p.Ptn[fragEnd] = level
			p.Cells++
		}
		size := fragEnd - fragStart + 1
		if size > largestSize {
			largestSize, largestStart = size, fragStart
		}
		if size < smallestSize {
			smallestSize, smallestStart = size, fragStart
		}
		r.active.Add(fragStart)
		fragStart = fragEnd + 1
	}
	if !wasActive {
		r.active.Remove(largestStart)
	}
	r.hint = smallestStart
	return code
}
