// Package partition implements the ordered partition the search refines, and
// the equitable refinement procedure itself.
//
// An ordered partition of 0..n-1 is a pair of arrays (Lab, Ptn). Lab is a
// permutation of the vertices; maximal contiguous runs of positions form
// cells. Ptn[i] = 0 marks a permanent cell boundary after position i;
// otherwise Ptn[i] records the search level at which the boundary after i
// became active. A boundary is active at level L iff Ptn[i] <= L, so a
// single array supports rollback to any ancestor level.
//
// The partition is discrete at level L when every boundary is active, i.e.
// every cell is a singleton; a discrete ordered partition is exactly a
// permutation of the vertices.
package partition

import (
	"errors"
	"fmt"
	"slices"
)

// Infinity is the Ptn value of a position with no cell boundary at any
// level reachable by the search.
const Infinity = 1 << 30

var (
	// ErrBadPartition is returned when a user-supplied (lab, ptn) pair is
	// not a valid ordered partition.
	ErrBadPartition = errors.New("invalid ordered partition")

	// ErrBadColoring is returned when a coloring array has the wrong length.
	ErrBadColoring = errors.New("invalid coloring")
)

// Partition is an ordered partition of 0..n-1 with level-indexed cell
// boundaries. Cells holds the cell count at the level of the most recent
// mutation.
type Partition struct {
	n     int
	Lab   []int
	Ptn   []int
	Cells int
}

// NewUnit returns the partition with all n vertices in one cell.
func NewUnit(n int) *Partition {
	p := &Partition{
		n:   n,
		Lab: make([]int, n),
		Ptn: make([]int, n),
	}
	for i := 0; i < n; i++ {
		p.Lab[i] = i
		p.Ptn[i] = Infinity
	}
	if n > 0 {
		p.Ptn[n-1] = 0
		p.Cells = 1
	}
	return p
}

// FromColors builds the initial partition for a vertex coloring: one cell
// per color value, cells ordered by ascending color, vertices within a cell
// ordered ascending. colors[v] is the color of vertex v.
func FromColors(n int, colors []int) (*Partition, error) {
	if len(colors) != n {
		return nil, fmt.Errorf("%w: %d colors for %d vertices", ErrBadColoring, len(colors), n)
	}
	p := NewUnit(n)
	if n == 0 {
		return p, nil
	}
	slices.SortStableFunc(p.Lab, func(a, b int) int {
		return colors[a] - colors[b]
	})
	p.Cells = 1
	for i := 0; i < n-1; i++ {
		if colors[p.Lab[i]] != colors[p.Lab[i+1]] {
			p.Ptn[i] = 0
			p.Cells++
		} else {
			p.Ptn[i] = Infinity
		}
	}
	p.Ptn[n-1] = 0
	return p, nil
}

// FromLabPtn validates a user-supplied (lab, ptn) pair and returns it as a
// Partition. lab must be a permutation of 0..n-1; ptn entries are
// interpreted as boundary markers: 0 ends a cell, anything else continues
// it. ptn[n-1] must be 0. The arrays are copied and non-zero entries
// normalized to Infinity.
func FromLabPtn(lab, ptn []int) (*Partition, error) {
	n := len(lab)
	if len(ptn) != n {
		return nil, fmt.Errorf("%w: lab has %d entries, ptn has %d", ErrBadPartition, n, len(ptn))
	}
	seen := make([]bool, n)
	for i, v := range lab {
		if v < 0 || v >= n {
			return nil, fmt.Errorf("%w: lab[%d] = %d out of range", ErrBadPartition, i, v)
		}
		if seen[v] {
			return nil, fmt.Errorf("%w: vertex %d duplicated in lab", ErrBadPartition, v)
		}
		seen[v] = true
	}
	if n > 0 && ptn[n-1] != 0 {
		return nil, fmt.Errorf("%w: ptn[%d] must be 0", ErrBadPartition, n-1)
	}

	p := &Partition{n: n, Lab: slices.Clone(lab), Ptn: make([]int, n)}
	for i := 0; i < n; i++ {
		if ptn[i] == 0 {
			p.Ptn[i] = 0
			p.Cells++
		} else {
			p.Ptn[i] = Infinity
		}
	}
	return p, nil
}

// N returns the number of vertices.
func (p *Partition) N() int { return p.n }

// CellEnd returns the last position of the cell starting at start, at the
// given level.
func (p *Partition) CellEnd(start, level int) int {
	i := start
	for p.Ptn[i] > level {
		i++
	}
	return i
}

// IsDiscrete reports whether every cell is a singleton at the given level.
func (p *Partition) IsDiscrete(level int) bool {
	for i := 0; i < p.n-1; i++ {
		if p.Ptn[i] > level {
			return false
		}
	}
	return true
}

// CountCells returns the number of cells at the given level.
func (p *Partition) CountCells(level int) int {
	if p.n == 0 {
		return 0
	}
	cells := 1
	for i := 0; i < p.n-1; i++ {
		if p.Ptn[i] <= level {
			cells++
		}
	}
	return cells
}

// TargetCell returns the start position of the first non-singleton cell at
// the given level, or -1 if the partition is discrete.
func (p *Partition) TargetCell(level int) int {
	for start := 0; start < p.n; start = p.CellEnd(start, level) + 1 {
		if p.Ptn[start] > level {
			return start
		}
	}
	return -1
}

// Individualize promotes vertex v, which must be a member of the cell
// starting at start, to a singleton cell at the front of that cell. The new
// boundary carries the given level so it disappears on rollback above it.
func (p *Partition) Individualize(level, start, v int) {
	pos := start
	for p.Lab[pos] != v {
		pos++
	}
	p.Lab[pos] = p.Lab[start]
	p.Lab[start] = v
	p.Ptn[start] = level
	p.Cells++
}

// CopyFrom overwrites p with the contents of o. Both must have the same n.
func (p *Partition) CopyFrom(o *Partition) {
	copy(p.Lab, o.Lab)
	copy(p.Ptn, o.Ptn)
	p.Cells = o.Cells
}

// Clone returns a deep copy.
func (p *Partition) Clone() *Partition {
	return &Partition{
		n:     p.n,
		Lab:   slices.Clone(p.Lab),
		Ptn:   slices.Clone(p.Ptn),
		Cells: p.Cells,
	}
}

// ToPerm returns Lab as a permutation array. Only meaningful when the
// partition is discrete.
func (p *Partition) ToPerm() []int {
	return slices.Clone(p.Lab)
}
