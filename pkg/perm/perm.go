// Package perm provides permutations of 0..n-1 and vertex orbits under a
// permutation group.
//
// A [Perm] is an immutable array of images: p[i] is the image of i. Orbits
// are maintained as a union-find whose roots are always the smallest vertex
// of each orbit, so orbit representatives are canonical.
package perm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/isoclass/isoclass/pkg/bitvec"
)

var (
	// ErrNotPermutation is returned by FromSlice when the input is not a
	// permutation of 0..n-1.
	ErrNotPermutation = errors.New("not a permutation")

	// ErrLengthMismatch is returned when two permutations of different
	// degree are combined.
	ErrLengthMismatch = errors.New("permutation length mismatch")

	// ErrBoundExceeded is returned by Elements when the generated group
	// is larger than the caller-supplied bound.
	ErrBoundExceeded = errors.New("group size bound exceeded")
)

// Perm is a permutation of 0..n-1, stored as the array of images.
// Treat values as immutable once constructed.
type Perm []int

// Identity returns the identity permutation on n points.
func Identity(n int) Perm {
	p := make(Perm, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// FromSlice validates that images is a permutation of 0..n-1 and returns it
// as a Perm. The slice is copied.
func FromSlice(images []int) (Perm, error) {
	seen := make([]bool, len(images))
	for i, v := range images {
		if v < 0 || v >= len(images) {
			return nil, fmt.Errorf("%w: image %d at position %d", ErrNotPermutation, v, i)
		}
		if seen[v] {
			return nil, fmt.Errorf("%w: duplicate image %d", ErrNotPermutation, v)
		}
		seen[v] = true
	}
	return slices.Clone(images), nil
}

// Len returns the degree n.
func (p Perm) Len() int { return len(p) }

// Apply returns the image of i.
func (p Perm) Apply(i int) int { return p[i] }

// IsIdentity reports whether p fixes every point.
func (p Perm) IsIdentity() bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

// Equal reports whether p and q are the same permutation.
func (p Perm) Equal(q Perm) bool {
	return slices.Equal(p, q)
}

// Compose returns p∘q, the permutation mapping i to p[q[i]].
func (p Perm) Compose(q Perm) Perm {
	out := make(Perm, len(p))
	for i := range out {
		out[i] = p[q[i]]
	}
	return out
}

// Inverse returns the permutation q with q[p[i]] = i.
func (p Perm) Inverse() Perm {
	out := make(Perm, len(p))
	for i, v := range p {
		out[v] = i
	}
	return out
}

// Cycles returns the cycle decomposition, each cycle starting at its
// smallest element, cycles ordered by that element. Fixed points are
// omitted.
func (p Perm) Cycles() [][]int {
	seen := bitvec.New(len(p))
	var cycles [][]int
	for i := range p {
		if seen.Has(i) || p[i] == i {
			continue
		}
		var cyc []int
		for j := i; !seen.Has(j); j = p[j] {
			seen.Add(j)
			cyc = append(cyc, j)
		}
		cycles = append(cycles, cyc)
	}
	return cycles
}

// Order returns the order of p, the least k >= 1 with p^k = identity.
// Computed as the LCM of cycle lengths.
func (p Perm) Order() int {
	order := 1
	for _, c := range p.Cycles() {
		order = lcm(order, len(c))
	}
	return order
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

// Pow returns p^k by repeated squaring. Negative k powers the inverse;
// Pow(0) is the identity.
func (p Perm) Pow(k int) Perm {
	base := p
	if k < 0 {
		base = p.Inverse()
		k = -k
	}
	out := Identity(len(p))
	for k > 0 {
		if k&1 == 1 {
			out = base.Compose(out)
		}
		base = base.Compose(base)
		k >>= 1
	}
	return out
}

// Fixed returns the number of fixed points.
func (p Perm) Fixed() int {
	n := 0
	for i, v := range p {
		if i == v {
			n++
		}
	}
	return n
}

// Moved returns the set of points not fixed by p.
func (p Perm) Moved() bitvec.Set {
	s := bitvec.New(len(p))
	for i, v := range p {
		if i != v {
			s.Add(i)
		}
	}
	return s
}

// String renders p in cycle notation, e.g. "(0 3)(1 2)", or "()" for the
// identity.
func (p Perm) String() string {
	cycles := p.Cycles()
	if len(cycles) == 0 {
		return "()"
	}
	var b strings.Builder
	for _, c := range cycles {
		b.WriteByte('(')
		for i, v := range c {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", v)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Elements generates every element of the group generated by gens, up to
// bound elements, by breadth-first closure under right multiplication.
// Returns ErrBoundExceeded if the group is larger than bound. The identity
// is always included; gens may be empty.
func Elements(gens []Perm, bound int) ([]Perm, error) {
	if len(gens) == 0 {
		return []Perm{Identity(0)}, nil
	}
	n := gens[0].Len()
	for _, g := range gens {
		if g.Len() != n {
			return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, g.Len(), n)
		}
	}

	id := Identity(n)
	seen := map[string]struct{}{key(id): {}}
	elems := []Perm{id}
	frontier := []Perm{id}

	for len(frontier) > 0 {
		var next []Perm
		for _, e := range frontier {
			for _, g := range gens {
				prod := g.Compose(e)
				k := key(prod)
				if _, ok := seen[k]; ok {
					continue
				}
				if len(elems) >= bound {
					return nil, fmt.Errorf("%w: bound %d", ErrBoundExceeded, bound)
				}
				seen[k] = struct{}{}
				elems = append(elems, prod)
				next = append(next, prod)
			}
		}
		frontier = next
	}
	return elems, nil
}

func key(p Perm) string {
	var b strings.Builder
	b.Grow(len(p) * 3)
	for _, v := range p {
		fmt.Fprintf(&b, "%d,", v)
	}
	return b.String()
}
