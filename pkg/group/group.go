// Package group builds a base and strong generating set (Schreier-Sims)
// for a permutation group given by generators, yielding the exact group
// order and a polynomial membership test.
//
// The chain G = G_0 ≥ G_1 ≥ ... ≥ G_d = {1} stabilizes one base point per
// level; each level stores a transversal mapping every point of the level
// orbit to a coset representative. Construction mixes random products of
// the strong generators with a closing sweep over Schreier generators, so
// the result is exact: the build only terminates once every Schreier
// generator sifts to the identity.
//
// Randomness is confined to the order in which products are tried; the
// default seed is fixed, so a given generator list always produces the
// same chain.
package group

import (
	"math/big"
	"math/rand"

	"github.com/isoclass/isoclass/pkg/perm"
)

// failureBound is the number of consecutive unproductive random sifts
// after which the closing Schreier sweep runs. Kept deliberately small;
// exactness comes from the sweep, not from this bound.
const failureBound = 10

// DefaultSeed is the seed used when Build is given zero.
const DefaultSeed int64 = 1

// BSGS is a base and strong generating set.
type BSGS struct {
	n      int
	base   []int
	levels []*level
}

type level struct {
	point       int
	gens        []perm.Perm
	transversal map[int]perm.Perm // orbit point -> u with u(point) = orbit point
}

// Build constructs a BSGS for the group generated by gens on n points.
// A zero seed selects DefaultSeed.
func Build(n int, gens []perm.Perm, seed int64) *BSGS {
	if seed == 0 {
		seed = DefaultSeed
	}
	b := &BSGS{n: n}
	for _, g := range gens {
		b.siftAdd(g)
	}

	rng := rand.New(rand.NewSource(seed))
	fails := 0
	for {
		if p := b.randomProduct(rng); p != nil {
			if b.siftAdd(p) {
				fails = 0
				continue
			}
			fails++
		} else {
			fails = failureBound
		}
		if fails >= failureBound {
			if b.schreierSweep() {
				fails = 0
				continue
			}
			return b
		}
	}
}

// Order returns the exact group order, the product of the transversal
// sizes across levels.
func (b *BSGS) Order() *big.Int {
	order := big.NewInt(1)
	for _, lv := range b.levels {
		order.Mul(order, big.NewInt(int64(len(lv.transversal))))
	}
	return order
}

// Contains reports whether p is an element of the group.
func (b *BSGS) Contains(p perm.Perm) bool {
	residue, _ := b.sift(p)
	return residue.IsIdentity()
}

// Base returns the base points, one per level.
func (b *BSGS) Base() []int {
	return append([]int(nil), b.base...)
}

// sift reduces p through the chain, returning the residue and the level at
// which reduction stopped. A residue equal to the identity means p is a
// member.
func (b *BSGS) sift(p perm.Perm) (perm.Perm, int) {
	for k := 0; k < len(b.levels); k++ {
		if p.IsIdentity() {
			return p, k
		}
		lv := b.levels[k]
		x := p[lv.point]
		if x == lv.point {
			continue
		}
		rep, ok := lv.transversal[x]
		if !ok {
			return p, k
		}
		p = rep.Inverse().Compose(p)
	}
	return p, len(b.levels)
}

// siftAdd sifts p and, when a non-identity residue remains, installs it as
// a new strong generator at the level where sifting stopped, extending the
// chain with a new base point if needed. Reports whether anything was
// added.
func (b *BSGS) siftAdd(p perm.Perm) bool {
	residue, k := b.sift(p)
	if residue.IsIdentity() {
		return false
	}
	if k == len(b.levels) {
		// New base point: the smallest point the residue moves.
		point := -1
		for i, v := range residue {
			if i != v {
				point = i
				break
			}
		}
		b.base = append(b.base, point)
		b.levels = append(b.levels, &level{
			point:       point,
			transversal: map[int]perm.Perm{point: perm.Identity(len(residue))},
		})
	}
	b.levels[k].gens = append(b.levels[k].gens, residue)
	// The new generator fixes every earlier base point, so only orbits at
	// this level and below can grow.
	for j := k; j < len(b.levels); j++ {
		b.rebuildOrbit(j)
	}
	return true
}

// rebuildOrbit recomputes the orbit and transversal of level j under the
// strong generators of G_j (the generators stored at levels >= j).
func (b *BSGS) rebuildOrbit(j int) {
	lv := b.levels[j]
	var gens []perm.Perm
	for i := j; i < len(b.levels); i++ {
		gens = append(gens, b.levels[i].gens...)
	}

	transversal := map[int]perm.Perm{lv.point: perm.Identity(b.n)}
	queue := []int{lv.point}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		u := transversal[p]
		for _, g := range gens {
			q := g[p]
			if _, ok := transversal[q]; !ok {
				transversal[q] = g.Compose(u)
				queue = append(queue, q)
			}
		}
	}
	lv.transversal = transversal
}

// schreierSweep sifts every Schreier generator u(g(p))⁻¹ ∘ g ∘ u(p) at
// every level. Reports whether any sift added a generator; returning false
// certifies the chain is complete.
func (b *BSGS) schreierSweep() bool {
	added := false
	for j := 0; j < len(b.levels); j++ {
		lv := b.levels[j]
		points := make([]int, 0, len(lv.transversal))
		for p := range lv.transversal {
			points = append(points, p)
		}
		var gens []perm.Perm
		for i := j; i < len(b.levels); i++ {
			gens = append(gens, b.levels[i].gens...)
		}
		for _, p := range points {
			u := lv.transversal[p]
			for _, g := range gens {
				v, ok := lv.transversal[g[p]]
				if !ok {
					// Orbit grew mid-sweep; the rebuild below of a
					// later addition will cover it next sweep.
					continue
				}
				sg := v.Inverse().Compose(g).Compose(u)
				if b.siftAdd(sg) {
					added = true
				}
			}
		}
	}
	return added
}

// randomProduct forms a short random product of strong generators, or
// returns nil when the chain has no generators.
func (b *BSGS) randomProduct(rng *rand.Rand) perm.Perm {
	var gens []perm.Perm
	for _, lv := range b.levels {
		gens = append(gens, lv.gens...)
	}
	if len(gens) == 0 {
		return nil
	}
	p := gens[rng.Intn(len(gens))]
	for i := 1 + rng.Intn(3); i > 0; i-- {
		p = p.Compose(gens[rng.Intn(len(gens))])
	}
	return p
}
