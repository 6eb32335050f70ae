package perm

// Orbits is a union-find over vertices. orbits[v] points toward the orbit
// representative; roots are always the smallest vertex of their orbit.
// Orbits only ever merge, never split.
type Orbits []int

// NewOrbits returns n singleton orbits.
func NewOrbits(n int) Orbits {
	o := make(Orbits, n)
	for i := range o {
		o[i] = i
	}
	return o
}

// Find returns the representative of i's orbit, compressing the path.
func (o Orbits) Find(i int) int {
	root := i
	for o[root] != root {
		root = o[root]
	}
	for o[i] != root {
		o[i], i = root, o[i]
	}
	return root
}

// Join merges the orbits of i and j. The larger root is attached to the
// smaller so that representatives stay minimal.
func (o Orbits) Join(i, j int) {
	ri, rj := o.Find(i), o.Find(j)
	if ri < rj {
		o[rj] = ri
	} else if rj < ri {
		o[ri] = rj
	}
}

// Count returns the number of orbits.
func (o Orbits) Count() int {
	n := 0
	for i, v := range o {
		if i == v {
			n++
		}
	}
	return n
}

// Same reports whether i and j are in the same orbit.
func (o Orbits) Same(i, j int) bool {
	return o.Find(i) == o.Find(j)
}

// JoinPerm applies the permutation p to the orbit structure: for every moved
// point i, the orbits of i and p[i] are merged. A final compression pass
// re-points every entry at its root. Returns the resulting orbit count.
func (o Orbits) JoinPerm(p Perm) int {
	for i, v := range p {
		if i != v {
			o.Join(i, v)
		}
	}
	count := 0
	for i := range o {
		o[i] = o.Find(i)
		if o[i] == i {
			count++
		}
	}
	return count
}

// Classes returns the orbits as sorted vertex lists, ordered by
// representative.
func (o Orbits) Classes() [][]int {
	byRoot := make(map[int][]int)
	var roots []int
	for i := range o {
		r := o.Find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], i)
	}
	classes := make([][]int, 0, len(roots))
	for _, r := range roots {
		classes = append(classes, byRoot[r])
	}
	return classes
}
