package autom

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/group"
	"github.com/isoclass/isoclass/pkg/perm"
)

func mustDense(t *testing.T, n int, edges []graph.Edge, directed bool) *graph.Dense {
	t.Helper()
	g, err := graph.NewDense(n, edges, directed)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func cycle(n int) []graph.Edge {
	edges := make([]graph.Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = graph.Edge{U: i, V: (i + 1) % n}
	}
	return edges
}

func path(n int) []graph.Edge {
	edges := make([]graph.Edge, n-1)
	for i := range edges {
		edges[i] = graph.Edge{U: i, V: i + 1}
	}
	return edges
}

func complete(n int) []graph.Edge {
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, graph.Edge{U: i, V: j})
		}
	}
	return edges
}

func star(leaves int) []graph.Edge {
	edges := make([]graph.Edge, leaves)
	for i := 0; i < leaves; i++ {
		edges[i] = graph.Edge{U: 0, V: i + 1}
	}
	return edges
}

func petersen() []graph.Edge {
	edges := cycle(5) // outer pentagon 0..4
	for i := 0; i < 5; i++ {
		edges = append(edges, graph.Edge{U: i, V: i + 5})           // spokes
		edges = append(edges, graph.Edge{U: 5 + i, V: 5 + (i+2)%5}) // inner pentagram
	}
	return edges
}

func groupOrder(t *testing.T, res *Result) float64 {
	t.Helper()
	return res.GroupSize.Float()
}

func TestBoundaryCases(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		edges      []graph.Edge
		directed   bool
		wantOrder  float64
		wantOrbits int
	}{
		{name: "NoVertices", n: 0, wantOrder: 1, wantOrbits: 0},
		{name: "OneVertex", n: 1, wantOrder: 1, wantOrbits: 1},
		{name: "NoEdges", n: 5, wantOrder: 120, wantOrbits: 1},
		{name: "Complete5", n: 5, edges: complete(5), wantOrder: 120, wantOrbits: 1},
		{name: "Cycle6", n: 6, edges: cycle(6), wantOrder: 12, wantOrbits: 1},
		{name: "Path5", n: 5, edges: path(5), wantOrder: 2, wantOrbits: 3},
		{name: "Star4", n: 5, edges: star(4), wantOrder: 24, wantOrbits: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustDense(t, tt.n, tt.edges, tt.directed)
			res, err := Dense(g, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := groupOrder(t, res); got != tt.wantOrder {
				t.Errorf("group order = %v, want %v", got, tt.wantOrder)
			}
			if res.NumOrbits != tt.wantOrbits {
				t.Errorf("NumOrbits = %d, want %d", res.NumOrbits, tt.wantOrbits)
			}
			if tt.n == 0 && len(res.Generators) != 0 {
				t.Errorf("empty graph returned %d generators", len(res.Generators))
			}
		})
	}
}

func TestK4(t *testing.T) {
	g := mustDense(t, 4, complete(4), false)
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 24 {
		t.Errorf("group order = %v, want 24", got)
	}
	if res.NumOrbits != 1 {
		t.Errorf("NumOrbits = %d, want 1", res.NumOrbits)
	}
	if len(res.Generators) > 3 {
		t.Errorf("%d generators, 3 suffice for S4", len(res.Generators))
	}
	if got := group.Build(4, res.Generators, 0).Order(); got.Cmp(big.NewInt(24)) != 0 {
		t.Errorf("generators generate order %s, want 24", got)
	}
}

func TestC5(t *testing.T) {
	g := mustDense(t, 5, cycle(5), false)
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 10 {
		t.Errorf("group order = %v, want 10 (dihedral)", got)
	}
	if res.NumOrbits != 1 {
		t.Errorf("NumOrbits = %d, want 1", res.NumOrbits)
	}
	if len(res.Generators) != 2 {
		t.Errorf("%d generators, want 2", len(res.Generators))
	}
	// Every generator preserves cyclic adjacency (P1).
	for _, p := range res.Generators {
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				if g.HasEdge(i, j) != g.HasEdge(p[i], p[j]) {
					t.Fatalf("generator %v does not preserve adjacency", p)
				}
			}
		}
	}
}

func TestP4(t *testing.T) {
	g := mustDense(t, 4, path(4), false)
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 2 {
		t.Errorf("group order = %v, want 2", got)
	}
	if len(res.Generators) != 1 {
		t.Fatalf("%d generators, want exactly 1", len(res.Generators))
	}
	want := perm.Perm{3, 2, 1, 0} // (0 3)(1 2)
	if !res.Generators[0].Equal(want) {
		t.Errorf("generator = %v, want %v", res.Generators[0], want)
	}
	if !res.Orbits.Same(0, 3) || !res.Orbits.Same(1, 2) || res.Orbits.Same(0, 1) {
		t.Errorf("orbits = %v, want {0,3},{1,2}", res.Orbits)
	}
}

func TestPetersen(t *testing.T) {
	g := mustDense(t, 10, petersen(), false)
	res, err := Dense(g, &Options{Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 120 {
		t.Errorf("group order = %v, want 120", got)
	}
	if res.NumOrbits != 1 {
		t.Errorf("NumOrbits = %d, want 1", res.NumOrbits)
	}
	if res.ExactOrder == nil || res.ExactOrder.Cmp(big.NewInt(120)) != 0 {
		t.Errorf("ExactOrder = %v, want 120", res.ExactOrder)
	}
}

func TestK33(t *testing.T) {
	var edges []graph.Edge
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			edges = append(edges, graph.Edge{U: i, V: j})
		}
	}
	g := mustDense(t, 6, edges, false)

	// Uncolored, the part swap is an automorphism: order 72 = 3!·3!·2.
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 72 {
		t.Errorf("group order = %v, want 72", got)
	}

	// Coloring the parts separately pins them: order 36, two orbits.
	colored, err := Dense(g, &Options{
		Lab: []int{0, 1, 2, 3, 4, 5},
		Ptn: []int{1, 1, 0, 1, 1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, colored); got != 36 {
		t.Errorf("colored group order = %v, want 36", got)
	}
	if colored.NumOrbits != 2 {
		t.Errorf("colored NumOrbits = %d, want 2", colored.NumOrbits)
	}
	// P6: every automorphism maps each color class to itself.
	for _, p := range colored.Generators {
		for v := 0; v < 6; v++ {
			if (v < 3) != (p[v] < 3) {
				t.Errorf("generator %v crosses color classes", p)
			}
		}
	}
}

func TestDirectedCycle(t *testing.T) {
	g := mustDense(t, 4, cycle(4), true)
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := groupOrder(t, res); got != 4 {
		t.Errorf("group order = %v, want 4 (rotations only)", got)
	}
	for _, p := range res.Generators {
		for i := 0; i < 4; i++ {
			if !g.HasEdge(p[i], p[(i+1)%4]) {
				t.Errorf("generator %v reverses an arc", p)
			}
		}
	}
}

func randomPerm(rng *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}

func TestCanonicalRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		edges    []graph.Edge
		directed bool
	}{
		{name: "K4", n: 4, edges: complete(4)},
		{name: "C5", n: 5, edges: cycle(5)},
		{name: "P4", n: 4, edges: path(4)},
		{name: "Petersen", n: 10, edges: petersen()},
		{name: "DirectedC4", n: 4, edges: cycle(4), directed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustDense(t, tt.n, tt.edges, tt.directed)
			base, err := Dense(g, &Options{GetCanon: true})
			if err != nil {
				t.Fatal(err)
			}

			rng := rand.New(rand.NewSource(42))
			for trial := 0; trial < 10; trial++ {
				q := randomPerm(rng, tt.n)
				relabeled := g.Permute(q)
				res, err := Dense(relabeled, &Options{GetCanon: true})
				if err != nil {
					t.Fatal(err)
				}
				if !res.CanonDense.Equal(base.CanonDense) {
					t.Fatalf("trial %d: canonical form differs after relabeling", trial)
				}
			}
		})
	}
}

func TestIsomorphic(t *testing.T) {
	c5 := mustDense(t, 5, cycle(5), false)
	rng := rand.New(rand.NewSource(7))
	relabeled := c5.Permute(randomPerm(rng, 5))

	iso, err := Isomorphic(c5, relabeled, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !iso {
		t.Error("C5 not isomorphic to its relabeling")
	}

	// K33 and the triangular prism are both cubic on 6 vertices and 9
	// edges but not isomorphic (the prism has triangles).
	var k33 []graph.Edge
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			k33 = append(k33, graph.Edge{U: i, V: j})
		}
	}
	prism := append(cycle(3), graph.Edge{U: 3, V: 4}, graph.Edge{U: 4, V: 5}, graph.Edge{U: 3, V: 5},
		graph.Edge{U: 0, V: 3}, graph.Edge{U: 1, V: 4}, graph.Edge{U: 2, V: 5})

	a := mustDense(t, 6, k33, false)
	b := mustDense(t, 6, prism, false)
	iso, err = Isomorphic(a, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if iso {
		t.Error("K33 reported isomorphic to the prism")
	}
}

func TestOrbitClosure(t *testing.T) {
	g := mustDense(t, 10, petersen(), false)
	res, err := Dense(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	// P2: orbits are closed under every generator.
	for _, p := range res.Generators {
		for i := 0; i < 10; i++ {
			if res.Orbits.Find(i) != res.Orbits.Find(p[i]) {
				t.Fatalf("orbit of %d not closed under %v", i, p)
			}
		}
	}
}

func TestSparseMatchesDense(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []graph.Edge
	}{
		{name: "C5", n: 5, edges: cycle(5)},
		{name: "Petersen", n: 10, edges: petersen()},
		{name: "Star", n: 6, edges: star(5)},
		{name: "P6", n: 6, edges: path(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dg := mustDense(t, tt.n, tt.edges, false)
			sg, err := graph.NewSparse(tt.n, tt.edges, false)
			if err != nil {
				t.Fatal(err)
			}

			dres, err := Dense(dg, &Options{Exact: true})
			if err != nil {
				t.Fatal(err)
			}
			sres, err := Sparse(sg, &Options{Exact: true})
			if err != nil {
				t.Fatal(err)
			}

			if dres.ExactOrder.Cmp(sres.ExactOrder) != 0 {
				t.Errorf("orders differ: dense %s, sparse %s", dres.ExactOrder, sres.ExactOrder)
			}
			if dres.NumOrbits != sres.NumOrbits {
				t.Errorf("orbit counts differ: dense %d, sparse %d", dres.NumOrbits, sres.NumOrbits)
			}
		})
	}
}

func TestSparseCanonicalRoundTrip(t *testing.T) {
	edges := petersen()
	sg, err := graph.NewSparse(10, edges, false)
	if err != nil {
		t.Fatal(err)
	}
	base, err := Sparse(sg, &Options{GetCanon: true})
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 5; trial++ {
		fresh, err := graph.NewSparse(10, edges, false)
		if err != nil {
			t.Fatal(err)
		}
		relabeled := fresh.Permute(randomPerm(rng, 10))
		res, err := Sparse(relabeled, &Options{GetCanon: true})
		if err != nil {
			t.Fatal(err)
		}
		if !res.CanonSparse.Equal(base.CanonSparse) {
			t.Fatalf("trial %d: sparse canonical form differs after relabeling", trial)
		}
	}
}

func TestAbort(t *testing.T) {
	g := mustDense(t, 10, petersen(), false)
	flag := &AbortFlag{}
	nodes := 0
	res, err := Dense(g, &Options{
		Abort: flag,
		Hooks: Hooks{
			OnNode: func(level, tcSize int) {
				nodes++
				if nodes >= 3 {
					flag.Set()
				}
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusAborted {
		t.Errorf("Status = %v, want StatusAborted", res.Status)
	}
	// Any generators found before the abort are still valid automorphisms.
	for _, p := range res.Generators {
		for i := 0; i < 10; i++ {
			for j := 0; j < 10; j++ {
				if g.HasEdge(i, j) != g.HasEdge(p[i], p[j]) {
					t.Errorf("aborted result carries a non-automorphism %v", p)
				}
			}
		}
	}
}

func TestHooks(t *testing.T) {
	g := mustDense(t, 5, cycle(5), false)
	var autos, canonUpdates int
	maxLevel := 0
	res, err := Dense(g, &Options{
		GetCanon: true,
		Hooks: Hooks{
			OnAutomorphism: func(p perm.Perm, o perm.Orbits, fixed int) { autos++ },
			OnLevel: func(level int) {
				if level > maxLevel {
					maxLevel = level
				}
			},
			OnCanonicalUpdate: func(level int) { canonUpdates++ },
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if autos == 0 {
		t.Error("automorphism hook never fired")
	}
	if maxLevel != res.Stats.MaxLevel {
		t.Errorf("hook max level %d != stats max level %d", maxLevel, res.Stats.MaxLevel)
	}
	if res.Stats.Nodes == 0 {
		t.Error("node counter empty")
	}
}

func TestUserPartitionValidation(t *testing.T) {
	g := mustDense(t, 4, path(4), false)
	_, err := Dense(g, &Options{Lab: []int{0, 0, 1, 2}, Ptn: []int{1, 1, 1, 0}})
	if err == nil {
		t.Fatal("duplicate lab entries accepted")
	}
	_, err = Dense(g, &Options{Lab: []int{0, 1}, Ptn: []int{1, 0}})
	if err == nil {
		t.Fatal("wrong-size partition accepted")
	}
}

func TestGroupSizeRescale(t *testing.T) {
	s := newGroupSize()
	for i := 0; i < 30; i++ {
		s.MultiplyInt(1000)
	}
	// 1000^30 = 1e90.
	if s.Exponent == 0 {
		t.Error("mantissa never rescaled")
	}
	if s.Mantissa >= 1e10 || s.Mantissa < 1 {
		t.Errorf("mantissa %v out of range", s.Mantissa)
	}
	if got := s.Float(); got < 9.9e89 || got > 1.1e90 {
		t.Errorf("Float = %v, want ~1e90", got)
	}
}
