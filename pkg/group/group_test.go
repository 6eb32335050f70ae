package group

import (
	"math/big"
	"testing"

	"github.com/isoclass/isoclass/pkg/perm"
)

func TestBuildSymmetric(t *testing.T) {
	tests := []struct {
		name string
		n    int
		gens []perm.Perm
		want int64
	}{
		{name: "Trivial", n: 4, gens: nil, want: 1},
		{name: "SingleSwap", n: 4, gens: []perm.Perm{{1, 0, 2, 3}}, want: 2},
		{
			name: "S4",
			n:    4,
			gens: []perm.Perm{{1, 0, 2, 3}, {1, 2, 3, 0}},
			want: 24,
		},
		{
			name: "Cyclic5",
			n:    5,
			gens: []perm.Perm{{1, 2, 3, 4, 0}},
			want: 5,
		},
		{
			name: "Dihedral5",
			n:    5,
			gens: []perm.Perm{{1, 2, 3, 4, 0}, {0, 4, 3, 2, 1}},
			want: 10,
		},
		{
			name: "Klein4",
			n:    4,
			gens: []perm.Perm{{1, 0, 3, 2}, {2, 3, 0, 1}},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Build(tt.n, tt.gens, 0)
			if got := b.Order(); got.Cmp(big.NewInt(tt.want)) != 0 {
				t.Errorf("Order = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderDividesFactorial(t *testing.T) {
	gens := []perm.Perm{{1, 2, 0, 3, 4}, {0, 1, 2, 4, 3}}
	b := Build(5, gens, 0)
	fact := big.NewInt(120)
	var m big.Int
	if m.Mod(fact, b.Order()); m.Sign() != 0 {
		t.Errorf("Order %s does not divide 5! = 120", b.Order())
	}
	if b.Order().Cmp(big.NewInt(6)) != 0 {
		t.Errorf("Order = %s, want 6 (C3 x C2)", b.Order())
	}
}

func TestContains(t *testing.T) {
	// <(0 1), (0 1 2 3)> = S4: everything is a member.
	b := Build(4, []perm.Perm{{1, 0, 2, 3}, {1, 2, 3, 0}}, 0)
	if !b.Contains(perm.Perm{3, 2, 1, 0}) {
		t.Error("S4 must contain every permutation of 4 points")
	}
	if !b.Contains(perm.Identity(4)) {
		t.Error("identity not a member")
	}

	// <(0 1 2 3 4)> = C5: transpositions are not members.
	c := Build(5, []perm.Perm{{1, 2, 3, 4, 0}}, 0)
	if c.Contains(perm.Perm{1, 0, 2, 3, 4}) {
		t.Error("C5 must not contain a transposition")
	}
	if !c.Contains(perm.Perm{2, 3, 4, 0, 1}) {
		t.Error("C5 must contain its square")
	}
}

func TestDeterministicUnderSeed(t *testing.T) {
	gens := []perm.Perm{{1, 2, 3, 4, 0}, {0, 4, 3, 2, 1}}
	a := Build(5, gens, 7)
	b := Build(5, gens, 7)
	if a.Order().Cmp(b.Order()) != 0 {
		t.Error("same seed produced different orders")
	}
	base1, base2 := a.Base(), b.Base()
	if len(base1) != len(base2) {
		t.Fatal("same seed produced different base lengths")
	}
	for i := range base1 {
		if base1[i] != base2[i] {
			t.Error("same seed produced different bases")
		}
	}
}
