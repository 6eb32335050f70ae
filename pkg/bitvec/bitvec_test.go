package bitvec

import "testing"

func TestWordOps(t *testing.T) {
	if got := FirstSet(0); got != 64 {
		t.Errorf("FirstSet(0) = %d, want 64", got)
	}
	if got := FirstSet(BitMask(0)); got != 0 {
		t.Errorf("FirstSet(high bit) = %d, want 0", got)
	}
	if got := FirstSet(BitMask(63)); got != 63 {
		t.Errorf("FirstSet(low bit) = %d, want 63", got)
	}
	if got := FirstSet(BitMask(5) | BitMask(40)); got != 5 {
		t.Errorf("FirstSet = %d, want smallest position 5", got)
	}
	if got := PopCount(PrefixMask(10)); got != 10 {
		t.Errorf("PopCount(PrefixMask(10)) = %d, want 10", got)
	}
	if PrefixMask(0) != 0 {
		t.Error("PrefixMask(0) must be empty")
	}
	if PrefixMask(64) != ^uint64(0) {
		t.Error("PrefixMask(64) must be full")
	}
	if got := FirstMask(BitMask(17) | BitMask(30)); got != BitMask(17) {
		t.Errorf("FirstMask = %#x, want bit 17", got)
	}
}

func TestSetBasics(t *testing.T) {
	s := New(130)
	if len(s) != 3 {
		t.Fatalf("New(130) has %d words, want 3", len(s))
	}
	for _, v := range []int{0, 63, 64, 129} {
		s.Add(v)
		if !s.Has(v) {
			t.Errorf("Has(%d) = false after Add", v)
		}
	}
	if got := s.Size(); got != 4 {
		t.Errorf("Size = %d, want 4", got)
	}
	s.Remove(64)
	if s.Has(64) {
		t.Error("Has(64) = true after Remove")
	}
	s.Flip(64)
	if !s.Has(64) {
		t.Error("Has(64) = false after Flip")
	}
	s.Clear()
	if !s.IsEmpty() {
		t.Error("set not empty after Clear")
	}
}

func TestFill(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 128, 130} {
		s := New(130)
		s.Fill(n)
		if got := s.Size(); got != n {
			t.Errorf("Fill(%d): Size = %d", n, got)
		}
		if n < 130 && s.Has(n) {
			t.Errorf("Fill(%d): padding bit %d set", n, n)
		}
		if n > 0 && !s.Has(n-1) {
			t.Errorf("Fill(%d): bit %d clear", n, n-1)
		}
	}
}

func TestSetAlgebra(t *testing.T) {
	a := New(100)
	b := New(100)
	for _, v := range []int{1, 50, 70} {
		a.Add(v)
	}
	for _, v := range []int{50, 70, 99} {
		b.Add(v)
	}

	u := New(100)
	u.CopyFrom(a)
	u.UnionWith(b)
	if got := u.Size(); got != 4 {
		t.Errorf("union size = %d, want 4", got)
	}

	i := New(100)
	i.CopyFrom(a)
	i.IntersectWith(b)
	if got := i.Size(); got != 2 || !i.Has(50) || !i.Has(70) {
		t.Errorf("intersection = %v (size %d), want {50,70}", i, got)
	}

	d := New(100)
	d.CopyFrom(a)
	d.DiffWith(b)
	if got := d.Size(); got != 1 || !d.Has(1) {
		t.Errorf("difference size = %d, want {1}", got)
	}

	x := New(100)
	x.CopyFrom(a)
	x.XorWith(b)
	if got := x.Size(); got != 2 || !x.Has(1) || !x.Has(99) {
		t.Errorf("xor size = %d, want {1,99}", got)
	}

	if !i.Equal(i) {
		t.Error("Equal not reflexive")
	}
	if a.Equal(b) {
		t.Error("distinct sets reported Equal")
	}
}

func TestNextAfter(t *testing.T) {
	s := New(200)
	elems := []int{0, 5, 63, 64, 127, 128, 199}
	for _, v := range elems {
		s.Add(v)
	}

	var got []int
	for v := s.NextAfter(-1); v >= 0; v = s.NextAfter(v) {
		got = append(got, v)
	}
	if len(got) != len(elems) {
		t.Fatalf("iterated %v, want %v", got, elems)
	}
	for i := range elems {
		if got[i] != elems[i] {
			t.Fatalf("iteration order %v, want ascending %v", got, elems)
		}
	}

	if got := s.NextAfter(199); got != -1 {
		t.Errorf("NextAfter(last) = %d, want -1", got)
	}
	if got := s.First(); got != 0 {
		t.Errorf("First = %d, want 0", got)
	}
	s.Clear()
	if got := s.First(); got != -1 {
		t.Errorf("First of empty = %d, want -1", got)
	}
}
