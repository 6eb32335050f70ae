package pipeline

import (
	"context"
	"testing"

	"github.com/isoclass/isoclass/pkg/catalog"
	apperrors "github.com/isoclass/isoclass/pkg/errors"
	"github.com/isoclass/isoclass/pkg/gcode"
)

func TestExecuteGraph6(t *testing.T) {
	r := NewRunner(nil)
	// K4 in graph6.
	res, err := r.Execute(context.Background(), []byte("C~\n"), Options{Canonical: true, Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Search.ExactOrder == nil || res.Search.ExactOrder.Int64() != 24 {
		t.Errorf("ExactOrder = %v, want 24", res.Search.ExactOrder)
	}
	if len(res.Canonical) == 0 {
		t.Fatal("no canonical artifact")
	}
	// K4's canonical form is K4 again.
	if string(res.Canonical) != "C~" {
		t.Errorf("canonical = %q, want C~", res.Canonical)
	}
	if res.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestRunWithColors(t *testing.T) {
	r := NewRunner(nil)
	doc := gcode.Doc{
		N:      2,
		Colors: []int{0, 1},
	}
	res, err := r.Run(context.Background(), doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Two isolated vertices with distinct colors are rigid.
	if got := res.Search.GroupSize.Float(); got != 1 {
		t.Errorf("group order = %v, want 1", got)
	}
}

func TestCatalogDeduplicates(t *testing.T) {
	store := catalog.NewMemoryStore()
	r := NewRunner(nil)
	opts := Options{Store: store}

	// C5 and a relabeled C5 are the same isomorphism class.
	inputs := []gcode.Doc{
		{N: 5, Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}},
		{N: 5, Edges: [][2]int{{2, 4}, {4, 1}, {1, 3}, {3, 0}, {0, 2}}},
	}
	var keys []string
	for _, doc := range inputs {
		res, err := r.Run(context.Background(), doc, opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.Record == nil {
			t.Fatal("no catalog record")
		}
		keys = append(keys, res.Record.Key)
	}
	if keys[0] != keys[1] {
		t.Error("isomorphic graphs produced different catalog keys")
	}
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("catalog holds %d records, want 1", n)
	}
}

func TestSparseEngine(t *testing.T) {
	r := NewRunner(nil)
	doc := gcode.Doc{N: 5, Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}}
	res, err := r.Run(context.Background(), doc, Options{Sparse: true, Exact: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Search.ExactOrder.Int64() != 10 {
		t.Errorf("ExactOrder = %v, want 10", res.Search.ExactOrder)
	}
}

func TestCancelledContext(t *testing.T) {
	r := NewRunner(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, gcode.Doc{N: 3}, Options{})
	if err == nil {
		t.Error("cancelled context did not fail the pipeline")
	}
}

func TestLabeledEdges(t *testing.T) {
	r := NewRunner(nil)

	// A directed triangle with uniform edge labels keeps its rotations.
	uniform := gcode.Doc{
		N:        3,
		Directed: true,
		Edges:    [][2]int{{0, 1}, {1, 2}, {2, 0}},
		Labels:   []string{"a", "a", "a"},
	}
	res, err := r.Run(context.Background(), uniform, Options{Canonical: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Search.GroupSize.Float(); got != 3 {
		t.Errorf("uniform-label group order = %v, want 3", got)
	}
	if res.Search.NumOrbits != 1 {
		t.Errorf("NumOrbits = %d, want 1", res.Search.NumOrbits)
	}
	// Results are mapped back onto the original vertices.
	for _, g := range res.Search.Generators {
		if g.Len() != 3 {
			t.Errorf("generator degree = %d, want 3", g.Len())
		}
	}
	if res.Search.CanonPerm.Len() != 3 {
		t.Errorf("canonical labeling degree = %d, want 3", res.Search.CanonPerm.Len())
	}
	// Labeled graphs canonicalize through the reduced digraph.
	if len(res.Canonical) == 0 || res.Canonical[0] != '&' {
		t.Errorf("canonical = %q, want digraph6", res.Canonical)
	}

	// One odd label pins the triangle.
	mixed := uniform
	mixed.Labels = []string{"a", "a", "b"}
	res, err = r.Run(context.Background(), mixed, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Search.GroupSize.Float(); got != 1 {
		t.Errorf("mixed-label group order = %v, want 1", got)
	}
	if res.Search.NumOrbits != 3 {
		t.Errorf("mixed-label NumOrbits = %d, want 3", res.Search.NumOrbits)
	}
}

func TestLabeledCanonicalRoundTrip(t *testing.T) {
	r := NewRunner(nil)
	doc := gcode.Doc{
		N:        3,
		Directed: true,
		Edges:    [][2]int{{0, 1}, {1, 2}, {2, 0}},
		Labels:   []string{"a", "a", "b"},
	}
	// The same labeled graph with vertices renamed by q = [1,2,0].
	relabeled := gcode.Doc{
		N:        3,
		Directed: true,
		Edges:    [][2]int{{1, 2}, {2, 0}, {0, 1}},
		Labels:   []string{"a", "a", "b"},
	}

	ra, err := r.Run(context.Background(), doc, Options{Canonical: true})
	if err != nil {
		t.Fatal(err)
	}
	rb, err := r.Run(context.Background(), relabeled, Options{Canonical: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(ra.Canonical) != string(rb.Canonical) {
		t.Errorf("labeled canonical forms differ: %q vs %q", ra.Canonical, rb.Canonical)
	}
}

func TestClassifiedErrors(t *testing.T) {
	r := NewRunner(nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, []byte(`{"n": 3, "colors": [0], "edges": []}`), Options{})
	if apperrors.GetCode(err) != apperrors.ErrCodeParse {
		t.Errorf("bad document code = %q, want PARSE_ERROR (%v)", apperrors.GetCode(err), err)
	}

	_, err = r.Run(ctx, gcode.Doc{N: 2, Edges: [][2]int{{0, 5}}}, Options{})
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidInput {
		t.Errorf("bad edge code = %q, want INVALID_INPUT (%v)", apperrors.GetCode(err), err)
	}

	_, err = r.Run(ctx, gcode.Doc{N: -1}, Options{})
	if apperrors.GetCode(err) != apperrors.ErrCodeCapacity {
		t.Errorf("bad order code = %q, want CAPACITY (%v)", apperrors.GetCode(err), err)
	}

	_, err = r.Run(ctx, gcode.Doc{N: 2, Edges: [][2]int{{0, 4}}, Labels: []string{"x"}}, Options{})
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidInput {
		t.Errorf("bad labeled edge code = %q, want INVALID_INPUT (%v)", apperrors.GetCode(err), err)
	}
}

func TestGroupOrderString(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), []byte("C~"), Options{Store: catalog.NewMemoryStore()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.GroupOrder != "24" {
		t.Errorf("GroupOrder = %q, want 24", res.Record.GroupOrder)
	}
}
