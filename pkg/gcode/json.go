package gcode

import (
	"encoding/json"
	"fmt"

	"github.com/isoclass/isoclass/pkg/graph"
)

// Doc is the JSON interchange form of a graph. Unlike the ASCII formats it
// can carry a vertex coloring and edge labels.
//
//	{"n": 5, "directed": false, "colors": [0,0,1,1,1], "edges": [[0,1],[1,2]]}
//
// Labels, when present, attaches one label per edge ("" means unlabeled):
//
//	{"n": 3, "directed": true, "edges": [[0,1],[1,2]], "labels": ["a", ""]}
type Doc struct {
	N        int      `json:"n"`
	Directed bool     `json:"directed,omitempty"`
	Colors   []int    `json:"colors,omitempty"`
	Edges    [][2]int `json:"edges"`
	Labels   []string `json:"labels,omitempty"`
}

// HasLabels reports whether any edge carries a non-empty label.
func (d Doc) HasLabels() bool {
	for _, l := range d.Labels {
		if l != "" {
			return true
		}
	}
	return false
}

// FromDense converts a dense graph to its JSON form.
func FromDense(g *graph.Dense) Doc {
	doc := Doc{N: g.Order(), Directed: g.Directed()}
	for v := 0; v < g.Order(); v++ {
		row := g.Row(v)
		for w := row.NextAfter(-1); w >= 0; w = row.NextAfter(w) {
			if !g.Directed() && w < v {
				continue
			}
			doc.Edges = append(doc.Edges, [2]int{v, w})
		}
	}
	return doc
}

// ToDense converts a JSON document to a dense graph, validating endpoints.
func (d Doc) ToDense() (*graph.Dense, error) {
	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.Edge{U: e[0], V: e[1]}
	}
	return graph.NewDense(d.N, edges, d.Directed)
}

// ToSparse converts a JSON document to a sparse graph.
func (d Doc) ToSparse() (*graph.Sparse, error) {
	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.Edge{U: e[0], V: e[1]}
	}
	return graph.NewSparse(d.N, edges, d.Directed)
}

// MarshalDoc renders the document as indented JSON.
func MarshalDoc(d Doc) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDoc parses a JSON graph document and validates the coloring and
// label lengths when present. Failures wrap ErrParse.
func UnmarshalDoc(data []byte) (Doc, error) {
	var d Doc
	if err := json.Unmarshal(data, &d); err != nil {
		return Doc{}, fmt.Errorf("%w: decode graph document: %v", ErrParse, err)
	}
	if d.Colors != nil && len(d.Colors) != d.N {
		return Doc{}, fmt.Errorf("%w: graph document has %d colors for %d vertices", ErrParse, len(d.Colors), d.N)
	}
	if d.Labels != nil && len(d.Labels) != len(d.Edges) {
		return Doc{}, fmt.Errorf("%w: graph document has %d labels for %d edges", ErrParse, len(d.Labels), len(d.Edges))
	}
	return d, nil
}
