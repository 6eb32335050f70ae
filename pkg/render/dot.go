// Package render draws graphs as node-link diagrams with vertices colored
// by orbit, via Graphviz DOT.
//
// Vertices in the same orbit of the automorphism group share a fill
// color, which makes the symmetry structure visible at a glance. The DOT
// output can be rendered to SVG or PNG with the embedded Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/perm"
)

// palette cycles through distinguishable fills for orbit classes.
var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3",
	"#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd",
}

// Options configures DOT generation.
type Options struct {
	// Label adds vertex numbers to the nodes. ToDOT omits them when it is
	// false; the render command's --labels flag turns it on by default.
	Label bool

	// Title is an optional graph label shown under the drawing.
	Title string
}

// ToDOT converts a graph and its orbit partition to Graphviz DOT. Directed
// graphs get arrowheads; undirected graphs are emitted as an undirected
// DOT graph with each edge once.
func ToDOT(g *graph.Dense, orbits perm.Orbits, opts Options) string {
	var buf bytes.Buffer
	edgeOp := "--"
	if g.Directed() {
		buf.WriteString("digraph G {\n")
		edgeOp = "->"
	} else {
		buf.WriteString("graph G {\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	color := orbitColors(g.Order(), orbits)
	for v := 0; v < g.Order(); v++ {
		label := ""
		if opts.Label {
			label = fmt.Sprintf(", label=\"%d\"", v)
		}
		fmt.Fprintf(&buf, "  %d [fillcolor=%q%s];\n", v, color[v], label)
	}

	buf.WriteString("\n")
	for v := 0; v < g.Order(); v++ {
		row := g.Row(v)
		for w := row.NextAfter(-1); w >= 0; w = row.NextAfter(w) {
			if !g.Directed() && w < v {
				continue
			}
			fmt.Fprintf(&buf, "  %d %s %d;\n", v, edgeOp, w)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// orbitColors assigns one palette color per orbit, in order of orbit
// representative.
func orbitColors(n int, orbits perm.Orbits) []string {
	colors := make([]string, n)
	next := 0
	byRoot := make(map[int]string)
	for v := 0; v < n; v++ {
		root := orbits.Find(v)
		c, ok := byRoot[root]
		if !ok {
			c = palette[next%len(palette)]
			next++
			byRoot[root] = c
		}
		colors[v] = c
	}
	return colors
}

// SVG renders a DOT graph to SVG bytes using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderAs(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG bytes using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderAs(dot, graphviz.PNG)
}

func renderAs(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
