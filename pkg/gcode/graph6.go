package gcode

import (
	"github.com/isoclass/isoclass/pkg/graph"
)

// EncodeGraph6 writes an undirected loop-free graph in graph6 format:
// N(n) followed by the upper-triangular adjacency bits x(0,1), x(0,2),
// x(1,2), x(0,3), ... packed six per byte with bias 63.
func EncodeGraph6(g *graph.Dense) []byte {
	n := g.Order()
	out := encodeN(nil, n)
	w := bitWriter{out: out}
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if g.HasEdge(i, j) {
				w.writeBit(1)
			} else {
				w.writeBit(0)
			}
		}
	}
	w.pad(0)
	return w.out
}

// DecodeGraph6 parses a graph6 payload, with or without the optional
// ">>graph6<<" header.
func DecodeGraph6(data []byte) (*graph.Dense, error) {
	payload, base := stripHeader(data)
	n, used, err := decodeN(payload, base)
	if err != nil {
		return nil, err
	}
	r := bitReader{data: payload[used:], pos: 0}
	need := n * (n - 1) / 2
	if r.remaining() < need {
		return nil, parseErrf(base+len(payload), "truncated body: need %d bits", need)
	}

	var edges []graph.Edge
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			bit, err := r.readBit()
			if err != nil {
				return nil, err
			}
			if bit == 1 {
				edges = append(edges, graph.Edge{U: i, V: j})
			}
		}
	}
	return graph.NewDense(n, edges, false)
}

// EncodeDigraph6 writes a directed graph in digraph6 format: '&', N(n),
// then the full n x n adjacency matrix row-major.
func EncodeDigraph6(g *graph.Dense) []byte {
	n := g.Order()
	out := append([]byte{'&'}, encodeN(nil, n)...)
	w := bitWriter{out: out}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if g.HasEdge(i, j) {
				w.writeBit(1)
			} else {
				w.writeBit(0)
			}
		}
	}
	w.pad(0)
	return w.out
}

// DecodeDigraph6 parses a digraph6 payload, with or without the optional
// ">>digraph6<<" header.
func DecodeDigraph6(data []byte) (*graph.Dense, error) {
	payload, base := stripHeader(data)
	if len(payload) == 0 || payload[0] != '&' {
		return nil, parseErrf(base, "missing digraph6 prefix '&'")
	}
	n, used, err := decodeN(payload[1:], base+1)
	if err != nil {
		return nil, err
	}
	r := bitReader{data: payload[1+used:]}
	if r.remaining() < n*n {
		return nil, parseErrf(base+len(payload), "truncated body: need %d bits", n*n)
	}

	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			bit, err := r.readBit()
			if err != nil {
				return nil, err
			}
			if bit == 1 {
				edges = append(edges, graph.Edge{U: i, V: j})
			}
		}
	}
	return graph.NewDense(n, edges, true)
}
