package gcode

import (
	"math/bits"
	"sort"

	"github.com/isoclass/isoclass/pkg/graph"
)

// vertexBits returns the field width k of sparse6 vertex numbers: the
// number of bits needed to represent n-1.
func vertexBits(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// EncodeSparse6 writes an undirected graph (loops and multi-edges
// permitted) in sparse6 format: ':', N(n), then (b,x) pairs of 1+k bits,
// padded with 1 bits to a byte boundary. The one padding exception of the
// format definition is honored: when n is a power of two, more than k
// padding bits are needed, and the current vertex is n-2, the padding
// starts with a single 0 bit.
func EncodeSparse6(g *graph.Sparse) []byte {
	n := g.Order()
	out := append([]byte{':'}, encodeN(nil, n)...)
	w := bitWriter{out: out}
	if n == 0 {
		return w.out
	}
	k := vertexBits(n)

	// Edges as (u <= w) pairs sorted by larger endpoint, then smaller.
	type pair struct{ u, v int }
	var edges []pair
	for v := 0; v < n; v++ {
		for _, u := range g.Neighbors(v) {
			if u <= v {
				edges = append(edges, pair{u: u, v: v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].v != edges[j].v {
			return edges[i].v < edges[j].v
		}
		return edges[i].u < edges[j].u
	})

	cur := 0
	for _, e := range edges {
		switch {
		case e.v == cur:
			w.writeBit(0)
			w.writeBits(e.u, k)
		case e.v == cur+1:
			cur++
			w.writeBit(1)
			w.writeBits(e.u, k)
		default:
			cur = e.v
			w.writeBit(1)
			w.writeBits(cur, k)
			w.writeBit(0)
			w.writeBits(e.u, k)
		}
	}

	padBits := (6 - w.nbit) % 6
	if n == 1<<uint(k) && padBits > k && cur == n-2 {
		w.padExcept()
	} else {
		w.pad(1)
	}
	return w.out
}

// DecodeSparse6 parses a sparse6 payload, with or without the optional
// ">>sparse6<<" header.
func DecodeSparse6(data []byte) (*graph.Sparse, error) {
	payload, base := stripHeader(data)
	if len(payload) == 0 || payload[0] != ':' {
		return nil, parseErrf(base, "missing sparse6 prefix ':'")
	}
	n, used, err := decodeN(payload[1:], base+1)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return graph.NewSparse(0, nil, false)
	}
	k := vertexBits(n)
	r := bitReader{data: payload[1+used:]}

	var edges []graph.Edge
	cur := 0
	for r.remaining() >= 1+k {
		b, err := r.readBit()
		if err != nil {
			return nil, err
		}
		x, err := r.readBits(k)
		if err != nil {
			return nil, err
		}
		if b == 1 {
			cur++
		}
		if cur >= n || x >= n {
			break
		}
		if x > cur {
			cur = x
			continue
		}
		edges = append(edges, graph.Edge{U: x, V: cur})
	}
	return graph.NewSparse(n, edges, false)
}
