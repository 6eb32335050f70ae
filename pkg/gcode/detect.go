package gcode

import (
	"bytes"
)

// Format identifies one of the supported graph encodings.
type Format int

const (
	FormatUnknown Format = iota
	FormatGraph6
	FormatSparse6
	FormatDigraph6
	FormatJSON
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatGraph6:
		return "graph6"
	case FormatSparse6:
		return "sparse6"
	case FormatDigraph6:
		return "digraph6"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Detect sniffs the encoding of data from its header or first byte.
func Detect(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	switch {
	case len(data) == 0:
		return FormatUnknown
	case bytes.HasPrefix(data, []byte(HeaderSparse6)) || data[0] == ':':
		return FormatSparse6
	case bytes.HasPrefix(data, []byte(HeaderDigraph6)) || data[0] == '&':
		return FormatDigraph6
	case data[0] == '{':
		return FormatJSON
	case bytes.HasPrefix(data, []byte(HeaderGraph6)) || (data[0] >= 63 && data[0] <= 126):
		return FormatGraph6
	default:
		return FormatUnknown
	}
}

// DecodeAuto parses data in whatever supported format it is in, returning
// a JSON document view: dense-convertible, with colors when the input was
// JSON. Trailing newlines are ignored.
func DecodeAuto(data []byte) (Doc, error) {
	trimmed := bytes.TrimSpace(data)
	switch Detect(trimmed) {
	case FormatSparse6:
		s, err := DecodeSparse6(trimmed)
		if err != nil {
			return Doc{}, err
		}
		return FromDense(s.ToDense()), nil
	case FormatDigraph6:
		g, err := DecodeDigraph6(trimmed)
		if err != nil {
			return Doc{}, err
		}
		return FromDense(g), nil
	case FormatJSON:
		return UnmarshalDoc(trimmed)
	case FormatGraph6:
		g, err := DecodeGraph6(trimmed)
		if err != nil {
			return Doc{}, err
		}
		return FromDense(g), nil
	default:
		return Doc{}, parseErrf(0, "unrecognized graph format")
	}
}
