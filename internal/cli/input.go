package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/isoclass/isoclass/pkg/gcode"
)

// readInput reads a graph argument: a file path, or "-" (or no argument)
// for stdin.
func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

// readGraph reads and decodes a graph argument.
func readGraph(args []string, stdin io.Reader) (gcode.Doc, error) {
	data, err := readInput(args, stdin)
	if err != nil {
		return gcode.Doc{}, err
	}
	return gcode.DecodeAuto(data)
}
