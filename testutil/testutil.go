// Package testutil provides the programs and control-flow graphs shared by
// the tests of the analyses.
package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/caterinaurban/lyra/analysis/program"
	"github.com/caterinaurban/lyra/utils/graph"
)

// LoadResult contains a program loaded for a test.
type LoadResult struct {
	Program *program.Program
	// CallDAG encodes the SCC decomposition of the program call graph.
	CallDAG graph.SCCDecomposition[string]
}

// LoadProgram loads the YAML description of a program from a file.
func LoadProgram(t *testing.T, path string) LoadResult {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p, err := program.Load(f)
	if err != nil {
		t.Fatalf("loading %s: %v", path, err)
	}
	return LoadResult{Program: p, CallDAG: p.CallDAG()}
}

// LoadProgramSource loads a program from its YAML description.
func LoadProgramSource(t *testing.T, src string) LoadResult {
	t.Helper()
	p, err := program.Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return LoadResult{Program: p, CallDAG: p.CallDAG()}
}
