package utils

import (
	"fmt"
	"strings"
)

// options holds process-wide presentation settings. Analysis settings live in
// the config package and are threaded explicitly through constructors.
type options struct {
	minlen     uint
	nodesep    float64
	noColorize bool
	verbose    bool
}

var opts = &options{
	minlen:  2,
	nodesep: 0.35,
}

type optInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Minlen() uint {
	return opts.minlen
}

func (optInterface) Nodesep() float64 {
	return opts.nodesep
}

// OnVerbose runs do only if verbose output was requested.
func (optInterface) OnVerbose(do func()) {
	if opts.verbose {
		do()
	}
}

// SetNoColorize toggles colorized pretty printing of lattice values and CFGs.
func SetNoColorize(b bool) {
	opts.noColorize = b
}

// SetVerbose toggles verbose output.
func SetVerbose(b bool) {
	opts.verbose = b
}

// SetDotLayout overrides the edge length and node separation used when
// exporting graphs to dot.
func SetDotLayout(minlen uint, nodesep float64) {
	opts.minlen = minlen
	opts.nodesep = nodesep
}

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}
