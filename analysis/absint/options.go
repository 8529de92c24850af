package absint

import (
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils"
)

const (
	// DefaultNarrowingPasses is the number of descending rounds after the
	// ascending iteration stabilized.
	DefaultNarrowingPasses = 2
	// DefaultMaxIterations bounds the node visits of a single run.
	DefaultMaxIterations = 1_000_000
)

type options struct {
	dir           semantics.Direction
	narrowing     int
	wideningDelay int
	maxIterations int
	log           *utils.Logger
}

func defaultOptions() options {
	return options{
		dir:           semantics.Forward,
		narrowing:     DefaultNarrowingPasses,
		maxIterations: DefaultMaxIterations,
		log:           utils.NopLogger("absint"),
	}
}

// Option configures an interpreter.
type Option func(*options)

// WithDirection selects a forward or backward analysis.
func WithDirection(dir semantics.Direction) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithNarrowing sets the number of narrowing passes. Zero disables
// narrowing.
func WithNarrowing(passes int) Option {
	return func(o *options) {
		o.narrowing = passes
	}
}

// WithWideningDelay postpones widening at a loop head until it was visited
// k times. With k = 0, loop heads are widened from their second visit on.
func WithWideningDelay(k int) Option {
	return func(o *options) {
		o.wideningDelay = k
	}
}

// WithMaxIterations aborts runs after the given number of node visits.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithLogger traces the fixpoint iteration.
func WithLogger(log *utils.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
