// Package config holds the options of an analysis run, read from a TOML
// file and overridden on the command line.
package config

import (
	"os"
	"strings"

	"github.com/caterinaurban/lyra/analysis/absint"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Supported abstract domains.
const (
	Interval = "interval"
	Sign     = "sign"
	Liveness = "liveness"
)

var Domains = []string{Interval, Sign, Liveness}

var (
	ErrUnknownKey       = errors.New("unknown configuration key")
	ErrUnknownDomain    = errors.New("unknown abstract domain")
	ErrUnknownDirection = errors.New("unknown analysis direction")
	ErrInvalid          = errors.New("invalid configuration")
)

// Options configures an analysis run.
type Options struct {
	NarrowingPasses int    `toml:"narrowing_passes"`
	WideningDelay   int    `toml:"widening_delay"`
	MaxIterations   int    `toml:"max_iterations"`
	Domain          string `toml:"domain"`
	// Direction is "forward" or "backward". If empty, the natural direction
	// of the domain is used.
	Direction  string `toml:"direction"`
	NoColorize bool   `toml:"no_colorize"`
	Trace      bool   `toml:"trace"`
	// TraceFile receives the trace in addition to stderr. Setting it
	// enables tracing.
	TraceFile string `toml:"trace_file"`
}

// Default returns the options used when no configuration is given.
func Default() Options {
	return Options{
		NarrowingPasses: absint.DefaultNarrowingPasses,
		MaxIterations:   absint.DefaultMaxIterations,
		Domain:          Interval,
	}
}

// Load reads options from a TOML file. Keys missing from the file keep
// their default value.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()

	opts := Default()
	meta, err := toml.NewDecoder(f).Decode(&opts)
	if err != nil {
		return Options{}, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.Wrapf(ErrUnknownKey, "%s in %s", strings.Join(keys, ", "), path)
	}
	return opts, opts.Validate()
}

// Dir resolves the analysis direction. Liveness is analyzed backward
// unless stated otherwise, every other domain forward.
func (o Options) Dir() (semantics.Direction, error) {
	switch o.Direction {
	case "":
		if o.Domain == Liveness {
			return semantics.Backward, nil
		}
		return semantics.Forward, nil
	case semantics.Forward.String():
		return semantics.Forward, nil
	case semantics.Backward.String():
		return semantics.Backward, nil
	}
	return 0, errors.Wrapf(ErrUnknownDirection, "%q", o.Direction)
}

func (o Options) Validate() error {
	switch o.Domain {
	case Interval, Sign, Liveness:
	default:
		return errors.Wrapf(ErrUnknownDomain, "%q, expected one of %s", o.Domain, strings.Join(Domains, ", "))
	}

	dir, err := o.Dir()
	if err != nil {
		return err
	}

	switch {
	case o.Domain == Liveness && dir.IsForward():
		return errors.Wrap(ErrInvalid, "liveness is a backward analysis")
	case o.NarrowingPasses < 0:
		return errors.Wrapf(ErrInvalid, "narrowing_passes = %d", o.NarrowingPasses)
	case o.WideningDelay < 0:
		return errors.Wrapf(ErrInvalid, "widening_delay = %d", o.WideningDelay)
	case o.MaxIterations <= 0:
		return errors.Wrapf(ErrInvalid, "max_iterations = %d", o.MaxIterations)
	}
	return nil
}

// Interpreter translates the options to interpreter options. Runs are
// traced to a development logger if requested.
func (o Options) Interpreter() ([]absint.Option, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	dir, _ := o.Dir()

	log := utils.NewLogger("absint", o.Trace)
	if o.TraceFile != "" {
		log = utils.NewFileLogger("absint", o.TraceFile)
	}

	return []absint.Option{
		absint.WithDirection(dir),
		absint.WithNarrowing(o.NarrowingPasses),
		absint.WithWideningDelay(o.WideningDelay),
		absint.WithMaxIterations(o.MaxIterations),
		absint.WithLogger(log),
	}, nil
}
