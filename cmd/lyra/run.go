package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caterinaurban/lyra/analysis/absint"
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/domains/interval"
	"github.com/caterinaurban/lyra/analysis/domains/sign"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/livevars"
	"github.com/caterinaurban/lyra/analysis/program"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/config"
	"github.com/caterinaurban/lyra/utils"
	"github.com/caterinaurban/lyra/utils/dot"
)

var opts = utils.Opts()

// export configures the rendering of graphs to images, or their display
// with xdot.
type export struct {
	dir, format string
	show        bool
}

func (e export) enabled() bool {
	return e.dir != "" || e.show
}

func (e export) write(name string, g *dot.DotGraph) error {
	if e.show {
		if err := g.ShowDot(); err != nil {
			return err
		}
	}
	if e.dir == "" {
		return nil
	}

	src, err := g.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return err
	}
	img, err := dot.DotToImage(filepath.Join(e.dir, name), e.format, src)
	if err != nil {
		return err
	}
	log.Println("Exported", img)
	return nil
}

func load(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Println("Loading", path+"...")
	p, err := program.Load(f)
	if err != nil {
		return nil, err
	}
	log.Println("Loaded", len(p.Functions), "functions")
	return p, nil
}

func runCFG(path string, compress bool, exp export) error {
	p, err := load(path)
	if err != nil {
		return err
	}

	opts.OnVerbose(func() {
		if unreachable := p.Unreachable(); len(unreachable) > 0 {
			log.Println("Functions never called from", p.Main+":", unreachable)
		}
	})

	callees := p.Callees()
	for _, name := range p.Names() {
		g := p.Functions[name].CFG
		if compress {
			g, _ = cfg.Compress(g)
		}
		fmt.Println(utils.FunString(name))
		opts.OnVerbose(func() {
			fmt.Println("calls:", callees[name])
		})
		fmt.Println(g)

		if exp.enabled() {
			if err := exp.write(name, cfg.ToDot(g, name, nil)); err != nil {
				return err
			}
		}
	}

	if exp.enabled() {
		return exp.write("callgraph", p.ToDot())
	}
	return nil
}

func runAnalyze(path string, o config.Options, exp export) error {
	utils.SetNoColorize(o.NoColorize || exp.enabled())

	p, err := load(path)
	if err != nil {
		return err
	}

	switch o.Domain {
	case config.Interval:
		return analyze(p, o, exp, func(f *program.Function) interval.State {
			return interval.Top(f.Vars)
		})
	case config.Sign:
		return analyze(p, o, exp, func(f *program.Function) sign.State {
			return sign.Top(f.Vars)
		})
	case config.Liveness:
		return analyze(p, o, exp, func(f *program.Function) livevars.State {
			return livevars.Dead(f.Vars)
		})
	}
	return config.ErrUnknownDomain
}

func analyze[S semantics.State[S]](p *program.Program, o config.Options, exp export, init func(*program.Function) S) error {
	iopts, err := o.Interpreter()
	if err != nil {
		return err
	}

	sem := semantics.Semantics[S]{
		OnPrecisionLoss: func(stmt ir.Stmt) {
			opts.OnVerbose(func() {
				log.Println("Precision loss at", stmt)
			})
		},
	}
	in, err := absint.New(sem, iopts...)
	if err != nil {
		return err
	}

	log.Printf("Performing %s %s analysis...", in.Direction(), o.Domain)
	res, err := in.AnalyzeProgram(p, init)
	if err != nil {
		return err
	}
	log.Println("Analysis done:", res.Stats(), "in", res.Rounds, "rounds")
	if res.Stats().Aborted {
		log.Println("Iteration bound reached, results are unsound")
	}
	fmt.Println()

	fmt.Println("================ Results =====================")
	fmt.Println(res)

	opts.OnVerbose(func() {
		for _, name := range p.Names() {
			fmt.Println(utils.FunString(name), res.Results[name].Stats())
		}
	})

	if exp.enabled() {
		for _, name := range p.Names() {
			if err := exp.write(name, res.Results[name].ToDot(name)); err != nil {
				return err
			}
		}
	}
	return nil
}
