// Command lyra runs abstract interpretations of programs described in YAML.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/caterinaurban/lyra/config"
	"github.com/caterinaurban/lyra/utils"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "lyra",
		Short:         "Abstract interpretation of control-flow graphs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			utils.SetVerbose(verbose)
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Print intermediate results")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [flags] program.yaml",
		Short: "Compute the abstract states of every function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options(cmd)
			if err != nil {
				return err
			}
			return runAnalyze(args[0], opts, exportFlags(cmd))
		},
	}
	analyzeCmd.Flags().StringP("config", "c", "", "TOML configuration file")
	analyzeCmd.Flags().StringP("domain", "d", "", "Abstract domain ("+strings.Join(config.Domains, ", ")+")")
	analyzeCmd.Flags().String("direction", "", "Analysis direction (forward or backward)")
	analyzeCmd.Flags().Int("narrowing", 0, "Number of narrowing passes")
	analyzeCmd.Flags().Int("widening-delay", 0, "Loop head visits before widening")
	analyzeCmd.Flags().Int("max-iterations", 0, "Node visits before giving up")
	analyzeCmd.Flags().Bool("no-colorize", false, "Disable colorized output")
	analyzeCmd.Flags().Bool("trace", false, "Trace the fixpoint iteration")
	analyzeCmd.Flags().String("trace-file", "", "Also write the trace to this file")
	addDotFlags(analyzeCmd)

	cfgCmd := &cobra.Command{
		Use:   "cfg [flags] program.yaml",
		Short: "Print the control-flow graphs of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compress, _ := cmd.Flags().GetBool("compress")
			noColorize, _ := cmd.Flags().GetBool("no-colorize")
			utils.SetNoColorize(noColorize)
			return runCFG(args[0], compress, exportFlags(cmd))
		},
	}
	cfgCmd.Flags().Bool("compress", false, "Merge straight-line chains of nodes")
	cfgCmd.Flags().Bool("no-colorize", false, "Disable colorized output")
	addDotFlags(cfgCmd)

	root.AddCommand(analyzeCmd, cfgCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func addDotFlags(cmd *cobra.Command) {
	cmd.Flags().String("dot", "", "Export graphs to this directory")
	cmd.Flags().String("format", "svg", "Image format of exported graphs")
	cmd.Flags().Uint("minlen", 2, "Minimum edge length in exported graphs")
	cmd.Flags().Float64("nodesep", 0.35, "Node separation in exported graphs")
	cmd.Flags().Bool("show", false, "Show graphs with xdot")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		minlen, _ := cmd.Flags().GetUint("minlen")
		nodesep, _ := cmd.Flags().GetFloat64("nodesep")
		utils.SetDotLayout(minlen, nodesep)
	}
}

func exportFlags(cmd *cobra.Command) export {
	dir, _ := cmd.Flags().GetString("dot")
	format, _ := cmd.Flags().GetString("format")
	show, _ := cmd.Flags().GetBool("show")
	return export{dir: dir, format: format, show: show}
}

// options loads the configuration file, if any, and applies the flags set
// on the command line.
func options(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if opts, err = config.Load(path); err != nil {
			return opts, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("domain") {
		opts.Domain, _ = flags.GetString("domain")
	}
	if flags.Changed("direction") {
		opts.Direction, _ = flags.GetString("direction")
	}
	if flags.Changed("narrowing") {
		opts.NarrowingPasses, _ = flags.GetInt("narrowing")
	}
	if flags.Changed("widening-delay") {
		opts.WideningDelay, _ = flags.GetInt("widening-delay")
	}
	if flags.Changed("max-iterations") {
		opts.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("no-colorize") {
		opts.NoColorize, _ = flags.GetBool("no-colorize")
	}
	if flags.Changed("trace") {
		opts.Trace, _ = flags.GetBool("trace")
	}
	if flags.Changed("trace-file") {
		opts.TraceFile, _ = flags.GetString("trace-file")
	}
	return opts, opts.Validate()
}
