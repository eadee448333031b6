// stackfold folds profiler stack-trace dumps into counted one-line stacks.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stackfold/internal/addr2line"
	"stackfold/internal/collapse"
	"stackfold/internal/config"
	"stackfold/internal/fold"
)

func main() {
	cmd, err := newRootCmd()
	if err == nil {
		err = cmd.Execute()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	opts := config.Default()
	if err := opts.ApplyEnv(); err != nil {
		return nil, err
	}

	annotateAll := false

	rootCmd := &cobra.Command{
		Use:   "stackfold [flags] [file ...]",
		Short: "Fold profiler stack samples into counted single-line stacks",
		Long: `stackfold reads the textual trace dump of a system profiler and writes
one line per unique call stack: frame names joined by semicolons, root
first, followed by the number of samples that hit that stack.

Examples:
  perf script | stackfold > out.folded
  stackfold --tid --kernel perf.txt
  stackfold --inline --context app-perf.txt`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if annotateAll {
				opts.AnnotateKernel = true
				opts.AnnotateJit = true
			}
			opts.Resolve()
			setupLogging(opts.Verbose)
			return run(opts, args, os.Stdout)
		},
	}

	f := rootCmd.Flags()
	f.BoolVar(&opts.IncludePID, "pid", false, "include PID with process names")
	f.BoolVar(&opts.IncludeTID, "tid", false, "include TID and PID with process names")
	f.BoolVar(&opts.ShowInline, "inline", false, "un-inline using addr2line")
	f.BoolVar(&opts.ShowContext, "context", false, "include source context from addr2line")
	f.BoolVar(&opts.AnnotateKernel, "kernel", false, "annotate kernel functions with a _[k]")
	f.BoolVar(&opts.AnnotateJit, "jit", false, "annotate jit functions with a _[j]")
	f.BoolVar(&annotateAll, "all", false, "all annotations (--kernel --jit)")
	f.BoolVar(&opts.IncludeAddrs, "addrs", false, "include raw addresses where symbols are missing")
	f.StringVar(&opts.EventFilter, "event-filter", opts.EventFilter, "event name filter (default: first event seen)")
	f.StringVar(&opts.Addr2line, "addr2line", opts.Addr2line, "address resolution tool for --inline")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug diagnostics on stderr")

	return rootCmd, nil
}

// setupLogging routes diagnostics to stderr; stdout carries folded
// stacks only.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func run(opts config.Options, args []string, out io.Writer) error {
	table := fold.NewTable()

	var resolve addr2line.ResolveFunc
	if opts.ShowInline {
		resolve = addr2line.New(opts.Addr2line, opts.ShowContext).Resolve
	}

	c := collapse.New(opts, table, resolve, slog.Default())

	if len(args) == 0 {
		if err := c.Consume(os.Stdin); err != nil {
			return err
		}
	}
	for _, path := range args {
		if err := consumeFile(c, path); err != nil {
			return err
		}
	}

	if _, err := table.WriteTo(out); err != nil {
		return fmt.Errorf("writing folded stacks: %w", err)
	}
	return nil
}

func consumeFile(c *collapse.Collapser, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	if err := c.Consume(in); err != nil {
		return fmt.Errorf("processing %s: %w", path, err)
	}
	return nil
}
