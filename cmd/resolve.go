package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"bundletest/internal/formatting"
	"bundletest/internal/suite"
	"bundletest/internal/watch"
	"bundletest/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	flags   resolveFlags
	output  string
	quiet   bool
	noColor bool
	watch   bool
}

// newResolveCmd creates the command that resolves and prints a suite tree.
func newResolveCmd() *cobra.Command {
	o := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [DIR]",
		Short: "Resolve the tests of a charm, bundle or test directory",
		Long: `Resolves the ordered test suite rooted at DIR (default: the current
directory) and prints every test with the command that runs it.

A bundle expands into one nested suite per charm it deploys, in manifest
order. Charms also get the "proof" lint test and any make targets listed
in the "makefile" option of tests.yaml.

Examples:
  bundletest resolve
  bundletest resolve ./bundles/wiki --deployment wiki-ha
  bundletest resolve --exclude mysql --output json
  bundletest resolve --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, targetDir(args), o)
		},
	}

	o.flags.register(cmd)
	cmd.Flags().StringVarP(&o.output, "output", "o", string(formatting.FormatTable), "Output format (table, console, json, yaml)")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "Suppress decorations and progress")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "Resolve again whenever files under DIR change")
	return cmd
}

func runResolve(cmd *cobra.Command, dir string, o *resolveOptions) error {
	format, err := formatting.ParseFormat(o.output)
	if err != nil {
		return err
	}
	opts, err := o.flags.options()
	if err != nil {
		return err
	}

	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Quiet:  o.quiet,
		Color:  !o.noColor && format == formatting.FormatTable,
		Output: cmd.OutOrStdout(),
	})

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	showProgress := format == formatting.FormatTable && !o.quiet
	resolveOnce := func() error {
		var s *spinner.Spinner
		if showProgress {
			s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " Resolving tests in " + dir + "..."
			s.Start()
		}
		res, err := suite.Resolve(ctx, dir, opts, suite.Deps{})
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return err
		}
		return formatter.FormatResolution(res)
	}

	if !o.watch {
		return resolveOnce()
	}
	return watchAndResolve(ctx, dir, resolveOnce)
}

// watchAndResolve resolves once, then again after every burst of changes
// under dir until ctx is cancelled. Resolution errors are logged, not fatal.
func watchAndResolve(ctx context.Context, dir string, resolveOnce func() error) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	detector := watch.NewDetector(root, 0)
	changes := make(chan watch.ChangeEvent, 1)
	if err := detector.Start(ctx, changes); err != nil {
		return err
	}
	defer detector.Stop()

	if err := resolveOnce(); err != nil {
		logging.Error("CLI", err, "Resolution failed")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-changes:
			logging.Info("CLI", "%d path(s) changed, resolving again", len(event.Paths))
			if err := resolveOnce(); err != nil {
				logging.Error("CLI", err, "Resolution failed")
			}
		}
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
