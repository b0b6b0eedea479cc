package cmd

import (
	"fmt"

	"bundletest/internal/suite"

	"github.com/spf13/cobra"
)

// resolveFlags holds the discovery flags shared by resolve and mcp-server.
type resolveFlags struct {
	excludes     []string
	bundle       string
	deployment   string
	tests        []string
	testPattern  string
	skipImplicit bool
	testConfig   string
	repository   string
	parallel     int
}

// register adds the discovery flags to cmd.
func (f *resolveFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.excludes, "exclude", "x", nil, "Exclude suites whose name contains this substring (repeatable)")
	flags.StringVarP(&f.bundle, "bundle", "b", "", "Bundle manifest to use instead of auto-detection")
	flags.StringVarP(&f.deployment, "deployment", "d", "", "Named deployment inside the bundle manifest")
	flags.StringSliceVar(&f.tests, "tests", nil, "Only run these test file names")
	flags.StringVar(&f.testPattern, "test-pattern", "", "Glob selecting explicit tests (default from tests.yaml, else test*)")
	flags.BoolVar(&f.skipImplicit, "skip-implicit", false, "Skip the lint probe and make targets")
	flags.StringVar(&f.testConfig, "test-config", "", "Config file used instead of each suite's tests.yaml")
	flags.StringVar(&f.repository, "repository", "", "Root directory searched for charms referenced by the bundle")
	flags.IntVar(&f.parallel, "parallel", 1, "Number of bundle components resolved concurrently")
}

// options converts the flags into resolution options.
func (f *resolveFlags) options() (suite.Options, error) {
	if f.parallel < 1 {
		return suite.Options{}, fmt.Errorf("--parallel must be at least 1, got %d", f.parallel)
	}
	return suite.Options{
		Excludes:     f.excludes,
		Manifest:     f.bundle,
		Deployment:   f.deployment,
		Tests:        f.tests,
		TestPattern:  f.testPattern,
		SkipImplicit: f.skipImplicit,
		TestConfig:   f.testConfig,
		Verbose:      verbose,
		Repository:   f.repository,
		Parallel:     f.parallel,
	}, nil
}

// targetDir returns the directory argument, defaulting to the working directory.
func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
