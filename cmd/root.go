package cmd

import (
	"errors"
	"os"

	"bundletest/internal/errdefs"
	"bundletest/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeValidation indicates discovery broke a requested constraint
	// (a test pattern matched nothing, or named tests are missing).
	ExitCodeValidation = 2
	// ExitCodeNotFound indicates a required test, manifest, component or
	// deploy script does not exist.
	ExitCodeNotFound = 3
	// ExitCodeAmbiguous indicates several manifests or deployments matched
	// and none was named.
	ExitCodeAmbiguous = 4
	// ExitCodeParse indicates a malformed config, metadata or manifest file.
	ExitCodeParse = 5
)

var (
	verbose bool
	debug   bool
)

// rootCmd represents the base command for the bundletest application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bundletest",
	Short: "Resolve the test suite of a charm or bundle",
	Long: `bundletest works out which tests to run for a charm, a bundle of charms
or a plain directory of tests, and with which configuration.

It classifies the directory, expands the charms a bundle manifest declares
into nested suites, injects implicit lint and make targets, discovers
executable tests and merges tests.yaml configuration down the tree.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitForCLI(logging.LevelFromFlags(verbose, debug), os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bundletest version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var validation *errdefs.ValidationError
	if errors.As(err, &validation) {
		return ExitCodeValidation
	}

	var notFound *errdefs.NotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeNotFound
	}

	var ambiguous *errdefs.AmbiguousError
	if errors.As(err, &ambiguous) {
		return ExitCodeAmbiguous
	}

	var parse *errdefs.ParseError
	if errors.As(err, &parse) {
		return ExitCodeParse
	}

	// Default to general error
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging; also makes the deploy command verbose")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newDeployCommandCmd())
	rootCmd.AddCommand(newMCPServerCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
