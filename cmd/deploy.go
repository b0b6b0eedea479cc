package cmd

import (
	"fmt"

	"bundletest/internal/formatting"
	"bundletest/internal/suite"

	"github.com/spf13/cobra"
)

// newDeployCommandCmd creates the command that prints a bundle's deploy command.
func newDeployCommandCmd() *cobra.Command {
	var (
		bundle     string
		deployment string
		testConfig string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "deploy-command [DIR]",
		Short: "Print the command that deploys a bundle before its tests",
		Long: `Prints the command that deploys the bundle at DIR (default: the current
directory) before its tests run:

  juju-deployer [-Wvd] -c <manifest> [<deployment>] [-t <timeout>]

tests.yaml can replace it with a script ("bundle_deploy: deploy.sh"),
disable it ("bundle_deploy: false") or point at another manifest
("bundle: other.yaml"). Nothing is printed for charms and test directories.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return err
			}

			opts := suite.Options{
				Manifest:   bundle,
				Deployment: deployment,
				TestConfig: testConfig,
				Verbose:    verbose,
			}

			_, argv, err := suite.DeployCommandFor(targetDir(args), opts, suite.Deps{})
			if err != nil {
				return fmt.Errorf("failed to derive deploy command: %w", err)
			}

			formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
				Format: format,
				Output: cmd.OutOrStdout(),
			})
			return formatter.FormatCommand(argv)
		},
	}

	cmd.Flags().StringVarP(&bundle, "bundle", "b", "", "Bundle manifest to use instead of auto-detection")
	cmd.Flags().StringVarP(&deployment, "deployment", "d", "", "Named deployment inside the bundle manifest")
	cmd.Flags().StringVar(&testConfig, "test-config", "", "Config file used instead of the bundle's tests.yaml")
	cmd.Flags().StringVarP(&output, "output", "o", string(formatting.FormatConsole), "Output format (table, console, json, yaml)")
	return cmd
}
