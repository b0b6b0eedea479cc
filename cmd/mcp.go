package cmd

import (
	"bundletest/internal/mcpserver"
	"bundletest/internal/suite"

	"github.com/spf13/cobra"
)

// newMCPServerCmd creates the command serving resolution as MCP tools.
func newMCPServerCmd() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve suite resolution as MCP tools over stdio",
		Long: `Runs an MCP server on stdin/stdout exposing two tools:

  resolve_suite   resolve the test suite of a directory (json or yaml)
  deploy_command  the command that deploys a bundle before its tests

The flags below become the defaults of every tool call; arguments of a
call override them. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return mcpserver.New(GetVersion(), opts, suite.Deps{}).Start(ctx)
		},
	}

	flags.register(cmd)
	return cmd
}
