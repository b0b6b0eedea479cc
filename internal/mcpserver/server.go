package mcpserver

import (
	"context"
	"errors"
	"io"
	"os"

	"bundletest/internal/suite"
	"bundletest/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/singleflight"
)

const mcpSubsystem = "MCP"

// Server serves the resolution tools.
type Server struct {
	mcpServer *server.MCPServer
	defaults  suite.Options
	deps      suite.Deps

	// resolutions deduplicates identical concurrent requests
	resolutions singleflight.Group
}

// New creates a server. defaults seed every request's options.
func New(version string, defaults suite.Options, deps suite.Deps) *Server {
	mcpServer := server.NewMCPServer(
		"bundletest",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer: mcpServer,
		defaults:  defaults,
		deps:      deps,
	}
	s.registerTools()
	return s
}

// Start serves on stdin/stdout until the input closes or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads JSON-RPC messages from in and writes responses to out.
// Cancelling ctx is a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info(mcpSubsystem, "Serving MCP tools on stdio")
	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if err != nil && errors.Is(err, context.Canceled) {
		logging.Info(mcpSubsystem, "MCP server stopped")
		return nil
	}
	return err
}

// MCPServer returns the underlying server, for tests and embedding.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	resolveTool := mcp.NewTool("resolve_suite",
		mcp.WithDescription("Resolve the ordered test suite of a charm, bundle or test directory"),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to resolve"),
		),
		mcp.WithArray("exclude",
			mcp.Description("Suite name substrings to exclude"),
			mcp.WithStringItems(),
		),
		mcp.WithString("bundle",
			mcp.Description("Bundle manifest to use instead of auto-detection"),
		),
		mcp.WithString("deployment",
			mcp.Description("Named deployment inside the bundle manifest"),
		),
		mcp.WithArray("tests",
			mcp.Description("Only these test file names"),
			mcp.WithStringItems(),
		),
		mcp.WithString("test_pattern",
			mcp.Description("Glob selecting explicit tests (default from tests.yaml, else test*)"),
		),
		mcp.WithBoolean("skip_implicit",
			mcp.Description("Skip the lint probe and make targets"),
		),
		mcp.WithString("test_config",
			mcp.Description("Config file used instead of each suite's tests.yaml"),
		),
		mcp.WithString("repository",
			mcp.Description("Root directory searched for charms referenced by the bundle"),
		),
		mcp.WithNumber("parallel",
			mcp.Description("Number of bundle components resolved concurrently"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or yaml"),
		),
	)
	s.mcpServer.AddTool(resolveTool, s.handleResolveSuite)

	deployTool := mcp.NewTool("deploy_command",
		mcp.WithDescription("Return the command that deploys a bundle before its tests run"),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Bundle directory"),
		),
		mcp.WithString("bundle",
			mcp.Description("Bundle manifest to use instead of auto-detection"),
		),
		mcp.WithString("deployment",
			mcp.Description("Named deployment inside the bundle manifest"),
		),
		mcp.WithString("test_config",
			mcp.Description("Config file used instead of the bundle's tests.yaml"),
		),
		mcp.WithBoolean("verbose",
			mcp.Description("Make the deployer verbose"),
		),
	)
	s.mcpServer.AddTool(deployTool, s.handleDeployCommand)
}
