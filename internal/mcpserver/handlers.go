package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"bundletest/internal/errdefs"
	"bundletest/internal/formatting"
	"bundletest/internal/suite"
	"bundletest/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleResolveSuite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError("directory parameter is required"), nil
	}
	args := request.GetArguments()

	format := formatting.FormatJSON
	if name, ok := args["format"].(string); ok && name != "" {
		f, err := formatting.ParseFormat(name)
		if err != nil || (f != formatting.FormatJSON && f != formatting.FormatYAML) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid format '%s', must be 'json' or 'yaml'", name)), nil
		}
		format = f
	}

	opts, err := s.options(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.resolve(ctx, dir, opts)
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}
	if res == nil {
		return mcp.NewToolResultText(fmt.Sprintf("Nothing testable found in %s", dir)), nil
	}

	var buf bytes.Buffer
	f := formatting.NewFactory().CreateFormatter(formatting.Options{Format: format, Output: &buf})
	if err := f.FormatResolution(res); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format resolution: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleDeployCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError("directory parameter is required"), nil
	}

	opts, err := s.options(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, cmd, err := suite.DeployCommandFor(dir, opts, s.deps)
	if err != nil {
		return mcp.NewToolResultError(describeError(err)), nil
	}
	if m == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Nothing testable found in %s", dir)), nil
	}
	return mcp.NewToolResultText(formatting.PrettyJSON(map[string]interface{}{"command": cmd})), nil
}

// resolve runs one resolution, sharing it with identical concurrent calls.
// The shared work outlives any single caller; each caller stops waiting
// when its own ctx is done.
func (s *Server) resolve(ctx context.Context, dir string, opts suite.Options) (*suite.Resolution, error) {
	key := dir + "\x00" + formatting.PrettyJSON(opts)
	ch := s.resolutions.DoChan(key, func() (interface{}, error) {
		return suite.Resolve(context.WithoutCancel(ctx), dir, opts, s.deps)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			logging.Debug(mcpSubsystem, "Shared resolution of %s", dir)
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*suite.Resolution), nil
	}
}

// options overlays the request arguments on the server defaults.
func (s *Server) options(args map[string]interface{}) (suite.Options, error) {
	opts := s.defaults

	if v, ok := args["exclude"]; ok {
		opts.Excludes = append(append([]string(nil), opts.Excludes...), stringList(v)...)
	}
	if v, ok := args["tests"]; ok {
		opts.Tests = stringList(v)
	}
	if v, ok := args["bundle"].(string); ok && v != "" {
		opts.Manifest = v
	}
	if v, ok := args["deployment"].(string); ok && v != "" {
		opts.Deployment = v
	}
	if v, ok := args["test_pattern"].(string); ok && v != "" {
		opts.TestPattern = v
	}
	if v, ok := args["test_config"].(string); ok && v != "" {
		opts.TestConfig = v
	}
	if v, ok := args["repository"].(string); ok && v != "" {
		opts.Repository = v
	}
	if v, ok := args["skip_implicit"].(bool); ok {
		opts.SkipImplicit = v
	}
	if v, ok := args["verbose"].(bool); ok {
		opts.Verbose = v
	}
	if v, ok := args["parallel"].(float64); ok {
		if v < 1 || v > 64 {
			return opts, fmt.Errorf("parallel must be between 1 and 64")
		}
		opts.Parallel = int(v)
	}
	return opts, nil
}

// stringList accepts a JSON array or a comma separated string.
func stringList(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, t...)
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// describeError prefixes the error with its kind.
func describeError(err error) string {
	switch {
	case errdefs.IsValidation(err):
		return "Validation failed: " + err.Error()
	case errdefs.IsAmbiguous(err):
		return "Ambiguous: " + err.Error()
	case errdefs.IsNotFound(err):
		return "Not found: " + err.Error()
	case errdefs.IsParse(err):
		return "Parse error: " + err.Error()
	}
	return err.Error()
}
