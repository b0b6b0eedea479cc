package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"bundletest/internal/suite"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func makeBundle(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "wiki")
	writeFile(t, filepath.Join(dir, "bundle.yaml"), "services:\n  db:\n    charm: mysql\n", 0644)
	writeFile(t, filepath.Join(dir, "charms", "mysql", "metadata.yaml"), "name: mysql\n", 0644)
	writeFile(t, filepath.Join(dir, "charms", "mysql", "tests", "test_db"), "#!/bin/sh\n", 0755)
	writeFile(t, filepath.Join(dir, "tests", "test_wiki"), "#!/bin/sh\n", 0755)
	return dir
}

func newTestServer() *Server {
	return New("test", suite.Options{SkipImplicit: true}, suite.Deps{})
}

func TestHandleResolveSuite(t *testing.T) {
	dir := makeBundle(t)
	s := newTestServer()

	result, err := s.handleResolveSuite(context.Background(), newRequest(map[string]interface{}{
		"directory": dir,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var decoded struct {
		Suite struct {
			Name  string `json:"name"`
			Tests int    `json:"tests"`
		} `json:"suite"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, "wiki", decoded.Suite.Name)
	assert.Equal(t, 2, decoded.Suite.Tests)
}

func TestHandleResolveSuite_Options(t *testing.T) {
	dir := makeBundle(t)
	s := newTestServer()

	result, err := s.handleResolveSuite(context.Background(), newRequest(map[string]interface{}{
		"directory": dir,
		"exclude":   []interface{}{"mys"},
		"format":    "yaml",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "test_wiki")
	assert.NotContains(t, text, "test_db")
}

func TestHandleResolveSuite_Errors(t *testing.T) {
	dir := makeBundle(t)
	s := newTestServer()

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{name: "missing directory", args: map[string]interface{}{}, contains: "directory parameter is required"},
		{name: "bad format", args: map[string]interface{}{"directory": dir, "format": "table"}, contains: "Invalid format"},
		{name: "bad parallel", args: map[string]interface{}{"directory": dir, "parallel": float64(0)}, contains: "parallel"},
		{name: "validation", args: map[string]interface{}{"directory": dir, "test_pattern": "nomatch*"}, contains: "Validation failed"},
		{name: "explicit manifest missing", args: map[string]interface{}{"directory": dir, "bundle": "other.yaml"}, contains: "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleResolveSuite(context.Background(), newRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.contains)
		})
	}
}

func TestHandleResolveSuite_NothingTestable(t *testing.T) {
	s := newTestServer()
	result, err := s.handleResolveSuite(context.Background(), newRequest(map[string]interface{}{
		"directory": filepath.Join(t.TempDir(), "missing"),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Nothing testable")
}

func TestHandleDeployCommand(t *testing.T) {
	dir := makeBundle(t)
	s := newTestServer()

	result, err := s.handleDeployCommand(context.Background(), newRequest(map[string]interface{}{
		"directory": dir,
		"verbose":   true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var decoded struct {
		Command []string `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, []string{"juju-deployer", "-Wvd", "-c", filepath.Join(dir, "bundle.yaml")}, decoded.Command)
}

func TestHandleDeployCommand_StoreCharmsWithDeployment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bundle.yaml"), "services:\n  db:\n    charm: cs:trusty/mysql-38\n", 0644)
	s := newTestServer()

	result, err := s.handleDeployCommand(context.Background(), newRequest(map[string]interface{}{
		"directory":  dir,
		"deployment": "wiki",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var decoded struct {
		Command []string `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	assert.Equal(t, []string{"juju-deployer", "-c", filepath.Join(dir, "bundle.yaml"), "wiki"}, decoded.Command)
}

func TestOptions(t *testing.T) {
	s := New("test", suite.Options{Excludes: []string{"a"}, Repository: "/repo"}, suite.Deps{})

	opts, err := s.options(map[string]interface{}{
		"exclude":  "b, c",
		"tests":    []interface{}{"test_x", ""},
		"parallel": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, opts.Excludes)
	assert.Equal(t, []string{"test_x"}, opts.Tests)
	assert.Equal(t, "/repo", opts.Repository)
	assert.Equal(t, 3, opts.Parallel)
	assert.Equal(t, []string{"a"}, s.defaults.Excludes, "defaults are not modified")
}
