// Package mcpserver exposes suite resolution as MCP tools over stdio.
//
// Tools:
//
//   - resolve_suite: resolve a directory and return the tree as JSON or YAML
//   - deploy_command: return the deploy command of a composition
//
// Both take the directory and the resolution options as arguments; options
// the caller leaves out fall back to the ones the server was started with.
// Identical concurrent requests share one resolution.
package mcpserver
