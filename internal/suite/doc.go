// Package suite builds the ordered tree of tests for a directory.
//
// A Suite wraps one classified directory (see package model). FindSuite
// fills it in three steps, each consulting the Suite's lazily loaded
// Config, which chains to the parent Suite's Config:
//
//  1. Composition expansion: every component the manifest declares becomes
//     a child Suite, resolved recursively and kept when non-empty.
//  2. Implicit tests: the lint probe, plus one test per build target from
//     the "makefile" option that the component's build file defines.
//  3. Explicit tests: executable files in the test directory matching the
//     test pattern, in lexicographic order.
//
// The resulting order is child Suites in manifest order, then implicit
// tests, then explicit tests.
//
// Exclusion is a plain substring test of the Suite name against the
// resolution-wide excludes plus the config's "excludes" option. It is
// checked twice: against the parent's config before the Suite's own
// tests.yaml is read (an excluded component's file is never opened), and
// against the Suite's own config before any discovery.
//
// Resolve is the entry point: it classifies a directory, builds the root
// Suite and resolves it.
package suite
