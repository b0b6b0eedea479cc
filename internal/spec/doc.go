// Package spec builds the runnable tests of a suite.
//
// A Spec is one test: a name, the argument vector that runs it, the
// directory it runs in and a Config chained to its owning suite's Config.
// Specs are built once during discovery and never modified afterwards.
//
// Three constructors cover the ways a test is found:
//
//   - FromPath for an executable file discovered in a test directory; a
//     sibling "<base>.yaml" becomes the Spec's own config level
//   - FromArgs for a command that must be on PATH, such as a build target
//   - Implicit for the lint probe, which is not checked at all
package spec
