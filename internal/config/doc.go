// Package config implements the layered option chain used during suite
// resolution.
//
// Each suite (and each test with a sibling config file) owns one Config
// level. A level has three sources, consulted in order:
//
//  1. values set explicitly with Set
//  2. values parsed from the level's YAML file (tests.yaml or <test>.yaml)
//  3. the parent level, recursively
//
// and the built-in defaults sit below the whole chain. Reading a key never
// fails; unknown keys without a default resolve to nil.
//
// # File Format
//
//	tests: "itest*"            # explicit test glob (default: test*)
//	excludes: [mysql, legacy]  # substrings of suite names to skip
//	makefile: [lint, test]     # implicit make targets, probed in order
//	bundle_deploy: true        # or the path of a deploy script
//	deployment_timeout: 900    # seconds, carried to the deployer
//
// # Usage
//
//	root, err := config.Load("tests/tests.yaml", nil)
//	child, err := config.Load("charms/mysql/tests/tests.yaml", root)
//	pattern := child.Tests()
package config
