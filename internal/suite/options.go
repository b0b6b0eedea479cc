package suite

import (
	"bundletest/internal/buildtool"
	"bundletest/internal/manifest"
)

// Options are the resolution-wide parameters shared, read-only, by every
// Suite of one resolution.
type Options struct {
	// Excludes are name substrings that exclude a suite, on top of the
	// "excludes" config option.
	Excludes []string `json:"excludes,omitempty"`
	// Manifest names the composition manifest explicitly.
	Manifest string `json:"manifest,omitempty"`
	// Deployment selects a named deployment inside the manifest.
	Deployment string `json:"deployment,omitempty"`
	// Tests restricts explicit discovery to these file names.
	Tests []string `json:"tests,omitempty"`
	// TestPattern overrides the "tests" config option.
	TestPattern string `json:"test_pattern,omitempty"`
	// SkipImplicit disables the lint probe and build targets.
	SkipImplicit bool `json:"skip_implicit,omitempty"`
	// TestConfig is a config file used instead of each suite's tests.yaml.
	TestConfig string `json:"test_config,omitempty"`
	// Verbose makes the deploy command verbose.
	Verbose bool `json:"verbose,omitempty"`
	// Repository is where component references of a manifest are looked up.
	Repository string `json:"repository,omitempty"`
	// Parallel bounds how many composition constituents resolve at once.
	// Values below 2 resolve them one after another.
	Parallel int `json:"parallel,omitempty"`
}

// Deps are the external collaborators a resolution calls out to.
type Deps struct {
	Resolver manifest.Resolver
	Prober   buildtool.Prober
}

// withDefaults fills unset collaborators with the local implementations.
func (d Deps) withDefaults(opts Options) Deps {
	if d.Resolver == nil {
		d.Resolver = manifest.NewLocalResolver(opts.Repository)
	}
	if d.Prober == nil {
		d.Prober = buildtool.NewMake("")
	}
	return d
}
