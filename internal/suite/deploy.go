package suite

import (
	"path/filepath"
	"strconv"

	"bundletest/internal/errdefs"
	"bundletest/internal/model"
	"bundletest/internal/spec"
)

// Deployer is the tool the derived deploy command runs.
const Deployer = "juju-deployer"

// DeployCommand returns the command that deploys a composition before its
// tests run, or nil when the suite is not a composition or "bundle_deploy"
// is off.
//
// When "bundle_deploy" names a script (relative to the test directory) the
// script is the whole command and must be executable. Otherwise the
// command is:
//
//	juju-deployer [-Wvd] -c <manifest> [<deployment>] [-t <deployment_timeout>]
//
// The "bundle" option, when set, replaces the detected manifest.
func (s *Suite) DeployCommand() ([]string, error) {
	if !s.Model.IsComposition() {
		return nil, nil
	}
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	enabled, script := cfg.BundleDeploy()
	if !enabled {
		return nil, nil
	}

	if script != "" {
		path := s.relative(script)
		if !spec.IsRunnable(path) {
			return nil, &errdefs.NotFoundError{Kind: "deploy script", Path: path, Reason: "expected an executable, readable file"}
		}
		return []string{path}, nil
	}

	manifest := s.Model.Manifest
	if bundle := cfg.Bundle(); bundle != "" {
		manifest = bundle
		if !filepath.IsAbs(manifest) {
			manifest = filepath.Join(s.Model.Directory, manifest)
		}
	}

	cmd := []string{Deployer}
	if s.options.Verbose {
		cmd = append(cmd, "-Wvd")
	}
	cmd = append(cmd, "-c", manifest)
	if s.options.Deployment != "" {
		cmd = append(cmd, s.options.Deployment)
	}
	if timeout, ok := cfg.DeploymentTimeout(); ok {
		cmd = append(cmd, "-t", strconv.Itoa(timeout))
	}
	return cmd, nil
}

// DeployCommandFor classifies dir and derives the deploy command of the
// suite rooted there. Constituents are neither expanded nor discovered, so
// only the composition's own config is read. The model is nil when dir
// holds nothing testable.
func DeployCommandFor(dir string, opts Options, deps Deps) (*model.Model, []string, error) {
	m, err := model.Classify(dir, model.Options{Manifest: opts.Manifest})
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, nil
	}
	cmd, err := New(m, opts, nil, deps).DeployCommand()
	if err != nil {
		return m, nil, err
	}
	return m, cmd, nil
}

// relative resolves path against the test directory, or the model
// directory when there is none.
func (s *Suite) relative(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := s.TestDir
	if base == "" {
		base = s.Model.Directory
	}
	return filepath.Join(base, path)
}
