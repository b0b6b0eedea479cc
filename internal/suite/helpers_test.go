package suite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"bundletest/internal/manifest"

	"github.com/stretchr/testify/require"
)

// fakeProber reports the targets configured per directory.
type fakeProber struct {
	mu      sync.Mutex
	targets map[string][]string
	probed  []string
}

func newFakeProber() *fakeProber {
	return &fakeProber{targets: make(map[string][]string)}
}

func (p *fakeProber) add(dir string, targets ...string) {
	p.targets[dir] = append(p.targets[dir], targets...)
}

func (p *fakeProber) HasTarget(_ context.Context, dir, target string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probed = append(p.probed, target)
	for _, t := range p.targets[dir] {
		if t == target {
			return true
		}
	}
	return false
}

// Command uses true(1) so the spec builder finds it on PATH.
func (p *fakeProber) Command(target string) []string {
	return []string{"true", "-s", target}
}

type fakeResolver struct {
	descriptors []manifest.Descriptor
	err         error
}

func (r *fakeResolver) Resolve(context.Context, string, string) ([]manifest.Descriptor, error) {
	return r.descriptors, r.err
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

// makeComponent creates a component directory with metadata and the given
// tests; executable tests are listed in exec, others in plain.
func makeComponent(t *testing.T, dir, name string, exec []string, plain ...string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "metadata.yaml"), "name: "+name+"\n", 0644)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	for _, test := range exec {
		writeFile(t, filepath.Join(dir, "tests", test), "#!/bin/sh\nexit 0\n", 0755)
	}
	for _, test := range plain {
		writeFile(t, filepath.Join(dir, "tests", test), "#!/bin/sh\nexit 0\n", 0644)
	}
}

// makeComposition creates a bundle directory whose manifest lists the
// given components, each under charms/<name> with one test test_<name>.
func makeComposition(t *testing.T, components ...string) string {
	t.Helper()
	dir := t.TempDir()
	manifestText := "services:\n"
	for _, c := range components {
		manifestText += "  " + c + ":\n    charm: cs:trusty/" + c + "\n"
		makeComponent(t, filepath.Join(dir, "charms", c), c, []string{"test_" + c})
	}
	writeFile(t, filepath.Join(dir, "bundle.yaml"), manifestText, 0644)
	writeFile(t, filepath.Join(dir, "tests", "test_bundle"), "#!/bin/sh\n", 0755)
	return dir
}

func specNames(s *Suite) []string {
	var names []string
	for _, sp := range s.Specs() {
		names = append(names, sp.Name)
	}
	return names
}

func suiteNames(s *Suite) []string {
	var names []string
	for _, e := range s.Elements() {
		if e.Suite != nil {
			names = append(names, e.Suite.Name)
		}
	}
	return names
}
