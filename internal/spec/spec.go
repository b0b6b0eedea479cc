package spec

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bundletest/internal/config"
	"bundletest/internal/errdefs"

	"golang.org/x/sys/unix"
)

// Spec is a single runnable test.
type Spec struct {
	Name       string
	Executable []string
	// Config is this test's config level; its parent is the owning suite's.
	Config  *config.Config
	Dirname string
	// Suite names the owning suite.
	Suite string
}

// Len makes a Spec count as one test.
func (s *Spec) Len() int {
	return 1
}

// Command returns the executable as a shell-like string for display.
func (s *Spec) Command() string {
	return strings.Join(s.Executable, " ")
}

// MarshalJSON renders the spec with the file its config was loaded from.
func (s *Spec) MarshalJSON() ([]byte, error) {
	view := struct {
		Name       string   `json:"name"`
		Executable []string `json:"executable"`
		Dirname    string   `json:"dirname"`
		Suite      string   `json:"suite"`
		ConfigFile string   `json:"config_file,omitempty"`
	}{
		Name:       s.Name,
		Executable: s.Executable,
		Dirname:    s.Dirname,
		Suite:      s.Suite,
	}
	if s.Config != nil {
		view.ConfigFile = s.Config.Path()
	}
	return json.Marshal(view)
}

// FromPath builds a Spec for the test file at path. The file must be
// readable and executable. A "<base>.yaml" next to it, when present,
// supplies the spec's own options.
func FromPath(path string, parent *config.Config, owner string) (*Spec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if !IsRunnable(abs) {
		return nil, &errdefs.NotFoundError{Kind: "test", Path: abs, Reason: "expected an executable, readable file"}
	}

	cfg, err := config.Load(ControlFile(abs), parent)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Name:       filepath.Base(abs),
		Executable: []string{abs},
		Config:     cfg,
		Dirname:    filepath.Dir(abs),
		Suite:      owner,
	}, nil
}

// FromArgs builds a Spec that runs argv in dir. argv[0] must be found on
// PATH (or be a path to an executable).
func FromArgs(name string, argv []string, dir string, parent *config.Config, owner string) (*Spec, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("spec %s: empty command", name)
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, &errdefs.NotFoundError{Kind: "executable", Path: argv[0], Reason: err.Error()}
	}
	return Implicit(name, argv, dir, parent, owner), nil
}

// Implicit builds a Spec without checking that its command exists.
func Implicit(name string, argv []string, dir string, parent *config.Config, owner string) *Spec {
	return &Spec{
		Name:       name,
		Executable: append([]string(nil), argv...),
		Config:     config.New(parent),
		Dirname:    dir,
		Suite:      owner,
	}
}

// ControlFile returns the per-test config path for a test file: the same
// path with its extension replaced by ".yaml".
func ControlFile(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
}

// IsRunnable reports whether path is a regular file the current user may
// read and execute.
func IsRunnable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.R_OK|unix.X_OK) == nil
}
