package suite

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"bundletest/internal/config"
	"bundletest/internal/model"
	"bundletest/internal/spec"
	"bundletest/pkg/logging"
)

const suiteSubsystem = "Suite"

// Element is one entry of a Suite: exactly one of Spec and Suite is set.
type Element struct {
	Spec  *spec.Spec `json:"spec,omitempty"`
	Suite *Suite     `json:"suite,omitempty"`
}

// Len counts the tests the element holds.
func (e Element) Len() int {
	switch {
	case e.Spec != nil:
		return e.Spec.Len()
	case e.Suite != nil:
		return e.Suite.Len()
	}
	return 0
}

// Suite is an ordered tree of tests for one classified directory.
type Suite struct {
	Name    string
	Model   *model.Model
	TestDir string

	options Options
	deps    Deps
	parent  *config.Config

	configOnce sync.Once
	config     *config.Config
	configErr  error

	elements []Element
}

// New creates an unresolved Suite for m. parent is the enclosing Suite's
// config, nil for the root.
func New(m *model.Model, opts Options, parent *config.Config, deps Deps) *Suite {
	return &Suite{
		Name:    m.Name,
		Model:   m,
		TestDir: m.TestDir,
		options: opts,
		deps:    deps.withDefaults(opts),
		parent:  parent,
	}
}

// Options returns the resolution-wide options.
func (s *Suite) Options() Options {
	return s.options
}

// Config returns the suite's config level, loading it on first use.
//
// A suite excluded by its parent's config never reads its own file; its
// config is an empty level over the parent. Otherwise Options.TestConfig
// (which must exist) or <testdir>/tests.yaml supplies the file layer.
func (s *Suite) Config() (*config.Config, error) {
	s.configOnce.Do(func() {
		s.config, s.configErr = s.loadConfig()
	})
	return s.config, s.configErr
}

func (s *Suite) loadConfig() (*config.Config, error) {
	if s.Excluded(s.parent) {
		logging.Debug(suiteSubsystem, "Suite %s excluded by parent, ignoring its config file", s.Name)
		return config.New(s.parent), nil
	}
	if s.options.TestConfig != "" {
		return config.LoadRequired(s.options.TestConfig, s.parent)
	}
	if s.TestDir != "" {
		return config.Load(filepath.Join(s.TestDir, config.FileName), s.parent)
	}
	return config.New(s.parent), nil
}

// Excluded reports whether the suite name contains any of the exclusion
// strings from the options or cfg. cfg may be nil.
func (s *Suite) Excluded(cfg *config.Config) bool {
	excludes := append([]string(nil), s.options.Excludes...)
	if cfg != nil {
		excludes = append(excludes, cfg.Excludes()...)
	}
	for _, exclude := range excludes {
		if exclude != "" && strings.Contains(s.Name, exclude) {
			return true
		}
	}
	return false
}

// Len is the number of tests in the suite, nested suites included.
func (s *Suite) Len() int {
	n := 0
	for _, e := range s.elements {
		n += e.Len()
	}
	return n
}

// Elements returns the suite's direct entries in order.
func (s *Suite) Elements() []Element {
	return append([]Element(nil), s.elements...)
}

// Specs flattens the tree into the order the tests run in.
func (s *Suite) Specs() []*spec.Spec {
	var out []*spec.Spec
	for _, e := range s.elements {
		if e.Spec != nil {
			out = append(out, e.Spec)
		} else if e.Suite != nil {
			out = append(out, e.Suite.Specs()...)
		}
	}
	return out
}

// MarshalJSON renders the resolved tree. Settings are the options visible
// at this suite, defaults included.
func (s *Suite) MarshalJSON() ([]byte, error) {
	view := struct {
		Name       string                 `json:"name"`
		Kind       model.Kind             `json:"kind"`
		Directory  string                 `json:"directory"`
		TestDir    string                 `json:"testdir,omitempty"`
		ConfigFile string                 `json:"config_file,omitempty"`
		Settings   map[string]interface{} `json:"settings,omitempty"`
		Tests      int                    `json:"tests"`
		Elements   []Element              `json:"elements"`
	}{
		Name:      s.Name,
		Kind:      s.Model.Kind,
		Directory: s.Model.Directory,
		TestDir:   s.TestDir,
		Tests:     s.Len(),
		Elements:  s.elements,
	}
	if view.Elements == nil {
		view.Elements = []Element{}
	}
	if cfg, err := s.Config(); err == nil {
		view.ConfigFile = cfg.Path()
		view.Settings = cfg.Settings()
	}
	return json.Marshal(view)
}
