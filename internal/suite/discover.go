package suite

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"bundletest/internal/config"
	"bundletest/internal/errdefs"
	"bundletest/internal/spec"
	"bundletest/pkg/logging"
)

const (
	// LintName is the name of the implicit lint test.
	LintName = "proof"
)

// LintCommand runs the component linter. It is not checked for existence.
var LintCommand = []string{"charm", "proof"}

// FindSuite resolves the suite. The result holds the constituent suites of
// a composition first, then implicit tests, then explicit tests. A suite
// excluded by its own config stays empty. Calling it again rebuilds the
// suite from scratch.
func (s *Suite) FindSuite(ctx context.Context) error {
	cfg, err := s.Config()
	if err != nil {
		return err
	}

	s.elements = nil
	if s.Excluded(cfg) {
		logging.Info(suiteSubsystem, "Excluding %s", s.Name)
		return nil
	}

	var implicit []*spec.Spec
	if s.Model.Deployable() && !s.options.SkipImplicit {
		if implicit, err = s.FindImplicitTests(ctx, cfg); err != nil {
			return err
		}
	}

	var children []Element
	if s.Model.IsComposition() {
		if children, err = s.expand(ctx, cfg); err != nil {
			return err
		}
	}

	explicit, err := s.FindTests(cfg)
	if err != nil {
		return err
	}

	elements := make([]Element, 0, len(children)+len(implicit)+len(explicit))
	elements = append(elements, children...)
	for _, sp := range implicit {
		elements = append(elements, Element{Spec: sp})
	}
	for _, sp := range explicit {
		elements = append(elements, Element{Spec: sp})
	}
	s.elements = elements

	logging.Debug(suiteSubsystem, "Suite %s: %d suite(s), %d implicit, %d explicit test(s)",
		s.Name, len(children), len(implicit), len(explicit))
	return nil
}

// FindImplicitTests returns the lint test followed by one test per
// "makefile" target the build tool reports for the model directory.
// Targets that fail to probe are left out silently.
func (s *Suite) FindImplicitTests(ctx context.Context, cfg *config.Config) ([]*spec.Spec, error) {
	dir := s.Model.Directory
	specs := []*spec.Spec{spec.Implicit(LintName, LintCommand, dir, cfg, s.Name)}

	for _, target := range cfg.Makefile() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.deps.Prober.HasTarget(ctx, dir, target) {
			continue
		}
		sp, err := spec.FromArgs(target, s.deps.Prober.Command(target), dir, cfg, s.Name)
		if err != nil {
			return nil, fmt.Errorf("target %s of %s: %w", target, s.Name, err)
		}
		specs = append(specs, sp)
	}
	return specs, nil
}

// FindTests discovers the explicit tests in the suite's test directory.
//
// The pattern is Options.TestPattern, else the config's "tests" option.
// When Options.Tests is set only those file names are considered. Matches
// that are not readable executable files are skipped. A non-default
// pattern that finds nothing, or a test list that is not found in full,
// fails with an *errdefs.ValidationError.
func (s *Suite) FindTests(cfg *config.Config) ([]*spec.Spec, error) {
	pattern := s.options.TestPattern
	if pattern == "" {
		pattern = cfg.Tests()
	}

	var matches []string
	if s.TestDir != "" {
		found, err := filepath.Glob(filepath.Join(s.TestDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid test pattern %q: %w", pattern, err)
		}
		matches = found
	}

	if len(s.options.Tests) > 0 {
		allowed := make(map[string]bool, len(s.options.Tests))
		for _, name := range s.options.Tests {
			allowed[filepath.Join(s.TestDir, name)] = true
		}
		filtered := matches[:0]
		for _, m := range matches {
			if allowed[m] {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	sort.Strings(matches)

	var specs []*spec.Spec
	for _, path := range matches {
		if !spec.IsRunnable(path) {
			logging.Debug(suiteSubsystem, "Skipping %s: not an executable file", path)
			continue
		}
		sp, err := spec.FromPath(path, cfg, s.Name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, sp)
	}

	if pattern != config.DefaultTestPattern && len(specs) == 0 {
		return nil, &errdefs.ValidationError{
			Suite:  s.Name,
			Reason: errdefs.ReasonPatternMatchedNothing,
			Detail: fmt.Sprintf("no executable tests match %q in %s", pattern, s.TestDir),
		}
	}
	if len(s.options.Tests) > 0 && len(s.options.Tests) != len(specs) {
		return nil, &errdefs.ValidationError{
			Suite:  s.Name,
			Reason: errdefs.ReasonTestCountMismatch,
			Detail: fmt.Sprintf("requested %d test(s), found %d executable", len(s.options.Tests), len(specs)),
		}
	}
	return specs, nil
}
