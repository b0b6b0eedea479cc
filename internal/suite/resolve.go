package suite

import (
	"context"
	"fmt"

	"bundletest/internal/model"
	"bundletest/pkg/logging"

	"github.com/google/uuid"
)

// Resolution is the outcome of resolving one root directory.
type Resolution struct {
	// ID identifies this resolution in logs of later stages.
	ID    string       `json:"id"`
	Model *model.Model `json:"model"`
	Root  *Suite       `json:"suite"`
}

// Len is the number of tests resolved.
func (r *Resolution) Len() int {
	if r == nil || r.Root == nil {
		return 0
	}
	return r.Root.Len()
}

// Resolve classifies dir and resolves the suite rooted there. It returns
// (nil, nil) when dir holds nothing testable. Unset collaborators in deps
// default to the manifest.LocalResolver and make.
func Resolve(ctx context.Context, dir string, opts Options, deps Deps) (*Resolution, error) {
	m, err := model.Classify(dir, model.Options{Manifest: opts.Manifest})
	if err != nil {
		return nil, err
	}
	if m == nil {
		logging.Info(suiteSubsystem, "Nothing to test in %s", dir)
		return nil, nil
	}

	id := uuid.New().String()
	logging.Debug(suiteSubsystem, "Resolution %s: %s %q in %s", id, m.Kind, m.Name, m.Directory)

	root := New(m, opts, nil, deps)
	if err := root.FindSuite(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", m.Name, err)
	}

	logging.Info(suiteSubsystem, "Resolved %d test(s) for %s", root.Len(), m.Name)
	return &Resolution{ID: id, Model: m, Root: root}, nil
}
