package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bundletest/internal/errdefs"
	"bundletest/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Options carries the classification inputs chosen by the caller.
type Options struct {
	// Manifest names the composition manifest explicitly, bypassing detection.
	Manifest string
}

// classifier inspects a directory and returns a model, or nil when the
// directory is not of its kind.
type classifier struct {
	kind Kind
	fn   func(dir string, opts Options) (*Model, error)
}

// classifiers are tried in priority order; the first non-nil result wins.
var classifiers = []classifier{
	{kind: KindComposition, fn: classifyComposition},
	{kind: KindComponent, fn: classifyComponent},
	{kind: KindTestDir, fn: classifyTestDir},
}

// Classify determines what dir holds. It returns (nil, nil) when nothing in
// dir is testable.
func Classify(dir string, opts Options) (*Model, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for _, c := range classifiers {
		m, err := c.fn(abs, opts)
		if err != nil {
			return nil, err
		}
		if m != nil {
			m.Directory = abs
			logging.Debug("Model", "Classified %s as %s %q", abs, m.Kind, m.Name)
			return m, nil
		}
	}

	logging.Debug("Model", "Nothing testable in %s", abs)
	return nil, nil
}

// ClassifyComponent classifies dir as a component, failing with an
// *errdefs.NotFoundError when it has no metadata.
func ClassifyComponent(dir string) (*Model, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	m, err := classifyComponent(abs, Options{})
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &errdefs.NotFoundError{Kind: "component metadata", Path: filepath.Join(abs, MetadataFile)}
	}
	m.Directory = abs
	return m, nil
}

func classifyComposition(dir string, opts Options) (*Model, error) {
	if !isDir(dir) {
		return nil, nil
	}
	manifest, err := FindManifest(dir, opts.Manifest)
	if err != nil {
		return nil, err
	}
	if manifest == "" {
		return nil, nil
	}
	return &Model{
		Kind:     KindComposition,
		Name:     filepath.Base(dir),
		TestDir:  conventionalTestDir(dir),
		Manifest: manifest,
	}, nil
}

func classifyComponent(dir string, _ Options) (*Model, error) {
	path := filepath.Join(dir, MetadataFile)
	if !isFile(path) {
		return nil, nil
	}

	metadata, err := readMetadata(path)
	if err != nil {
		return nil, err
	}

	return &Model{
		Kind:     KindComponent,
		Name:     metadata["name"].(string),
		TestDir:  conventionalTestDir(dir),
		Metadata: metadata,
	}, nil
}

func classifyTestDir(dir string, _ Options) (*Model, error) {
	if !isDir(dir) {
		return nil, nil
	}
	testDir := conventionalTestDir(dir)
	if testDir == "" {
		testDir = dir
	}
	return &Model{
		Kind:    KindTestDir,
		Name:    filepath.Base(dir),
		TestDir: testDir,
	}, nil
}

func readMetadata(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}
	metadata, ok := asMap(doc)
	if !ok {
		return nil, &errdefs.ParseError{Path: path, Err: fmt.Errorf("metadata is not a mapping")}
	}

	name, _ := metadata["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, &errdefs.ParseError{Path: path, Err: fmt.Errorf("missing required field \"name\"")}
	}
	metadata["name"] = strings.TrimSpace(name)
	return metadata, nil
}
