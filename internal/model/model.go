package model

import (
	"os"
	"path/filepath"
)

// Kind identifies what a classified directory holds.
type Kind string

const (
	// KindComposition is a directory with a manifest of several components (a bundle).
	KindComposition Kind = "bundle"
	// KindComponent is a single deployable unit described by metadata.yaml (a charm).
	KindComponent Kind = "charm"
	// KindTestDir is a plain directory of tests with no deployable unit.
	KindTestDir Kind = "testdir"
)

const (
	// MetadataFile identifies a component directory.
	MetadataFile = "metadata.yaml"
	// TestsDir is the conventional test directory inside a component or composition.
	TestsDir = "tests"
)

// Model is the result of classifying a directory. It is immutable once
// returned by a classifier.
type Model struct {
	Kind Kind `json:"kind"`
	// Name is the metadata name for components and the directory name otherwise.
	Name string `json:"name"`
	// TestDir is where explicit tests are discovered; empty when there is none.
	TestDir string `json:"testdir,omitempty"`
	// Directory is the classified directory, stamped by Classify.
	Directory string `json:"directory"`
	// Manifest is the composition manifest path (compositions only).
	Manifest string `json:"manifest,omitempty"`
	// Metadata is the parsed component metadata (components only).
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// IsComposition reports whether m describes a composition.
func (m *Model) IsComposition() bool {
	return m != nil && m.Kind == KindComposition
}

// IsComponent reports whether m describes a single component.
func (m *Model) IsComponent() bool {
	return m != nil && m.Kind == KindComponent
}

// Deployable reports whether the model is something with implicit tests,
// i.e. a composition or a component.
func (m *Model) Deployable() bool {
	return m.IsComposition() || m.IsComponent()
}

// conventionalTestDir returns <dir>/tests when it is a directory.
func conventionalTestDir(dir string) string {
	candidate := filepath.Join(dir, TestsDir)
	if isDir(candidate) {
		return candidate
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
