package config

import (
	"errors"
	"fmt"
	"os"

	"bundletest/internal/errdefs"
	"bundletest/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Load builds a Config whose file layer is read from path and which chains
// to parent.
//
// An empty path, or one that does not exist, yields an empty file layer.
// A file that exists but cannot be read or is not a YAML mapping fails with
// an *errdefs.ParseError.
func Load(path string, parent *Config) (*Config, error) {
	cfg := New(parent)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config file at %s, using inherited values", path)
			return cfg, nil
		}
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}

	values, err := parseDocument(data)
	if err != nil {
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}

	cfg.path = path
	cfg.file = values
	logging.Debug("Config", "Loaded %d option(s) from %s", len(values), path)
	return cfg, nil
}

// LoadRequired is Load for a path the caller named explicitly: a missing file
// is an error instead of an empty layer.
func LoadRequired(path string, parent *Config) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &errdefs.ParseError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	return Load(path, parent)
}

func parseDocument(data []byte) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]interface{})
	}
	return values, nil
}
