package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bundletest/internal/errdefs"
	"bundletest/pkg/logging"

	"gopkg.in/yaml.v3"
)

// FindManifest locates the composition manifest for dir.
//
// An explicit path (relative to dir unless absolute) must exist and is used
// as-is. Otherwise every YAML file directly in dir is checked with
// IsManifest; one match is returned, none yields "", several fail with an
// *errdefs.AmbiguousError naming them all.
func FindManifest(dir, explicit string) (string, error) {
	if explicit != "" {
		path := explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if !isFile(path) {
			return "", &errdefs.NotFoundError{Kind: "bundle manifest", Path: path}
		}
		return path, nil
	}

	candidates, err := yamlFiles(dir)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			logging.Warn("Model", "Skipping unreadable manifest candidate %s: %v", candidate, err)
			continue
		}
		if IsManifest(data) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", &errdefs.AmbiguousError{
			What:       "bundle manifest",
			Candidates: matches,
			Hint:       "name one explicitly with --bundle",
		}
	}
}

// IsManifest reports whether a YAML document looks like a composition manifest.
//
// Two layouts are recognised: a top-level "services" mapping (without a
// nested "services" key), and deployments keyed by name whose mapping holds
// a "services" mapping. The second form is rejected when the nested mapping
// has exactly the keys default, description and type, since that is a
// component option named "services" rather than a list of services.
func IsManifest(data []byte) bool {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	top, ok := asMap(doc)
	if !ok {
		return false
	}

	if services, ok := asMap(top["services"]); ok {
		if _, nested := services["services"]; !nested {
			return true
		}
	}

	for _, value := range top {
		section, ok := asMap(value)
		if !ok {
			continue
		}
		services, ok := asMap(section["services"])
		if !ok {
			continue
		}
		if isOptionSchema(services) {
			continue
		}
		return true
	}
	return false
}

func isOptionSchema(m map[string]interface{}) bool {
	if len(m) != 3 {
		return false
	}
	for _, key := range []string{"default", "description", "type"} {
		if _, ok := m[key]; !ok {
			return false
		}
	}
	return true
}

// asMap normalises the two mapping shapes yaml.v3 decodes into.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
