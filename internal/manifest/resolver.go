package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bundletest/internal/errdefs"
	"bundletest/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Descriptor is one constituent component of a composition.
type Descriptor struct {
	// Service is the key the component is deployed under in the manifest.
	Service string `json:"service"`
	// Reference is the raw charm (or branch) reference from the manifest.
	Reference string `json:"reference"`
	// Directory is the local component directory the reference resolved to.
	Directory string `json:"directory"`
}

// Resolver turns a composition manifest into its ordered constituents.
type Resolver interface {
	// Resolve returns the constituents of the manifest at path in declaration
	// order. deployment selects a named deployment in multi-deployment files.
	Resolve(ctx context.Context, path, deployment string) ([]Descriptor, error)
}

// LocalResolver resolves component references against the local filesystem.
type LocalResolver struct {
	// Repository is the root searched for references that are not paths.
	Repository string
}

// NewLocalResolver creates a resolver searching repository (may be empty).
func NewLocalResolver(repository string) *LocalResolver {
	return &LocalResolver{Repository: repository}
}

// Resolve implements Resolver.
func (r *LocalResolver) Resolve(ctx context.Context, path, deployment string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errdefs.ParseError{Path: path, Err: err}
	}

	services, err := selectServices(data, deployment)
	if err != nil {
		if !errdefs.IsAmbiguous(err) {
			err = &errdefs.ParseError{Path: path, Err: err}
		}
		return nil, err
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool)
	var descriptors []Descriptor
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir, err := r.locate(base, svc.reference)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.name, err)
		}
		if seen[dir] {
			logging.Debug("Manifest", "Service %s reuses %s, already listed", svc.name, dir)
			continue
		}
		seen[dir] = true
		descriptors = append(descriptors, Descriptor{
			Service:   svc.name,
			Reference: svc.reference,
			Directory: dir,
		})
	}

	logging.Info("Manifest", "Resolved %d component(s) from %s", len(descriptors), path)
	return descriptors, nil
}

// locate maps a reference onto a component directory.
func (r *LocalResolver) locate(base, reference string) (string, error) {
	if reference == "" {
		return "", &errdefs.NotFoundError{Kind: "component", Path: "(empty reference)"}
	}

	var candidates []string
	switch {
	case isPathReference(reference):
		path := reference
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		candidates = append(candidates, path)
	case strings.HasPrefix(reference, "local:"):
		series, name := splitReference(strings.TrimPrefix(reference, "local:"))
		if r.Repository != "" {
			candidates = append(candidates, filepath.Join(r.Repository, series, name))
		}
		candidates = append(candidates, filepath.Join(base, "charms", series, name))
	default:
		series, name := splitReference(reference)
		if r.Repository != "" {
			candidates = append(candidates, filepath.Join(r.Repository, name))
			if series != "" {
				candidates = append(candidates, filepath.Join(r.Repository, series, name))
			}
		}
		candidates = append(candidates, filepath.Join(base, "charms", name))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Clean(candidate), nil
		}
	}
	return "", &errdefs.NotFoundError{
		Kind:   "component",
		Path:   reference,
		Reason: "searched " + strings.Join(candidates, ", "),
	}
}

func isPathReference(reference string) bool {
	return strings.HasPrefix(reference, "/") ||
		strings.HasPrefix(reference, "./") ||
		strings.HasPrefix(reference, "../")
}

// splitReference turns "cs:~user/trusty/mysql-38" into ("trusty", "mysql").
func splitReference(reference string) (series, name string) {
	if i := strings.Index(reference, ":"); i >= 0 {
		reference = reference[i+1:]
	}
	parts := strings.Split(strings.Trim(reference, "/"), "/")
	name = parts[len(parts)-1]
	if len(parts) > 1 {
		series = parts[len(parts)-2]
		if strings.HasPrefix(series, "~") {
			series = ""
		}
	}
	return series, stripRevision(name)
}

func stripRevision(name string) string {
	i := strings.LastIndex(name, "-")
	if i <= 0 || i == len(name)-1 {
		return name
	}
	for _, ch := range name[i+1:] {
		if ch < '0' || ch > '9' {
			return name
		}
	}
	return name[:i]
}

type service struct {
	name      string
	reference string
}

// selectServices decodes the manifest keeping key order and returns the
// services of the chosen layout.
func selectServices(data []byte, deployment string) ([]service, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest is not a mapping")
	}
	top := doc.Content[0]

	if deployment == "" {
		// A nested services key makes "services" a deployment name.
		if services := mappingValue(top, "services"); services != nil && services.Kind == yaml.MappingNode &&
			mappingValue(services, "services") == nil {
			return decodeServices(services)
		}
	}

	deployments := make(map[string]*yaml.Node)
	var names []string
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		if value.Kind != yaml.MappingNode {
			continue
		}
		if services := mappingValue(value, "services"); services != nil && services.Kind == yaml.MappingNode {
			deployments[key] = services
			names = append(names, key)
		}
	}

	if deployment != "" {
		services, ok := deployments[deployment]
		if !ok {
			return nil, fmt.Errorf("deployment %q not found in manifest", deployment)
		}
		return decodeServices(services)
	}

	switch len(names) {
	case 0:
		return nil, fmt.Errorf("manifest declares no services")
	case 1:
		return decodeServices(deployments[names[0]])
	default:
		sort.Strings(names)
		return nil, &errdefs.AmbiguousError{
			What:       "deployment",
			Candidates: names,
			Hint:       "name one with --deployment",
		}
	}
}

func decodeServices(node *yaml.Node) ([]service, error) {
	var out []service
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, body := node.Content[i].Value, node.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("service %s is not a mapping", name)
		}
		ref := scalarValue(body, "charm")
		if ref == "" {
			ref = scalarValue(body, "branch")
		}
		if ref == "" {
			ref = name
		}
		out = append(out, service{name: name, reference: ref})
	}
	return out, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func scalarValue(node *yaml.Node, key string) string {
	if v := mappingValue(node, key); v != nil && v.Kind == yaml.ScalarNode {
		return strings.TrimSpace(v.Value)
	}
	return ""
}
