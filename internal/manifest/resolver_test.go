package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bundletest/internal/errdefs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0755))
	}
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolve_PreservesDeclarationOrder(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t,
		filepath.Join(dir, "charms", "zookeeper"),
		filepath.Join(dir, "charms", "apache"),
		filepath.Join(dir, "charms", "mysql"),
	)
	path := writeManifest(t, dir, `services:
  zk:
    charm: cs:trusty/zookeeper-12
  web:
    charm: cs:~someone/trusty/apache
  db:
    charm: mysql
`)

	got, err := NewLocalResolver("").Resolve(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "zk", got[0].Service)
	assert.Equal(t, filepath.Join(dir, "charms", "zookeeper"), got[0].Directory)
	assert.Equal(t, "web", got[1].Service)
	assert.Equal(t, filepath.Join(dir, "charms", "apache"), got[1].Directory)
	assert.Equal(t, "db", got[2].Service)
	assert.Equal(t, "cs:trusty/zookeeper-12", got[0].Reference)
}

func TestResolve_RepositoryAndLocalReferences(t *testing.T) {
	repo := t.TempDir()
	bundleDir := t.TempDir()
	mkdirs(t,
		filepath.Join(repo, "trusty", "mysql"),
		filepath.Join(repo, "wordpress"),
		filepath.Join(bundleDir, "src", "haproxy"),
	)
	path := writeManifest(t, bundleDir, `services:
  db:
    charm: local:trusty/mysql
  blog:
    charm: cs:precise/wordpress-3
  lb:
    branch: ./src/haproxy
`)

	got, err := NewLocalResolver(repo).Resolve(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, filepath.Join(repo, "trusty", "mysql"), got[0].Directory)
	assert.Equal(t, filepath.Join(repo, "wordpress"), got[1].Directory)
	assert.Equal(t, filepath.Join(bundleDir, "src", "haproxy"), got[2].Directory)
}

func TestResolve_DeduplicatesSharedComponents(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "charms", "mysql"))
	path := writeManifest(t, dir, `services:
  master:
    charm: mysql
  slave:
    charm: cs:trusty/mysql-7
`)

	got, err := NewLocalResolver("").Resolve(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "master", got[0].Service)
}

func TestResolve_Deployments(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "charms", "mysql"), filepath.Join(dir, "charms", "redis"))
	content := `sql:
  series: trusty
  services:
    mysql: {charm: mysql}
kv:
  services:
    redis: {charm: redis}
`
	path := writeManifest(t, dir, content)
	resolver := NewLocalResolver("")

	t.Run("named deployment", func(t *testing.T) {
		got, err := resolver.Resolve(context.Background(), path, "kv")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "redis", got[0].Service)
	})

	t.Run("unnamed with several deployments", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), path, "")
		require.Error(t, err)
		var ambiguous *errdefs.AmbiguousError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, []string{"kv", "sql"}, ambiguous.Candidates)
	})

	t.Run("unknown deployment", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), path, "missing")
		require.Error(t, err)
		assert.True(t, errdefs.IsParse(err))
	})
}

func TestResolve_SingleDeploymentNeedsNoName(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "charms", "mysql"))
	path := writeManifest(t, dir, "only:\n  services:\n    db: {charm: mysql}\n")

	got, err := NewLocalResolver("").Resolve(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestResolve_DeploymentNamedServices(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "charms", "a"))
	path := writeManifest(t, dir, "services:\n  services:\n    a:\n      charm: a\n")

	got, err := NewLocalResolver("").Resolve(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Service)
	assert.Equal(t, filepath.Join(dir, "charms", "a"), got[0].Directory)

	named, err := NewLocalResolver("").Resolve(context.Background(), path, "services")
	require.NoError(t, err)
	assert.Equal(t, got, named)
}

func TestResolve_Failures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLocalResolver("").Resolve(context.Background(), filepath.Join(dir, "none.yaml"), "")
		assert.True(t, errdefs.IsParse(err))
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeManifest(t, dir, "services: [\n")
		_, err := NewLocalResolver("").Resolve(context.Background(), path, "")
		assert.True(t, errdefs.IsParse(err))
	})

	t.Run("unresolvable component", func(t *testing.T) {
		path := writeManifest(t, dir, "services:\n  ghost:\n    charm: cs:trusty/ghost\n")
		_, err := NewLocalResolver("").Resolve(context.Background(), path, "")
		require.Error(t, err)
		assert.True(t, errdefs.IsNotFound(err))
		assert.Contains(t, err.Error(), "service ghost")
	})
}

func TestSplitReference(t *testing.T) {
	tests := []struct {
		reference  string
		wantSeries string
		wantName   string
	}{
		{"cs:trusty/mysql-38", "trusty", "mysql"},
		{"cs:~user/trusty/mysql", "trusty", "mysql"},
		{"cs:~user/mysql", "", "mysql"},
		{"mysql", "", "mysql"},
		{"trusty/haproxy-ng", "trusty", "haproxy-ng"},
		{"lp:charms/trusty/mysql", "trusty", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			series, name := splitReference(tt.reference)
			assert.Equal(t, tt.wantSeries, series)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
