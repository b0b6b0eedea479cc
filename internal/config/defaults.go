package config

// Option keys understood by bundletest. Unknown keys found in files are kept
// and resolved through the same chain; they just have no default.
const (
	KeyName              = "name"
	KeyExecutable        = "executable"
	KeyTests             = "tests"
	KeyExcludes          = "excludes"
	KeyBundle            = "bundle"
	KeyBundleDeploy      = "bundle_deploy"
	KeyDeploymentTimeout = "deployment_timeout"
	KeyMakefile          = "makefile"
	KeySetup             = "setup"
	KeyTeardown          = "teardown"
	KeyReset             = "reset"
	KeyResetTimeout      = "reset_timeout"
	KeyVirtualenv        = "virtualenv"
	KeySources           = "sources"
	KeyPackages          = "packages"
	KeyRequirements      = "requirements"
	KeyOnTimeout         = "on_timeout"
)

// DefaultTestPattern is the glob used for explicit test discovery when
// nothing else is configured.
const DefaultTestPattern = "test*"

// FileName is the conventional per-directory config file inside a test directory.
const FileName = "tests.yaml"

// defaults is the bottom layer of every config chain.
var defaults = map[string]interface{}{
	KeyTests:        DefaultTestPattern,
	KeyExcludes:     []string{},
	KeyBundle:       "",
	KeyBundleDeploy: true,
	KeyMakefile:     []string{"lint", "test"},
	KeySetup:        []string{},
	KeyTeardown:     []string{},
	KeyReset:        true,
	KeyResetTimeout: 600,
	KeyVirtualenv:   true,
	KeySources:      []string{},
	KeyPackages:     []string{},
	KeyRequirements: []string{},
	KeyOnTimeout:    "skip",
}

// Default returns the built-in default for key. Slice defaults are copied so
// callers can never modify the shared table.
func Default(key string) (interface{}, bool) {
	v, ok := defaults[key]
	if !ok {
		return nil, false
	}
	if list, isList := v.([]string); isList {
		return append([]string(nil), list...), true
	}
	return v, true
}

// DefaultKeys lists every key that has a built-in default.
func DefaultKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}
