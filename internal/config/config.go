package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Config is one level of a layered option chain.
//
// Lookups consult, in order: values set on this instance, values parsed from
// this instance's file, the parent chain (nearest first), and finally the
// built-in defaults. A Config never writes to its parent.
type Config struct {
	mu        sync.RWMutex
	path      string
	overrides map[string]interface{}
	file      map[string]interface{}
	parent    *Config
}

// New creates an empty Config chained to parent (which may be nil).
func New(parent *Config) *Config {
	return &Config{
		overrides: make(map[string]interface{}),
		file:      make(map[string]interface{}),
		parent:    parent,
	}
}

// Path returns the file this level was loaded from, or "" when it has none
// (including a path that did not exist).
func (c *Config) Path() string {
	return c.path
}

// Parent returns the next level up the chain, or nil.
func (c *Config) Parent() *Config {
	return c.parent
}

// Set writes key on this level only, shadowing the file and the parent.
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[key] = value
}

// Lookup resolves key through overrides, file and parents, without falling
// back to the defaults.
func (c *Config) Lookup(key string) (interface{}, bool) {
	for level := c; level != nil; level = level.parent {
		if v, ok := level.local(key); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Config) local(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.overrides[key]; ok {
		return v, true
	}
	if v, ok := c.file[key]; ok {
		return v, true
	}
	return nil, false
}

// Get resolves key through the whole chain, returning nil when neither a
// layer nor the default table knows it.
func (c *Config) Get(key string) interface{} {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	v, _ := Default(key)
	return v
}

// String returns key as a string ("" when unset or nil).
func (c *Config) String(key string) string {
	v := c.Get(key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns key as a list. A scalar value becomes a one-element list.
func (c *Config) Strings(key string) []string {
	return toStrings(c.Get(key))
}

// Bool returns key as a boolean; strings such as "yes" or "false" are accepted.
func (c *Config) Bool(key string) bool {
	b, _ := toBool(c.Get(key))
	return b
}

// Int returns key as an integer and whether a usable value was present.
func (c *Config) Int(key string) (int, bool) {
	return toInt(c.Get(key))
}

// Tests returns the explicit test glob.
func (c *Config) Tests() string {
	if pattern := c.String(KeyTests); pattern != "" {
		return pattern
	}
	return DefaultTestPattern
}

// Excludes returns the exclusion substrings configured at this level or above.
func (c *Config) Excludes() []string {
	return c.Strings(KeyExcludes)
}

// Makefile returns the ordered implicit build targets.
func (c *Config) Makefile() []string {
	return c.Strings(KeyMakefile)
}

// Bundle returns the configured composition file, if any.
func (c *Config) Bundle() string {
	return c.String(KeyBundle)
}

// BundleDeploy interprets the bundle_deploy option. It is either a boolean
// or the path of a deploy script; a script path implies enabled.
func (c *Config) BundleDeploy() (enabled bool, script string) {
	v := c.Get(KeyBundleDeploy)
	if b, ok := toBool(v); ok {
		return b, ""
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return true, strings.TrimSpace(s)
	}
	return false, ""
}

// DeploymentTimeout returns the optional deployment timeout in seconds.
func (c *Config) DeploymentTimeout() (int, bool) {
	return c.Int(KeyDeploymentTimeout)
}

// Settings flattens the chain into a single map of every key visible from
// this level, with defaults filled in.
func (c *Config) Settings() map[string]interface{} {
	keys := make(map[string]struct{})
	for _, k := range DefaultKeys() {
		keys[k] = struct{}{}
	}
	for level := c; level != nil; level = level.parent {
		level.mu.RLock()
		for k := range level.overrides {
			keys[k] = struct{}{}
		}
		for k := range level.file {
			keys[k] = struct{}{}
		}
		level.mu.RUnlock()
	}

	out := make(map[string]interface{}, len(keys))
	for k := range keys {
		out[k] = c.Get(k)
	}
	return out
}

// Keys returns the sorted keys reported by Settings.
func (c *Config) Keys() []string {
	settings := c.Settings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toStrings(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), t...)
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return []string{fmt.Sprint(t)}
	}
}

func toBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "on":
			return true, true
		case "no", "off":
			return false, true
		}
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
