// File: config.go
// Title: Configuration Loading and Access
// Description: Loads TOML or YAML configuration files into a nested map and
//              offers typed getters with dot notation keys. Environment
//              variables override file values when an env prefix is set:
//              with prefix GECLI the key cli.buffer_size is read from
//              GECLI_CLI_BUFFER_SIZE.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-15
// Modified: 2026-10-04
//
// Change History:
// - 2026-09-15 v0.1.0: TOML/YAML loading with env overrides
// - 2026-10-04 v0.2.0: Dropped lookup caches, fsnotify based watching

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	gcerror "github.com/msto63/gecli/foundation/core/error"
	gcstringx "github.com/msto63/gecli/foundation/utils/stringx"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto detects the format from the file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Config is a loaded configuration with thread-safe access
type Config struct {
	mu        sync.RWMutex
	data      map[string]interface{}
	filePath  string
	format    Format
	envPrefix string
	handlers  []ChangeHandler
	watch     *watcher
}

// ChangeHandler is called after the configuration file was reloaded
type ChangeHandler func(oldConfig, newConfig *Config)

// LoadOptions defines options for loading configuration
type LoadOptions struct {
	Format    Format
	EnvPrefix string
	Defaults  map[string]interface{}
	Watch     bool
}

// Load loads configuration from a file, detecting the format
func Load(filePath string) (*Config, error) {
	return LoadWithOptions(filePath, LoadOptions{Format: FormatAuto})
}

// LoadWithOptions loads configuration from a file with custom options
func LoadWithOptions(filePath string, options LoadOptions) (*Config, error) {
	if gcstringx.IsBlank(filePath) {
		return nil, gcerror.New("config file path cannot be empty").
			WithCode(gcerror.CodeValidationFailed).
			WithOperation("config.LoadWithOptions")
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		code := gcerror.CodeConfigError
		if os.IsNotExist(err) {
			code = gcerror.CodeNotFound
		}
		return nil, gcerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.LoadWithOptions").
			WithDetail("filePath", filePath)
	}

	data, err := parseContent(content, format)
	if err != nil {
		return nil, gcerror.Wrap(err, "failed to parse config file").
			WithOperation("config.LoadWithOptions").
			WithDetail("filePath", filePath).
			WithDetail("format", format.String())
	}

	if options.Defaults != nil {
		data = mergeDefaults(data, options.Defaults)
	}

	cfg := &Config{
		data:      data,
		filePath:  filePath,
		format:    format,
		envPrefix: options.EnvPrefix,
	}

	if options.Watch {
		if err := cfg.StartWatching(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadFromString loads configuration from a string with specified format
func LoadFromString(content string, format Format) (*Config, error) {
	if format == FormatAuto {
		format = FormatTOML
	}

	data, err := parseContent([]byte(content), format)
	if err != nil {
		return nil, gcerror.Wrap(err, "failed to parse config from string").
			WithOperation("config.LoadFromString").
			WithDetail("format", format.String())
	}

	return &Config{data: data, format: format}, nil
}

// New returns an empty configuration that only resolves environment
// overrides and defaults. Used when no configuration file exists.
func New(envPrefix string, defaults map[string]interface{}) *Config {
	data := make(map[string]interface{})
	if defaults != nil {
		data = mergeDefaults(data, defaults)
	}
	return &Config{data: data, format: FormatTOML, envPrefix: envPrefix}
}

// WithEnvPrefix sets the environment override prefix
func (c *Config) WithEnvPrefix(prefix string) *Config {
	c.mu.Lock()
	c.envPrefix = prefix
	c.mu.Unlock()
	return c
}

func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func parseContent(content []byte, format Format) (map[string]interface{}, error) {
	data := make(map[string]interface{})

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, gcerror.Wrap(err, "TOML parse error").
				WithCode(gcerror.CodeInvalidConfig).
				WithOperation("config.parseContent")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, gcerror.Wrap(err, "YAML parse error").
				WithCode(gcerror.CodeInvalidConfig).
				WithOperation("config.parseContent")
		}
	default:
		return nil, gcerror.Newf("unsupported format: %s", format).
			WithCode(gcerror.CodeInvalidConfig).
			WithOperation("config.parseContent")
	}

	return data, nil
}

// mergeDefaults fills keys missing in data from defaults. Defaults may use
// dot notation keys.
func mergeDefaults(data, defaults map[string]interface{}) map[string]interface{} {
	for k, v := range defaults {
		if lookup(data, k) == nil {
			setPath(data, k, v)
		}
	}
	return data
}

// GetString returns a string configuration value with optional default
func (c *Config) GetString(key string, defaultValue ...string) string {
	if env, ok := c.envValue(key); ok {
		return env
	}

	value := c.getValue(key)
	if value == nil {
		return first(defaultValue, "")
	}

	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetInt returns an integer configuration value with optional default
func (c *Config) GetInt(key string, defaultValue ...int) int {
	if env, ok := c.envValue(key); ok {
		if n, err := strconv.Atoi(env); err == nil {
			return n
		}
	}

	switch v := c.getValue(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return first(defaultValue, 0)
}

// GetBool returns a boolean configuration value with optional default
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	if env, ok := c.envValue(key); ok {
		if b, err := strconv.ParseBool(env); err == nil {
			return b
		}
	}

	switch v := c.getValue(key).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return first(defaultValue, false)
}

// GetDuration returns a duration configuration value with optional default.
// Strings use time.ParseDuration syntax; bare integers are milliseconds.
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	if env, ok := c.envValue(key); ok {
		if d, err := time.ParseDuration(env); err == nil {
			return d
		}
	}

	switch v := c.getValue(key).(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Millisecond
	case int64:
		return time.Duration(v) * time.Millisecond
	}
	return first(defaultValue, 0)
}

// GetStringSlice returns a string slice configuration value with optional default
func (c *Config) GetStringSlice(key string, defaultValue ...[]string) []string {
	if env, ok := c.envValue(key); ok {
		parts := strings.Split(env, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	switch v := c.getValue(key).(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, len(v))
		for i, item := range v {
			result[i] = fmt.Sprintf("%v", item)
		}
		return result
	case string:
		return []string{v}
	}
	return first(defaultValue, nil)
}

func first[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

func (c *Config) getValue(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookup(c.data, key)
}

func lookup(data map[string]interface{}, key string) interface{} {
	var current interface{} = data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

func setPath(data map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func (c *Config) envValue(key string) (string, bool) {
	c.mu.RLock()
	prefix := c.envPrefix
	c.mu.RUnlock()
	if prefix == "" {
		return "", false
	}
	value, ok := os.LookupEnv(EnvKey(prefix, key))
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvKey returns the environment variable name overriding key
func EnvKey(prefix, key string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

// Has reports whether key is present in the file or the environment
func (c *Config) Has(key string) bool {
	if _, ok := c.envValue(key); ok {
		return true
	}
	return c.getValue(key) != nil
}

// Set sets a configuration value at runtime; it is not persisted
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]interface{})
	}
	setPath(c.data, key, value)
}

// Keys returns all leaf keys in dot notation, sorted
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	var walk func(prefix string, m map[string]interface{})
	walk = func(prefix string, m map[string]interface{}) {
		for k, v := range m {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			if sub, ok := v.(map[string]interface{}); ok {
				walk(full, sub)
				continue
			}
			keys = append(keys, full)
		}
	}
	walk("", c.data)
	sort.Strings(keys)
	return keys
}

// GetAll returns a deep copy of the configuration data
func (c *Config) GetAll() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopyMap(c.data)
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		if sub, ok := v.(map[string]interface{}); ok {
			dst[k] = deepCopyMap(sub)
			continue
		}
		dst[k] = v
	}
	return dst
}

// FilePath returns the path of the loaded configuration file
func (c *Config) FilePath() string {
	return c.filePath
}

// Format returns the configuration file format
func (c *Config) Format() Format {
	return c.format
}

// OnChange registers a handler called after each successful reload
func (c *Config) OnChange(handler ChangeHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// String lists the configuration as sorted key = value lines
func (c *Config) String() string {
	var b strings.Builder
	for _, k := range c.Keys() {
		fmt.Fprintf(&b, "%s = %v\n", k, c.getValue(k))
	}
	return b.String()
}
