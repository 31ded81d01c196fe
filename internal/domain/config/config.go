// Package config loads per-plugin configuration files and merges them with
// caller-supplied parameters.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// maxConfigSize limits config file size to prevent memory exhaustion (256KB).
	maxConfigSize int64 = 256 * 1024

	// dirEnv overrides the default config directory.
	dirEnv = "KORBEN_CONFIG_DIR"
)

// PluginConfig holds the optional configuration for one plugin.
type PluginConfig struct {
	// Variables are plugin-defined defaults, overridden by explicit
	// parameters at invocation time.
	Variables map[string]any `yaml:"variables"`
}

// Dir returns the configuration directory: $KORBEN_CONFIG_DIR if set,
// otherwise ~/.korben.
func Dir() string {
	if dir := os.Getenv(dirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".korben"
	}
	return filepath.Join(home, ".korben")
}

// LoadPlugin reads <dir>/<name>.yml. A missing file is not an error: plugins
// work without configuration, falling back to parameters and environment.
func LoadPlugin(name string) (PluginConfig, error) {
	return loadFrom(filepath.Join(Dir(), name+".yml"))
}

func loadFrom(path string) (PluginConfig, error) {
	var cfg PluginConfig

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %s exceeds %d bytes", path, maxConfigSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxConfigSize))
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// String returns the named variable as a string, or "" if absent or not a
// scalar string.
func (c PluginConfig) String(key string) string {
	v, ok := c.Variables[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// StringMap returns the named variable as a string map (e.g., a set of
// webhook URLs keyed by name). Non-string values are skipped.
func (c PluginConfig) StringMap(key string) map[string]string {
	raw, ok := c.Variables[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Merge overlays params on top of the config's string variables. Explicit
// parameters always win over configured defaults.
func (c PluginConfig) Merge(params map[string]string) map[string]string {
	merged := make(map[string]string, len(c.Variables)+len(params))
	for k, v := range c.Variables {
		if s, ok := v.(string); ok {
			merged[k] = s
		}
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
