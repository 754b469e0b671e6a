package lint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/guardlint/internal/fixer"
	"github.com/gnolang/guardlint/internal/lints"
	"github.com/gnolang/guardlint/internal/syntax"
	tt "github.com/gnolang/guardlint/internal/types"
)

// DefaultConfigName is the configuration file looked up in the working
// directory when none is given.
const DefaultConfigName = ".guardlint.yaml"

// Config represents the overall configuration.
type Config struct {
	Name  string                   `yaml:"name" toml:"name"`
	Rules map[string]tt.ConfigRule `yaml:"rules" toml:"rules"`

	// Extensions restricts the analyzed files; empty means every
	// extension the parser supports.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// IgnorePaths are glob patterns matched against the slash-separated
	// path and each of its elements.
	IgnorePaths []string `yaml:"ignore-paths,omitempty" toml:"ignore-paths,omitempty"`

	Fix FixConfig `yaml:"fix" toml:"fix"`
}

type FixConfig struct {
	MaxPasses int `yaml:"max-passes" toml:"max-passes"`
}

// DefaultConfig is written by `guardlint init`.
func DefaultConfig() Config {
	return Config{
		Name: "guardlint",
		Rules: map[string]tt.ConfigRule{
			lints.InvertIfCode: {Severity: tt.SeverityWarning},
		},
		IgnorePaths: []string{"node_modules", "dist"},
		Fix:         FixConfig{MaxPasses: fixer.DefaultMaxPasses},
	}
}

// LoadConfig reads a yaml or toml configuration, chosen by extension. An
// empty path yields the default configuration.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return Config{}, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}
	return config, nil
}

// Marshal renders the configuration as yaml.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Matches reports whether path should be analyzed.
func (c Config) Matches(path string) bool {
	if !syntax.Supported(path) || c.Ignored(path) {
		return false
	}
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext || "."+strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Ignored reports whether path or one of its elements matches an ignore
// pattern.
func (c Config) Ignored(path string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	elems := strings.Split(slashed, "/")
	for _, pattern := range c.IgnorePaths {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		for _, elem := range elems {
			if ok, _ := filepath.Match(pattern, elem); ok {
				return true
			}
		}
	}
	return false
}

// WatchMatch decides what the watcher follows: directories that are not
// ignored, and the files Matches accepts.
func (c Config) WatchMatch(path string, isDir bool) bool {
	if isDir {
		return !c.Ignored(path)
	}
	return c.Matches(path)
}
