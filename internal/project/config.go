// Package project loads fragc.yaml and discovers the documents it names.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project file fragc looks for.
const ConfigFileName = "fragc.yaml"

// Config represents a fragc project configuration.
type Config struct {
	// Documents lists glob patterns, relative to the config file, of the
	// GraphQL documents to compile. Double-star patterns are supported.
	Documents []string `yaml:"documents"`
	// Out is the directory rewritten documents are written to. Empty
	// writes next to the source with a .out.graphql suffix.
	Out    string       `yaml:"out"`
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the tool server started by `fragc serve`.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr"`
	// Pretty indents JSON responses
	Pretty bool `yaml:"pretty"`
	// OTLPEndpoint enables trace export when set
	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Documents: []string{"**/*.graphql"},
		Server: ServerConfig{
			Addr: "127.0.0.1:8441",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Documents) == 0 {
		return fmt.Errorf("documents must list at least one pattern")
	}
	for _, pattern := range c.Documents {
		if filepath.IsAbs(pattern) {
			return fmt.Errorf("document pattern %q must be relative to the project root", pattern)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applying defaults for
// fields the file omits.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfig walks from dir upward looking for fragc.yaml and returns the
// path of the first one found.
func FindConfig(dir string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for cur := start; ; {
		path := filepath.Join(cur, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ConfigFileName, start)
		}
		cur = parent
	}
}
