package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory
const AppName = "xmlcsv"

// Defaults applied when the config file leaves a value unset
const (
	DefaultListenAddr   = ":8091"
	DefaultMaxBodyBytes = 10 << 20
	DefaultLogLevel     = "info"
)

// Config holds CLI configuration. Files ending in .toml are read and
// written as TOML; anything else is YAML.
type Config struct {
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty" toml:"output_format,omitempty"` // text, json, yaml, table
	Strict       bool   `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty"`                      // reject unclosed tags at end of input
	PadRows      bool   `json:"pad_rows,omitempty" yaml:"pad_rows,omitempty" toml:"pad_rows,omitempty"`                // pad short CSV rows to the header width
	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level,omitempty"`             // debug, info, warn, error
	ListenAddr   string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" toml:"listen_addr,omitempty"`
	MaxBodyBytes int64  `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" toml:"max_body_bytes,omitempty"`
}

// LogLevels lists the accepted log_level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Listen returns the configured listen address or the default.
func (c *Config) Listen() string {
	if c == nil || strings.TrimSpace(c.ListenAddr) == "" {
		return DefaultListenAddr
	}
	return strings.TrimSpace(c.ListenAddr)
}

// BodyLimit returns the configured request body limit or the default.
func (c *Config) BodyLimit() int64 {
	if c == nil || c.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return c.MaxBodyBytes
}

// Level returns the configured log level or the default.
func (c *Config) Level() string {
	if c == nil || strings.TrimSpace(c.LogLevel) == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks the values a config file may hold. Empty values are
// valid and fall back to defaults.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.OutputFormat, validation.By(oneOf("text", "json", "ndjson", "table", "yaml"))),
		validation.Field(&c.LogLevel, validation.By(oneOf(LogLevels...))),
		validation.Field(&c.ListenAddr, validation.By(hostPort)),
		validation.Field(&c.MaxBodyBytes, validation.Min(int64(0))),
	)
}

func oneOf(allowed ...string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return nil
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func hostPort(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(strings.TrimSpace(s)); err != nil {
		return errors.New("must be host:port or :port")
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
