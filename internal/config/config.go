package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/poemario/internal/kv"
)

const (
	DefaultSource       = "poemas.txt"
	DefaultStoreBackend = kv.BackendFile
	DefaultTheme        = "dark"
	DefaultLogLevel     = "info"
	DefaultShareBaseURL = "poema.html"
	configFileName      = "config.yaml"
	configDirName       = "poemario"
	logFileName         = "poemario.log"
)

// Environment variables that override the config file
const (
	EnvSource    = "POEMARIO_SOURCE"
	EnvStore     = "POEMARIO_STORE"
	EnvStorePath = "POEMARIO_STORE_PATH"
	EnvLogLevel  = "POEMARIO_LOG_LEVEL"
	EnvConfig    = "POEMARIO_CONFIG"
)

// Config holds the application configuration
type Config struct {
	Source       string `yaml:"source"`
	StoreBackend string `yaml:"store"`
	StorePath    string `yaml:"store_path,omitempty"`
	ShareBaseURL string `yaml:"share_base_url,omitempty"`
	ShareCommand string `yaml:"share_command,omitempty"`
	Theme        string `yaml:"theme,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`

	// Path to config file (not persisted)
	path string `yaml:"-"`
}

// Defaults returns a config with every field at its default, stored at path
func Defaults(path string) *Config {
	return &Config{
		Source:       DefaultSource,
		StoreBackend: DefaultStoreBackend,
		ShareBaseURL: DefaultShareBaseURL,
		Theme:        DefaultTheme,
		LogLevel:     DefaultLogLevel,
		path:         path,
	}
}

// Load loads configuration from the default config file, or from
// POEMARIO_CONFIG when set, then applies environment overrides
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults(path)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.path = path
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvSource)); v != "" {
		c.Source = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		c.StoreBackend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorePath)); v != "" {
		c.StorePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	// Ensure directory exists
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// SetTheme updates the theme and saves
func (c *Config) SetTheme(theme string) error {
	c.Theme = theme
	return c.Save()
}

// Path returns the config file location
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file; the store and log
// default to it
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// ResolvedStorePath returns the store path, defaulting next to the config file
func (c *Config) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return kv.DefaultPath(c.Dir(), c.StoreBackend)
}

// ResolvedLogFile returns the log file, defaulting next to the config file
func (c *Config) ResolvedLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.Dir(), logFileName)
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}
