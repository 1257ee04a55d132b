package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/ecairns22/mvnprep/internal/logging"
	"github.com/ecairns22/mvnprep/internal/runner"
)

const defaultConfigPath = "mvnprep.toml"
const envOverride = "MVNPREP_CONFIG"

// DefaultVersion is the version set when neither config nor flags name one.
const DefaultVersion = "2-SNAPSHOT"

type Config struct {
	Maven   MavenConfig   `toml:"maven"`
	Project ProjectConfig `toml:"project"`
	State   StateConfig   `toml:"state"`
	Log     LogConfig     `toml:"log"`
}

type MavenConfig struct {
	Executable string `toml:"executable"`
	Verbose    bool   `toml:"verbose"`
}

type ProjectConfig struct {
	BaseDir string `toml:"basedir"`
	Version string `toml:"version"`
}

type StateConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	if p := os.Getenv(envOverride); p != "" {
		return p
	}
	return defaultConfigPath
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from the default path. A missing file at the
// built-in default path is not an error and yields defaults.
func Load() (*Config, error) {
	path := DefaultPath()
	cfg, err := LoadFrom(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads configuration from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	// Resolved once here; nothing downstream re-derives it.
	if cfg.Maven.Executable == "" {
		cfg.Maven.Executable = runner.HostDefaultExecutable()
	}
	if cfg.Project.BaseDir == "" {
		cfg.Project.BaseDir = "."
	}
	if cfg.Project.Version == "" {
		cfg.Project.Version = DefaultVersion
	}
	if cfg.State.Path == "" {
		cfg.State.Path = ".mvnprep/state.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks fields that defaults cannot repair.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Version) == "" {
		return fmt.Errorf("config: project.version must not be blank")
	}
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// TemplateConfig returns a TOML template with the default values for first-time setup.
func TemplateConfig() string {
	return `[maven]
# Path to the Maven launcher. Empty uses "mvn", or "mvn.bat" on Windows.
executable = ""
verbose    = false

[project]
basedir = "."
version = "2-SNAPSHOT"

[state]
path = ".mvnprep/state.db"

[log]
level = "info"
`
}
