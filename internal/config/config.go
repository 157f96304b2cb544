// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for quizr.
type Config struct {
	DataDir            string        `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile            string        `mapstructure:"log_file" yaml:"log_file"`
	ValidationDebounce time.Duration `mapstructure:"validation_debounce" yaml:"validation_debounce"`
	DuplicateCheck     bool          `mapstructure:"duplicate_check" yaml:"duplicate_check"`
	DuplicateThreshold float64       `mapstructure:"duplicate_threshold" yaml:"duplicate_threshold"`
	DefaultLanguage    string        `mapstructure:"default_language" yaml:"default_language"`
	DefaultPoints      int           `mapstructure:"default_points" yaml:"default_points"`
	MCPPort            int           `mapstructure:"mcp_port" yaml:"mcp_port"`
	TraceExporter      string        `mapstructure:"trace_exporter" yaml:"trace_exporter"`
}

// keys lists every config key; each one is bound to QUIZR_<KEY>.
var keys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"validation_debounce",
	"duplicate_check",
	"duplicate_threshold",
	"default_language",
	"default_points",
	"mcp_port",
	"trace_exporter",
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		DataDir:            ".quizr",
		LogLevel:           "info",
		ValidationDebounce: 300 * time.Millisecond,
		DuplicateCheck:     true,
		DuplicateThreshold: 0.8,
		DefaultPoints:      10,
		TraceExporter:      "none",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadWith is Load with a caller-supplied viper instance, used to bind
// command flags before reading.
func LoadWith(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigType("yaml")
	v.SetConfigName("quizr")

	d := Defaults()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("validation_debounce", d.ValidationDebounce)
	v.SetDefault("duplicate_check", d.DuplicateCheck)
	v.SetDefault("duplicate_threshold", d.DuplicateThreshold)
	v.SetDefault("default_language", d.DefaultLanguage)
	v.SetDefault("default_points", d.DefaultPoints)
	v.SetDefault("mcp_port", d.MCPPort)
	v.SetDefault("trace_exporter", d.TraceExporter)

	v.SetEnvPrefix("QUIZR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so bool, int and duration values parse from the environment.
	for _, key := range keys {
		if err := v.BindEnv(key, "QUIZR_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.ValidationDebounce < 0 {
		return fmt.Errorf("validation_debounce must not be negative")
	}
	if c.DuplicateThreshold < 0 || c.DuplicateThreshold > 1 {
		return fmt.Errorf("duplicate_threshold must be between 0 and 1, got %v", c.DuplicateThreshold)
	}
	if c.DefaultPoints < 1 || c.DefaultPoints > 100 {
		return fmt.Errorf("default_points must be between 1 and 100, got %d", c.DefaultPoints)
	}
	switch c.TraceExporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("unsupported trace_exporter: %s", c.TraceExporter)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/quizr/quizr.yml or $XDG_CONFIG_HOME/quizr/quizr.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quizr", "quizr.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quizr", "quizr.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "quizr.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
