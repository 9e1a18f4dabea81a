package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a cashbook project.
const FileName = "cashbook.yaml"

// FallbackCurrency is used when neither the config nor the environment name one.
const FallbackCurrency = "EUR"

// Environment variables that override the config file. They may also be
// set in a .env file next to it.
const (
	EnvDB       = "CASHBOOK_DB"
	EnvLogLevel = "CASHBOOK_LOG_LEVEL"
	EnvCurrency = "CASHBOOK_CURRENCY"
)

// Config represents the top-level cashbook.yaml configuration.
type Config struct {
	Book    BookConfig    `yaml:"book"`
	Logging LoggingConfig `yaml:"logging"`
}

// BookConfig locates and describes the book.
type BookConfig struct {
	Name            string `yaml:"name"`
	Path            string `yaml:"path"` // SQLite file, relative to the project directory
	DefaultCurrency string `yaml:"default_currency"`
	Chart           string `yaml:"chart"` // starter chart: "personal" or "business"
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Load reads a cashbook.yaml file from disk and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	env, err := readEnv(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(name, currency string) *Config {
	if currency == "" {
		currency = FallbackCurrency
	}
	return &Config{
		Book: BookConfig{
			Name:            name,
			Path:            "book.sqlite",
			DefaultCurrency: strings.ToUpper(currency),
			Chart:           "personal",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Book.Path == "" {
		return errors.New("config: book.path is required")
	}
	if c.Book.DefaultCurrency == "" {
		c.Book.DefaultCurrency = FallbackCurrency
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// DBPath resolves the book file against the project directory.
func (c *Config) DBPath(projectDir string) string {
	if filepath.IsAbs(c.Book.Path) {
		return c.Book.Path
	}
	return filepath.Join(projectDir, c.Book.Path)
}

// readEnv merges a .env file (if any) under the process environment.
func readEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		env = make(map[string]string)
	}
	for _, key := range []string{EnvDB, EnvLogLevel, EnvCurrency} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) {
	if v := env[EnvDB]; v != "" {
		c.Book.Path = v
	}
	if v := env[EnvLogLevel]; v != "" {
		c.Logging.Level = v
	}
	if v := env[EnvCurrency]; v != "" {
		c.Book.DefaultCurrency = strings.ToUpper(v)
	}
}
