package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bookkeeper/internal/model"
)

// FileName is the config file created by init in the books directory.
const FileName = "bookkeeper.yaml"

// Environment variables that override the config file.
const (
	EnvStorageDriver = "BOOKKEEPER_STORAGE_DRIVER"
	EnvStoragePath   = "BOOKKEEPER_STORAGE_PATH"
	EnvLogLevel      = "BOOKKEEPER_LOG_LEVEL"
	EnvLogFormat     = "BOOKKEEPER_LOG_FORMAT"
)

// Config represents the top-level bookkeeper.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Books    BooksConfig    `yaml:"books"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business whose books are kept.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// BooksConfig holds the settings applied to a new dataset.
type BooksConfig struct {
	InventoryMethod string `yaml:"inventory_method"`
	NegativeFormat  string `yaml:"negative_format"`
	FinancialYear   string `yaml:"financial_year"`
}

// StorageConfig selects where the books document is kept.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "file" or "sqlite"
	Path   string `yaml:"path"`   // relative paths resolve against the books directory
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GitConfig controls versioning of the books directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bookkeeper.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadDir reads the config of a books directory, applying a .env file in
// the same directory and then the BOOKKEEPER_* environment. A directory
// without a config file gets the defaults.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default("")
	} else if err != nil {
		return nil, err
	}

	env := filepath.Join(dir, ".env")
	if err := godotenv.Load(env); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", env, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from BOOKKEEPER_* variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvStorageDriver); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// Settings returns the books settings, defaulting any that are unset.
func (c *Config) Settings() (model.Settings, error) {
	s := model.DefaultSettings()
	var err error
	if c.Books.InventoryMethod != "" {
		if s.InventoryMethod, err = model.ParseValuationMethod(c.Books.InventoryMethod); err != nil {
			return s, err
		}
	}
	if c.Books.NegativeFormat != "" {
		if s.NegativeFormat, err = model.ParseNegativeFormat(c.Books.NegativeFormat); err != nil {
			return s, err
		}
	}
	if c.Books.FinancialYear != "" {
		if s.FinancialYear, err = model.ParseFinancialYear(c.Books.FinancialYear); err != nil {
			return s, err
		}
	}
	return s, nil
}

// StoragePath returns the storage path resolved against dir.
func (c *Config) StoragePath(dir string) string {
	p := c.Storage.Path
	if p == "" {
		p = defaultStoragePath(c.Storage.Driver)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func defaultStoragePath(driver string) string {
	if driver == "sqlite" {
		return "books.db"
	}
	return "books.json"
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

// Default returns a Config with sensible defaults for a new set of books.
func Default(businessName string) *Config {
	s := model.DefaultSettings()
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Books: BooksConfig{
			InventoryMethod: string(s.InventoryMethod),
			NegativeFormat:  string(s.NegativeFormat),
			FinancialYear:   string(s.FinancialYear),
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   "books.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Bookkeeper",
			AuthorEmail: "bookkeeper@localhost",
		},
	}
}
