// Package config loads lorelink settings from a YAML file with environment
// overrides.
//
// Usage:
//
//	cfg, err := config.Load("lorelink.yaml")
//	if err != nil { ... }
//	for _, p := range cfg.Providers {
//	    opts := p.Options()
//	    ...
//	}
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/database"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
	"github.com/koustreak/lorelink/internal/logger"
)

// Config is the full lorelink configuration.
type Config struct {
	Log        logger.Config    `yaml:"log"`
	Store      filestore.Config `yaml:"store"`
	Providers  []ProviderConfig `yaml:"providers"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Enablement EnablementConfig `yaml:"enablement"`
}

// ProviderConfig describes one content provider. Zero values fall back to
// the catalog defaults.
type ProviderConfig struct {
	Key         string `yaml:"key"`
	DisplayName string `yaml:"display_name"`
	RootPrefix  string `yaml:"root_prefix"`

	MaxSuggestions int           `yaml:"max_suggestions"`
	ChildrenTTL    time.Duration `yaml:"children_ttl"`
	IndexTTL       time.Duration `yaml:"index_ttl"`
	LeavesTTL      time.Duration `yaml:"leaves_ttl"`
	ContentTTL     time.Duration `yaml:"content_ttl"`
	MaxDepth       int           `yaml:"max_depth"`
	MaxObjectSize  int64         `yaml:"max_object_size"`
	Coalesce       bool          `yaml:"coalesce"`
}

// Options converts the provider settings to catalog options.
func (p ProviderConfig) Options() catalog.Options {
	opts := catalog.DefaultOptions(p.Key, p.DisplayName, p.RootPrefix)
	if p.MaxSuggestions != 0 {
		opts.MaxSuggestions = p.MaxSuggestions
	}
	if p.ChildrenTTL != 0 {
		opts.ChildrenTTL = p.ChildrenTTL
	}
	if p.IndexTTL != 0 {
		opts.IndexTTL = p.IndexTTL
	}
	if p.LeavesTTL != 0 {
		opts.LeavesTTL = p.LeavesTTL
	}
	if p.ContentTTL != 0 {
		opts.ContentTTL = p.ContentTTL
	}
	if p.MaxDepth != 0 {
		opts.MaxDepth = p.MaxDepth
	}
	if p.MaxObjectSize != 0 {
		opts.MaxObjectSize = p.MaxObjectSize
	}
	opts.Coalesce = p.Coalesce
	return opts
}

type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// EnablementDriver selects where per-world provider enablement comes from.
type EnablementDriver string

const (
	EnablementNone     EnablementDriver = "none"
	EnablementStatic   EnablementDriver = "static"
	EnablementPostgres EnablementDriver = "postgres"
	EnablementMySQL    EnablementDriver = "mysql"
)

// EnablementConfig configures world enablement. Database settings apply to
// the postgres and mysql drivers; Providers and Worlds to static.
type EnablementConfig struct {
	Driver   EnablementDriver `yaml:"driver"`
	Database database.Config  `yaml:"database"`

	Providers []StaticProvider    `yaml:"providers"`
	Worlds    map[string][]string `yaml:"worlds"` // world id -> enabled codes
}

type StaticProvider struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	LookupKey string `yaml:"lookup_key"`
}

// Default returns a config serving one SRD provider from local MinIO.
func Default() *Config {
	db := database.DefaultConfig(database.DriverPostgres, "")
	return &Config{
		Log:   logger.Config{Level: "info", Format: "json", TimeFormat: "rfc3339"},
		Store: *filestore.DefaultConfig("localhost:9000", "", "", "compendium"),
		Providers: []ProviderConfig{
			{Key: "srd14", DisplayName: "SRD 5.1", RootPrefix: "srd-2014/"},
		},
		Cache:      CacheConfig{MaxEntries: 50_000},
		Metrics:    MetricsConfig{Listen: ":9090", Path: "/metrics"},
		Enablement: EnablementConfig{Driver: EnablementNone, Database: *db},
	}
}

// Load reads the YAML file at path over Default and applies environment
// overrides. A missing file is not an error. A .env file in the working
// directory, if present, is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errs.Wrap(errs.ErrKindParseFailed, "failed to parse config "+path, err)
			}
		case !os.IsNotExist(err):
			return nil, errs.Wrap(errs.ErrKindReadFailed, "failed to read config "+path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values no component can run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case filestore.DriverMinIO, filestore.DriverS3, filestore.DriverMemory:
	default:
		return invalid("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver != filestore.DriverMemory && strings.TrimSpace(c.Store.Bucket) == "" {
		return invalid("store bucket is required")
	}

	if len(c.Providers) == 0 {
		return invalid("at least one provider is required")
	}
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		key := strings.ToLower(strings.TrimSpace(p.Key))
		if key == "" {
			return invalid("provider key is required")
		}
		if seen[key] {
			return invalid("duplicate provider key %q", p.Key)
		}
		seen[key] = true
		if p.MaxSuggestions < 0 || p.MaxDepth < 0 || p.MaxObjectSize < 0 {
			return invalid("provider %q: caps must be positive", p.Key)
		}
		if p.ChildrenTTL < 0 || p.IndexTTL < 0 || p.LeavesTTL < 0 || p.ContentTTL < 0 {
			return invalid("provider %q: ttls must not be negative", p.Key)
		}
	}

	if c.Cache.MaxEntries <= 0 {
		return invalid("cache max entries must be positive")
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Listen) == "" {
		return invalid("metrics listen address is required")
	}

	switch c.Enablement.Driver {
	case EnablementNone, EnablementStatic:
	case EnablementPostgres, EnablementMySQL:
		if strings.TrimSpace(c.Enablement.Database.DSN) == "" {
			return invalid("enablement database dsn is required")
		}
	default:
		return invalid("unknown enablement driver %q", c.Enablement.Driver)
	}
	return nil
}
