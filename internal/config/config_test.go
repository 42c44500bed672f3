package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lorelink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filestore.DriverMinIO, cfg.Store.Driver)
	assert.Equal(t, 50_000, cfg.Cache.MaxEntries)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "srd14", cfg.Providers[0].Key)
	assert.Equal(t, EnablementNone, cfg.Enablement.Driver)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
store:
  driver: s3
  region: eu-west-1
  bucket: lore
  force_path_style: true
providers:
  - key: srd14
    display_name: SRD 5.1
    root_prefix: srd-2014
    max_suggestions: 10
    children_ttl: 5m
    coalesce: true
  - key: srd24
    root_prefix: srd-2024/
cache:
  max_entries: 1000
enablement:
  driver: static
  providers:
    - code: srd14
      name: SRD 2014
      lookup_key: 5e
  worlds:
    0b7d5e1c-9c3f-4b61-8f0e-2a6d4c8b1f35: [srd14]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filestore.DriverS3, cfg.Store.Driver)
	assert.Equal(t, "lore", cfg.Store.Bucket)
	assert.True(t, cfg.Store.ForcePathStyle)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	require.Len(t, cfg.Providers, 2)

	opts := cfg.Providers[0].Options()
	assert.Equal(t, 10, opts.MaxSuggestions)
	assert.Equal(t, 5*time.Minute, opts.ChildrenTTL)
	assert.Equal(t, 30*time.Minute, opts.IndexTTL, "unset fields keep catalog defaults")
	assert.True(t, opts.Coalesce)

	assert.Equal(t, EnablementStatic, cfg.Enablement.Driver)
	require.Len(t, cfg.Enablement.Providers, 1)
	assert.Equal(t, "5e", cfg.Enablement.Providers[0].LookupKey)
	assert.Equal(t, []string{"srd14"}, cfg.Enablement.Worlds["0b7d5e1c-9c3f-4b61-8f0e-2a6d4c8b1f35"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LORELINK_STORE_DRIVER", "MEMORY")
	t.Setenv("LORELINK_STORE_FIXTURES_DIR", "/srv/fixtures")
	t.Setenv("LORELINK_STORE_USE_SSL", "true")
	t.Setenv("LORELINK_METRICS_ENABLED", "not-a-bool")
	t.Setenv("LORELINK_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filestore.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "/srv/fixtures", cfg.Store.FixturesDir)
	assert.True(t, cfg.Store.UseSSL)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "providers: [oops"))
	assert.True(t, errs.IsParseFailed(err))

	_, err = Load(writeConfig(t, "store:\n  driver: azure\n"))
	assert.True(t, errs.IsInvalidInput(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown store driver", func(c *Config) { c.Store.Driver = "gcs" }},
		{"missing bucket", func(c *Config) { c.Store.Bucket = "" }},
		{"no providers", func(c *Config) { c.Providers = nil }},
		{"empty key", func(c *Config) { c.Providers[0].Key = " " }},
		{"duplicate key", func(c *Config) {
			c.Providers = append(c.Providers, ProviderConfig{Key: "SRD14"})
		}},
		{"negative cap", func(c *Config) { c.Providers[0].MaxSuggestions = -1 }},
		{"negative ttl", func(c *Config) { c.Providers[0].ContentTTL = -time.Second }},
		{"zero cache", func(c *Config) { c.Cache.MaxEntries = 0 }},
		{"metrics without listen", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Listen = ""
		}},
		{"database without dsn", func(c *Config) { c.Enablement.Driver = EnablementMySQL }},
		{"unknown enablement driver", func(c *Config) { c.Enablement.Driver = "redis" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.True(t, errs.IsInvalidInput(cfg.Validate()))
		})
	}

	t.Run("default is valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("memory store needs no bucket", func(t *testing.T) {
		cfg := Default()
		cfg.Store.Driver = filestore.DriverMemory
		cfg.Store.Bucket = ""
		assert.NoError(t, cfg.Validate())
	})
}
