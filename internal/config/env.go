package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
)

const envPrefix = "LORELINK_"

// applyEnvOverrides lets deployments keep secrets and endpoints out of the
// config file. Unparseable booleans are ignored.
func (c *Config) applyEnvOverrides() {
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := env("STORE_DRIVER"); v != "" {
		c.Store.Driver = filestore.Driver(strings.ToLower(v))
	}
	setString(&c.Store.Endpoint, "STORE_ENDPOINT")
	setString(&c.Store.AccessKey, "STORE_ACCESS_KEY")
	setString(&c.Store.SecretKey, "STORE_SECRET_KEY")
	setString(&c.Store.Region, "STORE_REGION")
	setString(&c.Store.Bucket, "STORE_BUCKET")
	setString(&c.Store.FixturesDir, "STORE_FIXTURES_DIR")
	setBool(&c.Store.UseSSL, "STORE_USE_SSL")
	setBool(&c.Store.ForcePathStyle, "STORE_FORCE_PATH_STYLE")

	setBool(&c.Metrics.Enabled, "METRICS_ENABLED")
	setString(&c.Metrics.Listen, "METRICS_LISTEN")

	if v := env("ENABLEMENT_DRIVER"); v != "" {
		c.Enablement.Driver = EnablementDriver(strings.ToLower(v))
	}
	setString(&c.Enablement.Database.DSN, "ENABLEMENT_DSN")
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}

func setString(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, name string) {
	v := env(name)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

func invalid(format string, args ...any) error {
	return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf(format, args...))
}
