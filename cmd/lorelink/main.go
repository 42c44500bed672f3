// Command lorelink browses and searches reference content held in an object
// store.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/koustreak/lorelink/internal/app"
	"github.com/koustreak/lorelink/internal/config"
	"github.com/koustreak/lorelink/internal/filestore"
	"github.com/koustreak/lorelink/internal/logger"
)

var (
	configPath  string
	fixturesDir string
	providerKey string
	verbose     bool
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "lorelink",
	Short: "Browse and search reference content in an object store",
	Long: `lorelink serves progressive, path-based discovery over JSON reference
content stored under a folder-like hierarchy in MinIO, S3 or a local
fixtures directory.

Queries:
  ""               top-level categories
  "fire"           items and categories matching across every category
  "spells/fire"    drill into spells, filter by "fire"
  "bestiary/"      list one category level`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "lorelink.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&fixturesDir, "fixtures", "", "Serve content from a local directory instead of the configured store")
	rootCmd.PersistentFlags().StringVarP(&providerKey, "provider", "p", "", "Provider key (default: first configured provider)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadApp reads the config, applies command-line overrides and wires the app.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if fixturesDir != "" {
		cfg.Store.Driver = filestore.DriverMemory
		cfg.Store.FixturesDir = fixturesDir
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Log.Output = os.Stderr

	log := logger.New(&cfg.Log)
	logger.SetGlobal(log)
	return app.New(ctx, cfg, log)
}

func providerKeyOrDefault(a *app.App) string {
	if providerKey != "" {
		return providerKey
	}
	return a.Config.Providers[0].Key
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
