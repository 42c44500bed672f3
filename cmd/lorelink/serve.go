package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep providers warm and expose /metrics and /healthz",
	Long: `Run lorelink as a long-lived process. The leaf category list of every
provider is loaded at startup, and the metrics listener exposes Prometheus
metrics and a health probe that pings the store and enablement database.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default: metrics.listen from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, p := range a.Providers {
		warmCtx, cancel := context.WithTimeout(ctx, timeout)
		leaves, err := p.LeafCategories(warmCtx)
		cancel()
		if err != nil {
			a.Log.WarnWith("warm-up failed", err, map[string]interface{}{"provider": p.Key()})
			continue
		}
		a.Log.InfoWith("provider warm", map[string]interface{}{
			"provider":   p.Key(),
			"categories": len(leaves),
		})
	}

	listen := serveListen
	if listen == "" {
		listen = a.Config.Metrics.Listen
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           a.Metrics.Router(a.Config.Metrics.Path, a.Ping),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.InfoWith("listening", map[string]interface{}{"addr": listen})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
