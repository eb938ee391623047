package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/opendap-go/dapserve/internal/demo"
	"github.com/opendap-go/dapserve/internal/logger"
	"github.com/opendap-go/dapserve/pkg/api"
	"github.com/opendap-go/dapserve/pkg/dap"
	"github.com/opendap-go/dapserve/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dapserve HTTP server",
	Long: `Start the dapserve HTTP server, serving the built-in demo dataset's
DDS, DAS, and DODS responses.

Examples:
  # Start with default config location
  dapserve serve

  # Start with a custom config file
  dapserve serve --config /etc/dapserve/config.yaml

  # Override settings with environment variables
  DAPSERVE_HTTP_ADDR=:9090 dapserve serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := dap.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ds, err := demo.Dataset()
	if err != nil {
		return fmt.Errorf("failed to build demo dataset: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	router := api.NewRouter(ds, cfg, m)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("dapserve listening", "addr", cfg.HTTP.Addr, "dataset", ds.Name())
		err := srv.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		serverDone <- err
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, draining connections")
		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}
