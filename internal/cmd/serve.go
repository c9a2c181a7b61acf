package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/taskplan/internal/decompose"
	"github.com/felixgeelhaar/taskplan/internal/health"
	"github.com/felixgeelhaar/taskplan/internal/metrics"
	"github.com/felixgeelhaar/taskplan/internal/provider"
	"github.com/felixgeelhaar/taskplan/internal/server"
	"github.com/felixgeelhaar/taskplan/internal/store"
	"github.com/felixgeelhaar/taskplan/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the plan API server",
	Long: `Start an HTTP server exposing the plan API, Prometheus metrics, and
Kubernetes-style health endpoints for zero-downtime deployments.

API endpoints:
  POST   /api/v1/plans       - Decompose a goal and persist the plan
  GET    /api/v1/plans       - List saved plans
  GET    /api/v1/plans/{id}  - Fetch a saved plan
  DELETE /api/v1/plans/{id}  - Delete a saved plan

Health probe endpoints:
  /health/live    - Liveness probe (process alive and responsive)
  /health/ready   - Readiness probe (ready to accept traffic)
  /health/startup - Startup probe (finished initialization)
  /healthz        - Backward-compatible readiness endpoint

The server drains connections gracefully on SIGTERM or SIGINT.

Example:
  # Start server on default port 8080
  taskplan serve

  # Start server on custom port
  taskplan serve --port 9090

  # Start server with custom shutdown timeout
  taskplan serve --shutdown-timeout 60s`,
	RunE: runServe,
}

var (
	servePort            string
	serveAddress         string
	serveShutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides server.address)")
	serveCmd.Flags().StringVar(&serveAddress, "address", "0.0.0.0", "Address to bind to when --port is used")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 0, "Maximum time to wait for connections to drain during shutdown")
	serveCmd.Flags().Duration("read-timeout", 0, "Maximum duration for reading the entire request")
	serveCmd.Flags().Duration("write-timeout", 0, "Maximum duration before timing out writes of the response")
	serveCmd.Flags().Duration("idle-timeout", 0, "Maximum amount of time to wait for the next request")

	_ = viper.BindPFlag("server.read_timeout", serveCmd.Flags().Lookup("read-timeout"))
	_ = viper.BindPFlag("server.write_timeout", serveCmd.Flags().Lookup("write-timeout"))
	_ = viper.BindPFlag("server.idle_timeout", serveCmd.Flags().Lookup("idle-timeout"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	info := version.GetInfo()

	listenAddr := cfg.Server.Address
	if servePort != "" {
		listenAddr = fmt.Sprintf("%s:%s", serveAddress, servePort)
	}
	if serveShutdownTimeout != 0 {
		cfg.Server.ShutdownTimeout = serveShutdownTimeout
	}

	client, err := provider.New(&cfg.Provider)
	if err != nil {
		return err
	}
	defer client.Close()

	reg, m := metrics.NewRegistry()
	st := store.NewFileStore(cfg.Store.Dir)
	d := decompose.New(client, decompose.WithLogger(logger), decompose.WithMetrics(m))

	pm := health.NewProbeManager(info.Version)
	pm.AddChecker(health.NewStoreChecker(st.Dir()))
	pm.AddChecker(health.NewProviderChecker(client))

	srv := server.NewServer(server.Deps{
		ProbeManager: pm,
		Decomposer:   d,
		Store:        st,
		Logger:       logger,
		Metrics:      m,
		Gatherer:     reg,
	}, server.Config{
		Address:         listenAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
	})

	fmt.Printf("\n╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║                      [ taskplan ]                            ║\n")
	fmt.Printf("║           Goal Decomposition and Critical Paths              ║\n")
	fmt.Printf("╚══════════════════════════════════════════════════════════════╝\n\n")
	fmt.Printf("Version: %s\n", info.Version)
	fmt.Printf("Provider: %s\n", client.Info().Name)
	fmt.Printf("Store: %s\n", st.Dir())
	fmt.Printf("Listening on: http://%s\n\n", listenAddr)
	fmt.Printf("API Endpoints:\n")
	fmt.Printf("  Plans:     http://%s/api/v1/plans\n", listenAddr)
	fmt.Printf("  Metrics:   http://%s/metrics\n\n", listenAddr)
	fmt.Printf("Health Endpoints:\n")
	fmt.Printf("  Liveness:  http://%s/health/live\n", listenAddr)
	fmt.Printf("  Readiness: http://%s/health/ready\n", listenAddr)
	fmt.Printf("  Startup:   http://%s/health/startup\n", listenAddr)
	fmt.Printf("  Legacy:    http://%s/healthz\n\n", listenAddr)
	fmt.Printf("Press Ctrl+C to stop the server\n\n")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %s\n", sig)
		fmt.Println("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	}
}
