package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/onboard/pkg/adapters/http"
	"github.com/aretw0/onboard/pkg/adapters/memory"
	"github.com/aretw0/onboard/pkg/observability"
	"github.com/aretw0/onboard/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves onboarding sessions over a JSON API. Flows come from --dir, or the bundled
presets when it is not set. Session progress is streamed over SSE at
/sessions/{id}/stream and Prometheus metrics are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		validate, _ := cmd.Flags().GetBool("validate-requests")
		logger := serverLogger(cmd)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager(logger)

		store := memory.NewStore(memory.WithTTL(ttl))
		sessions := session.NewManager(store, flowSource(cmd),
			session.WithLogger(logger),
			session.WithHooks(streams.Hooks),
			session.WithHooks(metrics.SessionHooks),
		)

		handler, err := httpAdapter.NewHandler(sessions,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetrics(metrics, reg),
			httpAdapter.WithRequestValidation(validate),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("failed to build handler: %w", err)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go sweepSessions(ctx, store, ttl/2, logger)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			flows, _ := sessions.Flows()
			logger.Info("onboard server listening", "addr", srv.Addr, "flows", flows)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("onboard server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Duration("session-ttl", 30*time.Minute, "Drop sessions idle for longer than this (0 keeps them)")
	serveCmd.Flags().Bool("validate-requests", false, "Validate requests against the OpenAPI document")
	serveCmd.Flags().String("log-format", "text", "Log format: text or json")
}
