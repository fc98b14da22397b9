package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	formhandler "formgate/internal/form/handler"
	idhandler "formgate/internal/identifier/handler"
	"formgate/internal/platform/config"
	"formgate/internal/platform/httpserver"
	"formgate/internal/platform/logger"
	"formgate/internal/platform/metrics"
	httptransport "formgate/internal/transport/http"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PORT)")
	return cmd
}

// serve wires dependencies, exposes the router and blocks until ctx is done
// or the listener fails.
func serve(ctx context.Context, cfg config.Server) error {
	log := logger.New(cfg.Log)

	var (
		reg            prometheus.Registerer
		httpMetrics    *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg = prometheus.DefaultRegisterer
		httpMetrics = metrics.New(reg)
		metricsHandler = promhttp.Handler()
	}

	a, err := newApp(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	router := httptransport.NewRouter(log, httpMetrics, httptransport.RouterConfig{
		CORSOrigin:     cfg.CORSOrigin,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MetricsHandler: metricsHandler,
	},
		idhandler.New(a.registry, log),
		formhandler.New(a.registry, a.forms, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting formgate",
			"addr", cfg.Addr,
			"registry_backend", cfg.Registry.Backend,
			"form_driver", cfg.Forms.Driver,
			"ids", a.registry.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down formgate")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
