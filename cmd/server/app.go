package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"formgate/internal/blob"
	"formgate/internal/form"
	formmetrics "formgate/internal/form/metrics"
	"formgate/internal/identifier"
	idmetrics "formgate/internal/identifier/metrics"
	"formgate/internal/identifier/store"
	"formgate/internal/platform/config"
	"formgate/internal/platform/redis"
)

type app struct {
	registry *identifier.Registry
	forms    *form.Store
	closers  []io.Closer
}

func (a *app) Close() {
	closeAll(a.closers)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// buildRegistry opens the configured persister. The registry is not loaded
// yet. The returned closers release backend connections.
func buildRegistry(ctx context.Context, cfg config.Server, logger *slog.Logger, reg prometheus.Registerer) (*identifier.Registry, []io.Closer, error) {
	var (
		persister identifier.Persister
		closers   []io.Closer
	)

	switch cfg.Registry.Backend {
	case config.RegistryBackendFile:
		persister = store.NewFileStore(cfg.RegistryPath())
	case config.RegistryBackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect registry backend: %w", err)
		}
		persister = store.NewRedisStore(client, cfg.Registry.RedisKey)
		closers = append(closers, client)
	case config.RegistryBackendMemory:
		persister = store.NewInMemory()
	default:
		return nil, nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
	}

	opts := []identifier.Option{identifier.WithLogger(logger)}
	if reg != nil {
		opts = append(opts, identifier.WithMetrics(idmetrics.New(reg)))
	}
	return identifier.NewRegistry(persister, opts...), closers, nil
}

func buildForms(ctx context.Context, cfg config.Server, logger *slog.Logger, reg prometheus.Registerer) (*form.Store, error) {
	blobs, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(cfg.Forms.Driver),
		Root:   cfg.DataDir,
		S3: blob.S3Config{
			Bucket:    cfg.Forms.S3.Bucket,
			Region:    cfg.Forms.S3.Region,
			Endpoint:  cfg.Forms.S3.Endpoint,
			PathStyle: cfg.Forms.S3.PathStyle,
			Prefix:    cfg.Forms.S3.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open form store: %w", err)
	}

	opts := []form.Option{form.WithLogger(logger)}
	if reg != nil {
		opts = append(opts, form.WithMetrics(formmetrics.New(reg)))
	}
	return form.New(blobs, opts...), nil
}

func newApp(ctx context.Context, cfg config.Server, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	registry, closers, err := buildRegistry(ctx, cfg, logger, reg)
	if err != nil {
		return nil, err
	}
	// The registry logs an unreadable store; the server starts empty.
	_ = registry.Load(ctx)
	a := &app{registry: registry, closers: closers}

	forms, err := buildForms(ctx, cfg, logger, reg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.forms = forms
	return a, nil
}
