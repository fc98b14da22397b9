package identifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"formgate/internal/identifier/metrics"
	"formgate/pkg/platform/sentinel"
	"formgate/pkg/requestcontext"
)

// Registry is the in-memory identifier sequence mirrored to a Persister.
// Every mutation rewrites the whole sequence, so it suits small whitelists.
type Registry struct {
	mu        sync.RWMutex
	ids       []string
	persister Persister
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry returns an empty registry. Call Load before serving requests.
func NewRegistry(persister Persister, opts ...Option) *Registry {
	r := &Registry{
		ids:       []string{},
		persister: persister,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the in-memory sequence with the persisted one. Read or parse
// failures leave the registry empty and the persisted copy untouched, and are
// reported as ErrLoad. Nothing persisted yet is not an error.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.observeSize()

	ids, err := r.persister.Load(ctx)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		r.ids = []string{}
		r.logger.InfoContext(ctx, "no persisted identifiers, starting empty")
	case err != nil:
		r.ids = []string{}
		r.logger.ErrorContext(ctx, "failed to load identifiers, starting empty",
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrLoad, err)
	default:
		if ids == nil {
			ids = []string{}
		}
		r.ids = ids
		r.logger.InfoContext(ctx, "identifiers loaded", "count", len(ids))
	}
	return nil
}

// List returns a copy of the identifiers in insertion order.
func (r *Registry) List(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ids)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(_ context.Context, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.ids, id)
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// Add registers id and persists the sequence. On a persistence failure the
// in-memory append is kept and ErrPersist is returned.
func (r *Registry) Add(ctx context.Context, id string) error {
	if !IsValidFormat(id) {
		return ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.ids, id) {
		return ErrDuplicate
	}
	r.ids = append(r.ids, id)
	if r.metrics != nil {
		r.metrics.IncrementAdded()
	}
	return r.persist(ctx, "add", id)
}

// Remove deregisters every occurrence of id and persists the sequence.
// Form records stored for id are left in place. Persistence failures are
// reported like Add.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.ids, id) {
		return ErrNotFound
	}
	r.ids = slices.DeleteFunc(r.ids, func(existing string) bool {
		return existing == id
	})
	if r.metrics != nil {
		r.metrics.IncrementRemoved()
	}
	return r.persist(ctx, "remove", id)
}

// persist must be called with mu held.
func (r *Registry) persist(ctx context.Context, op, id string) error {
	r.observeSize()
	if err := r.persister.Save(ctx, slices.Clone(r.ids)); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist identifiers",
			"request_id", requestcontext.RequestID(ctx),
			"op", op,
			"id", id,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.IncrementPersistFailure(op)
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (r *Registry) observeSize() {
	if r.metrics != nil {
		r.metrics.SetSize(len(r.ids))
	}
}
