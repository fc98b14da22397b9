// Package form stores one JSON form submission per identifier.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"formgate/internal/blob"
	"formgate/internal/form/metrics"
	"formgate/internal/identifier"
	"formgate/pkg/platform/sentinel"
	"formgate/pkg/requestcontext"
)

var (
	// ErrNotFound is returned by Read when no record exists for the identifier.
	ErrNotFound = errors.New("form: record not found")
	// ErrStorage wraps backend failures and undecodable records.
	ErrStorage = errors.New("form: storage error")
)

// Key returns the blob key holding the record for id.
func Key(id string) string {
	return "formData-" + id + ".json"
}

// Store reads and writes form records. It keeps no state besides the backend.
type Store struct {
	blobs   blob.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New constructs a Store over blobs.
func New(blobs blob.Store, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes payload for id, replacing any previous record. The payload is
// stored indented by two spaces.
func (s *Store) Save(ctx context.Context, id string, payload json.RawMessage) error {
	if !identifier.IsValidFormat(id) {
		return identifier.ErrInvalidFormat
	}
	defer s.observe("save", time.Now())

	if len(bytes.TrimSpace(payload)) == 0 {
		payload = json.RawMessage("{}")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrStorage, err)
	}

	if err := s.blobs.Put(ctx, Key(id), buf.Bytes()); err != nil {
		s.storageError(ctx, "save", id, err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if s.metrics != nil {
		s.metrics.IncrementSaved()
	}
	return nil
}

// Exists reports whether a record is stored for id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if !identifier.IsValidFormat(id) {
		return false, identifier.ErrInvalidFormat
	}
	defer s.observe("exists", time.Now())

	ok, err := s.blobs.Exists(ctx, Key(id))
	if err != nil {
		s.storageError(ctx, "exists", id, err)
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return ok, nil
}

// Read returns the record stored for id, compacted.
func (s *Store) Read(ctx context.Context, id string) (json.RawMessage, error) {
	if !identifier.IsValidFormat(id) {
		return nil, identifier.ErrInvalidFormat
	}
	defer s.observe("read", time.Now())

	data, err := s.blobs.Get(ctx, Key(id))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.storageError(ctx, "read", id, err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		s.storageError(ctx, "read", id, err)
		return nil, fmt.Errorf("%w: decode record: %w", ErrStorage, err)
	}
	if s.metrics != nil {
		s.metrics.IncrementRead()
	}
	return json.RawMessage(buf.Bytes()), nil
}

func (s *Store) storageError(ctx context.Context, op, id string, err error) {
	s.logger.ErrorContext(ctx, "form storage error",
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"id", id,
		"driver", s.blobs.Driver(),
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.IncrementStorageError(op)
	}
}

func (s *Store) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOp(op, start)
	}
}
