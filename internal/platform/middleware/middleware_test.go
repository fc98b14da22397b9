package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formgate/internal/platform/metrics"
	"formgate/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/listid", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Algo deu errado!"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates one when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("stamps the request time", func(t *testing.T) {
		var stamped time.Time
		h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			stamped = requestcontext.Now(r.Context())
		}))
		before := time.Now()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, stamped.Before(before))
		assert.False(t, stamped.After(time.Now()))
	})

	t.Run("reuses inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "abc-123", seen)
	})
}

func TestLoggerMeasuresFromRequestTime(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	received := time.Now().Add(-2 * time.Second)
	req := httptest.NewRequest(http.MethodPost, "/addid", nil)
	req = req.WithContext(requestcontext.WithTime(requestcontext.WithRequestID(req.Context(), "req-1"), received))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(http.StatusCreated), entry["status"])
	assert.GreaterOrEqual(t, entry["duration_ms"], float64(2000))
}

func TestLatencyMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(LatencyMiddleware(m))
	r.Get("/form-status/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/form-status/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/form-status/{id}", "4xx")))
}

func TestMaxBody(t *testing.T) {
	h := MaxBody(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
		}
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCaseInsensitiveRoutes(t *testing.T) {
	var gotID string
	r := chi.NewRouter()
	r.Use(CaseInsensitiveRoutes)
	r.Get("/listid", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/form-data/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotID = chi.URLParam(req, "id")
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/listid", "/LISTID", "/ListId"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/Form-Data/AbC12345678", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AbC12345678", gotID)
}

func TestLowerFirstSegment(t *testing.T) {
	cases := map[string]string{
		"/":                        "/",
		"/ADDID":                   "/addid",
		"/DeleteId/AbC12345678":    "/deleteid/AbC12345678",
		"/form-status/XYZ/ignored": "/form-status/XYZ/ignored",
	}
	for in, want := range cases {
		assert.Equal(t, want, lowerFirstSegment(in), in)
	}
}
