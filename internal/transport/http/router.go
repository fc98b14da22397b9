package httptransport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"formgate/internal/platform/metrics"
	"formgate/internal/platform/middleware"
	"formgate/pkg/platform/httputil"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries the transport-level settings.
type RouterConfig struct {
	CORSOrigin   string
	MaxBodyBytes int64
	// MetricsHandler is served on GET /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter builds the root router: shared middleware, module routes and the
// JSON 404 fallback. Route prefixes match regardless of case and a trailing
// slash is ignored. Handlers delegate to module services and own no state.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, cfg RouterConfig, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.LatencyMiddleware(m))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.CaseInsensitiveRoutes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{strings.TrimSuffix(cfg.CORSOrigin, "/")},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBody(cfg.MaxBodyBytes))
	}

	for _, module := range modules {
		module.Register(r)
	}
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)
	return r
}

func routeNotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteMessage(w, http.StatusNotFound, httputil.MessageRouteNotFound)
}
