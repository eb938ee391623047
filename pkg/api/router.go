package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opendap-go/dapserve/internal/dapcore"
	"github.com/opendap-go/dapserve/internal/logger"
	"github.com/opendap-go/dapserve/pkg/api/handlers"
	"github.com/opendap-go/dapserve/pkg/dap"
	"github.com/opendap-go/dapserve/pkg/metrics"
)

// NewRouter creates and configures the chi router with all middleware and
// routes for serving a single Dataset. spec.md carries no multi-dataset
// registry: a server instance serves exactly the dataset it was started
// with, addressed by name in the request path for DAP convention's sake.
//
// Routes:
//   - GET /health       - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /{dataset}.dds  - Dataset Descriptor Structure
//   - GET /{dataset}.das  - Dataset Attribute Structure
//   - GET /{dataset}.dods - Combined DDS + XDR data payload
func NewRouter(ds *dapcore.Dataset, cfg *dap.Config, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(ds)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	dapHandler := handlers.NewDAPHandler(ds, cfg, m)
	r.Get("/{dataset}.dds", dapHandler.DDS)
	r.Get("/{dataset}.das", dapHandler.DAS)
	r.Get("/{dataset}.dods", dapHandler.DODS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.NotFound(w, "no route for "+r.URL.Path+"; expected /health, /health/ready, or /{dataset}.{dds,das,dods}")
	})

	return r
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logger.Info("API request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		)
	})
}
