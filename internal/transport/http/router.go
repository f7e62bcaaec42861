// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services and encode; business rules live below this package.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bilan/internal/audit"
	"bilan/internal/audit/throttle"
	"bilan/internal/platform/metrics"
	"bilan/internal/platform/middleware"
	"bilan/internal/sharetoken"
)

// Handler wires the domain services behind the HTTP surface.
type Handler struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tokens   *sharetoken.Service
	auditLog *audit.Log
	policy   throttle.Policy
	mailer   Mailer
	tokenTTL time.Duration
	clock    func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTokenTTL overrides the default share token lifetime.
func WithTokenTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		if ttl > 0 {
			h.tokenTTL = ttl
		}
	}
}

// WithMetrics attaches the Prometheus metrics set.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// WithClock injects the time source for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewHandler creates the HTTP handler over the domain services.
func NewHandler(
	logger *slog.Logger,
	tokens *sharetoken.Service,
	auditLog *audit.Log,
	mailer Mailer,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		logger:   logger,
		tokens:   tokens,
		auditLog: auditLog,
		policy:   throttle.ResendEmailPolicy(),
		mailer:   mailer,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Post("/assessments/score", h.handleScore)
	r.Post("/index/compute", h.handleComputeIndex)
	r.Post("/artifacts/{artifactID}/share", h.handleCreateShare)
	r.Get("/shared/{token}", h.handleViewShared)
	r.Post("/artifacts/{artifactID}/send-email", h.handleSendEmail)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
