// Package handler exposes the royalty service over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// breaker may be nil; health then reports only the API itself.
func NewRouter(
	franchiseSvc *service.FranchiseService,
	salesSvc *service.SalesService,
	diagnosticSvc *service.DiagnosticService,
	breaker *gobreaker.CircuitBreaker,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/", rootHandler())
	r.Get("/healthz", healthzHandler(breaker))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/reports", reportMetricsHandler(metrics))

		r.Route("/franchises", func(r chi.Router) {
			r.Get("/", listFranchisesHandler(franchiseSvc, logger))
			r.Get("/{locationId}", getFranchiseHandler(franchiseSvc, logger))
			r.Get("/{locationId}/royalties", royaltiesHandler(salesSvc, logger))
			r.Get("/{locationId}/diagnostics", diagnosticsHandler(diagnosticSvc, logger))
		})
	})

	return r
}

// rootHandler answers the bare root; callers are expected to address /v1.
func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
	}
}

func healthzHandler(breaker *gobreaker.CircuitBreaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "royalties-api", Status: "healthy", LastChecked: now},
		}

		if breaker != nil {
			status := "healthy"
			switch breaker.State() {
			case gobreaker.StateHalfOpen:
				status = "degraded"
			case gobreaker.StateOpen:
				status = "unhealthy"
			}
			services = append(services, domain.ServiceHealth{
				Name: "square", Status: status, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func reportMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetReportSnapshot())
	}
}
