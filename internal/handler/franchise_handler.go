package handler

import (
	"net/http"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Franchises: GET /v1/franchises[/{locationId}]
// ============================================================

func listFranchisesHandler(svc *service.FranchiseService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/franchises")
		defer span.End()

		franchises, err := svc.ListFranchises(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, franchises)
	}
}

func getFranchiseHandler(svc *service.FranchiseService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/franchises/{locationId}")
		defer span.End()

		locationID := chi.URLParam(r, "locationId")
		span.SetAttributes(attribute.String("location.id", locationID))

		franchise, err := svc.GetFranchise(ctx, locationID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, franchise)
	}
}

// ============================================================
// Royalties: GET /v1/franchises/{locationId}/royalties
// ============================================================

func royaltiesHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/franchises/{locationId}/royalties")
		defer span.End()

		locationID := chi.URLParam(r, "locationId")
		span.SetAttributes(attribute.String("location.id", locationID))

		start, err := queryDate(r, "startDate")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		end, err := queryDate(r, "endDate")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		summary, err := svc.GetSalesSummary(ctx, locationID, start, end)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// queryDate reads an optional calendar date parameter; nil means not supplied.
func queryDate(r *http.Request, name string) (*domain.CalendarDate, error) {
	d, ok, err := service.ParseCalendarDate(r.URL.Query().Get(name))
	if err != nil {
		return nil, &domain.ErrValidation{Field: name, Message: err.Error()}
	}
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// ============================================================
// Diagnostics: GET /v1/franchises/{locationId}/diagnostics
// ============================================================

// diagnosticsHandler reports on the recorded order snapshot, whichever location it came from.
func diagnosticsHandler(svc *service.DiagnosticService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/franchises/{locationId}/diagnostics")
		defer span.End()

		report, err := svc.GetTestSalesSummary(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
