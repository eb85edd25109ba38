package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justinsenglish/crave.services/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

// Error codes returned in the "code" field of error responses.
const (
	codeValidation        = "VALIDATION_ERROR"
	codeInvalidDateRange  = "INVALID_DATE_RANGE"
	codeNotFound          = "NOT_FOUND"
	codeFetchIncomplete   = "FETCH_INCOMPLETE"
	codeCircuitOpen       = "SOURCE_CIRCUIT_OPEN"
	codeSalesData         = "SALES_DATA_UNAVAILABLE"
	codeSourceUnavailable = "SOURCE_UNAVAILABLE"
	codeUnauthorized      = "UNAUTHORIZED"
	codeInternal          = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses. Upstream details
// are logged but never sent to the client.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var invalidRange *domain.ErrInvalidDateRange
	var notFound *domain.ErrNotFound
	var incomplete *domain.ErrFetchIncomplete
	var circuitOpen *domain.ErrCircuitOpen
	var aggregation *domain.ErrAggregationFailed
	var unavailable *domain.ErrSourceUnavailable

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.As(err, &invalidRange):
		logger.Debug("invalid date range", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, codeInvalidDateRange, invalidRange.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, codeNotFound, notFound.Error())
	case errors.As(err, &incomplete):
		logger.Error("order search incomplete",
			zap.Int("pages", incomplete.Pages),
			zap.Duration("elapsed", incomplete.Elapsed),
			zap.String("reason", incomplete.Reason),
		)
		writeError(w, http.StatusBadGateway, codeFetchIncomplete, "order search did not complete within its limits")
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.String("service", circuitOpen.Service))
		writeError(w, http.StatusServiceUnavailable, codeCircuitOpen, "sales data source is temporarily unavailable")
	case errors.As(err, &aggregation):
		logger.Error("sales data unavailable", zap.Error(err), zap.NamedError("cause", aggregation.Err))
		writeError(w, http.StatusInternalServerError, codeSalesData, aggregation.Error())
	case errors.As(err, &unavailable):
		logger.Error("source unavailable", zap.String("source", unavailable.Source), zap.Error(unavailable.Err))
		writeError(w, http.StatusInternalServerError, codeSourceUnavailable, "commerce platform unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request cancelled", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeInternal, "request cancelled")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
