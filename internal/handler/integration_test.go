package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/handler"
	"github.com/justinsenglish/crave.services/internal/infra/cache"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/infra/resilience"
	"github.com/justinsenglish/crave.services/internal/infra/snapshot"
	"github.com/justinsenglish/crave.services/internal/infra/square"
	"github.com/justinsenglish/crave.services/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockSquare serves two pages of orders and a small location list.
func mockSquare(t *testing.T, searchCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/orders/search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LocationIDs []string `json:"location_ids"`
			Cursor      string   `json:"cursor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode search request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, []string{"LOC1"}, req.LocationIDs)
		searchCalls.Add(1)

		w.Header().Set("Content-Type", "application/json")
		switch req.Cursor {
		case "":
			fmt.Fprint(w, `{"orders": [{
				"id": "o1",
				"net_amounts": {
					"total_money": {"amount": 1000, "currency": "USD"},
					"tax_money": {"amount": 80, "currency": "USD"},
					"tip_money": {"amount": 150, "currency": "USD"},
					"discount_money": {"amount": 0, "currency": "USD"}
				},
				"return_amounts": {"total_money": {"amount": 200, "currency": "USD"}},
				"refunds": [{"id": "r1", "processing_fee_money": {"amount": 20, "currency": "USD"}}]
			}], "cursor": "page-2"}`)
		case "page-2":
			fmt.Fprint(w, `{"orders": [{
				"id": "o2",
				"line_items": [{"item_type": "GIFT_CARD", "total_money": {"amount": 2500, "currency": "USD"}}],
				"net_amounts": {"total_money": {"amount": 2500, "currency": "USD"}}
			}]}`)
		default:
			t.Errorf("unexpected cursor %q", req.Cursor)
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/v2/locations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"locations": [
			{"id": "LOC1", "name": "Crave Downtown", "status": "ACTIVE", "business_email": "dt@example.com",
			 "address": {"address_line_1": "1 Main St", "locality": "Denver", "administrative_district_level_1": "CO", "postal_code": "80202"},
			 "coordinates": {"latitude": 39.74, "longitude": -104.99}},
			{"id": "LOC2", "name": "Crave Old", "status": "INACTIVE"}
		]}`)
	})
	mux.HandleFunc("/v2/locations/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/locations/LOC1" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors": [{"category": "INVALID_REQUEST_ERROR", "code": "NOT_FOUND"}]}`)
			return
		}
		fmt.Fprint(w, `{"location": {"id": "LOC1", "name": "Crave Downtown", "status": "ACTIVE"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestIntegration_FullFlow runs the router against a mock Square API and
// then reads the recorded snapshot back through the diagnostics route.
func TestIntegration_FullFlow(t *testing.T) {
	var searchCalls atomic.Int32
	squareServer := mockSquare(t, &searchCalls)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("square-integration")
	client := square.NewClient(&http.Client{Timeout: 5 * time.Second}, square.Settings{
		BaseURL:     squareServer.URL,
		AccessToken: "token",
		Version:     "2024-01-18",
		Resilience:  resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 4},
	}, cb, logger)

	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "orders.json"), logger)
	localizer, err := service.NewLocalizer("America/Denver")
	require.NoError(t, err)
	fetcher := service.NewFetcher(client, service.FetchLimits{MaxPages: 10}, metrics, logger)

	router := handler.NewRouter(
		service.NewFranchiseService(client, cache.New[any](time.Minute), metrics, logger),
		service.NewSalesService(localizer, fetcher, store, metrics, logger),
		service.NewDiagnosticService(store, metrics, logger),
		cb,
		metrics,
		logger,
	)

	// --- Royalties ---
	rec := get(router, "/v1/franchises/LOC1/royalties?startDate=2024-01-01&endDate=2024-01-31")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary domain.SalesSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, domain.SalesSummary{
		GrossSales:    9.5,
		Returns:       1.8,
		NetSales:      7.7,
		Taxes:         0.8,
		Tips:          1.5,
		GiftCards:     25,
		TotalSales:    35,
		Royalties:     0.57,
		MarketingFees: 0.19,
	}, summary)
	assert.Equal(t, int32(2), searchCalls.Load())

	// --- Diagnostics from the recorded snapshot ---
	rec = get(router, "/v1/franchises/LOC1/diagnostics")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report domain.TestSalesSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, summary, report.SalesSummary)
	assert.Len(t, report.Orders, 2)

	// --- Franchises ---
	rec = get(router, "/v1/franchises")
	require.Equal(t, http.StatusOK, rec.Code)
	var franchises []domain.Franchise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &franchises))
	require.Len(t, franchises, 1)
	assert.Equal(t, "Denver", franchises[0].Address.City)
	assert.Equal(t, "CO", franchises[0].Address.State)

	rec = get(router, "/v1/franchises/LOC1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/v1/franchises/LOC9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// --- Metrics ---
	snap := metrics.GetReportSnapshot()
	assert.Equal(t, int64(1), snap.TotalReports)
	assert.Equal(t, int64(2), snap.PagesFetched)
}
