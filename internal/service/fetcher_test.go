package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testWindow = domain.DateWindow{
	Start: time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 1, 2, 6, 59, 59, 999_000_000, time.UTC),
}

func newFetcher(searcher *fakeSearcher, limits service.FetchLimits) (*service.Fetcher, *observability.Metrics) {
	metrics := observability.NewMetrics()
	return service.NewFetcher(searcher, limits, metrics, zap.NewNop()), metrics
}

func threeFullPages() []domain.OrderPage {
	return []domain.OrderPage{
		{Orders: ordersWithGross("p1", domain.OrderSearchPageSize, 100), Cursor: "c1"},
		{Orders: ordersWithGross("p2", domain.OrderSearchPageSize, 100), Cursor: "c2"},
		{Orders: ordersWithGross("p3", domain.OrderSearchPageSize, 100)},
	}
}

func TestFetch_PaginatesUntilCursorEmpty(t *testing.T) {
	searcher := &fakeSearcher{pages: threeFullPages()}
	fetcher, metrics := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	result, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)
	require.NoError(t, err)

	assert.Len(t, result.Orders, 1500)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 3, searcher.calls())
	assert.Equal(t, int64(3), metrics.GetReportSnapshot().PagesFetched)

	assert.Equal(t, "", searcher.searches[0].Cursor)
	assert.Equal(t, "c1", searcher.searches[1].Cursor)
	assert.Equal(t, "c2", searcher.searches[2].Cursor)
	for _, s := range searcher.searches {
		assert.Equal(t, "LOC1", s.LocationID)
		assert.Equal(t, testWindow, s.Window)
		assert.Equal(t, 500, s.Limit)
		assert.Equal(t, []string{domain.OrderStateCompleted, domain.OrderStateOpen}, s.States)
	}
}

func TestFetch_ExactlyMaxPagesSucceeds(t *testing.T) {
	searcher := &fakeSearcher{pages: threeFullPages()}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 3})

	result, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	require.NoError(t, err)
	assert.Len(t, result.Orders, 1500)
}

func TestFetch_EndlessCursorHitsPageLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 5})

	_, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var incomplete *domain.ErrFetchIncomplete
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 5, incomplete.Pages)
	assert.Equal(t, 5, searcher.calls())

	var unavailable *domain.ErrSourceUnavailable
	assert.False(t, errors.As(err, &unavailable))
}

func TestFetch_DefaultPageLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{})

	_, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var incomplete *domain.ErrFetchIncomplete
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, service.DefaultMaxPages, searcher.calls())
}

func TestFetch_StuckCursor(t *testing.T) {
	searcher := &fakeSearcher{pages: []domain.OrderPage{
		{Orders: ordersWithGross("a", 1, 100), Cursor: "same"},
		{Orders: ordersWithGross("b", 1, 100), Cursor: "same"},
	}}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 50})

	_, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var incomplete *domain.ErrFetchIncomplete
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 2, searcher.calls())
}

func TestFetch_TimeBudget(t *testing.T) {
	searcher := &fakeSearcher{delay: 5 * time.Millisecond}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 1000, MaxDuration: time.Millisecond})

	_, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var incomplete *domain.ErrFetchIncomplete
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, searcher.calls())
	assert.GreaterOrEqual(t, incomplete.Elapsed, time.Millisecond)
}

func TestFetch_PlatformErrorsAccumulate(t *testing.T) {
	searcher := &fakeSearcher{pages: []domain.OrderPage{
		{
			Orders: ordersWithGross("a", 2, 100),
			Cursor: "c1",
			Errors: []domain.PlatformError{{Category: "API_ERROR", Code: "INTERNAL_SERVER_ERROR"}},
		},
		{
			Orders: ordersWithGross("b", 1, 100),
			Errors: []domain.PlatformError{{Category: "INVALID_REQUEST_ERROR", Code: "BAD_REQUEST", Field: "cursor"}},
		},
	}}
	fetcher, metrics := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	result, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)
	require.NoError(t, err)

	assert.Len(t, result.Orders, 3)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "API_ERROR", result.Errors[0].Category)
	assert.Equal(t, "cursor", result.Errors[1].Field)
	assert.Equal(t, int64(2), metrics.GetReportSnapshot().PlatformErrors)
}

func TestFetch_TransportFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	searcher := &fakeSearcher{pages: threeFullPages(), errAt: 2, err: cause}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	result, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var unavailable *domain.ErrSourceUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, result.Orders, "no partial result")
	assert.Equal(t, 2, searcher.calls())
}

func TestFetch_CircuitOpenPassesThrough(t *testing.T) {
	searcher := &fakeSearcher{errAt: 1, err: &domain.ErrCircuitOpen{Service: "square/orders"}}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	_, err := fetcher.Fetch(context.Background(), "LOC1", testWindow)

	var circuitOpen *domain.ErrCircuitOpen
	assert.ErrorAs(t, err, &circuitOpen)
}

func TestFetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	searcher := &fakeSearcher{pages: threeFullPages()}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	_, err := fetcher.Fetch(ctx, "LOC1", testWindow)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, searcher.calls())
}

func TestWalk_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	searcher := &fakeSearcher{pages: threeFullPages()}
	fetcher, _ := newFetcher(searcher, service.FetchLimits{MaxPages: 10})

	var seen int
	err := fetcher.Walk(context.Background(), "LOC1", testWindow, func(page domain.OrderPage) error {
		seen += len(page.Orders)
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 500, seen)
	assert.Equal(t, 1, searcher.calls())
}
