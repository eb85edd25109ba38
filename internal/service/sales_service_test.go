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

type salesFixture struct {
	svc       *service.SalesService
	searcher  *fakeSearcher
	snapshots *fakeSnapshotStore
	metrics   *observability.Metrics
}

func newSalesFixture(t *testing.T, searcher *fakeSearcher, record bool) salesFixture {
	t.Helper()
	l, err := service.NewLocalizer("America/Denver")
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	fetcher := service.NewFetcher(searcher, service.FetchLimits{MaxPages: 10}, metrics, zap.NewNop())

	f := salesFixture{searcher: searcher, metrics: metrics}
	if record {
		f.snapshots = &fakeSnapshotStore{}
		f.svc = service.NewSalesService(l, fetcher, f.snapshots, metrics, zap.NewNop())
	} else {
		f.svc = service.NewSalesService(l, fetcher, nil, metrics, zap.NewNop())
	}
	return f
}

func TestGetSalesSummary_Scenario(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{pages: []domain.OrderPage{
		{Orders: []domain.RawOrder{scenarioOrder()}},
	}}, false)

	summary, err := f.svc.GetSalesSummary(context.Background(), "LOC1",
		date(2024, time.January, 1), date(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, &domain.SalesSummary{
		GrossSales:    9.5,
		Returns:       1.8,
		NetSales:      7.7,
		Taxes:         0.8,
		Tips:          1.5,
		TotalSales:    10,
		Royalties:     0.57,
		MarketingFees: 0.19,
	}, summary)

	require.Equal(t, 1, f.searcher.calls())
	assert.Equal(t, "2024-01-01T07:00:00.000Z", f.searcher.searches[0].Window.StartParam())
	assert.Equal(t, "2024-01-02T06:59:59.999Z", f.searcher.searches[0].Window.EndParam())

	snap := f.metrics.GetReportSnapshot()
	assert.Equal(t, int64(1), snap.TotalReports)
	assert.Equal(t, int64(0), snap.FailedReports)
}

func TestGetSalesSummary_PipelinesAllPages(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{pages: []domain.OrderPage{
		{Orders: ordersWithGross("p1", 500, 333), Cursor: "c1"},
		{Orders: ordersWithGross("p2", 500, 333), Cursor: "c2"},
		{Orders: append(ordersWithGross("p3", 500, 333), giftCardOrder())},
	}}, false)

	summary, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, f.searcher.calls())
	assert.Equal(t, 5030.0, summary.TotalSales) // 1500*333 + 3500
	assert.Equal(t, 25.0, summary.GiftCards)
	assert.Equal(t, 4995.0+10, summary.NetSales)
}

func TestGetSalesSummary_NoOrders(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{pages: []domain.OrderPage{{}}}, false)

	summary, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, &domain.SalesSummary{}, summary)
}

func TestGetSalesSummary_InvalidRangeBeforeFetch(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{}, false)

	_, err := f.svc.GetSalesSummary(context.Background(), "LOC1",
		date(2024, time.February, 2), date(2024, time.February, 1))

	var invalid *domain.ErrInvalidDateRange
	require.ErrorAs(t, err, &invalid)
	var failed *domain.ErrAggregationFailed
	assert.False(t, errors.As(err, &failed))
	assert.Equal(t, 0, f.searcher.calls())
}

func TestGetSalesSummary_MissingLocation(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{}, false)

	_, err := f.svc.GetSalesSummary(context.Background(), "", nil, nil)

	var validation *domain.ErrValidation
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, f.searcher.calls())
}

func TestGetSalesSummary_SourceFailure(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{
		pages: []domain.OrderPage{{Orders: ordersWithGross("p1", 10, 100), Cursor: "c1"}},
		errAt: 2,
		err:   errors.New("503 from upstream"),
	}, true)

	summary, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)

	assert.Nil(t, summary)
	var failed *domain.ErrAggregationFailed
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "an error occurred while fetching sales data", err.Error())

	var unavailable *domain.ErrSourceUnavailable
	assert.ErrorAs(t, err, &unavailable)

	assert.Equal(t, 0, f.snapshots.saved, "nothing is recorded for a failed fetch")
	assert.Equal(t, int64(1), f.metrics.GetReportSnapshot().FailedReports)
}

func TestGetSalesSummary_FetchIncomplete(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{}, false)

	_, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)

	var failed *domain.ErrAggregationFailed
	require.ErrorAs(t, err, &failed)
	var incomplete *domain.ErrFetchIncomplete
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 10, incomplete.Pages)
}

func TestGetSalesSummary_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newSalesFixture(t, &fakeSearcher{}, false)

	_, err := f.svc.GetSalesSummary(ctx, "LOC1", nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.searcher.calls())
}

func TestGetSalesSummary_RecordsSnapshot(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{pages: []domain.OrderPage{
		{Orders: []domain.RawOrder{scenarioOrder()}, Cursor: "c1"},
		{Orders: []domain.RawOrder{giftCardOrder()}},
	}}, true)

	_, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, f.snapshots.saved)
	require.Len(t, f.snapshots.orders, 2)
	assert.Equal(t, "scenario", f.snapshots.orders[0].ID)
	assert.Equal(t, "gift", f.snapshots.orders[1].ID)
}

func TestGetSalesSummary_SnapshotFailureIsNotFatal(t *testing.T) {
	f := newSalesFixture(t, &fakeSearcher{pages: []domain.OrderPage{
		{Orders: []domain.RawOrder{scenarioOrder()}},
	}}, true)
	f.snapshots.saveErr = errors.New("disk full")

	summary, err := f.svc.GetSalesSummary(context.Background(), "LOC1", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.57, summary.Royalties)
}
