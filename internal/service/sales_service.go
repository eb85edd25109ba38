// Package service provides the business logic layer (use cases):
// the sales and royalty engine, the diagnostic report and the franchise directory.
package service

import (
	"context"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var salesTracer = otel.Tracer("service/sales")

// SalesService produces per-location sales summaries with royalty and marketing fee obligations.
type SalesService struct {
	localizer *Localizer
	fetcher   *Fetcher
	snapshots port.OrderSnapshotStore
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewSalesService creates the sales engine. snapshots may be nil, in which
// case fetched orders are not recorded.
func NewSalesService(
	localizer *Localizer,
	fetcher *Fetcher,
	snapshots port.OrderSnapshotStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		localizer: localizer,
		fetcher:   fetcher,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetSalesSummary computes the sales summary of locationID between the start
// and end calendar dates (inclusive). A nil date means today.
//
// Bad input is returned as is. Any failure after that is logged and returned
// as *domain.ErrAggregationFailed; no partial summary is ever produced.
func (s *SalesService) GetSalesSummary(ctx context.Context, locationID string, start, end *domain.CalendarDate) (*domain.SalesSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := salesTracer.Start(ctx, "SalesService.GetSalesSummary")
	defer span.End()
	span.SetAttributes(attribute.String("location.id", locationID))

	if locationID == "" {
		return nil, &domain.ErrValidation{Field: "locationId", Message: "is required"}
	}

	window, err := s.localizer.Window(start, end)
	if err != nil {
		return nil, err
	}

	begun := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("sales_summary", time.Since(begun))
	}()

	s.logger.Info("fetching sales data",
		zap.String("location_id", locationID),
		zap.String("start", window.StartParam()),
		zap.String("end", window.EndParam()),
	)

	totals, raw, err := s.collect(ctx, locationID, window)
	if err != nil {
		s.metrics.IncrReport("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "sales summary failed")
		s.logger.Error("sales summary failed",
			zap.String("location_id", locationID),
			zap.String("start", window.StartParam()),
			zap.String("end", window.EndParam()),
			zap.Error(err),
		)
		return nil, &domain.ErrAggregationFailed{Err: err}
	}

	s.record(ctx, raw)

	obligations := CalculateObligations(totals.GrossSales())
	summary := Present(totals, obligations)

	s.metrics.IncrReport("success")
	span.SetAttributes(attribute.Int("orders.count", totals.Orders))
	s.logger.Info("sales summary computed",
		zap.String("location_id", locationID),
		zap.Int("orders", totals.Orders),
		zap.Int64("gross_sales", int64(totals.GrossSales())),
		zap.Int64("royalties", int64(obligations.Royalties)),
	)
	return &summary, nil
}

// collect runs the fetch and the normalization concurrently: the next page is
// requested while the previous one is being folded into the totals.
func (s *SalesService) collect(ctx context.Context, locationID string, window domain.DateWindow) (domain.SalesTotals, []domain.RawOrder, error) {
	var (
		totals domain.SalesTotals
		raw    []domain.RawOrder
		keep   = s.snapshots != nil
	)

	pages := make(chan domain.OrderPage, 1)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pages)
		return s.fetcher.Walk(gCtx, locationID, window, func(page domain.OrderPage) error {
			select {
			case pages <- page:
				return nil
			case <-gCtx.Done():
				return gCtx.Err()
			}
		})
	})

	g.Go(func() error {
		for page := range pages {
			for _, o := range page.Orders {
				totals = totals.Add(Normalize(o))
			}
			if keep {
				raw = append(raw, page.Orders...)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.SalesTotals{}, nil, err
	}
	return totals, raw, nil
}

// record writes the fetched orders for the diagnostic report. Failures are not fatal.
func (s *SalesService) record(ctx context.Context, orders []domain.RawOrder) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, orders); err != nil {
		s.logger.Warn("failed to record order snapshot", zap.Error(err))
	}
}

