package service

import (
	"context"
	"errors"
	"time"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var diagnosticTracer = otel.Tracer("service/diagnostic")

// DiagnosticService recomputes a sales summary from the recorded order snapshot
// and explains it order by order.
type DiagnosticService struct {
	store   port.OrderSnapshotStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewDiagnosticService creates the diagnostic service.
func NewDiagnosticService(store port.OrderSnapshotStore, metrics *observability.Metrics, logger *zap.Logger) *DiagnosticService {
	return &DiagnosticService{store: store, metrics: metrics, logger: logger}
}

// GetTestSalesSummary reads the snapshot and returns the headline figures,
// computed exactly like GetSalesSummary, plus component totals and per-order detail.
func (s *DiagnosticService) GetTestSalesSummary(ctx context.Context) (*domain.TestSalesSummary, error) {
	ctx, span := diagnosticTracer.Start(ctx, "DiagnosticService.GetTestSalesSummary")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("diagnostic_summary", time.Since(start))
	}()

	orders, err := s.store.Load(ctx)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		s.logger.Error("failed to load order snapshot", zap.Error(err))
		return nil, &domain.ErrAggregationFailed{Err: err}
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))

	var (
		totals    domain.SalesTotals
		breakdown diagnosticTotals
		details   = make([]domain.OrderBreakdown, 0, len(orders))
	)
	for _, o := range orders {
		totals = totals.Add(Normalize(o))

		d := NormalizeDetail(o)
		breakdown.add(d)
		details = append(details, d)
	}

	return presentDiagnostic(totals, breakdown, details), nil
}
