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

var fetchTracer = otel.Tracer("service/fetcher")

// DefaultMaxPages bounds a single order search when no limit is configured.
const DefaultMaxPages = 200

// reportedStates are the order states that count towards sales.
var reportedStates = []string{domain.OrderStateCompleted, domain.OrderStateOpen}

// FetchLimits bound one paginated search. A zero MaxDuration disables the wall-clock limit.
type FetchLimits struct {
	MaxPages    int
	MaxDuration time.Duration
}

type fetchState int

const (
	fetchStateFetching fetchState = iota
	fetchStateExhausted
	fetchStateAborted
)

func (s fetchState) String() string {
	switch s {
	case fetchStateFetching:
		return "fetching"
	case fetchStateExhausted:
		return "exhausted"
	default:
		return "aborted"
	}
}

// Fetcher walks every page of an order search for one location and window.
type Fetcher struct {
	searcher port.OrderSearcher
	limits   FetchLimits
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewFetcher creates a fetcher. MaxPages below 1 falls back to DefaultMaxPages.
func NewFetcher(searcher port.OrderSearcher, limits FetchLimits, metrics *observability.Metrics, logger *zap.Logger) *Fetcher {
	if limits.MaxPages < 1 {
		limits.MaxPages = DefaultMaxPages
	}
	return &Fetcher{
		searcher: searcher,
		limits:   limits,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Walk requests pages until the cursor is exhausted and hands each page to fn.
// Inline platform errors are logged and passed along with the page. Any error
// from the searcher, from fn, or from a limit stops the walk; the caller must
// then discard whatever it received.
func (f *Fetcher) Walk(ctx context.Context, locationID string, window domain.DateWindow, fn func(domain.OrderPage) error) error {
	ctx, span := fetchTracer.Start(ctx, "Fetcher.Walk")
	defer span.End()
	span.SetAttributes(
		attribute.String("location.id", locationID),
		attribute.String("window.start", window.StartParam()),
		attribute.String("window.end", window.EndParam()),
	)

	var (
		state   = fetchStateFetching
		cursor  string
		pages   int
		started = f.now()
		err     error
	)

	for state == fetchStateFetching {
		if err = ctx.Err(); err != nil {
			state = fetchStateAborted
			break
		}
		if pages >= f.limits.MaxPages {
			err = f.incomplete(pages, started, "page limit reached with cursor still present")
			state = fetchStateAborted
			break
		}
		if f.limits.MaxDuration > 0 && f.now().Sub(started) >= f.limits.MaxDuration {
			err = f.incomplete(pages, started, "time budget exhausted with cursor still present")
			state = fetchStateAborted
			break
		}

		page, searchErr := f.searcher.SearchOrders(ctx, domain.OrderSearch{
			LocationID: locationID,
			Window:     window,
			States:     reportedStates,
			Limit:      domain.OrderSearchPageSize,
			Cursor:     cursor,
		})
		if searchErr != nil {
			err = f.sourceError(searchErr)
			state = fetchStateAborted
			break
		}
		pages++
		f.metrics.AddPage(len(page.Orders))

		for _, pe := range page.Errors {
			f.logger.Warn("order search reported an error",
				zap.String("location_id", locationID),
				zap.Int("page", pages),
				zap.String("category", pe.Category),
				zap.String("code", pe.Code),
				zap.String("detail", pe.Detail),
			)
			f.metrics.IncrPlatformError(pe.Category)
		}

		if err = fn(*page); err != nil {
			state = fetchStateAborted
			break
		}

		switch {
		case page.Cursor == "":
			state = fetchStateExhausted
		case page.Cursor == cursor:
			err = f.incomplete(pages, started, "cursor did not advance")
			state = fetchStateAborted
		default:
			cursor = page.Cursor
		}
	}

	span.SetAttributes(
		attribute.Int("pages", pages),
		attribute.String("state", state.String()),
	)
	f.logger.Debug("order search finished",
		zap.String("location_id", locationID),
		zap.Int("pages", pages),
		zap.Stringer("state", state),
		zap.Duration("elapsed", f.now().Sub(started)),
	)
	return err
}

// Fetch collects every page of the search.
func (f *Fetcher) Fetch(ctx context.Context, locationID string, window domain.DateWindow) (domain.FetchResult, error) {
	var result domain.FetchResult
	err := f.Walk(ctx, locationID, window, func(page domain.OrderPage) error {
		result.Pages++
		result.Orders = append(result.Orders, page.Orders...)
		result.Errors = append(result.Errors, page.Errors...)
		return nil
	})
	if err != nil {
		return domain.FetchResult{}, err
	}
	return result, nil
}

func (f *Fetcher) incomplete(pages int, started time.Time, reason string) error {
	return &domain.ErrFetchIncomplete{Pages: pages, Elapsed: f.now().Sub(started), Reason: reason}
}

// sourceError keeps typed errors from the adapter and wraps anything else.
func (f *Fetcher) sourceError(err error) error {
	f.metrics.IncrExternalError("square")

	var (
		unavailable *domain.ErrSourceUnavailable
		circuitOpen *domain.ErrCircuitOpen
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &unavailable), errors.As(err, &circuitOpen):
		return err
	default:
		return &domain.ErrSourceUnavailable{Source: "orders", Err: err}
	}
}
