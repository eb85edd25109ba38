// Package square is the adapter for the Square Orders and Locations APIs.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("square")

// Settings configures a Client.
type Settings struct {
	BaseURL     string
	AccessToken string
	Version     string
	Resilience  resilience.Config
	// RateLimit is the sustained requests per second allowed against Square; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Client calls the Square REST API with rate limiting, bulkhead,
// retry and circuit breaker around every request.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	version     string
	cb          *gobreaker.CircuitBreaker
	cfg         resilience.Config
	limiter     *rate.Limiter
	bulkhead    *resilience.Bulkhead
	logger      *zap.Logger
}

// NewClient creates a Square client.
func NewClient(httpClient *http.Client, s Settings, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	limit := rate.Inf
	if s.RateLimit > 0 {
		limit = rate.Limit(s.RateLimit)
	}
	burst := s.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(s.BaseURL, "/"),
		accessToken: s.AccessToken,
		version:     s.Version,
		cb:          cb,
		cfg:         s.Resilience,
		limiter:     rate.NewLimiter(limit, burst),
		bulkhead:    resilience.NewBulkhead(s.Resilience.MaxConcurrency),
		logger:      logger,
	}
}

// SearchOrders fetches one page of orders (implements port.OrderSearcher).
// A 200 response carrying inline errors is returned as data, not as an error.
func (c *Client) SearchOrders(ctx context.Context, search domain.OrderSearch) (*domain.OrderPage, error) {
	ctx, span := tracer.Start(ctx, "Square.SearchOrders")
	defer span.End()
	span.SetAttributes(
		attribute.String("location.id", search.LocationID),
		attribute.Bool("cursor.present", search.Cursor != ""),
	)

	body := newSearchOrdersRequest(search)

	result, err := c.cb.Execute(func() (any, error) {
		var resp searchOrdersResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			resp = searchOrdersResponse{}
			return c.do(ctx, http.MethodPost, "/v2/orders/search", body, &resp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &resp, nil
	})
	if err != nil {
		return nil, c.wrapError("square/orders", err)
	}

	resp := result.(*searchOrdersResponse)
	span.SetAttributes(attribute.Int("orders.count", len(resp.Orders)))

	return &domain.OrderPage{
		Orders: resp.Orders,
		Cursor: resp.Cursor,
		Errors: resp.Errors,
	}, nil
}

// ListLocations returns every location of the seller account (implements port.LocationFetcher).
func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	ctx, span := tracer.Start(ctx, "Square.ListLocations")
	defer span.End()

	result, err := c.cb.Execute(func() (any, error) {
		var resp listLocationsResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			resp = listLocationsResponse{}
			return c.do(ctx, http.MethodGet, "/v2/locations", nil, &resp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return resp.Locations, nil
	})
	if err != nil {
		return nil, c.wrapError("square/locations", err)
	}

	return result.([]domain.Location), nil
}

// GetLocation returns one location or domain.ErrNotFound (implements port.LocationFetcher).
func (c *Client) GetLocation(ctx context.Context, locationID string) (*domain.Location, error) {
	ctx, span := tracer.Start(ctx, "Square.GetLocation")
	defer span.End()
	span.SetAttributes(attribute.String("location.id", locationID))

	result, err := c.cb.Execute(func() (any, error) {
		var resp retrieveLocationResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			resp = retrieveLocationResponse{}
			path := "/v2/locations/" + url.PathEscape(locationID)
			err := c.do(ctx, http.MethodGet, path, nil, &resp)
			var se *statusError
			if errors.As(err, &se) && se.status == http.StatusNotFound {
				return resilience.Permanent(&domain.ErrNotFound{Resource: "location", ID: locationID})
			}
			return err
		})
		if innerErr != nil {
			return nil, innerErr
		}
		if resp.Location == nil {
			return nil, resilience.Permanent(&domain.ErrNotFound{Resource: "location", ID: locationID})
		}
		return resp.Location, nil
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, c.wrapError("square/locations", err)
	}

	return result.(*domain.Location), nil
}

// statusError is a non-2xx answer from Square.
type statusError struct {
	status int
	errors []domain.PlatformError
}

func (e *statusError) Error() string {
	if len(e.errors) == 0 {
		return fmt.Sprintf("square returned status %d", e.status)
	}
	msgs := make([]string, 0, len(e.errors))
	for _, pe := range e.errors {
		msgs = append(msgs, pe.Error())
	}
	return fmt.Sprintf("square returned status %d: %s", e.status, strings.Join(msgs, "; "))
}

// do executes one authenticated request. 4xx answers other than 429 are permanent.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return resilience.Permanent(fmt.Errorf("failed to marshal request: %w", err))
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return resilience.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.version != "" {
		req.Header.Set("Square-Version", c.version)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("square: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			se.errors = er.Errors
		}
		c.logger.Warn("square: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", se.Error()),
		)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resilience.Permanent(se)
		}
		return se
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resilience.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("square: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

func (c *Client) wrapError(source string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if resilience.IsBreakerOpen(err) {
		return &domain.ErrCircuitOpen{Service: source}
	}
	return &domain.ErrSourceUnavailable{Source: source, Err: err}
}
