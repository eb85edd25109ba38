package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/justinsenglish/crave.services/internal/domain"
	"github.com/justinsenglish/crave.services/internal/infra/observability"
	"github.com/justinsenglish/crave.services/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var franchiseTracer = otel.Tracer("service/franchise")

const (
	franchiseCacheName    = "locations"
	franchiseListCacheKey = "franchises:active"
)

// FranchiseService lists the franchise locations known to Square.
type FranchiseService struct {
	locations port.LocationFetcher
	cache     port.Cache[any]
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewFranchiseService creates the franchise directory.
func NewFranchiseService(locations port.LocationFetcher, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *FranchiseService {
	return &FranchiseService{locations: locations, cache: cache, metrics: metrics, logger: logger}
}

// ListFranchises returns the active locations.
func (s *FranchiseService) ListFranchises(ctx context.Context) ([]domain.Franchise, error) {
	ctx, span := franchiseTracer.Start(ctx, "FranchiseService.ListFranchises")
	defer span.End()

	if cached, ok := s.cache.Get(franchiseListCacheKey); ok {
		if list, ok := cached.([]domain.Franchise); ok {
			s.metrics.IncrCacheHit(franchiseCacheName)
			return list, nil
		}
	}
	s.metrics.IncrCacheMiss(franchiseCacheName)

	locations, err := s.locations.ListLocations(ctx)
	if err != nil {
		s.logger.Error("failed to list locations", zap.Error(err))
		s.metrics.IncrExternalError("square")
		return nil, fmt.Errorf("list locations: %w", err)
	}

	franchises := make([]domain.Franchise, 0, len(locations))
	for _, loc := range locations {
		if loc.Status != domain.LocationStatusActive {
			continue
		}
		franchises = append(franchises, toFranchise(loc))
	}
	span.SetAttributes(attribute.Int("franchises.count", len(franchises)))

	s.cache.Set(franchiseListCacheKey, franchises)
	return franchises, nil
}

// GetFranchise returns one location, or *domain.ErrNotFound.
func (s *FranchiseService) GetFranchise(ctx context.Context, locationID string) (*domain.Franchise, error) {
	ctx, span := franchiseTracer.Start(ctx, "FranchiseService.GetFranchise")
	defer span.End()
	span.SetAttributes(attribute.String("location.id", locationID))

	if locationID == "" {
		return nil, &domain.ErrValidation{Field: "locationId", Message: "is required"}
	}

	cacheKey := fmt.Sprintf("franchise:%s", locationID)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if f, ok := cached.(*domain.Franchise); ok {
			s.metrics.IncrCacheHit(franchiseCacheName)
			return f, nil
		}
	}
	s.metrics.IncrCacheMiss(franchiseCacheName)

	loc, err := s.locations.GetLocation(ctx, locationID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		s.logger.Error("failed to fetch location",
			zap.String("location_id", locationID),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("square")
		return nil, fmt.Errorf("get location: %w", err)
	}

	f := toFranchise(*loc)
	s.cache.Set(cacheKey, &f)
	return &f, nil
}

func toFranchise(loc domain.Location) domain.Franchise {
	f := domain.Franchise{
		ID:    loc.ID,
		Name:  loc.Name,
		Email: loc.BusinessEmail,
	}
	if a := loc.Address; a != nil {
		f.Address.AddressLine1 = a.AddressLine1
		f.Address.AddressLine2 = a.AddressLine2
		f.Address.City = a.Locality
		f.Address.State = a.AdministrativeDistrictLevel1
		f.Address.PostalCode = a.PostalCode
	}
	if c := loc.Coordinates; c != nil {
		lat, lon := c.Latitude, c.Longitude
		f.Address.Latitude = &lat
		f.Address.Longitude = &lon
	}
	return f
}
