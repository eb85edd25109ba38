// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/justinsenglish/crave.services/internal/domain"
)

// OrderSearcher runs one page of an order search. Implementations must be
// idempotent so a page can be retried after a transport failure.
type OrderSearcher interface {
	SearchOrders(ctx context.Context, search domain.OrderSearch) (*domain.OrderPage, error)
}

// LocationFetcher reads franchise locations from the commerce platform.
type LocationFetcher interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, locationID string) (*domain.Location, error)
}

// OrderSnapshotStore persists and reloads raw orders for offline diagnostics.
type OrderSnapshotStore interface {
	Save(ctx context.Context, orders []domain.RawOrder) error
	Load(ctx context.Context) ([]domain.RawOrder, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
