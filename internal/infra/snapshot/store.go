// Package snapshot persists raw Square orders to a JSON file so the
// diagnostic report can be recomputed offline.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/justinsenglish/crave.services/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("snapshot")

// FileStore reads and writes a single JSON array of orders (implements port.OrderSnapshotStore).
type FileStore struct {
	path   string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the snapshot with orders. The file is written to a temporary
// sibling first and renamed, so readers never see a partial array.
func (s *FileStore) Save(ctx context.Context, orders []domain.RawOrder) error {
	_, span := tracer.Start(ctx, "Snapshot.Save")
	defer span.End()
	span.SetAttributes(attribute.Int("orders.count", len(orders)))

	if orders == nil {
		orders = []domain.RawOrder{}
	}
	payload, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("path", s.path),
		zap.Int("orders", len(orders)),
	)
	return nil
}

// Load reads the snapshot. A missing file is reported as domain.ErrNotFound.
func (s *FileStore) Load(ctx context.Context) ([]domain.RawOrder, error) {
	_, span := tracer.Start(ctx, "Snapshot.Load")
	defer span.End()

	s.mu.RLock()
	payload, err := os.ReadFile(s.path)
	s.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, &domain.ErrNotFound{Resource: "order snapshot", ID: s.path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var orders []domain.RawOrder
	if err := json.Unmarshal(payload, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.path, err)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}
