package storage

import (
	"context"
	"io"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// StubImageStorage stands in when no storage backend is configured.
// Image uploads fail with a clear error instead of a nil dereference.
type StubImageStorage struct{}

// NewStubImageStorage creates the placeholder backend
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{}
}

// Upload always reports the backend as unavailable
func (s *StubImageStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	return "", shared.ErrUnavailable
}

// Delete is a no-op; there is nothing to remove
func (s *StubImageStorage) Delete(ctx context.Context, url string) error {
	return nil
}
