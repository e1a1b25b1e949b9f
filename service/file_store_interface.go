package service

import (
	"context"

	"patron-studio/models"
)

// FileStoreInterface defines the contract for the external file store
type FileStoreInterface interface {
	// CreateFile persists the given bytes under name and returns a
	// retrievable handle
	CreateFile(ctx context.Context, name string, data []byte) (*models.StoredFile, error)
	// GetFile returns the stored file with the given id, or nil when it
	// does not exist
	GetFile(ctx context.Context, id string) (*models.StoredFile, error)
}
