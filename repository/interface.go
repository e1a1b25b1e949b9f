package repository

import (
	"context"

	"patron-studio/models"
)

// PatternRepositoryInterface defines the contract for pattern persistence
type PatternRepositoryInterface interface {
	// CreatePattern stores a pattern with its pieces and returns the record
	CreatePattern(ctx context.Context, name string, pieces []models.PatternPiece) (*models.Pattern, error)
	// GetPattern returns the pattern with the given id, or nil when it
	// does not exist
	GetPattern(ctx context.Context, id string) (*models.Pattern, error)
}
