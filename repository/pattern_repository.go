package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"patron-studio/db"
	"patron-studio/models"
)

// PatternRepository handles database operations for patterns
// Implements PatternRepositoryInterface
type PatternRepository struct{}

// NewPatternRepository creates a new PatternRepository
func NewPatternRepository() *PatternRepository {
	return &PatternRepository{}
}

// Ensure PatternRepository implements PatternRepositoryInterface
var _ PatternRepositoryInterface = (*PatternRepository)(nil)

// CreatePattern inserts a pattern and its pieces in a single transaction
func (r *PatternRepository) CreatePattern(ctx context.Context, name string, pieces []models.PatternPiece) (*models.Pattern, error) {
	log.Printf("💾 Repository.CreatePattern called: name=%s pieces=%d", name, len(pieces))

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	patternID := uuid.NewString()
	createdAt := time.Now()

	query := `
		INSERT INTO patterns (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, patternID, name, createdAt); err != nil {
		log.Printf("❌ Database INSERT error for pattern %s: %v", name, err)
		return nil, fmt.Errorf("failed to insert pattern: %w", err)
	}

	pieceQuery := `
		INSERT INTO pattern_pieces (
			id, pattern_id, ref, image_ref, color_primary, color_secondary,
			pos_x, pos_y, rotation, category, asset_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, piece := range pieces {
		pieceID := piece.ID
		if pieceID == "" {
			pieceID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, pieceQuery,
			pieceID,
			patternID,
			piece.Ref,
			piece.ImageRef,
			piece.ColorPrimary,
			nullableString(piece.ColorSecondary),
			piece.X,
			piece.Y,
			piece.Rotation,
			piece.Category,
			piece.AssetID,
		); err != nil {
			log.Printf("❌ Database INSERT error for piece %s of pattern %s: %v", piece.Ref, patternID, err)
			return nil, fmt.Errorf("failed to insert pattern piece: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pattern: %w", err)
	}

	log.Printf("✓ Pattern created: id=%s name=%s", patternID, name)
	return &models.Pattern{
		ID:        patternID,
		Name:      name,
		Pieces:    pieces,
		CreatedAt: createdAt,
	}, nil
}

// GetPattern returns a pattern with its pieces, or nil when no row exists
func (r *PatternRepository) GetPattern(ctx context.Context, id string) (*models.Pattern, error) {
	query := `SELECT id, name, created_at FROM patterns WHERE id = $1`

	var pattern models.Pattern
	err := db.DB.QueryRowContext(ctx, query, id).Scan(&pattern.ID, &pattern.Name, &pattern.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern: %w", err)
	}

	pieceQuery := `
		SELECT id, ref, image_ref, color_primary, COALESCE(color_secondary, ''),
		       pos_x, pos_y, rotation, category, asset_id
		FROM pattern_pieces
		WHERE pattern_id = $1
		ORDER BY ref
	`
	rows, err := db.DB.QueryContext(ctx, pieceQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern pieces: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var piece models.PatternPiece
		if err := rows.Scan(
			&piece.ID,
			&piece.Ref,
			&piece.ImageRef,
			&piece.ColorPrimary,
			&piece.ColorSecondary,
			&piece.X,
			&piece.Y,
			&piece.Rotation,
			&piece.Category,
			&piece.AssetID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern piece: %w", err)
		}
		pattern.Pieces = append(pattern.Pieces, piece)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pattern pieces: %w", err)
	}

	return &pattern, nil
}

// nullableString converts an empty string to a SQL NULL
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
