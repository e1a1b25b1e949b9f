package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"patron-studio/models"
	"patron-studio/utils"
)

// PdfDataService builds the unified render data set for a pattern: joins
// pieces to assets, orders instructions, normalizes piece positions to the
// pattern bounding box and derives the material list.
type PdfDataService struct {
	fileStore FileStoreInterface
}

// NewPdfDataService creates a new PdfDataService
func NewPdfDataService(fileStore FileStoreInterface) *PdfDataService {
	return &PdfDataService{fileStore: fileStore}
}

// computeBoundingBox returns the axis-aligned box around all piece
// positions. An empty piece set yields a zero box.
func computeBoundingBox(pieces []models.PatternPiece) models.BoundingBox {
	if len(pieces) == 0 {
		return models.BoundingBox{}
	}

	box := models.BoundingBox{
		MinX: pieces[0].X,
		MinY: pieces[0].Y,
		MaxX: pieces[0].X,
		MaxY: pieces[0].Y,
	}
	for _, piece := range pieces[1:] {
		box.MinX = math.Min(box.MinX, piece.X)
		box.MinY = math.Min(box.MinY, piece.Y)
		box.MaxX = math.Max(box.MaxX, piece.X)
		box.MaxY = math.Max(box.MaxY, piece.Y)
	}
	box.Width = box.MaxX - box.MinX
	box.Height = box.MaxY - box.MinY
	return box
}

// Assemble builds a fresh PatternData from raw pieces and assets.
// Positions are re-expressed relative to the bounding box minimum corner
// and rounded to the nearest unit, so no piece carries absolute
// coordinates into a template. Instruction-image lookups run concurrently;
// output ordering is fixed by instruction creation time regardless of
// lookup completion order.
func (s *PdfDataService) Assemble(ctx context.Context, name string, pieces []models.PatternPiece, assets []models.PatternAsset, premium bool) (*models.PatternData, error) {
	box := computeBoundingBox(pieces)

	normalized := make([]models.PatternPiece, len(pieces))
	var materials []string
	seen := make(map[string]bool)
	for i, piece := range pieces {
		names := utils.ResolveColorNames(piece.ColorPrimary, piece.ColorSecondary)
		piece.ImageRef = utils.SubstituteColors(piece.ImageRef, names)
		piece.X = math.Round(piece.X - box.MinX)
		piece.Y = math.Round(piece.Y - box.MinY)
		normalized[i] = piece

		if !seen[names.Primary] {
			seen[names.Primary] = true
			materials = append(materials, names.Primary)
		}
		if names.Secondary != "" && !seen[names.Secondary] {
			seen[names.Secondary] = true
			materials = append(materials, names.Secondary)
		}
	}

	assembled := make([]models.PatternAsset, len(assets))
	for i, asset := range assets {
		instructions := make([]models.Instruction, len(asset.Instructions))
		copy(instructions, asset.Instructions)
		sort.SliceStable(instructions, func(a, b int) bool {
			return instructions[a].CreatedAt.Before(instructions[b].CreatedAt)
		})

		assetPieces := piecesForAsset(normalized, asset.ID)
		if len(assetPieces) > 0 {
			names := utils.ResolveColorNames(assetPieces[0].ColorPrimary, assetPieces[0].ColorSecondary)
			for j := range instructions {
				instructions[j].Text = utils.SubstituteColors(instructions[j].Text, names)
			}
		} else if len(instructions) > 0 {
			// Data-integrity warning, not fatal: the asset renders with
			// unresolved color tokens
			log.Printf("⚠️  Asset %s has %d instructions but no matching piece, skipping color substitution", asset.ID, len(instructions))
		}

		assembled[i] = models.PatternAsset{
			ID:           asset.ID,
			Name:         asset.Name,
			Instructions: instructions,
		}
		if premium {
			assembled[i].Pieces = assetPieces
		}
	}

	// Resolve instruction images through the file store, concurrently
	// across instructions
	g, gctx := errgroup.WithContext(ctx)
	for i := range assembled {
		for j := range assembled[i].Instructions {
			fileID := assembled[i].Instructions[j].ImageFileID
			if fileID == "" {
				continue
			}
			instruction := &assembled[i].Instructions[j]
			g.Go(func() error {
				file, err := s.fileStore.GetFile(gctx, fileID)
				if err != nil {
					return fmt.Errorf("failed to resolve instruction image %s: %w", fileID, err)
				}
				if file != nil {
					instruction.ImageURL = file.URL
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PatternData{
		Name:      name,
		Pieces:    normalized,
		Assets:    assembled,
		Box:       box,
		Materials: materials,
	}, nil
}

// piecesForAsset returns the pieces joined to the given asset
func piecesForAsset(pieces []models.PatternPiece, assetID string) []models.PatternPiece {
	var matched []models.PatternPiece
	for _, piece := range pieces {
		if piece.AssetID == assetID {
			matched = append(matched, piece)
		}
	}
	return matched
}
