package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patron-studio/models"
)

// fakeFileStore resolves instruction images from an in-memory map
type fakeFileStore struct {
	mu    sync.Mutex
	files map[string]string // id -> url
	calls int
	err   error
}

func (f *fakeFileStore) CreateFile(ctx context.Context, name string, data []byte) (*models.StoredFile, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeFileStore) GetFile(ctx context.Context, id string) (*models.StoredFile, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	url, ok := f.files[id]
	if !ok {
		return nil, nil
	}
	return &models.StoredFile{ID: id, URL: url}, nil
}

func testPieces() []models.PatternPiece {
	return []models.PatternPiece{
		{
			ID:           "p1",
			Ref:          "sleeve-left",
			ImageRef:     "sleeve-{primary}.svg",
			ColorPrimary: "#1D2F6F", // Navy
			X:            120.4,
			Y:            80.6,
			AssetID:      "a1",
		},
		{
			ID:             "p2",
			Ref:            "hood",
			ImageRef:       "hood-{primary}-{secondary}.svg",
			ColorPrimary:   "#1A1A1A", // Black
			ColorSecondary: "#E3B505", // Mustard
			X:              20.2,
			Y:              200.0,
			AssetID:        "a2",
		},
	}
}

func TestAssembleNormalizesPositionsToBoundingBox(t *testing.T) {
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), nil, false)
	require.NoError(t, err)

	assert.InDelta(t, 20.2, data.Box.MinX, 0.001)
	assert.InDelta(t, 80.6, data.Box.MinY, 0.001)
	assert.InDelta(t, 100.2, data.Box.Width, 0.001)
	assert.InDelta(t, 119.4, data.Box.Height, 0.001)

	// after normalization the minimum x and y across pieces is exactly 0
	minX, minY := data.Pieces[0].X, data.Pieces[0].Y
	for _, piece := range data.Pieces[1:] {
		if piece.X < minX {
			minX = piece.X
		}
		if piece.Y < minY {
			minY = piece.Y
		}
	}
	assert.Equal(t, 0.0, minX)
	assert.Equal(t, 0.0, minY)

	// positions are rounded to the nearest unit
	assert.Equal(t, 100.0, data.Pieces[0].X) // 120.4 - 20.2 = 100.2
	assert.Equal(t, 119.0, data.Pieces[1].Y) // 200.0 - 80.6 = 119.4
}

func TestAssembleResolvesColorTokensInImageRefs(t *testing.T) {
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), nil, false)
	require.NoError(t, err)

	assert.Equal(t, "sleeve-Navy.svg", data.Pieces[0].ImageRef)
	assert.Equal(t, "hood-Black-Mustard.svg", data.Pieces[1].ImageRef)
}

func TestAssembleDeduplicatesMaterials(t *testing.T) {
	pieces := testPieces()
	pieces = append(pieces, models.PatternPiece{
		ID:           "p3",
		Ref:          "pocket",
		ColorPrimary: "#1D2F6F", // Navy again
		AssetID:      "a1",
	})
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", pieces, nil, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Navy", "Black", "Mustard"}, data.Materials)
}

func TestAssembleOrdersInstructionsByCreationTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assets := []models.PatternAsset{
		{
			ID:   "a1",
			Name: "Sleeve",
			Instructions: []models.Instruction{
				{ID: "i3", Text: "Third", CreatedAt: base.Add(2 * time.Hour)},
				{ID: "i1", Text: "First", CreatedAt: base},
				{ID: "i2", Text: "Second", CreatedAt: base.Add(time.Hour)},
			},
		},
	}
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.NoError(t, err)

	got := data.Assets[0].Instructions
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.Before(got[i-1].CreatedAt),
			"instructions must be non-decreasing by creation time")
	}
	assert.Equal(t, []string{"i1", "i2", "i3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestAssembleSubstitutesInstructionTextFromAssetPiece(t *testing.T) {
	assets := []models.PatternAsset{
		{
			ID:   "a2",
			Name: "Hood",
			Instructions: []models.Instruction{
				{ID: "i1", Text: "Attach the {primary} hood, trim with {secondary}."},
			},
		},
	}
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.NoError(t, err)

	assert.Equal(t, "Attach the Black hood, trim with Mustard.", data.Assets[0].Instructions[0].Text)
}

func TestAssembleSkipsSubstitutionWhenAssetHasNoPiece(t *testing.T) {
	assets := []models.PatternAsset{
		{
			ID:   "orphan",
			Name: "Orphan",
			Instructions: []models.Instruction{
				{ID: "i1", Text: "Use the {primary} fabric."},
			},
		},
	}
	svc := NewPdfDataService(&fakeFileStore{})

	// data-integrity warning only, never fatal
	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.NoError(t, err)
	assert.Equal(t, "Use the {primary} fabric.", data.Assets[0].Instructions[0].Text)
}

func TestAssembleAttachesAssetPiecesInPremiumMode(t *testing.T) {
	assets := []models.PatternAsset{
		{ID: "a1", Name: "Sleeve"},
		{ID: "a2", Name: "Hood"},
	}
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, true)
	require.NoError(t, err)
	require.Len(t, data.Assets[0].Pieces, 1)
	assert.Equal(t, "p1", data.Assets[0].Pieces[0].ID)
	require.Len(t, data.Assets[1].Pieces, 1)
	assert.Equal(t, "p2", data.Assets[1].Pieces[0].ID)

	basic, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.NoError(t, err)
	assert.Empty(t, basic.Assets[0].Pieces)
}

func TestAssembleResolvesInstructionImagesConcurrently(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assets := []models.PatternAsset{
		{
			ID:   "a1",
			Name: "Sleeve",
			Instructions: []models.Instruction{
				{ID: "i1", Text: "Pin", ImageFileID: "f1", CreatedAt: base},
				{ID: "i2", Text: "Sew", ImageFileID: "f2", CreatedAt: base.Add(time.Minute)},
				{ID: "i3", Text: "Press", CreatedAt: base.Add(2 * time.Minute)},
			},
		},
	}
	store := &fakeFileStore{files: map[string]string{
		"f1": "https://files.example/f1",
		"f2": "https://files.example/f2",
	}}
	svc := NewPdfDataService(store)

	data, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.NoError(t, err)

	got := data.Assets[0].Instructions
	assert.Equal(t, "https://files.example/f1", got[0].ImageURL)
	assert.Equal(t, "https://files.example/f2", got[1].ImageURL)
	assert.Empty(t, got[2].ImageURL)
	assert.Equal(t, 2, store.calls, "only instructions with an image id hit the file store")
}

func TestAssemblePropagatesImageLookupFailure(t *testing.T) {
	assets := []models.PatternAsset{
		{
			ID:   "a1",
			Name: "Sleeve",
			Instructions: []models.Instruction{
				{ID: "i1", Text: "Pin", ImageFileID: "f1"},
			},
		},
	}
	store := &fakeFileStore{err: fmt.Errorf("file store down")}
	svc := NewPdfDataService(store)

	_, err := svc.Assemble(context.Background(), "Hoodie", testPieces(), assets, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f1")
}

func TestAssembleWithNoPieces(t *testing.T) {
	svc := NewPdfDataService(&fakeFileStore{})

	data, err := svc.Assemble(context.Background(), "Empty", nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, models.BoundingBox{}, data.Box)
	assert.Empty(t, data.Materials)
}
