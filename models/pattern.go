package models

import "time"

// PatternPiece represents a single cuttable piece placed on the pattern sheet.
// X/Y arrive as absolute canvas coordinates and are re-expressed relative to
// the pattern bounding box before the piece reaches a template.
type PatternPiece struct {
	ID             string  `json:"id"`
	Ref            string  `json:"ref"`            // e.g. "sleeve-left", "hood"
	ImageRef       string  `json:"imageRef"`       // visual reference, may contain {primary}/{secondary} tokens
	ColorPrimary   string  `json:"colorPrimary"`   // hex value, e.g. "#1D2F6F"
	ColorSecondary string  `json:"colorSecondary"` // hex value, optional
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       float64 `json:"rotation"` // degrees, 0 when omitted
	Category       string  `json:"category"`
	AssetID        string  `json:"assetId"`
}

// Instruction is a single sewing step belonging to an asset
type Instruction struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ImageFileID string    `json:"imageFileId,omitempty"` // file-store id, resolved to ImageURL during assembly
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PatternAsset represents a catalog entry (a garment section) with its
// ordered instructions and, once joined to a pattern, its pieces
type PatternAsset struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Instructions []Instruction  `json:"instructions"`
	Pieces       []PatternPiece `json:"pieces,omitempty"` // attached in premium mode only
}

// BoundingBox is the axis-aligned box around all piece positions
type BoundingBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PatternData is the render unit passed to the templates.
// Built fresh for every request, never cached.
type PatternData struct {
	Name      string         `json:"name"`
	Pieces    []PatternPiece `json:"pieces"`
	Assets    []PatternAsset `json:"assets"`
	Box       BoundingBox    `json:"box"`
	Materials []string       `json:"materials"` // deduplicated color names across all pieces
}

// Pattern represents a persisted pattern record
type Pattern struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Pieces    []PatternPiece `json:"pieces,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// StoredFile represents a file persisted in the external file store
type StoredFile struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
