package service

import "context"

// PdfOptions controls PDF page geometry. Paper size is fixed to A4;
// margins are in millimeters. Header/footer fragments are rendered by the
// engine on every page when present.
type PdfOptions struct {
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
	HeaderHTML   string
	FooterHTML   string
}

// PdfEngineInterface defines the contract for the pooled rendering engine.
// Page opens a tab scoped to one request; the caller must invoke the
// returned cancel func at the end of its flow, success or failure.
type PdfEngineInterface interface {
	Page(ctx context.Context) (context.Context, context.CancelFunc, error)
	// Rasterize loads markup into the page and captures it as a PNG
	Rasterize(pageCtx context.Context, markup string) ([]byte, error)
	// RenderPdf loads markup into the page and prints it as an A4 PDF
	RenderPdf(pageCtx context.Context, markup string, opts PdfOptions) ([]byte, error)
}
