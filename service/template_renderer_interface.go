package service

import "patron-studio/models"

// Template identifiers known to the renderer
const (
	TemplatePreviewBasic    = "preview-basic"
	TemplatePreviewPremium  = "preview-premium"
	TemplateDocumentBasic   = "document-basic"
	TemplateDocumentPremium = "document-premium"
	TemplateFooter          = "footer"
)

// TemplateRendererInterface defines the contract for compiling a named
// template against assembled pattern data
type TemplateRendererInterface interface {
	Render(templateID string, data *models.PatternData) (string, error)
}
