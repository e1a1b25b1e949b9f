package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"patron-studio/models"
)

// templateFiles maps template identifiers to their files on disk
var templateFiles = map[string]string{
	TemplatePreviewBasic:    "preview_basic.html",
	TemplatePreviewPremium:  "preview_premium.html",
	TemplateDocumentBasic:   "document_basic.html",
	TemplateDocumentPremium: "document_premium.html",
	TemplateFooter:          "footer.html",
}

// stylesPartial is the shared stylesheet fragment included by every
// document template
const stylesPartial = "styles.html"

// TemplateRenderer compiles named templates against assembled pattern
// data. Template content is configuration, not business logic; the
// renderer only guarantees deterministic output for identical inputs.
// Implements TemplateRendererInterface.
type TemplateRenderer struct {
	baseDir string
}

// NewTemplateRenderer creates a renderer reading templates from baseDir
func NewTemplateRenderer(baseDir string) *TemplateRenderer {
	return &TemplateRenderer{baseDir: baseDir}
}

// Ensure TemplateRenderer implements TemplateRendererInterface
var _ TemplateRendererInterface = (*TemplateRenderer)(nil)

// helperFuncs exposes the predicates templates use inline
func helperFuncs() template.FuncMap {
	return template.FuncMap{
		// isSinglePiece reports whether a piece is not one half of a
		// left/right mirrored pair
		"isSinglePiece": func(piece models.PatternPiece) bool {
			ref := strings.ToLower(piece.Ref)
			return !strings.Contains(ref, "left") && !strings.Contains(ref, "right")
		},
		"hasSecondaryColor": func(piece models.PatternPiece) bool {
			return piece.ColorSecondary != ""
		},
		"isImageInstruction": func(instruction models.Instruction) bool {
			return instruction.ImageFileID != "" || instruction.ImageURL != ""
		},
	}
}

// Render compiles the named template plus the shared stylesheet partial
// against the supplied data and returns the final markup
func (r *TemplateRenderer) Render(templateID string, data *models.PatternData) (string, error) {
	filename, ok := templateFiles[templateID]
	if !ok {
		return "", fmt.Errorf("unknown template %q", templateID)
	}

	tmpl, err := template.New(filename).Funcs(helperFuncs()).ParseFiles(
		filepath.Join(r.baseDir, filename),
		filepath.Join(r.baseDir, stylesPartial),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, filename, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateID, err)
	}

	return buf.String(), nil
}
