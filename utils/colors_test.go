package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColorNames(t *testing.T) {
	tests := []struct {
		name          string
		primary       string
		secondary     string
		wantPrimary   string
		wantSecondary string
	}{
		{
			name:        "exact match",
			primary:     "#1D2F6F",
			wantPrimary: "Navy",
		},
		{
			name:        "case-insensitive match",
			primary:     "#1d2f6f",
			wantPrimary: "Navy",
		},
		{
			name:        "unmatched primary falls back to White",
			primary:     "#123456",
			wantPrimary: "White",
		},
		{
			name:          "secondary resolved when supplied",
			primary:       "#1A1A1A",
			secondary:     "#E3B505",
			wantPrimary:   "Black",
			wantSecondary: "Mustard",
		},
		{
			name:          "no secondary leaves name absent",
			primary:       "#1A1A1A",
			secondary:     "",
			wantPrimary:   "Black",
			wantSecondary: "",
		},
		{
			name:          "unmatched secondary stays absent",
			primary:       "#1A1A1A",
			secondary:     "#ABCDEF",
			wantPrimary:   "Black",
			wantSecondary: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := ResolveColorNames(tt.primary, tt.secondary)
			assert.Equal(t, tt.wantPrimary, names.Primary)
			assert.Equal(t, tt.wantSecondary, names.Secondary)
		})
	}
}

func TestSubstituteColors(t *testing.T) {
	names := ColorNames{Primary: "Navy", Secondary: "Mustard"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "both tokens resolved",
			text: "Sew the {primary} panel to the {secondary} cuff.",
			want: "Sew the Navy panel to the Mustard cuff.",
		},
		{
			name: "text without tokens passes through unchanged",
			text: "Press the seam flat.",
			want: "Press the seam flat.",
		},
		{
			name: "unknown tokens pass through",
			text: "Use the {tertiary} thread.",
			want: "Use the {tertiary} thread.",
		},
		{
			name: "empty input",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteColors(tt.text, names))
		})
	}
}

func TestSubstituteColorsWithoutSecondary(t *testing.T) {
	names := ColorNames{Primary: "Navy"}
	got := SubstituteColors("{primary} body, {secondary} trim", names)
	assert.Equal(t, "Navy body,  trim", got)
}
