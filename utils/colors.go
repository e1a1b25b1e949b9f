package utils

import "strings"

// FallbackColorName is used when a primary color value has no palette entry
const FallbackColorName = "White"

// paletteEntry keeps the palette ordered so reverse lookups are stable
// (first named entry whose value matches wins).
type paletteEntry struct {
	name  string
	value string
}

// palette is the fixed fabric palette offered in the shop
var palette = []paletteEntry{
	{"White", "#FFFFFF"},
	{"Black", "#1A1A1A"},
	{"Navy", "#1D2F6F"},
	{"Sky Blue", "#8FB8DE"},
	{"Bordeaux", "#6E0E0A"},
	{"Coral", "#F9564F"},
	{"Mustard", "#E3B505"},
	{"Forest", "#2A4D14"},
	{"Sage", "#A3B18A"},
	{"Blush", "#F2C6C2"},
	{"Grey Melange", "#9A9B9C"},
	{"Sand", "#D8C3A5"},
}

// ColorNames holds the resolved palette names for a piece's colors.
// Secondary is empty when the piece has no secondary color.
type ColorNames struct {
	Primary   string
	Secondary string
}

// lookupColorName finds the first palette entry whose value matches the
// supplied color, case-insensitively. Returns "" when nothing matches.
func lookupColorName(value string) string {
	for _, entry := range palette {
		if strings.EqualFold(entry.value, value) {
			return entry.name
		}
	}
	return ""
}

// ResolveColorNames reverse-looks-up the palette names for a primary and an
// optional secondary color value. The primary falls back to
// FallbackColorName when unmatched; the secondary stays empty when absent
// or unmatched.
func ResolveColorNames(primary, secondary string) ColorNames {
	names := ColorNames{Primary: lookupColorName(primary)}
	if names.Primary == "" {
		names.Primary = FallbackColorName
	}
	if secondary != "" {
		names.Secondary = lookupColorName(secondary)
	}
	return names
}

// SubstituteColors resolves {primary}/{secondary} tokens in a markup or
// text string into the supplied color names. Pure transform: text without
// tokens passes through unchanged, and a missing secondary name leaves the
// token replaced by an empty string only when the token is present.
func SubstituteColors(text string, names ColorNames) string {
	if !strings.Contains(text, "{") {
		return text
	}
	replaced := strings.ReplaceAll(text, "{primary}", names.Primary)
	replaced = strings.ReplaceAll(replaced, "{secondary}", names.Secondary)
	return replaced
}
