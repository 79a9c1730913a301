package render

import (
	"strings"

	"github.com/cfraser/pageforge/internal/block"
)

// FallbackName is used when no block offers a usable title.
const FallbackName = "document"

var nameSanitizer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_",
	"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
)

// ExportName derives the export file name (without extension): the first
// title block with real text wins, then the first text row's main text,
// then the fixed fallback. Placeholder text counts as empty.
func ExportName(d block.Document) string {
	if name := firstUsable(d, block.KindTitle, block.PlaceholderTitle); name != "" {
		return nameSanitizer.Replace(name)
	}
	if name := firstUsable(d, block.KindText, block.PlaceholderText); name != "" {
		return nameSanitizer.Replace(name)
	}
	return FallbackName
}

func firstUsable(d block.Document, kind block.Kind, placeholder string) string {
	for _, b := range d.Blocks {
		if b.Kind != kind {
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text != "" && text != placeholder {
			return text
		}
	}
	return ""
}
