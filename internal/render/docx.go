// Package render converts a finalized block sequence into a downloadable
// DOCX file on a fixed A4 page.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fumiama/go-docx"

	"github.com/cfraser/pageforge/internal/block"
)

// EncodedImage is the transcoded payload for one image block, keyed by
// block id in the images map handed to Docx.
type EncodedImage struct {
	Data   []byte
	Format string
}

// half-point font sizes used by the fixed block styles.
const (
	titleSize      = "36" // 18pt, centered bold
	annotationSize = "18" // 9pt, de-emphasized
)

const annotationColor = "808080"

// Docx renders the document. Consecutive image blocks pair into one row,
// side by side; a lone trailing image stands alone in its row. The
// document's spacing scalar becomes the vertical gap between block rows.
// Images whose bytes are missing render as an inline notice instead of
// failing the whole document.
func Docx(d block.Document, images map[string]EncodedImage) ([]byte, error) {
	w := docx.New().WithDefaultTheme().WithA4Page()

	first := true
	spacer := func() {
		if first {
			first = false
			return
		}
		if d.SpacingPixels <= 0 {
			return
		}
		// go-docx's builder has no direct paragraph-spacing knob, so the
		// gap is an empty paragraph sized to the spacing scalar.
		p := w.AddParagraph()
		p.AddText("").Size(pixelsToHalfPoints(d.SpacingPixels))
	}

	for i := 0; i < len(d.Blocks); {
		b := d.Blocks[i]
		spacer()
		switch b.Kind {
		case block.KindTitle:
			p := w.AddParagraph()
			p.AddText(b.Text).Size(titleSize).Bold()
			p.Justification("center")
			i++

		case block.KindText:
			p := w.AddParagraph()
			p.AddText(b.Text).Bold()
			if b.SubText != "" {
				sub := w.AddParagraph()
				sub.AddText(b.SubText).Size(annotationSize).Color(annotationColor)
			}
			i++

		case block.KindImage:
			p := w.AddParagraph()
			addImage(p, images[b.ID])
			if i+1 < len(d.Blocks) && d.Blocks[i+1].Kind == block.KindImage {
				p.AddText("  ")
				addImage(p, images[d.Blocks[i+1].ID])
				i += 2
			} else {
				i++
			}

		default:
			return nil, fmt.Errorf("unknown block kind %q", b.Kind)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("package docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addImage(p *docx.Paragraph, img EncodedImage) {
	if len(img.Data) == 0 {
		p.AddText("[image unavailable]").Size(annotationSize).Color(annotationColor)
		return
	}
	if _, err := p.AddInlineDrawing(img.Data); err != nil {
		p.AddText("[image unavailable]").Size(annotationSize).Color(annotationColor)
	}
}

// pixelsToHalfPoints converts display pixels to the half-point font size
// strings go-docx expects (96 px/in to 72 pt/in, doubled).
func pixelsToHalfPoints(px int) string {
	return strconv.Itoa(px * 3 / 2)
}
