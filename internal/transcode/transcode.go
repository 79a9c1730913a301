// Package transcode produces the final encoded bytes for an image block,
// applying the stored crop against the fixed reference display width.
package transcode

import (
	"bytes"
	"math"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// ReferenceWidth is the fixed display width, in display pixels, that crop
// heights are measured against. Crop drag distances on screen convert to
// native pixel space through the image's natural-width / ReferenceWidth
// ratio.
const ReferenceWidth = 354

// Transcode returns the encoded bytes for an image and a short format tag
// ("jpg", "png", ...). A zero cropHeight passes the original through. Any
// decode or encode failure falls back to the original bytes with a
// best-effort format guess; a broken image never aborts an export.
func Transcode(data []byte, cropHeight int) ([]byte, string) {
	tag := guessFormat(data)
	if cropHeight <= 0 {
		return data, tag
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, tag
	}
	bounds := img.Bounds()
	natW, natH := bounds.Dx(), bounds.Dy()
	if natW <= 0 || natH <= 0 {
		return data, tag
	}

	// Scale the display-pixel crop into native pixel space. A crop that
	// meets or exceeds the natural height (within a 1-unit epsilon) keeps
	// the untouched original.
	native := int(math.Round(float64(cropHeight) * float64(natW) / float64(ReferenceWidth)))
	if float64(native) >= float64(natH)-1 {
		return data, tag
	}

	cropped := imaging.CropAnchor(img, natW, native, imaging.Top)

	format, err := imaging.FormatFromExtension("." + tag)
	if err != nil {
		format = imaging.PNG
		tag = "png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, format, imaging.JPEGQuality(90)); err != nil {
		return data, guessFormat(data)
	}
	return buf.Bytes(), tag
}

// guessFormat sniffs a short format tag from image bytes.
func guessFormat(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "bin"
	}
	return kind.Extension
}
