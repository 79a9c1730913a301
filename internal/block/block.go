package block

import (
	"github.com/google/uuid"
)

// Kind discriminates the block variants.
type Kind string

const (
	KindTitle Kind = "title"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Placeholder texts assigned to freshly created blocks. Export naming
// treats a block still carrying its placeholder as empty.
const (
	PlaceholderTitle = "New title"
	PlaceholderText  = "New text row"
)

// Block is one layout unit: a title, a text row, or an image. Sequence
// position is the sole layout signal; there are no coordinates.
type Block struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Text    string `json:"text,omitempty"`    // title text, or text-row main text
	SubText string `json:"subText,omitempty"` // text-row annotation (usually derived, see recalc.go)

	// Image fields. SourceRef is an opaque locator: an "asset:" reference
	// into the local store, a data URI, or a remote URL. CropHeight, when
	// non-zero, is a display-pixel height measured against the reference
	// display width; it is clamped before it is ever stored.
	SourceRef  string `json:"sourceRef,omitempty"`
	CropHeight int    `json:"cropHeight,omitempty"`
}

// Document is the whole editable page: an ordered block sequence plus a
// single inter-block spacing scalar.
type Document struct {
	SpacingPixels int     `json:"spacingPixels"`
	Blocks        []Block `json:"blocks"`
}

// NewTitle creates a title block with a fresh unique id.
func NewTitle(text string) Block {
	if text == "" {
		text = PlaceholderTitle
	}
	return Block{ID: uuid.NewString(), Kind: KindTitle, Text: text}
}

// NewText creates a text-row block with a fresh unique id.
func NewText(mainText, subText string) Block {
	if mainText == "" {
		mainText = PlaceholderText
	}
	return Block{ID: uuid.NewString(), Kind: KindText, Text: mainText, SubText: subText}
}

// NewImage creates an image block with a fresh unique id.
func NewImage(sourceRef string) Block {
	return Block{ID: uuid.NewString(), Kind: KindImage, SourceRef: sourceRef}
}

// Patch is a partial field update. Nil fields are left untouched.
type Patch struct {
	Text       *string
	SubText    *string
	SourceRef  *string
	CropHeight *int
}

// Clone returns a deep copy of the document. All mutating operations work
// on clones, so callers never observe a partially-updated sequence.
func (d Document) Clone() Document {
	out := Document{SpacingPixels: d.SpacingPixels}
	if d.Blocks != nil {
		out.Blocks = make([]Block, len(d.Blocks))
		copy(out.Blocks, d.Blocks)
	}
	return out
}

// IndexOf returns the position of the block with the given id, or -1.
func (d Document) IndexOf(id string) int {
	for i, b := range d.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Update merges the patch onto the matching block and returns the new
// document. An unknown id is a silent no-op: a stale reference racing a
// deletion is benign, not an error.
func (d Document) Update(id string, p Patch) Document {
	out := d.Clone()
	i := out.IndexOf(id)
	if i < 0 {
		return out
	}
	b := &out.Blocks[i]
	if p.Text != nil {
		b.Text = *p.Text
	}
	if p.SubText != nil {
		b.SubText = *p.SubText
	}
	if p.SourceRef != nil {
		b.SourceRef = *p.SourceRef
	}
	if p.CropHeight != nil {
		b.CropHeight = *p.CropHeight
	}
	return out
}

// Remove deletes the block with the given id. Unknown ids are a no-op.
func (d Document) Remove(id string) Document {
	out := d.Clone()
	i := out.IndexOf(id)
	if i < 0 {
		return out
	}
	out.Blocks = append(out.Blocks[:i], out.Blocks[i+1:]...)
	return out
}

// Insert splices blocks into the sequence starting at index i, preserving
// their order. Indices outside [0, len] append.
func (d Document) Insert(i int, blocks ...Block) Document {
	out := d.Clone()
	if i < 0 || i > len(out.Blocks) {
		i = len(out.Blocks)
	}
	rest := make([]Block, len(out.Blocks[i:]))
	copy(rest, out.Blocks[i:])
	out.Blocks = append(out.Blocks[:i], append(blocks, rest...)...)
	return out
}
