// Package editor holds the block editing engine: a single owned state
// container over the document plus the drag/drop reconciliation state
// machine. All mutations pass through a Session; every change to block
// membership or order re-runs the derived annotation pass.
package editor

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/cfraser/pageforge/internal/block"
)

// MinCropHeight is the smallest committable image crop, in display pixels.
const MinCropHeight = 50

var (
	// ErrBlockFocused rejects a drag-start on a block whose text field
	// currently has edit focus.
	ErrBlockFocused = errors.New("block has edit focus")

	// ErrUnknownBlock reports a drag-start on an id not in the sequence.
	ErrUnknownBlock = errors.New("unknown block")

	// ErrNoDrag reports a drop with no drag gesture in flight.
	ErrNoDrag = errors.New("no drag in progress")
)

// Session owns the mutable editor state: the document, the in-flight drag
// source, and the focused block. There are no other copies of this state;
// handlers hold a *Session and nothing else.
type Session struct {
	mu      sync.Mutex
	doc     block.Document
	dragID  string
	focusID string
	log     *slog.Logger
}

func NewSession(spacingPixels int, log *slog.Logger) *Session {
	return &Session{
		doc: block.Document{SpacingPixels: spacingPixels},
		log: log,
	}
}

// Document returns a snapshot of the current document. The snapshot is
// detached: later edits do not alter it, so exports read a stable view.
func (s *Session) Document() block.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Replace swaps the document wholesale (project load) and re-runs the
// annotation pass, because loaded text may carry stale counters. Any
// in-flight drag or focus is discarded with the old document.
func (s *Session) Replace(d block.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = block.Renumber(d)
	s.dragID = ""
	s.focusID = ""
	s.log.Info("document replaced", "blocks", len(s.doc.Blocks))
}

// SetSpacing sets the uniform inter-block spacing.
func (s *Session) SetSpacing(px int) {
	if px < 0 {
		px = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.SpacingPixels = px
}

// Add inserts a block at the given index (any out-of-range index appends)
// and returns the new document.
func (s *Session) Add(b block.Block, at int) block.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = block.Renumber(s.doc.Insert(at, b))
	return s.doc.Clone()
}

// Append adds a run of blocks at the end of the sequence (used by import).
func (s *Session) Append(blocks []block.Block) block.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = block.Renumber(s.doc.Insert(len(s.doc.Blocks), blocks...))
	return s.doc.Clone()
}

// Update merges a field patch onto a block. Field edits do not change
// membership or order, so the annotation pass does not run.
func (s *Session) Update(id string, p block.Patch) block.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.doc.Update(id, p)
	return s.doc.Clone()
}

// Remove deletes a block. Unknown ids are a silent no-op.
func (s *Session) Remove(id string) block.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = block.Renumber(s.doc.Remove(id))
	return s.doc.Clone()
}

// Focus marks a block as having edit focus; drag-start on it is rejected
// until Blur. Only one block can hold focus.
func (s *Session) Focus(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.IndexOf(id) >= 0 {
		s.focusID = id
	}
}

// Blur clears edit focus if the given block holds it.
func (s *Session) Blur(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focusID == id {
		s.focusID = ""
	}
}

// BeginDrag starts a drag gesture from the given block.
func (s *Session) BeginDrag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focusID != "" && s.focusID == id {
		return ErrBlockFocused
	}
	if s.doc.IndexOf(id) < 0 {
		return ErrUnknownBlock
	}
	s.dragID = id
	return nil
}

// DragOver reports the visual intent for hovering the in-flight drag over
// a target block. It never mutates the document; reconciliation is
// deferred to Drop.
func (s *Session) DragOver(targetID string) Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragID == "" {
		return IntentNone
	}
	return classify(s.doc, s.doc.IndexOf(s.dragID), s.doc.IndexOf(targetID))
}

// Drop completes the drag gesture on the target block: image-onto-image
// swaps, anything else relocates the source before the target. The gesture
// always ends, even when nothing moves.
func (s *Session) Drop(targetID string) (block.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragID == "" {
		return s.doc.Clone(), ErrNoDrag
	}
	src := s.doc.IndexOf(s.dragID)
	dst := s.doc.IndexOf(targetID)
	s.dragID = ""

	switch classify(s.doc, src, dst) {
	case IntentSwap:
		s.doc = block.Renumber(swapBlocks(s.doc, src, dst))
	case IntentInsert:
		s.doc = block.Renumber(moveBlock(s.doc, src, dst))
	}
	return s.doc.Clone(), nil
}

// CancelDrag ends the gesture with no mutation (drag-end outside a valid
// target).
func (s *Session) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragID = ""
}

// InsertImages splices new image blocks for externally dropped files into
// the sequence starting at the given index, preserving file order. A
// negative index (drop on empty background) appends.
func (s *Session) InsertImages(at int, sourceRefs []string) []block.Block {
	blocks := make([]block.Block, 0, len(sourceRefs))
	for _, ref := range sourceRefs {
		blocks = append(blocks, block.NewImage(ref))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = block.Renumber(s.doc.Insert(at, blocks...))
	return blocks
}

// CommitCrop stores a crop height on an image block, clamped to
// [MinCropHeight, naturalRendered]. naturalRendered is the image's natural
// height scaled to the reference display width; zero means unknown and
// leaves the upper bound unenforced. Returns the committed height.
func (s *Session) CommitCrop(id string, requested, naturalRendered int) int {
	h := requested
	if h < MinCropHeight {
		h = MinCropHeight
	}
	if naturalRendered > 0 && h > naturalRendered {
		h = naturalRendered
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.doc.IndexOf(id); i < 0 || s.doc.Blocks[i].Kind != block.KindImage {
		return 0
	}
	s.doc = s.doc.Update(id, block.Patch{CropHeight: &h})
	return h
}
