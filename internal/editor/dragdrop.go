package editor

import "github.com/cfraser/pageforge/internal/block"

// Intent is the visual classification of a drag gesture over a target.
type Intent string

const (
	IntentNone   Intent = "none"
	IntentSwap   Intent = "swap"
	IntentInsert Intent = "insert"
)

// classify resolves the drop semantics for a source/target pair. Two image
// endpoints swap; every other combination inserts. The decision looks only
// at the block kinds at this instant, never at anything cached from
// drag-start.
func classify(d block.Document, src, dst int) Intent {
	if src < 0 || dst < 0 || src >= len(d.Blocks) || dst >= len(d.Blocks) {
		return IntentNone
	}
	if src == dst {
		return IntentNone
	}
	if d.Blocks[src].Kind == block.KindImage && d.Blocks[dst].Kind == block.KindImage {
		return IntentSwap
	}
	return IntentInsert
}

// swapBlocks exchanges the blocks at i and j, leaving every other index
// untouched.
func swapBlocks(d block.Document, i, j int) block.Document {
	out := d.Clone()
	out.Blocks[i], out.Blocks[j] = out.Blocks[j], out.Blocks[i]
	return out
}

// moveBlock removes the block at src and re-inserts it immediately before
// the drop target. Removing first shifts every index in (src, dst] left by
// one, so a downward move inserts at dst-1; an upward move inserts at dst
// unchanged.
func moveBlock(d block.Document, src, dst int) block.Document {
	out := d.Clone()
	moved := out.Blocks[src]
	out.Blocks = append(out.Blocks[:src], out.Blocks[src+1:]...)
	at := dst
	if src < dst {
		at = dst - 1
	}
	rest := make([]block.Block, len(out.Blocks[at:]))
	copy(rest, out.Blocks[at:])
	out.Blocks = append(out.Blocks[:at], append([]block.Block{moved}, rest...)...)
	return out
}
