package editor

import (
	"testing"

	"github.com/cfraser/pageforge/internal/block"
)

func ids(d block.Document) []string {
	out := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		out[i] = b.ID
	}
	return out
}

func assertOrder(t *testing.T, d block.Document, want []string) {
	t.Helper()
	got := ids(d)
	if len(got) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %q, got %q\nwant %v\ngot  %v", i, want[i], got[i], want, got)
		}
	}
}

func TestClassify(t *testing.T) {
	title := block.NewTitle("t")
	text := block.NewText("x", "")
	img1 := block.NewImage("asset:1")
	img2 := block.NewImage("asset:2")
	d := block.Document{Blocks: []block.Block{title, text, img1, img2}}

	tests := []struct {
		name     string
		src, dst int
		want     Intent
	}{
		{"image onto image", 2, 3, IntentSwap},
		{"image onto text", 2, 1, IntentInsert},
		{"text onto image", 1, 3, IntentInsert},
		{"title onto text", 0, 1, IntentInsert},
		{"same index", 2, 2, IntentNone},
		{"out of range", -1, 2, IntentNone},
	}
	for _, tt := range tests {
		if got := classify(d, tt.src, tt.dst); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestSwapBlocks_ExchangesOnlyEndpoints(t *testing.T) {
	blocks := []block.Block{
		block.NewTitle("t"),
		block.NewImage("asset:1"),
		block.NewText("x", ""),
		block.NewImage("asset:2"),
	}
	d := block.Document{Blocks: blocks}

	got := swapBlocks(d, 1, 3)
	assertOrder(t, got, []string{blocks[0].ID, blocks[3].ID, blocks[2].ID, blocks[1].ID})
	if len(got.Blocks) != len(d.Blocks) {
		t.Errorf("expected length unchanged")
	}
}

func TestMoveBlock_Downward_AdjustsForShift(t *testing.T) {
	// Moving 0 onto 2: removal shifts (0,2] left, so the block lands
	// immediately before the old index-2 block.
	blocks := []block.Block{
		block.NewText("a", ""),
		block.NewText("b", ""),
		block.NewText("c", ""),
		block.NewText("d", ""),
	}
	d := block.Document{Blocks: blocks}

	got := moveBlock(d, 0, 2)
	assertOrder(t, got, []string{blocks[1].ID, blocks[0].ID, blocks[2].ID, blocks[3].ID})
}

func TestMoveBlock_Upward_InsertsAtTarget(t *testing.T) {
	blocks := []block.Block{
		block.NewText("a", ""),
		block.NewText("b", ""),
		block.NewText("c", ""),
		block.NewText("d", ""),
	}
	d := block.Document{Blocks: blocks}

	got := moveBlock(d, 3, 1)
	assertOrder(t, got, []string{blocks[0].ID, blocks[3].ID, blocks[1].ID, blocks[2].ID})
}

func TestMoveBlock_PreservesRelativeOrderOfOthers(t *testing.T) {
	blocks := []block.Block{
		block.NewText("a", ""),
		block.NewImage("asset:b"),
		block.NewText("c", ""),
		block.NewImage("asset:d"),
		block.NewText("e", ""),
	}
	d := block.Document{Blocks: blocks}

	got := moveBlock(d, 1, 4)
	assertOrder(t, got, []string{blocks[0].ID, blocks[2].ID, blocks[3].ID, blocks[1].ID, blocks[4].ID})
}

func TestMoveBlock_AdjacentDownward(t *testing.T) {
	blocks := []block.Block{
		block.NewText("a", ""),
		block.NewText("b", ""),
	}
	d := block.Document{Blocks: blocks}

	// Moving 0 onto 1 inserts before the (shifted) target: no change.
	got := moveBlock(d, 0, 1)
	assertOrder(t, got, []string{blocks[0].ID, blocks[1].ID})
}
