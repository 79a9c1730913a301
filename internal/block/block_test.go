package block

import "testing"

func TestNew_AssignsUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		b := NewText("row", "")
		if b.ID == "" {
			t.Fatal("expected non-empty id")
		}
		if seen[b.ID] {
			t.Fatalf("duplicate id %q", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestNew_Placeholders(t *testing.T) {
	if got := NewTitle("").Text; got != PlaceholderTitle {
		t.Errorf("expected placeholder title, got %q", got)
	}
	if got := NewText("", "").Text; got != PlaceholderText {
		t.Errorf("expected placeholder text, got %q", got)
	}
	if got := NewTitle("Report").Text; got != "Report" {
		t.Errorf("expected %q, got %q", "Report", got)
	}
}

func TestUpdate_MergesFields(t *testing.T) {
	b := NewText("old", "sub")
	d := Document{Blocks: []Block{b}}

	text := "new"
	got := d.Update(b.ID, Patch{Text: &text})
	if got.Blocks[0].Text != "new" {
		t.Errorf("expected updated text, got %q", got.Blocks[0].Text)
	}
	if got.Blocks[0].SubText != "sub" {
		t.Errorf("expected subText untouched, got %q", got.Blocks[0].SubText)
	}
	// Original snapshot unchanged.
	if d.Blocks[0].Text != "old" {
		t.Errorf("expected original untouched, got %q", d.Blocks[0].Text)
	}
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	b := NewText("row", "")
	d := Document{Blocks: []Block{b}}
	text := "x"
	got := d.Update("no-such-id", Patch{Text: &text})
	if len(got.Blocks) != 1 || got.Blocks[0].Text != "row" {
		t.Error("expected unknown-id update to be a no-op")
	}
}

func TestRemove(t *testing.T) {
	a, b, c := NewTitle("a"), NewText("b", ""), NewImage("asset:c")
	d := Document{Blocks: []Block{a, b, c}}

	got := d.Remove(b.ID)
	if len(got.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got.Blocks))
	}
	if got.Blocks[0].ID != a.ID || got.Blocks[1].ID != c.ID {
		t.Error("expected surviving blocks to keep order")
	}

	// Unknown id: no-op.
	got = d.Remove("missing")
	if len(got.Blocks) != 3 {
		t.Errorf("expected unknown-id remove to be a no-op, got %d blocks", len(got.Blocks))
	}
}

func TestInsert_SplicesInOrder(t *testing.T) {
	a, b, c := NewTitle("a"), NewText("b", ""), NewText("c", "")
	d := Document{Blocks: []Block{a, b, c}}

	x, y := NewImage("asset:x"), NewImage("asset:y")
	got := d.Insert(1, x, y)

	wantOrder := []string{a.ID, x.ID, y.ID, b.ID, c.ID}
	if len(got.Blocks) != len(wantOrder) {
		t.Fatalf("expected %d blocks, got %d", len(wantOrder), len(got.Blocks))
	}
	for i, id := range wantOrder {
		if got.Blocks[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, got.Blocks[i].ID)
		}
	}
}

func TestInsert_OutOfRangeAppends(t *testing.T) {
	a := NewTitle("a")
	d := Document{Blocks: []Block{a}}
	x := NewImage("asset:x")

	for _, at := range []int{-1, 5} {
		got := d.Insert(at, x)
		if len(got.Blocks) != 2 || got.Blocks[1].ID != x.ID {
			t.Errorf("insert at %d: expected append", at)
		}
	}
}

func TestIndexOf(t *testing.T) {
	a, b := NewTitle("a"), NewText("b", "")
	d := Document{Blocks: []Block{a, b}}
	if got := d.IndexOf(b.ID); got != 1 {
		t.Errorf("expected index 1, got %d", got)
	}
	if got := d.IndexOf("missing"); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestClone_IsDetached(t *testing.T) {
	a := NewTitle("a")
	d := Document{SpacingPixels: 12, Blocks: []Block{a}}
	c := d.Clone()
	c.Blocks[0].Text = "mutated"
	if d.Blocks[0].Text != "a" {
		t.Error("expected clone mutation not to reach the original")
	}
}
