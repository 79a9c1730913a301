package block

import (
	"reflect"
	"testing"
)

func TestRenumber_CountsImagesPerTextRow(t *testing.T) {
	// [TextRow A, Image, Image, TextRow B, Image]
	a := NewText("A", "")
	b := NewText("B", "")
	d := Document{Blocks: []Block{
		a,
		NewImage("asset:1"),
		NewImage("asset:2"),
		b,
		NewImage("asset:3"),
	}}

	got := Renumber(d)
	if s := got.Blocks[0].SubText; s != "Images: 2" {
		t.Errorf("row A: expected %q, got %q", "Images: 2", s)
	}
	if s := got.Blocks[3].SubText; s != "Images: 1" {
		t.Errorf("row B: expected %q, got %q", "Images: 1", s)
	}
}

func TestRenumber_ImagesBeforeFirstTextRowUncounted(t *testing.T) {
	a := NewText("A", "")
	d := Document{Blocks: []Block{
		NewImage("asset:1"),
		NewImage("asset:2"),
		a,
	}}

	got := Renumber(d)
	if s := got.Blocks[2].SubText; s != "Images: 0" {
		t.Errorf("expected %q, got %q", "Images: 0", s)
	}
}

func TestRenumber_TitlesAreTransparent(t *testing.T) {
	a := NewText("A", "")
	d := Document{Blocks: []Block{
		a,
		NewImage("asset:1"),
		NewTitle("Section"),
		NewImage("asset:2"),
	}}

	got := Renumber(d)
	if s := got.Blocks[0].SubText; s != "Images: 2" {
		t.Errorf("expected titles not to reset the count, got %q", s)
	}
}

func TestRenumber_OverwritesStaleAnnotation(t *testing.T) {
	a := NewText("A", "Images: 7")
	d := Document{Blocks: []Block{a, NewImage("asset:1")}}

	got := Renumber(d)
	if s := got.Blocks[0].SubText; s != "Images: 1" {
		t.Errorf("expected stale annotation replaced, got %q", s)
	}
}

func TestRenumber_Idempotent(t *testing.T) {
	d := Document{Blocks: []Block{
		NewImage("asset:0"),
		NewText("A", "hand edited"),
		NewImage("asset:1"),
		NewTitle("T"),
		NewImage("asset:2"),
		NewText("B", ""),
	}}

	once := Renumber(d)
	twice := Renumber(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected recalc(recalc(S)) == recalc(S)\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestRenumber_EmptyDocument(t *testing.T) {
	got := Renumber(Document{})
	if len(got.Blocks) != 0 {
		t.Errorf("expected empty document, got %d blocks", len(got.Blocks))
	}
}
