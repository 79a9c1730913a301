package export

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/block"
)

func testWorker() (*Worker, *Stats) {
	store := assets.NewStore(0)
	resolver := assets.NewResolver(store, 2*time.Second, 1<<20, slog.Default())
	stats := NewStats(time.Hour)
	return NewWorker(resolver, slog.Default(), stats, 2), stats
}

func inlinePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return assets.EncodeDataURI("image/png", buf.Bytes())
}

func TestWorker_ProcessCompletes(t *testing.T) {
	w, stats := testWorker()

	doc := block.Document{Blocks: []block.Block{
		block.NewTitle("Report"),
		block.NewText("Row", "Images: 1"),
		block.NewImage(inlinePNG(t)),
	}}
	job := NewJob(doc, "Report.docx")

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalImages != 1 || snap.Progress.ImagesDone != 1 {
		t.Errorf("expected 1/1 images, got %d/%d", snap.Progress.ImagesDone, snap.Progress.TotalImages)
	}
	data, ok := job.Result()
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty result bytes")
	}
	if stats.Snapshot().Count != 1 {
		t.Error("expected completed export recorded in stats")
	}
}

func TestWorker_UnresolvableImageDegradesToPlaceholder(t *testing.T) {
	w, _ := testWorker()

	doc := block.Document{Blocks: []block.Block{
		block.NewText("Row", "Images: 1"),
		block.NewImage("asset:gone"),
	}}
	job := NewJob(doc, "document.docx")

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected export to complete despite image failure, got %q", snap.Status)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %v", snap.Progress.Errors)
	}
	if _, ok := job.Result(); !ok {
		t.Error("expected a downloadable result")
	}
}

func TestWorker_EmptyDocument(t *testing.T) {
	w, _ := testWorker()
	job := NewJob(block.Document{}, "document.docx")
	w.Process(context.Background(), job)

	if snap := job.Snapshot(); snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", snap.Status)
	}
}

func TestStats_SnapshotAggregates(t *testing.T) {
	s := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 3 {
		t.Fatalf("expected 3 samples, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 300 {
		t.Errorf("expected min 100 max 300, got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 200 {
		t.Errorf("expected avg 200, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 200 {
		t.Errorf("expected p50 200, got %f", snap.P50Ms)
	}
}

func TestStats_WindowPrunesOldSamples(t *testing.T) {
	s := NewStats(50 * time.Millisecond)
	s.Record(100)
	time.Sleep(100 * time.Millisecond)
	s.Record(200)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected 1 sample after pruning, got %d", snap.Count)
	}
	if snap.MinMs != 200 {
		t.Errorf("expected surviving sample 200, got %d", snap.MinMs)
	}
}
