package export

import (
	"testing"
	"time"

	"github.com/cfraser/pageforge/internal/block"
)

func TestNewJob_CapturesSnapshot(t *testing.T) {
	d := block.Document{Blocks: []block.Block{block.NewTitle("Report")}}
	job := NewJob(d, "Report.docx")

	if job.ID == "" {
		t.Error("expected non-empty job id")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}

	// Mutating the caller's document must not reach the captured copy.
	d.Blocks[0].Text = "edited after submit"
	if got := job.Doc().Blocks[0].Text; got != "Report" {
		t.Errorf("expected captured snapshot untouched, got %q", got)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(block.Document{}, "document.docx")

	transitions := []struct {
		status Status
		phase  string
	}{
		{StatusTranscoding, "transcoding images"},
		{StatusRendering, "rendering document"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob(block.Document{}, "document.docx")
	job.AddError("image a: fetch failed")
	job.AddError("image b: fetch failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "image a: fetch failed" {
		t.Errorf("expected first error %q, got %q", "image a: fetch failed", snap.Progress.Errors[0])
	}
}

func TestJob_ImageProgress(t *testing.T) {
	job := NewJob(block.Document{}, "document.docx")
	job.SetTotalImages(3)
	job.IncrImagesDone()
	job.IncrImagesDone()

	snap := job.Snapshot()
	if snap.Progress.TotalImages != 3 {
		t.Errorf("expected 3 total images, got %d", snap.Progress.TotalImages)
	}
	if snap.Progress.ImagesDone != 2 {
		t.Errorf("expected 2 images done, got %d", snap.Progress.ImagesDone)
	}
}

func TestJob_ResultOnlyWhenCompleted(t *testing.T) {
	job := NewJob(block.Document{}, "document.docx")
	job.SetResult([]byte("docx bytes"))

	if _, ok := job.Result(); ok {
		t.Error("expected no result before completion")
	}

	job.SetStatus(StatusCompleted, "done")
	data, ok := job.Result()
	if !ok {
		t.Fatal("expected result after completion")
	}
	if string(data) != "docx bytes" {
		t.Errorf("expected stored bytes, got %q", data)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob(block.Document{}, "document.docx")
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob(block.Document{}, "document.docx")
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(block.Document{}, "old.docx")
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob(block.Document{}, "new.docx")
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupConcurrentWithUpdates(t *testing.T) {
	// The janitor reads UpdatedAt while workers mutate job state; both
	// sides must go through the job mutex.
	store := NewJobStore(time.Hour)
	job := NewJob(block.Document{}, "document.docx")
	store.Put(job)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			job.SetStatus(StatusTranscoding, "transcoding images")
			job.IncrImagesDone()
		}
	}()
	for i := 0; i < 100; i++ {
		store.Cleanup()
	}
	<-done

	if store.Get(job.ID) == nil {
		t.Error("expected active job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
