// Package export runs document exports as asynchronous jobs: each job
// captures a document snapshot, transcodes its images, renders the DOCX,
// and holds the result for download.
package export

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cfraser/pageforge/internal/block"
)

// Status represents the state of an export job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusTranscoding Status = "transcoding"
	StatusRendering   Status = "rendering"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Job tracks one document export. The document snapshot is captured at
// submit time, so edits made while the export runs never corrupt it; they
// simply aren't included (last-snapshot-wins).
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status Status `json:"status"`
	Phase  string `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	doc    block.Document
	result []byte
	errors []string
}

// Progress tracks per-image transcoding progress.
type Progress struct {
	TotalImages int      `json:"total_images"`
	ImagesDone  int      `json:"images_done"`
	Errors      []string `json:"errors"`
}

// NewJob captures a document snapshot for export.
func NewJob(doc block.Document, filename string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		doc:       doc.Clone(),
	}
}

// Doc returns the captured document snapshot.
func (j *Job) Doc() block.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.doc
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status Status, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a non-fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalImages records how many images the export must transcode.
func (j *Job) SetTotalImages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalImages = n
	j.UpdatedAt = time.Now()
}

// IncrImagesDone atomically advances the transcode counter.
func (j *Job) IncrImagesDone() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ImagesDone++
	j.UpdatedAt = time.Now()
}

// LastUpdated returns the time of the most recent state change.
func (j *Job) LastUpdated() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetResult stores the rendered file bytes.
func (j *Job) SetResult(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.UpdatedAt = time.Now()
}

// Result returns the rendered file bytes once the job has completed.
func (j *Job) Result() ([]byte, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted || j.result == nil {
		return nil, false
	}
	return j.result, true
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID       string   `json:"job_id"`
	Filename string   `json:"filename"`
	Status   Status   `json:"status"`
	Phase    string   `json:"phase"`
	Progress Progress `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return Snapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Status:   j.Status,
		Phase:    j.Phase,
		Progress: Progress{
			TotalImages: j.Progress.TotalImages,
			ImagesDone:  j.Progress.ImagesDone,
			Errors:      errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs, their result bytes with them.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	// Workers update jobs under their own mutex; read through the
	// accessor so the janitor never races a status change.
	for id, job := range s.jobs {
		if now.Sub(job.LastUpdated()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
