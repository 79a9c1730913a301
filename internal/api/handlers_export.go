package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfraser/pageforge/internal/export"
	"github.com/cfraser/pageforge/internal/render"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleExport captures a document snapshot and queues it for rendering.
// A second export submitted before the first finishes runs independently.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Document()
	filename := render.ExportName(doc) + ".docx"

	job := export.NewJob(doc, filename)
	if err := s.orch.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":       job.ID,
		"filename":     filename,
		"status":       export.StatusQueued,
		"poll_url":     fmt.Sprintf("/api/export/%s/status", job.ID),
		"download_url": fmt.Sprintf("/api/export/%s/download", job.ID),
	})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orch.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	job := s.orch.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	data, ok := job.Result()
	if !ok {
		snap := job.Snapshot()
		if snap.Status == export.StatusFailed {
			jsonError(w, "export failed", http.StatusGone)
			return
		}
		jsonError(w, "export not finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", docxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.Filename))
	w.Write(data)
}

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orch.QueueDepth(),
		"stats":       s.orch.Stats().Snapshot(),
	})
}
