package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cfraser/pageforge/internal/editor"
)

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceID string `json:"sourceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch err := s.session.BeginDrag(req.SourceID); {
	case errors.Is(err, editor.ErrBlockFocused):
		jsonError(w, "block has edit focus", http.StatusConflict)
	case errors.Is(err, editor.ErrUnknownBlock):
		jsonError(w, "unknown block", http.StatusNotFound)
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleDragIntent reports the visual feedback class for the hovered
// target. Pure read; the document never mutates on hover.
func (s *Server) handleDragIntent(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	writeJSON(w, http.StatusOK, map[string]any{
		"intent": s.session.DragOver(target),
	})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID string `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := s.session.Drop(req.TargetID)
	if errors.Is(err, editor.ErrNoDrag) {
		jsonError(w, "no drag in progress", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.session.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}
