package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cfraser/pageforge/internal/block"
)

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Document())
}

func (s *Server) handleSetSpacing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpacingPixels int `json:"spacingPixels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.SpacingPixels < 0 {
		jsonError(w, "spacingPixels must be >= 0", http.StatusBadRequest)
		return
	}
	s.session.SetSpacing(req.SpacingPixels)
	writeJSON(w, http.StatusOK, s.session.Document())
}

func (s *Server) handleDocumentStats(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Document()
	var titles, texts, images, cropped int
	for _, b := range doc.Blocks {
		switch b.Kind {
		case block.KindTitle:
			titles++
		case block.KindText:
			texts++
		case block.KindImage:
			images++
			if b.CropHeight > 0 {
				cropped++
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"blocks":         len(doc.Blocks),
		"titles":         titles,
		"text_rows":      texts,
		"images":         images,
		"cropped_images": cropped,
		"spacing_px":     doc.SpacingPixels,
	})
}

func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind      block.Kind `json:"kind"`
		Text      string     `json:"text"`
		SubText   string     `json:"subText"`
		SourceRef string     `json:"sourceRef"`
		Index     *int       `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var b block.Block
	switch req.Kind {
	case block.KindTitle:
		b = block.NewTitle(req.Text)
	case block.KindText:
		b = block.NewText(req.Text, req.SubText)
	case block.KindImage:
		if req.SourceRef == "" {
			jsonError(w, "image blocks require sourceRef", http.StatusBadRequest)
			return
		}
		b = block.NewImage(req.SourceRef)
	default:
		jsonError(w, "unknown block kind", http.StatusBadRequest)
		return
	}

	at := -1
	if req.Index != nil {
		at = *req.Index
	}
	doc := s.session.Add(b, at)
	writeJSON(w, http.StatusCreated, map[string]any{
		"block":    b,
		"document": doc,
	})
}

func (s *Server) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	var req struct {
		Text      *string `json:"text"`
		SubText   *string `json:"subText"`
		SourceRef *string `json:"sourceRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	// Unknown ids are a no-op by design; the response is just the
	// (possibly unchanged) document.
	doc := s.session.Update(blockID, block.Patch{
		Text:      req.Text,
		SubText:   req.SubText,
		SourceRef: req.SourceRef,
	})
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Remove(chi.URLParam(r, "blockID"))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	s.session.Focus(chi.URLParam(r, "blockID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	s.session.Blur(chi.URLParam(r, "blockID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")
	var req struct {
		Height int `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc := s.session.Document()
	i := doc.IndexOf(blockID)
	if i < 0 || doc.Blocks[i].Kind != block.KindImage {
		jsonError(w, "not an image block", http.StatusNotFound)
		return
	}

	// The clamp's upper bound is the natural height at the reference
	// width, known only for stored assets.
	naturalRendered := 0
	if a := s.store.ByRef(doc.Blocks[i].SourceRef); a != nil {
		naturalRendered = a.RenderedHeight()
	}

	committed := s.session.CommitCrop(blockID, req.Height, naturalRendered)
	if committed == 0 {
		jsonError(w, "not an image block", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cropHeight": committed})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
