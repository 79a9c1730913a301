package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cfraser/pageforge/internal/importer"
	"github.com/cfraser/pageforge/internal/project"
	"github.com/cfraser/pageforge/internal/render"
)

// handleSaveProject serializes the current document, all image bytes
// inlined, and serves it as a download.
func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	doc := s.session.Document()
	data, err := project.Save(r.Context(), doc, s.resolver.Resolve)
	if err != nil {
		s.log.Error("project save failed", "error", err)
		jsonError(w, "failed to save project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	name := render.ExportName(doc) + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// handleLoadProject replaces the document wholesale from an uploaded
// project file. On a malformed file the in-memory document is untouched.
func (s *Server) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := project.Load(data)
	if err != nil {
		var le *project.LoadError
		if errors.As(err, &le) {
			jsonError(w, le.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "failed to load project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.session.Replace(doc)
	writeJSON(w, http.StatusOK, s.session.Document())
}

// handleImport appends blocks converted from a Markdown or HTML file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	imp, err := importer.ForFile(header.Filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks, err := imp.Import(io.LimitReader(file, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	doc := s.session.Append(blocks)
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": len(blocks),
		"document": doc,
	})
}

// readUpload pulls the uploaded "file" part, size-limited, from a
// multipart form.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return data, true
}
