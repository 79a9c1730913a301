package api

import (
	"io"
	"net/http"
	"strconv"
)

// handleUploadImages takes externally dropped files: each becomes an image
// block, spliced into the sequence at the given index in file order.
// Without an index (drop on empty background) the new blocks append.
func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*4+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	at := -1
	if v := r.FormValue("index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "index must be a non-negative integer", http.StatusBadRequest)
			return
		}
		at = n
	}

	var refs []string
	var rejected []map[string]string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": fh.Filename, "error": "failed to open file"})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			rejected = append(rejected, map[string]string{"filename": fh.Filename, "error": "file too large or read error"})
			continue
		}

		a, err := s.store.Put(fh.Filename, data)
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": fh.Filename, "error": err.Error()})
			continue
		}
		refs = append(refs, a.Ref())
	}

	created := s.session.InsertImages(at, refs)
	writeJSON(w, http.StatusCreated, map[string]any{
		"blocks":   created,
		"rejected": rejected,
		"document": s.session.Document(),
	})
}
