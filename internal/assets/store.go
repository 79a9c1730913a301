// Package assets stores uploaded image bytes and resolves block source
// references — asset refs, data URIs, and remote URLs — to raw bytes.
package assets

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/fumiama/imgsz"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/cfraser/pageforge/internal/transcode"
)

const refPrefix = "asset:"

// Asset is one uploaded image held in memory for the session.
type Asset struct {
	ID     string
	Name   string
	MIME   string
	Data   []byte
	Width  int // natural pixel width, 0 if the probe failed
	Height int // natural pixel height, 0 if the probe failed
}

// RenderedHeight is the asset's natural height scaled to the reference
// display width, the unit crop heights are measured in. Zero when the
// natural dimensions are unknown.
func (a *Asset) RenderedHeight() int {
	if a.Width <= 0 || a.Height <= 0 {
		return 0
	}
	return a.Height * transcode.ReferenceWidth / a.Width
}

// Ref returns the source reference for this asset.
func (a *Asset) Ref() string {
	return refPrefix + a.ID
}

// ParseRef extracts the asset id from an "asset:" source reference.
func ParseRef(ref string) (string, bool) {
	id, ok := strings.CutPrefix(ref, refPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Store is a thread-safe in-memory blob registry for the editing session.
type Store struct {
	mu       sync.Mutex
	assets   map[string]*Asset
	maxBytes int64
}

func NewStore(maxBytes int64) *Store {
	return &Store{
		assets:   make(map[string]*Asset),
		maxBytes: maxBytes,
	}
}

// Put registers uploaded image bytes, sniffing the MIME type and probing
// natural dimensions. Non-image uploads are rejected.
func (s *Store) Put(name string, data []byte) (*Asset, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("image %q exceeds max size (%d bytes)", name, s.maxBytes)
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, fmt.Errorf("%q is not a recognized image", name)
	}

	a := &Asset{
		ID:   uuid.NewString(),
		Name: name,
		MIME: kind.MIME.Value,
		Data: data,
	}
	// Dimension probe; SVG and exotic formats may fail, which only means
	// crop clamping loses its upper bound for this asset.
	if sz, _, err := imgsz.DecodeSize(bytes.NewReader(data)); err == nil {
		a.Width = sz.Width
		a.Height = sz.Height
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = a
	return a, nil
}

// Get returns the asset with the given id, or nil.
func (s *Store) Get(id string) *Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets[id]
}

// ByRef returns the asset behind an "asset:" source reference, or nil.
func (s *Store) ByRef(ref string) *Asset {
	id, ok := ParseRef(ref)
	if !ok {
		return nil
	}
	return s.Get(id)
}
