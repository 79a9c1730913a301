// Package project serializes the document to a portable, self-contained
// project file and loads it back.
package project

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/block"
)

// Version is the current project file format version.
const Version = 1

// LoadError reports a project file the loader could not accept. The
// caller's in-memory document stays untouched when one is returned.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid project file: %s: %v", e.Reason, e.Err)
	}
	return "invalid project file: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// fileBlock is the on-disk block shape. Content carries the title text,
// the text-row main text, or the image payload depending on type.
type fileBlock struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	SubContent string `json:"subContent,omitempty"`
	Height     int    `json:"height,omitempty"`
}

type projectFile struct {
	Version       int         `json:"version"`
	SpacingPixels int         `json:"spacingPixels"`
	Blocks        []fileBlock `json:"blocks"`
}

// ResolveFunc turns an image source reference into raw bytes.
type ResolveFunc func(ctx context.Context, ref string) ([]byte, error)

// Save serializes the document. Every image source reference is resolved
// to an inline data URI so the saved file has no dependency on transient
// local references and stays portable across machines.
func Save(ctx context.Context, d block.Document, resolve ResolveFunc) ([]byte, error) {
	pf := projectFile{
		Version:       Version,
		SpacingPixels: d.SpacingPixels,
		Blocks:        make([]fileBlock, 0, len(d.Blocks)),
	}

	for _, b := range d.Blocks {
		fb := fileBlock{ID: b.ID, Type: string(b.Kind)}
		switch b.Kind {
		case block.KindTitle:
			fb.Content = b.Text
		case block.KindText:
			fb.Content = b.Text
			fb.SubContent = b.SubText
		case block.KindImage:
			content, err := inlineImage(ctx, b.SourceRef, resolve)
			if err != nil {
				return nil, fmt.Errorf("inline image %s: %w", b.ID, err)
			}
			fb.Content = content
			fb.Height = b.CropHeight
		default:
			return nil, fmt.Errorf("unknown block kind %q", b.Kind)
		}
		pf.Blocks = append(pf.Blocks, fb)
	}

	return json.MarshalIndent(pf, "", "  ")
}

// inlineImage resolves a source reference into a self-contained data URI.
// References that already are data URIs pass through unchanged.
func inlineImage(ctx context.Context, ref string, resolve ResolveFunc) (string, error) {
	if strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	data, err := resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	mime := "application/octet-stream"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		mime = kind.MIME.Value
	}
	return assets.EncodeDataURI(mime, data), nil
}

// Load parses a project file into a document. Structural failures come
// back as *LoadError; the caller replaces its document only on success and
// must re-run the annotation pass afterwards.
func Load(data []byte) (block.Document, error) {
	// Pointer fields distinguish absent from empty.
	var pf struct {
		Version       *int         `json:"version"`
		SpacingPixels int          `json:"spacingPixels"`
		Blocks        *[]fileBlock `json:"blocks"`
	}
	if err := json.Unmarshal(data, &pf); err != nil {
		return block.Document{}, &LoadError{Reason: "not a well-formed project container", Err: err}
	}
	if pf.Version == nil || *pf.Version < 1 {
		return block.Document{}, &LoadError{Reason: "missing or invalid version"}
	}
	if *pf.Version > Version {
		return block.Document{}, &LoadError{Reason: fmt.Sprintf("unsupported version %d", *pf.Version)}
	}
	if pf.Blocks == nil {
		return block.Document{}, &LoadError{Reason: "missing blocks field"}
	}

	d := block.Document{
		SpacingPixels: pf.SpacingPixels,
		Blocks:        make([]block.Block, 0, len(*pf.Blocks)),
	}
	for i, fb := range *pf.Blocks {
		id := fb.ID
		if id == "" {
			// Hand-edited files may drop ids; assign fresh ones.
			id = uuid.NewString()
		}
		switch block.Kind(fb.Type) {
		case block.KindTitle:
			d.Blocks = append(d.Blocks, block.Block{ID: id, Kind: block.KindTitle, Text: fb.Content})
		case block.KindText:
			d.Blocks = append(d.Blocks, block.Block{ID: id, Kind: block.KindText, Text: fb.Content, SubText: fb.SubContent})
		case block.KindImage:
			h := fb.Height
			if h < 0 {
				h = 0
			}
			d.Blocks = append(d.Blocks, block.Block{ID: id, Kind: block.KindImage, SourceRef: fb.Content, CropHeight: h})
		default:
			return block.Document{}, &LoadError{Reason: fmt.Sprintf("block %d has unknown type %q", i, fb.Type)}
		}
	}
	return d, nil
}
