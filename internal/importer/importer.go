// Package importer populates a document from existing files: Markdown and
// HTML turn into ordered block sequences (headings become titles,
// paragraphs become text rows, images become image blocks).
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cfraser/pageforge/internal/block"
)

// Importer converts a source file into an ordered block sequence.
type Importer interface {
	Import(r io.Reader) ([]block.Block, error)
}

// SupportedExtensions lists the file extensions the editor can import.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension can be imported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
