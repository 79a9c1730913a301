package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/cfraser/pageforge/internal/block"
)

// MarkdownImporter converts Markdown into blocks using goldmark.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader) ([]block.Block, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []block.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if title := string(node.Text(src)); title != "" {
				blocks = append(blocks, block.NewTitle(title))
			}
		default:
			// Non-heading blocks contribute their text as one text row;
			// any images inside become image blocks after it, in order.
			if t := extractText(n, src); t != "" {
				blocks = append(blocks, block.NewText(t, ""))
			}
			for _, ref := range collectImageRefs(n) {
				blocks = append(blocks, block.NewImage(ref))
			}
		}
	}
	return blocks, nil
}

// extractText gets the plain text content of a goldmark AST node,
// excluding image alt text.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.Image:
			// Handled by collectImageRefs.
		default:
			buf.WriteString(extractText(c, src))
		}
	}
	// Leaf blocks with no inline children (code blocks) carry their
	// content in raw lines. Blocks whose children were all images stay
	// empty on purpose.
	if buf.Len() == 0 && n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// collectImageRefs gathers image destinations nested anywhere under n.
func collectImageRefs(n ast.Node) []string {
	var refs []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if img, ok := c.(*ast.Image); ok {
			if dst := string(img.Destination); dst != "" {
				refs = append(refs, dst)
			}
			continue
		}
		refs = append(refs, collectImageRefs(c)...)
	}
	return refs
}
