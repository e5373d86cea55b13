package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdown walks the goldmark AST collecting block text. The first
// level-1 heading becomes the document title.
func extractMarkdown(data []byte) (*Result, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(data))

	res := &Result{}
	var buf strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		t := nodeText(n, data)
		if t == "" {
			continue
		}
		if h, ok := n.(*ast.Heading); ok && res.Title == "" && h.Level == 1 {
			res.Title = t
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(t)
	}
	res.Text = buf.String()
	return res, nil
}

// nodeText gets the text content of a goldmark AST node. Blocks that carry
// their own source lines are read from those directly; container nodes
// recurse into their children.
func nodeText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}

	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var part string
		if t, ok := c.(*ast.Text); ok {
			part = string(t.Segment.Value(src))
		} else {
			part = nodeText(c, src)
		}
		if part == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(part)
	}
	return strings.TrimSpace(buf.String())
}
