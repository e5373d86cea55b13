package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML walks the parsed tree collecting visible text; script and style
// bodies are skipped. The <title> tag, if present, becomes the title.
func extractHTML(data []byte) (*Result, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	res := &Result{}
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && res.Title == "" {
					res.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElement(n.Data) && buf.Len() > 0 {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	res.Text = strings.TrimSpace(buf.String())
	return res, nil
}

func blockElement(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
		return true
	}
	return false
}
