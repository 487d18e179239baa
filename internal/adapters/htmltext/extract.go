// Package htmltext extracts the visible prose of an HTML or XHTML document
// (an EPUB chapter, a saved article) so it can be analyzed as plain text.
package htmltext

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Rt:       true, // ruby annotations
}

// blocks end a line of text.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.Td: true, atom.Th: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Pre: true, atom.Dt: true, atom.Dd: true,
	atom.Figcaption: true, atom.Header: true, atom.Footer: true, atom.Aside: true,
}

// headings become sentences of their own.
var headings = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
}

// Extract parses r and returns its visible text. Headings that lack closing
// punctuation get a period so a chapter title is not merged into the first
// sentence. Runs of whitespace collapse to one space; lines are joined by
// newlines.
func Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var (
		lines []string
		cur   strings.Builder
	)
	flush := func(heading bool) {
		line := strings.Join(strings.Fields(cur.String()), " ")
		cur.Reset()
		if line == "" {
			return
		}
		if heading && !strings.ContainsAny(line[len(line)-1:], ".!?") {
			line += "."
		}
		lines = append(lines, line)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}

		block := n.Type == html.ElementNode && (blocks[n.DataAtom] || headings[n.DataAtom])
		if block {
			flush(false)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush(headings[n.DataAtom])
		}
	}
	walk(doc)
	flush(false)

	return strings.Join(lines, "\n"), nil
}

// ExtractString is Extract over an in-memory document.
func ExtractString(s string) (string, error) {
	return Extract(strings.NewReader(s))
}
