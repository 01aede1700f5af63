package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tagStart matches a "<" that would open a tag if the text were parsed
// again.
var tagStart = regexp.MustCompile(`<([A-Za-z/!])`)

// literal keeps decoded entities such as "&lt;b&gt;" from reading as markup
// on a later pass: "<b>" becomes "< b>".
func literal(s string) string {
	return tagStart.ReplaceAllString(s, "< $1")
}

// stripHTML returns the text content of s with superscripts rendered as
// "^n" (or "^(...)") and subscripts as "_n". Block elements become spaces.
// Markup that fails to parse is returned unchanged.
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(literal(n.Data))
			return
		case html.ElementNode:
			switch n.Data {
			case "sup":
				inner := strings.TrimSpace(textOf(n))
				if inner == "" {
					return
				}
				if isAtom(inner) {
					b.WriteString("^" + inner)
				} else {
					b.WriteString("^(" + inner + ")")
				}
				return
			case "sub":
				b.WriteString("_" + strings.TrimSpace(textOf(n)))
				return
			case "br", "p", "div", "li", "tr", "td", "th", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte(' ')
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "tr", "td", "th":
				b.WriteByte(' ')
			}
		}
	}
	walk(doc)
	return b.String()
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(literal(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// isAtom reports whether s is a single number or identifier, which can
// follow "^" without parentheses.
func isAtom(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '.') {
			return false
		}
	}
	return true
}
