package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Anchor is the first hyperlink of a fragment.
type Anchor struct {
	// Text is the concatenated text content of the element, untrimmed.
	Text string

	// Href is the raw href attribute. It may be empty or relative.
	Href string
}

// ExtractAnchor parses an HTML fragment such as
// <a href="/ghdb/8239">intitle:"index of"</a> and returns its first
// anchor. A fragment without one yields an ExtractionError wrapping
// ErrAnchorNotFound.
func ExtractAnchor(fragment string) (Anchor, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return Anchor{}, &ExtractionError{Field: "anchor", Err: err}
	}

	for _, n := range nodes {
		if a := findAnchor(n); a != nil {
			return Anchor{Text: textContent(a), Href: getAttr(a, "href")}, nil
		}
	}
	return Anchor{}, &ExtractionError{Field: "anchor", Err: ErrAnchorNotFound}
}

func findAnchor(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if a := findAnchor(c); a != nil {
			return a
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
