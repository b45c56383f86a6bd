package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/hnlevel/internal/htmltree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML documents and fragments. Fragments are placed in
// the body of a synthesized document, so every element is attached.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FindTitle returns the text of the first <title> element, if any.
func FindTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return htmltree.TextContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := FindTitle(c); t != "" {
			return t
		}
	}
	return ""
}
