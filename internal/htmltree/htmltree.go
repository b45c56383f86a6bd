// Package htmltree adapts golang.org/x/net/html trees to outline.Node.
package htmltree

import (
	"strings"

	"github.com/dgallion1/hnlevel/internal/outline"
	"golang.org/x/net/html"
)

type node struct {
	n *html.Node
}

// Wrap returns n as an outline.Node, or nil when n is nil.
func Wrap(n *html.Node) outline.Node {
	if n == nil {
		return nil
	}
	return node{n: n}
}

// Unwrap returns the *html.Node behind a Node created by Wrap.
func Unwrap(n outline.Node) *html.Node {
	if w, ok := n.(node); ok {
		return w.n
	}
	return nil
}

func (w node) Tag() string {
	switch w.n.Type {
	case html.ElementNode:
		return strings.ToLower(w.n.Data)
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DoctypeNode:
		return "#doctype"
	}
	return ""
}

func (w node) Parent() outline.Node {
	return Wrap(w.n.Parent)
}

// Prev mirrors TreeWalker.previousNode() over elements only: the previous
// element sibling's last element descendant, else the parent element.
func (w node) Prev() outline.Node {
	for s := w.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return Wrap(lastDescendant(s))
		}
	}
	if p := w.n.Parent; p != nil && p.Type == html.ElementNode {
		return Wrap(p)
	}
	return nil
}

// Attached reports whether the node hangs off a document node. Nodes from
// html.ParseFragment are not attached until appended to one.
func (w node) Attached() bool {
	n := w.n
	for n.Parent != nil {
		n = n.Parent
	}
	return n.Type == html.DocumentNode
}

func (w node) String() string {
	return "<" + w.Tag() + ">"
}

func lastDescendant(n *html.Node) *html.Node {
	for {
		c := lastElementChild(n)
		if c == nil {
			return n
		}
		n = c
	}
}

func lastElementChild(n *html.Node) *html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Elements calls fn for every element under root in document order.
func Elements(root *html.Node, fn func(*html.Node)) {
	if root == nil {
		return
	}
	if root.Type == html.ElementNode {
		fn(root)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Elements(c, fn)
	}
}

// TextContent returns the concatenated, trimmed text under n.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
