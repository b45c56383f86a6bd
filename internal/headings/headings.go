// Package headings lists the headings of an HTML document with their
// resolved levels and renders self-leveling headings as native ones.
package headings

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dgallion1/hnlevel/internal/htmltree"
	"github.com/dgallion1/hnlevel/internal/outline"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	MinLevel = 1
	MaxLevel = 6
)

// Heading is one heading element and its resolved position.
type Heading struct {
	Index        int    `json:"index"`
	Tag          string `json:"tag"`
	Text         string `json:"text"`
	Level        int    `json:"level"`
	DisplayLevel int    `json:"display_level"`
	SectionTop   bool   `json:"section_top"`
	Section      string `json:"section,omitempty"`
}

// Clamp bounds level to the ranks HTML can render.
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Annotate resolves every heading under doc in document order. Resolving in
// order means each lookup finds its predecessor already cached.
func Annotate(doc *html.Node, r *outline.Resolver) []Heading {
	roles := r.Roles()
	var out []Heading
	htmltree.Elements(doc, func(n *html.Node) {
		w := htmltree.Wrap(n)
		if !roles.IsHeadingNode(w) {
			return
		}
		m := r.Resolve(w)
		h := Heading{
			Index:        len(out),
			Tag:          w.Tag(),
			Text:         htmltree.TextContent(n),
			Level:        m.Level,
			DisplayLevel: Clamp(m.Level),
			SectionTop:   m.SectionTop,
		}
		if m.Section != nil {
			h.Section = m.Section.Tag()
		}
		out = append(out, h)
	})
	return out
}

// Rewrite renames every self-leveling heading under doc to the native
// heading of its clamped level, keeping attributes and children. Levels are
// resolved before any element is renamed, and the resolver is reset
// afterwards since the tree changed. It returns the number of elements
// rewritten.
func Rewrite(doc *html.Node, r *outline.Resolver) int {
	roles := r.Roles()
	type target struct {
		n     *html.Node
		level int
	}
	var targets []target
	htmltree.Elements(doc, func(n *html.Node) {
		w := htmltree.Wrap(n)
		if roles.IsLeveledHeading(w) {
			targets = append(targets, target{n: n, level: Clamp(r.Level(w))})
		}
	})
	for _, t := range targets {
		t.n.Data = "h" + strconv.Itoa(t.level)
		t.n.DataAtom = atom.Lookup([]byte(t.n.Data))
	}
	if len(targets) > 0 {
		r.Reset()
	}
	return len(targets)
}

// Render writes doc as HTML.
func Render(w io.Writer, doc *html.Node) error {
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
