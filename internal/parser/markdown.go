package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// MarkdownParser renders Markdown with goldmark and parses the result.
// Raw HTML passes through, so <section> and <h-n> blocks written inline
// take part in leveling.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader) (*html.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	return doc, nil
}
