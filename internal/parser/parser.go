package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnsupportedFormat is returned for inputs no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Parser converts raw document bytes into an HTML document tree.
type Parser interface {
	Parse(r io.Reader) (*html.Node, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".md":       true,
	".markdown": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// ForFormat returns the parser for a format name such as "html" or "md".
// An empty name means HTML.
func ForFormat(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "html", "htm":
		return &HTMLParser{}, nil
	case "md", "markdown":
		return &MarkdownParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
