package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/hnlevel/internal/headings"
	"github.com/dgallion1/hnlevel/internal/outline"
	"github.com/dgallion1/hnlevel/internal/parser"
	"golang.org/x/net/html"
)

// handleLevels returns every heading of the posted document with its level.
func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	hs := headings.Annotate(doc, outline.New(s.cfg.Roles))
	if hs == nil {
		hs = []headings.Heading{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"headings": hs})
}

// handleRewrite returns the posted document with self-leveling headings
// replaced by native ones.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.parseBody(w, r)
	if !ok {
		return
	}

	n := headings.Rewrite(doc, outline.New(s.cfg.Roles))
	var buf bytes.Buffer
	if err := headings.Render(&buf, doc); err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "failed to render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Headings-Rewritten", strconv.Itoa(n))
	w.Write(buf.Bytes())
}

// parseBody parses the request body in the format named by ?format=.
// On failure it writes the error response and returns false.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*html.Node, bool) {
	p, err := parser.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	doc, err := p.Parse(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "document exceeds max size ("+strconv.FormatInt(tooLarge.Limit, 10)+" bytes)", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "invalid document: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return doc, true
}
