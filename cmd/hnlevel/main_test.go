package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_TableFromStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader(`<h-n>Guide</h-n><section><h-n>Install</h-n></section>`)

	if err := run([]string{"hnlevel"}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"LEVEL", "Guide", "  Install", "section"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_JSONMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", `<h-n>A</h-n><article><h-n>B</h-n></article>`)
	b := writeFile(t, dir, "b.md", "# One\n\n## Two\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"hnlevel", "--json", a, b}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var results []fileResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout.String())
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].File != a || len(results[0].Headings) != 2 || results[0].Headings[1].Level != 2 {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[1].Headings[1].Tag != "h2" || results[1].Headings[1].Level != 2 {
		t.Errorf("unexpected second result %+v", results[1])
	}
}

func TestRun_Rewrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.htm", `<h-n>A</h-n><nav><h-n>B</h-n></nav>`)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"hnlevel", "-r", path}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "<nav><h2>B</h2></nav>") {
		t.Errorf("unexpected output %s", stdout.String())
	}
}

func TestRun_Vocabulary(t *testing.T) {
	dir := t.TempDir()
	vocab := writeFile(t, dir, "vocab.yaml", "sectioning: [x-part]\n")
	doc := writeFile(t, dir, "doc.html", `<h-n>A</h-n><x-part><h-n>B</h-n></x-part>`)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"hnlevel", "--json", "--vocabulary", vocab, doc}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var results []fileResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h := results[0].Headings[1]; !h.SectionTop || h.Section != "x-part" {
		t.Errorf("expected custom sectioning element to open a section, got %+v", h)
	}
}

func TestRun_RoleFlag(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.html", `<h-n>A</h-n><x-part><h-n>B</h-n></x-part><article><h-n>C</h-n></article>`)

	var stdout, stderr bytes.Buffer
	args := []string{"hnlevel", "--json", "--role", "x-part=sectioning", "--role", "article=none", doc}
	if err := run(args, nil, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var results []fileResult
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	hs := results[0].Headings
	if len(hs) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(hs))
	}
	if hs[1].Level != 2 || !hs[1].SectionTop || hs[1].Section != "x-part" {
		t.Errorf("expected x-part to open a section, got %+v", hs[1])
	}
	// article no longer opens a section, so C continues the root section.
	if hs[2].Level != 2 || hs[2].SectionTop || hs[2].Section != "" {
		t.Errorf("expected article to be ignored, got %+v", hs[2])
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "data.csv", "a,b")

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported extension", []string{"hnlevel", csv}},
		{"missing file", []string{"hnlevel", filepath.Join(dir, "missing.html")}},
		{"bad format", []string{"hnlevel", "--format", "pdf"}},
		{"conflicting flags", []string{"hnlevel", "--json", "--rewrite"}},
		{"unknown flag", []string{"hnlevel", "--bogus"}},
		{"unknown role", []string{"hnlevel", "--role", "x-part=chapter"}},
		{"role without tag", []string{"hnlevel", "--role", "sectioning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, strings.NewReader(""), &stdout, &stderr); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"hnlevel", "--help"}, nil, &stdout, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage: hnlevel") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
}
