package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/hnlevel/internal/outline"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "HNLEVEL_API_KEY", "WORKER_COUNT", "MAX_QUEUE_SIZE", "MAX_UPLOAD_BYTES", "JOB_TTL", "HNLEVEL_VOCABULARY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool defaults: %d workers, %d queue", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if !cfg.Roles.IsHeadingNode(tag("h-n")) {
		t.Error("expected default vocabulary")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing API key to fail validation")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("MAX_QUEUE_SIZE", "lots")
	t.Setenv("JOB_TTL", "soon")
	t.Setenv("HNLEVEL_VOCABULARY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 || cfg.JobTTL != time.Hour {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HNLEVEL_VOCABULARY", "")
	// godotenv never overrides variables that are already set, even empty.
	for _, k := range []string{"PORT", "HNLEVEL_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nHNLEVEL_API_KEY=secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected port from .env, got %q", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_VocabularyFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "vocab.yaml")
	if err := os.WriteFile(path, []byte("sectioning: [chapter]\nleveled: [x-h]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HNLEVEL_VOCABULARY", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Roles.IsSectioningContent(tag("chapter")) || !cfg.Roles.IsLeveledHeading(tag("x-h")) {
		t.Errorf("expected vocabulary to be applied, got %v", cfg.Roles)
	}

	t.Setenv("HNLEVEL_VOCABULARY", filepath.Join(dir, "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing vocabulary file")
	}
}

func TestParseVocabulary(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		tag  string
		want outline.Role
	}{
		{"empty keeps defaults", "", "section", outline.RoleSectioning},
		{"extends", "headings: [Title]", "title", outline.RoleHeading},
		{"removes", "none: [nav]", "nav", outline.RoleNone},
		{"no inherit", "inherit: false\nsectioning: [part]", "section", outline.RoleNone},
		{"no inherit keeps listed", "inherit: false\nsectioning: [part]", "part", outline.RoleSectioning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles, err := ParseVocabulary([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := roles.Of(tag(tt.tag)); got != tt.want {
				t.Errorf("%s: expected %v, got %v", tt.tag, tt.want, got)
			}
		})
	}
}

func TestParseVocabulary_UnknownKey(t *testing.T) {
	if _, err := ParseVocabulary([]byte("boundaries: [chapter]")); err == nil {
		t.Error("expected unknown key to be rejected")
	}
}

func TestParseVocabulary_DuplicateTag(t *testing.T) {
	_, err := ParseVocabulary([]byte("sectioning: [chapter]\nnone: [Chapter]"))
	if err == nil {
		t.Fatal("expected tag listed under two keys to be rejected")
	}
	if !strings.Contains(err.Error(), `"chapter" listed under both sectioning and none`) {
		t.Errorf("unexpected error %q", err.Error())
	}

	if _, err := ParseVocabulary([]byte("headings: [title, title]")); err != nil {
		t.Errorf("expected repeat under one key to be accepted, got %v", err)
	}
}

type tag string

func (t tag) Tag() string          { return string(t) }
func (t tag) Parent() outline.Node { return nil }
func (t tag) Prev() outline.Node   { return nil }
func (t tag) Attached() bool       { return false }
