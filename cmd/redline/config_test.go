package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caldew/redline"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing default file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		restore := chdir(t, dir)
		defer restore()

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.AuthorTag != redline.DefaultAuthorTag {
			t.Errorf("expected default author tag, got %q", cfg.AuthorTag)
		}
		if cfg.Fallback {
			t.Error("expected fallback disabled by default")
		}
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing explicit config")
		}
	})

	t.Run("fields are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "redline.yaml")
		content := `author_tag: Legal Team
fallback: true
engine:
  bin_dir: /srv/engine
  layer_dir: /opt/binaries
watch:
  inbox: in
  outbox: out
  changes: changes.json
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.AuthorTag != "Legal Team" {
			t.Errorf("author tag = %q", cfg.AuthorTag)
		}
		if !cfg.Fallback {
			t.Error("expected fallback enabled")
		}
		if cfg.Engine.BinDir != "/srv/engine" || cfg.Engine.LayerDir != "/opt/binaries" {
			t.Errorf("engine config = %+v", cfg.Engine)
		}
		if cfg.Watch.Inbox != "in" || cfg.Watch.Outbox != "out" || cfg.Watch.Changes != "changes.json" {
			t.Errorf("watch config = %+v", cfg.Watch)
		}
	})

	t.Run("empty author tag falls back to default", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "redline.yaml")
		if err := os.WriteFile(path, []byte("fallback: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.AuthorTag != redline.DefaultAuthorTag {
			t.Errorf("expected default author tag, got %q", cfg.AuthorTag)
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "redline.yaml")
		if err := os.WriteFile(path, []byte("author_tag: [\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	return func() {
		_ = os.Chdir(old)
	}
}
