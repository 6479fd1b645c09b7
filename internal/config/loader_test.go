package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tworld.yaml")
	data := `
packs:
  dir: /srv/packs
database:
  path: /srv/times.db
ssh:
  host: 0.0.0.0
  port: 2323
display:
  show_hints: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Packs.Dir != "/srv/packs" {
		t.Errorf("Packs.Dir = %q, want /srv/packs", cfg.Packs.Dir)
	}
	if cfg.Database.Path != "/srv/times.db" {
		t.Errorf("Database.Path = %q, want /srv/times.db", cfg.Database.Path)
	}
	if cfg.SSH.Host != "0.0.0.0" || cfg.SSH.Port != 2323 {
		t.Errorf("SSH = %s:%d, want 0.0.0.0:2323", cfg.SSH.Host, cfg.SSH.Port)
	}
	if !cfg.Display.ShowHints {
		t.Error("Display.ShowHints = false, want true")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("packs: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Packs.Dir == "" {
		t.Error("default Packs.Dir is empty")
	}
	if cfg.Database.Path == "" {
		t.Error("default Database.Path is empty")
	}
	if cfg.SSH.Port == 0 {
		t.Error("default SSH.Port is unset")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got := ExpandPath("~/packs")
	if got != filepath.Join(home, "packs") {
		t.Errorf("ExpandPath(~/packs) = %q, want %q", got, filepath.Join(home, "packs"))
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q, want it unchanged", got)
	}
	if got := ExpandPath("relative"); strings.HasPrefix(got, home) {
		t.Errorf("ExpandPath(relative) = %q, expanded a path without ~", got)
	}
}
