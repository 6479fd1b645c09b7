package pack

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	levels := testLevels()

	// written out of order to check the filename ordering
	for _, name := range []string{"20-caves.pak", "10-intro.pak"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := Write(f, name[3:len(name)-4], 3, levels); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
		f.Close()
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	packs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	if len(packs) != 2 {
		t.Fatalf("got %d packs, want 2", len(packs))
	}
	if packs[0].Name != "intro" || packs[1].Name != "caves" {
		t.Errorf("pack order = %q, %q, want intro, caves", packs[0].Name, packs[1].Name)
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("LoadDir() succeeded on a missing directory")
	}
}
