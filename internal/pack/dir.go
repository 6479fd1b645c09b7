package pack

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadDir loads every *.pak file in a directory. Packs are ordered by
// filename, which is also the order the unlock rules chain them in.
func LoadDir(dir string) ([]*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}

	var packs []*Pack
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".pak" {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("pack: %s: %w", e.Name(), err)
		}
		packs = append(packs, p)
	}
	return packs, nil
}
