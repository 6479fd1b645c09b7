package pack

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/vovakirdan/tileworld/internal/tworld"
)

// testLevels builds three small levels covering the optional metadata:
// level 2 has a hint and link tables, the others have neither.
func testLevels() []*tworld.Level {
	levels := make([]*tworld.Level, 3)
	for i := range levels {
		lvl := &tworld.Level{
			Number:        i + 1,
			TimeLimit:     uint16(100 * (i + 1)),
			RequiredChips: uint16(i),
			Title:         fmt.Sprintf("Level %d", i+1),
			Password:      fmt.Sprintf("PW%02d", i+1),
		}
		for j := range lvl.BottomLayer {
			lvl.BottomLayer[j] = tworld.TileFloor
		}
		lvl.BottomLayer[i] = tworld.TileWall
		lvl.TopLayer[5*tworld.GridWidth+5] = tworld.MakeActor(tworld.EntityChip, tworld.North)
		levels[i] = lvl
	}

	levels[1].Hint = "Push the block into the water."
	levels[1].TrapLinks = []tworld.Link{
		{ButtonX: 3, ButtonY: 4, TargetX: 10, TargetY: 11},
		{ButtonX: 0, ButtonY: 0, TargetX: 31, TargetY: 31},
	}
	levels[1].ClonerLinks = []tworld.Link{
		{ButtonX: 7, ButtonY: 2, TargetX: 8, TargetY: 2},
	}
	return levels
}

func writeTestPack(t *testing.T, name string, firstSecret int, levels []*tworld.Level) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, name, firstSecret, levels); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	return buf.Bytes()
}

func TestWriteParseRoundTrip(t *testing.T) {
	levels := testLevels()
	data := writeTestPack(t, "intro", 2, levels)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if p.Name != "intro" {
		t.Errorf("Name = %q, want %q", p.Name, "intro")
	}
	if p.LevelCount != 3 {
		t.Errorf("LevelCount = %d, want 3", p.LevelCount)
	}
	if p.FirstSecret != 2 {
		t.Errorf("FirstSecret = %d, want 2", p.FirstSecret)
	}

	for i, want := range levels {
		got, err := p.Level(i + 1)
		if err != nil {
			t.Fatalf("Level(%d) failed: %v", i+1, err)
		}
		if got.TimeLimit != want.TimeLimit {
			t.Errorf("level %d: TimeLimit = %d, want %d", i+1, got.TimeLimit, want.TimeLimit)
		}
		if got.RequiredChips != want.RequiredChips {
			t.Errorf("level %d: RequiredChips = %d, want %d", i+1, got.RequiredChips, want.RequiredChips)
		}
		if got.Title != want.Title || got.Password != want.Password || got.Hint != want.Hint {
			t.Errorf("level %d: metadata = (%q, %q, %q), want (%q, %q, %q)", i+1,
				got.Title, got.Password, got.Hint, want.Title, want.Password, want.Hint)
		}
		if got.BottomLayer != want.BottomLayer {
			t.Errorf("level %d: bottom layer did not survive the round trip", i+1)
		}
		if got.TopLayer != want.TopLayer {
			t.Errorf("level %d: top layer did not survive the round trip", i+1)
		}
		if len(got.TrapLinks) != len(want.TrapLinks) || len(got.ClonerLinks) != len(want.ClonerLinks) {
			t.Fatalf("level %d: got %d trap and %d cloner links, want %d and %d", i+1,
				len(got.TrapLinks), len(got.ClonerLinks), len(want.TrapLinks), len(want.ClonerLinks))
		}
		for j, link := range want.TrapLinks {
			if got.TrapLinks[j] != link {
				t.Errorf("level %d: trap link %d = %+v, want %+v", i+1, j, got.TrapLinks[j], link)
			}
		}
		for j, link := range want.ClonerLinks {
			if got.ClonerLinks[j] != link {
				t.Errorf("level %d: cloner link %d = %+v, want %+v", i+1, j, got.ClonerLinks[j], link)
			}
		}
	}
}

func TestMetadataAccessors(t *testing.T) {
	p, err := Parse(writeTestPack(t, "intro", 2, testLevels()))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	pw, err := p.Password(2)
	if err != nil {
		t.Fatalf("Password(2) failed: %v", err)
	}
	if pw != "PW02" {
		t.Errorf("Password(2) = %q, want %q", pw, "PW02")
	}
	title, err := p.Title(3)
	if err != nil {
		t.Fatalf("Title(3) failed: %v", err)
	}
	if title != "Level 3" {
		t.Errorf("Title(3) = %q, want %q", title, "Level 3")
	}
	if _, err := p.Password(4); err == nil {
		t.Error("Password(4) succeeded for a level that does not exist")
	}
}

func TestIsSecret(t *testing.T) {
	p, err := Parse(writeTestPack(t, "intro", 2, testLevels()))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	for number, want := range map[int]bool{1: false, 2: false, 3: true} {
		if got := p.IsSecret(number); got != want {
			t.Errorf("IsSecret(%d) = %v, want %v", number, got, want)
		}
	}
}

func TestLevelWithoutHint(t *testing.T) {
	p, err := Parse(writeTestPack(t, "intro", 3, testLevels()))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	lvl, err := p.Level(1)
	if err != nil {
		t.Fatalf("Level(1) failed: %v", err)
	}
	if lvl.Hint != "" {
		t.Errorf("Hint = %q, want empty", lvl.Hint)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte{'T'}); err == nil {
		t.Error("Parse() accepted a truncated header")
	}
	if _, err := Parse([]byte{'X', 'Y', 1, 0}); err == nil {
		t.Error("Parse() accepted a bad signature")
	}
	// header claims a level but the index and name are missing
	if _, err := Parse([]byte{'T', 'W', 1, 0}); err == nil {
		t.Error("Parse() accepted a truncated index")
	}
}

func TestWriteValidation(t *testing.T) {
	levels := testLevels()

	if err := Write(&bytes.Buffer{}, "x", 0, nil); err == nil {
		t.Error("Write() accepted an empty pack")
	}
	if err := Write(&bytes.Buffer{}, "x", 4, levels); err == nil {
		t.Error("Write() accepted a first secret level past the end")
	}

	levels[0].Password = "TOOLONG"
	if err := Write(&bytes.Buffer{}, "x", 3, levels); err == nil {
		t.Error("Write() accepted a password that is not four characters")
	}
}

func TestPackNameTruncated(t *testing.T) {
	levels := testLevels()
	p, err := Parse(writeTestPack(t, "a very long pack name", 3, levels))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(p.Name) != NameLen-1 {
		t.Errorf("Name = %q (%d chars), want %d", p.Name, len(p.Name), NameLen-1)
	}
}
