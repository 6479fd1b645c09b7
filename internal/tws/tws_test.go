package tws

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tileworld/internal/tworld"
)

// testFile builds a solution file with three records: a padding record,
// level 1 with two type 1 moves, and level 3 with no moves at all.
func testFile() []byte {
	data := []byte{
		0x35, 0x33, 0x9b, 0x99, // signature
		0x01,             // Lynx ruleset
		0x00, 0x00, 0x00, // header padding
	}

	// padding record
	data = append(data, 0x00, 0x00, 0x00, 0x00)

	// level 1: east at tick 0, north at tick 4
	data = append(data,
		0x12, 0x00, 0x00, 0x00, // record length
		0x01, 0x00, // level number
		0x00, 0x00, 0x00, 0x00, 0x00, // password and flags, unused here
		0x10,                   // stepping 2, slide dir north
		0xef, 0xbe, 0xad, 0xde, // seed
		0x0a, 0x00, 0x00, 0x00, // total time
		0x0d, // east, stored delta 1
		0x61, // north, delta 4
	)

	// level 3: completed with no input
	data = append(data,
		0x10, 0x00, 0x00, 0x00,
		0x03, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	)

	return data
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte{0x35, 0x33}); err == nil {
		t.Error("Parse() accepted a truncated header")
	}
	if _, err := Parse([]byte{1, 2, 3, 4, 1, 0, 0, 0}); err == nil {
		t.Error("Parse() accepted a bad signature")
	}
	bad := testFile()
	bad[4] = 2 // MS ruleset
	if _, err := Parse(bad); err == nil {
		t.Error("Parse() accepted a non-Lynx ruleset")
	}
}

func TestSolutionFields(t *testing.T) {
	f, err := Parse(testFile())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sol, err := f.Solution(1)
	if err != nil {
		t.Fatalf("Solution(1) failed: %v", err)
	}

	if sol.TotalTime != 10 {
		t.Errorf("TotalTime = %d, want 10", sol.TotalTime)
	}
	if sol.Stepping != 2 {
		t.Errorf("Stepping = %d, want 2", sol.Stepping)
	}
	if sol.InitialSlideDir != tworld.North {
		t.Errorf("InitialSlideDir = %v, want North", sol.InitialSlideDir)
	}
	if sol.Seed != 0xdeadbeef {
		t.Errorf("Seed = %#x, want 0xdeadbeef", sol.Seed)
	}

	want := []Move{
		{Delta: 0, Direction: tworld.MaskEast},
		{Delta: 4, Direction: tworld.MaskNorth},
	}
	if len(sol.Moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(sol.Moves), len(want))
	}
	for i, m := range want {
		if sol.Moves[i] != m {
			t.Errorf("move %d = %+v, want %+v", i, sol.Moves[i], m)
		}
	}
}

func TestIterator(t *testing.T) {
	f, err := Parse(testFile())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sol, err := f.Solution(1)
	if err != nil {
		t.Fatalf("Solution(1) failed: %v", err)
	}

	it := sol.Inputs()
	want := []tworld.DirMask{tworld.MaskEast, 0, 0, 0, tworld.MaskNorth}
	for tick, wantMask := range want {
		mask, ok := it.Next()
		if !ok {
			t.Fatalf("iterator ended at tick %d", tick)
		}
		if mask != wantMask {
			t.Errorf("tick %d: mask = %v, want %v", tick, mask, wantMask)
		}
	}
	if mask, ok := it.Next(); ok {
		t.Errorf("iterator yielded %v after the last move", mask)
	}
}

func TestSolutionMissing(t *testing.T) {
	f, err := Parse(testFile())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if _, err := f.Solution(2); !errors.Is(err, ErrNoSolution) {
		t.Errorf("Solution(2) error = %v, want ErrNoSolution", err)
	}
}

func TestSolutionNoMoves(t *testing.T) {
	f, err := Parse(testFile())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sol, err := f.Solution(3)
	if err != nil {
		t.Fatalf("Solution(3) failed: %v", err)
	}
	if len(sol.Moves) != 0 {
		t.Errorf("got %d moves, want none", len(sol.Moves))
	}
	if mask, ok := sol.Inputs().Next(); ok {
		t.Errorf("empty solution yielded mask %v", mask)
	}
}

// Type 3 records pack three four-tick moves into one byte.
func TestSolutionPackedMoves(t *testing.T) {
	data := []byte{
		0x35, 0x33, 0x9b, 0x99,
		0x01,
		0x00, 0x00, 0x00,

		0x11, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00,
		0x00,
		0x00, 0x00, 0x00, 0x00,
		0x0c, 0x00, 0x00, 0x00,
		0xe4, // west, south, east
	}
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	sol, err := f.Solution(1)
	if err != nil {
		t.Fatalf("Solution(1) failed: %v", err)
	}

	want := []Move{
		{Delta: 3, Direction: tworld.MaskWest},
		{Delta: 4, Direction: tworld.MaskSouth},
		{Delta: 4, Direction: tworld.MaskEast},
	}
	if len(sol.Moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(sol.Moves), len(want))
	}
	for i, m := range want {
		if sol.Moves[i] != m {
			t.Errorf("move %d = %+v, want %+v", i, sol.Moves[i], m)
		}
	}
}
