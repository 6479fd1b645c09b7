package pack

import "testing"

func TestNextPackUnlocked(t *testing.T) {
	tests := []struct {
		completed, total int
		want             bool
	}{
		{0, 0, true},
		{0, 1, false},
		{1, 1, true},
		{2, 3, true},
		{99, 149, false},
		{100, 149, true},
		{149, 149, true},
	}
	for _, tt := range tests {
		if got := NextPackUnlocked(tt.completed, tt.total); got != tt.want {
			t.Errorf("NextPackUnlocked(%d, %d) = %v, want %v",
				tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestUnlockedChain(t *testing.T) {
	progress := []Progress{
		{Completed: []bool{true, true, false}}, // 2 of 3, unlocks the next
		{Completed: []bool{true, false, false}},
		{Completed: []bool{}},
	}
	got := Unlocked(progress)
	want := []bool{true, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pack %d: unlocked = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlayableSequential(t *testing.T) {
	p := &Pack{LevelCount: 5, FirstSecret: 4}

	got := p.Playable(Progress{Completed: []bool{true, true, false, false, false}})
	want := []bool{true, true, true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: playable = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestPlayableSecretGate(t *testing.T) {
	p := &Pack{LevelCount: 5, FirstSecret: 4}
	all := []bool{true, true, true, true, false}

	got := p.Playable(Progress{Completed: all})
	if got[4] {
		t.Error("secret level playable without the secret flag")
	}
	got = p.Playable(Progress{Completed: all, SecretUnlocked: true})
	if !got[4] {
		t.Error("secret level locked despite the secret flag")
	}
}

// With no recorded progress all regular levels stay reachable. A missing
// store must not lock the player out of the pack.
func TestPlayableNoProgress(t *testing.T) {
	p := &Pack{LevelCount: 5, FirstSecret: 4}
	got := p.Playable(Progress{})
	want := []bool{true, true, true, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: playable = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestFindByPassword(t *testing.T) {
	a, err := Parse(writeTestPack(t, "first", 3, testLevels()))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	b, err := Parse(writeTestPack(t, "second", 3, testLevels()))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	packs := []*Pack{a, b}

	// the same password exists in both packs; the first unlocked match wins
	pi, level, ok := FindByPassword(packs, []bool{true, true}, "PW02")
	if !ok || pi != 0 || level != 2 {
		t.Errorf("FindByPassword() = (%d, %d, %v), want (0, 2, true)", pi, level, ok)
	}

	// a locked pack is skipped even with a valid password
	pi, level, ok = FindByPassword(packs, []bool{false, true}, "PW02")
	if !ok || pi != 1 || level != 2 {
		t.Errorf("FindByPassword() = (%d, %d, %v), want (1, 2, true)", pi, level, ok)
	}

	if _, _, ok := FindByPassword(packs, []bool{true, true}, "NOPE"); ok {
		t.Error("FindByPassword() matched a password no level has")
	}
}
