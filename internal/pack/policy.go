package pack

// Unlock and access policy. Pack 0 is always unlocked; each further pack
// unlocks once roughly two thirds of the previous pack's levels are
// completed. Secret levels sit at the end of a pack behind a separate
// flag, set once the player has completed any secret level.

// NextPackUnlocked reports whether completing that many levels of a pack
// unlocks the next one. The threshold is completed/total >= 2/3, compared
// in integers.
func NextPackUnlocked(completed, total int) bool {
	return 3*completed >= 2*total
}

// Progress is a pack's completion state, as persisted by the store.
type Progress struct {
	Completed []bool
	// SecretUnlocked is set once any secret level of the pack was
	// completed.
	SecretUnlocked bool
}

// CompletedCount returns the number of completed levels.
func (pr *Progress) CompletedCount() int {
	n := 0
	for _, done := range pr.Completed {
		if done {
			n++
		}
	}
	return n
}

// Unlocked reports which packs are unlocked, given per-pack progress in
// pack order.
func Unlocked(progress []Progress) []bool {
	unlocked := make([]bool, len(progress))
	for i := range progress {
		if i == 0 {
			unlocked[0] = true
			continue
		}
		prev := &progress[i-1]
		unlocked[i] = NextPackUnlocked(prev.CompletedCount(), len(prev.Completed))
	}
	return unlocked
}

// Playable reports which levels of the pack can be started. Regular
// levels unlock sequentially: every completed level is playable, plus the
// first uncompleted one. Secret levels are playable only with the pack's
// secret flag.
func (p *Pack) Playable(pr Progress) []bool {
	playable := make([]bool, p.LevelCount)

	lastUnlocked := p.FirstSecret - 1
	for i := 0; i < p.FirstSecret && i < len(pr.Completed); i++ {
		if !pr.Completed[i] {
			lastUnlocked = i
			break
		}
	}
	for i := 0; i < p.FirstSecret; i++ {
		playable[i] = i <= lastUnlocked
	}
	for i := p.FirstSecret; i < p.LevelCount; i++ {
		playable[i] = pr.SecretUnlocked
	}
	return playable
}

// FindByPassword scans unlocked packs in order for a level with the given
// password. Locked packs are skipped entirely: their levels are not
// reachable by password, even a valid one. Returns the pack index and the
// one-based level number of the first match.
func FindByPassword(packs []*Pack, unlocked []bool, password string) (packIndex, level int, ok bool) {
	for i, p := range packs {
		if i >= len(unlocked) || !unlocked[i] {
			continue
		}
		for n := 1; n <= p.LevelCount; n++ {
			pw, err := p.Password(n)
			if err != nil {
				continue
			}
			if pw == password {
				return i, n, true
			}
		}
	}
	return 0, 0, false
}
