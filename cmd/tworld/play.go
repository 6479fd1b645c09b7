package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/platform/tui"
	"github.com/vovakirdan/tileworld/internal/storage"
)

var flagUnlocked bool

var playCmd = &cobra.Command{
	Use:   "play <pack> [level]",
	Short: "Play a level directly",
	Long: `Start playing a level of the given pack. The pack is a name from
the pack directory or a path to a .pak file. The level defaults to 1.

Locked levels are refused unless --unlocked is given.

Controls:
  Arrows/WASD  - Move
  R            - Restart level
  Enter        - Next level (after completing)
  B/Esc        - Back to shell
  Q/Ctrl+C     - Quit

Examples:
  tworld play intro
  tworld play intro 5
  tworld play ./packs/intro.pak 5 --unlocked`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagUnlocked, "unlocked", false, "Allow playing locked levels")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	p, _, _, err := findPack(cfg, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	number := 1
	if len(args) == 2 {
		number, err = strconv.Atoi(args[1])
		if err != nil || number < 1 || number > p.LevelCount {
			fmt.Fprintf(os.Stderr, "Error: %s has no level %q\n", p.Name, args[1])
			os.Exit(1)
		}
	}

	store := openStore(cfg)
	defer closeStore(store)

	if !flagUnlocked && !levelPlayable(p, store, number) {
		fmt.Fprintf(os.Stderr, "Error: level %d of %s is locked\n", number, p.Name)
		fmt.Fprintln(os.Stderr, "Complete the levels before it, or pass --unlocked.")
		os.Exit(1)
	}

	// Play levels until the player backs out or runs out of pack
	for {
		model, runErr := tui.RunGame(p, number, store, cfg.Display.ShowHints)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			os.Exit(1)
		}
		if model.WantsNextLevel() && number+1 <= p.LevelCount {
			next := number + 1
			if !flagUnlocked && !levelPlayable(p, store, next) {
				break
			}
			number = next
			continue
		}
		break
	}
}

// levelPlayable checks the sequential-unlock rule for one level. Without
// a database there is nothing to track progress against, so everything
// is playable.
func levelPlayable(p *pack.Pack, store *storage.Store, number int) bool {
	if store == nil {
		return true
	}
	pr, err := store.Progress(p.Name, p.LevelCount, p.FirstSecret)
	if err != nil {
		return true
	}
	playable := p.Playable(pr)
	return playable[number-1]
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}
