package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tileworld/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive pack and level picker",
	Long: `Start Tile World in interactive menu mode.

Pick a pack, then a level; after a level ends you return to the menu.
Locked packs and levels are shown but cannot be selected.

Controls:
  Up/Down/j/k  - Navigate
  Enter        - Select
  P            - Enter a level password
  Tab          - Best times
  Esc          - Back
  Q            - Quit

Examples:
  tworld menu
  tworld menu --packs ./packs
  tworld menu --db ./times.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	packs, err := loadPacks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(cfg)
	defer closeStore(store)

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Menu loop
	for {
		result, err := tui.RunMenu(packs, store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		if result.Quit {
			break
		}

		if result.WantsTimes {
			goBack, timesErr := tui.RunTimes(packs, store, width, height)
			if timesErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", timesErr)
			}
			if goBack {
				continue
			}
			break
		}

		// Play the selected level, chaining into the next one on
		// completion, until the player backs out or quits.
		p := packs[result.PackIndex]
		number := result.Level
		quit := false
		for {
			model, runErr := tui.RunGame(p, number, store, cfg.Display.ShowHints)
			if runErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
				break
			}
			if model.IsQuitting() {
				quit = true
				break
			}
			if model.WantsNextLevel() && number+1 <= p.LevelCount &&
				levelPlayable(p, store, number+1) {
				number++
				continue
			}
			break
		}
		if quit {
			break
		}

		// Loop back to menu
	}
}
