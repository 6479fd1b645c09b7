package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/config"
	"github.com/vovakirdan/tileworld/internal/pack"
)

var timesCmd = &cobra.Command{
	Use:   "times [pack]",
	Short: "Show best times for a pack",
	Long: `Display the recorded best times for a pack's levels. Without an
argument the first pack in the pack directory is shown.

Examples:
  tworld times
  tworld times intro`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTimes,
}

func runTimes(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	var p *pack.Pack
	if len(args) == 1 {
		found, _, _, err := findPack(cfg, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		p = found
	} else {
		packs, err := loadPacks(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		p = packs[0]
	}

	printTimes(cfg, p)
}

func printTimes(cfg config.Config, p *pack.Pack) {
	store := openStore(cfg)
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	times, err := store.BestTimes(p.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving times: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best times - %s\n", p.Name)
	fmt.Println()

	if len(times) == 0 {
		fmt.Println("No levels solved yet.")
		fmt.Println()
		fmt.Printf("Play 'tworld play %s' to set the first time!\n", p.Name)
		return
	}

	// Print header
	fmt.Printf("  %-5s  %-24s  %-12s  %s\n", "Level", "Title", "Best", "Date")
	fmt.Printf("  %-5s  %-24s  %-12s  %s\n", "-----", "-----", "----", "----")

	for _, t := range times {
		title, titleErr := p.Title(t.Level)
		if titleErr != nil {
			title = ""
		}
		best := "done"
		if t.SecondsLeft >= 0 {
			best = fmt.Sprintf("%ds left", t.SecondsLeft)
		}
		dateStr := t.CompletedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-5d  %-24s  %-12s  %s\n", t.Level, title, best, dateStr)
	}

	fmt.Println()
	fmt.Printf("Solved %d of %d levels.\n", len(times), p.LevelCount)
}
