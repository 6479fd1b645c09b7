package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/pack"
)

var listCmd = &cobra.Command{
	Use:   "list [pack]",
	Short: "List packs, or the levels of one pack",
	Long: `Without arguments, shows every level pack found in the pack
directory. With a pack name, shows that pack's level titles.

Examples:
  tworld list
  tworld list intro
  tworld list ./packs/intro.pak`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if len(args) == 1 {
		p, _, _, err := findPack(cfg, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		listLevels(p)
		return
	}

	packs, err := loadPacks(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Available packs:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Pack" header
	for _, p := range packs {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Pack", "Levels")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "------")

	for _, p := range packs {
		fmt.Printf("  %-*s  %d\n", maxNameLen, p.Name, p.LevelCount)
	}

	fmt.Println()
	fmt.Println("Run 'tworld list <pack>' to see its levels.")
}

func listLevels(p *pack.Pack) {
	fmt.Printf("Levels in %s:\n", p.Name)
	fmt.Println()

	for n := 1; n <= p.LevelCount; n++ {
		title, err := p.Title(n)
		if err != nil {
			title = "(unreadable)"
		}
		marker := " "
		if p.IsSecret(n) {
			marker = "*"
		}
		fmt.Printf("  %3d %s %s\n", n, marker, title)
	}

	if p.FirstSecret < p.LevelCount {
		fmt.Println()
		fmt.Println("  * secret level")
	}
}
