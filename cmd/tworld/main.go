// tworld is a terminal port of the Tile World puzzle game (Lynx ruleset).
//
// Usage:
//
//	tworld menu              - Interactive pack and level picker
//	tworld list [pack]       - List packs, or the levels of one pack
//	tworld play <pack> [n]   - Play a level directly
//	tworld times [pack]      - Show best times for a pack
//	tworld verify <pak> <tws> - Replay recorded solutions against the engine
//	tworld serve             - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.tworld/tworld.yaml)
//	--packs <dir>    - Level pack directory (overrides config)
//	--db <path>      - Best-times database path (overrides config)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/config"
	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPacksDir string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tworld",
	Short: "Tile World - Chip's Challenge style puzzles in your terminal",
	Long: `Tile World is a terminal implementation of the classic tile puzzle
game, using the Lynx ruleset. Guide Chip through each level, collect
the computer chips, and reach the exit before time runs out.

Available commands:
  menu     - Interactive pack and level picker
  list     - Show available packs and levels
  play     - Play a specific level directly
  times    - View best times
  verify   - Replay recorded solutions against the engine
  serve    - Start SSH server for remote play

Examples:
  tworld menu
  tworld play intro 3
  tworld verify packs/intro.pak solutions/intro.tws
  tworld serve --ssh :2223`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagPacksDir, "packs", "", "Level pack directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to best-times database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the effective configuration: config file first,
// then command-line overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if flagPacksDir != "" {
		cfg.Packs.Dir = flagPacksDir
	}
	if flagDBPath != "" {
		cfg.Database.Path = flagDBPath
	}
	return cfg
}

// openStore opens the best-times database, or returns nil with a warning
// so gameplay still works without persistence.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(config.ExpandPath(cfg.Database.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open times database: %v\n", err)
		return nil
	}
	return store
}

// loadPacks loads every pack in the configured directory.
func loadPacks(cfg config.Config) ([]*pack.Pack, error) {
	packs, err := pack.LoadDir(config.ExpandPath(cfg.Packs.Dir))
	if err != nil {
		return nil, err
	}
	if len(packs) == 0 {
		return nil, fmt.Errorf("no level packs found in %s", cfg.Packs.Dir)
	}
	return packs, nil
}

// findPack resolves a pack argument: a path to a .pak file, or a pack
// name matched case-insensitively against the configured pack directory.
// The returned index is -1 for direct file paths.
func findPack(cfg config.Config, arg string) (*pack.Pack, []*pack.Pack, int, error) {
	if strings.HasSuffix(arg, ".pak") {
		p, err := pack.Load(arg)
		if err != nil {
			return nil, nil, 0, err
		}
		return p, []*pack.Pack{p}, -1, nil
	}
	packs, err := loadPacks(cfg)
	if err != nil {
		return nil, nil, 0, err
	}
	for i, p := range packs {
		if strings.EqualFold(p.Name, arg) {
			return p, packs, i, nil
		}
	}
	return nil, nil, 0, fmt.Errorf("unknown pack %q", arg)
}
