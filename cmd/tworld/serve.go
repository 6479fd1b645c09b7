package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileworld/internal/config"
	"github.com/vovakirdan/tileworld/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tile World SSH server",
	Long: `Start an SSH server that lets users connect and play over SSH.

Each connection gets its own session with the pack and level menu.
Best times are stored per-server, so all users share one progress
and unlock state.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise the path from the config is used, with a key generated
    on first start

Examples:
  tworld serve                          # Listen on the configured address
  tworld serve --ssh :2222              # Listen on port 2222
  tworld serve --host-key ./host_key    # Use specific host key
  tworld serve --db ./times.db          # Use specific database

Users can connect with:
  ssh localhost -p 2223`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	addr := fmt.Sprintf("%s:%d", cfg.SSH.Host, cfg.SSH.Port)
	if flagSSHAddr != "" {
		addr = flagSSHAddr
	}
	hostKey := config.ExpandPath(cfg.SSH.HostKeyPath)
	if flagHostKey != "" {
		hostKey = flagHostKey
	}

	srvCfg := tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: hostKey,
		DBPath:      config.ExpandPath(cfg.Database.Path),
		PacksDir:    config.ExpandPath(cfg.Packs.Dir),
		ShowHints:   cfg.Display.ShowHints,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Tile World SSH server on %s\n", srvCfg.Address)
	fmt.Println("Connect with: ssh localhost -p 2223")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
