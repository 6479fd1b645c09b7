package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2223").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tworld/ssh_host_key.
	HostKeyPath string

	// DBPath is the path to the best times database.
	DBPath string

	// PacksDir is the directory holding the level packs.
	PacksDir string

	// ShowHints displays hint text when standing on a hint tile.
	ShowHints bool

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":2223",
		DBPath:      "~/.tworld/times.db",
		PacksDir:    "packs",
		ShowHints:   true,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving the game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	packs  []*pack.Pack
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tworld-ssh",
	})

	packs, err := pack.LoadDir(cfg.PacksDir)
	if err != nil {
		return nil, fmt.Errorf("cannot load level packs: %w", err)
	}
	logger.Info("loaded level packs", "dir", cfg.PacksDir, "count", len(packs))

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open times database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		packs:  packs,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tworld", "ssh_host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.packs, s.store, s.config.ShowHints,
		pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen selects which screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenTimes
)

// SessionModel manages the full session flow: menu -> game -> menu, with
// the best times screen reachable from the menu. This is the top-level
// model used for SSH sessions.
type SessionModel struct {
	packs     []*pack.Pack
	store     *storage.Store
	showHints bool
	width     int
	height    int

	screen    sessionScreen
	menu      MenuModel
	gameModel *GameModel
	times     *TimesModel
	gamePack  int
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(packs []*pack.Pack, store *storage.Store, showHints bool, width, height int) SessionModel {
	return SessionModel{
		packs:     packs,
		store:     store,
		showHints: showHints,
		width:     width,
		height:    height,
		menu:      NewMenuModel(packs, store, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenTimes:
		return m.updateTimes(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsTimes() {
		times := NewTimesModel(m.packs, m.store, m.width, m.height)
		m.times = &times
		m.screen = screenTimes
		return m, m.times.Init()
	}

	if packIndex, level, ok := m.menu.Selected(); ok {
		return m.startLevel(packIndex, level)
	}

	return m, cmd
}

// startLevel opens the game screen for a level.
func (m SessionModel) startLevel(packIndex, level int) (tea.Model, tea.Cmd) {
	gameModel, err := NewGameModel(m.packs[packIndex], level, m.store, m.showHints)
	if err != nil {
		// Broken level record: stay in the menu
		m.menu = NewMenuModel(m.packs, m.store, m.width, m.height)
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	m.gameModel = &gameModel
	m.gamePack = packIndex
	m.screen = screenGame
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.WantsNextLevel() {
		next := m.gameModel.LevelNumber() + 1
		if next <= m.packs[m.gamePack].LevelCount {
			return m.startLevel(m.gamePack, next)
		}
		return m.backToMenu()
	}

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// backToMenu returns to a freshly loaded menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.gameModel = nil
	m.times = nil
	m.menu = NewMenuModel(m.packs, m.store, m.width, m.height)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// updateTimes handles updates when showing the best times.
func (m SessionModel) updateTimes(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.times.Update(msg)
	if timesModel, ok := newModel.(TimesModel); ok {
		m.times = &timesModel
	}

	if m.times.IsGoingBack() {
		return m.backToMenu()
	}

	if m.times.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenTimes:
		if m.times != nil {
			return m.times.View()
		}
	}
	return m.menu.View()
}
