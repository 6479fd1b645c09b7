package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tileworld/internal/core"
	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/storage"
	"github.com/vovakirdan/tileworld/internal/tworld"
)

// Screen size used for the game view. The playfield and sidebar fit well
// within a standard 80x24 terminal.
const (
	gameScreenW = 80
	gameScreenH = 24
)

// GameModel is the Bubble Tea model for playing one level.
type GameModel struct {
	pack        *pack.Pack
	levelNumber int
	sim         *tworld.Sim
	screen      *core.Screen
	store       *storage.Store
	keyMapper   *KeyMapper
	showHints   bool

	// pending accumulates movement keys until the next tick
	pending     tworld.DirMask
	resultSaved bool
	advance     bool
	quitting    bool
	backToMenu  bool
}

// NewGameModel creates a model playing the given level of a pack.
func NewGameModel(p *pack.Pack, number int, store *storage.Store, showHints bool) (GameModel, error) {
	level, err := p.Level(number)
	if err != nil {
		return GameModel{}, err
	}
	sim, err := tworld.NewSim(level)
	if err != nil {
		return GameModel{}, err
	}

	return GameModel{
		pack:        p,
		levelNumber: number,
		sim:         sim,
		screen:      core.NewScreen(gameScreenW, gameScreenH),
		store:       store,
		keyMapper:   NewKeyMapper(),
		showHints:   showHints,
	}, nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(tworld.TicksPerSecond)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "b", "esc":
		m.backToMenu = true
		return m, tea.Quit
	case "r":
		//nolint:errcheck // reset of a level that loaded before cannot fail
		m.sim.Reset()
		m.pending = 0
		m.resultSaved = false
		return m, nil
	case "enter":
		if m.sim.EndCause() == tworld.EndCauseComplete {
			m.advance = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.pending |= m.keyMapper.MapKeyToDir(msg)
	return m, nil
}

// handleTick advances the simulation by one tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	// Step is a no-op once the level ended; ticking continues so the
	// final state keeps rendering.
	//nolint:errcheck // self check is not enabled for interactive play
	m.sim.Step(m.pending)
	m.pending = 0

	if m.sim.Events().Has(tworld.EventComplete) && !m.resultSaved {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveResult(m.pack.Name, m.levelNumber, m.sim.TimeLeftSeconds())
		}
		m.resultSaved = true
	}

	return m, tickCmd(tworld.TicksPerSecond)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	drawGame(m.screen, m.sim, m.showHints)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// WantsNextLevel returns true if user completed the level and asked for
// the next one.
func (m GameModel) WantsNextLevel() bool {
	return m.advance
}

// LevelNumber returns the level being played.
func (m GameModel) LevelNumber() int {
	return m.levelNumber
}

// RunGame plays one level in the local terminal.
func RunGame(p *pack.Pack, number int, store *storage.Store, showHints bool) (GameModel, error) {
	model, err := NewGameModel(p, number, store, showHints)
	if err != nil {
		return GameModel{}, err
	}

	prog := tea.NewProgram(model, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return GameModel{}, err
	}
	if m, ok := final.(GameModel); ok {
		return m, nil
	}
	return model, nil
}
