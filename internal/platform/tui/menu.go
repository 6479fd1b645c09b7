package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tileworld/internal/pack"
	"github.com/vovakirdan/tileworld/internal/storage"
)

// menuPhase selects which list the menu is showing.
type menuPhase int

const (
	phasePacks menuPhase = iota
	phaseLevels
	phasePassword
)

// MenuModel is the Bubble Tea model for the pack and level picker.
type MenuModel struct {
	packs    []*pack.Pack
	progress []pack.Progress
	unlocked []bool

	phase       menuPhase
	packCursor  int
	levelCursor int
	playable    []bool      // levels of the pack being browsed
	bestTimes   map[int]int // level -> best seconds left, -1 for untimed

	password textinput.Model
	errMsg   string

	store     *storage.Store
	keyMapper *KeyMapper
	width     int
	height    int

	quitting  bool
	wantTimes bool
	selected  bool
	selPack   int
	selLevel  int
}

// NewMenuModel creates a menu over the loaded packs.
func NewMenuModel(packs []*pack.Pack, store *storage.Store, width, height int) MenuModel {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.CharLimit = 8
	ti.Width = 12

	m := MenuModel{
		packs:     packs,
		password:  ti,
		store:     store,
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
	m.reloadProgress()
	return m
}

// reloadProgress refreshes completion state from storage and recomputes
// which packs are unlocked.
func (m *MenuModel) reloadProgress() {
	m.progress = make([]pack.Progress, len(m.packs))
	for i, p := range m.packs {
		if m.store != nil {
			if pr, err := m.store.Progress(p.Name, p.LevelCount, p.FirstSecret); err == nil {
				m.progress[i] = pr
				continue
			}
		}
		m.progress[i] = pack.Progress{Completed: make([]bool, p.LevelCount)}
	}
	m.unlocked = pack.Unlocked(m.progress)
}

// enterPack switches to the level list of the pack under the cursor.
func (m *MenuModel) enterPack() {
	p := m.packs[m.packCursor]
	m.playable = p.Playable(m.progress[m.packCursor])
	m.bestTimes = make(map[int]int)
	if m.store != nil {
		if times, err := m.store.BestTimes(p.Name); err == nil {
			for _, bt := range times {
				m.bestTimes[bt.Level] = bt.SecondsLeft
			}
		}
	}
	if m.levelCursor >= p.LevelCount {
		m.levelCursor = 0
	}
	m.phase = phaseLevels
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phasePassword {
		return m.handlePasswordKey(msg)
	}

	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.errMsg = ""

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor() > 0 {
			m.setCursor(m.cursor() - 1)
		}

	case MenuActionDown:
		if m.cursor() < m.itemCount()-1 {
			m.setCursor(m.cursor() + 1)
		}

	case MenuActionSelect:
		return m.handleSelect()

	case MenuActionBack:
		if m.phase == phaseLevels {
			m.phase = phasePacks
		} else {
			m.quitting = true
			return m, tea.Quit
		}

	case MenuActionPassword:
		m.phase = phasePassword
		m.password.SetValue("")
		m.password.Focus()
		return m, textinput.Blink

	case MenuActionTimes:
		m.wantTimes = true
		return m, tea.Quit
	}

	return m, nil
}

// handleSelect activates the item under the cursor.
func (m MenuModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.phase {
	case phasePacks:
		if len(m.packs) == 0 {
			return m, nil
		}
		if !m.unlocked[m.packCursor] {
			m.errMsg = "This pack is still locked. Solve more levels!"
			return m, nil
		}
		m.enterPack()

	case phaseLevels:
		if !m.playable[m.levelCursor] {
			m.errMsg = "This level is still locked."
			return m, nil
		}
		m.selected = true
		m.selPack = m.packCursor
		m.selLevel = m.levelCursor + 1
		return m, tea.Quit
	}
	return m, nil
}

// handlePasswordKey processes input while the password prompt is open.
func (m MenuModel) handlePasswordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.phase = phasePacks
		m.errMsg = ""
		return m, nil

	case "enter":
		word := strings.ToUpper(strings.TrimSpace(m.password.Value()))
		packIndex, level, ok := pack.FindByPassword(m.packs, m.unlocked, word)
		if !ok {
			m.errMsg = "No unlocked level with that password."
			return m, nil
		}
		m.selected = true
		m.selPack = packIndex
		m.selLevel = level
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *MenuModel) cursor() int {
	if m.phase == phaseLevels {
		return m.levelCursor
	}
	return m.packCursor
}

func (m *MenuModel) setCursor(c int) {
	if m.phase == phaseLevels {
		m.levelCursor = c
	} else {
		m.packCursor = c
	}
}

func (m *MenuModel) itemCount() int {
	if m.phase == phaseLevels {
		return m.packs[m.packCursor].LevelCount
	}
	return len(m.packs)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "  T I L E   W O R L D  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	switch m.phase {
	case phasePacks:
		b.WriteString(m.viewPacks())
	case phaseLevels:
		b.WriteString(m.viewLevels())
	case phasePassword:
		b.WriteString(m.viewPassword())
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.errMsg, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate | Enter: Select | P: Password | Tab: Times | Q: Quit"
	if m.phase == phaseLevels {
		controls = "Up/Down: Navigate | Enter: Play | B: Back | Tab: Times | Q: Quit"
	}
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// viewPacks renders the pack list.
func (m MenuModel) viewPacks() string {
	var b strings.Builder

	b.WriteString(centerText("Select a level pack", m.width))
	b.WriteString("\n\n")

	if len(m.packs) == 0 {
		b.WriteString(centerText("No level packs found.", m.width))
		b.WriteString("\n")
		return b.String()
	}

	for i, p := range m.packs {
		cursor := "  "
		if i == m.packCursor {
			cursor = "> "
		}

		status := fmt.Sprintf("%d/%d", m.progress[i].CompletedCount(), p.LevelCount)
		if !m.unlocked[i] {
			status = "locked"
		}

		line := fmt.Sprintf("%s%-16s %s", cursor, p.Name, status)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	return b.String()
}

// viewLevels renders the level list of the selected pack.
func (m MenuModel) viewLevels() string {
	var b strings.Builder

	p := m.packs[m.packCursor]
	b.WriteString(centerText(fmt.Sprintf("%s: select a level", p.Name), m.width))
	b.WriteString("\n\n")

	// Keep the cursor visible on tall packs
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}
	first := 0
	if m.levelCursor >= visible {
		first = m.levelCursor - visible + 1
	}

	for i := first; i < p.LevelCount && i < first+visible; i++ {
		number := i + 1
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		title, err := p.Title(number)
		if err != nil {
			title = "?"
		}

		marker := " "
		switch {
		case m.progress[m.packCursor].Completed[i]:
			marker = "*"
		case !m.playable[i]:
			marker = "-"
		}
		secret := ""
		if p.IsSecret(number) {
			secret = " (secret)"
		}

		best := ""
		if seconds, ok := m.bestTimes[number]; ok && seconds >= 0 {
			best = fmt.Sprintf("  best %ds left", seconds)
		}

		line := fmt.Sprintf("%s%s %3d. %-24s%s%s", cursor, marker, number, title, secret, best)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	return b.String()
}

// viewPassword renders the password prompt.
func (m MenuModel) viewPassword() string {
	var b strings.Builder

	b.WriteString(centerText("Enter a level password", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.password.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: jump to level | Esc: back", m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen pack index and level number.
func (m MenuModel) Selected() (packIndex, level int, ok bool) {
	return m.selPack, m.selLevel, m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsTimes returns true if user requested the best times screen.
func (m MenuModel) WantsTimes() bool {
	return m.wantTimes
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	PackIndex  int
	Level      int
	WantsTimes bool
	Quit       bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(packs []*pack.Pack, store *storage.Store, width, height int) (MenuResult, error) {
	model := NewMenuModel(packs, store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	if m.WantsTimes() {
		return MenuResult{WantsTimes: true}, nil
	}
	if packIndex, level, selected := m.Selected(); selected {
		return MenuResult{PackIndex: packIndex, Level: level}, nil
	}
	return MenuResult{Quit: true}, nil
}
