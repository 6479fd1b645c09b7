package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tileworld/internal/tworld"
)

// KeyMapper translates Bubble Tea key messages to game and menu actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKeyToDir translates a movement key to a direction mask.
// Returns zero for keys that are not movement keys. Masks accumulated
// from several key presses within one tick produce diagonal input.
func (km *KeyMapper) MapKeyToDir(msg tea.KeyMsg) tworld.DirMask {
	switch msg.String() {
	case "up", "w":
		return tworld.MaskNorth
	case "left", "a":
		return tworld.MaskWest
	case "down", "s":
		return tworld.MaskSouth
	case "right", "d":
		return tworld.MaskEast
	}
	return 0
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionPassword
	MenuActionTimes
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "p":
		return MenuActionPassword
	case "tab":
		return MenuActionTimes
	}

	return MenuActionNone
}
