package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tileworld/internal/core"
	"github.com/vovakirdan/tileworld/internal/tworld"
)

// Playfield layout constants.
const (
	viewTiles   = 9 // visible window is viewTiles x viewTiles, centered on chip
	tileCols    = 2 // each tile renders two columns wide for a square look
	fieldLeft   = 2 // first tile column inside the border
	fieldTop    = 1
	sidebarLeft = viewTiles*tileCols + 5
)

// glyph is a rune with its display color.
type glyph struct {
	r rune
	c core.Color
}

// tileGlyphs maps bottom layer and pseudo tiles to their display cells.
// Hidden and invisible walls intentionally render as floor.
var tileGlyphs = map[tworld.Tile]glyph{
	tworld.TileFloor:       {' ', core.ColorDefault},
	tworld.TileTrap:        {'_', core.ColorGray},
	tworld.TileStaticTrap:  {'_', core.ColorGray},
	tworld.TileToggleFloor: {'.', core.ColorGreen},
	tworld.TileToggleWall:  {'▚', core.ColorGreen},

	tworld.TileButtonGreen: {'•', core.ColorBrightGreen},
	tworld.TileButtonRed:   {'•', core.ColorBrightRed},
	tworld.TileButtonBrown: {'•', core.ColorOrange},
	tworld.TileButtonBlue:  {'•', core.ColorBrightBlue},

	tworld.TileKeyBlue:   {'k', core.ColorBrightBlue},
	tworld.TileKeyRed:    {'k', core.ColorBrightRed},
	tworld.TileKeyGreen:  {'k', core.ColorBrightGreen},
	tworld.TileKeyYellow: {'k', core.ColorBrightYellow},

	tworld.TileThinWallN:  {'▔', core.ColorWhite},
	tworld.TileThinWallW:  {'▏', core.ColorWhite},
	tworld.TileThinWallS:  {'▁', core.ColorWhite},
	tworld.TileThinWallE:  {'▕', core.ColorWhite},
	tworld.TileThinWallSE: {'▗', core.ColorWhite},

	tworld.TileIce:         {'░', core.ColorBrightCyan},
	tworld.TileIceCornerNW: {'╔', core.ColorBrightCyan},
	tworld.TileIceCornerSW: {'╚', core.ColorBrightCyan},
	tworld.TileIceCornerSE: {'╝', core.ColorBrightCyan},
	tworld.TileIceCornerNE: {'╗', core.ColorBrightCyan},

	tworld.TileForceFloorN:      {'^', core.ColorMagenta},
	tworld.TileForceFloorW:      {'<', core.ColorMagenta},
	tworld.TileForceFloorS:      {'v', core.ColorMagenta},
	tworld.TileForceFloorE:      {'>', core.ColorMagenta},
	tworld.TileForceFloorRandom: {'?', core.ColorMagenta},

	tworld.TileGravel:     {':', core.ColorGray},
	tworld.TileExit:       {'E', core.ColorBrightGreen},
	tworld.TileFakeExit:   {'E', core.ColorBrightGreen},
	tworld.TileBootsWater: {'b', core.ColorBrightBlue},
	tworld.TileBootsFire:  {'b', core.ColorBrightRed},
	tworld.TileBootsIce:   {'b', core.ColorBrightCyan},
	tworld.TileBootsSlide: {'b', core.ColorBrightMagenta},

	tworld.TileLockBlue:   {'D', core.ColorBrightBlue},
	tworld.TileLockRed:    {'D', core.ColorBrightRed},
	tworld.TileLockGreen:  {'D', core.ColorBrightGreen},
	tworld.TileLockYellow: {'D', core.ColorBrightYellow},

	tworld.TileThief: {'!', core.ColorGray},
	tworld.TileChip:  {'$', core.ColorBrightCyan},

	tworld.TileRecessedWall: {'░', core.ColorGray},
	tworld.TileWallBlueFake: {'▓', core.ColorBlue},
	tworld.TileWallBlueReal: {'▓', core.ColorBlue},
	tworld.TileSocket:       {'%', core.ColorGray},
	tworld.TileDirt:         {'▓', core.ColorOrange},
	tworld.TileHint:         {'?', core.ColorBrightWhite},
	tworld.TileWall:         {'█', core.ColorGray},
	tworld.TileWallHidden:   {' ', core.ColorDefault},
	tworld.TileWallInvis:    {' ', core.ColorDefault},
	tworld.TileCloner:       {'≡', core.ColorGray},
	tworld.TileStaticCloner: {'≡', core.ColorGray},

	tworld.TileTeleporter: {'◊', core.ColorBrightMagenta},
	tworld.TileWater:      {'~', core.ColorBlue},
	tworld.TileFire:       {'*', core.ColorBrightRed},
	tworld.TileBomb:       {'¤', core.ColorRed},

	tworld.TileBlock:         {'□', core.ColorOrange},
	tworld.TileChipDrowned:   {'@', core.ColorBlue},
	tworld.TileChipBurned:    {'@', core.ColorBrightRed},
	tworld.TileChipBombed:    {'@', core.ColorBrightRed},
	tworld.TileChipSwimmingN: {'@', core.ColorBrightCyan},
	tworld.TileChipSwimmingW: {'@', core.ColorBrightCyan},
	tworld.TileChipSwimmingS: {'@', core.ColorBrightCyan},
	tworld.TileChipSwimmingE: {'@', core.ColorBrightCyan},
}

// entityGlyphs maps monsters to their display cells. Chip and blocks are
// handled through pseudo tiles instead.
var entityGlyphs = map[tworld.Entity]glyph{
	tworld.EntityBug:        {'B', core.ColorBrightGreen},
	tworld.EntityParamecium: {'P', core.ColorBrightMagenta},
	tworld.EntityGlider:     {'G', core.ColorBrightCyan},
	tworld.EntityFireball:   {'F', core.ColorBrightRed},
	tworld.EntityBall:       {'O', core.ColorBrightWhite},
	tworld.EntityBlob:       {'J', core.ColorGreen},
	tworld.EntityTank:       {'T', core.ColorBrightBlue},
	tworld.EntityTankRev:    {'T', core.ColorBrightBlue},
	tworld.EntityWalker:     {'W', core.ColorGray},
	tworld.EntityTeeth:      {'M', core.ColorBrightBlue},
}

func tileGlyph(t tworld.Tile) glyph {
	if g, ok := tileGlyphs[t]; ok {
		return g
	}
	return glyph{' ', core.ColorDefault}
}

// cellGlyph composes the display cell for one grid position: the top layer
// actor when present, the bottom tile otherwise.
func cellGlyph(s *tworld.Sim, x, y int) glyph {
	top := s.TopAt(x, y)
	if top == tworld.ActorNone {
		return tileGlyph(s.BottomAt(x, y))
	}
	if top == tworld.ActorAnimation {
		if t, ok := chipDeathTile(s, x, y); ok {
			return tileGlyph(t)
		}
		return glyph{'*', core.ColorBrightWhite}
	}

	entity := top.Entity()
	switch {
	case entity == tworld.EntityChip:
		if s.BottomAt(x, y) == tworld.TileWater {
			return tileGlyph(tworld.TileChipSwimmingN + tworld.Tile(top.Direction()))
		}
		return glyph{'@', core.ColorBrightYellow}
	case entity.IsBlock():
		return tileGlyph(tworld.TileBlock)
	}
	if g, ok := entityGlyphs[entity]; ok {
		return g
	}
	return glyph{'?', core.ColorDefault}
}

// chipDeathTile returns the pseudo tile for chip's death pose when the
// animation at (x, y) is chip's own.
func chipDeathTile(s *tworld.Sim, x, y int) (tworld.Tile, bool) {
	cx, cy := s.ChipPos()
	if int(cx) != x || int(cy) != y {
		return 0, false
	}
	switch s.EndCause() {
	case tworld.EndCauseDrowned:
		return tworld.TileChipDrowned, true
	case tworld.EndCauseBurned:
		return tworld.TileChipBurned, true
	case tworld.EndCauseBombed:
		return tworld.TileChipBombed, true
	}
	return 0, false
}

// viewOrigin returns the top-left grid coordinate of the visible window,
// centered on chip and clamped to the level bounds.
func viewOrigin(s *tworld.Sim) (int, int) {
	cx, cy := s.ChipPos()
	ox := core.Clamp(int(cx)-viewTiles/2, 0, tworld.GridWidth-viewTiles)
	oy := core.Clamp(int(cy)-viewTiles/2, 0, tworld.GridHeight-viewTiles)
	return ox, oy
}

// drawGame renders the playfield and the status sidebar onto the screen.
func drawGame(screen *core.Screen, s *tworld.Sim, showHints bool) {
	screen.Clear()

	level := s.Level()
	ox, oy := viewOrigin(s)

	screen.DrawBox(core.NewRect(0, 0, viewTiles*tileCols+3, viewTiles+2))
	for j := 0; j < viewTiles; j++ {
		for i := 0; i < viewTiles; i++ {
			g := cellGlyph(s, ox+i, oy+j)
			screen.SetCell(fieldLeft+tileCols*i, fieldTop+j, g.r, g.c)
		}
	}

	x := sidebarLeft
	screen.DrawText(x, 1, fmt.Sprintf("Level %d: %s", level.Number, level.Title))
	screen.DrawTextColored(x, 2, fmt.Sprintf("Password: %s", level.Password), core.ColorGray)

	screen.DrawText(x, 4, fmt.Sprintf("Chips left: %d", s.ChipsLeft()))
	if left := s.TimeLeftSeconds(); left >= 0 {
		timeColor := core.ColorDefault
		if left <= 15 && !s.IsGameOver() {
			timeColor = core.ColorBrightRed
		}
		screen.DrawTextColored(x, 5, fmt.Sprintf("Time left:  %d", left), timeColor)
	} else {
		screen.DrawText(x, 5, "Time left:  -")
	}

	drawInventory(screen, s, x, 7)
	drawStatus(screen, s, x)

	if showHints && standsOnHint(s) {
		drawWrapped(screen, 0, viewTiles+5, 60, level.Hint, core.ColorBrightWhite)
	}
}

// drawInventory renders the held keys and boots as colored glyphs.
func drawInventory(screen *core.Screen, s *tworld.Sim, x, y int) {
	screen.DrawText(x, y, "Keys:")
	keyColors := [4]core.Color{
		core.ColorBrightBlue, core.ColorBrightRed,
		core.ColorBrightGreen, core.ColorBrightYellow,
	}
	col := x + 6
	for i, n := range s.Keys() {
		for j := uint16(0); j < n && col < screen.Width(); j++ {
			screen.SetCell(col, y, 'k', keyColors[i])
			col++
		}
	}

	screen.DrawText(x, y+1, "Boots:")
	bootColors := [4]core.Color{
		core.ColorBrightBlue, core.ColorBrightRed,
		core.ColorBrightCyan, core.ColorBrightMagenta,
	}
	col = x + 7
	for variant := uint8(0); variant < 4; variant++ {
		if s.HasBoots(variant) {
			screen.SetCell(col, y+1, 'b', bootColors[variant])
			col++
		}
	}
}

// standsOnHint reports whether chip is on a hint tile.
func standsOnHint(s *tworld.Sim) bool {
	cx, cy := s.ChipPos()
	return s.BottomAt(int(cx), int(cy)) == tworld.TileHint
}

// drawStatus renders the end-of-level message and the control hints.
func drawStatus(screen *core.Screen, s *tworld.Sim, x int) {
	controls := "arrows/wasd: move | r: restart | b: menu | q: quit"

	switch s.EndCause() {
	case tworld.EndCauseNone:
	case tworld.EndCauseComplete:
		screen.DrawTextColored(x, viewTiles+1, "Level complete!", core.ColorBrightGreen)
		controls = "enter: next level | r: replay | b: menu | q: quit"
	default:
		screen.DrawTextColored(x, viewTiles+1, endMessage(s), core.ColorBrightRed)
		controls = "r: retry | b: menu | q: quit"
	}

	screen.DrawTextColored(0, viewTiles+3, controls, core.ColorGray)
}

// endMessage returns the classic death message for the end cause.
func endMessage(s *tworld.Sim) string {
	switch s.EndCause() {
	case tworld.EndCauseDrowned:
		return "Chip can't swim without flippers!"
	case tworld.EndCauseBurned:
		return "Chip can't walk on fire without fire boots!"
	case tworld.EndCauseBombed:
		return "Ouch! Don't step on the bombs!"
	case tworld.EndCauseOutOfTime:
		return "Out of time!"
	case tworld.EndCauseCollided:
		entity := s.CollidedActor().Entity()
		if entity.IsBlock() {
			return "Ouch! Watch out for the blocks!"
		}
		return fmt.Sprintf("Ouch! A %s got chip!", entity)
	}
	return ""
}

// drawWrapped draws text word-wrapped to the given width.
func drawWrapped(screen *core.Screen, x, y, width int, text string, c core.Color) {
	line := ""
	for _, word := range strings.Fields(text) {
		if line != "" && len(line)+1+len(word) > width {
			screen.DrawTextColored(x, y, line, c)
			y++
			line = word
			continue
		}
		if line == "" {
			line = word
		} else {
			line += " " + word
		}
	}
	if line != "" {
		screen.DrawTextColored(x, y, line, c)
	}
}
