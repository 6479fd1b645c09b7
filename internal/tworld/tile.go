package tworld

// Tile is a bottom layer tile code. Codes fit in 6 bits so that level data
// can be stored packed; the exact assignment is shared with the level pack
// and solution file formats and groups related tiles into contiguous ranges,
// which keeps the classification predicates below simple comparisons.
type Tile uint8

const (
	TileFloor       Tile = 0x00
	TileTrap        Tile = 0x01
	TileToggleFloor Tile = 0x02
	TileToggleWall  Tile = 0x03

	TileButtonGreen Tile = 0x04
	TileButtonRed   Tile = 0x05
	TileButtonBrown Tile = 0x06
	TileButtonBlue  Tile = 0x07

	TileKeyBlue Tile = 0x08
	TileKeyRed  Tile = 0x09

	TileThinWallN  Tile = 0x0c
	TileThinWallW  Tile = 0x0d
	TileThinWallS  Tile = 0x0e
	TileThinWallE  Tile = 0x0f
	TileThinWallSE Tile = 0x10

	TileIce         Tile = 0x13
	TileIceCornerNW Tile = 0x14
	TileIceCornerSW Tile = 0x15
	TileIceCornerSE Tile = 0x16
	TileIceCornerNE Tile = 0x17

	TileForceFloorN      Tile = 0x18
	TileForceFloorW      Tile = 0x19
	TileForceFloorS      Tile = 0x1a
	TileForceFloorE      Tile = 0x1b
	TileForceFloorRandom Tile = 0x1c

	// walls for monsters only
	TileGravel     Tile = 0x1e
	TileExit       Tile = 0x1f
	TileBootsWater Tile = 0x20
	TileBootsFire  Tile = 0x21
	TileBootsIce   Tile = 0x22
	TileBootsSlide Tile = 0x23

	// walls for monsters and blocks
	TileLockBlue   Tile = 0x24
	TileLockRed    Tile = 0x25
	TileLockGreen  Tile = 0x26
	TileLockYellow Tile = 0x27
	TileKeyGreen   Tile = 0x2a
	TileKeyYellow  Tile = 0x2b
	TileThief      Tile = 0x2c
	TileChip       Tile = 0x2d

	// walls for all actors
	TileRecessedWall Tile = 0x2e
	TileWallBlueFake Tile = 0x2f
	TileSocket       Tile = 0x30
	TileDirt         Tile = 0x31
	TileHint         Tile = 0x32
	TileWall         Tile = 0x33
	TileWallBlueReal Tile = 0x34
	TileWallHidden   Tile = 0x35
	TileWallInvis    Tile = 0x36
	TileFakeExit     Tile = 0x37
	TileCloner       Tile = 0x38

	TileStaticCloner Tile = 0x3a
	TileStaticTrap   Tile = 0x3b

	TileTeleporter Tile = 0x3c
	TileWater      Tile = 0x3d
	TileFire       Tile = 0x3e
	TileBomb       Tile = 0x3f

	// pseudo tiles, only used for rendering (not encodable in level data)
	TileBlock         Tile = 0x40
	TileChipDrowned   Tile = 0x41
	TileChipBurned    Tile = 0x42
	TileChipBombed    Tile = 0x43
	TileChipSwimmingN Tile = 0x44
	TileChipSwimmingW Tile = 0x45
	TileChipSwimmingS Tile = 0x46
	TileChipSwimmingE Tile = 0x47
)

// Variant returns the low two bits, which select the color of keys, locks,
// boots and buttons, and the direction of force floors and ice corners.
func (t Tile) Variant() uint8 {
	return uint8(t) & 0x3
}

// IsKey reports whether the tile is one of the four colored keys.
// The key codes are split in two pairs (0x08-0x09 and 0x2a-0x2b); the mask
// also matches 0x0a, 0x0b, 0x28 and 0x29, which are left unassigned.
func (t Tile) IsKey() bool {
	return t&0x1c == 0x08
}

// IsLock reports whether the tile is one of the four colored locks.
func (t Tile) IsLock() bool {
	return t&^0x3 == TileLockBlue
}

// IsBoots reports whether the tile is one of the four boot types.
func (t Tile) IsBoots() bool {
	return t&^0x3 == TileBootsWater
}

// IsButton reports whether the tile is one of the four buttons.
func (t Tile) IsButton() bool {
	return t&^0x3 == TileButtonGreen
}

// IsThinWall reports whether the tile is a thin wall.
func (t Tile) IsThinWall() bool {
	return t >= TileThinWallN && t <= TileThinWallSE
}

// IsIce reports whether the tile is ice, including corners.
func (t Tile) IsIce() bool {
	return t >= TileIce && t <= TileIceCornerNE
}

// IsIceWall reports whether the tile is an ice corner.
func (t Tile) IsIceWall() bool {
	return t&^0x3 == TileIceCornerNW
}

// IsSlide reports whether the tile is a force floor, including the random one.
func (t Tile) IsSlide() bool {
	return t >= TileForceFloorN && t <= TileForceFloorRandom
}

// IsMonsterActingWall reports whether the tile blocks monsters.
func (t Tile) IsMonsterActingWall() bool {
	return t >= 0x1e && t <= 0x3a
}

// IsBlockActingWall reports whether the tile blocks blocks.
func (t Tile) IsBlockActingWall() bool {
	return t >= 0x1f && t <= 0x3a
}

// IsChipActingWall reports whether the tile blocks chip.
func (t Tile) IsChipActingWall() bool {
	return t >= 0x33 && t <= 0x3a
}

// IsRevealableWall reports whether the tile turns into a wall when chip
// pushes against it (hidden wall and real blue wall).
func (t Tile) IsRevealableWall() bool {
	return t&^0x1 == TileWallBlueReal
}

// IsStatic reports whether the tile is a static trap or cloner decoration.
// Actors on static tiles are excluded from the actor list.
func (t Tile) IsStatic() bool {
	return t&^0x1 == TileStaticCloner
}

// IsToggleTile reports whether the tile is a toggle floor or toggle wall.
func (t Tile) IsToggleTile() bool {
	return t&^0x1 == TileToggleFloor
}

// WithToggleState flips the toggle pair if bit 0 of state is set.
func (t Tile) WithToggleState(state uint8) Tile {
	return t ^ Tile(state&0x1)
}

// Toggled returns the other tile of the toggle pair.
func (t Tile) Toggled() Tile {
	return t ^ 0x1
}
