package tworld

import "testing"

func TestTileGroupPredicates(t *testing.T) {
	for _, k := range []Tile{TileKeyBlue, TileKeyRed, TileKeyGreen, TileKeyYellow} {
		if !k.IsKey() {
			t.Errorf("%#x should be a key", k)
		}
	}
	for _, k := range []Tile{TileFloor, TileLockBlue, TileBootsWater, TileWall} {
		if k.IsKey() {
			t.Errorf("%#x should not be a key", k)
		}
	}

	for _, l := range []Tile{TileLockBlue, TileLockRed, TileLockGreen, TileLockYellow} {
		if !l.IsLock() {
			t.Errorf("%#x should be a lock", l)
		}
	}
	if TileKeyBlue.IsLock() || TileSocket.IsLock() {
		t.Error("non-lock tile classified as lock")
	}

	for _, b := range []Tile{TileBootsWater, TileBootsFire, TileBootsIce, TileBootsSlide} {
		if !b.IsBoots() {
			t.Errorf("%#x should be boots", b)
		}
	}

	for _, b := range []Tile{TileButtonGreen, TileButtonRed, TileButtonBrown, TileButtonBlue} {
		if !b.IsButton() {
			t.Errorf("%#x should be a button", b)
		}
	}
}

func TestTileIceAndSlides(t *testing.T) {
	for _, i := range []Tile{TileIce, TileIceCornerNW, TileIceCornerSW, TileIceCornerSE, TileIceCornerNE} {
		if !i.IsIce() {
			t.Errorf("%#x should be ice", i)
		}
	}
	if TileIce.IsIceWall() {
		t.Error("plain ice classified as ice corner")
	}
	if !TileIceCornerNW.IsIceWall() || !TileIceCornerNE.IsIceWall() {
		t.Error("ice corner not classified as ice wall")
	}

	for _, f := range []Tile{TileForceFloorN, TileForceFloorW, TileForceFloorS, TileForceFloorE, TileForceFloorRandom} {
		if !f.IsSlide() {
			t.Errorf("%#x should be a slide", f)
		}
	}
	if TileGravel.IsSlide() || TileIceCornerNE.IsSlide() {
		t.Error("non-slide tile classified as slide")
	}
}

// The acting wall ranges are boundary comparisons on the tile codes; the
// exact edges matter for gravel, the exit and the static tiles.
func TestTileActingWallBoundaries(t *testing.T) {
	tests := []struct {
		tile                 Tile
		monster, block, chip bool
	}{
		{TileForceFloorRandom, false, false, false}, // 0x1c
		{TileGravel, true, false, false},            // 0x1e
		{TileExit, true, true, false},               // 0x1f
		{TileLockBlue, true, true, false},           // 0x24
		{TileHint, true, true, false},               // 0x32
		{TileWall, true, true, true},                // 0x33
		{TileCloner, true, true, true},              // 0x38
		{TileStaticCloner, true, true, true},        // 0x3a
		{TileStaticTrap, false, false, false},       // 0x3b
		{TileTeleporter, false, false, false},       // 0x3c
		{TileWater, false, false, false},
		{TileBomb, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.tile.IsMonsterActingWall(); got != tt.monster {
			t.Errorf("%#x.IsMonsterActingWall() = %v, want %v", tt.tile, got, tt.monster)
		}
		if got := tt.tile.IsBlockActingWall(); got != tt.block {
			t.Errorf("%#x.IsBlockActingWall() = %v, want %v", tt.tile, got, tt.block)
		}
		if got := tt.tile.IsChipActingWall(); got != tt.chip {
			t.Errorf("%#x.IsChipActingWall() = %v, want %v", tt.tile, got, tt.chip)
		}
	}
}

func TestTileRevealableWalls(t *testing.T) {
	if !TileWallBlueReal.IsRevealableWall() || !TileWallHidden.IsRevealableWall() {
		t.Error("blue/hidden wall should be revealable")
	}
	if TileWallBlueFake.IsRevealableWall() || TileWallInvis.IsRevealableWall() {
		t.Error("fake blue/invisible wall should not be revealable")
	}
}

func TestTileToggle(t *testing.T) {
	if !TileToggleFloor.IsToggleTile() || !TileToggleWall.IsToggleTile() {
		t.Error("toggle tiles not classified")
	}
	if TileFloor.IsToggleTile() {
		t.Error("floor classified as toggle tile")
	}

	if TileToggleFloor.Toggled() != TileToggleWall {
		t.Error("Toggled() did not flip floor to wall")
	}
	if TileToggleWall.Toggled() != TileToggleFloor {
		t.Error("Toggled() did not flip wall to floor")
	}

	if TileToggleFloor.WithToggleState(0) != TileToggleFloor {
		t.Error("WithToggleState(0) changed the tile")
	}
	if TileToggleFloor.WithToggleState(1) != TileToggleWall {
		t.Error("WithToggleState(1) did not flip the tile")
	}
}

func TestTileVariant(t *testing.T) {
	tests := []struct {
		tile    Tile
		variant uint8
	}{
		{TileKeyBlue, 0},
		{TileKeyRed, 1},
		{TileKeyGreen, 2},
		{TileKeyYellow, 3},
		{TileLockYellow, 3},
		{TileForceFloorN, 0},
		{TileForceFloorE, 3},
	}
	for _, tt := range tests {
		if got := tt.tile.Variant(); got != tt.variant {
			t.Errorf("%#x.Variant() = %d, want %d", tt.tile, got, tt.variant)
		}
	}
}
