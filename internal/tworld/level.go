package tworld

// Grid dimensions. Levels are always full size.
const (
	GridWidth  = 32
	GridHeight = 32
	GridSize   = GridWidth * GridHeight
)

// EncodedBitsPerTile is the width of one tile code in encoded layer data.
// Runtime grids are kept unpacked, one byte per tile.
const EncodedBitsPerTile = 6

// EncodedLayerSize is the byte size of one packed layer.
const EncodedLayerSize = GridSize * EncodedBitsPerTile / 8

// TimeLimitNone marks an untimed level.
const TimeLimitNone = 0xffff

// Link associates a button with the trap or cloner it controls.
type Link struct {
	ButtonX, ButtonY int8
	TargetX, TargetY int8
}

// Level holds static level data loaded from a pack.
type Level struct {
	Number        int
	TimeLimit     uint16
	RequiredChips uint16
	Title         string
	Password      string
	Hint          string
	TrapLinks     []Link
	ClonerLinks   []Link

	// Initial grid layers, one byte per tile, row-major.
	BottomLayer [GridSize]Tile
	TopLayer    [GridSize]Actor
}
