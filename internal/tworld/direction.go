package tworld

// Direction is one of the four cardinal directions.
// The internal ordering (N, W, S, E) is not clockwise; it matches the
// encoding used by the level and solution file formats.
type Direction uint8

const (
	North Direction = 0
	West  Direction = 1
	South Direction = 2
	East  Direction = 3

	// DirNone is returned by FromMask for masks without exactly one bit set.
	DirNone Direction = 0xff
)

// DirMask is a bitfield of directions. It represents simultaneous input
// presses and directional walls.
type DirMask uint8

const (
	MaskNorth DirMask = 1 << North
	MaskWest  DirMask = 1 << West
	MaskSouth DirMask = 1 << South
	MaskEast  DirMask = 1 << East

	MaskVertical   = MaskNorth | MaskSouth
	MaskHorizontal = MaskWest | MaskEast
)

// Mask returns the single-bit mask for d.
func (d Direction) Mask() DirMask {
	return 1 << d
}

// FromMask converts a single-bit mask back to a direction.
// Masks with zero or several bits set yield DirNone.
func FromMask(m DirMask) Direction {
	switch m {
	case MaskNorth:
		return North
	case MaskWest:
		return West
	case MaskSouth:
		return South
	case MaskEast:
		return East
	default:
		return DirNone
	}
}

// Back returns the opposite direction.
func (d Direction) Back() Direction {
	return d ^ 2
}

// Right returns the clockwise neighbor.
func (d Direction) Right() Direction {
	return (d + 3) & 3
}

// Left returns the counter-clockwise neighbor.
func (d Direction) Left() Direction {
	return (d + 1) & 3
}

var (
	deltaX = [4]int8{0, -1, 0, 1}
	deltaY = [4]int8{-1, 0, 1, 0}
)

// Translate returns the grid position one cell away from (x, y) in
// direction d. The result may be out of bounds.
func (d Direction) Translate(x, y int8) (int8, int8) {
	return x + deltaX[d], y + deltaY[d]
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	case East:
		return "east"
	default:
		return "none"
	}
}
