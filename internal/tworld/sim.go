package tworld

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// TicksPerSecond is the number of simulation ticks per game "second".
const TicksPerSecond = 20

// EndCause is the sticky reason a level ended.
type EndCause uint8

const (
	EndCauseNone EndCause = iota
	EndCauseComplete
	EndCauseDrowned
	EndCauseBurned
	EndCauseBombed
	EndCauseOutOfTime
	EndCauseCollided
)

func (c EndCause) String() string {
	switch c {
	case EndCauseNone:
		return "none"
	case EndCauseComplete:
		return "complete"
	case EndCauseDrowned:
		return "drowned"
	case EndCauseBurned:
		return "burned"
	case EndCauseBombed:
		return "bombed"
	case EndCauseOutOfTime:
		return "out of time"
	case EndCauseCollided:
		return "collided"
	default:
		return "invalid"
	}
}

// Game flags.
const (
	// flagToggleState tracks the pending toggle wall/floor flip. It must
	// stay bit 0: it is combined directly with toggle tile codes.
	flagToggleState uint8 = 1 << 0
	// flagTurnTanks indicates reversed tanks may be present on the grid.
	flagTurnTanks uint8 = 1 << 1
	// flagChipSelfMoved indicates chip moved by himself this step.
	flagChipSelfMoved uint8 = 1 << 2
	// flagChipForceMoved indicates chip's move was forced.
	flagChipForceMoved uint8 = 1 << 3
	// flagChipCanUnslide allows chip to override force floor direction.
	flagChipCanUnslide uint8 = 1 << 4
	// flagChipStuck indicates chip is stuck on a teleporter forever.
	flagChipStuck uint8 = 1 << 5
	// flagNoTimeLimit indicates an untimed level.
	flagNoTimeLimit uint8 = 1 << 7
)

// Move context flags for canMove.
const (
	cmmStartMovement uint8 = 1 << 0 // called as part of startMovement
	cmmPushBlocks    uint8 = 1 << 1 // blocks change direction but not position
	cmmPushBlocksNow uint8 = 1 << 2 // blocks are moved
	cmmReleasing     uint8 = 1 << 3 // called for a trap or cloner release
	cmmClearAnim     uint8 = 1 << 4 // clear animation on the target tile

	cmmPushBlocksAll = cmmPushBlocks | cmmPushBlocksNow
)

// Move results.
const (
	resultFail    = 0 // failed to move, still alive
	resultSuccess = 1 // moved or stayed put successfully
	resultDied    = 2 // died as a result of the move
)

const (
	maxActors = 128

	indexNone   = -1
	chipPosNone = int8(-1)

	// ticks without a self move before chip turns to the rest pose
	chipRestTicks     = 15
	chipRestDirection = South
)

// Directions blocked when leaving a tile, indexed by thin wall then ice
// corner variant.
var thinWallDirFrom = [9]DirMask{
	MaskNorth,
	MaskWest,
	MaskSouth,
	MaskEast,
	MaskSouth | MaskEast, // thin wall south east
	MaskNorth | MaskWest, // ice corner north west
	MaskSouth | MaskWest, // ice corner south west
	MaskSouth | MaskEast, // ice corner south east
	MaskNorth | MaskEast, // ice corner north east
}

// Directions blocked when entering a tile, same indexing.
var thinWallDirTo = [9]DirMask{
	MaskSouth,
	MaskEast,
	MaskNorth,
	MaskWest,
	MaskNorth | MaskWest, // thin wall south east
	MaskSouth | MaskEast, // ice corner north west
	MaskNorth | MaskEast, // ice corner south west
	MaskNorth | MaskWest, // ice corner south east
	MaskSouth | MaskWest, // ice corner north east
}

// New direction as a function of ice corner variant and incoming direction.
// DirNone means the corner does not deflect that direction.
var iceWallTurn = [16]Direction{
	// north, west, south, east
	East, South, DirNone, DirNone, // ice corner north west
	DirNone, North, East, DirNone, // ice corner south west
	DirNone, DirNone, West, North, // ice corner south east
	West, DirNone, DirNone, South, // ice corner north east
}

// Sim is a running simulation of one level. It is not safe for concurrent
// use; the caller sequences input, Step and any reads of the grid.
type Sim struct {
	level *Level

	bottom [GridSize]Tile
	top    [GridSize]Actor
	actors []ActiveActor

	currentTime uint32
	chipsLeft   uint16
	keys        [4]uint16
	boots       uint8
	flags       uint8

	randomSlideDir Direction
	// chip's destination this step, used for collision case 1
	chipNewPosX, chipNewPosY int8
	// chip's facing direction chosen on the last self move
	chipLastDir Direction
	// index of the monster chip is about to collide with, or indexNone
	collidedWith int
	// tile of the actor involved in the last collision
	collidedActor Actor
	ticksSinceMove uint8
	endCause       EndCause
	inputState     DirMask
	// chip's direction at the last startMovement, restored on trap release
	lastChipDir Direction
	// chip's tile saved when a creature teleports onto chip
	teleportedChip Actor
	// index of the actor springing a trap right now, or indexNone
	actorSpringingTrap int

	// teleporter positions in reading order, cached at reset
	teleporters []int16

	events Event

	// replay initial conditions
	stepping        uint8
	initialSlideDir Direction

	lynx lynxPRNG
	tw   twPRNG

	selfCheck bool
	logger    *log.Logger
}

// NewSim creates a simulation for a level and resets it to the initial
// state. It fails if the level has no chip.
func NewSim(level *Level) (*Sim, error) {
	s := &Sim{
		level:           level,
		initialSlideDir: North,
		logger:          log.New(io.Discard),
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLogger directs structural warnings (actor list overflow) to a logger.
func (s *Sim) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SetSelfCheck enables the per-tick structural validation. It is meant for
// the replay harness and tests, not for interactive play.
func (s *Sim) SetSelfCheck(enabled bool) {
	s.selfCheck = enabled
}

// SetInitialConditions applies the initial conditions recorded in a
// solution file. Takes effect on the next Reset.
func (s *Sim) SetInitialConditions(stepping uint8, slideDir Direction, seed uint32) {
	s.stepping = stepping & 0x7
	s.initialSlideDir = slideDir
	s.tw.value = seed
}

// Reset restores the initial level state. The TW PRNG seed and initial
// conditions set by SetInitialConditions are preserved.
func (s *Sim) Reset() error {
	s.bottom = s.level.BottomLayer
	s.top = s.level.TopLayer

	s.flags = 0
	if s.level.TimeLimit == TimeLimitNone {
		s.flags |= flagNoTimeLimit
	}
	s.currentTime = 0
	s.chipsLeft = s.level.RequiredChips
	s.keys = [4]uint16{}
	s.boots = 0

	s.randomSlideDir = s.initialSlideDir

	s.collidedWith = indexNone
	s.collidedActor = ActorNone
	s.chipLastDir = South
	s.ticksSinceMove = 0
	s.endCause = EndCauseNone
	s.lastChipDir = 0
	s.teleportedChip = ActorNone
	s.actorSpringingTrap = indexNone
	s.events = 0

	s.lynx = lynxPRNG{}

	s.cacheTeleporters()
	return s.buildActorList()
}

// cacheTeleporters records teleporter positions in reading order so that
// the wrap search does not rescan the whole grid.
func (s *Sim) cacheTeleporters() {
	s.teleporters = s.teleporters[:0]
	for pos := 0; pos < GridSize; pos++ {
		if s.bottom[pos] == TileTeleporter {
			s.teleporters = append(s.teleporters, int16(pos))
		}
	}
}

// buildActorList scans the grid in reading order and collects actors.
// Actors on static tiles are excluded. Chip is swapped to index 0.
func (s *Sim) buildActorList() error {
	s.actors = s.actors[:0]
	chipIndex := -1
scan:
	for y := int8(0); y < GridHeight; y++ {
		for x := int8(0); x < GridWidth; x++ {
			entity := s.topAt(x, y).Entity()
			if entity == EntityChip {
				chipIndex = len(s.actors)
			} else if !entity.OnActorList() {
				continue
			} else if s.bottomAt(x, y).IsStatic() {
				continue
			}
			s.actors = append(s.actors, MakeActiveActor(x, y, 0, StateNone))

			if len(s.actors) == maxActors {
				s.logger.Warn("actor list full on level start", "level", s.level.Number)
				break scan
			}
		}
	}

	if chipIndex == -1 {
		return fmt.Errorf("level %d: chip not found in level data", s.level.Number)
	}
	if chipIndex > 0 {
		s.actors[0], s.actors[chipIndex] = s.actors[chipIndex], s.actors[0]
	}
	return nil
}

// --- accessors ---

// Level returns the level being simulated.
func (s *Sim) Level() *Level { return s.level }

// EndCause returns the sticky end cause, or EndCauseNone while playing.
func (s *Sim) EndCause() EndCause { return s.endCause }

// IsGameOver reports whether the level ended.
func (s *Sim) IsGameOver() bool { return s.endCause != EndCauseNone }

// CurrentTime returns the elapsed ticks.
func (s *Sim) CurrentTime() uint32 { return s.currentTime }

// TimeLeftSeconds returns the remaining whole seconds, or -1 if untimed.
func (s *Sim) TimeLeftSeconds() int {
	if s.flags&flagNoTimeLimit != 0 {
		return -1
	}
	return int(s.level.TimeLimit) - int(s.currentTime)/TicksPerSecond
}

// ChipsLeft returns the number of computer chips still required.
func (s *Sim) ChipsLeft() int { return int(s.chipsLeft) }

// Keys returns the held key counts, in blue, red, green, yellow order.
func (s *Sim) Keys() [4]uint16 { return s.keys }

// Boots returns the held boots as a bitmask in water, fire, ice, slide
// bit order.
func (s *Sim) Boots() uint8 { return s.boots }

// HasBoots reports whether chip holds the boots for the given variant.
func (s *Sim) HasBoots(variant uint8) bool { return s.boots&(1<<variant) != 0 }

// Events returns the events that fired during the last Step.
func (s *Sim) Events() Event { return s.events }

// CollidedActor returns the tile of the actor involved in the fatal
// collision, if EndCause is EndCauseCollided.
func (s *Sim) CollidedActor() Actor { return s.collidedActor }

// ChipPos returns chip's grid position.
func (s *Sim) ChipPos() (int8, int8) {
	chip := s.actors[0]
	return chip.X(), chip.Y()
}

// BottomAt returns the bottom layer tile at a position.
func (s *Sim) BottomAt(x, y int) Tile { return s.bottom[y*GridWidth+x] }

// TopAt returns the top layer tile at a position.
func (s *Sim) TopAt(x, y int) Actor { return s.top[y*GridWidth+x] }

func (s *Sim) bottomAt(x, y int8) Tile { return s.bottom[int(y)*GridWidth+int(x)] }
func (s *Sim) topAt(x, y int8) Actor   { return s.top[int(y)*GridWidth+int(x)] }

func (s *Sim) setBottom(x, y int8, t Tile) { s.bottom[int(y)*GridWidth+int(x)] = t }
func (s *Sim) setTop(x, y int8, a Actor)   { s.top[int(y)*GridWidth+int(x)] = a }

func (s *Sim) hasWaterBoots() bool { return s.boots&(1<<0) != 0 }
func (s *Sim) hasFireBoots() bool  { return s.boots&(1<<1) != 0 }
func (s *Sim) hasIceBoots() bool   { return s.boots&(1<<2) != 0 }
func (s *Sim) hasSlideBoots() bool { return s.boots&(1<<3) != 0 }

// --- stepping ---

// Step advances the simulation by one tick, consuming the direction input
// mask for this tick. Once the level has ended Step is a no-op. The only
// possible error is a self check failure.
func (s *Sim) Step(input DirMask) error {
	if s.IsGameOver() {
		return nil
	}
	// opposite presses cancel out, leaving at most one bit per axis
	if input&MaskVertical == MaskVertical {
		input &^= MaskVertical
	}
	if input&MaskHorizontal == MaskHorizontal {
		input &^= MaskHorizontal
	}
	s.inputState = input
	s.events = 0

	if s.flags&flagNoTimeLimit == 0 &&
		s.currentTime == uint32(s.level.TimeLimit)*TicksPerSecond {
		s.endCause = EndCauseOutOfTime
		s.events |= EventDied
		return nil
	}

	if s.selfCheck {
		if err := s.stepCheck(); err != nil {
			return err
		}
	}
	s.prestep()
	s.chooseAllMoves()
	s.performAllMoves()
	s.teleportAll()

	// time advances even on untimed levels, it is a reference for teeth
	// parity and animation delays
	s.currentTime++

	switch s.endCause {
	case EndCauseNone:
	case EndCauseComplete:
		s.events |= EventComplete
	default:
		s.events |= EventDied
	}
	return nil
}

// stepCheck validates structural invariants. It has no side effects.
func (s *Sim) stepCheck() error {
	seen := make(map[uint16]bool, len(s.actors))
	dup := 0
	for _, act := range s.actors {
		if act.State() == StateHidden {
			continue
		}
		pos := uint16(act.Y())<<5 | uint16(act.X())
		if seen[pos] {
			dup++
		}
		seen[pos] = true
	}
	allowed := 0
	if s.teleportedChip != ActorNone {
		allowed = 1
	}
	if dup > allowed {
		return fmt.Errorf("tick %d: actors share a position", s.currentTime)
	}

	for i, act := range s.actors {
		if act.State() == StateHidden {
			continue
		}
		if s.topAt(act.X(), act.Y()).Entity() == EntityNone {
			if i == 0 && s.teleportedChip != ActorNone {
				continue
			}
			return fmt.Errorf("tick %d: actor at (%d, %d) has no entity",
				s.currentTime, act.X(), act.Y())
		}
	}

	if s.teleportedChip == ActorNone {
		chip := s.actors[0]
		if s.topAt(chip.X(), chip.Y()).Entity() != EntityChip {
			return fmt.Errorf("tick %d: chip is not first in actor list", s.currentTime)
		}
	}
	return nil
}

// prestep finishes applying changes from the previous tick.
func (s *Sim) prestep() {
	// commit the pending toggle wall/floor flip
	if s.flags&flagToggleState != 0 {
		s.flags &^= flagToggleState
		for pos := range s.bottom {
			if s.bottom[pos].IsToggleTile() {
				s.bottom[pos] = s.bottom[pos].Toggled()
			}
		}
	}

	// turn reversed tanks into normal tanks facing the other way
	if s.flags&flagTurnTanks != 0 {
		s.flags &^= flagTurnTanks
		for i := range s.actors {
			if s.actors[i].State() == StateHidden {
				continue
			}
			mact := s.getActor(i)
			if mact.Entity == EntityTankRev {
				mact.Entity = EntityTank
				if mact.Step <= 0 {
					// don't turn tanks in between moves
					mact.Direction = mact.Direction.Back()
				}
				s.putActor(&mact)
			}
		}
	}

	s.chipNewPosX = chipPosNone
	s.chipNewPosY = chipPosNone
}

// chooseAllMoves picks a move for every actor, in reverse list order.
func (s *Sim) chooseAllMoves() {
	for i := len(s.actors) - 1; i >= 0; i-- {
		act := s.actors[i]
		if act.State() == StateHidden {
			if act.Step() > 0 {
				// animation delay countdown
				s.actors[i] = act.WithStep(act.Step() - 1)
			}
			continue
		}
		prevState := act.State()
		s.actors[i] = act.WithState(StateNone)
		if act.Step() <= 0 {
			mact := s.getActor(i)
			s.chooseMove(&mact, prevState == StateTeleported)
			s.putActor(&mact)
		}
	}
}

// performAllMoves attempts the chosen move for every actor, in reverse
// list order.
func (s *Sim) performAllMoves() {
	for i := len(s.actors) - 1; i >= 0; i-- {
		if s.actors[i].State() == StateHidden {
			continue
		}
		mact := s.getActor(i)
		result := s.performMove(&mact, 0)
		persist := true
		if result != resultDied && mact.Step <= 0 &&
			s.bottomAt(mact.X, mact.Y) == TileButtonBrown {
			// If a block rests on a trap button and chip pushes it off
			// while springing the trap, the push already persisted the
			// block and this view of it is stale. springTrap clears
			// actorSpringingTrap in that case via canPushBlock.
			s.actorSpringingTrap = mact.Index
			s.springTrap(mact.X, mact.Y)
			persist = s.actorSpringingTrap != indexNone
			s.actorSpringingTrap = indexNone
		}
		if persist {
			s.putActor(&mact)
		}
	}
}

// teleportAll teleports every actor resting on a teleporter, in reverse
// list order.
func (s *Sim) teleportAll() {
	if s.IsGameOver() {
		// a monster that collided with chip on a teleporter stays put
		return
	}
	for i := len(s.actors) - 1; i >= 0; i-- {
		act := s.actors[i]
		if act.State() == StateHidden || act.Step() > 0 {
			continue
		}
		if s.bottomAt(act.X(), act.Y()) == TileTeleporter {
			mact := s.getActor(i)
			s.teleportActor(&mact)
			s.putActor(&mact)
		}
	}
}

// --- actor list plumbing ---

// spawnActor returns a vacant moving actor, recycling a hidden entry with
// a zero step if one exists. Returns nil when the list is full.
func (s *Sim) spawnActor() *MovingActor {
	for i, act := range s.actors {
		if act.State() == StateHidden && act.Step() == 0 {
			mact := s.getActor(i)
			return &mact
		}
	}

	if len(s.actors) >= maxActors {
		// levels should be authored so this never happens
		s.logger.Warn("actor list full", "level", s.level.Number, "time", s.currentTime)
		return nil
	}

	s.actors = append(s.actors, MakeActiveActor(0, 0, 0, StateHidden))
	return &MovingActor{Index: len(s.actors) - 1, State: StateHidden}
}

// getActor unpacks the actor list entry at an index into a working view.
// Entity and direction come from the top layer tile under the actor.
func (s *Sim) getActor(index int) MovingActor {
	act := s.actors[index]
	tile := s.topAt(act.X(), act.Y())
	return MovingActor{
		Index:     index,
		X:         act.X(),
		Y:         act.Y(),
		Step:      act.Step(),
		Entity:    tile.Entity(),
		Direction: tile.Direction(),
		State:     act.State(),
	}
}

// putActor writes a moving actor back to the list and the top layer.
// The extra died/ghost states decay to hidden.
func (s *Sim) putActor(mact *MovingActor) {
	s.actors[mact.Index] = MakeActiveActor(mact.X, mact.Y, mact.Step, mact.State&0x3)
	tile := ActorNone
	if mact.State == stateDied {
		tile = ActorAnimation
	} else if mact.State != StateHidden {
		tile = mact.Actor()
	}
	s.setTop(mact.X, mact.Y, tile)
}

// lookupActor finds the live actor at a position, if any. When
// includeAnimated is set, hidden actors still playing their death
// animation are found too.
func (s *Sim) lookupActor(x, y int8, includeAnimated bool) (MovingActor, bool) {
	for i, act := range s.actors {
		if act.X() == x && act.Y() == y {
			if act.State() != StateHidden || (includeAnimated && act.Step() != 0) {
				return s.getActor(i), true
			}
		}
	}
	return MovingActor{}, false
}

// stopDeathAnimation clears any death animation at a position.
func (s *Sim) stopDeathAnimation(x, y int8) {
	for i, act := range s.actors {
		if act.X() == x && act.Y() == y {
			s.actors[i] = act.WithStep(0)
		}
	}
	s.setTop(x, y, ActorNone)
}

// --- movement rules ---

// canMove reports whether an actor may move one cell in a direction.
// Flags give the context of the query; with push flags set this has the
// side effect of turning or moving blocks in chip's way.
func (s *Sim) canMove(act *MovingActor, dir Direction, flags uint8) bool {
	px, py := dir.Translate(act.X, act.Y)
	if px < 0 || px >= GridWidth || py < 0 || py >= GridHeight {
		return false
	}

	tileFrom := s.bottomAt(act.X, act.Y)
	tileTo := s.bottomAt(px, py)

	if (tileFrom == TileTrap || tileFrom == TileCloner) && flags&cmmReleasing == 0 {
		return false
	}
	if tileFrom == TileStaticTrap {
		return false
	}

	if tileTo.IsToggleTile() &&
		tileTo.WithToggleState(s.flags&flagToggleState) == TileToggleWall {
		// the toggle flip is committed on the next prestep; combining the
		// flag keeps mid-step queries consistent
		return false
	}

	if tileFrom.IsSlide() && (act.Entity != EntityChip || !s.hasSlideBoots()) &&
		s.slideDir(tileFrom, false) == dir.Back() {
		// can't move back onto a force floor while overriding it
		return false
	}

	// thin wall and ice corner direction masks
	var thinWall DirMask
	if tileFrom.IsThinWall() {
		thinWall |= thinWallDirFrom[tileFrom-TileThinWallN]
	} else if tileFrom.IsIceWall() {
		thinWall |= thinWallDirFrom[tileFrom-TileIceCornerNW+5]
	}
	if tileTo.IsThinWall() {
		thinWall |= thinWallDirTo[tileTo-TileThinWallN]
	} else if tileTo.IsIceWall() {
		thinWall |= thinWallDirTo[tileTo-TileIceCornerNW+5]
	}
	if thinWall&dir.Mask() != 0 {
		return false
	}

	switch {
	case act.Entity == EntityChip:
		if tileTo.IsChipActingWall() && !tileTo.IsRevealableWall() {
			return false
		}
		if tileTo == TileSocket && s.chipsLeft > 0 {
			return false
		}
		if tileTo.IsLock() && s.keys[tileTo.Variant()] == 0 {
			return false
		}

		other, found := s.lookupActor(px, py, true)
		if !found && s.topAt(px, py).Entity() == EntityBlockGhost {
			// A ghost block with no list entry: give it one so it can be
			// pushed. Levels should be authored so the spawn never fails,
			// otherwise the block simply won't move.
			if spawned := s.spawnActor(); spawned != nil {
				spawned.Entity = EntityBlockGhost
				spawned.X, spawned.Y = px, py
				spawned.State = StateNone
				other, found = *spawned, true
			}
		}

		if found {
			if other.State == StateHidden {
				if other.Step > 0 {
					// death animations block chip
					return false
				}
			} else if other.Entity.IsBlock() {
				if !s.canPushBlock(&other, dir, flags&^cmmReleasing) {
					if other.Entity == EntityBlockGhost {
						// a ghost block just spawned but can't move:
						// hide it again immediately
						s.actors[other.Index] = s.actors[other.Index].WithState(StateHidden)
					}
					return false
				}
			}
		}
		// static blocks always sit on acting walls, no concern here

		if tileTo.IsRevealableWall() {
			if flags&cmmStartMovement != 0 {
				s.setBottom(px, py, TileWall)
			}
			return false
		}

		if s.flags&flagChipStuck != 0 {
			return false
		}
		return true

	case act.Entity.IsBlock():
		if act.Step > 0 {
			// in between moves (queried through canPushBlock)
			return false
		}
		if tileTo.IsBlockActingWall() {
			return false
		}

	default:
		if tileTo.IsMonsterActingWall() {
			return false
		}
		if tileTo == TileFire && act.Entity != EntityFireball {
			return false
		}
	}

	other := s.topAt(px, py)
	if other.Entity().IsMonsterOrBlock() {
		// location already claimed
		return false
	}
	if flags&cmmClearAnim != 0 && other == ActorAnimation {
		s.stopDeathAnimation(px, py)
	}
	return true
}

// canPushBlock reports whether a block may be pushed in a direction.
// With cmmPushBlocks the block turns; with cmmPushBlocksNow it also moves.
func (s *Sim) canPushBlock(block *MovingActor, dir Direction, flags uint8) bool {
	canPush := true
	changed := false
	if !s.canMove(block, dir, flags) {
		canPush = false
		// turn the block anyway, unless it was force moved this step
		if block.Step == 0 && flags&cmmPushBlocksAll != 0 && block.State != StateMoved {
			block.Direction = dir
			changed = true
		}
	} else if flags&cmmPushBlocksAll != 0 {
		block.Direction = dir
		block.State = StateMoved
		if flags&cmmPushBlocksNow != 0 {
			s.performMove(block, 0)
		}
		changed = true
		if block.Index == s.actorSpringingTrap {
			// the block left the trap button, nobody springs it now
			s.actorSpringingTrap = indexNone
		}
	}
	if changed {
		s.putActor(block)
	}
	return canPush
}

// chooseMove picks a direction for an actor. teleported indicates the
// actor arrived by teleporter on the previous tick.
func (s *Sim) chooseMove(act *MovingActor, teleported bool) {
	s.applyForcedMove(act, teleported)

	switch {
	case act.Entity == EntityChip:
		s.chooseChipMove(act)
		s.chipLastDir = act.Direction

		s.collidedWith = indexNone
		if act.State == StateMoved {
			s.ticksSinceMove = 0
			if s.flags&flagChipForceMoved == 0 {
				// collision case 1 doesn't apply to forced chip moves
				s.chipNewPosX, s.chipNewPosY = act.Direction.Translate(act.X, act.Y)
			}
		} else {
			if s.ticksSinceMove == chipRestTicks {
				act.Direction = chipRestDirection
			} else if s.ticksSinceMove < chipRestTicks {
				s.ticksSinceMove++
			}
		}

	case !act.Entity.IsBlock():
		s.chooseMonsterMove(act)

	case act.Entity == EntityBlockGhost:
		if act.State == StateNone {
			// an unmoved ghost block leaves the list but keeps its tile,
			// unless it sits somewhere with side effects
			tile := s.bottomAt(act.X, act.Y)
			if !tile.IsButton() && tile != TileTrap {
				act.State = stateGhost
			}
		}
	}
	// regular blocks never move by themselves
}

// applyForcedMove applies slides and post-teleport momentum. The actor's
// state must not have been reset since the last move.
func (s *Sim) applyForcedMove(act *MovingActor, teleported bool) {
	if s.currentTime == 0 {
		return
	}

	tile := s.bottomAt(act.X, act.Y)
	switch {
	case tile.IsIce():
		if act.Entity == EntityChip && s.hasIceBoots() {
			return
		}
		// continue in the same direction
	case tile.IsSlide():
		if act.Entity == EntityChip && s.hasSlideBoots() {
			return
		}
		act.Direction = s.slideDir(tile, true)
	case !teleported:
		return
	}

	if act.Entity == EntityChip {
		s.flags |= flagChipForceMoved
	}
	act.State = StateMoved
}

// chooseChipMove picks chip's move from the current input mask.
func (s *Sim) chooseChipMove(act *MovingActor) {
	state := s.inputState
	if state == 0 {
		return
	}

	if s.flags&flagChipForceMoved != 0 && s.flags&flagChipCanUnslide == 0 {
		// forced move without unslide permission, no free choice
		return
	}

	if state&MaskVertical != 0 && state&MaskHorizontal != 0 {
		// diagonal input
		lastDir := s.chipLastDir
		lastMask := lastDir.Mask()
		if state&lastMask != 0 {
			// keep the current direction unless it is blocked and the
			// other one is not
			otherDir := FromMask(lastMask ^ state)
			canCurr := s.canMove(act, lastDir, cmmPushBlocks)
			canOther := s.canMove(act, otherDir, cmmPushBlocks)
			if !canCurr && canOther {
				act.Direction = otherDir
			} else {
				act.Direction = lastDir
			}
		} else {
			// neither is the current direction: horizontal first
			if s.canMove(act, FromMask(state&MaskHorizontal), cmmPushBlocks) {
				state &= MaskHorizontal
			} else {
				state &= MaskVertical
			}
			act.Direction = FromMask(state)
		}
	} else {
		act.Direction = FromMask(state)
		// unused result, but the check may push blocks
		s.canMove(act, act.Direction, cmmPushBlocks)
	}

	s.flags |= flagChipSelfMoved
	act.State = StateMoved
}

// Lazy turn sentinels for chooseMonsterMove, so PRNG state only advances
// when the choice is actually evaluated.
const (
	dirWalkerTurn Direction = 0xfe
	dirBlobTurn   Direction = 0xfd
)

var blobTurns = [4]Direction{North, East, South, West}

// chooseMonsterMove picks a direction for a monster, per species rule.
func (s *Sim) chooseMonsterMove(act *MovingActor) {
	if act.State == StateMoved {
		// force moved, do not override
		return
	}

	tile := s.bottomAt(act.X, act.Y)
	if tile == TileCloner || tile == TileTrap {
		return
	}

	forward := act.Direction
	var choices [4]Direction
	n := 0

	switch {
	case act.Entity == EntityTeeth:
		if (s.currentTime+uint32(s.stepping))&0x4 != 0 {
			// teeth move at half speed
			return
		}
		cx, cy := s.ChipPos()
		dx, dy := int(cx)-int(act.X), int(cy)-int(act.Y)
		if dx < 0 {
			choices[n] = West
			n++
		} else if dx > 0 {
			choices[n] = East
			n++
		}
		if dy < 0 {
			choices[n] = North
			n++
		} else if dy > 0 {
			choices[n] = South
			n++
		}
		if abs(dy) >= abs(dx) && n == 2 {
			choices[0], choices[1] = choices[1], choices[0]
		}
	case act.Entity == EntityBlob:
		choices[0] = dirBlobTurn
		n = 1
	case act.Entity.IsTank():
		choices[0] = forward
		n = 1
	case act.Entity == EntityWalker:
		choices[0], choices[1] = forward, dirWalkerTurn
		n = 2
	case act.Entity == EntityBall:
		choices[0], choices[1] = forward, forward.Back()
		n = 2
	default:
		left, right, back := forward.Left(), forward.Right(), forward.Back()
		switch act.Entity {
		case EntityBug:
			choices = [4]Direction{left, forward, right, back}
		case EntityParamecium:
			choices = [4]Direction{right, forward, left, back}
		case EntityGlider:
			choices = [4]Direction{forward, left, right, back}
		default: // fireball
			choices = [4]Direction{forward, right, left, back}
		}
		n = 4
	}

	// attempt choices in order. Even if every direction is blocked the
	// actor still turns and counts as moved, in case another actor frees
	// a cell in the meantime.
	act.State = StateMoved
	for i := 0; i < n; i++ {
		choice := choices[i]
		if choice == dirWalkerTurn {
			choice = Direction((uint8(forward) - s.lynx.next()&0x3) & 3)
		} else if choice == dirBlobTurn {
			choice = blobTurns[s.tw.next()>>29]
		}
		act.Direction = choice
		if s.canMove(act, choice, cmmClearAnim) {
			return
		}
	}

	if act.Entity == EntityTeeth && n > 0 {
		// move failed, still face chip
		act.Direction = choices[0]
	}
}

// performMove carries out the chosen move for an actor. Flags are passed
// through to canMove. Returns one of the result constants.
func (s *Sim) performMove(act *MovingActor, flags uint8) int {
	if act.Step <= 0 {
		var dirBefore Direction
		restoreDir := false
		if flags&cmmReleasing != 0 {
			// A trap release ignores the direction chosen this tick so
			// chip cannot turn while the trap forces the move.
			if act.Entity == EntityChip {
				dirBefore = act.Direction
				restoreDir = true
				act.Direction = s.lastChipDir
			}
		} else if act.State == StateNone {
			return resultSuccess
		}

		result := s.startMovement(act, flags)
		if result != resultSuccess {
			// no need to hide the actor: dying in startMovement means a
			// collision ended the game and the tile stays visible
			if restoreDir {
				act.Direction = dirBefore
				s.lastChipDir = dirBefore
			}
			return result
		}
	}

	if !s.continueMovement(act) {
		cause := s.endMovement(act)
		if cause != EndCauseNone {
			if act.Entity == EntityChip {
				s.endCause = cause
			} else {
				// dead monsters play an animation; its delay lives in the
				// step field
				act.State = stateDied
				act.Step = int8(11 + (s.currentTime+uint32(s.stepping))&1)
			}
			return resultDied
		}
	}
	return resultSuccess
}

// startMovement initiates an actor's move.
func (s *Sim) startMovement(act *MovingActor, flags uint8) int {
	tileFrom := s.bottomAt(act.X, act.Y)

	if act.Entity == EntityChip {
		if !s.hasSlideBoots() {
			if tileFrom.IsSlide() && s.flags&flagChipSelfMoved == 0 {
				// on a force floor without a self move: may unslide later
				s.flags |= flagChipCanUnslide
			} else if !tileFrom.IsIce() || s.hasIceBoots() {
				s.flags &^= flagChipCanUnslide
			}
		}
		s.flags &^= flagChipForceMoved | flagChipSelfMoved
		s.lastChipDir = act.Direction
	}

	if !s.canMove(act, act.Direction, cmmStartMovement|cmmClearAnim|cmmPushBlocksNow|flags) {
		// either another actor took the cell first, or the move was
		// forced into a blocked direction
		if tileFrom.IsIce() && (act.Entity != EntityChip || !s.hasIceBoots()) {
			act.Direction = act.Direction.Back()
			s.applyIceWallTurn(act)
		}
		return resultFail
	}

	// creature located where chip intends to move (collision case 1)
	chipCollided := false
	if act.Entity.IsMonster() && act.X == s.chipNewPosX && act.Y == s.chipNewPosY {
		s.collidedWith = act.Index
		s.collidedActor = act.Actor()
	} else if act.Entity == EntityChip && s.collidedWith != indexNone {
		other := s.actors[s.collidedWith]
		if other.State() != StateHidden {
			// The creature has already moved away by now; clear the tile
			// it moved to so the collision leaves a single actor visible.
			chipCollided = true
			s.setTop(other.X(), other.Y(), ActorNone)
		}
	}

	// chip moving onto a monster (collision case 2)
	x, y := act.Direction.Translate(act.X, act.Y)
	if act.Entity == EntityChip {
		other := s.topAt(x, y)
		if other.Entity() != EntityNone {
			chipCollided = true
			s.collidedActor = other
		}
	}

	if tileFrom != TileCloner {
		// a released clone parent leaves its tile in the cloner
		s.setTop(act.X, act.Y, ActorNone)
	}
	act.X, act.Y = x, y
	// the destination top tile is written on putActor, since the
	// direction may still change before then (ice wall turns)

	// creature moving onto chip (collision case 3)
	if act.Entity != EntityChip {
		chip := s.actors[0]
		if x == chip.X() && y == chip.Y() {
			chipCollided = true
			s.collidedActor = act.Actor()
			// Cancel chip's own pending move. The colliding actor now
			// shares chip's cell and must not move again when chip's
			// turn comes in this same tick.
			s.actors[0] = chip.WithState(StateNone)
		}
	}

	if chipCollided {
		s.endCause = EndCauseCollided
		return resultDied
	}

	act.Step += 8
	return resultSuccess
}

// continueMovement advances the move countdown. Returns false once the
// move completes this tick.
func (s *Sim) continueMovement(act *MovingActor) bool {
	tile := s.bottomAt(act.X, act.Y)

	speed := int8(2)
	if act.Entity == EntityBlob {
		speed = 1
	}
	if tile.IsIce() && (act.Entity != EntityChip || !s.hasIceBoots()) {
		speed *= 2
	} else if tile.IsSlide() && (act.Entity != EntityChip || !s.hasSlideBoots()) {
		speed *= 2
	}

	act.Step -= speed
	return act.Step > 0
}

// endMovement applies the side effects of arriving on a tile. Returns the
// actor's end cause, or EndCauseNone if it survived.
func (s *Sim) endMovement(act *MovingActor) EndCause {
	tile := s.bottomAt(act.X, act.Y)
	variant := tile.Variant()

	if act.Entity != EntityChip || !s.hasIceBoots() {
		s.applyIceWallTurn(act)
	}

	newTile := Tile(0xff) // 0xff means unchanged
	cause := EndCauseNone
	if act.Entity == EntityChip {
		switch {
		case tile == TileWater:
			if !s.hasWaterBoots() {
				cause = EndCauseDrowned
				s.events |= EventSplash
			}
		case tile == TileFire:
			if !s.hasFireBoots() {
				cause = EndCauseBurned
			}
		case tile == TileDirt || tile == TileWallBlueFake:
			newTile = TileFloor
		case tile == TileRecessedWall:
			newTile = TileWall
		case tile.IsLock():
			if tile != TileLockGreen {
				s.keys[variant]--
			}
			newTile = TileFloor
			s.events |= EventDoorOpened
		case tile.IsKey():
			if s.keys[variant] < 255 {
				s.keys[variant]++
			}
			newTile = TileFloor
			s.events |= EventKeyTaken
		case tile.IsBoots():
			s.boots |= 1 << variant
			newTile = TileFloor
			s.events |= EventBootsTaken
		case tile == TileThief:
			s.boots = 0
		case tile == TileChip:
			if s.chipsLeft > 0 {
				s.chipsLeft--
			}
			newTile = TileFloor
			s.events |= EventChipTaken
		case tile == TileSocket:
			newTile = TileFloor
		case tile == TileExit:
			cause = EndCauseComplete
		case tile == TileHint:
			s.events |= EventHint
		}
	} else {
		switch tile {
		case TileWater:
			if act.Entity.IsBlock() {
				newTile = TileDirt
			}
			if act.Entity != EntityGlider {
				cause = EndCauseDrowned
				s.events |= EventSplash
			}
		case TileKeyBlue:
			// monsters and blocks destroy blue keys
			newTile = TileFloor
		}
		// fire acts as a wall to monsters; only fireballs and blocks
		// ever land on it, and both survive
	}

	switch tile {
	case TileBomb:
		newTile = TileFloor
		cause = EndCauseBombed
		s.events |= EventBoom
	case TileButtonGreen:
		s.flags ^= flagToggleState
		s.events |= EventButtonPressed
	case TileButtonBlue:
		s.turnTanks(act)
		s.events |= EventButtonPressed
	case TileButtonRed:
		s.activateCloner(act.X, act.Y)
		s.events |= EventButtonPressed
	case TileButtonBrown:
		s.events |= EventButtonPressed
	}

	if newTile != Tile(0xff) {
		s.setBottom(act.X, act.Y, newTile)
	}
	return cause
}

// turnTanks marks every tank not on ice or a cloner as reversed. The
// actual turn happens in the next prestep, unless a second blue button
// press cancels it first.
func (s *Sim) turnTanks(trigger *MovingActor) {
	s.flags |= flagTurnTanks
	if trigger.Entity.IsTank() {
		// this tank has a live working view; change it directly or the
		// writeback would undo the grid change below
		trigger.Entity = trigger.Entity.ReverseTank()
	}
	for _, act := range s.actors {
		if act.State() == StateHidden {
			continue
		}
		tile := s.bottomAt(act.X(), act.Y())
		if tile == TileCloner || tile.IsIce() {
			continue
		}
		top := s.topAt(act.X(), act.Y())
		if top.Entity().IsTank() {
			s.setTop(act.X(), act.Y(),
				MakeActor(top.Entity().ReverseTank(), top.Direction()))
		}
	}
}

// findLink resolves a button position to its linked target position.
func findLink(x, y int8, links []Link) (int8, int8, bool) {
	for _, link := range links {
		if link.ButtonX == x && link.ButtonY == y {
			return link.TargetX, link.TargetY, true
		}
	}
	return 0, 0, false
}

// springTrap releases the actor held in the trap linked to the button at
// the given position.
func (s *Sim) springTrap(x, y int8) {
	tx, ty, ok := findLink(x, y, s.level.TrapLinks)
	if !ok {
		return
	}
	if act, found := s.lookupActor(tx, ty, false); found {
		s.performMove(&act, cmmReleasing)
		s.putActor(&act)
	}
}

// activateCloner clones the actor in the cloner linked to the button at
// the given position. If the actor list is full, the parent itself is
// released and the cloner empties.
func (s *Sim) activateCloner(x, y int8) {
	cx, cy, ok := findLink(x, y, s.level.ClonerLinks)
	if !ok {
		return
	}
	parent, found := s.lookupActor(cx, cy, false)
	if !found {
		// cloner is empty
		return
	}

	clone := s.spawnActor()
	if clone == nil {
		if s.performMove(&parent, cmmReleasing) == resultSuccess {
			s.setTop(cx, cy, ActorNone)
			s.putActor(&parent)
		}
		return
	}

	clone.X, clone.Y, clone.Step = parent.X, parent.Y, parent.Step
	clone.Entity, clone.Direction, clone.State = parent.Entity, parent.Direction, parent.State

	parent.State = StateMoved
	if s.performMove(&parent, cmmReleasing) == resultSuccess {
		// parent leaves the cloner, the clone takes its place
		s.putActor(&parent)
		s.putActor(clone)
	}
	// on failure neither is persisted: the parent keeps its position and
	// the clone never existed (it spawned hidden)
}

// teleportActor moves an actor from its teleporter to the next usable one,
// searching the cached teleporter list in reverse reading order with wrap.
// If every candidate is blocked the actor stays stuck on the entry tile.
func (s *Sim) teleportActor(act *MovingActor) {
	if act.Index == 0 && act.Entity != EntityChip {
		// chip's tile was destroyed by a creature teleporting onto him,
		// restore it
		act.Entity = s.teleportedChip.Entity()
		act.Direction = s.teleportedChip.Direction()
		s.teleportedChip = ActorNone
	} else {
		// Unclaim the entry tile so the current teleporter reads as free.
		// When chip's tile was saved above, two actors share the cell and
		// the tile must stay to keep the other actor visible.
		s.setTop(act.X, act.Y, ActorNone)
	}

	teles := s.teleporters
	n := len(teles)
	orig := int16(int(act.Y)*GridWidth + int(act.X))
	idx := 0
	for i, pos := range teles {
		if pos == orig {
			idx = i
			break
		}
	}

	for j := 1; j <= n; j++ {
		pos := teles[((idx-j)%n+n)%n]
		px, py := int8(int(pos)%GridWidth), int8(int(pos)/GridWidth)
		act.X, act.Y = px, py

		if !s.topAt(px, py).Entity().IsMonsterOrBlock() && s.canMove(act, act.Direction, 0) {
			// Teleported. The position was moved before the canMove call
			// and stays there so the writeback claims the exit tile. The
			// teleported state forces the move out next tick.
			act.State = StateTeleported
			s.events |= EventTeleported

			top := s.topAt(px, py)
			if top.Entity() == EntityChip {
				// Teleporting onto chip is legal and not a collision.
				// Chip's tile would be lost on writeback, save it.
				s.teleportedChip = top
			}
			return
		}

		if j == n {
			// wrapped all the way back, actor is stuck on the entry tile
			if act.Entity == EntityChip {
				s.flags |= flagChipStuck
			}
			return
		}
	}
}

// slideDir returns the direction a force floor pushes toward. For the
// random force floor, advance rotates the shared cursor; it must be set
// exactly once per tile traversal.
func (s *Sim) slideDir(tile Tile, advance bool) Direction {
	if tile == TileForceFloorRandom {
		if advance {
			s.randomSlideDir = s.randomSlideDir.Right()
		}
		return s.randomSlideDir
	}
	return Direction(tile.Variant())
}

// applyIceWallTurn deflects the actor's direction if it sits on an ice
// corner.
func (s *Sim) applyIceWallTurn(act *MovingActor) {
	tile := s.bottomAt(act.X, act.Y)
	if tile.IsIceWall() {
		newDir := iceWallTurn[uint8(act.Direction)+tile.Variant()*4]
		if newDir != DirNone {
			act.Direction = newDir
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
