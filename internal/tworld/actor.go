package tworld

// Entity is the species of an actor, stored in the high bits of a top layer
// tile. The low two bits of a top layer tile hold the actor's direction.
type Entity uint8

const (
	EntityNone       Entity = 0x00
	EntityChip       Entity = 0x04
	EntityStatic     Entity = 0x0c
	EntityBlockGhost Entity = 0x10
	EntityBlock      Entity = 0x14
	EntityBug        Entity = 0x18
	EntityParamecium Entity = 0x1c
	EntityGlider     Entity = 0x20
	EntityFireball   Entity = 0x24
	EntityBall       Entity = 0x28
	EntityBlob       Entity = 0x2c
	EntityTank       Entity = 0x30
	EntityTankRev    Entity = 0x34
	EntityWalker     Entity = 0x38
	EntityTeeth      Entity = 0x3c
)

// IsTank reports whether the entity is a tank or a reversed tank.
func (e Entity) IsTank() bool {
	return e&0x38 == 0x30
}

// IsBlock reports whether the entity is a block or a ghost block.
func (e Entity) IsBlock() bool {
	return e&0x38 == 0x10
}

// ReverseTank toggles between tank and reversed tank.
func (e Entity) ReverseTank() Entity {
	return e ^ 0x04
}

// IsMonsterOrBlock reports whether the entity is a monster or a block.
func (e Entity) IsMonsterOrBlock() bool {
	return e >= EntityBlockGhost
}

// IsMonster reports whether the entity is a monster.
func (e Entity) IsMonster() bool {
	return e > EntityBlock
}

// OnActorList reports whether the entity initially goes on the actor list.
// Chip is handled separately since it is always at index 0.
func (e Entity) OnActorList() bool {
	return e >= EntityBlock
}

func (e Entity) String() string {
	switch e {
	case EntityNone:
		return "none"
	case EntityChip:
		return "chip"
	case EntityStatic:
		return "static"
	case EntityBlockGhost:
		return "ghost block"
	case EntityBlock:
		return "block"
	case EntityBug:
		return "bug"
	case EntityParamecium:
		return "paramecium"
	case EntityGlider:
		return "glider"
	case EntityFireball:
		return "fireball"
	case EntityBall:
		return "ball"
	case EntityBlob:
		return "blob"
	case EntityTank:
		return "tank"
	case EntityTankRev:
		return "reversed tank"
	case EntityWalker:
		return "walker"
	case EntityTeeth:
		return "teeth"
	default:
		return "invalid"
	}
}

// Actor is a top layer tile: an entity combined with a direction.
type Actor uint8

const (
	// ActorNone is an empty top layer tile.
	ActorNone Actor = 0
	// ActorAnimation marks a top layer tile where a death animation plays.
	ActorAnimation Actor = 1
)

// MakeActor combines an entity and a direction into a top layer tile.
func MakeActor(e Entity, d Direction) Actor {
	return Actor(uint8(e) | uint8(d))
}

// Entity returns the actor's species.
func (a Actor) Entity() Entity {
	return Entity(a) &^ 0x3
}

// Direction returns the actor's facing direction.
func (a Actor) Direction() Direction {
	return Direction(a & 0x3)
}

// ActiveActor is a packed entry in the actor list. Only position, stepping
// state and step countdown are stored; entity and direction are read from
// the top layer tile at the actor's position.
//
// Layout: x in bits [0:4], state in [5:6], y in [7:11], step in [12:15]
// with a bias of +3 (the step range is -3..12).
type ActiveActor uint16

// Actor list states.
const (
	// StateNone is the default resting state.
	StateNone uint8 = 0x0
	// StateHidden marks a dead actor. Hidden entries with a zero step are
	// vacant slots reused when spawning.
	StateHidden uint8 = 0x1
	// StateMoved marks an actor that has chosen or been forced a move.
	StateMoved uint8 = 0x2
	// StateTeleported marks an actor that has just been teleported.
	StateTeleported uint8 = 0x3
)

const stepBias = 3

// MakeActiveActor builds a packed actor list entry.
func MakeActiveActor(x, y int8, step int8, state uint8) ActiveActor {
	return ActiveActor(uint16(x)&0x1f |
		uint16(state&0x3)<<5 |
		uint16(y)&0x1f<<7 |
		uint16(step+stepBias)&0xf<<12)
}

// X returns the actor's column.
func (a ActiveActor) X() int8 {
	return int8(a & 0x1f)
}

// Y returns the actor's row.
func (a ActiveActor) Y() int8 {
	return int8(a >> 7 & 0x1f)
}

// Step returns the move countdown. An actor with a positive step is in
// between moves.
func (a ActiveActor) Step() int8 {
	return int8(a>>12&0xf) - stepBias
}

// State returns the actor's list state.
func (a ActiveActor) State() uint8 {
	return uint8(a >> 5 & 0x3)
}

// WithPos returns the entry with the position replaced.
func (a ActiveActor) WithPos(x, y int8) ActiveActor {
	return a&^(0x1f|0x1f<<7) | ActiveActor(uint16(x)&0x1f|uint16(y)&0x1f<<7)
}

// WithStep returns the entry with the step countdown replaced.
func (a ActiveActor) WithStep(step int8) ActiveActor {
	return a&^(0xf<<12) | ActiveActor(uint16(step+stepBias)&0xf<<12)
}

// WithState returns the entry with the state replaced.
func (a ActiveActor) WithState(state uint8) ActiveActor {
	return a&^(0x3<<5) | ActiveActor(uint16(state&0x3)<<5)
}

// Extra moving actor states. Their low two bits decay to StateHidden when
// the moving actor is written back to the list.
const (
	// stateDied marks an actor that died this step and whose tile becomes
	// a death animation.
	stateDied uint8 = 0x5
	// stateGhost marks a ghost block leaving the actor list without an
	// animation and without clearing its tile.
	stateGhost uint8 = 0x9
)

// MovingActor is an unpacked working view of one actor list entry, used
// while resolving that actor's move. Changes must be written back with
// Sim.putActor before the next actor is processed.
type MovingActor struct {
	Index     int
	X, Y      int8
	Step      int8
	Entity    Entity
	Direction Direction
	State     uint8
}

// Actor returns the top layer tile for the moving actor.
func (m *MovingActor) Actor() Actor {
	return MakeActor(m.Entity, m.Direction)
}
