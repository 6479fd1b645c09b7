package tworld

// Event is a bitmask of things that happened during the last tick. The
// mask is cleared at the start of every Step; the UI reads it afterwards
// for feedback effects. Events never influence the simulation itself.
type Event uint16

const (
	EventKeyTaken Event = 1 << iota
	EventBootsTaken
	EventChipTaken
	EventDoorOpened
	EventButtonPressed
	EventTeleported
	EventSplash
	EventBoom
	EventComplete
	EventDied
	EventHint
)

// Has reports whether all events in mask fired.
func (e Event) Has(mask Event) bool {
	return e&mask == mask
}
