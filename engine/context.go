package engine

import "github.com/milk9111/overworld/common"

// SoundRequest is a queued sound effect for the host to play.
type SoundRequest struct {
	Name   string
	Speed  float32
	Volume float32
}

// EntityPropertyKind names the entity fields reachable from property
// expressions and set-property actions.
type EntityPropertyKind int

const (
	EntityPropX EntityPropertyKind = iota
	EntityPropY
	EntityPropID
)

func ParseEntityPropertyKind(s string) (EntityPropertyKind, bool) {
	switch s {
	case "x":
		return EntityPropX, true
	case "y":
		return EntityPropY, true
	case "id":
		return EntityPropID, true
	}
	return EntityPropX, false
}

// EntityPropertyWrite is a pending write to the calling entity,
// applied after the entity is back in the world list.
type EntityPropertyWrite struct {
	Kind  EntityPropertyKind
	Value IntProperty
}

// EntityContext mirrors the entity whose action is currently running.
// The entity itself is out of the world list for the duration of the
// call, so reads go through this snapshot and writes are queued.
type EntityContext struct {
	EntityCall bool
	ID         int
	// X, Y are the entity's tile coordinates at call time.
	X, Y          int
	Variables     map[string]VariableValue
	SetProperties []EntityPropertyWrite
}


// SpecialContext is the dispatcher's scratchpad. It is the only
// channel by which actions return deferred work or request
// host-visible effects.
type SpecialContext struct {
	// DelayedRun is set while a drained deferred action runs, so a
	// Delayed action invokes its inner action instead of re-queueing.
	DelayedRun bool

	// ActionID and EntityID identify the triggered action being run.
	// EdgeCall marks the action as coming from the edge list, which
	// has its own id space.
	ActionID int
	EntityID int
	EdgeCall bool

	// MultipleActionIndex is the index of the child a Multiple action
	// is currently running, or -1. Delayed children capture it so a
	// deferred re-entry resumes at the right child.
	MultipleActionIndex int

	EntityContext EntityContext

	// EntityRemovalQueue collects entity ids to drop at the end of
	// the tick.
	EntityRemovalQueue []int

	PlaySounds []SoundRequest
	Messages   []string

	// EffectGet holds a pending effect grant for the host.
	EffectGet *Effect

	// SaveGame is the map-requested save flag.
	SaveGame bool

	deferred []func(*World)

	// pendingBumps are player-bump interactions raised by behaviors
	// while their entity is swapped out of the list. The dispatcher
	// routes them to the entity's own triggers after the behavior
	// pass.
	pendingBumps []pendingBump
}

type pendingBump struct {
	EntityID int
	Side     common.Direction
}

func NewSpecialContext() *SpecialContext {
	return &SpecialContext{MultipleActionIndex: -1}
}

// Defer queues a mutation to run after all actions have fired and
// every entity is back in the world list. Targets are resolved inside
// the thunk, at apply time.
func (c *SpecialContext) Defer(apply func(*World)) {
	c.deferred = append(c.deferred, apply)
}

func (c *SpecialContext) clearEntityCall() {
	c.EntityContext = EntityContext{}
	c.MultipleActionIndex = -1
}
