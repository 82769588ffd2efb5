package engine

import "github.com/milk9111/overworld/common"

// InteractionKind is what happened to a scripted object this tick.
type InteractionKind int

const (
	InteractUse InteractionKind = iota
	InteractWalk
	InteractBump
	InteractLoad
	InteractTick
	InteractEffectSwitch
)

// TriggerEvent is a single occurrence tested against a trigger. Side
// is the direction the player approached or faced from, Tick the world
// tick counter for periodic triggers.
type TriggerEvent struct {
	Kind InteractionKind
	Side common.Direction
	Tick uint64
}

// Trigger decides whether an event fires the action it guards.
type Trigger interface {
	Fulfilled(ev TriggerEvent) bool
}

type UseTrigger struct{}

func (UseTrigger) Fulfilled(ev TriggerEvent) bool { return ev.Kind == InteractUse }

type WalkTrigger struct{}

func (WalkTrigger) Fulfilled(ev TriggerEvent) bool { return ev.Kind == InteractWalk }

type BumpTrigger struct{}

func (BumpTrigger) Fulfilled(ev TriggerEvent) bool { return ev.Kind == InteractBump }

// AnyInteractionTrigger fires on every direct interaction kind.
type AnyInteractionTrigger struct{}

func (AnyInteractionTrigger) Fulfilled(ev TriggerEvent) bool {
	return ev.Kind == InteractUse || ev.Kind == InteractWalk || ev.Kind == InteractBump
}

type OnLoadTrigger struct{}

func (OnLoadTrigger) Fulfilled(ev TriggerEvent) bool { return ev.Kind == InteractLoad }

// TickTrigger fires every Period world ticks.
type TickTrigger struct {
	Period uint64
}

func (t TickTrigger) Fulfilled(ev TriggerEvent) bool {
	return ev.Kind == InteractTick && t.Period > 0 && ev.Tick%t.Period == 0
}

// EffectSwitchTrigger fires when the player's active effect changes.
type EffectSwitchTrigger struct{}

func (EffectSwitchTrigger) Fulfilled(ev TriggerEvent) bool {
	return ev.Kind == InteractEffectSwitch
}

// SidedTrigger narrows its inner trigger to one approach side.
type SidedTrigger struct {
	Side  common.Direction
	Inner Trigger
}

func (t SidedTrigger) Fulfilled(ev TriggerEvent) bool {
	return ev.Side == t.Side && t.Inner.Fulfilled(ev)
}

// OrTrigger fires when any member fires.
type OrTrigger struct {
	Triggers []Trigger
}

func (t OrTrigger) Fulfilled(ev TriggerEvent) bool {
	for _, in := range t.Triggers {
		if in.Fulfilled(ev) {
			return true
		}
	}
	return false
}

// containsEffectSwitch reports whether the trigger tree can fire on an
// effect change, so the world knows which actions to queue when one
// happens.
func containsEffectSwitch(t Trigger) bool {
	switch v := t.(type) {
	case EffectSwitchTrigger:
		return true
	case SidedTrigger:
		return containsEffectSwitch(v.Inner)
	case OrTrigger:
		for _, in := range v.Triggers {
			if containsEffectSwitch(in) {
				return true
			}
		}
	}
	return false
}
