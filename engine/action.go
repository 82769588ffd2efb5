package engine

import (
	"log"

	"github.com/milk9111/overworld/common"
)

// Action is one scripted effect. Actions run synchronously inside the
// world's dispatch and hand any mutation that cannot happen mid-call
// to the special context.
type Action interface {
	Act(p *Player, w *World)
}

// Warp queues a map change behind a screen fade. An absent map or
// coordinate warns and makes the whole warp a no-op.
type Warp struct {
	Map  StringProperty
	X, Y IntProperty
	Dir  common.Direction

	TransitionSpeed float32
	FadeMusic       bool
	Hold            int
}

func (a *Warp) Act(p *Player, w *World) {
	name, ok := a.Map.Str(p, w)
	if !ok {
		log.Printf("warning: warp: destination map did not resolve")
		return
	}
	x, ok := a.X.Int(p, w)
	if !ok {
		log.Printf("warning: warp to %s: x did not resolve", name)
		return
	}
	y, ok := a.Y.Int(p, w)
	if !ok {
		log.Printf("warning: warp to %s: y did not resolve", name)
		return
	}
	w.QueuedLoad = &QueuedWarp{Map: name, X: x, Y: y, Dir: a.Dir}
	w.Transition.Begin(a.TransitionSpeed, a.FadeMusic, a.Hold)
}

// Print emits a line for the host's text overlay.
type Print struct {
	Text StringProperty
}

func (a *Print) Act(p *Player, w *World) {
	s, ok := a.Text.Str(p, w)
	if !ok {
		return
	}
	w.Special.Messages = append(w.Special.Messages, s)
}

// Delayed re-queues the enclosing triggered action to run after Delay
// ticks. When the dispatcher drains the queue it re-enters the same
// action with DelayedRun set, and the inner action runs for real.
type Delayed struct {
	Delay int
	Inner Action
}

func (a *Delayed) Act(p *Player, w *World) {
	if w.Special.DelayedRun {
		a.Inner.Act(p, w)
		return
	}
	w.DeferredActions = append(w.DeferredActions, DeferredAction{
		Delay:               a.Delay,
		EntityID:            w.Special.EntityID,
		ActionID:            w.Special.ActionID,
		Edge:                w.Special.EdgeCall,
		MultipleActionIndex: w.Special.MultipleActionIndex,
	})
}

// Freeze locks player movement. With Sticky set the freeze holds
// until a later Freeze clears it; otherwise Ticks counts down and
// zero unfreezes.
type Freeze struct {
	Ticks  int
	Sticky bool
}

func (a *Freeze) Act(p *Player, _ *World) {
	if p == nil {
		return
	}
	if a.Sticky {
		p.FreezeIndefinitely()
		return
	}
	p.Freeze(a.Ticks)
}

// GiveEffect hands the player an effect at the end of the tick.
type GiveEffect struct {
	Effect Effect
}

func (a *GiveEffect) Act(_ *Player, w *World) {
	e := a.Effect
	w.Special.EffectGet = &e
}

// SetFlag writes a named flag cell.
type SetFlag struct {
	Global bool
	Name   StringProperty
	Value  IntProperty
}

func (a *SetFlag) Act(p *Player, w *World) {
	name, ok := a.Name.Str(p, w)
	if !ok {
		return
	}
	v, ok := a.Value.Int(p, w)
	if !ok {
		return
	}
	if a.Global {
		w.GlobalFlags[name] = v
	} else {
		w.Flags[name] = v
	}
}

// Conditional branches on a condition each time it runs.
type Conditional struct {
	Cond Condition
	Then Action
	Else Action
}

func (a *Conditional) Act(p *Player, w *World) {
	if a.Cond.Evaluate(p, w) {
		if a.Then != nil {
			a.Then.Act(p, w)
		}
	} else if a.Else != nil {
		a.Else.Act(p, w)
	}
}

// PlaySound queues a sound effect.
type PlaySound struct {
	Name   StringProperty
	Speed  FloatProperty
	Volume FloatProperty
}

func (a *PlaySound) Act(p *Player, w *World) {
	name, ok := a.Name.Str(p, w)
	if !ok {
		return
	}
	speed := float32(1)
	if a.Speed != nil {
		if v, ok := a.Speed.Float(p, w); ok {
			speed = v
		}
	}
	volume := float32(1)
	if a.Volume != nil {
		if v, ok := a.Volume.Float(p, w); ok {
			volume = v
		}
	}
	w.Special.PlaySounds = append(w.Special.PlaySounds, SoundRequest{
		Name: name, Speed: speed, Volume: volume,
	})
}

// SetPlayerProperty writes a player field.
type SetPlayerProperty struct {
	Kind      PlayerPropertyKind
	IntValue  IntProperty
	BoolValue BoolProperty
}

func (a *SetPlayerProperty) Act(p *Player, w *World) {
	if p == nil {
		return
	}
	switch a.Kind {
	case PlayerPropX:
		if v, ok := a.IntValue.Int(p, w); ok {
			p.X = v * TileSize
			p.MoveTimer = 0
		}
	case PlayerPropY:
		if v, ok := a.IntValue.Int(p, w); ok {
			p.Y = v * TileSize
			p.MoveTimer = 0
		}
	case PlayerPropHeight:
		if v, ok := a.IntValue.Int(p, w); ok {
			p.Layer = v
		}
	case PlayerPropDreaming:
		if v, ok := a.BoolValue.Bool(p, w); ok {
			p.Dreaming = v
		}
	case PlayerPropCheckWalkable:
		if v, ok := a.BoolValue.Bool(p, w); ok {
			p.CheckWalkableOnNextFrame = v
		}
	}
}

// SetLevelProperty writes a world field.
type SetLevelProperty struct {
	Kind      LevelPropertyKind
	IntValue  IntProperty
	BoolValue BoolProperty
}

func (a *SetLevelProperty) Act(p *Player, w *World) {
	setChan := func(c *uint8) {
		if v, ok := a.IntValue.Int(p, w); ok {
			*c = uint8(common.Clamp(float32(v), 0, 255))
		}
	}
	switch a.Kind {
	case LevelPropTintR:
		setChan(&w.Tint.R)
	case LevelPropTintG:
		setChan(&w.Tint.G)
	case LevelPropTintB:
		setChan(&w.Tint.B)
	case LevelPropTintA:
		setChan(&w.Tint.A)
	case LevelPropBackgroundR:
		setChan(&w.Background.R)
	case LevelPropBackgroundG:
		setChan(&w.Background.G)
	case LevelPropBackgroundB:
		setChan(&w.Background.B)
	case LevelPropDefaultX:
		if v, ok := a.IntValue.Int(p, w); ok {
			if w.DefaultPos == nil {
				w.DefaultPos = &[2]int{}
			}
			w.DefaultPos[0] = v
		}
	case LevelPropDefaultY:
		if v, ok := a.IntValue.Int(p, w); ok {
			if w.DefaultPos == nil {
				w.DefaultPos = &[2]int{}
			}
			w.DefaultPos[1] = v
		}
	case LevelPropPaused:
		if v, ok := a.BoolValue.Bool(p, w); ok {
			w.Paused = v
		}
	case LevelPropSaveGame:
		if v, ok := a.BoolValue.Bool(p, w); ok {
			w.Special.SaveGame = v
		}
	}
}

// SetEntityProperty queues a write to the acting entity. The entity is
// out of the world list while its action runs, so the write lands
// after the call returns.
type SetEntityProperty struct {
	Kind  EntityPropertyKind
	Value IntProperty
}

func (a *SetEntityProperty) Act(_ *Player, w *World) {
	if !w.Special.EntityContext.EntityCall {
		return
	}
	w.Special.EntityContext.SetProperties = append(w.Special.EntityContext.SetProperties,
		EntityPropertyWrite{Kind: a.Kind, Value: a.Value})
}

// ChangeSong switches or mutates the background track. A nil Name
// keeps the current track; absent speed and volume keep their current
// values. SetDefaults also makes the new values the defaults fades
// restore to.
type ChangeSong struct {
	Name        StringProperty
	Speed       FloatProperty
	Volume      FloatProperty
	SetDefaults bool
}

func (a *ChangeSong) Act(p *Player, w *World) {
	name := w.Song.Name
	if a.Name != nil {
		if v, ok := a.Name.Str(p, w); ok {
			name = v
		}
	}
	speed := w.Song.Speed
	if a.Speed != nil {
		if v, ok := a.Speed.Float(p, w); ok {
			speed = v
		}
	}
	volume := w.Song.Volume
	if a.Volume != nil {
		if v, ok := a.Volume.Float(p, w); ok {
			volume = v
		}
	}
	w.Song.Change(name, speed, volume, a.SetDefaults)
}

// SetAnimationFrame pins a frame on a named entity's animator. The
// target is resolved when the deferred queue drains, after every
// entity is back in the list.
type SetAnimationFrame struct {
	Target StringProperty
	Frame  IntProperty
}

func (a *SetAnimationFrame) Act(p *Player, w *World) {
	name, ok := a.Target.Str(p, w)
	if !ok {
		return
	}
	frame, ok := a.Frame.Int(p, w)
	if !ok {
		return
	}
	w.Special.Defer(func(w *World) {
		e := w.EntityByName(name)
		if e == nil || e.Animator == nil {
			return
		}
		e.Animator.Manual = true
		e.Animator.SetFrame(frame)
	})
}

// Multiple runs its children in order. A Delayed child records the
// child index, and the deferred re-entry runs only that child before
// clearing the index again.
type Multiple struct {
	Actions []Action
}

func (a *Multiple) Act(p *Player, w *World) {
	if i := w.Special.MultipleActionIndex; i >= 0 {
		w.Special.MultipleActionIndex = -1
		if i < len(a.Actions) {
			a.Actions[i].Act(p, w)
		}
		return
	}
	for i, child := range a.Actions {
		w.Special.MultipleActionIndex = i
		child.Act(p, w)
		w.Special.MultipleActionIndex = -1
	}
}

// SetVariable writes a variable on the acting entity. Retain keeps
// the expression live so later reads re-evaluate it; otherwise the
// value is evaluated once and stored.
type SetVariable struct {
	Name   StringProperty
	Value  VariableValue
	Retain bool
}

func (a *SetVariable) Act(p *Player, w *World) {
	if !w.Special.EntityContext.EntityCall {
		return
	}
	name, ok := a.Name.Str(p, w)
	if !ok {
		return
	}
	if a.Retain {
		w.Special.EntityContext.Variables[name] = a.Value
		return
	}
	stored := a.Value
	switch a.Value.Kind {
	case VarInt:
		v, ok := a.Value.AsInt(p, w)
		if !ok {
			return
		}
		stored = LiteralInt(v)
	case VarFloat:
		v, ok := a.Value.AsFloat(p, w)
		if !ok {
			return
		}
		stored = LiteralFloat(v)
	case VarBool:
		v, ok := a.Value.AsBool(p, w)
		if !ok {
			return
		}
		stored = LiteralBool(v)
	case VarString:
		v, ok := a.Value.AsString(p, w)
		if !ok {
			return
		}
		stored = LiteralString(v)
	}
	w.Special.EntityContext.Variables[name] = stored
}

// Sit seats the player at a tile.
type Sit struct {
	X, Y IntProperty
	Dir  common.Direction
}

func (a *Sit) Act(p *Player, w *World) {
	x, ok := a.X.Int(p, w)
	if !ok {
		return
	}
	y, ok := a.Y.Int(p, w)
	if !ok {
		return
	}
	p.SitAt(x, y, a.Dir)
}

// LayDown lays the player at a tile.
type LayDown struct {
	X, Y IntProperty
	Dir  common.Direction
}

func (a *LayDown) Act(p *Player, w *World) {
	x, ok := a.X.Int(p, w)
	if !ok {
		return
	}
	y, ok := a.Y.Int(p, w)
	if !ok {
		return
	}
	p.LayDownAt(x, y, a.Dir)
}

// LayDownInPlace lays the player where they stand, nudged by Offset
// pixels in the facing direction.
type LayDownInPlace struct {
	Dir    common.Direction
	Offset int
}

func (a *LayDownInPlace) Act(p *Player, _ *World) {
	p.LayDownInPlace(a.Dir, a.Offset)
}

// RemoveEntity removes the acting entity at the end of the tick.
type RemoveEntity struct{}

func (RemoveEntity) Act(_ *Player, w *World) {
	if !w.Special.EntityContext.EntityCall {
		return
	}
	w.Special.EntityRemovalQueue = append(w.Special.EntityRemovalQueue, w.Special.EntityContext.ID)
}

// MovePlayer starts a player step. Forced moves skip collision and
// may cover a custom pixel distance.
type MovePlayer struct {
	Dir            common.Direction
	Forced         bool
	CustomDistance int
}

func (a *MovePlayer) Act(p *Player, w *World) {
	if p == nil {
		return
	}
	if !a.Forced {
		p.Move(a.Dir, w)
		return
	}
	p.Direction = a.Dir
	if p.Animator != nil {
		p.Animator.Face(a.Dir)
	}
	dist := a.CustomDistance
	if dist <= 0 {
		dist = MoveTimerMax
	}
	p.MoveTimer = dist
}

// PlayEvent starts a named screen event for the host to run.
type PlayEvent struct {
	Name string
}

func (a *PlayEvent) Act(_ *Player, w *World) {
	w.RunningScreenEvent = a.Name
}

// RandomMode selects how a Random action uses its draw.
type RandomMode int

const (
	// RandomChance runs the single child when the draw falls under
	// the probability.
	RandomChance RandomMode = iota
	// RandomSelect picks one child by the draw.
	RandomSelect
)

// Random runs children based on a draw from one of the RNG streams.
type Random struct {
	Mode    RandomMode
	Source  RandomSource
	Chance  float32
	Actions []Action
}

func (a *Random) Act(p *Player, w *World) {
	if len(a.Actions) == 0 {
		return
	}
	draw := w.Rand.Draw(a.Source)
	switch a.Mode {
	case RandomChance:
		if draw < a.Chance {
			a.Actions[0].Act(p, w)
		}
	case RandomSelect:
		i := int(draw * float32(len(a.Actions)))
		if i >= len(a.Actions) {
			i = len(a.Actions) - 1
		}
		a.Actions[i].Act(p, w)
	}
}

// SetLayerVisible shows or hides a map layer by name.
type SetLayerVisible struct {
	Name    StringProperty
	Visible BoolProperty
}

func (a *SetLayerVisible) Act(p *Player, w *World) {
	if w.Map == nil {
		return
	}
	name, ok := a.Name.Str(p, w)
	if !ok {
		return
	}
	visible, ok := a.Visible.Bool(p, w)
	if !ok {
		return
	}
	w.Map.SetLayerVisible(name, visible)
}
