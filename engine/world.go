package engine

import (
	"image/color"
	"sort"

	"github.com/milk9111/overworld/common"
)

// QueuedWarp is a pending map change, applied by the host when the
// screen fade reaches its peak.
type QueuedWarp struct {
	Map  string
	X, Y int
	Dir  common.Direction
}

// DeferredAction re-enters a triggered action after a delay. EntityID
// is -1 for map-level actions; Edge marks the action id as an index
// into the edge list instead. MultipleActionIndex narrows re-entry to
// one child of a multi-action.
type DeferredAction struct {
	Delay               int
	EntityID            int
	ActionID            int
	Edge                bool
	MultipleActionIndex int
}

// World is one loaded map plus all mutable simulation state. It runs
// on a single goroutine; Update advances exactly one tick.
type World struct {
	Name string
	Map  *Tilemap

	Entities []*Entity

	// Actions are map-level triggered actions; EdgeActions fire when
	// the player pushes against a map edge.
	Actions     []*TriggeredAction
	EdgeActions []*TriggeredAction

	// Flags are per-map; GlobalFlags is shared across map loads.
	Flags       map[string]int
	GlobalFlags map[string]int

	Special         *SpecialContext
	DeferredActions []DeferredAction

	Song       *Song
	Transition *Transition
	Rand       *Streams

	Tint       color.RGBA
	Background color.RGBA
	DefaultPos *[2]int

	// ClampCamera pins the view inside the map bounds.
	ClampCamera bool

	Paused             bool
	RunningScreenEvent string

	// QueuedLoad is set by warp actions; ReadyLoad moves there on the
	// fade peak tick for the host to consume.
	QueuedLoad *QueuedWarp
	ReadyLoad  *QueuedWarp

	tick       uint64
	justLoaded bool
}

func NewWorld(name string, m *Tilemap, seed int64) *World {
	return &World{
		Name:        name,
		Map:         m,
		Flags:       map[string]int{},
		GlobalFlags: map[string]int{},
		Special:     NewSpecialContext(),
		Song:        NewSong(""),
		Transition:  NewTransition(),
		Rand:        NewStreams(seed),
		Tint:        color.RGBA{A: 0},
		Background:  color.RGBA{A: 255},
		justLoaded:  true,
	}
}

// CarryOver moves the state that survives a map change from the
// previous world: global flags, the random streams, and the song.
func (w *World) CarryOver(prev *World) {
	if prev == nil {
		return
	}
	w.GlobalFlags = prev.GlobalFlags
	w.Rand = prev.Rand
	w.Rand.RedrawLevel()
	w.Song = prev.Song
}

func (w *World) Tick() uint64 { return w.tick }

func (w *World) EntityByID(id int) *Entity {
	for _, e := range w.Entities {
		if e != nil && e.ID == id {
			return e
		}
	}
	return nil
}

func (w *World) EntityByName(name string) *Entity {
	for _, e := range w.Entities {
		if e != nil && e.Name == name {
			return e
		}
	}
	return nil
}

func (w *World) entityIndexByID(id int) int {
	for i, e := range w.Entities {
		if e != nil && e.ID == id {
			return i
		}
	}
	return -1
}

// runWorldAction runs one map-level triggered action.
func (w *World) runWorldAction(actionID int, p *Player) {
	if actionID < 0 || actionID >= len(w.Actions) {
		return
	}
	w.Special.ActionID = actionID
	w.Special.EntityID = -1
	w.Actions[actionID].Action.Act(p, w)
	w.Special.clearEntityCall()
}

// runEdgeAction runs one edge triggered action. Edge actions have
// their own id space, so deferred re-entries carry the Edge mark.
func (w *World) runEdgeAction(actionID int, p *Player) {
	if actionID < 0 || actionID >= len(w.EdgeActions) {
		return
	}
	w.Special.ActionID = actionID
	w.Special.EntityID = -1
	w.Special.EdgeCall = true
	w.EdgeActions[actionID].Action.Act(p, w)
	w.Special.EdgeCall = false
	w.Special.clearEntityCall()
}

// runEntityAction runs one entity triggered action. The entity is
// swapped out of the list for the duration of the call so the action
// cannot alias it; reads go through the entity context snapshot and
// property writes land after the swap back.
func (w *World) runEntityAction(idx, actionID int, p *Player) {
	if idx < 0 || idx >= len(w.Entities) {
		return
	}
	e := w.Entities[idx]
	if e == nil || actionID < 0 || actionID >= len(e.Actions) {
		return
	}
	ta := e.Actions[actionID]
	tx, ty := e.Tile()
	w.Special.ActionID = actionID
	w.Special.EntityID = e.ID
	w.Special.EntityContext = EntityContext{
		EntityCall: true,
		ID:         e.ID,
		X:          tx,
		Y:          ty,
		Variables:  e.Variables,
	}
	w.Entities[idx] = nil
	ta.Action.Act(p, w)
	w.Entities[idx] = e
	for _, wr := range w.Special.EntityContext.SetProperties {
		v, ok := wr.Value.Int(p, w)
		if !ok {
			continue
		}
		switch wr.Kind {
		case EntityPropX:
			e.X = v * TileSize
			e.MoveTimer = 0
		case EntityPropY:
			e.Y = v * TileSize
			e.MoveTimer = 0
		}
	}
	w.Special.clearEntityCall()
}

// fireEntity offers an event to one entity's triggers and behavior.
func (w *World) fireEntity(idx int, ev TriggerEvent, p *Player) {
	e := w.Entities[idx]
	if e == nil {
		return
	}
	if ia, ok := e.AI.(interactionAI); ok {
		ia.OnInteract(e, p, w, ev)
	}
	for ai := range e.Actions {
		if e.Actions[ai].Trigger != nil && e.Actions[ai].Trigger.Fulfilled(ev) {
			w.runEntityAction(idx, ai, p)
		}
	}
}

// fireWorld offers an event to the map-level triggers.
func (w *World) fireWorld(ev TriggerEvent, p *Player) {
	for ai := range w.Actions {
		if w.Actions[ai].Trigger != nil && w.Actions[ai].Trigger.Fulfilled(ev) {
			w.runWorldAction(ai, p)
		}
	}
}

// Update advances one simulation tick.
func (w *World) Update(p *Player, in InputState) {
	// Backdrops scroll even while paused or fading.
	if w.Map != nil {
		for _, il := range w.Map.ImageLayers {
			il.Update()
		}
	}

	if w.Transition.Update(w.Song) {
		if w.QueuedLoad != nil {
			w.ReadyLoad = w.QueuedLoad
			w.QueuedLoad = nil
		}
	}
	if w.Paused || w.Transition.Active {
		return
	}
	w.tick++

	// A running screen event belongs to the host; the player holds
	// still until it clears.
	if w.RunningScreenEvent != "" {
		in = NewInputState()
	}

	// Autonomous behavior, each entity swapped out during its turn.
	for i := range w.Entities {
		e := w.Entities[i]
		if e == nil || e.AI == nil {
			continue
		}
		w.Entities[i] = nil
		e.AI.Act(e, p, w)
		w.Entities[i] = e
	}
	for _, pb := range w.Special.pendingBumps {
		idx := w.entityIndexByID(pb.EntityID)
		if idx < 0 {
			continue
		}
		w.fireEntity(idx, TriggerEvent{Kind: InteractBump, Side: pb.Side, Tick: w.tick}, p)
	}
	w.Special.pendingBumps = w.Special.pendingBumps[:0]
	for _, e := range w.Entities {
		if e != nil {
			e.Update(w.Map)
		}
	}

	// Player input and movement.
	usePressed := false
	useX, useY := 0, 0
	if in.UseJustPressed {
		if p.Sitting || p.LyingDown {
			p.StandUp()
		} else {
			usePressed = true
			useX, useY = p.FacingTile()
			if w.Map != nil && w.Map.Looping {
				useX = common.Mod(useX, w.Map.Width)
				useY = common.Mod(useY, w.Map.Height)
			}
		}
	}
	wasMoving := p.Moving()
	moveDir, attempted, moved := p.movementCheck(in, w)
	p.Update(w)
	arrived := (wasMoving || moved) && !p.Moving()

	// Direct interactions.
	if usePressed {
		ev := TriggerEvent{Kind: InteractUse, Side: p.Direction.Flipped(), Tick: w.tick}
		for i := range w.Entities {
			if w.Entities[i] != nil && w.Entities[i].ContainsInteractionPoint(useX, useY) {
				w.fireEntity(i, ev, p)
			}
		}
	}
	if arrived {
		tx, ty := p.StandingTile()
		ev := TriggerEvent{Kind: InteractWalk, Side: p.Direction.Flipped(), Tick: w.tick}
		for i := range w.Entities {
			if w.Entities[i] != nil && w.Entities[i].ContainsInteractionPoint(tx, ty) {
				w.fireEntity(i, ev, p)
			}
		}
	}
	if attempted && !moved {
		tx, ty := p.StandingTile()
		tx += moveDir.X()
		ty += moveDir.Y()
		if w.Map != nil && !w.Map.Looping &&
			(tx < 0 || ty < 0 || tx >= w.Map.Width || ty >= w.Map.Height) {
			ev := TriggerEvent{Kind: InteractWalk, Side: moveDir, Tick: w.tick}
			for ai := range w.EdgeActions {
				if w.EdgeActions[ai].Trigger.Fulfilled(ev) {
					w.runEdgeAction(ai, p)
				}
			}
		} else {
			if w.Map != nil && w.Map.Looping {
				tx = common.Mod(tx, w.Map.Width)
				ty = common.Mod(ty, w.Map.Height)
			}
			ev := TriggerEvent{Kind: InteractBump, Side: moveDir, Tick: w.tick}
			target := TileBox(tx, ty)
			for i := range w.Entities {
				e := w.Entities[i]
				if e != nil && e.Layer == p.Layer && e.AbsCollider().Intersects(target) {
					w.fireEntity(i, ev, p)
				}
			}
		}
	}

	// Periodic triggers.
	tickEv := TriggerEvent{Kind: InteractTick, Tick: w.tick}
	w.fireWorld(tickEv, p)
	for i := range w.Entities {
		w.fireEntity(i, tickEv, p)
	}

	w.drainOneDeferred(p)
	w.runFlagged(p)
	w.applyEndOfTick(p)
}

// drainOneDeferred ages the deferred queue and runs at most one ready
// entry, oldest first. Entries whose entity is gone are dropped.
func (w *World) drainOneDeferred(p *Player) {
	for i := range w.DeferredActions {
		w.DeferredActions[i].Delay--
	}
	for i := 0; i < len(w.DeferredActions); {
		d := w.DeferredActions[i]
		if d.Delay > 0 {
			i++
			continue
		}
		w.DeferredActions = append(w.DeferredActions[:i], w.DeferredActions[i+1:]...)
		if d.EntityID >= 0 {
			idx := w.entityIndexByID(d.EntityID)
			if idx < 0 {
				continue
			}
			w.Special.DelayedRun = true
			w.Special.MultipleActionIndex = d.MultipleActionIndex
			w.runEntityAction(idx, d.ActionID, p)
			w.Special.DelayedRun = false
			return
		}
		w.Special.DelayedRun = true
		w.Special.MultipleActionIndex = d.MultipleActionIndex
		if d.Edge {
			w.runEdgeAction(d.ActionID, p)
		} else {
			w.runWorldAction(d.ActionID, p)
		}
		w.Special.DelayedRun = false
		return
	}
}

// runFlagged runs the actions queued for this tick: the load pass
// right after a map change, and triggers armed by an effect switch.
func (w *World) runFlagged(p *Player) {
	if w.justLoaded {
		w.justLoaded = false
		ev := TriggerEvent{Kind: InteractLoad, Tick: w.tick}
		w.fireWorld(ev, p)
		for i := range w.Entities {
			w.fireEntity(i, ev, p)
		}
	}
	for ai := range w.Actions {
		if w.Actions[ai].RunOnNextLoop {
			w.Actions[ai].RunOnNextLoop = false
			w.runWorldAction(ai, p)
		}
	}
	for i := range w.Entities {
		e := w.Entities[i]
		if e == nil {
			continue
		}
		for ai := range e.Actions {
			if e.Actions[ai].RunOnNextLoop {
				e.Actions[ai].RunOnNextLoop = false
				w.runEntityAction(i, ai, p)
			}
		}
	}
}

// applyEndOfTick drains the special context: deferred mutations,
// entity removals, effect grants, and effect-switch arming.
func (w *World) applyEndOfTick(p *Player) {
	for _, fn := range w.Special.deferred {
		fn(w)
	}
	w.Special.deferred = w.Special.deferred[:0]

	if len(w.Special.EntityRemovalQueue) > 0 {
		var idxs []int
		for _, id := range w.Special.EntityRemovalQueue {
			if i := w.entityIndexByID(id); i >= 0 {
				idxs = append(idxs, i)
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
		prev := -1
		for _, i := range idxs {
			if i == prev {
				continue
			}
			prev = i
			w.Entities = append(w.Entities[:i], w.Entities[i+1:]...)
		}
		w.Special.EntityRemovalQueue = w.Special.EntityRemovalQueue[:0]
	}

	if w.Special.EffectGet != nil {
		p.EquipEffect(*w.Special.EffectGet)
		w.Special.EffectGet = nil
	}

	if p.EffectJustChanged {
		p.EffectJustChanged = false
		for _, ta := range w.Actions {
			if ta.Trigger != nil && containsEffectSwitch(ta.Trigger) {
				ta.RunOnNextLoop = true
			}
		}
		for _, e := range w.Entities {
			if e == nil {
				continue
			}
			for _, ta := range e.Actions {
				if ta.Trigger != nil && containsEffectSwitch(ta.Trigger) {
					ta.RunOnNextLoop = true
				}
			}
		}
	}
}
