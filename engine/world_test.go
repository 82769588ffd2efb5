package engine

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/milk9111/overworld/common"
)

func TestSetFlagConditionRoundTrip(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	set := &SetFlag{Name: StringLiteral("door_open"), Value: IntLiteral(1)}
	cond := IntEquals{Lhs: IntFlag{Name: StringLiteral("door_open")}, Rhs: IntLiteral(1)}

	if cond.Evaluate(p, w) {
		t.Fatalf("condition should be false before the flag is set")
	}
	set.Act(p, w)
	if !cond.Evaluate(p, w) {
		t.Fatalf("condition should be true after the flag is set")
	}
}

func TestMultipleRunsChildrenInOrder(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	m := &Multiple{Actions: []Action{
		&Print{Text: StringLiteral("a")},
		&Print{Text: StringLiteral("b")},
		&Print{Text: StringLiteral("c")},
	}}
	m.Act(p, w)

	got := w.Special.Messages
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected [a b c], got %v", got)
	}
	if w.Special.MultipleActionIndex != -1 {
		t.Fatalf("child index should be cleared after the sequence")
	}
}

func TestDelayedActionRunsAfterDelay(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "sign", 4*TileSize, 4*TileSize)
	e.Actions = append(e.Actions, &TriggeredAction{
		Trigger: UseTrigger{},
		Action:  &Delayed{Delay: 2, Inner: &Print{Text: StringLiteral("later")}},
	})
	w.Entities = append(w.Entities, e)

	w.runEntityAction(0, 0, p)
	if len(w.Special.Messages) != 0 {
		t.Fatalf("inner action should not run when first triggered")
	}
	if len(w.DeferredActions) != 1 {
		t.Fatalf("expected one queued entry, got %d", len(w.DeferredActions))
	}

	in := NewInputState()
	w.Update(p, in)
	if len(w.Special.Messages) != 0 {
		t.Fatalf("inner action ran one tick early")
	}
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "later" {
		t.Fatalf("expected [later], got %v", w.Special.Messages)
	}
	if len(w.DeferredActions) != 0 {
		t.Fatalf("queue should be empty after the drain")
	}
}

func TestDeferredQueueDrainsOnePerTick(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "sign", 4*TileSize, 4*TileSize)
	e.Actions = append(e.Actions,
		&TriggeredAction{Trigger: UseTrigger{}, Action: &Delayed{Delay: 1, Inner: &Print{Text: StringLiteral("first")}}},
		&TriggeredAction{Trigger: UseTrigger{}, Action: &Delayed{Delay: 1, Inner: &Print{Text: StringLiteral("second")}}},
	)
	w.Entities = append(w.Entities, e)

	w.runEntityAction(0, 0, p)
	w.runEntityAction(0, 1, p)
	if len(w.DeferredActions) != 2 {
		t.Fatalf("expected two queued entries, got %d", len(w.DeferredActions))
	}

	in := NewInputState()
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "first" {
		t.Fatalf("expected only the oldest entry to run, got %v", w.Special.Messages)
	}
	w.Update(p, in)
	if len(w.Special.Messages) != 2 || w.Special.Messages[1] != "second" {
		t.Fatalf("expected the second entry on the next tick, got %v", w.Special.Messages)
	}
}

func TestDelayedInsideMultipleResumesOneChild(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "sign", 4*TileSize, 4*TileSize)
	e.Actions = append(e.Actions, &TriggeredAction{
		Trigger: UseTrigger{},
		Action: &Multiple{Actions: []Action{
			&Print{Text: StringLiteral("a")},
			&Delayed{Delay: 2, Inner: &Print{Text: StringLiteral("b")}},
			&Print{Text: StringLiteral("c")},
		}},
	})
	w.Entities = append(w.Entities, e)

	w.runEntityAction(0, 0, p)
	got := w.Special.Messages
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected [a c] immediately, got %v", got)
	}
	if len(w.DeferredActions) != 1 || w.DeferredActions[0].MultipleActionIndex != 1 {
		t.Fatalf("queued entry should capture the delayed child index")
	}

	in := NewInputState()
	w.Update(p, in)
	w.Update(p, in)
	got = w.Special.Messages
	if len(got) != 3 || got[2] != "b" {
		t.Fatalf("expected only the delayed child on re-entry, got %v", got)
	}
}

func TestWarpWarnsWhenMapAbsent(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	// A variable read outside an entity call never resolves.
	warp := &Warp{
		Map: StringVariable{Name: StringLiteral("missing")},
		X:   IntLiteral(1),
		Y:   IntLiteral(1),
	}
	warp.Act(p, w)
	if w.QueuedLoad != nil {
		t.Fatalf("no load should be queued for an absent map")
	}
	if w.Transition.Active {
		t.Fatalf("no fade should start for an absent map")
	}
	if !strings.Contains(buf.String(), "warp") {
		t.Fatalf("expected a warning about the unresolved warp, got %q", buf.String())
	}
}

func TestWarpQueuesLoadBehindFade(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	warp := &Warp{Map: StringLiteral("cave"), X: IntLiteral(4), Y: IntLiteral(5), Dir: common.Up, FadeMusic: true}
	warp.Act(p, w)
	if w.QueuedLoad == nil || w.QueuedLoad.Map != "cave" {
		t.Fatalf("expected queued load for cave, got %v", w.QueuedLoad)
	}
	if !w.Transition.Active {
		t.Fatalf("fade should be active after a warp")
	}

	in := NewInputState()
	for i := 0; i < 20 && w.ReadyLoad == nil; i++ {
		w.Update(p, in)
	}
	if w.ReadyLoad == nil || w.ReadyLoad.X != 4 || w.ReadyLoad.Y != 5 {
		t.Fatalf("load should be ready at the fade peak, got %v", w.ReadyLoad)
	}
	if w.QueuedLoad != nil {
		t.Fatalf("queued load should move to ready exactly once")
	}
}

func TestWorldPausedDuringTransition(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	w.Transition.Begin(8, false, 0)

	in := NewInputState()
	in.Held[common.Right] = true
	before := p.X
	w.Update(p, in)
	if p.X != before || p.Moving() {
		t.Fatalf("player should not move while a fade is active")
	}
}

func TestFreezeAction(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	t.Run("zero_is_no_freeze", func(t *testing.T) {
		(&Freeze{Ticks: 0}).Act(p, w)
		if p.Frozen() {
			t.Fatalf("zero ticks should not freeze")
		}
	})

	t.Run("blocks_movement_until_expiry", func(t *testing.T) {
		(&Freeze{Ticks: 2}).Act(p, w)
		if !p.Frozen() {
			t.Fatalf("player should be frozen")
		}
		if p.Move(common.Right, w) {
			t.Fatalf("frozen player should not start a step")
		}
		in := NewInputState()
		w.Update(p, in)
		w.Update(p, in)
		if p.Frozen() {
			t.Fatalf("freeze should expire after two ticks")
		}
	})

	t.Run("sticky_holds_until_cleared", func(t *testing.T) {
		(&Freeze{Sticky: true}).Act(p, w)
		in := NewInputState()
		for i := 0; i < 10; i++ {
			w.Update(p, in)
		}
		if !p.Frozen() {
			t.Fatalf("a freeze without a time should hold")
		}
		if p.Move(common.Right, w) {
			t.Fatalf("held player should not start a step")
		}
		(&Freeze{Ticks: 0}).Act(p, w)
		if p.Frozen() {
			t.Fatalf("a zero-tick freeze should lift the hold")
		}
	})
}

func TestDelayedEdgeActionStaysOnEdgeList(t *testing.T) {
	w := testWorld(openMap(4, 4, nil, false))
	p := playerAt(0, 2)
	p.Direction = common.Left
	// A map action at the same index that must not run when the
	// deferred entry resumes.
	w.Actions = append(w.Actions, &TriggeredAction{
		Trigger: UseTrigger{},
		Action:  &Print{Text: StringLiteral("wrong list")},
	})
	w.EdgeActions = append(w.EdgeActions, &TriggeredAction{
		Trigger: SidedTrigger{Side: common.Left, Inner: WalkTrigger{}},
		Action:  &Delayed{Delay: 3, Inner: &Print{Text: StringLiteral("west exit")}},
	})

	in := NewInputState()
	in.Held[common.Left] = true
	w.Update(p, in)
	if len(w.DeferredActions) != 1 || !w.DeferredActions[0].Edge {
		t.Fatalf("expected one queued edge entry, got %+v", w.DeferredActions)
	}
	w.Update(p, NewInputState())
	if len(w.Special.Messages) != 0 {
		t.Fatalf("inner action ran one tick early, got %v", w.Special.Messages)
	}
	w.Update(p, NewInputState())
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "west exit" {
		t.Fatalf("expected [west exit], got %v", w.Special.Messages)
	}
}

func TestScreenEventSuppressesInput(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	(&PlayEvent{Name: "intro"}).Act(p, w)
	if w.RunningScreenEvent != "intro" {
		t.Fatalf("expected the event name on the world, got %q", w.RunningScreenEvent)
	}

	in := NewInputState()
	in.Held[common.Right] = true
	before := p.X
	for i := 0; i < 5; i++ {
		w.Update(p, in)
	}
	if p.X != before || p.Moving() {
		t.Fatalf("player should hold still while a screen event runs")
	}

	w.RunningScreenEvent = ""
	w.Update(p, in)
	if !p.Moving() {
		t.Fatalf("player should move again once the event clears")
	}
}

func TestUseTriggerFiresEntityAction(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	p.Direction = common.Right
	e := NewEntity(1, "sign", 3*TileSize, 2*TileSize)
	e.Actions = append(e.Actions, &TriggeredAction{
		Trigger: UseTrigger{},
		Action:  &Print{Text: StringLiteral("read me")},
	})
	w.Entities = append(w.Entities, e)

	in := NewInputState()
	in.UseJustPressed = true
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "read me" {
		t.Fatalf("expected the sign to fire, got %v", w.Special.Messages)
	}

	// A second tick without the press fires nothing.
	w.Update(p, NewInputState())
	if len(w.Special.Messages) != 1 {
		t.Fatalf("use should fire once per press, got %v", w.Special.Messages)
	}
}

func TestWalkTriggerFiresOnArrival(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	rug := NewEntity(1, "rug", 3*TileSize, 2*TileSize)
	rug.Solid = false
	rug.Actions = append(rug.Actions, &TriggeredAction{
		Trigger: WalkTrigger{},
		Action:  &Print{Text: StringLiteral("stepped")},
	})
	w.Entities = append(w.Entities, rug)

	in := NewInputState()
	in.Held[common.Right] = true
	for i := 0; i < 12 && len(w.Special.Messages) == 0; i++ {
		w.Update(p, in)
	}
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "stepped" {
		t.Fatalf("expected the rug to fire on arrival, got %v", w.Special.Messages)
	}
}

func TestBumpTriggerAndSides(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	wall := NewEntity(1, "statue", 3*TileSize, 2*TileSize)
	wall.Actions = append(wall.Actions,
		&TriggeredAction{
			Trigger: SidedTrigger{Side: common.Right, Inner: BumpTrigger{}},
			Action:  &Print{Text: StringLiteral("east side")},
		},
		&TriggeredAction{
			Trigger: SidedTrigger{Side: common.Left, Inner: BumpTrigger{}},
			Action:  &Print{Text: StringLiteral("west side")},
		},
	)
	w.Entities = append(w.Entities, wall)

	in := NewInputState()
	in.Held[common.Right] = true
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "east side" {
		t.Fatalf("expected only the east-side trigger, got %v", w.Special.Messages)
	}
}

func TestRemoveEntityAppliesAtEndOfTick(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	p.Direction = common.Right
	e := NewEntity(7, "coin", 3*TileSize, 2*TileSize)
	e.Actions = append(e.Actions, &TriggeredAction{
		Trigger: UseTrigger{},
		Action:  RemoveEntity{},
	})
	keeper := NewEntity(8, "keeper", 6*TileSize, 6*TileSize)
	w.Entities = append(w.Entities, e, keeper)

	in := NewInputState()
	in.UseJustPressed = true
	w.Update(p, in)
	if len(w.Entities) != 1 || w.Entities[0].ID != 8 {
		t.Fatalf("expected only the keeper to remain, got %d entities", len(w.Entities))
	}
}

func TestOnLoadRunsOnceAfterLoad(t *testing.T) {
	w := NewWorld("test", openMap(8, 8, nil, false), 1)
	p := playerAt(2, 2)
	w.Actions = append(w.Actions, &TriggeredAction{
		Trigger: OnLoadTrigger{},
		Action:  &Print{Text: StringLiteral("loaded")},
	})

	in := NewInputState()
	w.Update(p, in)
	w.Update(p, in)
	if len(w.Special.Messages) != 1 {
		t.Fatalf("load action should run exactly once, got %v", w.Special.Messages)
	}
}

func TestEffectSwitchTriggerFiresNextTick(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	w.Actions = append(w.Actions, &TriggeredAction{
		Trigger: EffectSwitchTrigger{},
		Action:  &Print{Text: StringLiteral("switched")},
	})

	in := NewInputState()
	(&GiveEffect{Effect: EffectGlasses}).Act(p, w)
	w.Update(p, in)
	if len(w.Special.Messages) != 0 {
		t.Fatalf("switch trigger should not fire on the grant tick")
	}
	if !p.HasEffect(EffectGlasses) {
		t.Fatalf("effect should be equipped at end of tick")
	}
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "switched" {
		t.Fatalf("expected the switch trigger on the next tick, got %v", w.Special.Messages)
	}
	w.Update(p, in)
	if len(w.Special.Messages) != 1 {
		t.Fatalf("switch trigger should fire once per change")
	}
}

func TestTickTriggerPeriod(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	w.Actions = append(w.Actions, &TriggeredAction{
		Trigger: TickTrigger{Period: 3},
		Action:  &Print{Text: StringLiteral("tick")},
	})

	in := NewInputState()
	for i := 0; i < 9; i++ {
		w.Update(p, in)
	}
	if len(w.Special.Messages) != 3 {
		t.Fatalf("expected 3 firings over 9 ticks, got %d", len(w.Special.Messages))
	}
}

func TestSetAnimationFrameResolvesByName(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "lever", 5*TileSize, 5*TileSize)
	e.Animator = NewSequence(0, 0, 4, AnimLoop)
	w.Entities = append(w.Entities, e)

	(&SetAnimationFrame{Target: StringLiteral("lever"), Frame: IntLiteral(2)}).Act(p, w)
	if e.Animator.Frame == 2 {
		t.Fatalf("frame write should wait for the end of the tick")
	}
	w.Update(p, NewInputState())
	if e.Animator.Frame != 2 || !e.Animator.Manual {
		t.Fatalf("expected frame 2 pinned, got %d manual=%v", e.Animator.Frame, e.Animator.Manual)
	}
}

func TestSetVariableStoredVersusRetained(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "counter", 5*TileSize, 5*TileSize)
	var snap, live int
	e.Actions = append(e.Actions,
		&TriggeredAction{Trigger: UseTrigger{}, Action: &SetVariable{
			Name:  StringLiteral("snapshot"),
			Value: ExprInt(IntFlag{Name: StringLiteral("n")}),
		}},
		&TriggeredAction{Trigger: UseTrigger{}, Action: &SetVariable{
			Name:   StringLiteral("live"),
			Value:  ExprInt(IntFlag{Name: StringLiteral("n")}),
			Retain: true,
		}},
		&TriggeredAction{Trigger: UseTrigger{}, Action: actionFunc(func(p *Player, w *World) {
			snap, _ = IntVariable{Name: StringLiteral("snapshot")}.Int(p, w)
			live, _ = IntVariable{Name: StringLiteral("live")}.Int(p, w)
		})},
	)
	w.Entities = append(w.Entities, e)

	w.Flags["n"] = 1
	w.runEntityAction(0, 0, p)
	w.runEntityAction(0, 1, p)
	w.Flags["n"] = 5
	w.runEntityAction(0, 2, p)
	if snap != 1 {
		t.Fatalf("stored variable should keep the value at set time, got %d", snap)
	}
	if live != 5 {
		t.Fatalf("retained variable should re-evaluate, got %d", live)
	}
}

func TestEdgeActionsFireOnMapEdge(t *testing.T) {
	w := testWorld(openMap(4, 4, nil, false))
	p := playerAt(0, 2)
	p.Direction = common.Left
	w.EdgeActions = append(w.EdgeActions, &TriggeredAction{
		Trigger: SidedTrigger{Side: common.Left, Inner: WalkTrigger{}},
		Action:  &Print{Text: StringLiteral("west exit")},
	})

	in := NewInputState()
	in.Held[common.Left] = true
	w.Update(p, in)
	if len(w.Special.Messages) != 1 || w.Special.Messages[0] != "west exit" {
		t.Fatalf("expected the west edge action, got %v", w.Special.Messages)
	}
}
