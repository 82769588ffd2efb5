package engine

import (
	"testing"

	"github.com/milk9111/overworld/common"
)

func TestChaserRadius(t *testing.T) {
	t.Run("zero_radius_never_chases", func(t *testing.T) {
		w := testWorld(openMap(10, 10, nil, false))
		p := playerAt(3, 3)
		e := NewEntity(1, "slime", 4*TileSize, 3*TileSize)
		c := NewChaser()
		c.DetectionRadius = 0
		e.AI = c
		w.Entities = append(w.Entities, e)

		x, y := e.X, e.Y
		for i := 0; i < 30; i++ {
			w.Update(p, NewInputState())
		}
		if e.X != x || e.Y != y {
			t.Fatalf("chaser with zero radius moved from (%d,%d) to (%d,%d)", x, y, e.X, e.Y)
		}
	})

	t.Run("closes_in_when_player_near", func(t *testing.T) {
		w := testWorld(openMap(10, 10, nil, false))
		p := playerAt(3, 3)
		e := NewEntity(1, "slime", 7*TileSize, 3*TileSize)
		e.AI = NewChaser()
		w.Entities = append(w.Entities, e)

		ex, _ := e.Tile()
		px, py := p.StandingTile()
		before := Manhattan(w.Map, ex, 3, px, py)
		for i := 0; i < 60; i++ {
			w.Update(p, NewInputState())
		}
		ex, ey := e.Tile()
		after := Manhattan(w.Map, ex, ey, px, py)
		if after >= before {
			t.Fatalf("chaser should close distance, %d -> %d", before, after)
		}
	})

	t.Run("astar_routes_around_wall", func(t *testing.T) {
		m := openMap(8, 8, [][2]int{{4, 2}, {4, 3}, {4, 4}}, false)
		w := testWorld(m)
		p := playerAt(2, 3)
		e := NewEntity(1, "slime", 6*TileSize, 3*TileSize)
		c := NewChaser()
		c.Pathfinder = PathAStar
		c.Speed = 2
		e.AI = c
		w.Entities = append(w.Entities, e)

		for i := 0; i < 400; i++ {
			w.Update(p, NewInputState())
		}
		ex, ey := e.Tile()
		px, py := p.StandingTile()
		if Manhattan(w.Map, ex, ey, px, py) > 1 {
			t.Fatalf("path-following chaser should reach the player, at (%d,%d)", ex, ey)
		}
	})
}

func TestPushableSlidesOnUse(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	p.Direction = common.Right
	crate := NewEntity(1, "crate", 3*TileSize, 2*TileSize)
	crate.AI = NewPushable()
	w.Entities = append(w.Entities, crate)

	in := NewInputState()
	in.Held[common.Right] = true
	w.Update(p, in)
	if crate.Moving() || crate.X != 3*TileSize {
		t.Fatalf("bumping the crate should not push it")
	}

	in = NewInputState()
	in.UseJustPressed = true
	w.Update(p, in)
	if !crate.Moving() && crate.X == 3*TileSize {
		t.Fatalf("use should start the crate sliding away")
	}
	for i := 0; i < 16; i++ {
		w.Update(p, NewInputState())
	}
	tx, _ := crate.Tile()
	if tx != 4 {
		t.Fatalf("crate should land one tile right, got x=%d", tx)
	}
}

func TestChaserBumpsOncePerStandstill(t *testing.T) {
	w := testWorld(openMap(10, 10, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "slime", 5*TileSize, 2*TileSize)
	c := NewChaser()
	c.Speed = 2
	e.AI = c
	e.Actions = append(e.Actions, &TriggeredAction{
		Trigger: BumpTrigger{},
		Action:  &Print{Text: StringLiteral("ouch")},
	})
	w.Entities = append(w.Entities, e)

	for i := 0; i < 300; i++ {
		w.Update(p, NewInputState())
	}
	hits := 0
	for _, msg := range w.Special.Messages {
		if msg == "ouch" {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("chaser should bump a standing player exactly once, got %d", hits)
	}
}

func TestChaserReplansWhenPlayerMoves(t *testing.T) {
	w := testWorld(openMap(12, 12, nil, false))
	p := playerAt(2, 2)
	e := NewEntity(1, "slime", 8*TileSize, 2*TileSize)
	c := NewChaser()
	c.Pathfinder = PathAStar
	c.Speed = 2
	e.AI = c
	w.Entities = append(w.Entities, e)

	for i := 0; i < 60; i++ {
		w.Update(p, NewInputState())
	}
	// Drop the player somewhere else entirely; the chaser has to
	// notice the new standing tile and route there.
	p.X, p.Y = 9*TileSize, 8*TileSize
	p.MoveTimer = 0
	for i := 0; i < 600; i++ {
		w.Update(p, NewInputState())
	}
	ex, ey := e.Tile()
	px, py := p.StandingTile()
	if Manhattan(w.Map, ex, ey, px, py) > 1 {
		t.Fatalf("chaser should follow the relocated player, at (%d,%d)", ex, ey)
	}
}

func TestChaserPathConsidersSolidEntities(t *testing.T) {
	// A wall with two gaps, the nearer one plugged by a solid crate.
	// The path has to route through the far gap.
	blocked := [][2]int{{4, 0}, {4, 2}, {4, 3}, {4, 4}, {4, 5}, {4, 7}}
	w := testWorld(openMap(8, 8, blocked, false))
	p := playerAt(2, 3)
	crate := NewEntity(2, "crate", 4*TileSize, 1*TileSize)
	e := NewEntity(1, "slime", 6*TileSize, 3*TileSize)
	c := NewChaser()
	c.Pathfinder = PathAStar
	c.Speed = 2
	e.AI = c
	w.Entities = append(w.Entities, crate, e)

	for i := 0; i < 800; i++ {
		w.Update(p, NewInputState())
	}
	ex, ey := e.Tile()
	px, py := p.StandingTile()
	if Manhattan(w.Map, ex, ey, px, py) > 1 {
		t.Fatalf("chaser should route around the crate, at (%d,%d)", ex, ey)
	}
	if cx, cy := crate.Tile(); cx != 4 || cy != 1 {
		t.Fatalf("crate should not have moved, at (%d,%d)", cx, cy)
	}
}

func TestWanderStaysOnGrid(t *testing.T) {
	w := testWorld(openMap(6, 6, nil, false))
	p := playerAt(0, 5)
	e := NewEntity(1, "npc", 3*TileSize, 3*TileSize)
	wander := NewWander()
	wander.Frequency = 2
	e.AI = wander
	w.Entities = append(w.Entities, e)

	movedOnce := false
	for i := 0; i < 300; i++ {
		w.Update(p, NewInputState())
		if e.Moving() {
			movedOnce = true
		}
		if !e.Moving() && (e.X%TileSize != 0 || e.Y%TileSize != 0) {
			t.Fatalf("idle wanderer should sit on the grid, at (%d,%d)", e.X, e.Y)
		}
	}
	if !movedOnce {
		t.Fatalf("wanderer never moved in 300 ticks")
	}
}

func TestBirdFleesAndDespawns(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(3, 4)
	bird := NewEntity(1, "bird", 4*TileSize, 3*TileSize)
	bird.AI = NewBird()
	w.Entities = append(w.Entities, bird)

	for i := 0; i < 300 && len(w.Entities) > 0; i++ {
		w.Update(p, NewInputState())
	}
	if len(w.Entities) != 0 {
		t.Fatalf("scared bird should fly off and despawn")
	}
}

func TestMoveStraightBounces(t *testing.T) {
	w := testWorld(openMap(5, 5, nil, false))
	p := playerAt(0, 4)
	e := NewEntity(1, "platformer", 2*TileSize, 2*TileSize)
	e.AI = NewMoveStraight(common.Right)
	w.Entities = append(w.Entities, e)

	seenLeft := false
	for i := 0; i < 200; i++ {
		w.Update(p, NewInputState())
		if e.Direction == common.Left && e.Moving() {
			seenLeft = true
		}
		tx, ty := e.Tile()
		if tx < 0 || ty < 0 || tx >= 5 || ty >= 5 {
			t.Fatalf("walker left the map at (%d,%d)", tx, ty)
		}
	}
	if !seenLeft {
		t.Fatalf("walker should bounce back at the map edge")
	}
}

func animChest(takes AnimateOnInteract) (*World, *Player, *Entity) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	p.Direction = common.Right
	e := NewEntity(1, "chest", 3*TileSize, 2*TileSize)
	e.Animator = NewSequence(0, 0, 3, AnimLoop)
	e.Animator.Manual = true
	e.AI = &takes
	w.Entities = append(w.Entities, e)
	return w, p, e
}

func TestAnimateOnInteract(t *testing.T) {
	t.Run("use_plays_one_pass", func(t *testing.T) {
		w, p, e := animChest(AnimateOnInteract{TakesUse: true, Frames: 3})

		in := NewInputState()
		in.UseJustPressed = true
		w.Update(p, in)

		advanced := false
		for i := 0; i < 60; i++ {
			w.Update(p, NewInputState())
			if e.Animator.Frame != 0 {
				advanced = true
			}
		}
		if !advanced {
			t.Fatalf("use should play the animation")
		}
		if e.Animator.Frame != 0 {
			t.Fatalf("animation should settle back on the idle frame, got %d", e.Animator.Frame)
		}
	})

	t.Run("unlisted_kind_is_ignored", func(t *testing.T) {
		w, p, e := animChest(AnimateOnInteract{TakesUse: true, Frames: 3})

		in := NewInputState()
		in.Held[common.Right] = true
		for i := 0; i < 40; i++ {
			w.Update(p, in)
			if e.Animator.Frame != 0 {
				t.Fatalf("bumping should not animate a use-only chest")
			}
		}
	})

	t.Run("side_filter_vetoes_other_approaches", func(t *testing.T) {
		side := common.Up
		w, p, e := animChest(AnimateOnInteract{TakesUse: true, Frames: 3, Side: &side})

		in := NewInputState()
		in.UseJustPressed = true
		w.Update(p, in)
		for i := 0; i < 40; i++ {
			w.Update(p, NewInputState())
			if e.Animator.Frame != 0 {
				t.Fatalf("use from the wrong side should not animate")
			}
		}
	})
}
