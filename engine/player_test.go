package engine

import (
	"testing"

	"github.com/milk9111/overworld/common"
)

func TestPlayerMoveCompletesOneTile(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	if !p.Move(common.Right, w) {
		t.Fatalf("open step should start")
	}
	if !p.Moving() {
		t.Fatalf("player should be mid-step")
	}
	for i := 0; i < 16 && p.Moving(); i++ {
		p.Update(w)
	}
	tx, ty := p.StandingTile()
	if tx != 3 || ty != 2 {
		t.Fatalf("expected to stand on (3,2), got (%d,%d)", tx, ty)
	}
	if p.X%TileSize != 0 || p.Y%TileSize != 0 {
		t.Fatalf("position should snap to the grid, got (%d,%d)", p.X, p.Y)
	}
}

func TestPlayerMoveBlocked(t *testing.T) {
	cases := []struct {
		name    string
		blocked [][2]int
		start   [2]int
		dir     common.Direction
	}{
		{"wall_tile", [][2]int{{3, 2}}, [2]int{2, 2}, common.Right},
		{"map_edge", nil, [2]int{0, 2}, common.Left},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := testWorld(openMap(8, 8, c.blocked, false))
			p := playerAt(c.start[0], c.start[1])
			if p.Move(c.dir, w) {
				t.Fatalf("step should be blocked")
			}
			if p.Direction != c.dir {
				t.Fatalf("player should still face the blocked direction")
			}
		})
	}
}

func TestPlayerMoveBlockedBySolidEntity(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	w.Entities = append(w.Entities, NewEntity(1, "crate", 3*TileSize, 2*TileSize))

	if p.Move(common.Right, w) {
		t.Fatalf("solid entity should block the step")
	}

	w.Entities[0].Solid = false
	if !p.Move(common.Right, w) {
		t.Fatalf("non-solid entity should not block")
	}
}

func TestPlayerWrapsOnLoopingMap(t *testing.T) {
	w := testWorld(openMap(4, 4, nil, true))
	p := playerAt(0, 2)

	if !p.Move(common.Left, w) {
		t.Fatalf("looping map edge should not block")
	}
	for i := 0; i < 16 && p.Moving(); i++ {
		p.Update(w)
	}
	tx, _ := p.StandingTile()
	if tx != 3 {
		t.Fatalf("expected wrap to x=3, got %d", tx)
	}
}

func TestMovementCheckTieBreak(t *testing.T) {
	t.Run("last_pressed_wins", func(t *testing.T) {
		w := testWorld(openMap(8, 8, nil, false))
		p := playerAt(3, 3)
		p.Direction = common.Up
		p.LastDirection = common.Up

		// Left is the most recent press, so it wins the tie even
		// though the player faces up.
		in := NewInputState()
		in.Held[common.Up] = true
		in.Held[common.Left] = true
		in.JustPressed[common.Left] = true

		d, attempted, moved := p.movementCheck(in, w)
		if !attempted || !moved {
			t.Fatalf("expected a successful step")
		}
		if d != common.Left {
			t.Fatalf("last pressed direction should win the tie, got %v", d)
		}
	})

	t.Run("stale_last_press_blocks_the_tie", func(t *testing.T) {
		w := testWorld(openMap(8, 8, nil, false))
		p := playerAt(3, 3)
		p.LastDirection = common.Down

		in := NewInputState()
		in.Held[common.Up] = true
		in.Held[common.Left] = true

		if _, attempted, _ := p.movementCheck(in, w); attempted {
			t.Fatalf("no held direction matches the last press, expected no step")
		}
	})

	t.Run("single_held_direction_moves", func(t *testing.T) {
		w := testWorld(openMap(8, 8, nil, false))
		p := playerAt(3, 3)
		p.LastDirection = common.Down

		in := NewInputState()
		in.Held[common.Right] = true

		d, attempted, moved := p.movementCheck(in, w)
		if !attempted || !moved || d != common.Right {
			t.Fatalf("a single held direction should step, got %v %v %v", d, attempted, moved)
		}
	})
}

func TestStairsShiftLayer(t *testing.T) {
	m := openMap(4, 6, nil, false)
	m.Tilesets[0].Tiles[2] = TileInfo{Special: SpecialTile{Stairs: true}}
	m.Tilesets[0].Count = 3
	m.Layers[0].Grid[2*4+2] = 3 // stairs at (2,2)
	w := testWorld(m)
	p := playerAt(2, 3)

	if !p.Move(common.Up, w) {
		t.Fatalf("step onto stairs should start")
	}
	if p.Layer != 1 {
		t.Fatalf("moving up stairs should raise the layer, got %d", p.Layer)
	}
}

func TestStepSoundOnArrival(t *testing.T) {
	m := openMap(6, 6, nil, false)
	m.Tilesets[0].Tiles[2] = TileInfo{Special: SpecialTile{StepSound: "grass", StepVolume: 0.5}}
	m.Tilesets[0].Count = 3
	m.Layers[0].Grid[2*6+3] = 3 // grass at (3,2)
	w := testWorld(m)
	p := playerAt(2, 2)

	if !p.Move(common.Right, w) {
		t.Fatalf("step should start")
	}
	for i := 0; i < 16 && p.Moving(); i++ {
		p.Update(w)
	}
	if len(w.Special.PlaySounds) != 1 {
		t.Fatalf("expected one step sound, got %d", len(w.Special.PlaySounds))
	}
	s := w.Special.PlaySounds[0]
	if s.Name != "grass" || s.Volume != 0.5 {
		t.Fatalf("unexpected sound %+v", s)
	}
}

func TestSitAndStandUp(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)

	(&Sit{X: IntLiteral(4), Y: IntLiteral(4), Dir: common.Left}).Act(p, w)
	if !p.Sitting {
		t.Fatalf("player should be sitting")
	}
	tx, ty := p.StandingTile()
	if tx != 4 || ty != 4 {
		t.Fatalf("expected to sit at (4,4), got (%d,%d)", tx, ty)
	}
	if p.Move(common.Up, w) {
		t.Fatalf("sitting player should not move")
	}

	in := NewInputState()
	in.UseJustPressed = true
	w.Update(p, in)
	if p.Sitting {
		t.Fatalf("use should stand the player up")
	}
}

func TestLayDownInPlaceOffsets(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	p := playerAt(2, 2)
	x := p.X

	(&LayDownInPlace{Dir: common.Right, Offset: 4}).Act(p, w)
	if !p.LyingDown {
		t.Fatalf("player should be lying down")
	}
	if p.X != x+4 {
		t.Fatalf("expected a 4px nudge right, got %d -> %d", x, p.X)
	}
}

func TestMovePlayerForced(t *testing.T) {
	// Forced moves ignore the wall.
	w := testWorld(openMap(8, 8, [][2]int{{3, 2}}, false))
	p := playerAt(2, 2)

	(&MovePlayer{Dir: common.Right, Forced: true}).Act(p, w)
	if !p.Moving() {
		t.Fatalf("forced move should start even into a wall")
	}
	for i := 0; i < 16 && p.Moving(); i++ {
		p.Update(w)
	}
	tx, _ := p.StandingTile()
	if tx != 3 {
		t.Fatalf("expected forced step onto (3,2), got x=%d", tx)
	}
}

func TestSpeedEffectShortensStep(t *testing.T) {
	w := testWorld(openMap(8, 8, nil, false))
	slow := playerAt(2, 2)
	fast := playerAt(2, 4)
	fast.EquipEffect(EffectSpeed)

	slow.Move(common.Right, w)
	fast.Move(common.Right, w)
	slowTicks, fastTicks := 0, 0
	for slow.Moving() {
		slow.Update(w)
		slowTicks++
	}
	for fast.Moving() {
		fast.Update(w)
		fastTicks++
	}
	if fastTicks >= slowTicks {
		t.Fatalf("speed effect should finish the step sooner: %d vs %d", fastTicks, slowTicks)
	}
}
