package engine

import "github.com/milk9111/overworld/common"

// InputState is the host's per-tick view of the movement keys. The
// engine never reads the keyboard directly.
type InputState struct {
	Held           map[common.Direction]bool
	JustPressed    map[common.Direction]bool
	UseJustPressed bool
}

func NewInputState() InputState {
	return InputState{
		Held:        map[common.Direction]bool{},
		JustPressed: map[common.Direction]bool{},
	}
}

// Player is the avatar. The sprite is 16x32 pixels; X, Y anchor its
// top-left corner and collision covers the lower half.
type Player struct {
	X, Y      int
	Layer     int
	Direction common.Direction
	Speed     int
	MoveTimer int

	// SpeedMod comes from effects, TileSpeedMod from the tile the
	// player last stepped onto.
	SpeedMod     int
	TileSpeedMod int
	OnLadder     bool

	Animator *Animator

	Dreaming                 bool
	CheckWalkableOnNextFrame bool

	// LastDirection is the most recently pressed distinct direction,
	// used to break ties when several movement keys are held.
	LastDirection common.Direction

	freezeTimer int
	frozen      bool

	Sitting   bool
	LyingDown bool

	Current  *Effect
	Unlocked map[Effect]bool
	// EffectJustChanged arms effect-switch triggers for one tick.
	EffectJustChanged bool

	Money int
}

func NewPlayer(x, y int) *Player {
	return &Player{
		X:         x,
		Y:         y,
		Direction: common.Down,
		Speed:     2,
		Animator:  NewDirectional(3),
		Unlocked:  map[Effect]bool{},
	}
}

func (p *Player) Moving() bool { return p.MoveTimer > 0 }

func (p *Player) Frozen() bool { return p.frozen || p.freezeTimer > 0 }

// Freeze locks movement for n ticks. Zero lifts any active freeze,
// timed or indefinite.
func (p *Player) Freeze(n int) {
	p.freezeTimer = n
	if n == 0 {
		p.frozen = false
	}
}

// FreezeIndefinitely locks movement until a Freeze(0).
func (p *Player) FreezeIndefinitely() {
	p.frozen = true
}

// CollisionBox is the lower half of the sprite.
func (p *Player) CollisionBox() Box {
	return Box{X: p.X, Y: p.Y + TileSize, W: TileSize, H: TileSize}
}

// StandingTile is the grid cell under the player's feet.
func (p *Player) StandingTile() (int, int) {
	return common.FloorDiv(p.X, TileSize), common.FloorDiv(p.Y, TileSize) + 1
}

// FacingTile is the cell one step ahead of the player's feet.
func (p *Player) FacingTile() (int, int) {
	tx, ty := p.StandingTile()
	return tx + p.Direction.X(), ty + p.Direction.Y()
}

func (p *Player) HasEffect(e Effect) bool {
	return p.Current != nil && *p.Current == e
}

// EquipEffect unlocks and equips an effect, arming effect-switch
// triggers when the equipped effect actually changes.
func (p *Player) EquipEffect(e Effect) {
	p.Unlocked[e] = true
	if p.Current != nil {
		if *p.Current == e {
			return
		}
		p.Current.Remove(p)
	}
	c := e
	p.Current = &c
	e.Apply(p)
	p.EffectJustChanged = true
}

// effectiveSpeed is pixels per tick for the current step.
func (p *Player) effectiveSpeed() int {
	if p.OnLadder {
		return 1
	}
	s := p.Speed + p.SpeedMod + p.TileSpeedMod
	if s < 1 {
		s = 1
	}
	return s
}

// Move faces the direction and starts a grid step if the target tile
// is clear. Facing turns even on a blocked step. Stairs shift the
// player's layer as part of the step.
func (p *Player) Move(d common.Direction, w *World) bool {
	if p.Frozen() || p.Moving() || p.Sitting || p.LyingDown {
		return false
	}
	p.Direction = d
	if p.Animator != nil {
		p.Animator.Face(d)
	}
	if w == nil || w.Map == nil {
		return false
	}
	tx, ty := p.StandingTile()
	tx += d.X()
	ty += d.Y()

	layer := p.Layer
	special, hasSpecial := w.Map.SpecialAt(tx, ty, layer)
	if hasSpecial && special.Stairs {
		switch d {
		case common.Up:
			layer++
		case common.Down:
			layer--
		}
		if layer < 0 {
			layer = 0
		}
	}
	if w.Map.Blocked(tx, ty, layer) {
		return false
	}
	if w.Map.Looping {
		tx = common.Mod(tx, w.Map.Width)
		ty = common.Mod(ty, w.Map.Height)
	}
	target := TileBox(tx, ty)
	for _, e := range w.Entities {
		if e == nil || !e.Solid || e.Layer != p.Layer {
			continue
		}
		if e.AbsCollider().Intersects(target) {
			return false
		}
	}

	p.Layer = layer
	p.OnLadder = hasSpecial && special.Ladder
	if hasSpecial {
		p.TileSpeedMod = special.SpeedMod
	} else {
		p.TileSpeedMod = 0
	}
	p.MoveTimer = MoveTimerMax
	return true
}

// movementCheck starts a step from held keys. When several keys are
// held the last-pressed distinct direction wins the tie. It reports
// the chosen direction and whether the attempt happened and
// succeeded.
func (p *Player) movementCheck(in InputState, w *World) (common.Direction, bool, bool) {
	for _, d := range common.Directions {
		if in.JustPressed[d] {
			p.LastDirection = d
		}
	}
	if p.Moving() {
		return p.Direction, false, false
	}
	var held []common.Direction
	for _, d := range common.Directions {
		if in.Held[d] {
			held = append(held, d)
		}
	}
	switch {
	case len(held) == 1:
		return held[0], true, p.Move(held[0], w)
	case len(held) > 1:
		for _, d := range held {
			if d == p.LastDirection {
				return d, true, p.Move(d, w)
			}
		}
	}
	return p.Direction, false, false
}

// Update advances one tick of freeze, movement, and animation. Step
// sounds fire on the tick a step completes.
func (p *Player) Update(w *World) {
	if p.freezeTimer > 0 {
		p.freezeTimer--
	}
	if p.CheckWalkableOnNextFrame {
		p.CheckWalkableOnNextFrame = false
		if w != nil && w.Map != nil {
			tx, ty := p.StandingTile()
			if w.Map.Blocked(tx, ty, p.Layer) && w.DefaultPos != nil {
				p.X = w.DefaultPos[0] * TileSize
				p.Y = (w.DefaultPos[1] - 1) * TileSize
				p.MoveTimer = 0
			}
		}
	}
	if p.MoveTimer > 0 {
		step := p.effectiveSpeed()
		if step > p.MoveTimer {
			step = p.MoveTimer
		}
		p.X += p.Direction.X() * step
		p.Y += p.Direction.Y() * step
		p.MoveTimer -= step
		if p.MoveTimer <= 0 {
			p.MoveTimer = 0
			p.X = snapCoord(p.X)
			p.Y = snapCoord(p.Y)
			if w != nil && w.Map != nil {
				if w.Map.Looping {
					p.X = common.Mod(p.X, w.Map.Width*TileSize)
					p.Y = common.Mod(p.Y, w.Map.Height*TileSize)
				}
				tx, ty := p.StandingTile()
				if sp, ok := w.Map.SpecialAt(tx, ty, p.Layer); ok && sp.StepSound != "" {
					vol := sp.StepVolume
					if vol <= 0 {
						vol = 1
					}
					w.Special.PlaySounds = append(w.Special.PlaySounds, SoundRequest{
						Name:   sp.StepSound,
						Speed:  1,
						Volume: vol,
					})
				}
			}
		}
	}
	if p.Animator != nil {
		p.Animator.Step(p.Moving())
	}
}

// SitAt seats the player at a tile, facing the given way.
func (p *Player) SitAt(tx, ty int, d common.Direction) {
	p.X = tx * TileSize
	p.Y = (ty - 1) * TileSize
	p.MoveTimer = 0
	p.Direction = d
	p.Sitting = true
	p.LyingDown = false
	if p.Animator != nil {
		p.Animator.Face(d)
	}
}

// LayDownAt lays the player at a tile.
func (p *Player) LayDownAt(tx, ty int, d common.Direction) {
	p.X = tx * TileSize
	p.Y = (ty - 1) * TileSize
	p.MoveTimer = 0
	p.Direction = d
	p.Sitting = false
	p.LyingDown = true
	if p.Animator != nil {
		p.Animator.Face(d)
	}
}

// LayDownInPlace lays the player where they stand, nudged offset
// pixels toward the given direction.
func (p *Player) LayDownInPlace(d common.Direction, offset int) {
	p.X += d.X() * offset
	p.Y += d.Y() * offset
	p.MoveTimer = 0
	p.Direction = d
	p.Sitting = false
	p.LyingDown = true
	if p.Animator != nil {
		p.Animator.Face(d)
	}
}

// StandUp clears a sitting or lying pose.
func (p *Player) StandUp() {
	p.Sitting = false
	p.LyingDown = false
}
