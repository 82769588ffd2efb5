package engine

import "github.com/milk9111/overworld/common"

// MoveTimerMax is the pixel distance of one grid step. A movement
// timer counts down from here to zero as the mover crosses one tile.
const MoveTimerMax = 16

// Box is an integer pixel rectangle.
type Box struct {
	X, Y, W, H int
}

func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

func (b Box) Intersects(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X && b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

func (b Box) Offset(dx, dy int) Box {
	b.X += dx
	b.Y += dy
	return b
}

// TileBox is the pixel rectangle of a tile coordinate.
func TileBox(tx, ty int) Box {
	return Box{X: tx * TileSize, Y: ty * TileSize, W: TileSize, H: TileSize}
}

// TriggeredAction pairs a trigger with the action it guards.
type TriggeredAction struct {
	Trigger Trigger
	Action  Action

	// RunOnNextLoop queues the action for the load/effect-switch
	// pass of the next tick.
	RunOnNextLoop bool
}

// Entity is one scripted object in the world. Position is in pixels,
// aligned to the tile grid except mid-step.
type Entity struct {
	ID        int
	Name      string
	X, Y      int
	Layer     int
	Direction common.Direction
	Speed     int
	MoveTimer int

	Sprite   string
	Animator *Animator
	Visible  bool

	// WalkBehind raises the entity one draw layer while the player
	// stands above it, so tall props cover the player.
	WalkBehind bool

	// Collider is relative to the entity position. Solid entities
	// block grid movement.
	Collider Box
	Solid    bool

	Actions   []*TriggeredAction
	AI        AI
	Variables map[string]VariableValue

	Sitting   bool
	LyingDown bool
}

func NewEntity(id int, name string, x, y int) *Entity {
	return &Entity{
		ID:        id,
		Name:      name,
		X:         x,
		Y:         y,
		Direction: common.Down,
		Speed:     2,
		Visible:   true,
		Collider:  Box{W: TileSize, H: TileSize},
		Solid:     true,
		Variables: map[string]VariableValue{},
	}
}

func (e *Entity) Moving() bool { return e.MoveTimer > 0 }

// Tile is the grid coordinate of the entity's anchor.
func (e *Entity) Tile() (int, int) {
	return common.FloorDiv(e.X, TileSize), common.FloorDiv(e.Y, TileSize)
}

// AbsCollider is the collider translated to world pixels.
func (e *Entity) AbsCollider() Box {
	return e.Collider.Offset(e.X, e.Y)
}

// ContainsInteractionPoint reports whether the entity's collider
// covers the center of a tile. Interactions aim at tile centers so
// oversized colliders still catch them.
func (e *Entity) ContainsInteractionPoint(tx, ty int) bool {
	return e.AbsCollider().Contains(tx*TileSize+TileSize/2, ty*TileSize+TileSize/2)
}

func snapCoord(v int) int {
	return common.FloorDiv(v+TileSize/2, TileSize) * TileSize
}

func (e *Entity) snap(m *Tilemap) {
	e.X = snapCoord(e.X)
	e.Y = snapCoord(e.Y)
	if m != nil && m.Looping {
		e.X = common.Mod(e.X, m.Width*TileSize)
		e.Y = common.Mod(e.Y, m.Height*TileSize)
	}
}

// Update advances one tick of movement and animation.
func (e *Entity) Update(m *Tilemap) {
	if e.MoveTimer > 0 {
		step := e.Speed
		if step <= 0 {
			step = 1
		}
		if step > e.MoveTimer {
			step = e.MoveTimer
		}
		e.X += e.Direction.X() * step
		e.Y += e.Direction.Y() * step
		e.MoveTimer -= step
		if e.MoveTimer <= 0 {
			e.MoveTimer = 0
			e.snap(m)
		}
	}
	if e.Animator != nil {
		e.Animator.Step(e.Moving())
	}
}

// CanMove reports whether a step in the direction is clear of map
// collision, solid entities, and the player.
func (e *Entity) CanMove(d common.Direction, w *World, p *Player) bool {
	if e.Moving() || e.Sitting || e.LyingDown {
		return false
	}
	tx, ty := e.Tile()
	tx += d.X()
	ty += d.Y()
	if w != nil && w.Map != nil {
		if w.Map.Blocked(tx, ty, e.Layer) {
			return false
		}
		if w.Map.Looping {
			tx = common.Mod(tx, w.Map.Width)
			ty = common.Mod(ty, w.Map.Height)
		}
	}
	target := TileBox(tx, ty)
	if w != nil {
		for _, other := range w.Entities {
			if other == nil || other == e || !other.Solid {
				continue
			}
			if other.AbsCollider().Intersects(target) {
				return false
			}
		}
	}
	if p != nil && p.Layer == e.Layer && p.CollisionBox().Intersects(target) {
		return false
	}
	return true
}

// WouldBumpPlayer reports whether a step in the direction would land
// on the player.
func (e *Entity) WouldBumpPlayer(d common.Direction, w *World, p *Player) bool {
	if p == nil || p.Layer != e.Layer {
		return false
	}
	tx, ty := e.Tile()
	tx += d.X()
	ty += d.Y()
	if w != nil && w.Map != nil && w.Map.Looping {
		tx = common.Mod(tx, w.Map.Width)
		ty = common.Mod(ty, w.Map.Height)
	}
	return p.CollisionBox().Intersects(TileBox(tx, ty))
}

// Walk faces the direction and begins a grid step if the way is
// clear. The facing turns even when the step is blocked.
func (e *Entity) Walk(d common.Direction, w *World, p *Player) bool {
	e.Direction = d
	if e.Animator != nil {
		e.Animator.Face(d)
	}
	if !e.CanMove(d, w, p) {
		return false
	}
	e.MoveTimer = MoveTimerMax
	return true
}

// Sit pins the entity to a sitting pose at a tile.
func (e *Entity) Sit(tx, ty int, d common.Direction) {
	e.X = tx * TileSize
	e.Y = ty * TileSize
	e.MoveTimer = 0
	e.Direction = d
	e.Sitting = true
	e.LyingDown = false
	if e.Animator != nil {
		e.Animator.Face(d)
	}
}

// LayDown pins the entity to a lying pose at a tile.
func (e *Entity) LayDown(tx, ty int, d common.Direction) {
	e.X = tx * TileSize
	e.Y = ty * TileSize
	e.MoveTimer = 0
	e.Direction = d
	e.Sitting = false
	e.LyingDown = true
	if e.Animator != nil {
		e.Animator.Face(d)
	}
}

// StandUp clears any sitting or lying pose.
func (e *Entity) StandUp() {
	e.Sitting = false
	e.LyingDown = false
}
