package engine

import "github.com/milk9111/overworld/common"

// AI drives an entity's autonomous behavior. Act runs once per tick
// while the world is unpaused.
type AI interface {
	Act(e *Entity, p *Player, w *World)
}

// interactionAI is implemented by behaviors that also react to direct
// player interactions.
type interactionAI interface {
	OnInteract(e *Entity, p *Player, w *World, ev TriggerEvent)
}

// Wander takes a random step roughly every Frequency ticks, then
// rests Delay ticks.
type Wander struct {
	Frequency int
	Delay     int
	Speed     int

	restLeft int
}

func NewWander() *Wander {
	return &Wander{Frequency: 100, Delay: 25, Speed: 2}
}

func (a *Wander) Act(e *Entity, p *Player, w *World) {
	if e.Moving() {
		return
	}
	if a.restLeft > 0 {
		a.restLeft--
		return
	}
	if a.Frequency <= 0 || w.Rand.Intn(a.Frequency) != 0 {
		return
	}
	d := common.Directions[w.Rand.Intn(len(common.Directions))]
	e.Speed = a.Speed
	e.Walk(d, w, p)
	a.restLeft = a.Delay
}

// Chaser pursues the player once they come within DetectionRadius
// tiles. Calculated pathfinders plan a full path and replay it,
// recomputing only when the player's standing tile changes; polled
// ones pick one step at a time. A step that would land on the player
// raises one bump interaction per tile.
type Chaser struct {
	Speed           int
	DetectionRadius int
	PathMax         int
	Pathfinder      PathfinderKind

	path                 []common.Direction
	init                 bool
	needsRecalc          bool
	playerTileX          int
	playerTileY          int
	lastWalkX, lastWalkY int
}

func NewChaser() *Chaser {
	return &Chaser{Speed: 1, DetectionRadius: 16, PathMax: AStarMaxSteps, Pathfinder: PathWalkTowards}
}

func (a *Chaser) Act(e *Entity, p *Player, w *World) {
	if p == nil || w.Map == nil {
		return
	}
	ex, ey := e.Tile()
	px, py := p.StandingTile()
	if !a.init {
		a.init = true
		a.needsRecalc = true
		a.playerTileX, a.playerTileY = px, py
		a.lastWalkX, a.lastWalkY = ex, ey
	} else if a.playerTileX != px || a.playerTileY != py {
		a.playerTileX, a.playerTileY = px, py
		a.needsRecalc = true
	}
	inRange := a.DetectionRadius > 0 && Manhattan(w.Map, ex, ey, px, py) <= a.DetectionRadius

	if a.Pathfinder.Calculated() {
		if inRange && a.needsRecalc && !e.Moving() {
			a.needsRecalc = false
			if path, ok := AStar(w.Map, chaserWalkable(e, w), ex, ey, px, py, a.PathMax); ok {
				a.path = path
			}
		}
		if inRange && len(a.path) > 0 && !e.Moving() {
			d := a.path[0]
			e.Speed = a.Speed
			if e.Walk(d, w, p) {
				a.path = a.path[1:]
			}
			a.bumpCheck(e, p, w, d, ex, ey)
		}
		return
	}

	if !inRange || e.Moving() {
		return
	}
	var d common.Direction
	switch a.Pathfinder {
	case PathErratic:
		d = common.Directions[w.Rand.Intn(len(common.Directions))]
	default:
		d = WalkTowards(w.Map, ex, ey, px, py)
	}
	e.Speed = a.Speed
	e.Walk(d, w, p)
	a.bumpCheck(e, p, w, d, ex, ey)
}

// bumpCheck raises a player-bump interaction when the attempted step
// lands on the player, deduped by the tile the step started from.
func (a *Chaser) bumpCheck(e *Entity, p *Player, w *World, d common.Direction, ex, ey int) {
	if e.WouldBumpPlayer(d, w, p) && (a.lastWalkX != ex || a.lastWalkY != ey) {
		w.Special.pendingBumps = append(w.Special.pendingBumps, pendingBump{EntityID: e.ID, Side: d})
	}
	a.lastWalkX, a.lastWalkY = ex, ey
}

// chaserWalkable is the path collision query: map blocking plus solid
// entities. The chasing entity is out of the world list while its
// behavior runs; the player is left out so the path can reach their
// tile.
func chaserWalkable(e *Entity, w *World) WalkableFunc {
	return func(tx, ty int) bool {
		if w.Map.Blocked(tx, ty, e.Layer) {
			return false
		}
		target := TileBox(tx, ty)
		for _, other := range w.Entities {
			if other == nil || other == e || !other.Solid {
				continue
			}
			if other.AbsCollider().Intersects(target) {
				return false
			}
		}
		return true
	}
}

// Pushable slides one tile away from the player when used. The stored
// interaction side faces the pusher, so the push goes the way they
// are facing.
type Pushable struct {
	Speed int
}

func NewPushable() *Pushable {
	return &Pushable{Speed: 2}
}

func (a *Pushable) Act(*Entity, *Player, *World) {}

func (a *Pushable) OnInteract(e *Entity, p *Player, w *World, ev TriggerEvent) {
	if ev.Kind != InteractUse || e.Moving() {
		return
	}
	e.Speed = a.Speed
	e.Walk(ev.Side.Flipped(), w, p)
}

// AnimateOnInteract advances the entity's animation Frames steps when
// a matching interaction arrives. The takes flags select which
// interaction kinds count, and Side narrows to one approach side.
type AnimateOnInteract struct {
	Frames    int
	TakesUse  bool
	TakesBump bool
	TakesWalk bool
	Side      *common.Direction

	ticksLeft int
}

func (a *AnimateOnInteract) Act(e *Entity, _ *Player, _ *World) {
	if a.ticksLeft <= 0 || e.Animator == nil {
		return
	}
	a.ticksLeft--
	speed := e.Animator.Speed
	if speed <= 0 {
		speed = 1
	}
	if a.ticksLeft%speed == 0 {
		e.Animator.advance()
	}
}

func (a *AnimateOnInteract) OnInteract(e *Entity, _ *Player, _ *World, ev TriggerEvent) {
	if e.Animator == nil || a.ticksLeft > 0 {
		return
	}
	matched := false
	switch ev.Kind {
	case InteractUse:
		matched = a.TakesUse
	case InteractBump:
		matched = a.TakesBump
	case InteractWalk:
		matched = a.TakesWalk
	}
	if a.Side != nil && ev.Side != *a.Side {
		matched = false
	}
	if !matched {
		return
	}
	e.Animator.Reset()
	frames := a.Frames
	if frames <= 0 {
		frames = 1
	}
	speed := e.Animator.Speed
	if speed <= 0 {
		speed = 1
	}
	a.ticksLeft = frames * speed
}

// Bird idles until the player comes within ScareRadius tiles, then
// flies off in the opposite direction and despawns once clear of the
// map.
type Bird struct {
	Speed       int
	ScareRadius int

	fleeing bool
	dir     common.Direction
}

func NewBird() *Bird {
	return &Bird{Speed: 2, ScareRadius: 4}
}

func (a *Bird) Act(e *Entity, p *Player, w *World) {
	if w.Map == nil {
		return
	}
	if !a.fleeing {
		if p == nil {
			return
		}
		ex, ey := e.Tile()
		px, py := p.StandingTile()
		if a.ScareRadius <= 0 || Manhattan(w.Map, ex, ey, px, py) > a.ScareRadius {
			return
		}
		a.fleeing = true
		a.dir = WalkTowards(w.Map, ex, ey, px, py).Flipped()
		e.Solid = false
		e.Direction = a.dir
		if e.Animator != nil {
			e.Animator.Face(a.dir)
		}
	}
	// Flight ignores collision.
	e.X += a.dir.X() * a.Speed
	e.Y += a.dir.Y() * a.Speed
	if w.Map.Looping {
		e.X = common.Mod(e.X, w.Map.Width*TileSize)
		e.Y = common.Mod(e.Y, w.Map.Height*TileSize)
		return
	}
	margin := 2 * TileSize
	if e.X < -margin || e.Y < -margin ||
		e.X > w.Map.Width*TileSize+margin || e.Y > w.Map.Height*TileSize+margin {
		w.Special.EntityRemovalQueue = append(w.Special.EntityRemovalQueue, e.ID)
	}
}

// MoveStraight walks in one direction forever, flipping at obstacles
// when Bounce is set and stopping otherwise.
type MoveStraight struct {
	Speed  int
	Dir    common.Direction
	Bounce bool

	stopped bool
}

func NewMoveStraight(d common.Direction) *MoveStraight {
	return &MoveStraight{Speed: 2, Dir: d, Bounce: true}
}

func (a *MoveStraight) Act(e *Entity, p *Player, w *World) {
	if a.stopped || e.Moving() {
		return
	}
	e.Speed = a.Speed
	if e.Walk(a.Dir, w, p) {
		return
	}
	if !a.Bounce {
		a.stopped = true
		return
	}
	a.Dir = a.Dir.Flipped()
	e.Walk(a.Dir, w, p)
}
