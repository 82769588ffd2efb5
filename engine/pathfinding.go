package engine

import (
	"math"
	"strings"

	"github.com/milk9111/overworld/common"
)

// AStarMaxSteps caps how many cells a single path search may expand.
const AStarMaxSteps = 10000

const unvisitedCost = math.MaxUint32/2 - 1

// WalkableFunc reports whether a tile coordinate can be stepped on.
type WalkableFunc func(tx, ty int) bool

// Manhattan is the grid distance between two tiles, taking the wrap
// shortcut on looping maps.
func Manhattan(m *Tilemap, ax, ay, bx, by int) int {
	dx := common.AbsInt(ax - bx)
	dy := common.AbsInt(ay - by)
	if m != nil && m.Looping {
		if wrap := m.Width - dx; wrap < dx {
			dx = wrap
		}
		if wrap := m.Height - dy; wrap < dy {
			dy = wrap
		}
	}
	return dx + dy
}

type pathCell struct {
	g, h    uint32
	dir     common.Direction
	hasDir  bool
	checked bool
}

// AStar searches a 4-connected path between two tiles and returns the
// step directions from start to target. The search relaxes on grid
// distance from the start, so costs stay admissible on looping maps.
func AStar(m *Tilemap, walkable WalkableFunc, sx, sy, tx, ty, maxSteps int) ([]common.Direction, bool) {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return nil, false
	}
	if maxSteps <= 0 || maxSteps > AStarMaxSteps {
		maxSteps = AStarMaxSteps
	}
	sx, sy, ok := m.Wrap(sx, sy)
	if !ok {
		return nil, false
	}
	tx, ty, ok = m.Wrap(tx, ty)
	if !ok {
		return nil, false
	}
	if sx == tx && sy == ty {
		return nil, true
	}

	cells := make([]pathCell, m.Width*m.Height)
	for i := range cells {
		cells[i].g = unvisitedCost
		cells[i].h = unvisitedCost
	}
	at := func(x, y int) *pathCell { return &cells[y*m.Width+x] }
	at(sx, sy).g = 0
	at(sx, sy).h = uint32(Manhattan(m, sx, sy, tx, ty))

	for step := 0; step < maxSteps; step++ {
		bestX, bestY := -1, -1
		var best *pathCell
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				c := at(x, y)
				if c.checked || c.g == unvisitedCost {
					continue
				}
				if best == nil || c.g+c.h < best.g+best.h ||
					(c.g+c.h == best.g+best.h && c.h < best.h) {
					best, bestX, bestY = c, x, y
				}
			}
		}
		if best == nil {
			return nil, false
		}
		best.checked = true
		if bestX == tx && bestY == ty {
			return reconstruct(m, cells, sx, sy, tx, ty)
		}
		for _, d := range common.Directions {
			nx, ny := bestX+d.X(), bestY+d.Y()
			nx, ny, ok := m.Wrap(nx, ny)
			if !ok || !walkable(nx, ny) {
				continue
			}
			nbr := at(nx, ny)
			g := uint32(Manhattan(m, sx, sy, nx, ny))
			if g < nbr.g {
				nbr.g = g
				nbr.h = uint32(Manhattan(m, nx, ny, tx, ty))
				nbr.dir = d.Flipped()
				nbr.hasDir = true
			}
		}
	}
	return nil, false
}

// reconstruct walks the back pointers from the target to the start
// and flips them into forward steps.
func reconstruct(m *Tilemap, cells []pathCell, sx, sy, tx, ty int) ([]common.Direction, bool) {
	var rev []common.Direction
	x, y := tx, ty
	for x != sx || y != sy {
		c := &cells[y*m.Width+x]
		if !c.hasDir || len(rev) > len(cells) {
			return nil, false
		}
		rev = append(rev, c.dir.Flipped())
		x, y = x+c.dir.X(), y+c.dir.Y()
		var ok bool
		x, y, ok = m.Wrap(x, y)
		if !ok {
			return nil, false
		}
	}
	path := make([]common.Direction, len(rev))
	for i, d := range rev {
		path[len(rev)-1-i] = d
	}
	return path, true
}

// WalkTowards greedily picks the single step that closes the larger
// axis gap, without any collision lookahead.
func WalkTowards(m *Tilemap, sx, sy, tx, ty int) common.Direction {
	dx := tx - sx
	dy := ty - sy
	if m != nil && m.Looping {
		dx = shorterWrap(dx, m.Width)
		dy = shorterWrap(dy, m.Height)
	}
	if common.AbsInt(dx) >= common.AbsInt(dy) {
		if dx < 0 {
			return common.Left
		}
		if dx > 0 {
			return common.Right
		}
	}
	if dy < 0 {
		return common.Up
	}
	return common.Down
}

// shorterWrap replaces a delta with its wrapped counterpart when that
// is the shorter way around.
func shorterWrap(d, size int) int {
	if size <= 0 {
		return d
	}
	if d > size/2 {
		return d - size
	}
	if d < -size/2 {
		return d + size
	}
	return d
}

// PathfinderKind selects how a chaser closes on its target.
type PathfinderKind int

const (
	// PathWalkTowards polls a greedy step every move.
	PathWalkTowards PathfinderKind = iota
	// PathAStar computes a full path and replays it.
	PathAStar
	// PathErratic steps in a random direction.
	PathErratic
)

func ParsePathfinderKind(s string) (PathfinderKind, bool) {
	switch strings.ToLower(s) {
	case "walk_towards", "walktowards", "":
		return PathWalkTowards, true
	case "astar", "a_star", "a*":
		return PathAStar, true
	case "erratic":
		return PathErratic, true
	}
	return PathWalkTowards, false
}

// Calculated reports whether the kind plans whole paths rather than
// polling one step at a time.
func (k PathfinderKind) Calculated() bool { return k == PathAStar }
