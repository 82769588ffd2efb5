package engine

import "github.com/milk9111/overworld/common"

// TileSize is the edge length of a map tile in pixels.
const TileSize = 16

// SpecialTile holds the behavior flags a tile can carry beyond
// collision: staircases, ladders, speed modifiers, and footstep sound
// overrides.
type SpecialTile struct {
	Stairs     bool
	Ladder     bool
	SpeedMod   int
	StepSound  string
	StepVolume float32
}

func (s SpecialTile) IsZero() bool {
	return !s.Stairs && !s.Ladder && s.SpeedMod == 0 && s.StepSound == ""
}

// TileInfo is the resolved per-tile data from a tileset.
type TileInfo struct {
	Blocking bool
	Special  SpecialTile

	// Animation frames as local tile ids, advanced every
	// AnimationSpeed ticks. Empty for static tiles.
	AnimationFrames []uint32
	AnimationSpeed  int
}

// Tileset maps local tile ids to their info, anchored at FirstGID
// within the map's global id space.
type Tileset struct {
	Name     string
	Image    string
	FirstGID uint32
	Columns  int
	Count    int
	Tiles    map[uint32]TileInfo
}

// Tilemap is the static geometry of a loaded map: tile layers grouped
// by height, image layers, and the tilesets resolving their ids.
type Tilemap struct {
	Width, Height int
	Looping       bool
	Layers        []*Layer
	ImageLayers   []*ImageLayer
	Tilesets      []*Tileset
}

// Wrap maps a tile coordinate into bounds on looping maps. The second
// return is false when the coordinate is outside a non-looping map.
func (m *Tilemap) Wrap(x, y int) (int, int, bool) {
	if m.Looping {
		return common.Mod(x, m.Width), common.Mod(y, m.Height), true
	}
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, 0, false
	}
	return x, y, true
}

// resolve finds the tileset owning a global tile id.
func (m *Tilemap) resolve(gid uint32) (TileInfo, bool) {
	if gid == 0 {
		return TileInfo{}, false
	}
	for i := len(m.Tilesets) - 1; i >= 0; i-- {
		ts := m.Tilesets[i]
		if gid >= ts.FirstGID {
			info, ok := ts.Tiles[gid-ts.FirstGID]
			return info, ok
		}
	}
	return TileInfo{}, false
}

// Blocked reports whether any tile at the given height blocks the
// coordinate. Out of bounds on a non-looping map blocks.
func (m *Tilemap) Blocked(x, y, height int) bool {
	wx, wy, ok := m.Wrap(x, y)
	if !ok {
		return true
	}
	for _, l := range m.Layers {
		if l.Height != height || !l.Collide {
			continue
		}
		info, ok := m.resolve(l.At(wx, wy))
		if ok && info.Blocking {
			return true
		}
	}
	return false
}

// SpecialAt returns the topmost special tile at the coordinate and
// height, if any.
func (m *Tilemap) SpecialAt(x, y, height int) (SpecialTile, bool) {
	wx, wy, ok := m.Wrap(x, y)
	if !ok {
		return SpecialTile{}, false
	}
	for i := len(m.Layers) - 1; i >= 0; i-- {
		l := m.Layers[i]
		if l.Height != height {
			continue
		}
		info, ok := m.resolve(l.At(wx, wy))
		if ok && !info.Special.IsZero() {
			return info.Special, true
		}
	}
	return SpecialTile{}, false
}

// SetLayerVisible toggles a tile or image layer by name.
func (m *Tilemap) SetLayerVisible(name string, visible bool) bool {
	found := false
	for _, l := range m.Layers {
		if l.Name == name {
			l.Visible = visible
			found = true
		}
	}
	for _, l := range m.ImageLayers {
		if l.Name == name {
			l.Visible = visible
			found = true
		}
	}
	return found
}
