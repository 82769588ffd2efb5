package engine

// Layer is one grid of tile ids at a fixed height level. Collide
// controls whether the layer's blocking tiles count for movement;
// purely decorative layers turn it off.
type Layer struct {
	Name    string
	Height  int
	Visible bool
	Collide bool
	Width   int
	Grid    []uint32
}

// At reads the global tile id at a tile coordinate. The caller is
// responsible for wrapping.
func (l *Layer) At(x, y int) uint32 {
	i := y*l.Width + x
	if i < 0 || i >= len(l.Grid) {
		return 0
	}
	return l.Grid[i]
}

// ImageLayer is a full-image backdrop with optional auto-scroll and
// parallax factors. Offsets accumulate every tick even while the
// world is paused.
type ImageLayer struct {
	Name      string
	Image     string
	Visible   bool
	ScrollX   float32
	ScrollY   float32
	ParallaxX float32
	ParallaxY float32
	OffsetX   float32
	OffsetY   float32
}

func (l *ImageLayer) Update() {
	l.OffsetX += l.ScrollX
	l.OffsetY += l.ScrollY
}
