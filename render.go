package main

import (
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/overworld/assets"
	"github.com/milk9111/overworld/common"
	"github.com/milk9111/overworld/engine"
)

const (
	viewWidth  = 320
	viewHeight = 240
)

// Renderer draws one world frame: backdrops, tile layers, entities,
// the player, then the tint and fade overlays.
type Renderer struct {
	cache *assets.Cache
	face  ebtext.Face
	white *ebiten.Image

	missing map[string]bool
}

func NewRenderer(cache *assets.Cache) *Renderer {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Renderer{
		cache:   cache,
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
		white:   white,
		missing: map[string]bool{},
	}
}

func (r *Renderer) Draw(screen *ebiten.Image, w *engine.World, p *engine.Player, messages []string) {
	screen.Fill(w.Background)

	camX, camY := r.camera(w, p)

	for _, il := range w.Map.ImageLayers {
		r.drawImageLayer(screen, il, camX, camY)
	}

	playerDrawn := false
	for _, layer := range w.Map.Layers {
		if layer.Height > p.Layer && !playerDrawn {
			r.drawActors(screen, w, p, camX, camY)
			playerDrawn = true
		}
		r.drawTileLayer(screen, w, layer, camX, camY)
	}
	if !playerDrawn {
		r.drawActors(screen, w, p, camX, camY)
	}

	if w.Tint.A > 0 {
		r.fill(screen, w.Tint)
	}
	r.drawFade(screen, w.Transition)
	r.drawMessages(screen, messages)
}

// camera centers the view on the player, clamped to the map edges
// when the world asks for it.
func (r *Renderer) camera(w *engine.World, p *engine.Player) (int, int) {
	camX := p.X + engine.TileSize/2 - viewWidth/2
	camY := p.Y + engine.TileSize - viewHeight/2
	if w.ClampCamera {
		maxX := w.Map.Width*engine.TileSize - viewWidth
		maxY := w.Map.Height*engine.TileSize - viewHeight
		camX = clampInt(camX, 0, maxInt(maxX, 0))
		camY = clampInt(camY, 0, maxInt(maxY, 0))
	}
	return camX, camY
}

func (r *Renderer) drawImageLayer(screen *ebiten.Image, il *engine.ImageLayer, camX, camY int) {
	if !il.Visible || il.Image == "" {
		return
	}
	img := r.image(il.Image)
	if img == nil {
		return
	}
	bw, bh := img.Bounds().Dx(), img.Bounds().Dy()
	ox := int(il.OffsetX) - int(float32(camX)*il.ParallaxX)
	oy := int(il.OffsetY) - int(float32(camY)*il.ParallaxY)
	ox = common.Mod(ox, bw) - bw
	oy = common.Mod(oy, bh) - bh
	for y := oy; y < viewHeight; y += bh {
		for x := ox; x < viewWidth; x += bw {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			screen.DrawImage(img, op)
		}
	}
}

func (r *Renderer) drawTileLayer(screen *ebiten.Image, w *engine.World, layer *engine.Layer, camX, camY int) {
	if !layer.Visible {
		return
	}
	m := w.Map
	x0 := common.FloorDiv(camX, engine.TileSize)
	y0 := common.FloorDiv(camY, engine.TileSize)
	for ty := y0; ty <= y0+viewHeight/engine.TileSize+1; ty++ {
		for tx := x0; tx <= x0+viewWidth/engine.TileSize+1; tx++ {
			wx, wy, ok := m.Wrap(tx, ty)
			if !ok {
				continue
			}
			gid := layer.At(wx, wy)
			if gid == 0 {
				continue
			}
			sub := r.tileImage(w, gid)
			if sub == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(tx*engine.TileSize-camX), float64(ty*engine.TileSize-camY))
			screen.DrawImage(sub, op)
		}
	}
}

// tileImage resolves a global tile id to its sheet cell, advancing
// animated tiles off the world tick.
func (r *Renderer) tileImage(w *engine.World, gid uint32) *ebiten.Image {
	for i := len(w.Map.Tilesets) - 1; i >= 0; i-- {
		ts := w.Map.Tilesets[i]
		if gid < ts.FirstGID {
			continue
		}
		local := gid - ts.FirstGID
		if info, ok := ts.Tiles[local]; ok && len(info.AnimationFrames) > 0 && info.AnimationSpeed > 0 {
			step := int(w.Tick()) / info.AnimationSpeed
			local = info.AnimationFrames[step%len(info.AnimationFrames)]
		}
		sheet := r.image(ts.Image)
		if sheet == nil || ts.Columns <= 0 {
			return nil
		}
		sx := int(local) % ts.Columns * engine.TileSize
		sy := int(local) / ts.Columns * engine.TileSize
		return sheet.SubImage(image.Rect(sx, sy, sx+engine.TileSize, sy+engine.TileSize)).(*ebiten.Image)
	}
	return nil
}

func (r *Renderer) drawActors(screen *ebiten.Image, w *engine.World, p *engine.Player, camX, camY int) {
	var above []*engine.Entity
	for _, e := range w.Entities {
		if e == nil || !e.Visible || e.Layer != p.Layer {
			continue
		}
		if e.WalkBehind && p.Y < e.Y {
			above = append(above, e)
			continue
		}
		r.drawSprite(screen, e.Sprite, frameOf(e.Animator), e.X, e.Y, w, camX, camY)
	}
	r.drawSprite(screen, "player", p.Animator.Frame, p.X, p.Y+engine.TileSize, w, camX, camY)
	for _, e := range above {
		r.drawSprite(screen, e.Sprite, frameOf(e.Animator), e.X, e.Y, w, camX, camY)
	}
}

func frameOf(a *engine.Animator) int {
	if a == nil {
		return 0
	}
	return a.Frame
}

// drawSprite draws one sheet cell anchored at a tile position. Sheets
// whose height is a multiple of 32 use tall two-tile cells, so the
// anchor tile holds the feet.
func (r *Renderer) drawSprite(screen *ebiten.Image, name string, frame, x, y int, w *engine.World, camX, camY int) {
	if name == "" {
		return
	}
	sheet := r.image(name)
	if sheet == nil {
		return
	}
	cellW := engine.TileSize
	cellH := engine.TileSize
	if sheet.Bounds().Dy()%(2*engine.TileSize) == 0 {
		cellH = 2 * engine.TileSize
	}
	cols := sheet.Bounds().Dx() / cellW
	if cols <= 0 {
		return
	}
	sx := frame % cols * cellW
	sy := frame / cols * cellH
	sub := sheet.SubImage(image.Rect(sx, sy, sx+cellW, sy+cellH)).(*ebiten.Image)

	dx := x - camX
	dy := y - (cellH - engine.TileSize) - camY
	if w.Map.Looping {
		dx = wrapScreen(dx, w.Map.Width*engine.TileSize, viewWidth)
		dy = wrapScreen(dy, w.Map.Height*engine.TileSize, viewHeight)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(dx), float64(dy))
	screen.DrawImage(sub, op)
}

// wrapScreen picks the on-screen copy of a coordinate on a looping
// map.
func wrapScreen(d, worldSize, view int) int {
	d = common.Mod(d, worldSize)
	if d > view && d-worldSize > -2*engine.TileSize {
		d -= worldSize
	}
	return d
}

func (r *Renderer) drawFade(screen *ebiten.Image, t *engine.Transition) {
	if !t.Active && t.Progress <= 0 {
		return
	}
	alpha := common.Clamp(t.Progress, 0, 100) / 100
	r.fill(screen, color.RGBA{A: uint8(alpha * 255)})
}

func (r *Renderer) drawMessages(screen *ebiten.Image, messages []string) {
	if len(messages) == 0 {
		return
	}
	boxH := 14*len(messages) + 8
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(viewWidth), float64(boxH))
	op.GeoM.Translate(0, float64(viewHeight-boxH))
	op.ColorScale.ScaleWithColor(color.RGBA{A: 200})
	screen.DrawImage(r.white, op)

	for i, msg := range messages {
		top := &ebtext.DrawOptions{}
		top.GeoM.Translate(6, float64(viewHeight-boxH+4+14*i))
		ebtext.Draw(screen, msg, r.face, top)
	}
}

func (r *Renderer) fill(screen *ebiten.Image, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(viewWidth, viewHeight)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(r.white, op)
}

func (r *Renderer) image(name string) *ebiten.Image {
	img, err := r.cache.Image(name)
	if err != nil {
		if !r.missing[name] {
			r.missing[name] = true
			log.Printf("sprite %s: %v", name, err)
		}
		return nil
	}
	return img
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
