package main

import (
	"bytes"
	"flag"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// spriteview plays through the cells of a sprite sheet so animation
// rows can be checked without loading a map.

type demoGame struct {
	frames      []*ebiten.Image
	current     int
	tick        int
	ticksPerFrm int
	scale       int
}

func (g *demoGame) Update() error {
	if len(g.frames) <= 1 {
		return nil
	}
	g.tick++
	if g.tick >= g.ticksPerFrm {
		g.tick = 0
		g.current++
		if g.current >= len(g.frames) {
			g.current = 0
		}
	}
	return nil
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	if len(g.frames) == 0 {
		return
	}
	fw := g.frames[0].Bounds().Dx() * g.scale
	fh := g.frames[0].Bounds().Dy() * g.scale
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	op.GeoM.Translate(float64((256-fw)/2), float64((256-fh)/2))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(g.frames[g.current], op)
}

func (g *demoGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 256
}

func loadFrames(path string, frameW, frameH int) []*ebiten.Image {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read %s: %v", path, err)
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		log.Printf("failed to decode %s: %v", path, err)
		return nil
	}
	sheet := ebiten.NewImageFromImage(img)
	cols := sheet.Bounds().Dx() / frameW
	rows := sheet.Bounds().Dy() / frameH
	frames := make([]*ebiten.Image, 0, cols*rows)
	for i := 0; i < cols*rows; i++ {
		col := i % cols
		row := i / cols
		r := image.Rect(col*frameW, row*frameH, col*frameW+frameW, row*frameH+frameH)
		frames = append(frames, sheet.SubImage(r).(*ebiten.Image))
	}
	return frames
}

func main() {
	sheet := flag.String("sheet", "", "path to a sprite sheet png")
	frameW := flag.Int("w", 16, "frame width in pixels")
	frameH := flag.Int("h", 32, "frame height in pixels")
	fps := flag.Int("fps", 8, "playback speed")
	scale := flag.Int("scale", 4, "display scale")
	flag.Parse()

	if *sheet == "" {
		log.Fatal("spriteview: -sheet is required")
	}
	frames := loadFrames(*sheet, *frameW, *frameH)
	ticks := 60 / *fps
	if ticks < 1 {
		ticks = 1
	}
	g := &demoGame{frames: frames, ticksPerFrm: ticks, scale: *scale}
	ebiten.SetWindowSize(512, 512)
	ebiten.SetWindowTitle("spriteview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
