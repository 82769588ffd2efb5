package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/overworld/common"
	"github.com/milk9111/overworld/engine"
)

var directionKeys = map[common.Direction][]ebiten.Key{
	common.Up:    {ebiten.KeyArrowUp, ebiten.KeyW},
	common.Down:  {ebiten.KeyArrowDown, ebiten.KeyS},
	common.Left:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	common.Right: {ebiten.KeyArrowRight, ebiten.KeyD},
}

var useKeys = []ebiten.Key{ebiten.KeySpace, ebiten.KeyE, ebiten.KeyEnter}

// Input translates keyboard state into the engine's per-tick input.
type Input struct{}

func NewInput() *Input { return &Input{} }

func (in *Input) State() engine.InputState {
	s := engine.NewInputState()
	for d, keys := range directionKeys {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				s.Held[d] = true
			}
			if inpututil.IsKeyJustPressed(k) {
				s.JustPressed[d] = true
			}
		}
	}
	for _, k := range useKeys {
		if inpututil.IsKeyJustPressed(k) {
			s.UseJustPressed = true
		}
	}
	return s
}

func pauseJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

func confirmJustPressed() bool {
	for _, k := range useKeys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
