package engine

import "github.com/milk9111/overworld/common"

const DefaultAnimationSpeed = 5

// AnimationMode selects how a frame sequence advances.
type AnimationMode int

const (
	// AnimLoop wraps from the last frame back to the first.
	AnimLoop AnimationMode = iota
	// AnimCycle ping-pongs between the first and last frame.
	AnimCycle
)

type AnimatorKind int

const (
	AnimSingle AnimatorKind = iota
	AnimSequence
	AnimDirectional
)

// Animator drives a sprite's frame index. Sequence animators run over
// a fixed frame range; directional animators pick a sheet row per
// facing and cycle the walk columns within it.
type Animator struct {
	Kind AnimatorKind

	Start int
	Idle  int
	Len   int
	Mode  AnimationMode

	FramesPerDirection int

	Frame int
	Speed int

	// OnMove animators step only while the owner moves; Manual
	// animators step only through SetFrame.
	OnMove bool
	Manual bool

	timer    int
	cycleDir int
}

func NewSingleFrame(frame int) *Animator {
	return &Animator{Kind: AnimSingle, Frame: frame, Speed: DefaultAnimationSpeed}
}

func NewSequence(start, idle, length int, mode AnimationMode) *Animator {
	return &Animator{
		Kind:     AnimSequence,
		Start:    start,
		Idle:     idle,
		Len:      length,
		Mode:     mode,
		Frame:    idle,
		Speed:    DefaultAnimationSpeed,
		cycleDir: 1,
	}
}

func NewDirectional(framesPerDirection int) *Animator {
	a := &Animator{
		Kind:               AnimDirectional,
		FramesPerDirection: framesPerDirection,
		Speed:              DefaultAnimationSpeed,
		OnMove:             true,
		cycleDir:           1,
	}
	a.Frame = directionRow(common.Down)*framesPerDirection + framesPerDirection/2
	return a
}

// directionRow maps a facing to its spritesheet row.
func directionRow(d common.Direction) int {
	switch d {
	case common.Down:
		return 0
	case common.Up:
		return 1
	case common.Left:
		return 2
	}
	return 3
}

// Step advances the animation one tick. moving reports whether the
// owner is mid-move this tick.
func (a *Animator) Step(moving bool) {
	if a.Manual || a.Kind == AnimSingle {
		return
	}
	if a.OnMove && !moving {
		a.timer = 0
		if a.Kind == AnimDirectional {
			row := a.Frame / a.FramesPerDirection
			a.Frame = row*a.FramesPerDirection + a.FramesPerDirection/2
		}
		return
	}
	a.timer++
	if a.timer < a.Speed {
		return
	}
	a.timer = 0
	a.advance()
}

func (a *Animator) advance() {
	switch a.Kind {
	case AnimSequence:
		if a.Len <= 1 {
			return
		}
		switch a.Mode {
		case AnimLoop:
			a.Frame++
			if a.Frame >= a.Start+a.Len {
				a.Frame = a.Start
			}
		case AnimCycle:
			if a.cycleDir == 0 {
				a.cycleDir = 1
			}
			a.Frame += a.cycleDir
			if a.Frame >= a.Start+a.Len-1 {
				a.Frame = a.Start + a.Len - 1
				a.cycleDir = -1
			} else if a.Frame <= a.Start {
				a.Frame = a.Start
				a.cycleDir = 1
			}
		}
	case AnimDirectional:
		if a.FramesPerDirection <= 1 {
			return
		}
		row := a.Frame / a.FramesPerDirection
		col := a.Frame % a.FramesPerDirection
		if a.cycleDir == 0 {
			a.cycleDir = 1
		}
		col += a.cycleDir
		if col >= a.FramesPerDirection-1 {
			col = a.FramesPerDirection - 1
			a.cycleDir = -1
		} else if col <= 0 {
			col = 0
			a.cycleDir = 1
		}
		a.Frame = row*a.FramesPerDirection + col
	}
}

// Face reorients a directional animator, keeping the walk column.
func (a *Animator) Face(d common.Direction) {
	if a.Kind != AnimDirectional || a.FramesPerDirection == 0 {
		return
	}
	col := a.Frame % a.FramesPerDirection
	a.Frame = directionRow(d)*a.FramesPerDirection + col
}

// SetFrame pins the frame directly; used by scripted animation actions.
func (a *Animator) SetFrame(frame int) {
	a.Frame = frame
	a.timer = 0
}

// Reset returns the animator to its idle frame.
func (a *Animator) Reset() {
	a.timer = 0
	a.cycleDir = 1
	switch a.Kind {
	case AnimSequence:
		a.Frame = a.Idle
	case AnimDirectional:
		if a.FramesPerDirection > 0 {
			row := a.Frame / a.FramesPerDirection
			a.Frame = row*a.FramesPerDirection + a.FramesPerDirection/2
		}
	}
}
