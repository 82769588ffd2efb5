package engine

import "github.com/milk9111/overworld/common"

const (
	transitionDefaultSpeed = 8
	transitionPeak         = 100
)

// Transition is the screen fade used around warps and scripted
// blackouts. Progress runs 0..100 outward, holds at the peak, then
// runs back down. The world stays paused while a transition is active.
type Transition struct {
	Active    bool
	Progress  float32
	Direction float32
	Speed     float32
	FadeMusic bool
	Hold      int

	holdLeft int
	peaked   bool
}

func NewTransition() *Transition {
	t := &Transition{}
	t.restoreDefaults()
	return t
}

func (t *Transition) restoreDefaults() {
	t.Active = false
	t.Progress = 0
	t.Direction = 1
	t.Speed = transitionDefaultSpeed
	t.FadeMusic = true
	t.Hold = 0
	t.holdLeft = 0
	t.peaked = false
}

// Begin starts a fade-out with the given parameters. Zero speed falls
// back to the default.
func (t *Transition) Begin(speed float32, fadeMusic bool, hold int) {
	if speed <= 0 {
		speed = transitionDefaultSpeed
	}
	t.Active = true
	t.Progress = 0
	t.Direction = 1
	t.Speed = speed
	t.FadeMusic = fadeMusic
	t.Hold = hold
	t.holdLeft = hold
	t.peaked = false
}

// Update advances the fade one tick and returns true on the single
// tick the fade first reaches its peak, which is when a queued map
// load should apply.
func (t *Transition) Update(song *Song) bool {
	if !t.Active {
		return false
	}
	atPeak := false
	t.Progress += t.Direction * t.Speed
	if t.Direction > 0 && t.Progress >= transitionPeak {
		t.Progress = transitionPeak
		if !t.peaked {
			t.peaked = true
			atPeak = true
		}
		if t.holdLeft > 0 {
			t.holdLeft--
		} else {
			t.Direction = -1
		}
	} else if t.Direction < 0 && t.Progress <= -1 {
		fadeMusic := t.FadeMusic
		t.restoreDefaults()
		if song != nil && fadeMusic {
			song.Volume = song.DefaultVolume
		}
		return false
	}
	if song != nil && t.FadeMusic {
		f := common.Clamp(t.Progress, 0, transitionPeak) / transitionPeak
		song.Volume = common.Lerp(song.DefaultVolume, 0, f)
	}
	return atPeak
}
