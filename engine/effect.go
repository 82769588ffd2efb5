package engine

// Effect is a wearable player power. The world requests grants through
// the special context; the host applies them between ticks.
type Effect int

const (
	EffectGlasses Effect = iota
	EffectSpeed
	EffectFire
)

func ParseEffect(s string) (Effect, bool) {
	switch s {
	case "glasses":
		return EffectGlasses, true
	case "speed", "running_shoes":
		return EffectSpeed, true
	case "fire":
		return EffectFire, true
	}
	return EffectGlasses, false
}

func (e Effect) String() string {
	switch e {
	case EffectGlasses:
		return "glasses"
	case EffectSpeed:
		return "speed"
	}
	return "fire"
}

// Apply adjusts player state when the effect is equipped.
func (e Effect) Apply(p *Player) {
	if e == EffectSpeed {
		p.SpeedMod++
	}
}

// Remove undoes Apply.
func (e Effect) Remove(p *Player) {
	if e == EffectSpeed {
		p.SpeedMod--
	}
}
