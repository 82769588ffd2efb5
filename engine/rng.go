package engine

import "math/rand"

// RandomSource selects which of the four RNG streams a random action
// draws from.
type RandomSource int

const (
	// SourcePure draws a fresh value on every call.
	SourcePure RandomSource = iota
	// SourceSession is drawn once per process session.
	SourceSession
	// SourceLevel is drawn once per map load.
	SourceLevel
	// SourceSave is persisted with the save slot.
	SourceSave
)

// ParseRandomSource reads a stream name from map data.
func ParseRandomSource(s string) (RandomSource, bool) {
	switch s {
	case "pure", "":
		return SourcePure, true
	case "session":
		return SourceSession, true
	case "level":
		return SourceLevel, true
	case "save":
		return SourceSave, true
	}
	return SourcePure, false
}

// Streams holds the four random streams. Pure is a live generator;
// the other three are single values with fixed lifetimes: session for
// the process, level for one map load, save for one save slot.
type Streams struct {
	pure    *rand.Rand
	session float32
	level   float32
	save    float32
}

func NewStreams(seed int64) *Streams {
	r := rand.New(rand.NewSource(seed))
	return &Streams{
		pure:    r,
		session: r.Float32(),
		level:   r.Float32(),
		save:    r.Float32(),
	}
}

// Draw returns a value in [0, 1) from the selected stream.
func (s *Streams) Draw(src RandomSource) float32 {
	switch src {
	case SourceSession:
		return s.session
	case SourceLevel:
		return s.level
	case SourceSave:
		return s.save
	}
	return s.pure.Float32()
}

// RedrawLevel rolls a new level value. Called once per map load.
func (s *Streams) RedrawLevel() {
	s.level = s.pure.Float32()
}

// SetSave overwrites the save stream, typically after loading a slot.
func (s *Streams) SetSave(v float32) { s.save = v }

// SaveValue reports the save stream for persistence.
func (s *Streams) SaveValue() float32 { return s.save }

// Intn draws a bounded int from the pure stream.
func (s *Streams) Intn(n int) int { return s.pure.Intn(n) }

// Float32 draws from the pure stream.
func (s *Streams) Float32() float32 { return s.pure.Float32() }
