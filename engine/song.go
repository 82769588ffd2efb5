package engine

// Song is the current background music request. The host audio layer
// watches Dirty to know when to restart playback.
type Song struct {
	Name   string
	Speed  float32
	Volume float32

	DefaultSpeed  float32
	DefaultVolume float32

	Dirty bool
}

func NewSong(name string) *Song {
	return &Song{
		Name:          name,
		Speed:         1,
		Volume:        1,
		DefaultSpeed:  1,
		DefaultVolume: 1,
		Dirty:         name != "",
	}
}

// Change switches the track or mutates the playing one. setDefaults
// also makes the new speed and volume the defaults that fades restore
// to. Dirty is raised only when the track itself changes.
func (s *Song) Change(name string, speed, volume float32, setDefaults bool) {
	if name != s.Name {
		s.Dirty = true
	}
	s.Name = name
	s.Speed = speed
	s.Volume = volume
	if setDefaults {
		s.DefaultSpeed = speed
		s.DefaultVolume = volume
	}
}
