package main

import (
	"bytes"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/overworld/assets"
	"github.com/milk9111/overworld/engine"
)

// Sound plays the world's audio requests: the looping song and the
// effect queue from the special context.
type Sound struct {
	cache *assets.Cache

	musicName   string
	music       *audio.Player
	musicVolume float64
	soundVolume float64
}

func NewSound(cache *assets.Cache, musicVolume, soundVolume float64) *Sound {
	return &Sound{
		cache:       cache,
		musicVolume: musicVolume,
		soundVolume: soundVolume,
	}
}

// Update follows the song state and flushes queued sound effects.
func (s *Sound) Update(w *engine.World) {
	song := w.Song
	if song.Dirty {
		song.Dirty = false
		s.playSong(song.Name)
	}
	if s.music != nil {
		s.music.SetVolume(float64(song.Volume) * s.musicVolume)
	}

	for _, req := range w.Special.PlaySounds {
		p, err := s.cache.Player(req.Name)
		if err != nil {
			log.Printf("sound %s: %v", req.Name, err)
			continue
		}
		p.SetVolume(float64(req.Volume) * s.soundVolume)
		p.Play()
	}
	w.Special.PlaySounds = w.Special.PlaySounds[:0]
}

func (s *Sound) playSong(name string) {
	if s.music != nil {
		_ = s.music.Close()
		s.music = nil
	}
	s.musicName = name
	if name == "" {
		return
	}
	pcm, err := s.cache.Sound(name)
	if err != nil {
		log.Printf("song %s: %v", name, err)
		return
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	player, err := assets.Context().NewPlayer(loop)
	if err != nil {
		log.Printf("song %s: %v", name, err)
		return
	}
	s.music = player
	s.music.Play()
}

func (s *Sound) Close() {
	if s.music != nil {
		_ = s.music.Close()
		s.music = nil
	}
}
