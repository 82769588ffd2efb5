package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

var audioContext = audio.NewContext(44100)

// Context returns the process audio context.
func Context() *audio.Context { return audioContext }

// Cache loads sprites and sounds from an asset directory, keeping
// decoded copies for reuse. Names resolve relative to the directory;
// sprite names may omit the .png extension.
type Cache struct {
	dir    string
	images map[string]*ebiten.Image
	sounds map[string][]byte
}

func NewCache(dir string) *Cache {
	return &Cache{
		dir:    dir,
		images: map[string]*ebiten.Image{},
		sounds: map[string][]byte{},
	}
}

// Image loads a sprite sheet by name.
func (c *Cache) Image(name string) (*ebiten.Image, error) {
	if img, ok := c.images[name]; ok {
		return img, nil
	}
	path := c.resolve(name, ".png")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	out := ebiten.NewImageFromImage(img)
	c.images[name] = out
	return out, nil
}

// Sound loads a sound or song by name. Wav and ogg are decoded to raw
// PCM; the bytes feed audio players directly.
func (c *Cache) Sound(name string) ([]byte, error) {
	if b, ok := c.sounds[name]; ok {
		return b, nil
	}
	path := c.resolve(name, ".wav")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}
	pcm, err := decodeAudio(path, raw)
	if err != nil {
		return nil, err
	}
	c.sounds[name] = pcm
	return pcm, nil
}

// Player builds a one-shot player for a sound effect.
func (c *Cache) Player(name string) (*audio.Player, error) {
	b, err := c.Sound(name)
	if err != nil {
		return nil, err
	}
	return audioContext.NewPlayerFromBytes(b), nil
}

func (c *Cache) resolve(name, defaultExt string) string {
	s := filepath.FromSlash(name)
	if filepath.Ext(s) == "" {
		s += defaultExt
	}
	return filepath.Join(c.dir, s)
}

func decodeAudio(path string, raw []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, err := wav.DecodeWithSampleRate(audioContext.SampleRate(), bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("assets: decode wav %s: %w", path, err)
		}
		return io.ReadAll(stream)
	case ".ogg":
		stream, err := vorbis.DecodeWithSampleRate(audioContext.SampleRate(), bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("assets: decode ogg %s: %w", path, err)
		}
		return io.ReadAll(stream)
	}
	// Raw PCM in the engine's native format.
	return raw, nil
}
