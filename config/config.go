package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the host configuration, read from a YAML file next to the
// executable. Every field has a playable default so a missing file is
// not an error.
type Config struct {
	WindowScale  int     `yaml:"window_scale"`
	Fullscreen   bool    `yaml:"fullscreen"`
	VSync        bool    `yaml:"vsync"`
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SoundVolume  float64 `yaml:"sound_volume"`

	MapDir   string `yaml:"map_dir"`
	StartMap string `yaml:"start_map"`
	SavePath string `yaml:"save_path"`

	Dev Dev `yaml:"dev"`
}

// Dev holds development-only switches.
type Dev struct {
	WatchMaps     bool `yaml:"watch_maps"`
	ShowColliders bool `yaml:"show_colliders"`
}

func Default() Config {
	return Config{
		WindowScale:  3,
		VSync:        true,
		MasterVolume: 1,
		MusicVolume:  1,
		SoundVolume:  1,
		MapDir:       "maps",
		StartMap:     "start.tmx",
		SavePath:     "saves.db",
	}
}

// Load reads the config file, falling back to defaults when the file
// does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	cfg.clamp()
	return cfg, nil
}

// Save writes the config back out.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) clamp() {
	if c.WindowScale < 1 {
		c.WindowScale = 1
	}
	clampVolume(&c.MasterVolume)
	clampVolume(&c.MusicVolume)
	clampVolume(&c.SoundVolume)
}

func clampVolume(v *float64) {
	if *v < 0 {
		*v = 0
	}
	if *v > 1 {
		*v = 1
	}
}
