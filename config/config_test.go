package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overworld.yaml")
	raw := "window_scale: 2\nmusic_volume: 0.5\nstart_map: village.tmx\ndev:\n  watch_maps: true\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowScale != 2 || cfg.MusicVolume != 0.5 || cfg.StartMap != "village.tmx" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.Dev.WatchMaps {
		t.Fatal("expected watch_maps on")
	}
	if cfg.MapDir != "maps" {
		t.Fatalf("expected unset fields to keep defaults, got %q", cfg.MapDir)
	}
}

func TestLoadClampsVolumes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overworld.yaml")
	raw := "window_scale: 0\nmaster_volume: 4\nsound_volume: -1\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowScale != 1 || cfg.MasterVolume != 1 || cfg.SoundVolume != 0 {
		t.Fatalf("expected clamped values, got %+v", cfg)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overworld.yaml")
	if err := os.WriteFile(path, []byte("window_scale: [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid yaml")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overworld.yaml")
	want := Default()
	want.Fullscreen = true
	want.SavePath = "slot.db"
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
