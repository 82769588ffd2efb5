package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/overworld/config"
)

func main() {
	configPath := flag.String("config", "overworld.yaml", "path to the config file")
	mapName := flag.String("map", "", "start map in the map dir (overrides config)")
	slot := flag.Int("slot", 1, "save slot to load and write")
	watch := flag.Bool("watch", false, "reload maps on change")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mapName != "" {
		cfg.StartMap = *mapName
	}
	if *watch {
		cfg.Dev.WatchMaps = true
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(viewWidth*cfg.WindowScale, viewHeight*cfg.WindowScale)
	ebiten.SetWindowTitle("overworld")
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.VSync)

	game, err := NewGame(cfg, *slot)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
