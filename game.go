package main

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/overworld/assets"
	"github.com/milk9111/overworld/config"
	"github.com/milk9111/overworld/engine"
	"github.com/milk9111/overworld/level"
	"github.com/milk9111/overworld/save"
)

const messageTicks = 240

type message struct {
	text string
	ttl  int
}

type Game struct {
	cfg    config.Config
	slot   int
	input  *Input
	loader *level.Loader
	cache  *assets.Cache
	sound  *Sound
	render *Renderer
	store  *save.Store

	watcher *level.Watcher

	world  *engine.World
	player *engine.Player

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	messages  []message
	steps     uint64
	playTicks uint64

	screenEvent      string
	screenEventTicks int
}

// screenEventDuration is how long a screen event's still stays up
// before play resumes on its own.
const screenEventDuration = 300

func NewGame(cfg config.Config, slot int) (*Game, error) {
	store, err := save.Open(cfg.SavePath)
	if err != nil {
		return nil, fmt.Errorf("open saves: %w", err)
	}

	cache := assets.NewCache(filepath.Join(cfg.MapDir, "..", "assets"))
	g := &Game{
		cfg:    cfg,
		slot:   slot,
		input:  NewInput(),
		loader: level.NewLoader(cfg.MapDir),
		cache:  cache,
		sound:  NewSound(cache, cfg.MasterVolume*cfg.MusicVolume, cfg.MasterVolume*cfg.SoundVolume),
		render: NewRenderer(cache),
		store:  store,
	}

	mapName := cfg.StartMap
	snap, err := store.Read(slot)
	haveSave := err == nil
	if err != nil && !errors.Is(err, save.ErrNoSave) {
		return nil, fmt.Errorf("read slot %d: %w", slot, err)
	}
	if haveSave {
		mapName = snap.Map
	}

	lvl, err := g.loader.Load(mapName)
	if err != nil {
		return nil, err
	}
	g.world = lvl.World
	g.player = engine.NewPlayer(lvl.PlayerX*engine.TileSize, lvl.PlayerY*engine.TileSize)
	if haveSave {
		save.Restore(snap, g.player, g.world)
		g.steps = snap.Steps
		g.playTicks = snap.PlayTicks
	}

	if cfg.Dev.WatchMaps {
		w, err := level.NewWatcher(cfg.MapDir)
		if err != nil {
			log.Printf("watch %s: %v", cfg.MapDir, err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if pauseJustPressed() {
		g.paused = !g.paused
		if g.paused && g.pauseUI == nil {
			g.pauseUI = NewPauseUI(g)
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.drainWatcher()

	wasX, wasY := g.player.X, g.player.Y
	g.world.Update(g.player, g.input.State())
	g.playTicks++
	if g.player.X != wasX || g.player.Y != wasY {
		g.steps++
	}

	for _, text := range g.world.Special.Messages {
		g.messages = append(g.messages, message{text: text, ttl: messageTicks})
	}
	g.world.Special.Messages = g.world.Special.Messages[:0]
	g.expireMessages()

	if g.world.Special.SaveGame {
		g.world.Special.SaveGame = false
		if err := g.save(); err != nil {
			log.Printf("save: %v", err)
		}
	}

	g.updateScreenEvent()
	g.sound.Update(g.world)

	if warp := g.world.ReadyLoad; warp != nil {
		g.world.ReadyLoad = nil
		if err := g.changeMap(warp); err != nil {
			log.Printf("warp to %s: %v", warp.Map, err)
		}
	}
	return nil
}

// changeMap swaps in the warp target, carrying over the state that
// outlives a map.
func (g *Game) changeMap(warp *engine.QueuedWarp) error {
	lvl, err := g.loader.Load(warp.Map)
	if err != nil {
		return err
	}
	prev := g.world
	g.world = lvl.World
	g.world.CarryOver(prev)
	g.world.Transition = prev.Transition

	g.player.X = warp.X * engine.TileSize
	g.player.Y = warp.Y * engine.TileSize
	g.player.Direction = warp.Dir
	g.player.MoveTimer = 0
	if lvl.Song != "" {
		g.world.Song.Change(lvl.Song, lvl.SongSpeed, lvl.SongVolume, true)
	}
	return nil
}

// drainWatcher reloads the current map in place when a watched file
// changes.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = true
		case err := <-g.watcher.Errors:
			log.Printf("watch: %v", err)
		default:
			if !changed {
				return
			}
			lvl, err := g.loader.Load(g.world.Name)
			if err != nil {
				log.Printf("reload %s: %v", g.world.Name, err)
				return
			}
			prev := g.world
			g.world = lvl.World
			g.world.CarryOver(prev)
			g.world.Flags = prev.Flags
			return
		}
	}
}

func (g *Game) save() error {
	snap := save.Capture(g.slot, g.player, g.world)
	snap.Steps = g.steps
	snap.PlayTicks = g.playTicks
	return g.store.Write(snap)
}

// updateScreenEvent runs the screen event the engine asked for: the
// event's still covers the world while the engine holds the player in
// place. Confirm skips it early; clearing the world field hands
// control back.
func (g *Game) updateScreenEvent() {
	ev := g.world.RunningScreenEvent
	if ev == "" {
		g.screenEvent = ""
		return
	}
	if g.screenEvent != ev {
		g.screenEvent = ev
		g.screenEventTicks = screenEventDuration
	}
	g.screenEventTicks--
	if g.screenEventTicks <= 0 || confirmJustPressed() {
		g.screenEvent = ""
		g.world.RunningScreenEvent = ""
	}
}

func (g *Game) drawScreenEvent(screen *ebiten.Image) {
	screen.Fill(color.Black)
	img, err := g.cache.Image(g.screenEvent)
	if err != nil {
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64((viewWidth-b.Dx())/2), float64((viewHeight-b.Dy())/2))
	screen.DrawImage(img, op)
}

func (g *Game) expireMessages() {
	kept := g.messages[:0]
	for i := range g.messages {
		g.messages[i].ttl--
		if g.messages[i].ttl > 0 {
			kept = append(kept, g.messages[i])
		}
	}
	g.messages = kept
}

func (g *Game) Draw(screen *ebiten.Image) {
	texts := make([]string, 0, len(g.messages))
	for _, m := range g.messages {
		texts = append(texts, m.text)
	}
	g.render.Draw(screen, g.world, g.player, texts)

	if g.screenEvent != "" {
		g.drawScreenEvent(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.cfg.Dev.ShowColliders {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d fps %.1f", g.world.Tick(), ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewWidth, viewHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.sound.Close()
	_ = g.store.Close()
}
