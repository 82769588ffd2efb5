package level

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lafriks/go-tiled"

	"github.com/milk9111/overworld/common"
	"github.com/milk9111/overworld/engine"
)

type imageLayerMotion struct {
	ScrollX   float32 `json:"scroll_x"`
	ScrollY   float32 `json:"scroll_y"`
	ParallaxX float32 `json:"parallax_x"`
	ParallaxY float32 `json:"parallax_y"`
}

// Level is one loaded map, ready to simulate.
type Level struct {
	World            *engine.World
	PlayerX, PlayerY int

	Song       string
	SongSpeed  float32
	SongVolume float32
}

// Loader reads Tiled maps from a directory and assembles worlds from
// them. Script fragments and property files referenced by name resolve
// against the same directory unless Fragments is set.
type Loader struct {
	Dir       string
	Fragments FragmentLookup
	Seed      int64
}

func NewLoader(dir string) *Loader {
	l := &Loader{Dir: dir, Seed: time.Now().UnixNano()}
	l.Fragments = func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, filepath.Base(name)))
	}
	return l
}

// Load reads one map by file name.
func (l *Loader) Load(name string) (*Level, error) {
	path := filepath.Join(l.Dir, name)
	m, err := tiled.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", name, err)
	}
	return l.build(name, m)
}

func (l *Loader) build(name string, m *tiled.Map) (*Level, error) {
	props := tiled.Properties{}
	if m.Properties != nil {
		props = *m.Properties
	}

	tm := &engine.Tilemap{
		Width:   m.Width,
		Height:  m.Height,
		Looping: props.GetBool("looping"),
	}

	for _, ts := range m.Tilesets {
		set := &engine.Tileset{
			Name:     ts.Name,
			FirstGID: ts.FirstGID,
			Columns:  ts.Columns,
			Count:    ts.TileCount,
			Tiles:    map[uint32]engine.TileInfo{},
		}
		if ts.Image != nil {
			set.Image = ts.Image.Source
		}
		for _, tt := range ts.Tiles {
			info := engine.TileInfo{
				Blocking: tt.Properties.GetBool("blocking"),
				Special: engine.SpecialTile{
					Stairs:   tt.Properties.GetBool("stairs"),
					Ladder:   tt.Properties.GetBool("ladder"),
					SpeedMod: tt.Properties.GetInt("speed_mod"),
				},
			}
			if s := tt.Properties.GetString("step"); s != "" {
				info.Special.StepSound = s
				info.Special.StepVolume = 0.25
			}
			if hasProp(tt.Properties, "step_volume") {
				if info.Special.StepSound == "" {
					info.Special.StepSound = "step"
				}
				info.Special.StepVolume = float32(tt.Properties.GetFloat("step_volume"))
			}
			for _, fr := range tt.Animation {
				info.AnimationFrames = append(info.AnimationFrames, fr.TileID)
				if info.AnimationSpeed == 0 && fr.Duration > 0 {
					// Tiled stores milliseconds, the engine counts
					// ticks at 60 per second.
					info.AnimationSpeed = int(fr.Duration) * 60 / 1000
				}
			}
			set.Tiles[tt.ID] = info
		}
		tm.Tilesets = append(tm.Tilesets, set)
	}

	for _, layer := range m.Layers {
		grid := make([]uint32, m.Width*m.Height)
		for i, t := range layer.Tiles {
			if t == nil || t.IsNil() || i >= len(grid) {
				continue
			}
			grid[i] = t.Tileset.FirstGID + t.ID
		}
		el := &engine.Layer{
			Name:    layer.Name,
			Height:  layer.Properties.GetInt("height"),
			Visible: layer.Visible,
			Collide: true,
			Width:   m.Width,
			Grid:    grid,
		}
		if hasProp(layer.Properties, "draw") {
			el.Visible = layer.Properties.GetBool("draw")
		}
		if hasProp(layer.Properties, "collide") {
			el.Collide = layer.Properties.GetBool("collide")
		}
		if n := layer.Properties.GetString("name"); n != "" {
			el.Name = n
		}
		tm.Layers = append(tm.Layers, el)
	}

	// Tiled has no per-image-layer custom properties worth relying
	// on across editors, so scroll and parallax live in one map
	// property keyed by layer name.
	motion := map[string]imageLayerMotion{}
	if raw := props.GetString("image_layers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &motion); err != nil {
			log.Printf("warning: map %s: image_layers: %v", name, err)
		}
	}
	for _, il := range m.ImageLayers {
		mo := motion[il.Name]
		el := &engine.ImageLayer{
			Name:      il.Name,
			Visible:   il.Visible,
			ScrollX:   mo.ScrollX,
			ScrollY:   mo.ScrollY,
			ParallaxX: mo.ParallaxX,
			ParallaxY: mo.ParallaxY,
			OffsetX:   float32(il.OffsetX),
			OffsetY:   float32(il.OffsetY),
		}
		if il.Image != nil {
			el.Image = il.Image.Source
		}
		tm.ImageLayers = append(tm.ImageLayers, el)
	}

	w := engine.NewWorld(name, tm, l.Seed)
	w.ClampCamera = props.GetBool("clampCamera") || props.GetBool("clamp_camera")
	if s := props.GetString("tint"); s != "" {
		if c, err := parsePackedColor(s); err == nil {
			w.Tint = c
		} else {
			log.Printf("warning: map %s: tint: %v", name, err)
		}
	}
	if m.BackgroundColor != nil {
		br, bg, bb, ba := m.BackgroundColor.RGBA()
		w.Background = color.RGBA{
			R: uint8(br >> 8), G: uint8(bg >> 8), B: uint8(bb >> 8), A: uint8(ba >> 8),
		}
	}
	pos := props.GetString("defaultPos")
	if pos == "" {
		pos = props.GetString("default_pos")
	}
	if pos != "" {
		x, y := parsePackedPos(pos)
		w.DefaultPos = &[2]int{x, y}
	}

	vars := propVars(props)
	w.Actions = l.scriptProperty(name, "map", props.GetString("actions"), vars)
	if raw := props.GetString("edges"); raw != "" {
		w.EdgeActions = l.edgeScript(name, raw, vars)
	}

	for _, og := range m.ObjectGroups {
		for _, obj := range og.Objects {
			e, err := l.buildEntity(name, obj)
			if err != nil {
				log.Printf("warning: map %s: object %d: %v", name, obj.ID, err)
				continue
			}
			w.Entities = append(w.Entities, e)
		}
	}

	lvl := &Level{
		World:      w,
		PlayerX:    props.GetInt("player_x"),
		PlayerY:    props.GetInt("player_y"),
		Song:       props.GetString("music"),
		SongSpeed:  1,
		SongVolume: 1,
	}
	if hasProp(props, "music_speed") {
		lvl.SongSpeed = float32(props.GetFloat("music_speed"))
	}
	if hasProp(props, "music_volume") {
		lvl.SongVolume = float32(props.GetFloat("music_volume"))
	}
	if lvl.Song != "" {
		w.Song.Change(lvl.Song, lvl.SongSpeed, lvl.SongVolume, true)
	}
	return lvl, nil
}

func hasProp(props tiled.Properties, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// propVars converts Tiled properties into plain values for "$name"
// substitution inside scripts and property files.
func propVars(props tiled.Properties) map[string]any {
	vars := make(map[string]any, len(props))
	for _, p := range props {
		switch p.Type {
		case "bool", "boolean":
			vars[p.Name] = p.Value == "true"
		case "int", "float":
			if n, err := strconv.ParseFloat(p.Value, 64); err == nil {
				vars[p.Name] = n
			}
		default:
			vars[p.Name] = p.Value
		}
	}
	return vars
}

// parsePackedPos reads an "x,y" tile coordinate. Missing or malformed
// parts read as zero.
func parsePackedPos(s string) (int, int) {
	parts := strings.SplitN(s, ",", 2)
	x, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	y := 0
	if len(parts) > 1 {
		y, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return x, y
}

// parsePackedColor reads an "r,g,b,a" color.
func parsePackedColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("expected r,g,b,a, got %q", s)
	}
	var vals [4]uint8
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 255 {
			return color.RGBA{}, fmt.Errorf("component %q out of range", part)
		}
		vals[i] = uint8(n)
	}
	return color.RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

// scriptProperty parses a triggered-action list out of a raw JSON
// property. Invalid fragments are dropped with a warning so one bad
// script cannot take the whole map down.
func (l *Loader) scriptProperty(mapName, where, raw string, vars map[string]any) []*engine.TriggeredAction {
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Printf("warning: map %s: %s script: %v", mapName, where, err)
		return nil
	}
	v, err := resolveFragments(v, l.Fragments, vars)
	if err != nil {
		log.Printf("warning: map %s: %s script: %v", mapName, where, err)
		return nil
	}
	if err := validateScript(v); err != nil {
		log.Printf("warning: map %s: %s script rejected: %v", mapName, where, err)
		return nil
	}
	tas, err := parseTriggeredActions(v)
	if err != nil {
		log.Printf("warning: map %s: %s script: %v", mapName, where, err)
		return nil
	}
	return tas
}

// edgeScript parses the map "edges" property: an object keyed by side,
// each value one action that fires when the player walks off that edge.
func (l *Loader) edgeScript(mapName, raw string, vars map[string]any) []*engine.TriggeredAction {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Printf("warning: map %s: edges: %v", mapName, err)
		return nil
	}
	v, err := resolveFragments(v, l.Fragments, vars)
	if err != nil {
		log.Printf("warning: map %s: edges: %v", mapName, err)
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		log.Printf("warning: map %s: edges: expected an object keyed by side", mapName)
		return nil
	}
	var out []*engine.TriggeredAction
	for _, side := range common.Directions {
		in, ok := obj[side.String()]
		if !ok {
			continue
		}
		act, err := engine.ParseAction(in)
		if err != nil {
			log.Printf("warning: map %s: edges: %s: %v", mapName, side, err)
			continue
		}
		out = append(out, &engine.TriggeredAction{
			Trigger: engine.SidedTrigger{Side: side, Inner: engine.WalkTrigger{}},
			Action:  act,
		})
	}
	return out
}

func parseTriggeredActions(v any) ([]*engine.TriggeredAction, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of triggered actions")
	}
	var out []*engine.TriggeredAction
	for i, in := range arr {
		m, ok := in.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d is not an object", i)
		}
		trig, err := engine.ParseTrigger(m["trigger"])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		act, err := engine.ParseAction(m["action"])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, &engine.TriggeredAction{Trigger: trig, Action: act})
	}
	return out, nil
}

// entityProps answers property lookups for one object, falling back to
// the property file the object's "file" key names. Direct properties
// win over file entries.
type entityProps struct {
	direct tiled.Properties
	extra  map[string]any
}

func (l *Loader) entityProps(obj *tiled.Object) (entityProps, error) {
	ep := entityProps{direct: obj.Properties}
	fname := obj.Properties.GetString("file")
	if fname == "" {
		return ep, nil
	}
	if l.Fragments == nil {
		return ep, fmt.Errorf("property file %q referenced but no lookup is configured", fname)
	}
	raw, err := l.Fragments(fname)
	if err != nil {
		return ep, fmt.Errorf("property file %q: %w", fname, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ep, fmt.Errorf("property file %q: %w", fname, err)
	}
	v, err = resolveFragments(v, l.Fragments, propVars(obj.Properties))
	if err != nil {
		return ep, fmt.Errorf("property file %q: %w", fname, err)
	}
	extra, ok := v.(map[string]any)
	if !ok {
		return ep, fmt.Errorf("property file %q is not an object", fname)
	}
	ep.extra = extra
	return ep, nil
}

func (ep entityProps) has(name string) bool {
	if hasProp(ep.direct, name) {
		return true
	}
	_, ok := ep.extra[name]
	return ok
}

// getString reads a property as a string. File entries that are JSON
// objects or arrays come back re-marshaled, so scripted properties can
// live in property files as plain JSON.
func (ep entityProps) getString(name string) string {
	if hasProp(ep.direct, name) {
		return ep.direct.GetString(name)
	}
	switch t := ep.extra[name].(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err == nil {
			return string(raw)
		}
	}
	return ""
}

func (ep entityProps) getBool(name string) bool {
	if hasProp(ep.direct, name) {
		return ep.direct.GetBool(name)
	}
	b, _ := ep.extra[name].(bool)
	return b
}

func (ep entityProps) getInt(name string) int {
	if hasProp(ep.direct, name) {
		return ep.direct.GetInt(name)
	}
	n, _ := ep.extra[name].(float64)
	return int(n)
}

func (l *Loader) buildEntity(mapName string, obj *tiled.Object) (*engine.Entity, error) {
	props, err := l.entityProps(obj)
	if err != nil {
		return nil, err
	}

	x := common.FloorDiv(int(obj.X), engine.TileSize) * engine.TileSize
	y := common.FloorDiv(int(obj.Y), engine.TileSize) * engine.TileSize
	e := engine.NewEntity(int(obj.ID), obj.Name, x, y)
	e.Sprite = props.getString("sprite")
	e.Layer = props.getInt("height")
	e.WalkBehind = props.getBool("walk_behind")
	if props.has("solid") {
		e.Solid = props.getBool("solid")
	}
	if props.has("draw") {
		e.Visible = props.getBool("draw")
	}
	if s := props.getInt("speed"); s > 0 {
		e.Speed = s
	}
	if obj.Width > 0 && obj.Height > 0 {
		e.Collider = engine.Box{W: int(obj.Width), H: int(obj.Height)}
	}
	if raw := props.getString("collider"); raw != "" {
		box, err := parseColliderBox(raw)
		if err != nil {
			return nil, err
		}
		e.Collider = box
	}

	if raw := props.getString("ai"); raw != "" {
		ai, err := parseBehavior(raw)
		if err != nil {
			return nil, err
		}
		e.AI = ai
	}
	if raw := props.getString("animation"); raw != "" {
		anim, err := parseAnimation(raw)
		if err != nil {
			return nil, err
		}
		e.Animator = anim
	}
	if raw := props.getString("variables"); raw != "" {
		vars, err := parseVariables(raw)
		if err != nil {
			return nil, err
		}
		e.Variables = vars
	}
	e.Actions = l.scriptProperty(mapName, fmt.Sprintf("object %d", obj.ID),
		props.getString("actions"), propVars(obj.Properties))
	return e, nil
}

// parseColliderBox reads a {"x","y","w","h"} pixel rectangle.
func parseColliderBox(raw string) (engine.Box, error) {
	var spec struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	}
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return engine.Box{}, fmt.Errorf("collider: %w", err)
	}
	if spec.W <= 0 || spec.H <= 0 {
		return engine.Box{}, fmt.Errorf("collider: width and height must be positive")
	}
	return engine.Box{X: spec.X, Y: spec.Y, W: spec.W, H: spec.H}, nil
}

// parseBehavior accepts either a bare behavior name or a JSON object
// with a "type" key and options.
func parseBehavior(raw string) (engine.AI, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return engine.ParseAI(raw, nil)
	}
	switch t := v.(type) {
	case string:
		return engine.ParseAI(t, nil)
	case map[string]any:
		name, _ := t["type"].(string)
		return engine.ParseAI(name, t)
	}
	return nil, fmt.Errorf("invalid behavior %q", raw)
}

func parseAnimation(raw string) (*engine.Animator, error) {
	var spec struct {
		Kind               string `json:"kind"`
		Frame              int    `json:"frame"`
		Start              int    `json:"start"`
		Idle               int    `json:"idle"`
		Length             int    `json:"length"`
		Mode               string `json:"mode"`
		FramesPerDirection int    `json:"frames_per_direction"`
		OnMove             bool   `json:"on_move"`
		Manual             bool   `json:"manual"`
		Speed              int    `json:"speed"`
	}
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	var a *engine.Animator
	switch spec.Kind {
	case "single", "":
		a = engine.NewSingleFrame(spec.Frame)
	case "sequence":
		mode := engine.AnimLoop
		if spec.Mode == "cycle" {
			mode = engine.AnimCycle
		}
		a = engine.NewSequence(spec.Start, spec.Idle, spec.Length, mode)
	case "directional":
		a = engine.NewDirectional(spec.FramesPerDirection)
	default:
		return nil, fmt.Errorf("unknown animation kind %q", spec.Kind)
	}
	a.OnMove = a.OnMove || spec.OnMove
	a.Manual = spec.Manual
	if spec.Speed > 0 {
		a.Speed = spec.Speed
	}
	return a, nil
}

func parseVariables(raw string) (map[string]engine.VariableValue, error) {
	var decoded map[string]struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("variables: %w", err)
	}
	out := make(map[string]engine.VariableValue, len(decoded))
	for name, d := range decoded {
		switch d.Kind {
		case "int", "":
			n, ok := d.Value.(float64)
			if !ok {
				return nil, fmt.Errorf("variable %q: expected a number", name)
			}
			out[name] = engine.LiteralInt(int(n))
		case "float":
			n, ok := d.Value.(float64)
			if !ok {
				return nil, fmt.Errorf("variable %q: expected a number", name)
			}
			out[name] = engine.LiteralFloat(float32(n))
		case "bool":
			b, ok := d.Value.(bool)
			if !ok {
				return nil, fmt.Errorf("variable %q: expected a bool", name)
			}
			out[name] = engine.LiteralBool(b)
		case "string":
			s, ok := d.Value.(string)
			if !ok {
				return nil, fmt.Errorf("variable %q: expected a string", name)
			}
			out[name] = engine.LiteralString(s)
		default:
			return nil, fmt.Errorf("variable %q: unknown kind %q", name, d.Kind)
		}
	}
	return out, nil
}
