package engine

import (
	"fmt"

	"github.com/milk9111/overworld/common"
)

// Script fragments come out of map data as decoded JSON. The parse
// functions below turn those values into expression, trigger, and
// action trees. Key names match the map format exactly.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func mapString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func mapNumber(m map[string]any, key string) (float64, bool) {
	n, ok := m[key].(float64)
	return n, ok
}

func mapBool(m map[string]any, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

func mapArgs(m map[string]any) (any, any, error) {
	args, ok := m["args"].([]any)
	if !ok || len(args) != 2 {
		return nil, nil, fmt.Errorf("expected two args")
	}
	return args[0], args[1], nil
}

func mapDirection(m map[string]any, key string, fallback common.Direction) (common.Direction, error) {
	s, ok := mapString(m, key)
	if !ok {
		return fallback, nil
	}
	return common.ParseDirection(s)
}

// ParseIntProperty reads an int expression. A bare number is a
// literal.
func ParseIntProperty(v any) (IntProperty, error) {
	if n, ok := v.(float64); ok {
		return IntLiteral(int(n)), nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("invalid int property %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "int":
		n, ok := mapNumber(m, "value")
		if !ok {
			return nil, fmt.Errorf("int property missing value")
		}
		return IntLiteral(int(n)), nil
	case "add", "sub", "mul", "div", "mod":
		op, _ := ParseArithOp(typ)
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		lhs, err := ParseIntProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseIntProperty(r)
		if err != nil {
			return nil, err
		}
		return IntBinary{Op: op, Lhs: lhs, Rhs: rhs}, nil
	case "flag":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("flag: %w", err)
		}
		global, _ := mapBool(m, "global")
		return IntFlag{Global: global, Name: name}, nil
	case "player":
		s, _ := mapString(m, "value")
		kind, ok := ParsePlayerPropertyKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown player property %q", s)
		}
		return IntPlayerProperty{Kind: kind}, nil
	case "level":
		s, _ := mapString(m, "value")
		kind, ok := ParseLevelPropertyKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown level property %q", s)
		}
		return IntLevelProperty{Kind: kind}, nil
	case "entity":
		s, _ := mapString(m, "value")
		kind, ok := ParseEntityPropertyKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown entity property %q", s)
		}
		return IntEntityProperty{Kind: kind}, nil
	case "variable":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("variable: %w", err)
		}
		return IntVariable{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown int property type %q", typ)
}

// ParseFloatProperty reads a float expression.
func ParseFloatProperty(v any) (FloatProperty, error) {
	if n, ok := v.(float64); ok {
		return FloatLiteral(float32(n)), nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("invalid float property %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "float":
		n, ok := mapNumber(m, "value")
		if !ok {
			return nil, fmt.Errorf("float property missing value")
		}
		return FloatLiteral(float32(n)), nil
	case "add", "sub", "mul", "div":
		op, _ := ParseArithOp(typ)
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		lhs, err := ParseFloatProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseFloatProperty(r)
		if err != nil {
			return nil, err
		}
		return FloatBinary{Op: op, Lhs: lhs, Rhs: rhs}, nil
	case "from_int":
		inner, err := ParseIntProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("from_int: %w", err)
		}
		return FloatFromInt{Inner: inner}, nil
	case "variable":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("variable: %w", err)
		}
		return FloatVariable{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown float property type %q", typ)
}

// ParseBoolProperty reads a bool expression.
func ParseBoolProperty(v any) (BoolProperty, error) {
	if b, ok := v.(bool); ok {
		return BoolLiteral(b), nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("invalid bool property %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "bool":
		b, ok := mapBool(m, "value")
		if !ok {
			return nil, fmt.Errorf("bool property missing value")
		}
		return BoolLiteral(b), nil
	case "player":
		s, _ := mapString(m, "value")
		kind, ok := ParsePlayerPropertyKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown player property %q", s)
		}
		return BoolPlayerProperty{Kind: kind}, nil
	case "level":
		s, _ := mapString(m, "value")
		kind, ok := ParseLevelPropertyKind(s)
		if !ok {
			return nil, fmt.Errorf("unknown level property %q", s)
		}
		return BoolLevelProperty{Kind: kind}, nil
	case "and", "or", "xor":
		var op BoolOp
		switch typ {
		case "and":
			op = BoolAnd
		case "or":
			op = BoolOr
		default:
			op = BoolXor
		}
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		lhs, err := ParseBoolProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseBoolProperty(r)
		if err != nil {
			return nil, err
		}
		return BoolBinary{Op: op, Lhs: lhs, Rhs: rhs}, nil
	case "not":
		inner, err := ParseBoolProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return BoolNot{Inner: inner}, nil
	case "condition":
		cond, err := ParseCondition(m["value"])
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		return BoolFromCondition{Cond: cond}, nil
	case "variable":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("variable: %w", err)
		}
		return BoolVariable{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown bool property type %q", typ)
}

// ParseStringProperty reads a string expression. A bare string is a
// literal.
func ParseStringProperty(v any) (StringProperty, error) {
	if s, ok := v.(string); ok {
		return StringLiteral(s), nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("invalid string property %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "string":
		s, ok := mapString(m, "value")
		if !ok {
			return nil, fmt.Errorf("string property missing value")
		}
		return StringLiteral(s), nil
	case "from_int":
		inner, err := ParseIntProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("from_int: %w", err)
		}
		return StringFromInt{Inner: inner}, nil
	case "concatenate":
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("concatenate: %w", err)
		}
		lhs, err := ParseStringProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseStringProperty(r)
		if err != nil {
			return nil, err
		}
		return StringConcat{Lhs: lhs, Rhs: rhs}, nil
	case "variable":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("variable: %w", err)
		}
		return StringVariable{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown string property type %q", typ)
}

// ParseCondition reads a condition tree.
func ParseCondition(v any) (Condition, error) {
	m, ok := asMap(v)
	if !ok {
		if b, ok := v.(bool); ok {
			return BoolCondition{Value: BoolLiteral(b)}, nil
		}
		return nil, fmt.Errorf("invalid condition %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "int_equals", "int_greater", "int_less":
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		lhs, err := ParseIntProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseIntProperty(r)
		if err != nil {
			return nil, err
		}
		switch typ {
		case "int_equals":
			return IntEquals{Lhs: lhs, Rhs: rhs}, nil
		case "int_greater":
			return IntGreater{Lhs: lhs, Rhs: rhs}, nil
		}
		return IntLess{Lhs: lhs, Rhs: rhs}, nil
	case "string_equals":
		l, r, err := mapArgs(m)
		if err != nil {
			return nil, fmt.Errorf("string_equals: %w", err)
		}
		lhs, err := ParseStringProperty(l)
		if err != nil {
			return nil, err
		}
		rhs, err := ParseStringProperty(r)
		if err != nil {
			return nil, err
		}
		return StringEquals{Lhs: lhs, Rhs: rhs}, nil
	case "effect_equipped":
		s, _ := mapString(m, "effect")
		eff, ok := ParseEffect(s)
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", s)
		}
		return EffectEquipped{Effect: eff}, nil
	case "negate":
		inner, err := ParseCondition(m["value"])
		if err != nil {
			return nil, fmt.Errorf("negate: %w", err)
		}
		return Negate{Inner: inner}, nil
	case "bool":
		val, err := ParseBoolProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("bool: %w", err)
		}
		return BoolCondition{Value: val}, nil
	case "variable":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("variable: %w", err)
		}
		return VariableCondition{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown condition type %q", typ)
}

// ParseTrigger reads a trigger. A bare string names a simple trigger,
// an array is an any-of group.
func ParseTrigger(v any) (Trigger, error) {
	switch t := v.(type) {
	case string:
		switch t {
		case "use":
			return UseTrigger{}, nil
		case "walk":
			return WalkTrigger{}, nil
		case "bump":
			return BumpTrigger{}, nil
		case "interact":
			return AnyInteractionTrigger{}, nil
		case "onload":
			return OnLoadTrigger{}, nil
		case "effect_switch":
			return EffectSwitchTrigger{}, nil
		}
		return nil, fmt.Errorf("unknown trigger %q", t)
	case []any:
		or := OrTrigger{}
		for _, in := range t {
			tr, err := ParseTrigger(in)
			if err != nil {
				return nil, err
			}
			or.Triggers = append(or.Triggers, tr)
		}
		return or, nil
	case map[string]any:
		typ, _ := mapString(t, "type")
		switch typ {
		case "tick":
			n, ok := mapNumber(t, "period")
			if !ok || n <= 0 {
				return nil, fmt.Errorf("tick trigger needs a positive period")
			}
			return TickTrigger{Period: uint64(n)}, nil
		case "effect_switch":
			return EffectSwitchTrigger{}, nil
		case "side":
			s, _ := mapString(t, "side")
			d, err := common.ParseDirection(s)
			if err != nil {
				return nil, fmt.Errorf("side trigger: %w", err)
			}
			inner, err := ParseTrigger(t["value"])
			if err != nil {
				return nil, fmt.Errorf("side trigger: %w", err)
			}
			return SidedTrigger{Side: d, Inner: inner}, nil
		}
		return nil, fmt.Errorf("unknown trigger type %q", typ)
	}
	return nil, fmt.Errorf("invalid trigger %v", v)
}

// ParseAction reads an action tree. A top-level array is a sequence.
func ParseAction(v any) (Action, error) {
	if arr, ok := v.([]any); ok {
		multi := &Multiple{}
		for _, in := range arr {
			a, err := ParseAction(in)
			if err != nil {
				return nil, err
			}
			multi.Actions = append(multi.Actions, a)
		}
		return multi, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("invalid action %v", v)
	}
	typ, _ := mapString(m, "type")
	switch typ {
	case "warp":
		return parseWarp(m)
	case "print":
		text, err := ParseStringProperty(m["text"])
		if err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return &Print{Text: text}, nil
	case "delayed":
		n, ok := mapNumber(m, "delay")
		if !ok {
			return nil, fmt.Errorf("delayed action missing delay")
		}
		inner, err := ParseAction(m["action"])
		if err != nil {
			return nil, fmt.Errorf("delayed: %w", err)
		}
		return &Delayed{Delay: int(n), Inner: inner}, nil
	case "freeze":
		n, ok := mapNumber(m, "time")
		if !ok {
			return &Freeze{Sticky: true}, nil
		}
		return &Freeze{Ticks: int(n)}, nil
	case "give_effect":
		s, _ := mapString(m, "effect")
		eff, ok := ParseEffect(s)
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", s)
		}
		return &GiveEffect{Effect: eff}, nil
	case "set_flag":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("set_flag: %w", err)
		}
		value, err := ParseIntProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set_flag: %w", err)
		}
		global, _ := mapBool(m, "global")
		return &SetFlag{Global: global, Name: name, Value: value}, nil
	case "conditional":
		cond, err := ParseCondition(m["condition"])
		if err != nil {
			return nil, fmt.Errorf("conditional: %w", err)
		}
		then, err := ParseAction(m["then"])
		if err != nil {
			return nil, fmt.Errorf("conditional: %w", err)
		}
		var els Action
		if m["else"] != nil {
			els, err = ParseAction(m["else"])
			if err != nil {
				return nil, fmt.Errorf("conditional: %w", err)
			}
		}
		return &Conditional{Cond: cond, Then: then, Else: els}, nil
	case "play":
		return parsePlaySound(m)
	case "set":
		return parseSet(m)
	case "change_song":
		a := &ChangeSong{}
		var err error
		if m["name"] != nil {
			if a.Name, err = ParseStringProperty(m["name"]); err != nil {
				return nil, fmt.Errorf("change_song: %w", err)
			}
		}
		if b, ok := mapBool(m, "set_defaults"); ok {
			a.SetDefaults = b
		}
		if m["speed"] != nil {
			if a.Speed, err = ParseFloatProperty(m["speed"]); err != nil {
				return nil, fmt.Errorf("change_song: %w", err)
			}
		}
		if m["volume"] != nil {
			if a.Volume, err = ParseFloatProperty(m["volume"]); err != nil {
				return nil, fmt.Errorf("change_song: %w", err)
			}
		}
		return a, nil
	case "set_animation_frame":
		target, err := ParseStringProperty(m["target"])
		if err != nil {
			return nil, fmt.Errorf("set_animation_frame: %w", err)
		}
		frame, err := ParseIntProperty(m["frame"])
		if err != nil {
			return nil, fmt.Errorf("set_animation_frame: %w", err)
		}
		return &SetAnimationFrame{Target: target, Frame: frame}, nil
	case "multiple":
		actions, ok := m["actions"].([]any)
		if !ok {
			return nil, fmt.Errorf("multiple action missing actions")
		}
		return ParseAction(actions)
	case "set_variable":
		return parseSetVariable(m)
	case "sit":
		x, y, d, err := parseTilePose(m)
		if err != nil {
			return nil, fmt.Errorf("sit: %w", err)
		}
		return &Sit{X: x, Y: y, Dir: d}, nil
	case "lay_down":
		x, y, d, err := parseTilePose(m)
		if err != nil {
			return nil, fmt.Errorf("lay_down: %w", err)
		}
		return &LayDown{X: x, Y: y, Dir: d}, nil
	case "lay_down_in_place":
		d, err := mapDirection(m, "direction", common.Down)
		if err != nil {
			return nil, fmt.Errorf("lay_down_in_place: %w", err)
		}
		n, _ := mapNumber(m, "offset")
		return &LayDownInPlace{Dir: d, Offset: int(n)}, nil
	case "remove":
		return RemoveEntity{}, nil
	case "move_player":
		d, err := mapDirection(m, "direction", common.Down)
		if err != nil {
			return nil, fmt.Errorf("move_player: %w", err)
		}
		forced, _ := mapBool(m, "forced")
		dist, _ := mapNumber(m, "custom_distance")
		return &MovePlayer{Dir: d, Forced: forced, CustomDistance: int(dist)}, nil
	case "play_event":
		name, _ := mapString(m, "name")
		if name == "" {
			return nil, fmt.Errorf("play_event missing name")
		}
		return &PlayEvent{Name: name}, nil
	case "random":
		return parseRandom(m)
	case "set_layer_visible":
		name, err := ParseStringProperty(m["name"])
		if err != nil {
			return nil, fmt.Errorf("set_layer_visible: %w", err)
		}
		visible, err := ParseBoolProperty(m["visible"])
		if err != nil {
			return nil, fmt.Errorf("set_layer_visible: %w", err)
		}
		return &SetLayerVisible{Name: name, Visible: visible}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", typ)
}

func parseWarp(m map[string]any) (Action, error) {
	mp, err := ParseStringProperty(m["map"])
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	x, err := ParseIntProperty(m["x"])
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	y, err := ParseIntProperty(m["y"])
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	d, err := mapDirection(m, "direction", common.Down)
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	a := &Warp{Map: mp, X: x, Y: y, Dir: d, FadeMusic: true}
	if n, ok := mapNumber(m, "transition_speed"); ok {
		a.TransitionSpeed = float32(n)
	}
	if b, ok := mapBool(m, "fade_music"); ok {
		a.FadeMusic = b
	}
	if n, ok := mapNumber(m, "hold"); ok {
		a.Hold = int(n)
	}
	return a, nil
}

func parsePlaySound(m map[string]any) (Action, error) {
	name, err := ParseStringProperty(m["name"])
	if err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	a := &PlaySound{Name: name}
	if m["speed"] != nil {
		if a.Speed, err = ParseFloatProperty(m["speed"]); err != nil {
			return nil, fmt.Errorf("play: %w", err)
		}
	}
	if m["volume"] != nil {
		if a.Volume, err = ParseFloatProperty(m["volume"]); err != nil {
			return nil, fmt.Errorf("play: %w", err)
		}
	}
	return a, nil
}

func parseSet(m map[string]any) (Action, error) {
	target, _ := mapString(m, "target")
	prop, _ := mapString(m, "property")
	switch target {
	case "player":
		kind, ok := ParsePlayerPropertyKind(prop)
		if !ok {
			return nil, fmt.Errorf("set: unknown player property %q", prop)
		}
		a := &SetPlayerProperty{Kind: kind}
		switch kind {
		case PlayerPropDreaming, PlayerPropCheckWalkable:
			val, err := ParseBoolProperty(m["value"])
			if err != nil {
				return nil, fmt.Errorf("set: %w", err)
			}
			a.BoolValue = val
		default:
			val, err := ParseIntProperty(m["value"])
			if err != nil {
				return nil, fmt.Errorf("set: %w", err)
			}
			a.IntValue = val
		}
		return a, nil
	case "level":
		kind, ok := ParseLevelPropertyKind(prop)
		if !ok {
			return nil, fmt.Errorf("set: unknown level property %q", prop)
		}
		a := &SetLevelProperty{Kind: kind}
		switch kind {
		case LevelPropPaused, LevelPropSaveGame:
			val, err := ParseBoolProperty(m["value"])
			if err != nil {
				return nil, fmt.Errorf("set: %w", err)
			}
			a.BoolValue = val
		default:
			val, err := ParseIntProperty(m["value"])
			if err != nil {
				return nil, fmt.Errorf("set: %w", err)
			}
			a.IntValue = val
		}
		return a, nil
	case "entity":
		kind, ok := ParseEntityPropertyKind(prop)
		if !ok {
			return nil, fmt.Errorf("set: unknown entity property %q", prop)
		}
		val, err := ParseIntProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set: %w", err)
		}
		return &SetEntityProperty{Kind: kind, Value: val}, nil
	}
	return nil, fmt.Errorf("set: unknown target %q", target)
}

func parseSetVariable(m map[string]any) (Action, error) {
	name, err := ParseStringProperty(m["name"])
	if err != nil {
		return nil, fmt.Errorf("set_variable: %w", err)
	}
	kind, _ := mapString(m, "kind")
	retain, _ := mapBool(m, "retain")
	var value VariableValue
	switch kind {
	case "int", "":
		expr, err := ParseIntProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set_variable: %w", err)
		}
		value = ExprInt(expr)
	case "float":
		expr, err := ParseFloatProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set_variable: %w", err)
		}
		value = ExprFloat(expr)
	case "bool":
		expr, err := ParseBoolProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set_variable: %w", err)
		}
		value = ExprBool(expr)
	case "string":
		expr, err := ParseStringProperty(m["value"])
		if err != nil {
			return nil, fmt.Errorf("set_variable: %w", err)
		}
		value = ExprString(expr)
	default:
		return nil, fmt.Errorf("set_variable: unknown kind %q", kind)
	}
	return &SetVariable{Name: name, Value: value, Retain: retain}, nil
}

func parseTilePose(m map[string]any) (IntProperty, IntProperty, common.Direction, error) {
	x, err := ParseIntProperty(m["x"])
	if err != nil {
		return nil, nil, common.Down, err
	}
	y, err := ParseIntProperty(m["y"])
	if err != nil {
		return nil, nil, common.Down, err
	}
	d, err := mapDirection(m, "direction", common.Down)
	if err != nil {
		return nil, nil, common.Down, err
	}
	return x, y, d, nil
}

func parseRandom(m map[string]any) (Action, error) {
	src := SourcePure
	if s, ok := mapString(m, "source"); ok {
		var valid bool
		src, valid = ParseRandomSource(s)
		if !valid {
			return nil, fmt.Errorf("random: unknown source %q", s)
		}
	}
	mode, _ := mapString(m, "mode")
	a := &Random{Source: src}
	switch mode {
	case "chance", "":
		a.Mode = RandomChance
		n, ok := mapNumber(m, "chance")
		if !ok {
			return nil, fmt.Errorf("random chance missing probability")
		}
		a.Chance = float32(n)
		inner, err := ParseAction(m["action"])
		if err != nil {
			return nil, fmt.Errorf("random: %w", err)
		}
		a.Actions = []Action{inner}
	case "select":
		a.Mode = RandomSelect
		raw, ok := m["actions"].([]any)
		if !ok || len(raw) == 0 {
			return nil, fmt.Errorf("random select missing actions")
		}
		for _, in := range raw {
			child, err := ParseAction(in)
			if err != nil {
				return nil, fmt.Errorf("random: %w", err)
			}
			a.Actions = append(a.Actions, child)
		}
	default:
		return nil, fmt.Errorf("random: unknown mode %q", mode)
	}
	return a, nil
}

// ParseAI reads an entity behavior from its name and option map.
func ParseAI(name string, m map[string]any) (AI, error) {
	if m == nil {
		m = map[string]any{}
	}
	switch name {
	case "wander":
		a := NewWander()
		if n, ok := mapNumber(m, "frequency"); ok {
			a.Frequency = int(n)
		}
		if n, ok := mapNumber(m, "delay"); ok {
			a.Delay = int(n)
		}
		if n, ok := mapNumber(m, "speed"); ok {
			a.Speed = int(n)
		}
		return a, nil
	case "chaser":
		a := NewChaser()
		if n, ok := mapNumber(m, "speed"); ok {
			a.Speed = int(n)
		}
		if n, ok := mapNumber(m, "detection_radius"); ok {
			a.DetectionRadius = int(n)
		}
		if n, ok := mapNumber(m, "path_max"); ok {
			a.PathMax = int(n)
		}
		if s, ok := mapString(m, "pathfinder"); ok {
			kind, valid := ParsePathfinderKind(s)
			if !valid {
				return nil, fmt.Errorf("chaser: unknown pathfinder %q", s)
			}
			a.Pathfinder = kind
		}
		return a, nil
	case "pushable":
		a := NewPushable()
		if n, ok := mapNumber(m, "speed"); ok {
			a.Speed = int(n)
		}
		return a, nil
	case "animate_on_interact":
		a := &AnimateOnInteract{Frames: 1}
		if n, ok := mapNumber(m, "frames"); ok {
			a.Frames = int(n)
		}
		if b, ok := mapBool(m, "use"); ok {
			a.TakesUse = b
		}
		if b, ok := mapBool(m, "bump"); ok {
			a.TakesBump = b
		}
		if b, ok := mapBool(m, "walk"); ok {
			a.TakesWalk = b
		}
		if s, ok := mapString(m, "side"); ok {
			d, err := common.ParseDirection(s)
			if err != nil {
				return nil, fmt.Errorf("animate_on_interact: %w", err)
			}
			a.Side = &d
		}
		return a, nil
	case "bird":
		a := NewBird()
		if n, ok := mapNumber(m, "speed"); ok {
			a.Speed = int(n)
		}
		if n, ok := mapNumber(m, "scare_radius"); ok {
			a.ScareRadius = int(n)
		}
		return a, nil
	case "move_straight":
		d, err := mapDirection(m, "direction", common.Down)
		if err != nil {
			return nil, fmt.Errorf("move_straight: %w", err)
		}
		a := NewMoveStraight(d)
		if n, ok := mapNumber(m, "speed"); ok {
			a.Speed = int(n)
		}
		if b, ok := mapBool(m, "bounce"); ok {
			a.Bounce = b
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown behavior %q", name)
}
