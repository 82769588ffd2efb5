package engine

import (
	"log"
	"strconv"
)

// Property expressions are late-bound, typed readers of player, world,
// entity, flag, and variable state. Evaluation is pure: the second
// return is false when any referenced state is absent, and arithmetic
// on an absent operand stays absent.

type IntProperty interface {
	Int(p *Player, w *World) (int, bool)
}

type FloatProperty interface {
	Float(p *Player, w *World) (float32, bool)
}

type BoolProperty interface {
	Bool(p *Player, w *World) (bool, bool)
}

type StringProperty interface {
	Str(p *Player, w *World) (string, bool)
}

// PlayerPropertyKind names the player fields readable by expressions.
type PlayerPropertyKind int

const (
	PlayerPropX PlayerPropertyKind = iota
	PlayerPropY
	PlayerPropHeight
	PlayerPropDreaming
	PlayerPropCheckWalkable
)

func ParsePlayerPropertyKind(s string) (PlayerPropertyKind, bool) {
	switch s {
	case "x":
		return PlayerPropX, true
	case "y":
		return PlayerPropY, true
	case "height", "layer":
		return PlayerPropHeight, true
	case "dreaming":
		return PlayerPropDreaming, true
	case "check_walkable":
		return PlayerPropCheckWalkable, true
	}
	return PlayerPropX, false
}

// LevelPropertyKind names the world fields readable by expressions.
type LevelPropertyKind int

const (
	LevelPropDefaultX LevelPropertyKind = iota
	LevelPropDefaultY
	LevelPropTintR
	LevelPropTintG
	LevelPropTintB
	LevelPropTintA
	LevelPropBackgroundR
	LevelPropBackgroundG
	LevelPropBackgroundB
	LevelPropPaused
	LevelPropSaveGame
)

func ParseLevelPropertyKind(s string) (LevelPropertyKind, bool) {
	switch s {
	case "default_x":
		return LevelPropDefaultX, true
	case "default_y":
		return LevelPropDefaultY, true
	case "tint_r":
		return LevelPropTintR, true
	case "tint_g":
		return LevelPropTintG, true
	case "tint_b":
		return LevelPropTintB, true
	case "tint_a":
		return LevelPropTintA, true
	case "background_r":
		return LevelPropBackgroundR, true
	case "background_g":
		return LevelPropBackgroundG, true
	case "background_b":
		return LevelPropBackgroundB, true
	case "paused":
		return LevelPropPaused, true
	case "special_save_game":
		return LevelPropSaveGame, true
	}
	return LevelPropDefaultX, false
}

// ArithOp is a binary arithmetic operator over int or float operands.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

func ParseArithOp(s string) (ArithOp, bool) {
	switch s {
	case "add":
		return OpAdd, true
	case "sub":
		return OpSub, true
	case "mul":
		return OpMul, true
	case "div":
		return OpDiv, true
	case "mod":
		return OpMod, true
	}
	return OpAdd, false
}

// entityVariable resolves a named variable on the entity whose action
// is currently running. Reads outside an entity call are absent.
func entityVariable(name StringProperty, p *Player, w *World) (*VariableValue, bool) {
	if w == nil {
		return nil, false
	}
	n, ok := name.Str(p, w)
	if !ok {
		return nil, false
	}
	if !w.Special.EntityContext.EntityCall {
		log.Printf("warning: variable %q read outside of entity context", n)
		return nil, false
	}
	v, ok := w.Special.EntityContext.Variables[n]
	if !ok {
		log.Printf("warning: variable %q not found", n)
		return nil, false
	}
	return &v, true
}

// ---- int ----

type IntLiteral int

func (l IntLiteral) Int(*Player, *World) (int, bool) { return int(l), true }

type IntPlayerProperty struct {
	Kind PlayerPropertyKind
}

func (pr IntPlayerProperty) Int(p *Player, w *World) (int, bool) {
	if p == nil {
		return 0, false
	}
	switch pr.Kind {
	case PlayerPropX:
		return p.X / TileSize, true
	case PlayerPropY:
		return p.Y / TileSize, true
	case PlayerPropHeight:
		return p.Layer, true
	}
	return 0, false
}

type IntEntityProperty struct {
	Kind EntityPropertyKind
}

func (pr IntEntityProperty) Int(_ *Player, w *World) (int, bool) {
	if w == nil || !w.Special.EntityContext.EntityCall {
		return 0, false
	}
	switch pr.Kind {
	case EntityPropID:
		return w.Special.EntityContext.ID, true
	case EntityPropX:
		return w.Special.EntityContext.X, true
	case EntityPropY:
		return w.Special.EntityContext.Y, true
	}
	return 0, false
}

type IntLevelProperty struct {
	Kind LevelPropertyKind
}

func (pr IntLevelProperty) Int(_ *Player, w *World) (int, bool) {
	if w == nil {
		return 0, false
	}
	switch pr.Kind {
	case LevelPropDefaultX:
		if w.DefaultPos == nil {
			return 0, false
		}
		return w.DefaultPos[0], true
	case LevelPropDefaultY:
		if w.DefaultPos == nil {
			return 0, false
		}
		return w.DefaultPos[1], true
	case LevelPropTintR:
		return int(w.Tint.R), true
	case LevelPropTintG:
		return int(w.Tint.G), true
	case LevelPropTintB:
		return int(w.Tint.B), true
	case LevelPropTintA:
		return int(w.Tint.A), true
	case LevelPropBackgroundR:
		return int(w.Background.R), true
	case LevelPropBackgroundG:
		return int(w.Background.G), true
	case LevelPropBackgroundB:
		return int(w.Background.B), true
	}
	return 0, false
}

// IntFlag reads a flag cell by name. A flag that was never written
// reads as 0 rather than absent, so set-flag/condition pairs behave as
// if flags default to zero.
type IntFlag struct {
	Global bool
	Name   StringProperty
}

func (f IntFlag) Int(p *Player, w *World) (int, bool) {
	if w == nil {
		return 0, false
	}
	name, ok := f.Name.Str(p, w)
	if !ok {
		return 0, false
	}
	if f.Global {
		return w.GlobalFlags[name], true
	}
	return w.Flags[name], true
}

type IntBinary struct {
	Op       ArithOp
	Lhs, Rhs IntProperty
}

func (b IntBinary) Int(p *Player, w *World) (int, bool) {
	l, ok := b.Lhs.Int(p, w)
	if !ok {
		return 0, false
	}
	r, ok := b.Rhs.Int(p, w)
	if !ok {
		return 0, false
	}
	switch b.Op {
	case OpAdd:
		return l + r, true
	case OpSub:
		return l - r, true
	case OpMul:
		return l * r, true
	case OpDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case OpMod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	}
	return 0, false
}

type IntVariable struct {
	Name StringProperty
}

func (iv IntVariable) Int(p *Player, w *World) (int, bool) {
	v, ok := entityVariable(iv.Name, p, w)
	if !ok {
		return 0, false
	}
	return v.AsInt(p, w)
}

// ---- float ----

type FloatLiteral float32

func (l FloatLiteral) Float(*Player, *World) (float32, bool) { return float32(l), true }

type FloatBinary struct {
	Op       ArithOp
	Lhs, Rhs FloatProperty
}

func (b FloatBinary) Float(p *Player, w *World) (float32, bool) {
	l, ok := b.Lhs.Float(p, w)
	if !ok {
		return 0, false
	}
	r, ok := b.Rhs.Float(p, w)
	if !ok {
		return 0, false
	}
	switch b.Op {
	case OpAdd:
		return l + r, true
	case OpSub:
		return l - r, true
	case OpMul:
		return l * r, true
	case OpDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

type FloatVariable struct {
	Name StringProperty
}

func (fv FloatVariable) Float(p *Player, w *World) (float32, bool) {
	v, ok := entityVariable(fv.Name, p, w)
	if !ok {
		return 0, false
	}
	return v.AsFloat(p, w)
}

// FloatFromInt widens an int expression.
type FloatFromInt struct {
	Inner IntProperty
}

func (f FloatFromInt) Float(p *Player, w *World) (float32, bool) {
	v, ok := f.Inner.Int(p, w)
	if !ok {
		return 0, false
	}
	return float32(v), true
}

// ---- bool ----

type BoolLiteral bool

func (l BoolLiteral) Bool(*Player, *World) (bool, bool) { return bool(l), true }

type BoolPlayerProperty struct {
	Kind PlayerPropertyKind
}

func (pr BoolPlayerProperty) Bool(p *Player, w *World) (bool, bool) {
	if p == nil {
		return false, false
	}
	switch pr.Kind {
	case PlayerPropDreaming:
		return p.Dreaming, true
	case PlayerPropCheckWalkable:
		return p.CheckWalkableOnNextFrame, true
	}
	return false, false
}

type BoolLevelProperty struct {
	Kind LevelPropertyKind
}

func (pr BoolLevelProperty) Bool(_ *Player, w *World) (bool, bool) {
	if w == nil {
		return false, false
	}
	switch pr.Kind {
	case LevelPropPaused:
		return w.Paused, true
	case LevelPropSaveGame:
		return w.Special.SaveGame, true
	}
	return false, false
}

// BoolOp is a binary logical operator.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolXor
)

type BoolBinary struct {
	Op       BoolOp
	Lhs, Rhs BoolProperty
}

func (b BoolBinary) Bool(p *Player, w *World) (bool, bool) {
	l, ok := b.Lhs.Bool(p, w)
	if !ok {
		return false, false
	}
	r, ok := b.Rhs.Bool(p, w)
	if !ok {
		return false, false
	}
	switch b.Op {
	case BoolAnd:
		return l && r, true
	case BoolOr:
		return l || r, true
	}
	return l != r, true
}

type BoolNot struct {
	Inner BoolProperty
}

func (n BoolNot) Bool(p *Player, w *World) (bool, bool) {
	v, ok := n.Inner.Bool(p, w)
	if !ok {
		return false, false
	}
	return !v, true
}

type BoolVariable struct {
	Name StringProperty
}

func (bv BoolVariable) Bool(p *Player, w *World) (bool, bool) {
	v, ok := entityVariable(bv.Name, p, w)
	if !ok {
		return false, false
	}
	return v.AsBool(p, w)
}

// BoolFromCondition lifts a condition into a bool expression.
type BoolFromCondition struct {
	Cond Condition
}

func (b BoolFromCondition) Bool(p *Player, w *World) (bool, bool) {
	return b.Cond.Evaluate(p, w), true
}

// ---- string ----

type StringLiteral string

func (l StringLiteral) Str(*Player, *World) (string, bool) { return string(l), true }

// StringFromInt formats an int expression in decimal.
type StringFromInt struct {
	Inner IntProperty
}

func (s StringFromInt) Str(p *Player, w *World) (string, bool) {
	v, ok := s.Inner.Int(p, w)
	if !ok {
		return "", false
	}
	return strconv.Itoa(v), true
}

type StringConcat struct {
	Lhs, Rhs StringProperty
}

func (c StringConcat) Str(p *Player, w *World) (string, bool) {
	l, ok := c.Lhs.Str(p, w)
	if !ok {
		return "", false
	}
	r, ok := c.Rhs.Str(p, w)
	if !ok {
		return "", false
	}
	return l + r, true
}

type StringVariable struct {
	Name StringProperty
}

func (sv StringVariable) Str(p *Player, w *World) (string, bool) {
	v, ok := entityVariable(sv.Name, p, w)
	if !ok {
		return "", false
	}
	return v.AsString(p, w)
}
