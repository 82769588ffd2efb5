package engine

// Condition is a boolean predicate over game state. An absent operand
// makes the whole condition false, never an error.
type Condition interface {
	Evaluate(p *Player, w *World) bool
}

type IntEquals struct {
	Lhs, Rhs IntProperty
}

func (c IntEquals) Evaluate(p *Player, w *World) bool {
	l, ok := c.Lhs.Int(p, w)
	if !ok {
		return false
	}
	r, ok := c.Rhs.Int(p, w)
	if !ok {
		return false
	}
	return l == r
}

type IntGreater struct {
	Lhs, Rhs IntProperty
}

func (c IntGreater) Evaluate(p *Player, w *World) bool {
	l, ok := c.Lhs.Int(p, w)
	if !ok {
		return false
	}
	r, ok := c.Rhs.Int(p, w)
	if !ok {
		return false
	}
	return l > r
}

type IntLess struct {
	Lhs, Rhs IntProperty
}

func (c IntLess) Evaluate(p *Player, w *World) bool {
	l, ok := c.Lhs.Int(p, w)
	if !ok {
		return false
	}
	r, ok := c.Rhs.Int(p, w)
	if !ok {
		return false
	}
	return l < r
}

type StringEquals struct {
	Lhs, Rhs StringProperty
}

func (c StringEquals) Evaluate(p *Player, w *World) bool {
	l, ok := c.Lhs.Str(p, w)
	if !ok {
		return false
	}
	r, ok := c.Rhs.Str(p, w)
	if !ok {
		return false
	}
	return l == r
}

// EffectEquipped is true while the player has the effect active.
type EffectEquipped struct {
	Effect Effect
}

func (c EffectEquipped) Evaluate(p *Player, _ *World) bool {
	if p == nil {
		return false
	}
	return p.HasEffect(c.Effect)
}

type Negate struct {
	Inner Condition
}

func (c Negate) Evaluate(p *Player, w *World) bool {
	return !c.Inner.Evaluate(p, w)
}

// BoolCondition evaluates a bool expression as a condition; absent
// reads as false.
type BoolCondition struct {
	Value BoolProperty
}

func (c BoolCondition) Evaluate(p *Player, w *World) bool {
	v, ok := c.Value.Bool(p, w)
	return ok && v
}

// VariableCondition reads a bool variable on the acting entity.
type VariableCondition struct {
	Name StringProperty
}

func (c VariableCondition) Evaluate(p *Player, w *World) bool {
	v, ok := entityVariable(c.Name, p, w)
	if !ok {
		return false
	}
	b, ok := v.AsBool(p, w)
	return ok && b
}
