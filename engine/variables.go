package engine

// VariableKind is the declared type of a per-entity variable.
type VariableKind int

const (
	VarInt VariableKind = iota
	VarFloat
	VarBool
	VarString
)

// VariableValue is a per-entity named value: either a literal cached
// when it was set, or a retained expression re-evaluated on each read.
type VariableValue struct {
	Kind   VariableKind
	Stored bool

	litInt    int
	litFloat  float32
	litBool   bool
	litString string

	intExpr    IntProperty
	floatExpr  FloatProperty
	boolExpr   BoolProperty
	stringExpr StringProperty
}

func LiteralInt(v int) VariableValue {
	return VariableValue{Kind: VarInt, Stored: true, litInt: v}
}

func LiteralFloat(v float32) VariableValue {
	return VariableValue{Kind: VarFloat, Stored: true, litFloat: v}
}

func LiteralBool(v bool) VariableValue {
	return VariableValue{Kind: VarBool, Stored: true, litBool: v}
}

func LiteralString(v string) VariableValue {
	return VariableValue{Kind: VarString, Stored: true, litString: v}
}

func ExprInt(e IntProperty) VariableValue {
	return VariableValue{Kind: VarInt, intExpr: e}
}

func ExprFloat(e FloatProperty) VariableValue {
	return VariableValue{Kind: VarFloat, floatExpr: e}
}

func ExprBool(e BoolProperty) VariableValue {
	return VariableValue{Kind: VarBool, boolExpr: e}
}

func ExprString(e StringProperty) VariableValue {
	return VariableValue{Kind: VarString, stringExpr: e}
}

func (v *VariableValue) AsInt(p *Player, w *World) (int, bool) {
	if v.Kind != VarInt {
		return 0, false
	}
	if v.Stored {
		return v.litInt, true
	}
	return v.intExpr.Int(p, w)
}

func (v *VariableValue) AsFloat(p *Player, w *World) (float32, bool) {
	if v.Kind != VarFloat {
		return 0, false
	}
	if v.Stored {
		return v.litFloat, true
	}
	return v.floatExpr.Float(p, w)
}

func (v *VariableValue) AsBool(p *Player, w *World) (bool, bool) {
	if v.Kind != VarBool {
		return false, false
	}
	if v.Stored {
		return v.litBool, true
	}
	return v.boolExpr.Bool(p, w)
}

func (v *VariableValue) AsString(p *Player, w *World) (string, bool) {
	if v.Kind != VarString {
		return "", false
	}
	if v.Stored {
		return v.litString, true
	}
	return v.stringExpr.Str(p, w)
}
