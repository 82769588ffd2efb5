package save

import (
	"sort"

	"github.com/milk9111/overworld/engine"
)

// Capture builds a snapshot of the running game for one slot.
func Capture(slot int, p *engine.Player, w *engine.World) Snapshot {
	snap := Snapshot{
		Slot:      slot,
		Map:       w.Name,
		X:         p.X,
		Y:         p.Y,
		Layer:     p.Layer,
		Money:     p.Money,
		RandValue: w.Rand.SaveValue(),
	}
	if p.Current != nil {
		snap.Effect = p.Current.String()
	}
	for e, ok := range p.Unlocked {
		if ok {
			snap.Unlocked = append(snap.Unlocked, e.String())
		}
	}
	sort.Strings(snap.Unlocked)
	return snap
}

// Restore applies a snapshot to a freshly loaded game. The world must
// already be the map the snapshot names.
func Restore(snap Snapshot, p *engine.Player, w *engine.World) {
	p.X = snap.X
	p.Y = snap.Y
	p.Layer = snap.Layer
	p.Money = snap.Money
	for _, name := range snap.Unlocked {
		if e, ok := engine.ParseEffect(name); ok {
			p.Unlocked[e] = true
		}
	}
	if snap.Effect != "" {
		if e, ok := engine.ParseEffect(snap.Effect); ok {
			p.EquipEffect(e)
		}
	}
	w.Rand.SetSave(snap.RandValue)
}
