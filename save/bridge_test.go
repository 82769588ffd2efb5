package save

import (
	"testing"

	"github.com/milk9111/overworld/engine"
)

func testWorld(t *testing.T, name string) *engine.World {
	t.Helper()
	m := &engine.Tilemap{Width: 4, Height: 4}
	m.Layers = append(m.Layers, &engine.Layer{
		Name: "ground", Width: 4, Grid: make([]uint32, 16),
	})
	return engine.NewWorld(name, m, 7)
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	w := testWorld(t, "meadow.tmx")
	p := engine.NewPlayer(32, 16)
	p.Layer = 1
	p.Money = 40
	p.EquipEffect(engine.EffectSpeed)
	w.GlobalFlags["met_king"] = 2

	snap := Capture(1, p, w)
	if snap.Map != "meadow.tmx" || snap.X != 32 || snap.Y != 16 || snap.Layer != 1 {
		t.Fatalf("unexpected capture %+v", snap)
	}
	if snap.Effect != "speed" || len(snap.Unlocked) != 1 || snap.Unlocked[0] != "speed" {
		t.Fatalf("unexpected effects %+v", snap)
	}
	if snap.RandValue != w.Rand.SaveValue() {
		t.Fatal("expected the save stream to be captured")
	}

	w2 := testWorld(t, "meadow.tmx")
	p2 := engine.NewPlayer(0, 0)
	Restore(snap, p2, w2)
	if p2.X != 32 || p2.Y != 16 || p2.Layer != 1 || p2.Money != 40 {
		t.Fatalf("unexpected restore %+v", p2)
	}
	if !p2.HasEffect(engine.EffectSpeed) {
		t.Fatal("expected the effect to be re-equipped")
	}
	if !p2.Unlocked[engine.EffectSpeed] {
		t.Fatal("expected the effect to be unlocked")
	}
	if len(w2.GlobalFlags) != 0 {
		t.Fatalf("flags should stay with the session, got %v", w2.GlobalFlags)
	}
	if w2.Rand.SaveValue() != snap.RandValue {
		t.Fatal("expected the save stream to be restored")
	}
}

func TestCaptureWithoutEffect(t *testing.T) {
	w := testWorld(t, "cave.tmx")
	p := engine.NewPlayer(0, 0)
	snap := Capture(2, p, w)
	if snap.Effect != "" || len(snap.Unlocked) != 0 {
		t.Fatalf("unexpected effects %+v", snap)
	}
}
