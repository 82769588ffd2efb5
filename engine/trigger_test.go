package engine

import (
	"testing"

	"github.com/milk9111/overworld/common"
)

func TestTriggerFulfillment(t *testing.T) {
	cases := []struct {
		name string
		trig Trigger
		ev   TriggerEvent
		want bool
	}{
		{"use_on_use", UseTrigger{}, TriggerEvent{Kind: InteractUse}, true},
		{"use_on_walk", UseTrigger{}, TriggerEvent{Kind: InteractWalk}, false},
		{"walk", WalkTrigger{}, TriggerEvent{Kind: InteractWalk}, true},
		{"bump", BumpTrigger{}, TriggerEvent{Kind: InteractBump}, true},
		{"interact_on_bump", AnyInteractionTrigger{}, TriggerEvent{Kind: InteractBump}, true},
		{"interact_on_load", AnyInteractionTrigger{}, TriggerEvent{Kind: InteractLoad}, false},
		{"onload", OnLoadTrigger{}, TriggerEvent{Kind: InteractLoad}, true},
		{"tick_hit", TickTrigger{Period: 5}, TriggerEvent{Kind: InteractTick, Tick: 10}, true},
		{"tick_miss", TickTrigger{Period: 5}, TriggerEvent{Kind: InteractTick, Tick: 11}, false},
		{"tick_zero_period", TickTrigger{}, TriggerEvent{Kind: InteractTick, Tick: 10}, false},
		{"effect_switch", EffectSwitchTrigger{}, TriggerEvent{Kind: InteractEffectSwitch}, true},
		{"sided_match", SidedTrigger{Side: common.Left, Inner: UseTrigger{}},
			TriggerEvent{Kind: InteractUse, Side: common.Left}, true},
		{"sided_wrong_side", SidedTrigger{Side: common.Left, Inner: UseTrigger{}},
			TriggerEvent{Kind: InteractUse, Side: common.Right}, false},
		{"or_any", OrTrigger{Triggers: []Trigger{UseTrigger{}, WalkTrigger{}}},
			TriggerEvent{Kind: InteractWalk}, true},
		{"or_none", OrTrigger{Triggers: []Trigger{UseTrigger{}, WalkTrigger{}}},
			TriggerEvent{Kind: InteractBump}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.trig.Fulfilled(c.ev); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestContainsEffectSwitch(t *testing.T) {
	cases := []struct {
		name string
		trig Trigger
		want bool
	}{
		{"plain", EffectSwitchTrigger{}, true},
		{"use", UseTrigger{}, false},
		{"nested_sided", SidedTrigger{Side: common.Up, Inner: EffectSwitchTrigger{}}, true},
		{"nested_or", OrTrigger{Triggers: []Trigger{UseTrigger{}, EffectSwitchTrigger{}}}, true},
		{"or_without", OrTrigger{Triggers: []Trigger{UseTrigger{}, WalkTrigger{}}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := containsEffectSwitch(c.trig); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}
