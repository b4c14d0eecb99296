package compiler_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"home-automation/internal/compiler"
	"home-automation/internal/domain"
)

func lightAction() domain.Action {
	return domain.Action{
		Kind:     domain.ActionDeviceCommand,
		EntityID: "light.living_room",
		Command:  domain.CmdLightTurnOn,
	}
}

func TestCompile_StateTriggerNoGate_HasNoConditions(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias: "Lamp follows switch",
		Triggers: []domain.Trigger{
			{Kind: domain.TriggerState, EntityID: "binary_sensor.wall_switch", To: "on"},
		},
		Actions: []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	if cfg.Condition != nil {
		t.Errorf("condition: got %v, want none", cfg.Condition)
	}

	if len(cfg.Trigger) != 1 {
		t.Fatalf("trigger count: got %d, want 1", len(cfg.Trigger))
	}
	if cfg.Trigger[0].Platform != "state" || cfg.Trigger[0].To != "on" || cfg.Trigger[0].From != "" {
		t.Errorf("unexpected trigger: %+v", cfg.Trigger[0])
	}
}

func TestCompile_TimeWindow(t *testing.T) {
	tests := []struct {
		name        string
		triggerTime string
		wantAfter   string
		wantBefore  string
	}{
		{"midnight rollover", "23:59", "23:59", "00:00"},
		{"hour rollover", "18:59", "18:59", "19:00"},
		{"plain minute", "07:15", "07:15", "07:16"},
		{"unpadded input", "7:5", "07:05", "07:06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := domain.AutomationDraft{
				Alias:       "Scheduled",
				DaysOfWeek:  []domain.Weekday{domain.Monday},
				TriggerTime: tt.triggerTime,
				Actions:     []domain.Action{lightAction()},
			}

			cfg := compiler.Compile(draft)

			if len(cfg.Condition) != 1 {
				t.Fatalf("condition count: got %d, want 1", len(cfg.Condition))
			}
			c := cfg.Condition[0]
			if c.Condition != "time" {
				t.Errorf("condition type: got %s, want time", c.Condition)
			}
			if c.After != tt.wantAfter {
				t.Errorf("after: got %s, want %s", c.After, tt.wantAfter)
			}
			if c.Before != tt.wantBefore {
				t.Errorf("before: got %s, want %s", c.Before, tt.wantBefore)
			}
			if len(c.Weekday) != 1 || c.Weekday[0] != "mon" {
				t.Errorf("weekday: got %v, want [mon]", c.Weekday)
			}
		})
	}
}

func TestCompile_DaysWithoutTime_GateHasNoWindow(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias:      "Weekend only",
		DaysOfWeek: []domain.Weekday{domain.Saturday, domain.Sunday},
		Actions:    []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	if len(cfg.Condition) != 1 {
		t.Fatalf("condition count: got %d, want 1", len(cfg.Condition))
	}
	c := cfg.Condition[0]
	if c.After != "" || c.Before != "" {
		t.Errorf("window: got after=%q before=%q, want empty", c.After, c.Before)
	}
	if len(c.Weekday) != 2 {
		t.Errorf("weekday: got %v, want sat,sun", c.Weekday)
	}
}

func TestCompile_NumericDelta_ThresholdPolicy(t *testing.T) {
	tests := []struct {
		attribute string
		want      string
	}{
		{"temperature", ">= 1 }}"},
		{"target_temp", ">= 1 }}"},
		{"position", ">= 0.01 }}"},
		{"volume_level", ">= 0.01 }}"},
	}

	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			draft := domain.AutomationDraft{
				Alias: "Delta",
				Triggers: []domain.Trigger{
					{
						Kind:      domain.TriggerNumericDelta,
						EntityID:  "sensor.thing",
						Attribute: tt.attribute,
						Direction: domain.DirectionIncrease,
					},
				},
				Actions: []domain.Action{lightAction()},
			}

			cfg := compiler.Compile(draft)

			// Delta triggers lower to a plain state trigger; the magnitude
			// check lives in the synthesized template condition.
			if len(cfg.Trigger) != 1 || cfg.Trigger[0].Platform != "state" {
				t.Fatalf("unexpected triggers: %+v", cfg.Trigger)
			}
			if len(cfg.Condition) != 1 {
				t.Fatalf("condition count: got %d, want 1", len(cfg.Condition))
			}
			tmpl := cfg.Condition[0].ValueTemplate
			if !strings.HasSuffix(tmpl, tt.want) {
				t.Errorf("template %q does not end with %q", tmpl, tt.want)
			}
		})
	}
}

func TestCompile_NumericDelta_Directions(t *testing.T) {
	base := domain.Trigger{
		Kind:      domain.TriggerNumericDelta,
		EntityID:  "climate.boiler",
		Attribute: "temperature",
	}

	increase := base
	increase.Direction = domain.DirectionIncrease
	decrease := base
	decrease.Direction = domain.DirectionDecrease

	draft := domain.AutomationDraft{
		Alias:    "Both ways",
		Triggers: []domain.Trigger{increase, decrease},
		Actions:  []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	if len(cfg.Condition) != 2 {
		t.Fatalf("condition count: got %d, want 2", len(cfg.Condition))
	}

	wantInc := "{{ (trigger.to_state.attributes.temperature | float(0)) - (trigger.from_state.attributes.temperature | float(0)) >= 1 }}"
	if cfg.Condition[0].ValueTemplate != wantInc {
		t.Errorf("increase template:\n got %s\nwant %s", cfg.Condition[0].ValueTemplate, wantInc)
	}

	wantDec := "{{ (trigger.from_state.attributes.temperature | float(0)) - (trigger.to_state.attributes.temperature | float(0)) >= 1 }}"
	if cfg.Condition[1].ValueTemplate != wantDec {
		t.Errorf("decrease template:\n got %s\nwant %s", cfg.Condition[1].ValueTemplate, wantDec)
	}
}

func TestCompile_NumericDelta_StateAttributeUsesLiteralState(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias: "Raw state",
		Triggers: []domain.Trigger{
			{
				Kind:      domain.TriggerNumericDelta,
				EntityID:  "sensor.humidity",
				Attribute: "state",
				Direction: domain.DirectionIncrease,
			},
		},
		Actions: []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	want := "{{ (trigger.to_state.state | float(0)) - (trigger.from_state.state | float(0)) >= 0.01 }}"
	if cfg.Condition[0].ValueTemplate != want {
		t.Errorf("template:\n got %s\nwant %s", cfg.Condition[0].ValueTemplate, want)
	}
}

func TestCompile_PositionEquals_ToleranceBand(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias: "Blind halfway",
		Triggers: []domain.Trigger{
			{
				Kind:      domain.TriggerPositionEquals,
				EntityID:  "cover.bedroom_blind",
				Attribute: "current_position",
				Value:     50,
			},
		},
		Actions: []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	if len(cfg.Trigger) != 1 {
		t.Fatalf("trigger count: got %d, want 1", len(cfg.Trigger))
	}
	tr := cfg.Trigger[0]
	if tr.Platform != "numeric_state" {
		t.Errorf("platform: got %s, want numeric_state", tr.Platform)
	}
	if tr.Attribute != "current_position" {
		t.Errorf("attribute: got %s, want current_position", tr.Attribute)
	}
	if tr.Above == nil || *tr.Above != 50-0.01 {
		t.Errorf("above: got %v, want %v", tr.Above, 50-0.01)
	}
	if tr.Below == nil || *tr.Below != 50+0.01 {
		t.Errorf("below: got %v, want %v", tr.Below, 50+0.01)
	}
}

func TestCompile_TimeTrigger_WeekdayPassthrough(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias: "Weekday wakeup",
		Triggers: []domain.Trigger{
			{
				Kind:     domain.TriggerTime,
				At:       "06:30",
				Weekdays: []domain.Weekday{domain.Monday, domain.Friday},
			},
		},
		Actions: []domain.Action{lightAction()},
	}

	cfg := compiler.Compile(draft)

	tr := cfg.Trigger[0]
	if tr.Platform != "time" || tr.At != "06:30" {
		t.Errorf("unexpected trigger: %+v", tr)
	}
	if len(tr.Weekday) != 2 || tr.Weekday[0] != "mon" || tr.Weekday[1] != "fri" {
		t.Errorf("weekday: got %v, want [mon fri]", tr.Weekday)
	}
}

func TestCompile_ModeDefaultsToSingle(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias:    "Default mode",
		Triggers: []domain.Trigger{{Kind: domain.TriggerState, EntityID: "light.a", To: "on"}},
		Actions:  []domain.Action{lightAction()},
	}

	if got := compiler.Compile(draft).Mode; got != "single" {
		t.Errorf("mode: got %s, want single", got)
	}

	draft.Mode = domain.ModeRestart
	if got := compiler.Compile(draft).Mode; got != "restart" {
		t.Errorf("mode: got %s, want restart", got)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	v := 72.5
	draft := domain.AutomationDraft{
		ID:          "auto-42",
		Alias:       "Kitchen everything",
		Description: "all trigger kinds at once",
		Mode:        domain.ModeQueued,
		Triggers: []domain.Trigger{
			{Kind: domain.TriggerState, EntityID: "light.kitchen", To: "on", From: "off"},
			{Kind: domain.TriggerNumericDelta, EntityID: "sensor.kitchen_temp", Attribute: "temperature", Direction: domain.DirectionDecrease},
			{Kind: domain.TriggerPositionEquals, EntityID: "cover.kitchen", Attribute: "current_position", Value: 30},
			{Kind: domain.TriggerTime, At: "21:00", Weekdays: []domain.Weekday{domain.Sunday}},
		},
		Actions: []domain.Action{
			{Kind: domain.ActionDeviceCommand, EntityID: "light.kitchen", Command: domain.CmdLightSetBrightness, Value: &v},
			{Kind: domain.ActionDeviceCommand, EntityID: "media_player.kitchen", Command: domain.CmdMediaVolumeSet, Value: &v},
		},
		DaysOfWeek:  []domain.Weekday{domain.Sunday},
		TriggerTime: "21:00",
	}

	first, err := json.Marshal(compiler.Compile(draft))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	second, err := json.Marshal(compiler.Compile(draft))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("compilation is not deterministic:\n first %s\nsecond %s", first, second)
	}
}

func TestCompile_EveningLightsScenario(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias: "Evening lights",
		Triggers: []domain.Trigger{
			{Kind: domain.TriggerTime, At: "19:00"},
		},
		Actions: []domain.Action{
			{Kind: domain.ActionDeviceCommand, EntityID: "light.living_room", Command: domain.CmdLightTurnOn},
		},
	}

	cfg := compiler.Compile(draft)

	if cfg.Alias != "Evening lights" {
		t.Errorf("alias: got %s", cfg.Alias)
	}
	if len(cfg.Trigger) != 1 || cfg.Trigger[0].Platform != "time" || cfg.Trigger[0].At != "19:00" {
		t.Errorf("unexpected triggers: %+v", cfg.Trigger)
	}
	if len(cfg.Action) != 1 {
		t.Fatalf("action count: got %d, want 1", len(cfg.Action))
	}
	if cfg.Action[0].Service != "light.turn_on" || cfg.Action[0].Target.EntityID != "light.living_room" {
		t.Errorf("unexpected action: %+v", cfg.Action[0])
	}
	if cfg.Condition != nil {
		t.Errorf("condition: got %v, want none", cfg.Condition)
	}
}

func TestCompile_OmitsConditionKeyWhenEmpty(t *testing.T) {
	draft := domain.AutomationDraft{
		Alias:    "Plain",
		Triggers: []domain.Trigger{{Kind: domain.TriggerState, EntityID: "light.a", To: "on"}},
		Actions:  []domain.Action{lightAction()},
	}

	data, err := json.Marshal(compiler.Compile(draft))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), `"condition"`) {
		t.Errorf("serialized config should omit condition: %s", data)
	}
}
