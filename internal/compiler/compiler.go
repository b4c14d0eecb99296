// Package compiler lowers a backend-agnostic automation draft into the hub's
// native automation config. Compilation is pure and deterministic: no I/O,
// no side effects, and the same draft always yields byte-identical output.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"home-automation/internal/domain"
	"home-automation/internal/infra/homeassistant"
)

// positionTolerance is the band applied around position_equals targets.
// Hardware-reported positions jitter, so exact float equality is never used.
const positionTolerance = 0.01

// Compile lowers a draft into the hub's native schema. It never fails for a
// validated draft: unsupported trigger kinds and command/domain combinations
// degrade or are dropped, and the caller is responsible for warning the user
// if the resulting action list ends up empty.
func Compile(d domain.AutomationDraft) homeassistant.AutomationConfig {
	mode := string(d.Mode)
	if mode == "" {
		mode = string(domain.ModeSingle)
	}

	cfg := homeassistant.AutomationConfig{
		ID:          d.ID,
		Alias:       d.Alias,
		Description: d.Description,
		Mode:        mode,
	}

	cfg.Trigger = make([]homeassistant.Trigger, 0, len(d.Triggers))
	for _, t := range d.Triggers {
		if nt, ok := lowerTrigger(t); ok {
			cfg.Trigger = append(cfg.Trigger, nt)
		}
	}

	cfg.Action = make([]homeassistant.Action, 0, len(d.Actions))
	for _, a := range d.Actions {
		if na, ok := lowerAction(a); ok {
			cfg.Action = append(cfg.Action, na)
		}
	}

	cfg.Condition = synthesizeConditions(d)

	return cfg
}

func lowerTrigger(t domain.Trigger) (homeassistant.Trigger, bool) {
	switch t.Kind {
	case domain.TriggerState:
		return homeassistant.Trigger{
			Platform: "state",
			EntityID: t.EntityID,
			To:       t.To,
			From:     t.From,
		}, true

	case domain.TriggerNumericDelta:
		// The hub's state-trigger primitive cannot express "increased by at
		// least N", so the trigger fires on any state change and the
		// magnitude check lives in a template condition.
		return homeassistant.Trigger{
			Platform: "state",
			EntityID: t.EntityID,
		}, true

	case domain.TriggerPositionEquals:
		above := t.Value - positionTolerance
		below := t.Value + positionTolerance
		nt := homeassistant.Trigger{
			Platform: "numeric_state",
			EntityID: t.EntityID,
			Above:    &above,
			Below:    &below,
		}
		if t.Attribute != "" && t.Attribute != "state" {
			nt.Attribute = t.Attribute
		}
		return nt, true

	case domain.TriggerTime:
		return homeassistant.Trigger{
			Platform: "time",
			At:       t.At,
			Weekday:  weekdayStrings(t.Weekdays),
		}, true

	default:
		return homeassistant.Trigger{}, false
	}
}

// synthesizeConditions appends, in order: the day/time gate (if any), then
// one template condition per numeric_delta trigger. All conditions are ANDed
// by the hub. Returns nil when nothing is needed so the condition key is
// omitted entirely.
func synthesizeConditions(d domain.AutomationDraft) []homeassistant.Condition {
	var conds []homeassistant.Condition

	if d.HasTimeGate() {
		c := homeassistant.Condition{
			Condition: "time",
			Weekday:   weekdayStrings(d.DaysOfWeek),
		}
		if after, before, ok := firingWindow(d.TriggerTime); ok {
			c.After = after
			c.Before = before
		}
		conds = append(conds, c)
	}

	for _, t := range d.Triggers {
		if t.Kind != domain.TriggerNumericDelta {
			continue
		}
		conds = append(conds, homeassistant.Condition{
			Condition:     "template",
			ValueTemplate: deltaTemplate(t),
		})
	}

	return conds
}

// firingWindow turns an "HH:mm" trigger time into a closed one-minute window.
// Downstream scheduling has second-level jitter, so an exact-instant match
// would regularly miss; the window rolls over midnight (23:59 -> 00:00).
func firingWindow(triggerTime string) (after, before string, ok bool) {
	parts := strings.SplitN(triggerTime, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", "", false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", false
	}

	after = fmt.Sprintf("%02d:%02d", hour, minute)

	minute++
	if minute >= 60 {
		minute = 0
		hour = (hour + 1) % 24
	}
	before = fmt.Sprintf("%02d:%02d", hour, minute)

	return after, before, true
}

// deltaTemplate builds the before/after comparison for a numeric_delta
// trigger. Values are coerced with a 0.0 fallback so a transition from or to
// a non-numeric state never errors at runtime; it simply fails the condition.
func deltaTemplate(t domain.Trigger) string {
	from := stateRef("from", t.Attribute)
	to := stateRef("to", t.Attribute)
	threshold := formatThreshold(deltaThreshold(t.Attribute))

	if t.Direction == domain.DirectionDecrease {
		return fmt.Sprintf("{{ (%s) - (%s) >= %s }}", from, to, threshold)
	}
	return fmt.Sprintf("{{ (%s) - (%s) >= %s }}", to, from, threshold)
}

// deltaThreshold is a two-tier sensitivity policy: coarse for
// temperature-like attributes, fine for normalized or percentage-like ones.
func deltaThreshold(attribute string) float64 {
	if strings.Contains(strings.ToLower(attribute), "temp") {
		return 1.0
	}
	return 0.01
}

func stateRef(which, attribute string) string {
	if attribute == "" || attribute == "state" {
		return fmt.Sprintf("trigger.%s_state.state | float(0)", which)
	}
	return fmt.Sprintf("trigger.%s_state.attributes.%s | float(0)", which, attribute)
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func weekdayStrings(days []domain.Weekday) []string {
	if len(days) == 0 {
		return nil
	}
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}
