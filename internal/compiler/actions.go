package compiler

import (
	"strings"

	"home-automation/internal/domain"
	"home-automation/internal/infra/homeassistant"
)

// lowerAction maps one draft action onto a hub service call through a
// deterministic (command, entity domain) table. It never fails: combinations
// the hub cannot express degrade to the closest generic service, and
// dashboard-only commands or unrecognized ones are dropped from the output.
func lowerAction(a domain.Action) (homeassistant.Action, bool) {
	dom := entityDomain(a.EntityID)
	target := homeassistant.Target{EntityID: a.EntityID}

	switch a.Command {
	case domain.CmdLightTurnOn:
		if dom == "light" {
			return homeassistant.Action{Service: "light.turn_on", Target: target}, true
		}
		return homeassistant.Action{Service: "homeassistant.turn_on", Target: target}, true

	case domain.CmdLightTurnOff:
		if dom == "light" {
			return homeassistant.Action{Service: "light.turn_off", Target: target}, true
		}
		return homeassistant.Action{Service: "homeassistant.turn_off", Target: target}, true

	case domain.CmdLightSetBrightness:
		if dom != "light" {
			// Best effort: the generic service cannot carry brightness.
			return homeassistant.Action{Service: "homeassistant.turn_on", Target: target}, true
		}
		return homeassistant.Action{
			Service: "light.turn_on",
			Target:  target,
			Data:    map[string]any{"brightness_pct": int(clamp(value(a), 0, 100))},
		}, true

	case domain.CmdBlindOpen:
		return homeassistant.Action{
			Service: "cover.set_cover_position",
			Target:  target,
			Data:    map[string]any{"position": 100},
		}, true

	case domain.CmdBlindClose:
		return homeassistant.Action{
			Service: "cover.set_cover_position",
			Target:  target,
			Data:    map[string]any{"position": 0},
		}, true

	case domain.CmdBlindSetPosition:
		return homeassistant.Action{
			Service: "cover.set_cover_position",
			Target:  target,
			Data:    map[string]any{"position": int(clamp(value(a), 0, 100))},
		}, true

	case domain.CmdTVTurnOn, domain.CmdSpeakerTurnOn:
		return homeassistant.Action{Service: "media_player.turn_on", Target: target}, true

	case domain.CmdTVTurnOff, domain.CmdSpeakerTurnOff:
		return homeassistant.Action{Service: "media_player.turn_off", Target: target}, true

	case domain.CmdMediaVolumeSet:
		return homeassistant.Action{
			Service: "media_player.volume_set",
			Target:  target,
			Data:    map[string]any{"volume_level": clamp(value(a)/100, 0, 1)},
		}, true

	case domain.CmdMediaPlayPause:
		return homeassistant.Action{Service: "media_player.media_play_pause", Target: target}, true

	case domain.CmdBoilerSetTemp:
		if dom == "climate" {
			return homeassistant.Action{
				Service: "climate.set_temperature",
				Target:  target,
				Data:    map[string]any{"temperature": value(a)},
			}, true
		}
		// Degraded fallback: still carries the temperature so a capable
		// generic handler can pick it up.
		return homeassistant.Action{
			Service: "homeassistant.turn_on",
			Target:  target,
			Data:    map[string]any{"temperature": value(a)},
		}, true

	case domain.CmdBoilerTempUp, domain.CmdBoilerTempDown:
		// Dashboard-only stepper commands; never compiled into automations.
		return homeassistant.Action{}, false

	default:
		return homeassistant.Action{}, false
	}
}

// entityDomain is the substring of the entity id before its first dot.
func entityDomain(entityID string) string {
	return strings.SplitN(entityID, ".", 2)[0]
}

func value(a domain.Action) float64 {
	if a.Value == nil {
		return 0
	}
	return *a.Value
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
