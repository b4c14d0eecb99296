// Package catalog holds the built-in capability catalog: which trigger and
// action kinds the UI may legally offer for each device type. The compiler
// trusts these specs; anything outside them never reaches a draft.
package catalog

import "home-automation/internal/domain"

type Catalog struct {
	byType map[string]domain.DeviceCapabilities
}

func New() *Catalog {
	return &Catalog{byType: defaultCapabilities()}
}

// Capabilities returns the specs offered for a device type.
func (c *Catalog) Capabilities(deviceType string) (domain.DeviceCapabilities, bool) {
	caps, ok := c.byType[deviceType]
	return caps, ok
}

// DeviceTypes lists the types the catalog knows about.
func (c *Catalog) DeviceTypes() []string {
	types := make([]string, 0, len(c.byType))
	for t := range c.byType {
		types = append(types, t)
	}
	return types
}

func defaultCapabilities() map[string]domain.DeviceCapabilities {
	return map[string]domain.DeviceCapabilities{
		"light": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerState, Label: "Turns on or off", States: []string{"on", "off"}},
			},
			Actions: []domain.ActionSpec{
				{Kind: domain.SpecActionToggle, Label: "Power", OnCommand: domain.CmdLightTurnOn, OffCommand: domain.CmdLightTurnOff},
				{Kind: domain.SpecActionSlider, Label: "Brightness", Command: domain.CmdLightSetBrightness, Min: f(0), Max: f(100), Step: f(1)},
			},
		},
		"blind": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerPosition, Label: "Reaches position", Attribute: "current_position", Min: f(0), Max: f(100)},
			},
			Actions: []domain.ActionSpec{
				{Kind: domain.SpecActionFixed, Label: "Open", Command: domain.CmdBlindOpen, Fixed: f(100)},
				{Kind: domain.SpecActionFixed, Label: "Close", Command: domain.CmdBlindClose, Fixed: f(0)},
				{Kind: domain.SpecActionSlider, Label: "Position", Command: domain.CmdBlindSetPosition, Min: f(0), Max: f(100), Step: f(1)},
			},
		},
		"tv": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerState, Label: "Turns on or off", States: []string{"on", "off"}},
			},
			Actions: []domain.ActionSpec{
				{Kind: domain.SpecActionToggle, Label: "Power", OnCommand: domain.CmdTVTurnOn, OffCommand: domain.CmdTVTurnOff},
				{Kind: domain.SpecActionButton, Label: "Play / pause", Command: domain.CmdMediaPlayPause},
			},
		},
		"speaker": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerState, Label: "Starts or stops playing", States: []string{"playing", "idle"}},
				{Kind: domain.SpecTriggerAttrDelta, Label: "Volume changes", Attribute: "volume_level"},
			},
			Actions: []domain.ActionSpec{
				{Kind: domain.SpecActionToggle, Label: "Power", OnCommand: domain.CmdSpeakerTurnOn, OffCommand: domain.CmdSpeakerTurnOff},
				{Kind: domain.SpecActionSlider, Label: "Volume", Command: domain.CmdMediaVolumeSet, Min: f(0), Max: f(100), Step: f(1)},
				{Kind: domain.SpecActionButton, Label: "Play / pause", Command: domain.CmdMediaPlayPause},
			},
		},
		"boiler": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerAttrDelta, Label: "Temperature changes", Attribute: "temperature"},
			},
			Actions: []domain.ActionSpec{
				{Kind: domain.SpecActionSlider, Label: "Target temperature", Command: domain.CmdBoilerSetTemp, Min: f(5), Max: f(30), Step: f(0.5)},
			},
		},
		"sensor": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerState, Label: "Reports a state"},
				{Kind: domain.SpecTriggerAttrDelta, Label: "Value changes", Attribute: "state"},
			},
			Actions: []domain.ActionSpec{},
		},
		"schedule": {
			Triggers: []domain.TriggerSpec{
				{Kind: domain.SpecTriggerTime, Label: "At a time of day"},
			},
			Actions: []domain.ActionSpec{},
		},
	}
}

func f(v float64) *float64 {
	return &v
}
