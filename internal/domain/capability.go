package domain

type TriggerSpecKind string

const (
	SpecTriggerState     TriggerSpecKind = "state"
	SpecTriggerAttrDelta TriggerSpecKind = "attribute_delta"
	SpecTriggerPosition  TriggerSpecKind = "position"
	SpecTriggerTime      TriggerSpecKind = "time"
)

type ActionSpecKind string

const (
	SpecActionButton ActionSpecKind = "button"
	SpecActionFixed  ActionSpecKind = "fixed"
	SpecActionSlider ActionSpecKind = "slider"
	SpecActionToggle ActionSpecKind = "toggle"
)

// TriggerSpec describes one trigger kind a device type legally offers.
// The compiler trusts whatever kinds and parameters the catalog hands it.
type TriggerSpec struct {
	Kind   TriggerSpecKind `json:"kind"`
	Label  string          `json:"label"`
	States []string        `json:"states,omitempty"`
	// Attribute names the numeric attribute observed by attribute_delta and
	// position triggers ("state" means the literal state value).
	Attribute string   `json:"attribute,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// ActionSpec describes one action kind a device type legally offers.
type ActionSpec struct {
	Kind  ActionSpecKind `json:"kind"`
	Label string         `json:"label"`
	// button / fixed
	Command Command  `json:"command,omitempty"`
	Fixed   *float64 `json:"fixed,omitempty"`
	// slider
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
	// toggle
	OnCommand  Command `json:"onCommand,omitempty"`
	OffCommand Command `json:"offCommand,omitempty"`
}

// DeviceCapabilities is what the capability catalog returns for one device
// type: the trigger and action kinds the UI may offer for it.
type DeviceCapabilities struct {
	Triggers []TriggerSpec `json:"triggers"`
	Actions  []ActionSpec  `json:"actions"`
}
