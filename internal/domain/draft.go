package domain

// Mode is the execution concurrency policy of a compiled automation.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeRestart  Mode = "restart"
	ModeQueued   Mode = "queued"
	ModeParallel Mode = "parallel"
)

// AutomationDraft is the backend-agnostic representation of one automation
// as authored by the user. It is compiled freshly before every network call
// and never persisted on its own.
type AutomationDraft struct {
	// ID is empty for automations that have not been created yet.
	ID          string    `json:"id,omitempty"`
	Alias       string    `json:"alias"`
	Description string    `json:"description,omitempty"`
	Mode        Mode      `json:"mode,omitempty"`
	Triggers    []Trigger `json:"triggers"`
	Actions     []Action  `json:"actions"`
	DaysOfWeek  []Weekday `json:"daysOfWeek,omitempty"`
	// TriggerTime is an optional "HH:mm" string. Together with DaysOfWeek it
	// gates execution to a one-minute window starting at that time.
	TriggerTime string `json:"triggerTime,omitempty"`
}

// HasTimeGate reports whether the draft carries any day/time gating.
func (d AutomationDraft) HasTimeGate() bool {
	return len(d.DaysOfWeek) > 0 || d.TriggerTime != ""
}

type TriggerKind string

const (
	TriggerState          TriggerKind = "state"
	TriggerNumericDelta   TriggerKind = "numeric_delta"
	TriggerPositionEquals TriggerKind = "position_equals"
	TriggerTime           TriggerKind = "time"
)

type DeltaDirection string

const (
	DirectionIncrease DeltaDirection = "increase"
	DirectionDecrease DeltaDirection = "decrease"
)

// Trigger is a tagged union; Kind selects which of the field groups below is
// meaningful. Triggers on a draft are OR'd: any firing trigger fires the
// automation.
type Trigger struct {
	Kind     TriggerKind `json:"kind"`
	EntityID string      `json:"entityId,omitempty"`

	// state: either bound may be empty ("any transition to X" / "away from Y").
	To   string `json:"to,omitempty"`
	From string `json:"from,omitempty"`

	// numeric_delta: fires on every state change; magnitude gating happens
	// via a synthesized condition, not in the trigger itself.
	Attribute string         `json:"attribute,omitempty"`
	Direction DeltaDirection `json:"direction,omitempty"`

	// position_equals: target value matched within a small tolerance band.
	Value float64 `json:"value,omitempty"`

	// time: wall-clock "HH:mm", optionally restricted to weekdays.
	At       string    `json:"at,omitempty"`
	Weekdays []Weekday `json:"weekdays,omitempty"`
}

type ActionKind string

const ActionDeviceCommand ActionKind = "device_command"

// Action is one step of the automation's ordered action sequence.
type Action struct {
	Kind     ActionKind `json:"kind"`
	EntityID string     `json:"entityId"`
	Command  Command    `json:"command"`
	// Value is command-dependent (percentage, temperature, ...).
	Value *float64 `json:"value,omitempty"`
}

// Command identifiers form a fixed vocabulary shared with the capability
// catalog and the UI.
type Command string

const (
	CmdLightTurnOn        Command = "light/turn_on"
	CmdLightTurnOff       Command = "light/turn_off"
	CmdLightSetBrightness Command = "light/set_brightness"
	CmdBlindOpen          Command = "blind/open"
	CmdBlindClose         Command = "blind/close"
	CmdBlindSetPosition   Command = "blind/set_position"
	CmdTVTurnOn           Command = "tv/turn_on"
	CmdTVTurnOff          Command = "tv/turn_off"
	CmdSpeakerTurnOn      Command = "speaker/turn_on"
	CmdSpeakerTurnOff     Command = "speaker/turn_off"
	CmdMediaVolumeSet     Command = "media/volume_set"
	CmdMediaPlayPause     Command = "media/play_pause"
	CmdBoilerSetTemp      Command = "boiler/set_temperature"
	CmdBoilerTempUp       Command = "boiler/temp_up"
	CmdBoilerTempDown     Command = "boiler/temp_down"
)
