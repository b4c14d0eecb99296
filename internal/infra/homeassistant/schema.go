package homeassistant

// Wire types for the hub's automation config schema. Field names are dictated
// by Home Assistant's automation YAML/JSON format and must not change.

type AutomationConfig struct {
	ID          string      `json:"id,omitempty"`
	Alias       string      `json:"alias"`
	Description string      `json:"description"`
	Trigger     []Trigger   `json:"trigger"`
	Condition   []Condition `json:"condition,omitempty"`
	Action      []Action    `json:"action"`
	Mode        string      `json:"mode"`
}

type Trigger struct {
	Platform string `json:"platform"`
	EntityID string `json:"entity_id,omitempty"`

	// state
	To   string `json:"to,omitempty"`
	From string `json:"from,omitempty"`

	// numeric_state
	Attribute string   `json:"attribute,omitempty"`
	Above     *float64 `json:"above,omitempty"`
	Below     *float64 `json:"below,omitempty"`

	// time
	At      string   `json:"at,omitempty"`
	Weekday []string `json:"weekday,omitempty"`
}

type Condition struct {
	Condition string `json:"condition"`

	// time
	After   string   `json:"after,omitempty"`
	Before  string   `json:"before,omitempty"`
	Weekday []string `json:"weekday,omitempty"`

	// template
	ValueTemplate string `json:"value_template,omitempty"`
}

type Action struct {
	Service string         `json:"service"`
	Target  Target         `json:"target"`
	Data    map[string]any `json:"data,omitempty"`
}

type Target struct {
	EntityID string `json:"entity_id"`
}

// Entity is one row of the hub's full entity-state snapshot (GET /api/states).
type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed"`
}
