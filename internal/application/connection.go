package application

// Mode selects which of the hub's two reachable base URLs a fallback call
// should use.
type Mode string

const (
	// ModeHome means the caller is on the hub's own network.
	ModeHome Mode = "home"
	// ModeCloud means the caller is remote and should prefer the hub's
	// externally reachable URL when one is configured.
	ModeCloud Mode = "cloud"
)

// ParseMode maps a user-supplied string onto a Mode, defaulting to home.
func ParseMode(s string) Mode {
	if s == string(ModeCloud) {
		return ModeCloud
	}
	return ModeHome
}

// HubConnection describes a reachable hub. A nil connection, or one with no
// usable URL for the requested mode, means "no fallback available", not an
// error in itself.
type HubConnection struct {
	BaseURL  string
	CloudURL string
	Token    string
}

// ResolveURL picks the base URL for a mode: cloud prefers the external URL
// and falls back to the local one; home always uses the local URL.
func (c *HubConnection) ResolveURL(mode Mode) (string, bool) {
	if c == nil {
		return "", false
	}
	if mode == ModeCloud && c.CloudURL != "" {
		return c.CloudURL, true
	}
	if c.BaseURL == "" {
		return "", false
	}
	return c.BaseURL, true
}
