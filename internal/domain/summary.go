package domain

// AutomationSummary is the read-model returned by listing automations.
// The Basic/Triggers/Actions strings are human-readable shape summaries the
// platform backend computes; the hub fallback cannot reconstruct them because
// the compiled native form is not meant to be decompiled back to a draft.
type AutomationSummary struct {
	ID          string `json:"id"`
	Alias       string `json:"alias"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	Basic       string `json:"basic,omitempty"`
	Triggers    string `json:"triggers,omitempty"`
	Actions     string `json:"actions,omitempty"`
}
