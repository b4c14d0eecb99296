package domain

import "fmt"

// ValidationError is raised before any network call when a draft cannot
// possibly materialize as a working automation. Its message is suitable for
// direct user display.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid automation: %s", e.Reason)
}

// Validate rejects drafts that would compile to nothing useful: a draft must
// produce at least one trigger or a day/time gate, and must carry at least
// one action.
func Validate(d AutomationDraft) error {
	if d.Alias == "" {
		return &ValidationError{Reason: "a name is required"}
	}
	if len(d.Triggers) == 0 && !d.HasTimeGate() {
		return &ValidationError{Reason: "at least one trigger or a day/time schedule is required"}
	}
	if len(d.Actions) == 0 {
		return &ValidationError{Reason: "at least one action is required"}
	}
	for _, w := range d.DaysOfWeek {
		if !w.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("unknown weekday %q", w)}
		}
	}
	return nil
}
