package domain

// Weekday is a lowercase three-letter weekday code as used by the hub's
// automation schema.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var validWeekdays = map[Weekday]bool{
	Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
	Friday: true, Saturday: true, Sunday: true,
}

func (w Weekday) Valid() bool {
	return validWeekdays[w]
}
