package holiday

import "time"

// Holiday is a single concrete holiday date.
type Holiday struct {
	Date time.Time
	Name string
}

type RecurrenceKind string

const (
	// RecurrenceFixed repeats on the same Gregorian month/day every year.
	RecurrenceFixed RecurrenceKind = "fixed"
	// RecurrenceLunar repeats on a Hijri month/day and may span several
	// consecutive days (Eid holidays).
	RecurrenceLunar RecurrenceKind = "lunar"
)

// RecurringRule expands to zero or more concrete dates inside a queried range.
type RecurringRule struct {
	ID       int
	Name     string
	Kind     RecurrenceKind
	Month    int // Gregorian month for fixed rules, Hijri month for lunar rules
	Day      int // day within the month above
	SpanDays int // consecutive days starting at the anchor; minimum 1
}
