package attendance

import "time"

// Record is one day of raw attendance input for an employee: punches from
// the external punch source plus optional HR-written override and comment.
type Record struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	EntryAt     *time.Time
	ExitAt      *time.Time
	ManualCode  *string
	Comment     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Punched reports whether the day has at least one punch.
func (r Record) Punched() bool {
	return r.EntryAt != nil || r.ExitAt != nil
}

// WorkedMinutes is the span between entry and exit, 0 when either is missing.
func (r Record) WorkedMinutes() int {
	if r.EntryAt == nil || r.ExitAt == nil {
		return 0
	}
	m := int(r.ExitAt.Sub(*r.EntryAt).Minutes())
	if m < 0 {
		return 0
	}
	return m
}
