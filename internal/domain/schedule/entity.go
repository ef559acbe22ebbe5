package schedule

// PointSchedule is a work-point grouping that defaults shift times for
// employees that have no schedule of their own.
type PointSchedule struct {
	ID    string
	Name  string
	Start string // "15:04"
	End   string // "15:04"
}
