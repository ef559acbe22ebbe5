package calendar

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// ExcludedHoliday is one holiday date removed from the effective count.
type ExcludedHoliday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Excluded details which days were removed and why. A day that is both a
// Friday and a holiday appears in both lists but is only excluded once.
type Excluded struct {
	Fridays  []string          `json:"fridays"`
	Holidays []ExcludedHoliday `json:"holidays"`
}

// Breakdown is the working-day count for a range with its exclusion detail.
type Breakdown struct {
	EffectiveDays int      `json:"effectiveDays"`
	CalendarDays  int      `json:"calendarDays"`
	Excluded      Excluded `json:"excluded"`
}

// CountEffective walks every day in [start, end] inclusive and excludes
// Fridays and holidays from the effective count.
func CountEffective(start, end time.Time, set HolidaySet) (Breakdown, error) {
	if err := checkRange(start, end); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Excluded: Excluded{Fridays: []string{}, Holidays: []ExcludedHoliday{}},
	}
	for d := dateOnly(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		b.CalendarDays++

		excluded := false
		if d.Weekday() == time.Friday {
			b.Excluded.Fridays = append(b.Excluded.Fridays, d.Format(dateKeyLayout))
			excluded = true
		}
		if h, ok := set.Get(d); ok {
			b.Excluded.Holidays = append(b.Excluded.Holidays, ExcludedHoliday{
				Date: d.Format(dateKeyLayout),
				Name: h.Name,
			})
			excluded = true
		}
		if !excluded {
			b.EffectiveDays++
		}
	}
	return b, nil
}

// InclusiveDays returns the raw inclusive calendar-day count. Sick leave
// charges this count with no exclusions.
func InclusiveDays(start, end time.Time) (int, error) {
	if err := checkRange(start, end); err != nil {
		return 0, err
	}
	return int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1, nil
}

// CountEffectiveByMonth buckets the effective days of [start, end] by
// calendar month, keyed YYYY-MM. A span crossing a month boundary
// contributes partial counts to each adjacent bucket.
func CountEffectiveByMonth(start, end time.Time, set HolidaySet) (map[string]float64, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	buckets := map[string]float64{}
	for d := dateOnly(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Friday || set.Contains(d) {
			continue
		}
		buckets[d.Format("2006-01")] += 1
	}
	return buckets, nil
}

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return validator.ValidationErrors{
			{Field: "end_date", Message: "must not be before start_date"},
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
