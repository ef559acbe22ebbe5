package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
)

const dateKeyLayout = "2006-01-02"

// HolidaySet is a resolved, read-only snapshot of concrete holiday dates.
// It is loaded once per run and shared across employees.
type HolidaySet map[string]holiday.Holiday

func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[t.Format(dateKeyLayout)]
	return ok
}

func (s HolidaySet) Get(t time.Time) (holiday.Holiday, bool) {
	h, ok := s[t.Format(dateKeyLayout)]
	return h, ok
}

type Service struct {
	holidayRepo holiday.HolidayRepository
	logger      *slog.Logger
}

func NewService(holidayRepo holiday.HolidayRepository, logger *slog.Logger) *Service {
	return &Service{
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// Resolve expands stored holidays plus recurring rules into the concrete
// dates inside [start, end]. A failing holiday source degrades to an empty
// set; callers never see the error.
func (s *Service) Resolve(ctx context.Context, start, end time.Time) HolidaySet {
	set := HolidaySet{}

	dated, err := s.holidayRepo.GetDated(ctx, start, end)
	if err != nil {
		s.logger.Warn("holiday source unavailable, continuing with empty set", "error", err)
		return set
	}
	for _, h := range dated {
		set[h.Date.Format(dateKeyLayout)] = h
	}

	rules, err := s.holidayRepo.GetRecurring(ctx)
	if err != nil {
		s.logger.Warn("recurring holiday rules unavailable, using dated holidays only", "error", err)
		return set
	}
	for _, rule := range rules {
		for _, h := range expandRule(rule, start, end) {
			// Dated entries win over rule expansions on collision.
			if _, exists := set[h.Date.Format(dateKeyLayout)]; !exists {
				set[h.Date.Format(dateKeyLayout)] = h
			}
		}
	}

	return set
}

// expandRule produces the rule's concrete dates that fall inside [start, end].
func expandRule(rule holiday.RecurringRule, start, end time.Time) []holiday.Holiday {
	span := rule.SpanDays
	if span < 1 {
		span = 1
	}

	var anchors []time.Time
	switch rule.Kind {
	case holiday.RecurrenceFixed:
		// A multi-day span near year end can begin in the prior year and
		// still reach into the range.
		for year := start.Year() - 1; year <= end.Year(); year++ {
			anchors = append(anchors, time.Date(year, time.Month(rule.Month), rule.Day, 0, 0, 0, 0, time.UTC))
		}
	case holiday.RecurrenceLunar:
		hStart, _, _ := dateToHijri(start)
		hEnd, _, _ := dateToHijri(end)
		for hYear := hStart - 1; hYear <= hEnd+1; hYear++ {
			anchors = append(anchors, hijriToDate(hYear, rule.Month, rule.Day))
		}
	default:
		return nil
	}

	var out []holiday.Holiday
	for _, anchor := range anchors {
		for i := 0; i < span; i++ {
			d := anchor.AddDate(0, 0, i)
			if d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, holiday.Holiday{Date: d, Name: rule.Name})
		}
	}
	return out
}
