package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// GetDated implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetDated(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT holiday_date, name
		FROM holidays
		WHERE holiday_date BETWEEN $1 AND $2
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// GetRecurring implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetRecurring(ctx context.Context) ([]holiday.RecurringRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, kind, month, day, span_days
		FROM recurring_holidays
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []holiday.RecurringRule
	for rows.Next() {
		var rule holiday.RecurringRule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Kind, &rule.Month, &rule.Day, &rule.SpanDays); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
