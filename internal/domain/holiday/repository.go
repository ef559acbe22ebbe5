package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// GetDated returns explicitly stored holidays inside [start, end].
	GetDated(ctx context.Context, start, end time.Time) ([]Holiday, error)

	// GetRecurring returns all recurring rules; expansion into concrete
	// dates is the calendar service's job.
	GetRecurring(ctx context.Context) ([]RecurringRule, error)
}
