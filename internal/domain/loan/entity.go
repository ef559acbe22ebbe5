package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is an employee loan amortized against monthly salary. Remaining only
// ever decreases; the record closes when it reaches zero. Writes are guarded
// by Version.
type Loan struct {
	ID         string
	EmployeeID string

	Principal decimal.Decimal
	Remaining decimal.Decimal

	StartYear  int
	StartMonth int

	// MonthlyPercent is the fraction of base salary debited each month.
	MonthlyPercent decimal.Decimal
	// CapMultiple limits principal to baseSalary * CapMultiple at creation.
	CapMultiple decimal.Decimal

	// SkipPeriods holds YYYY-MM keys of months with no scheduled debit.
	SkipPeriods map[string]bool

	Closed  bool
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartedBy reports whether the loan is already running in the given period.
func (l Loan) StartedBy(year, month int) bool {
	return year*12+month-1 >= l.StartYear*12+l.StartMonth-1
}

// Skipped reports whether the period is excluded from scheduled debits.
func (l Loan) Skipped(year, month int) bool {
	return l.SkipPeriods[PeriodKey(year, month)]
}

// PeriodKey formats a year/month pair as YYYY-MM.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
