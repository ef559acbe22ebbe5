package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AdjustmentType string

const (
	AdjustmentTypeBonus       AdjustmentType = "bonus"
	AdjustmentTypeDeduction   AdjustmentType = "deduction"
	AdjustmentTypeAdvance     AdjustmentType = "advance"
	AdjustmentTypeLoanPayment AdjustmentType = "loan_payment"
	AdjustmentTypeAllowance   AdjustmentType = "allowance"
)

// Adjustment is an ad-hoc payslip component for one period, optionally
// recurring over a window of periods. Writes are guarded by Version.
type Adjustment struct {
	ID         string
	EmployeeID string

	PeriodYear  int
	PeriodMonth int

	Type     AdjustmentType
	Label    *string // display name for named allowances
	Amount   decimal.Decimal
	Currency string

	// Recurring window, inclusive, as period bounds. Nil means one-shot.
	RecurStartYear  *int
	RecurStartMonth *int
	RecurEndYear    *int
	RecurEndMonth   *int

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo reports whether the adjustment belongs to the given period,
// either directly or through its recurrence window.
func (a Adjustment) AppliesTo(year, month int) bool {
	if a.PeriodYear == year && a.PeriodMonth == month {
		return true
	}
	if a.RecurStartYear == nil || a.RecurStartMonth == nil ||
		a.RecurEndYear == nil || a.RecurEndMonth == nil {
		return false
	}
	p := year*12 + month - 1
	from := *a.RecurStartYear*12 + *a.RecurStartMonth - 1
	to := *a.RecurEndYear*12 + *a.RecurEndMonth - 1
	return p >= from && p <= to
}

// PeriodKey formats a year/month pair as YYYY-MM.
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
