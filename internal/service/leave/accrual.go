package leave

import (
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
)

const (
	baseEntitlementDays   = 30
	seniorEntitlementDays = 45
	daysPerYear           = 365.25
)

// AccrualLedger is the month-by-month entitlement accrual for an employee.
type AccrualLedger struct {
	AnnualEntitlement float64
	MonthlyRate       float64
	AccruedToDate     float64
	CarryForward      float64
	Entries           []leave.AccrualEntry
}

// AccrualBuilder computes entitlement accrual from contract start to the
// current month. The clock is injectable for tests.
type AccrualBuilder struct {
	now func() time.Time
}

func NewAccrualBuilder() *AccrualBuilder {
	return &AccrualBuilder{now: time.Now}
}

// AnnualEntitlement is 45 days for employees over age 50 or with more than
// 20 years of tenure, measured in 365.25-day years. Both comparisons are
// strict: exactly 50 or exactly 20 stays on the 30-day tier.
func (b *AccrualBuilder) AnnualEntitlement(emp employee.Employee) float64 {
	now := b.now()

	age := 0
	if emp.DOB != nil {
		age = int(now.Sub(*emp.DOB).Hours() / 24 / daysPerYear)
	}
	tenure := 0
	if emp.ContractStart != nil {
		tenure = int(now.Sub(*emp.ContractStart).Hours() / 24 / daysPerYear)
	}

	if age > 50 || tenure > 20 {
		return seniorEntitlementDays
	}
	return baseEntitlementDays
}

// Build walks month by month from the first day of the contract-start month
// through the first day of the current month. Without a contract start the
// ledger accrues from January 1 of the current year with no carry-forward.
func (b *AccrualBuilder) Build(emp employee.Employee) AccrualLedger {
	now := b.now()

	annual := b.AnnualEntitlement(emp)
	rate := round5(annual / 12)

	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if emp.ContractStart != nil {
		cs := *emp.ContractStart
		start = time.Date(cs.Year(), cs.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	ledger := AccrualLedger{
		AnnualEntitlement: annual,
		MonthlyRate:       rate,
	}

	cumulative := 0.0
	carry := 0.0
	for m := start; !m.After(last); m = m.AddDate(0, 1, 0) {
		cumulative += rate
		if m.Year() < now.Year() {
			carry += rate
		}
		ledger.Entries = append(ledger.Entries, leave.AccrualEntry{
			Month:        m.Format("2006-01"),
			Accrued:      round2(rate),
			RunningTotal: round2(cumulative),
		})
	}

	ledger.AccruedToDate = round2(cumulative)
	if emp.ContractStart != nil {
		ledger.CarryForward = round2(carry)
	}
	return ledger
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round5(x float64) float64 {
	return math.Round(x*100000) / 100000
}
