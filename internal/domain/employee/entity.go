package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string
	EmployeeCode    string
	FullName        string
	ContractStart   *time.Time
	DOB             *time.Time
	BaseSalary      decimal.Decimal
	SecondarySalary decimal.Decimal

	// Daily shift boundaries in "15:04" form. Empty values fall back to the
	// employee's point-schedule defaults.
	ScheduleStart string
	ScheduleEnd   string

	Allowances      Allowances
	PointScheduleID *string
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allowances are flat per-working-day amounts.
type Allowances struct {
	Food          decimal.Decimal
	Fuel          decimal.Decimal
	Communication decimal.Decimal
	FoodAllowance decimal.Decimal
}

// PerDay returns the combined allowance amount for one working day.
func (a Allowances) PerDay() decimal.Decimal {
	return a.Food.Add(a.Fuel).Add(a.Communication).Add(a.FoodAllowance)
}
