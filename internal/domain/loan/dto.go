package loan

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type CreateLoanRequest struct {
	EmployeeID string          `json:"employee_id"`
	Principal  decimal.Decimal `json:"principal"`
	StartYear  int             `json:"start_year"`
	StartMonth int             `json:"start_month"`

	// Optional overrides; zero values take the policy defaults.
	MonthlyPercent *decimal.Decimal `json:"monthly_percent,omitempty"`
	CapMultiple    *decimal.Decimal `json:"cap_multiple,omitempty"`
}

func (r CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "principal", Message: "must be positive"})
	}
	if r.StartYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "start_year", Message: "must be a valid year"})
	}
	if r.StartMonth < 1 || r.StartMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "start_month", Message: "must be between 1 and 12"})
	}

	if errs != nil {
		return errs
	}
	return nil
}

type PayoffRequest struct {
	// Amount to deduct from the remaining balance; nil pays off in full.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r PayoffRequest) Validate() error {
	if r.Amount != nil && !r.Amount.IsPositive() {
		return validator.ValidationErrors{
			{Field: "amount", Message: "must be positive"},
		}
	}
	return nil
}

type SkipPeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r SkipPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}

	if errs != nil {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	Principal      decimal.Decimal `json:"principal"`
	Remaining      decimal.Decimal `json:"remaining"`
	StartYear      int             `json:"start_year"`
	StartMonth     int             `json:"start_month"`
	MonthlyPercent decimal.Decimal `json:"monthly_percent"`
	SkipPeriods    []string        `json:"skip_periods,omitempty"`
	Closed         bool            `json:"closed"`
}
