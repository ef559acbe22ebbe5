package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// AdjustmentTotals groups period adjustments by effect on the payslip.
type AdjustmentTotals struct {
	Bonus       decimal.Decimal `json:"bonus"`
	Deduction   decimal.Decimal `json:"deduction"`
	Advance     decimal.Decimal `json:"advance"`
	LoanPayment decimal.Decimal `json:"loanPayment"`
}

// PayslipComponents are the monetary building blocks of the payslip.
type PayslipComponents struct {
	BasePay      decimal.Decimal  `json:"basePay"`
	AllowancePay decimal.Decimal  `json:"allowancePay"`
	Adjustments  AdjustmentTotals `json:"adjustments"`
}

// Payslip is the produced monthly payslip artifact. Field names are part of
// the downstream contract.
type Payslip struct {
	EmployeeID   string          `json:"id_emp"`
	EmployeeName string          `json:"name"`
	PeriodYear   int             `json:"year"`
	PeriodMonth  int             `json:"month"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`

	WorkingDays   int            `json:"workingDays"`
	DeductionDays float64        `json:"deductionDays"`
	LeaveSummary  map[string]int `json:"leaveSummary"`

	Components PayslipComponents `json:"components"`
	Total      decimal.Decimal   `json:"total"`

	// Audit display fields.
	FactorSum     float64 `json:"factorSum"`
	HolidayCount  int     `json:"holidayCount"`
	HolidayWorked int     `json:"holidayWorked"`
	FoodDays      int     `json:"foodDays"`
}

var adjustmentTypes = []string{
	string(AdjustmentTypeBonus),
	string(AdjustmentTypeDeduction),
	string(AdjustmentTypeAdvance),
	string(AdjustmentTypeLoanPayment),
	string(AdjustmentTypeAllowance),
}

type CreateAdjustmentRequest struct {
	EmployeeID  string          `json:"employee_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Type        string          `json:"type"`
	Label       *string         `json:"label,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`

	RecurStartYear  *int `json:"recur_start_year,omitempty"`
	RecurStartMonth *int `json:"recur_start_month,omitempty"`
	RecurEndYear    *int `json:"recur_end_year,omitempty"`
	RecurEndMonth   *int `json:"recur_end_month,omitempty"`
}

func (r CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.PeriodYear < 2000 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be a valid year"})
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsInSlice(r.Type, adjustmentTypes) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of bonus, deduction, advance, loan_payment, allowance"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if errs != nil {
		return errs
	}
	return nil
}

type UpdateAdjustmentRequest struct {
	ID      string           `json:"-"`
	Version int              `json:"version"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Label   *string          `json:"label,omitempty"`
	Type    *string          `json:"type,omitempty"`
}

func (r UpdateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, adjustmentTypes) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of bonus, deduction, advance, loan_payment, allowance"})
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if errs != nil {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Type        string          `json:"type"`
	Label       *string         `json:"label,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Version     int             `json:"version"`
}
