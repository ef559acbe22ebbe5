package attendance

import "time"

// DayClassification is the computed outcome for one calendar day.
type DayClassification struct {
	Date    time.Time `json:"date"`
	Code    string    `json:"code"`
	Rule    string    `json:"rule"` // name of the precedence rule that produced the code
	Punched bool      `json:"punched"`
	Holiday bool      `json:"holiday"`
	Friday  bool      `json:"friday"`

	// Factor is the pay multiplier for the day: 0, 0.5, 1 or 2.
	Factor float64 `json:"factor"`
	// Food reports food-allowance eligibility.
	Food bool `json:"food"`
	// Deduction is the fraction of a day charged against the leave balance.
	Deduction float64 `json:"deduction"`

	Comment *string `json:"comment,omitempty"`
}

// MonthSheet is the full classification of one employee month.
type MonthSheet struct {
	EmployeeID string              `json:"employee_id"`
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Days       []DayClassification `json:"days"`

	// Audit aggregates.
	CodeCounts    map[string]int `json:"code_counts"`
	HolidayCount  int            `json:"holiday_count"`
	HolidayWorked int            `json:"holiday_worked"`
	FactorSum     float64        `json:"factor_sum"`
	DeductionDays float64        `json:"deduction_days"`
	FoodDays      int            `json:"food_days"`
}
