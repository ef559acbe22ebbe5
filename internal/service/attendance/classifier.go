package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
)

// dayContext carries everything the precedence rules may inspect for one
// calendar day.
type dayContext struct {
	date            time.Time
	friday          bool
	holiday         bool
	punched         bool
	workedMinutes   int
	expectedMinutes int

	override *string
	comment  *string

	// Approved leave overlay, empty leaveCode when none covers the day.
	leaveCode         string
	leavePaidFraction float64
	leaveSick         bool
}

// rule is one named precedence step. Rules run in order until one matches.
type rule struct {
	name  string
	apply func(dayContext) (string, bool)
}

var precedenceRules = []rule{
	{
		name: "manual_override",
		apply: func(c dayContext) (string, bool) {
			if c.override != nil && *c.override != "" {
				return *c.override, true
			}
			return "", false
		},
	},
	{
		name: "approved_leave",
		apply: func(c dayContext) (string, bool) {
			if c.leaveCode == "" {
				return "", false
			}
			// Non-sick leave never lands on a Friday or holiday; those
			// days were never charged, so default logic decides them.
			if !c.leaveSick && (c.friday || c.holiday) {
				return "", false
			}
			return c.leaveCode, true
		},
	},
	{
		name: "presence_default",
		apply: func(c dayContext) (string, bool) {
			if c.punched {
				if c.holiday {
					return attendance.CodePaidHoliday, true
				}
				return attendance.CodePresent, true
			}
			if c.holiday {
				return attendance.CodeHolidayMarker, true
			}
			return attendance.CodeAbsent, true
		},
	},
}

// classify resolves the attendance code for one day and derives the pay
// factor, food eligibility and balance deduction from it.
func classify(c dayContext) attendance.DayClassification {
	var code, ruleName string
	for _, r := range precedenceRules {
		if got, ok := r.apply(c); ok {
			code = got
			ruleName = r.name
			break
		}
	}

	// Refinements never touch a manual override.
	if ruleName != "manual_override" {
		if code == attendance.CodePresent && c.punched && !c.holiday && c.workedMinutes < c.expectedMinutes {
			code = attendance.CodePresentLate
			ruleName = "lateness"
		}
		if c.holiday && c.punched {
			if c.workedMinutes-c.expectedMinutes >= 0 {
				code = attendance.CodeHolidayFull
			} else {
				code = attendance.CodePaidHoliday
			}
			ruleName = "holiday_presence"
		}
	}

	return attendance.DayClassification{
		Date:      c.date,
		Code:      code,
		Rule:      ruleName,
		Punched:   c.punched,
		Holiday:   c.holiday,
		Friday:    c.friday,
		Factor:    payFactor(code, c.punched),
		Food:      foodEligible(code, c.punched, c.friday),
		Deduction: deductionDays(code, c),
		Comment:   c.comment,
	}
}

// payFactor is keyed on the final code, not on the holiday flag: a manual
// override forcing PH/PHF on an ordinary day still pays double.
func payFactor(code string, punched bool) float64 {
	switch code {
	case attendance.CodeAbsent, attendance.CodeUnpaidLeave, attendance.CodeSuspended:
		return 0
	case attendance.CodePaidHoliday, attendance.CodeHolidayFull:
		if punched {
			return 2
		}
		return 0
	case attendance.CodeHalfLeave:
		return 0.5
	default:
		if punched || attendance.IsFullyPaidLeave(code) {
			return 1
		}
		return 0
	}
}

var noFoodCodes = map[string]bool{
	attendance.CodeAnnualLeave:    true,
	attendance.CodeExamLeave:      true,
	attendance.CodeUnpaidLeave:    true,
	attendance.CodeBereavement:    true,
	attendance.CodePaidHoliday:    true,
	attendance.CodeAbsent:         true,
	attendance.CodeSuspended:      true,
}

func foodEligible(code string, punched, friday bool) bool {
	// A punched Friday always earns food, whatever the code says.
	if friday && punched {
		return true
	}
	switch {
	case code == attendance.CodeHolidayFull || code == attendance.CodePresentFood:
		return true
	case code == attendance.CodeHolidayMarker:
		return punched
	case noFoodCodes[code]:
		return false
	default:
		return false
	}
}

// deductionDays charges against the leave balance. Holidays and Fridays
// are never deductible.
func deductionDays(code string, c dayContext) float64 {
	if c.holiday || c.friday {
		return 0
	}
	switch code {
	case attendance.CodeAbsent, attendance.CodeSuspended, attendance.CodeUnpaidLeave:
		return 1
	case attendance.CodeHalfLeave:
		return 0.5
	}
	if c.leaveCode != "" && code == c.leaveCode && c.leavePaidFraction < 1 {
		return 1 - c.leavePaidFraction
	}
	return 0
}
