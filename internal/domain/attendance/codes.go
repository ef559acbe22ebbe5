package attendance

// Attendance day codes.
const (
	CodePresent        = "P"   // present, full day
	CodeAbsent         = "A"   // no punch, no excuse
	CodePresentLate    = "PL"  // present but short of the expected minutes
	CodePaidHoliday    = "PH"  // worked on a holiday (no food allowance)
	CodeHolidayFull    = "PHF" // worked a full shift on a holiday (with food)
	CodePresentFood    = "PT"  // present with food allowance
	CodeHalfLeave      = "HL"  // half-day leave
	CodeUnpaidLeave    = "UL"  // unpaid leave
	CodeHolidayMarker  = "H"   // holiday, no punch; not deductible
	CodeSuspended      = "W"   // withheld/suspended day
	CodeAnnualLeave    = "AL"
	CodeSickLeave      = "SL"
	CodeEmergencyLeave = "EL"
	CodeMaternityLeave = "ML"
	CodeExamLeave      = "XL"
	CodeBereavement    = "BM"
)

// fullyPaidLeaveCodes are recognized leave codes that pay a full day even
// without punches.
var fullyPaidLeaveCodes = map[string]bool{
	CodeAnnualLeave:    true,
	CodeSickLeave:      true,
	CodeEmergencyLeave: true,
	CodeMaternityLeave: true,
	CodeExamLeave:      true,
	CodeBereavement:    true,
}

// IsFullyPaidLeave reports whether the code is a recognized fully-paid leave code.
func IsFullyPaidLeave(code string) bool {
	return fullyPaidLeaveCodes[code]
}
