package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidClockTime checks a "15:04" shift boundary.
func IsValidClockTime(s string) (time.Time, bool) {
	t, err := time.Parse("15:04", s)
	return t, err == nil
}

// ValidateDateRange checks that both bounds parse and that end is not
// before start. Returns the parsed bounds on success.
func ValidateDateRange(startStr, endStr string) (time.Time, time.Time, ValidationErrors) {
	var errs ValidationErrors

	start, ok := IsValidDate(startStr)
	if !ok {
		errs = append(errs, ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, ok := IsValidDate(endStr)
	if !ok {
		errs = append(errs, ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if errs != nil {
		return time.Time{}, time.Time{}, errs
	}
	if end.Before(start) {
		errs = append(errs, ValidationError{Field: "end_date", Message: "must not be before start_date"})
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
