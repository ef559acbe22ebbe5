package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Emergency cap rejections carry the bucket that overflowed
	var capErr *leave.CapacityError
	if errors.As(err, &capErr) {
		Conflict(w, "Emergency leave cap exceeded", map[string]string{
			"scope":     string(capErr.Scope),
			"period":    capErr.Period,
			"used":      fmt.Sprintf("%.1f", capErr.Used),
			"requested": fmt.Sprintf("%.1f", capErr.Requested),
			"limit":     fmt.Sprintf("%.0f", capErr.Limit),
		})
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrEmergencyCapExceeded):
		Conflict(w, "Emergency leave cap exceeded", nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrPointScheduleNotFound):
		NotFound(w, "Point schedule not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment not found")
	case errors.Is(err, payroll.ErrStaleVersion):
		Conflict(w, "Adjustment was modified concurrently, re-read and retry", nil)

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrLoanExceedsCap):
		BadRequest(w, "Loan principal exceeds salary cap", nil)
	case errors.Is(err, loan.ErrStaleVersion):
		Conflict(w, "Loan was modified concurrently, re-read and retry", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
