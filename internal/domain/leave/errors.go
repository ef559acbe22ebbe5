package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrEmergencyCapExceeded = errors.New("emergency leave cap exceeded")
)

type CapScope string

const (
	CapScopeMonth CapScope = "month"
	CapScopeYear  CapScope = "year"
)

// CapacityError reports which bucket overflowed and by how much.
// Recoverable: the caller can shorten or move the request.
type CapacityError struct {
	Scope     CapScope
	Period    string // YYYY-MM for month scope, YYYY for year scope
	Used      float64
	Requested float64
	Limit     float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("emergency leave cap exceeded for %s %s: used %.1f, requested %.1f, limit %.0f",
		e.Scope, e.Period, e.Used, e.Requested, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrEmergencyCapExceeded
}
