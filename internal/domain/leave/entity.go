package leave

import "time"

// LeaveType is static reference data describing one leave policy.
type LeaveType struct {
	ID   int
	Code string
	Name string

	// PaidFraction is 0, 0.5 or 1. Days taken on a type with a fraction
	// below 1 charge (1 - PaidFraction) against the balance.
	PaidFraction float64
	IsSick       bool
	IsEmergency  bool
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "cancelled"
)

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID int

	StartDate time.Time
	EndDate   time.Time

	// TotalDays is the inclusive calendar span, WorkingDays the effective
	// days charged against balance (equal for sick types).
	TotalDays   float64
	WorkingDays float64

	Reason string
	Status LeaveRequestStatus

	ApprovedBy *string
	ApprovedAt *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
}

// AccrualEntry is one month of entitlement accrual.
type AccrualEntry struct {
	Month        string  `json:"month"` // YYYY-MM
	Accrued      float64 `json:"accrued"`
	RunningTotal float64 `json:"running_total"`
}

// DeductionEntry is one approved request charged within the ledger window.
type DeductionEntry struct {
	RequestID    string  `json:"request_id"`
	LeaveTypeID  int     `json:"leave_type_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Days         float64 `json:"days"`
	RunningTotal float64 `json:"running_total"`
}

// Balance is the produced leave-balance artifact.
type Balance struct {
	EmployeeID        string           `json:"employeeId"`
	AnnualEntitlement float64          `json:"annualEntitlement"`
	MonthlyRate       float64          `json:"monthlyRate"`
	AccruedToDate     float64          `json:"accruedToDate"`
	CarryForward      float64          `json:"carryForward"`
	DeductedToDate    float64          `json:"deductedToDate"`
	Remaining         float64          `json:"remaining"`
	Accruals          []AccrualEntry   `json:"accruals,omitempty"`
	Deductions        []DeductionEntry `json:"deductions,omitempty"`
}
