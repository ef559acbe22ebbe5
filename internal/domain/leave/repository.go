package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	List(ctx context.Context) ([]LeaveType, error)
}

type LeaveRequestRepository interface {
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetApprovedInRange returns approved requests whose span overlaps
	// [start, end] for the employee.
	GetApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)

	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	Update(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
}
