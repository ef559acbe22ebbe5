package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type_id, start_date, end_date, total_days, working_days,
	reason, status, approved_by, approved_at, submitted_at, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveTypeID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.TotalDays,
		&lr.WorkingDays,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovedAt,
		&lr.SubmittedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// GetApprovedInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $3
		  AND end_date >= $4
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, leave.LeaveRequestStatusApproved, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date, total_days, working_days,
			reason, status, submitted_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + leaveRequestColumns

	return scanLeaveRequest(q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.LeaveTypeID,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.WorkingDays,
		req.Reason,
		req.Status,
		req.SubmittedAt,
	))
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type_id = $2, start_date = $3, end_date = $4, total_days = $5,
			working_days = $6, reason = $7, status = $8, approved_by = $9,
			approved_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query,
		req.ID,
		req.LeaveTypeID,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.WorkingDays,
		req.Reason,
		req.Status,
		req.ApprovedBy,
		req.ApprovedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}
