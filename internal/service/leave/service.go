package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

// WorkingDayPreview is the produced working-day preview artifact.
type WorkingDayPreview struct {
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	LeaveTypeID   int               `json:"leaveTypeId"`
	EffectiveDays float64           `json:"effectiveDays"`
	CalendarDays  int               `json:"calendarDays"`
	Excluded      calendar.Excluded `json:"excluded"`
}

// Transactor runs fn inside one storage transaction. Implementations carry
// the transaction on the context so repositories join it.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type LeaveService struct {
	leaveTypeRepo leave.LeaveTypeRepository
	requestRepo   leave.LeaveRequestRepository
	employeeRepo  employee.EmployeeRepository
	calendar      *calendar.Service
	accrual       *AccrualBuilder
	deduction     *DeductionBuilder
	capEnforcer   *CapEnforcer
	tx            Transactor
	logger        *slog.Logger
	now           func() time.Time
}

func NewLeaveService(
	leaveTypeRepo leave.LeaveTypeRepository,
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	calendarSvc *calendar.Service,
	tx Transactor,
	logger *slog.Logger,
) *LeaveService {
	return &LeaveService{
		leaveTypeRepo: leaveTypeRepo,
		requestRepo:   requestRepo,
		employeeRepo:  employeeRepo,
		calendar:      calendarSvc,
		accrual:       NewAccrualBuilder(),
		deduction:     NewDeductionBuilder(requestRepo, logger),
		capEnforcer:   NewCapEnforcer(requestRepo, calendarSvc),
		tx:            tx,
		logger:        logger,
		now:           time.Now,
	}
}

// Balance builds the leave-balance artifact: accrual from contract start,
// prior-year carry-forward and the deduction ledger over the requested
// window (the given year, or full history from contract start).
func (s *LeaveService) Balance(ctx context.Context, employeeID string, year int, fullHistory bool) (leave.Balance, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, err
	}

	ledger := s.accrual.Build(emp)

	windowStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if fullHistory {
		startYear := year
		if emp.ContractStart != nil {
			startYear = emp.ContractStart.Year()
		}
		windowStart = time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		windowEnd = time.Date(s.now().Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	set := s.calendar.Resolve(ctx, windowStart, windowEnd)
	policies := BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)

	deductions, err := s.deduction.Build(ctx, employeeID, windowStart, windowEnd, set, policies)
	if err != nil {
		return leave.Balance{}, err
	}

	return leave.Balance{
		EmployeeID:        employeeID,
		AnnualEntitlement: ledger.AnnualEntitlement,
		MonthlyRate:       ledger.MonthlyRate,
		AccruedToDate:     ledger.AccruedToDate,
		CarryForward:      ledger.CarryForward,
		DeductedToDate:    deductions.DeductedToDate,
		Remaining:         round2(ledger.AccruedToDate - deductions.DeductedToDate),
		Accruals:          ledger.Entries,
		Deductions:        deductions.Entries,
	}, nil
}

// Preview computes the effective-day count a request over [start, end] with
// the given leave type would charge, with the exclusion breakdown.
func (s *LeaveService) Preview(ctx context.Context, startStr, endStr, leaveTypeRef string) (WorkingDayPreview, error) {
	start, end, errs := validator.ValidateDateRange(startStr, endStr)
	if errs != nil {
		return WorkingDayPreview{}, errs
	}

	policies := BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)
	lt, err := policies.Resolve(leaveTypeRef)
	if err != nil {
		return WorkingDayPreview{}, err
	}

	set := s.calendar.Resolve(ctx, start, end)
	breakdown, err := calendar.CountEffective(start, end, set)
	if err != nil {
		return WorkingDayPreview{}, err
	}

	effective := float64(breakdown.EffectiveDays)
	if lt.IsSick {
		// Sick leave charges every calendar day.
		effective = float64(breakdown.CalendarDays)
	}

	return WorkingDayPreview{
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		LeaveTypeID:   lt.ID,
		EffectiveDays: effective,
		CalendarDays:  breakdown.CalendarDays,
		Excluded:      breakdown.Excluded,
	}, nil
}

// CreateRequest validates and stores a new leave request. Emergency types
// pass the cap enforcer first; a rejection leaves the store untouched.
func (s *LeaveService) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, end, _ := validator.ValidateDateRange(req.StartDate, req.EndDate)

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	policies := BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)
	lt, err := policies.Resolve(req.LeaveType)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	total, working, err := s.chargedDays(ctx, start, end, lt.IsSick)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if lt.IsEmergency {
		if err := s.capEnforcer.Validate(ctx, req.EmployeeID, start, end, "", policies); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	}

	now := s.now()
	created, err := s.requestRepo.Create(ctx, leave.LeaveRequest{
		ID:          uuid.NewString(),
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: lt.ID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   total,
		WorkingDays: working,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusWaitingApproval,
		SubmittedAt: now,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(created), nil
}

// UpdateRequest re-validates an edited request. The edited request is
// excluded from the cap aggregation so it does not count against itself.
func (s *LeaveService) UpdateRequest(ctx context.Context, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	current, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	policies := BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)
	lt, err := policies.ResolveID(current.LeaveTypeID)
	if req.LeaveType != nil {
		lt, err = policies.Resolve(*req.LeaveType)
	}
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		end, _ = validator.IsValidDate(*req.EndDate)
	}
	if end.Before(start) {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{
			{Field: "end_date", Message: "must not be before start_date"},
		}
	}

	total, working, err := s.chargedDays(ctx, start, end, lt.IsSick)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if lt.IsEmergency {
		if err := s.capEnforcer.Validate(ctx, current.EmployeeID, start, end, current.ID, policies); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	}

	current.LeaveTypeID = lt.ID
	current.StartDate = start
	current.EndDate = end
	current.TotalDays = total
	current.WorkingDays = working
	if req.Reason != nil {
		current.Reason = *req.Reason
	}

	updated, err := s.requestRepo.Update(ctx, current)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(updated), nil
}

// ApproveRequest marks a request approved. Emergency caps are rechecked at
// approval time because only approved records consume the caps; the recheck
// and the status write share one transaction so a concurrent approval
// cannot slip past the cap.
func (s *LeaveService) ApproveRequest(ctx context.Context, id, approverID string) (leave.LeaveRequestResponse, error) {
	var updated leave.LeaveRequest
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		current, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		policies := BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)
		if lt, err := policies.ResolveID(current.LeaveTypeID); err == nil && lt.IsEmergency {
			if err := s.capEnforcer.Validate(ctx, current.EmployeeID, current.StartDate, current.EndDate, current.ID, policies); err != nil {
				return err
			}
		}

		now := s.now()
		current.Status = leave.LeaveRequestStatusApproved
		current.ApprovedBy = &approverID
		current.ApprovedAt = &now

		updated, err = s.requestRepo.Update(ctx, current)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toRequestResponse(updated), nil
}

func (s *LeaveService) chargedDays(ctx context.Context, start, end time.Time, sick bool) (total, working float64, err error) {
	inclusive, err := calendar.InclusiveDays(start, end)
	if err != nil {
		return 0, 0, err
	}
	total = float64(inclusive)

	if sick {
		return total, total, nil
	}

	set := s.calendar.Resolve(ctx, start, end)
	breakdown, err := calendar.CountEffective(start, end, set)
	if err != nil {
		return 0, 0, err
	}
	return total, float64(breakdown.EffectiveDays), nil
}

func toRequestResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		TotalDays:   r.TotalDays,
		WorkingDays: r.WorkingDays,
		Reason:      r.Reason,
		Status:      string(r.Status),
	}
}
