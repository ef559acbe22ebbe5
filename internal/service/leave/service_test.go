package leave

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{ID: 1, Code: "AL", Name: "Annual Leave", PaidFraction: 1},
		{ID: 2, Code: "SL", Name: "Sick Leave", PaidFraction: 1},
		{ID: 3, Code: "EL", Name: "Emergency Leave", PaidFraction: 1},
		{ID: 4, Code: "UL", Name: "Unpaid Leave", PaidFraction: 0},
		{ID: 5, Code: "HL", Name: "Half Day Leave", PaidFraction: 0.5},
	}
}

type fakeLeaveTypeRepo struct {
	types []leave.LeaveType
	err   error
}

func (f *fakeLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.types, nil
}

type fakeRequestRepo struct {
	requests []leave.LeaveRequest
	created  []leave.LeaveRequest
	err      error
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if f.err != nil {
		return leave.LeaveRequest{}, f.err
	}
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (f *fakeRequestRepo) GetApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.EmployeeID != employeeID || r.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if r.EndDate.Before(start) || r.StartDate.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if f.err != nil {
		return leave.LeaveRequest{}, f.err
	}
	f.requests = append(f.requests, req)
	f.created = append(f.created, req)
	return req, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if f.err != nil {
		return leave.LeaveRequest{}, f.err
	}
	for i, r := range f.requests {
		if r.ID == req.ID {
			f.requests[i] = req
			return req, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type emptyHolidayRepo struct{}

func (emptyHolidayRepo) GetDated(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	return nil, nil
}

func (emptyHolidayRepo) GetRecurring(ctx context.Context) ([]holiday.RecurringRule, error) {
	return nil, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approvedRequest(id, employeeID string, leaveTypeID int, start, end time.Time) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:          id,
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Status:      leave.LeaveRequestStatusApproved,
	}
}

// recordingTx counts transaction spans and runs fn on the same context.
type recordingTx struct {
	spans int
}

func (t *recordingTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.spans++
	return fn(ctx)
}

func newTestService(requestRepo *fakeRequestRepo, employeeRepo *fakeEmployeeRepo) *LeaveService {
	calendarSvc := calendar.NewService(emptyHolidayRepo{}, testLogger())
	svc := NewLeaveService(
		&fakeLeaveTypeRepo{types: testLeaveTypes()},
		requestRepo,
		employeeRepo,
		calendarSvc,
		&recordingTx{},
		testLogger(),
	)
	svc.now = fixedClock(2025, time.June, 15)
	svc.accrual.now = svc.now
	return svc
}

func TestBalance(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", ContractStart: datePtr(2025, time.January, 10)},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		// Monday through Wednesday, three effective days.
		approvedRequest("req-1", "emp-1", 1, day(2025, time.March, 3), day(2025, time.March, 5)),
	}}
	svc := newTestService(requestRepo, employeeRepo)

	balance, err := svc.Balance(context.Background(), "emp-1", 2025, false)
	require.NoError(t, err)

	assert.Equal(t, 30.0, balance.AnnualEntitlement)
	assert.Equal(t, 2.5, balance.MonthlyRate)
	assert.Equal(t, 15.0, balance.AccruedToDate) // 2025-01 .. 2025-06
	assert.Equal(t, 3.0, balance.DeductedToDate)
	assert.Equal(t, 12.0, balance.Remaining)
	assert.Zero(t, balance.CarryForward)
}

func TestBalanceUnknownEmployee(t *testing.T) {
	svc := newTestService(&fakeRequestRepo{}, &fakeEmployeeRepo{})

	_, err := svc.Balance(context.Background(), "missing", 2025, false)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPreviewSickChargesCalendarDays(t *testing.T) {
	svc := newTestService(&fakeRequestRepo{}, &fakeEmployeeRepo{})

	// 2025-03-06 .. 2025-03-08 spans a Friday.
	preview, err := svc.Preview(context.Background(), "2025-03-06", "2025-03-08", "SL")
	require.NoError(t, err)
	assert.Equal(t, 3, preview.CalendarDays)
	assert.Equal(t, 3.0, preview.EffectiveDays)

	preview, err = svc.Preview(context.Background(), "2025-03-06", "2025-03-08", "AL")
	require.NoError(t, err)
	assert.Equal(t, 2.0, preview.EffectiveDays)
	assert.Len(t, preview.Excluded.Fridays, 1)
}

func TestCreateRequestValidation(t *testing.T) {
	requestRepo := &fakeRequestRepo{}
	svc := newTestService(requestRepo, &fakeEmployeeRepo{})

	_, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "",
		LeaveType:  "AL",
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-05",
	})
	assert.Error(t, err)
	assert.Empty(t, requestRepo.created)
}

func TestCreateRequest(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{}
	svc := newTestService(requestRepo, employeeRepo)

	resp, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "AL",
		StartDate:  "2025-03-06",
		EndDate:    "2025-03-08",
		Reason:     "family trip",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, resp.LeaveTypeID)
	assert.Equal(t, 3.0, resp.TotalDays)
	assert.Equal(t, 2.0, resp.WorkingDays) // Friday not charged
	assert.Equal(t, string(leave.LeaveRequestStatusWaitingApproval), resp.Status)
	require.Len(t, requestRepo.created, 1)
}

func TestCreateRequestEmergencyCapLeavesStoreUntouched(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		// Three approved emergency days already taken in March.
		approvedRequest("req-1", "emp-1", 3, day(2025, time.March, 3), day(2025, time.March, 5)),
	}}
	svc := newTestService(requestRepo, employeeRepo)

	_, err := svc.CreateRequest(context.Background(), leave.CreateLeaveRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "EL",
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-10",
	})

	var capErr *leave.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, leave.CapScopeMonth, capErr.Scope)
	assert.Equal(t, "2025-03", capErr.Period)
	assert.Empty(t, requestRepo.created)
}

func TestUpdateRequestExcludesSelfFromCap(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		approvedRequest("req-1", "emp-1", 3, day(2025, time.March, 3), day(2025, time.March, 5)),
	}}
	svc := newTestService(requestRepo, employeeRepo)

	// Moving the same three-day request by one day must not trip the cap.
	start, end := "2025-03-04", "2025-03-06"
	resp, err := svc.UpdateRequest(context.Background(), leave.UpdateLeaveRequestRequest{
		ID:        "req-1",
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", resp.StartDate)
	assert.Equal(t, 3.0, resp.WorkingDays)
}

func TestApproveRequest(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		{
			ID:          "req-1",
			EmployeeID:  "emp-1",
			LeaveTypeID: 1,
			StartDate:   day(2025, time.March, 3),
			EndDate:     day(2025, time.March, 5),
			Status:      leave.LeaveRequestStatusWaitingApproval,
		},
	}}
	svc := newTestService(requestRepo, employeeRepo)

	resp, err := svc.ApproveRequest(context.Background(), "req-1", "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), resp.Status)

	stored, err := requestRepo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, "mgr-1", *stored.ApprovedBy)
}

func TestApproveRequestSpansOneTransaction(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		{
			ID:          "req-1",
			EmployeeID:  "emp-1",
			LeaveTypeID: 3,
			StartDate:   day(2025, time.March, 10),
			EndDate:     day(2025, time.March, 10),
			Status:      leave.LeaveRequestStatusWaitingApproval,
		},
	}}
	svc := newTestService(requestRepo, employeeRepo)
	tx := &recordingTx{}
	svc.tx = tx

	// The cap recheck and the status write share the transaction.
	_, err := svc.ApproveRequest(context.Background(), "req-1", "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, 1, tx.spans)

	stored, err := requestRepo.GetByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, stored.Status)
}

func TestApproveRequestCapFailureAbortsTransaction(t *testing.T) {
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1"},
	}}
	requestRepo := &fakeRequestRepo{requests: []leave.LeaveRequest{
		// Three approved emergency days already consume the March cap.
		approvedRequest("req-1", "emp-1", 3, day(2025, time.March, 3), day(2025, time.March, 5)),
		{
			ID:          "req-2",
			EmployeeID:  "emp-1",
			LeaveTypeID: 3,
			StartDate:   day(2025, time.March, 10),
			EndDate:     day(2025, time.March, 10),
			Status:      leave.LeaveRequestStatusWaitingApproval,
		},
	}}
	svc := newTestService(requestRepo, employeeRepo)

	_, err := svc.ApproveRequest(context.Background(), "req-2", "mgr-1")
	assert.ErrorIs(t, err, leave.ErrEmergencyCapExceeded)

	stored, err := requestRepo.GetByID(context.Background(), "req-2")
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusWaitingApproval, stored.Status)
}
