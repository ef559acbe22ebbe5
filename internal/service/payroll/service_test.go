package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/holiday"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	active    []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	return f.active, nil
}

type fakeAdjustmentRepo struct {
	adjustments []payroll.Adjustment
}

func (f *fakeAdjustmentRepo) GetForPeriod(ctx context.Context, employeeID string, year, month int) ([]payroll.Adjustment, error) {
	var out []payroll.Adjustment
	for _, a := range f.adjustments {
		if a.EmployeeID == employeeID && a.AppliesTo(year, month) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAdjustmentRepo) GetByID(ctx context.Context, id string) (payroll.Adjustment, error) {
	for _, a := range f.adjustments {
		if a.ID == id {
			return a, nil
		}
	}
	return payroll.Adjustment{}, payroll.ErrAdjustmentNotFound
}

func (f *fakeAdjustmentRepo) Create(ctx context.Context, adj payroll.Adjustment) (payroll.Adjustment, error) {
	f.adjustments = append(f.adjustments, adj)
	return adj, nil
}

func (f *fakeAdjustmentRepo) Update(ctx context.Context, adj payroll.Adjustment) (payroll.Adjustment, error) {
	for i, a := range f.adjustments {
		if a.ID == adj.ID {
			if a.Version != adj.Version {
				return payroll.Adjustment{}, payroll.ErrStaleVersion
			}
			adj.Version++
			f.adjustments[i] = adj
			return adj, nil
		}
	}
	return payroll.Adjustment{}, payroll.ErrAdjustmentNotFound
}

func (f *fakeAdjustmentRepo) Delete(ctx context.Context, id string, version int) error {
	for i, a := range f.adjustments {
		if a.ID == id {
			if a.Version != version {
				return payroll.ErrStaleVersion
			}
			f.adjustments = append(f.adjustments[:i], f.adjustments[i+1:]...)
			return nil
		}
	}
	return payroll.ErrAdjustmentNotFound
}

type fakeLoanRepo struct {
	loans []loan.Loan
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	for _, l := range f.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return loan.Loan{}, loan.ErrLoanNotFound
}

func (f *fakeLoanRepo) GetByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	f.loans = append(f.loans, l)
	return l, nil
}

func (f *fakeLoanRepo) Update(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	for i, stored := range f.loans {
		if stored.ID == l.ID {
			f.loans[i] = l
			return l, nil
		}
	}
	return loan.Loan{}, loan.ErrLoanNotFound
}

type fakeLeaveTypeRepo struct{}

func (fakeLeaveTypeRepo) List(ctx context.Context) ([]leave.LeaveType, error) {
	return []leave.LeaveType{
		{ID: 1, Code: "AL", Name: "Annual Leave", PaidFraction: 1},
		{ID: 2, Code: "SL", Name: "Sick Leave", PaidFraction: 1},
	}, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) GetRecords(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeRequestRepo struct{}

func (fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (fakeRequestRepo) GetApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (fakeRequestRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	return req, nil
}

func (fakeRequestRepo) Update(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	return req, nil
}

type fakePointScheduleRepo struct{}

func (fakePointScheduleRepo) GetByID(ctx context.Context, id string) (schedule.PointSchedule, error) {
	return schedule.PointSchedule{}, schedule.ErrPointScheduleNotFound
}

type fakeHolidayRepo struct {
	dated []holiday.Holiday
}

func (f *fakeHolidayRepo) GetDated(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.dated {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) GetRecurring(ctx context.Context) ([]holiday.RecurringRule, error) {
	return nil, nil
}

// fullMonthPunches produces a full eight-hour punch for every non-Friday day
// of the month.
func fullMonthPunches(employeeID string, year int, month time.Month) []attendance.Record {
	var records []attendance.Record
	start := day(year, month, 1)
	for d := start; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Friday {
			continue
		}
		entry := d.Add(9 * time.Hour)
		exit := entry.Add(8 * time.Hour)
		records = append(records, attendance.Record{
			EmployeeID: employeeID,
			Date:       d,
			EntryAt:    &entry,
			ExitAt:     &exit,
		})
	}
	return records
}

func testEmployee(id string, salary string) employee.Employee {
	return employee.Employee{
		ID:            id,
		FullName:      "Test Employee " + id,
		BaseSalary:    dec(salary),
		ScheduleStart: "09:00",
		ScheduleEnd:   "17:00",
		IsActive:      true,
		Allowances:    employee.Allowances{Food: dec("3")},
	}
}

type payrollFixture struct {
	employeeRepo   *fakeEmployeeRepo
	adjustmentRepo *fakeAdjustmentRepo
	loanRepo       *fakeLoanRepo
	attendanceRepo *fakeAttendanceRepo
	holidayRepo    *fakeHolidayRepo
}

func newPayrollService(fx payrollFixture) *PayrollService {
	calendarSvc := calendar.NewService(fx.holidayRepo, testLogger())
	attendanceSvc := attendanceService.NewAttendanceService(
		fx.attendanceRepo,
		fx.employeeRepo,
		fakeRequestRepo{},
		fakeLeaveTypeRepo{},
		fakePointScheduleRepo{},
		calendarSvc,
		testLogger(),
	)
	return NewPayrollService(
		fx.employeeRepo,
		fx.adjustmentRepo,
		fx.loanRepo,
		fakeLeaveTypeRepo{},
		attendanceSvc,
		calendarSvc,
		testLogger(),
	)
}

func TestCalculatePayslip(t *testing.T) {
	emp := testEmployee("emp-1", "2700")
	fx := payrollFixture{
		employeeRepo: &fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		adjustmentRepo: &fakeAdjustmentRepo{adjustments: []payroll.Adjustment{
			{ID: "adj-1", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 3, Type: payroll.AdjustmentTypeBonus, Amount: dec("50")},
			{ID: "adj-2", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 3, Type: payroll.AdjustmentTypeDeduction, Amount: dec("30")},
			{ID: "adj-3", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 3, Type: payroll.AdjustmentTypeAdvance, Amount: dec("20")},
			{ID: "adj-4", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 3, Type: payroll.AdjustmentTypeAllowance, Amount: dec("19")},
		}},
		loanRepo: &fakeLoanRepo{loans: []loan.Loan{{
			ID: "loan-1", EmployeeID: "emp-1",
			Principal: dec("3000"), Remaining: dec("3000"),
			StartYear: 2025, StartMonth: 1,
			MonthlyPercent: dec("0.25"), CapMultiple: dec("3"),
		}}},
		attendanceRepo: &fakeAttendanceRepo{records: fullMonthPunches("emp-1", 2025, time.March)},
		holidayRepo:    &fakeHolidayRepo{},
	}
	svc := newPayrollService(fx)

	slip, err := svc.Calculate(context.Background(), "emp-1", 2025, 3)
	require.NoError(t, err)

	// March 2025: 31 days minus four Fridays.
	assert.Equal(t, 27, slip.WorkingDays)
	assert.Equal(t, 27.0, slip.FactorSum)

	// Base pay reconstructs the full salary on full attendance.
	assert.True(t, slip.Components.BasePay.Equal(dec("2700")), "base pay %s", slip.Components.BasePay)

	// 3/day food allowance over 27 days plus the 19 named allowance.
	assert.True(t, slip.Components.AllowancePay.Equal(dec("100")), "allowance pay %s", slip.Components.AllowancePay)

	assert.True(t, slip.Components.Adjustments.Bonus.Equal(dec("50")))
	assert.True(t, slip.Components.Adjustments.Deduction.Equal(dec("30")))
	assert.True(t, slip.Components.Adjustments.Advance.Equal(dec("20")))

	// 25% of 2700.
	assert.True(t, slip.Components.Adjustments.LoanPayment.Equal(dec("675")), "loan payment %s", slip.Components.Adjustments.LoanPayment)

	// 2700 + 100 + 50 - 30 - 20 - 675
	assert.True(t, slip.Total.Equal(dec("2125")), "total %s", slip.Total)

	assert.Equal(t, "emp-1", slip.EmployeeID)
	assert.Zero(t, slip.DeductionDays)
	assert.Equal(t, 27, slip.LeaveSummary[attendance.CodePresent])
}

func TestCalculateRecurringAdjustment(t *testing.T) {
	emp := testEmployee("emp-1", "2700")
	jan, dec25 := 1, 12
	year := 2025
	fx := payrollFixture{
		employeeRepo: &fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		adjustmentRepo: &fakeAdjustmentRepo{adjustments: []payroll.Adjustment{
			// Recurring all-year bonus anchored in January.
			{
				ID: "adj-1", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 1,
				Type: payroll.AdjustmentTypeBonus, Amount: dec("25"),
				RecurStartYear: &year, RecurStartMonth: &jan,
				RecurEndYear: &year, RecurEndMonth: &dec25,
			},
			// One-shot for another month: ignored.
			{ID: "adj-2", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 4, Type: payroll.AdjustmentTypeBonus, Amount: dec("99")},
		}},
		loanRepo:       &fakeLoanRepo{},
		attendanceRepo: &fakeAttendanceRepo{records: fullMonthPunches("emp-1", 2025, time.March)},
		holidayRepo:    &fakeHolidayRepo{},
	}
	svc := newPayrollService(fx)

	slip, err := svc.Calculate(context.Background(), "emp-1", 2025, 3)
	require.NoError(t, err)
	assert.True(t, slip.Components.Adjustments.Bonus.Equal(dec("25")), "bonus %s", slip.Components.Adjustments.Bonus)
}

func TestCalculateAllHolidayMonthKeepsDivisorPositive(t *testing.T) {
	emp := testEmployee("emp-1", "2700")
	var holidays []holiday.Holiday
	for d := day(2025, time.March, 1); d.Month() == time.March; d = d.AddDate(0, 0, 1) {
		holidays = append(holidays, holiday.Holiday{Date: d, Name: "Extended Shutdown"})
	}
	fx := payrollFixture{
		employeeRepo:   &fakeEmployeeRepo{employees: map[string]employee.Employee{"emp-1": emp}},
		adjustmentRepo: &fakeAdjustmentRepo{},
		loanRepo:       &fakeLoanRepo{},
		attendanceRepo: &fakeAttendanceRepo{},
		holidayRepo:    &fakeHolidayRepo{dated: holidays},
	}
	svc := newPayrollService(fx)

	slip, err := svc.Calculate(context.Background(), "emp-1", 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, slip.WorkingDays)
	assert.True(t, slip.Components.BasePay.IsZero())
}

func TestRunPeriod(t *testing.T) {
	emp1 := testEmployee("emp-1", "2700")
	emp2 := testEmployee("emp-2", "5400")
	records := append(
		fullMonthPunches("emp-1", 2025, time.March),
		fullMonthPunches("emp-2", 2025, time.March)...,
	)
	fx := payrollFixture{
		employeeRepo: &fakeEmployeeRepo{
			employees: map[string]employee.Employee{"emp-1": emp1, "emp-2": emp2},
			active:    []employee.Employee{emp1, emp2},
		},
		adjustmentRepo: &fakeAdjustmentRepo{},
		loanRepo:       &fakeLoanRepo{},
		attendanceRepo: &fakeAttendanceRepo{records: records},
		holidayRepo:    &fakeHolidayRepo{},
	}
	svc := newPayrollService(fx)

	slips, err := svc.RunPeriod(context.Background(), []string{"emp-1", "emp-2"}, 2025, 3)
	require.NoError(t, err)
	require.Len(t, slips, 2)

	// Result order follows the requested order.
	assert.Equal(t, "emp-1", slips[0].EmployeeID)
	assert.Equal(t, "emp-2", slips[1].EmployeeID)
	assert.True(t, slips[0].Total.Equal(dec("2781"))) // 2700 + 81 food
	assert.True(t, slips[1].Total.Equal(dec("5481"))) // 5400 + 81 food
}

func TestRunPeriodDefaultsToActiveEmployees(t *testing.T) {
	emp1 := testEmployee("emp-1", "2700")
	fx := payrollFixture{
		employeeRepo: &fakeEmployeeRepo{
			employees: map[string]employee.Employee{"emp-1": emp1},
			active:    []employee.Employee{emp1},
		},
		adjustmentRepo: &fakeAdjustmentRepo{},
		loanRepo:       &fakeLoanRepo{},
		attendanceRepo: &fakeAttendanceRepo{records: fullMonthPunches("emp-1", 2025, time.March)},
		holidayRepo:    &fakeHolidayRepo{},
	}
	svc := newPayrollService(fx)

	slips, err := svc.RunPeriod(context.Background(), nil, 2025, 3)
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, "emp-1", slips[0].EmployeeID)
}

func TestRunPeriodUnknownEmployee(t *testing.T) {
	fx := payrollFixture{
		employeeRepo:   &fakeEmployeeRepo{},
		adjustmentRepo: &fakeAdjustmentRepo{},
		loanRepo:       &fakeLoanRepo{},
		attendanceRepo: &fakeAttendanceRepo{},
		holidayRepo:    &fakeHolidayRepo{},
	}
	svc := newPayrollService(fx)

	_, err := svc.RunPeriod(context.Background(), []string{"missing"}, 2025, 3)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
