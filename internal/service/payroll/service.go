package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
	leaveService "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
	loanService "github.com/cmlabs-hris/payroll-engine-go/internal/service/loan"
)

// runConcurrency bounds the per-employee fan-out of a payroll run.
const runConcurrency = 8

type PayrollService struct {
	employeeRepo   employee.EmployeeRepository
	adjustmentRepo payroll.AdjustmentRepository
	loanRepo       loan.LoanRepository
	leaveTypeRepo  leave.LeaveTypeRepository
	attendance     *attendanceService.AttendanceService
	calendar       *calendar.Service
	logger         *slog.Logger
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	adjustmentRepo payroll.AdjustmentRepository,
	loanRepo loan.LoanRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	attendanceSvc *attendanceService.AttendanceService,
	calendarSvc *calendar.Service,
	logger *slog.Logger,
) *PayrollService {
	return &PayrollService{
		employeeRepo:   employeeRepo,
		adjustmentRepo: adjustmentRepo,
		loanRepo:       loanRepo,
		leaveTypeRepo:  leaveTypeRepo,
		attendance:     attendanceSvc,
		calendar:       calendarSvc,
		logger:         logger,
	}
}

// Calculate produces the full payslip for one employee month, or an error;
// never a partial object.
func (s *PayrollService) Calculate(ctx context.Context, employeeID string, year, month int) (payroll.Payslip, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.Payslip{}, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	set := s.calendar.Resolve(ctx, monthStart, monthEnd)
	policies := leaveService.BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)

	return s.calculate(ctx, emp, year, month, set, policies)
}

func (s *PayrollService) calculate(
	ctx context.Context,
	emp employee.Employee,
	year, month int,
	set calendar.HolidaySet,
	policies leaveService.PolicySnapshot,
) (payroll.Payslip, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	sheet, err := s.attendance.MonthSheetWithSnapshots(ctx, emp, year, month, set, policies)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("month sheet for %s: %w", emp.ID, err)
	}

	breakdown, err := calendar.CountEffective(monthStart, monthEnd, set)
	if err != nil {
		return payroll.Payslip{}, err
	}
	workingDays := breakdown.EffectiveDays
	if workingDays < 1 {
		// A month of holidays must not divide the salary by zero.
		workingDays = 1
	}

	dailyBase := emp.BaseSalary.Div(decimal.NewFromInt(int64(workingDays)))
	basePay := dailyBase.Mul(decimal.NewFromFloat(sheet.FactorSum)).Round(2)
	allowancePay := emp.Allowances.PerDay().Mul(decimal.NewFromInt(int64(workingDays))).Round(2)

	totals, extraAllowance, err := s.adjustmentTotals(ctx, emp.ID, year, month)
	if err != nil {
		return payroll.Payslip{}, err
	}
	allowancePay = allowancePay.Add(extraAllowance).Round(2)

	loans, err := s.loanRepo.GetByEmployee(ctx, emp.ID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	for _, l := range loans {
		totals.LoanPayment = totals.LoanPayment.Add(loanService.ScheduledDebit(l, year, month, emp.BaseSalary))
	}

	total := basePay.
		Add(allowancePay).
		Add(totals.Bonus).
		Sub(totals.Deduction).
		Sub(totals.Advance).
		Sub(totals.LoanPayment).
		Round(2)

	return payroll.Payslip{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.FullName,
		PeriodYear:    year,
		PeriodMonth:   month,
		BaseSalary:    emp.BaseSalary,
		WorkingDays:   workingDays,
		DeductionDays: sheet.DeductionDays,
		LeaveSummary:  sheet.CodeCounts,
		Components: payroll.PayslipComponents{
			BasePay:      basePay,
			AllowancePay: allowancePay,
			Adjustments:  totals,
		},
		Total:         total,
		FactorSum:     sheet.FactorSum,
		HolidayCount:  sheet.HolidayCount,
		HolidayWorked: sheet.HolidayWorked,
		FoodDays:      sheet.FoodDays,
	}, nil
}

// adjustmentTotals resolves period adjustments, including recurring ones,
// into the four payslip buckets. Named allowances fold into allowance pay.
func (s *PayrollService) adjustmentTotals(ctx context.Context, employeeID string, year, month int) (payroll.AdjustmentTotals, decimal.Decimal, error) {
	totals := payroll.AdjustmentTotals{
		Bonus:       decimal.Zero,
		Deduction:   decimal.Zero,
		Advance:     decimal.Zero,
		LoanPayment: decimal.Zero,
	}
	extraAllowance := decimal.Zero

	adjustments, err := s.adjustmentRepo.GetForPeriod(ctx, employeeID, year, month)
	if err != nil {
		return totals, extraAllowance, err
	}

	for _, adj := range adjustments {
		if !adj.AppliesTo(year, month) {
			continue
		}
		switch adj.Type {
		case payroll.AdjustmentTypeBonus:
			totals.Bonus = totals.Bonus.Add(adj.Amount)
		case payroll.AdjustmentTypeDeduction:
			totals.Deduction = totals.Deduction.Add(adj.Amount)
		case payroll.AdjustmentTypeAdvance:
			totals.Advance = totals.Advance.Add(adj.Amount)
		case payroll.AdjustmentTypeLoanPayment:
			totals.LoanPayment = totals.LoanPayment.Add(adj.Amount)
		case payroll.AdjustmentTypeAllowance:
			extraAllowance = extraAllowance.Add(adj.Amount)
		}
	}

	return totals, extraAllowance, nil
}

// RunPeriod computes payslips for the given employees (all active ones when
// empty). Reference snapshots are resolved once and shared read-only; the
// per-employee work is independent and fans out concurrently.
func (s *PayrollService) RunPeriod(ctx context.Context, employeeIDs []string, year, month int) ([]payroll.Payslip, error) {
	var employees []employee.Employee
	if len(employeeIDs) > 0 {
		for _, id := range employeeIDs {
			emp, err := s.employeeRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			employees = append(employees, emp)
		}
	} else {
		var err error
		employees, err = s.employeeRepo.GetActive(ctx)
		if err != nil {
			return nil, err
		}
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	set := s.calendar.Resolve(ctx, monthStart, monthEnd)
	policies := leaveService.BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)

	payslips := make([]payroll.Payslip, len(employees))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runConcurrency)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			slip, err := s.calculate(gctx, emp, year, month, set, policies)
			if err != nil {
				return err
			}
			mu.Lock()
			payslips[i] = slip
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return payslips, nil
}
