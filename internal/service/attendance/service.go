package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
	leaveService "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
)

// defaultShiftMinutes applies when neither the employee nor their work
// point defines shift times.
const defaultShiftMinutes = 480

type AttendanceService struct {
	attendanceRepo    attendance.AttendanceRepository
	employeeRepo      employee.EmployeeRepository
	requestRepo       leave.LeaveRequestRepository
	leaveTypeRepo     leave.LeaveTypeRepository
	pointScheduleRepo schedule.PointScheduleRepository
	calendar          *calendar.Service
	logger            *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	requestRepo leave.LeaveRequestRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	pointScheduleRepo schedule.PointScheduleRepository,
	calendarSvc *calendar.Service,
	logger *slog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo:    attendanceRepo,
		employeeRepo:      employeeRepo,
		requestRepo:       requestRepo,
		leaveTypeRepo:     leaveTypeRepo,
		pointScheduleRepo: pointScheduleRepo,
		calendar:          calendarSvc,
		logger:            logger,
	}
}

// MonthSheet classifies every day of the employee's month. Reference data
// (holiday set, leave types) is loaded once; the per-day work is pure.
func (s *AttendanceService) MonthSheet(ctx context.Context, employeeID string, year, month int) (attendance.MonthSheet, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.MonthSheet{}, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	set := s.calendar.Resolve(ctx, monthStart, monthEnd)
	policies := leaveService.BuildPolicySnapshot(ctx, s.leaveTypeRepo, s.logger)
	return s.buildSheet(ctx, emp, year, month, set, policies)
}

// MonthSheetWithSnapshots is the payroll-run entry point: the caller passes
// pre-resolved reference snapshots shared across employees.
func (s *AttendanceService) MonthSheetWithSnapshots(
	ctx context.Context,
	emp employee.Employee,
	year, month int,
	set calendar.HolidaySet,
	policies leaveService.PolicySnapshot,
) (attendance.MonthSheet, error) {
	return s.buildSheet(ctx, emp, year, month, set, policies)
}

func (s *AttendanceService) buildSheet(
	ctx context.Context,
	emp employee.Employee,
	year, month int,
	set calendar.HolidaySet,
	policies leaveService.PolicySnapshot,
) (attendance.MonthSheet, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.GetRecords(ctx, emp.ID, monthStart, monthEnd)
	if err != nil {
		return attendance.MonthSheet{}, err
	}
	recordByDay := map[string]attendance.Record{}
	for _, r := range records {
		recordByDay[r.Date.Format("2006-01-02")] = r
	}

	leaves, err := s.requestRepo.GetApprovedInRange(ctx, emp.ID, monthStart, monthEnd)
	if err != nil {
		return attendance.MonthSheet{}, err
	}

	expected := s.expectedMinutes(ctx, emp)

	sheet := attendance.MonthSheet{
		EmployeeID: emp.ID,
		Year:       year,
		Month:      month,
		CodeCounts: map[string]int{},
	}

	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		c := dayContext{
			date:            d,
			friday:          d.Weekday() == time.Friday,
			holiday:         set.Contains(d),
			expectedMinutes: expected,
		}

		if rec, ok := recordByDay[d.Format("2006-01-02")]; ok {
			c.punched = rec.Punched()
			c.workedMinutes = rec.WorkedMinutes()
			c.override = rec.ManualCode
			c.comment = rec.Comment
		}

		for _, lr := range leaves {
			if d.Before(lr.StartDate) || d.After(lr.EndDate) {
				continue
			}
			lt, err := policies.ResolveID(lr.LeaveTypeID)
			if err != nil {
				// Unresolvable type: leave the day to default logic.
				s.logger.Warn("leave type unresolvable for overlay",
					"request_id", lr.ID, "leave_type_id", lr.LeaveTypeID)
				continue
			}
			c.leaveCode = lt.Code
			c.leavePaidFraction = lt.PaidFraction
			c.leaveSick = lt.IsSick
			break
		}

		day := classify(c)
		sheet.Days = append(sheet.Days, day)

		sheet.CodeCounts[day.Code]++
		sheet.FactorSum += day.Factor
		sheet.DeductionDays += day.Deduction
		if day.Holiday {
			sheet.HolidayCount++
			if day.Punched {
				sheet.HolidayWorked++
			}
		}
		if day.Food {
			sheet.FoodDays++
		}
	}

	return sheet, nil
}

// expectedMinutes resolves the shift length: the employee's own schedule,
// else the point-schedule default, else eight hours.
func (s *AttendanceService) expectedMinutes(ctx context.Context, emp employee.Employee) int {
	if m, ok := shiftMinutes(emp.ScheduleStart, emp.ScheduleEnd); ok {
		return m
	}
	if emp.PointScheduleID != nil {
		ps, err := s.pointScheduleRepo.GetByID(ctx, *emp.PointScheduleID)
		if err != nil {
			s.logger.Warn("point schedule unavailable, using default shift",
				"point_schedule_id", *emp.PointScheduleID, "error", err)
		} else if m, ok := shiftMinutes(ps.Start, ps.End); ok {
			return m
		}
	}
	return defaultShiftMinutes
}

func shiftMinutes(startStr, endStr string) (int, bool) {
	start, err := time.Parse("15:04", startStr)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse("15:04", endStr)
	if err != nil {
		return 0, false
	}
	m := int(end.Sub(start).Minutes())
	if m <= 0 {
		// Overnight shift wraps past midnight.
		m += 24 * 60
	}
	return m, true
}
