package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	calendarService "github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
	leaveService "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
	loanService "github.com/cmlabs-hris/payroll-engine-go/internal/service/loan"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-engine"),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	pointScheduleRepo := postgresql.NewPointScheduleRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)

	txManager := postgresql.NewTxManager(db)

	calendarSvc := calendarService.NewService(holidayRepo, logger)
	leaveSvc := leaveService.NewLeaveService(leaveTypeRepo, leaveRequestRepo, employeeRepo, calendarSvc, txManager, logger)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		leaveRequestRepo,
		leaveTypeRepo,
		pointScheduleRepo,
		calendarSvc,
		logger,
	)
	loanSvc := loanService.NewLoanService(loanRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		employeeRepo,
		adjustmentRepo,
		loanRepo,
		leaveTypeRepo,
		attendanceSvc,
		calendarSvc,
		logger,
	)
	adjustmentSvc := payrollService.NewAdjustmentService(adjustmentRepo)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, adjustmentSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)

	router := appHTTP.NewRouter(
		payrollHandler,
		leaveHandler,
		attendanceHandler,
		loanHandler,
		calendarHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
