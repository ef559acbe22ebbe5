package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
	attendanceHandler AttendanceHandler,
	loanHandler LoanHandler,
	calendarHandler CalendarHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/payslips/{employeeID}", payrollHandler.GetPayslip)
			r.Post("/run", payrollHandler.RunPeriod)

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", payrollHandler.CreateAdjustment)
				r.Put("/{id}", payrollHandler.UpdateAdjustment)
				r.Delete("/{id}", payrollHandler.DeleteAdjustment)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/balance/{employeeID}", leaveHandler.GetBalance)
			r.Get("/working-days", leaveHandler.GetWorkingDays)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", leaveHandler.CreateRequest)
				r.Put("/{id}", leaveHandler.UpdateRequest)
				r.Post("/{id}/approve", leaveHandler.ApproveRequest)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/sheet/{employeeID}", attendanceHandler.GetMonthSheet)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", loanHandler.Create)
			// The bare wildcard is an employee id; the nested ones are loan ids.
			r.Get("/{id}", loanHandler.ListByEmployee)
			r.Post("/{id}/payoff", loanHandler.Payoff)
			r.Post("/{id}/skip", loanHandler.SkipPeriod)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/holidays", calendarHandler.GetHolidays)
		})
	})
	return r
}
