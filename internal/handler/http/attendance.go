package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
)

type AttendanceHandler interface {
	GetMonthSheet(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService *attendanceService.AttendanceService
}

func NewAttendanceHandler(svc *attendanceService.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: svc}
}

func (h *attendanceHandlerImpl) GetMonthSheet(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	year, month, ok := periodParams(r)
	if !ok {
		response.BadRequest(w, "year and month query parameters are required", nil)
		return
	}

	result, err := h.attendanceService.MonthSheet(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
