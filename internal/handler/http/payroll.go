package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainPayroll "github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

type PayrollHandler interface {
	GetPayslip(w http.ResponseWriter, r *http.Request)
	RunPeriod(w http.ResponseWriter, r *http.Request)

	CreateAdjustment(w http.ResponseWriter, r *http.Request)
	UpdateAdjustment(w http.ResponseWriter, r *http.Request)
	DeleteAdjustment(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService    *payrollService.PayrollService
	adjustmentService *payrollService.AdjustmentService
}

func NewPayrollHandler(svc *payrollService.PayrollService, adjSvc *payrollService.AdjustmentService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService:    svc,
		adjustmentService: adjSvc,
	}
}

type runPeriodRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	year, month, ok := periodParams(r)
	if !ok {
		response.BadRequest(w, "year and month query parameters are required", nil)
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RunPeriod(w http.ResponseWriter, r *http.Request) {
	var req runPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Year < 2000 || req.Month < 1 || req.Month > 12 {
		response.BadRequest(w, "year and month must form a valid period", nil)
		return
	}

	result, err := h.payrollService.RunPeriod(r.Context(), req.EmployeeIDs, req.Year, req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req domainPayroll.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.adjustmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment created", result)
}

func (h *payrollHandlerImpl) UpdateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req domainPayroll.UpdateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.adjustmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	version, err := strconv.Atoi(r.URL.Query().Get("version"))
	if err != nil {
		response.BadRequest(w, "version query parameter is required", nil)
		return
	}

	if err := h.adjustmentService.Delete(r.Context(), id, version); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment deleted", nil)
}

// periodParams parses the required year and month query parameters.
func periodParams(r *http.Request) (year, month int, ok bool) {
	year, yearErr := strconv.Atoi(r.URL.Query().Get("year"))
	month, monthErr := strconv.Atoi(r.URL.Query().Get("month"))
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
