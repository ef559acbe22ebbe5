package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domainLeave "github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	leaveService "github.com/cmlabs-hris/payroll-engine-go/internal/service/leave"
)

type LeaveHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetWorkingDays(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService *leaveService.LeaveService
}

func NewLeaveHandler(svc *leaveService.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: svc}
}

func (h *leaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}
	fullHistory := r.URL.Query().Get("full_history") == "true"

	result, err := h.leaveService.Balance(r.Context(), employeeID, year, fullHistory)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) GetWorkingDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.leaveService.Preview(r.Context(), q.Get("start"), q.Get("end"), q.Get("leave_type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req domainLeave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

func (h *leaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req domainLeave.UpdateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.leaveService.UpdateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type approveRequestBody struct {
	ApprovedBy string `json:"approved_by"`
}

func (h *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var body approveRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.leaveService.ApproveRequest(r.Context(), chi.URLParam(r, "id"), body.ApprovedBy)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}
