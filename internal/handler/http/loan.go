package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainLoan "github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	loanService "github.com/cmlabs-hris/payroll-engine-go/internal/service/loan"
)

type LoanHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Payoff(w http.ResponseWriter, r *http.Request)
	SkipPeriod(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService *loanService.LoanService
}

func NewLoanHandler(svc *loanService.LoanService) LoanHandler {
	return &loanHandlerImpl{loanService: svc}
}

func (h *loanHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req domainLoan.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan created", result)
}

func (h *loanHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanService.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) Payoff(w http.ResponseWriter, r *http.Request) {
	var req domainLoan.PayoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.Payoff(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan payoff recorded", result)
}

func (h *loanHandlerImpl) SkipPeriod(w http.ResponseWriter, r *http.Request) {
	var req domainLoan.SkipPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.SkipPeriod(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan period skipped", result)
}
