package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// AdjustmentService owns the ad-hoc adjustment records. Updates and deletes
// are optimistic: a stale version surfaces as payroll.ErrStaleVersion and
// the caller retries with fresh state.
type AdjustmentService struct {
	adjustmentRepo payroll.AdjustmentRepository
	now            func() time.Time
}

func NewAdjustmentService(adjustmentRepo payroll.AdjustmentRepository) *AdjustmentService {
	return &AdjustmentService{
		adjustmentRepo: adjustmentRepo,
		now:            time.Now,
	}
}

func (s *AdjustmentService) Create(ctx context.Context, req payroll.CreateAdjustmentRequest) (payroll.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "local"
	}

	created, err := s.adjustmentRepo.Create(ctx, payroll.Adjustment{
		ID:              uuid.NewString(),
		EmployeeID:      req.EmployeeID,
		PeriodYear:      req.PeriodYear,
		PeriodMonth:     req.PeriodMonth,
		Type:            payroll.AdjustmentType(req.Type),
		Label:           req.Label,
		Amount:          req.Amount,
		Currency:        currency,
		RecurStartYear:  req.RecurStartYear,
		RecurStartMonth: req.RecurStartMonth,
		RecurEndYear:    req.RecurEndYear,
		RecurEndMonth:   req.RecurEndMonth,
		Version:         1,
	})
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	return toAdjustmentResponse(created), nil
}

func (s *AdjustmentService) Update(ctx context.Context, req payroll.UpdateAdjustmentRequest) (payroll.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	current, err := s.adjustmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	current.Version = req.Version
	if req.Amount != nil {
		current.Amount = *req.Amount
	}
	if req.Label != nil {
		current.Label = req.Label
	}
	if req.Type != nil {
		current.Type = payroll.AdjustmentType(*req.Type)
	}

	updated, err := s.adjustmentRepo.Update(ctx, current)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	return toAdjustmentResponse(updated), nil
}

func (s *AdjustmentService) Delete(ctx context.Context, id string, version int) error {
	return s.adjustmentRepo.Delete(ctx, id, version)
}

func toAdjustmentResponse(a payroll.Adjustment) payroll.AdjustmentResponse {
	return payroll.AdjustmentResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		PeriodYear:  a.PeriodYear,
		PeriodMonth: a.PeriodMonth,
		Type:        string(a.Type),
		Label:       a.Label,
		Amount:      a.Amount,
		Currency:    a.Currency,
		Version:     a.Version,
	}
}
