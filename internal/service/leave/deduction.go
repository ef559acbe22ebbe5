package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

// DeductionLedger aggregates approved leave consumption inside a window.
type DeductionLedger struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	DeductedToDate float64
	Entries        []leave.DeductionEntry
}

// DeductionBuilder charges approved requests against the balance using the
// working-day counter, with the inclusive count for sick types.
type DeductionBuilder struct {
	requestRepo leave.LeaveRequestRepository
	logger      *slog.Logger
}

func NewDeductionBuilder(requestRepo leave.LeaveRequestRepository, logger *slog.Logger) *DeductionBuilder {
	return &DeductionBuilder{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// Build queries approved requests overlapping [windowStart, windowEnd],
// clamps each to the window and sums the charged days. A leave-type lookup
// failure for one record falls back to non-sick counting instead of
// aborting the ledger.
func (b *DeductionBuilder) Build(
	ctx context.Context,
	employeeID string,
	windowStart, windowEnd time.Time,
	set calendar.HolidaySet,
	policies PolicySnapshot,
) (DeductionLedger, error) {
	ledger := DeductionLedger{WindowStart: windowStart, WindowEnd: windowEnd}

	requests, err := b.requestRepo.GetApprovedInRange(ctx, employeeID, windowStart, windowEnd)
	if err != nil {
		return DeductionLedger{}, err
	}

	total := 0.0
	for _, req := range requests {
		start, end := clampRange(req.StartDate, req.EndDate, windowStart, windowEnd)
		if end.Before(start) {
			continue
		}

		sick := false
		lt, err := policies.ResolveID(req.LeaveTypeID)
		if err != nil {
			b.logger.Warn("leave type unresolvable, charging as non-sick",
				"request_id", req.ID, "leave_type_id", req.LeaveTypeID)
		} else {
			sick = lt.IsSick
		}

		var days float64
		if sick {
			n, err := calendar.InclusiveDays(start, end)
			if err != nil {
				return DeductionLedger{}, err
			}
			days = float64(n)
		} else {
			breakdown, err := calendar.CountEffective(start, end, set)
			if err != nil {
				return DeductionLedger{}, err
			}
			days = float64(breakdown.EffectiveDays)
		}

		total += days
		ledger.Entries = append(ledger.Entries, leave.DeductionEntry{
			RequestID:    req.ID,
			LeaveTypeID:  req.LeaveTypeID,
			StartDate:    start.Format("2006-01-02"),
			EndDate:      end.Format("2006-01-02"),
			Days:         days,
			RunningTotal: round2(total),
		})
	}

	ledger.DeductedToDate = round2(total)
	return ledger, nil
}

func clampRange(start, end, windowStart, windowEnd time.Time) (time.Time, time.Time) {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	return start, end
}
