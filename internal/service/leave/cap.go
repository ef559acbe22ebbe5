package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

// Emergency-leave policy caps, in effective working days.
const (
	emergencyMonthlyCap = 3
	emergencyYearlyCap  = 12
)

// CapEnforcer validates candidate emergency-leave requests against the
// monthly and yearly caps across all other approved emergency requests.
type CapEnforcer struct {
	requestRepo leave.LeaveRequestRepository
	calendar    *calendar.Service
}

func NewCapEnforcer(requestRepo leave.LeaveRequestRepository, calendarSvc *calendar.Service) *CapEnforcer {
	return &CapEnforcer{
		requestRepo: requestRepo,
		calendar:    calendarSvc,
	}
}

// Validate buckets the candidate span by month and rejects when any touched
// month would exceed 3 effective days or any touched year 12. When editing,
// excludeRequestID keeps the request from counting against itself.
func (e *CapEnforcer) Validate(
	ctx context.Context,
	employeeID string,
	candidateStart, candidateEnd time.Time,
	excludeRequestID string,
	policies PolicySnapshot,
) error {
	candidateSet := e.calendar.Resolve(ctx, candidateStart, candidateEnd)
	candidateByMonth, err := calendar.CountEffectiveByMonth(candidateStart, candidateEnd, candidateSet)
	if err != nil {
		return err
	}

	candidateByYear := map[int]float64{}
	for month, days := range candidateByMonth {
		year, err := yearOfBucket(month)
		if err != nil {
			return err
		}
		candidateByYear[year] += days
	}

	for year, requestedYear := range candidateByYear {
		usedByMonth, usedYear, err := e.approvedEmergencyUsage(ctx, employeeID, year, excludeRequestID, policies)
		if err != nil {
			return err
		}

		for month, requested := range candidateByMonth {
			y, _ := yearOfBucket(month)
			if y != year {
				continue
			}
			if used := usedByMonth[month]; used+requested > emergencyMonthlyCap {
				return &leave.CapacityError{
					Scope:     leave.CapScopeMonth,
					Period:    month,
					Used:      used,
					Requested: requested,
					Limit:     emergencyMonthlyCap,
				}
			}
		}

		if usedYear+requestedYear > emergencyYearlyCap {
			return &leave.CapacityError{
				Scope:     leave.CapScopeYear,
				Period:    time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"),
				Used:      usedYear,
				Requested: requestedYear,
				Limit:     emergencyYearlyCap,
			}
		}
	}

	return nil
}

// approvedEmergencyUsage sums the effective days of all other approved
// emergency requests touching the year, clamped to the year's span.
func (e *CapEnforcer) approvedEmergencyUsage(
	ctx context.Context,
	employeeID string,
	year int,
	excludeRequestID string,
	policies PolicySnapshot,
) (map[string]float64, float64, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	requests, err := e.requestRepo.GetApprovedInRange(ctx, employeeID, yearStart, yearEnd)
	if err != nil {
		return nil, 0, err
	}

	set := e.calendar.Resolve(ctx, yearStart, yearEnd)

	usedByMonth := map[string]float64{}
	usedYear := 0.0
	for _, req := range requests {
		if req.ID == excludeRequestID {
			continue
		}
		lt, err := policies.ResolveID(req.LeaveTypeID)
		if err != nil || !lt.IsEmergency {
			continue
		}

		start, end := clampRange(req.StartDate, req.EndDate, yearStart, yearEnd)
		if end.Before(start) {
			continue
		}
		buckets, err := calendar.CountEffectiveByMonth(start, end, set)
		if err != nil {
			return nil, 0, err
		}
		for month, days := range buckets {
			usedByMonth[month] += days
			usedYear += days
		}
	}

	return usedByMonth, usedYear, nil
}

func yearOfBucket(key string) (int, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
