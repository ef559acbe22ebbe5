package leave

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/leave"
)

// PolicySnapshot is a read-only view of the leave-type table, built once per
// run and shared across employees. Sick/emergency classification is derived
// from code and name at build time.
type PolicySnapshot struct {
	byID   map[int]leave.LeaveType
	byCode map[string]leave.LeaveType
}

// BuildPolicySnapshot loads the leave-type table. An unavailable table
// degrades to an empty snapshot: individual lookups then fail and callers
// apply their non-sick fallback.
func BuildPolicySnapshot(ctx context.Context, repo leave.LeaveTypeRepository, logger *slog.Logger) PolicySnapshot {
	snap := PolicySnapshot{
		byID:   map[int]leave.LeaveType{},
		byCode: map[string]leave.LeaveType{},
	}

	types, err := repo.List(ctx)
	if err != nil {
		logger.Warn("leave type table unavailable, continuing with empty snapshot", "error", err)
		return snap
	}

	for _, lt := range types {
		lt.IsSick = classifySick(lt)
		lt.IsEmergency = classifyEmergency(lt)
		snap.byID[lt.ID] = lt
		if lt.Code != "" {
			snap.byCode[strings.ToUpper(lt.Code)] = lt
		}
	}
	return snap
}

func classifySick(lt leave.LeaveType) bool {
	return strings.EqualFold(lt.Code, "SL") || strings.Contains(strings.ToLower(lt.Name), "sick")
}

func classifyEmergency(lt leave.LeaveType) bool {
	return strings.EqualFold(lt.Code, "EL") || strings.Contains(strings.ToLower(lt.Name), "emergency")
}

// Resolve accepts a numeric id or a short code.
func (s PolicySnapshot) Resolve(ref string) (leave.LeaveType, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return s.ResolveID(id)
	}
	if lt, ok := s.byCode[strings.ToUpper(ref)]; ok {
		return lt, nil
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (s PolicySnapshot) ResolveID(id int) (leave.LeaveType, error) {
	if lt, ok := s.byID[id]; ok {
		return lt, nil
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}
