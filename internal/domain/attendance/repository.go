package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetRecords returns at most one record per day inside [start, end].
	GetRecords(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
}
