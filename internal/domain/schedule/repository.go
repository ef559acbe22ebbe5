package schedule

import "context"

type PointScheduleRepository interface {
	GetByID(ctx context.Context, id string) (PointSchedule, error)
}
