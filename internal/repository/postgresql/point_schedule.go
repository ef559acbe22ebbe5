package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type pointScheduleRepositoryImpl struct {
	db *database.DB
}

func NewPointScheduleRepository(db *database.DB) schedule.PointScheduleRepository {
	return &pointScheduleRepositoryImpl{db: db}
}

// GetByID implements schedule.PointScheduleRepository.
func (r *pointScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.PointSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, shift_start, shift_end FROM point_schedules WHERE id = $1`

	var ps schedule.PointSchedule
	err := q.QueryRow(ctx, query, id).Scan(&ps.ID, &ps.Name, &ps.Start, &ps.End)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.PointSchedule{}, schedule.ErrPointScheduleNotFound
		}
		return schedule.PointSchedule{}, err
	}
	return ps, nil
}
