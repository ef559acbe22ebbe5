package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, employee_id, attendance_date, entry_at, exit_at, manual_code, comment,
	created_at, updated_at
`

func scanAttendanceRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
		&rec.EntryAt,
		&rec.ExitAt,
		&rec.ManualCode,
		&rec.Comment,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// GetRecords implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetRecords(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND attendance_date BETWEEN $2 AND $3
		ORDER BY attendance_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
