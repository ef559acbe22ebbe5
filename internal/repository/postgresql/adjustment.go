package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type adjustmentRepositoryImpl struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) payroll.AdjustmentRepository {
	return &adjustmentRepositoryImpl{db: db}
}

const adjustmentColumns = `
	id, employee_id, period_year, period_month, adjustment_type, label, amount, currency,
	recur_start_year, recur_start_month, recur_end_year, recur_end_month,
	version, created_at, updated_at
`

func scanAdjustment(row pgx.Row) (payroll.Adjustment, error) {
	var a payroll.Adjustment
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.PeriodYear,
		&a.PeriodMonth,
		&a.Type,
		&a.Label,
		&a.Amount,
		&a.Currency,
		&a.RecurStartYear,
		&a.RecurStartMonth,
		&a.RecurEndYear,
		&a.RecurEndMonth,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// GetForPeriod implements payroll.AdjustmentRepository. Recurring rows whose
// window covers the period are returned alongside one-shot rows for it.
func (r *adjustmentRepositoryImpl) GetForPeriod(ctx context.Context, employeeID string, year, month int) ([]payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + adjustmentColumns + `
		FROM payslip_adjustments
		WHERE employee_id = $1
		  AND (
			(period_year = $2 AND period_month = $3)
			OR (
				recur_start_year IS NOT NULL
				AND (recur_start_year * 12 + recur_start_month - 1) <= ($2 * 12 + $3 - 1)
				AND (recur_end_year * 12 + recur_end_month - 1) >= ($2 * 12 + $3 - 1)
			)
		  )
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []payroll.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

// GetByID implements payroll.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adjustmentColumns + ` FROM payslip_adjustments WHERE id = $1`

	a, err := scanAdjustment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Adjustment{}, payroll.ErrAdjustmentNotFound
		}
		return payroll.Adjustment{}, err
	}
	return a, nil
}

// Create implements payroll.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Create(ctx context.Context, adj payroll.Adjustment) (payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslip_adjustments (
			id, employee_id, period_year, period_month, adjustment_type, label, amount, currency,
			recur_start_year, recur_start_month, recur_end_year, recur_end_month,
			version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + adjustmentColumns

	return scanAdjustment(q.QueryRow(ctx, query,
		adj.ID,
		adj.EmployeeID,
		adj.PeriodYear,
		adj.PeriodMonth,
		adj.Type,
		adj.Label,
		adj.Amount,
		adj.Currency,
		adj.RecurStartYear,
		adj.RecurStartMonth,
		adj.RecurEndYear,
		adj.RecurEndMonth,
		adj.Version,
	))
}

// Update implements payroll.AdjustmentRepository. The row is only written
// when the stored version still matches adj.Version; otherwise
// ErrStaleVersion.
func (r *adjustmentRepositoryImpl) Update(ctx context.Context, adj payroll.Adjustment) (payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslip_adjustments
		SET period_year = $3, period_month = $4, adjustment_type = $5, label = $6,
			amount = $7, currency = $8, recur_start_year = $9, recur_start_month = $10,
			recur_end_year = $11, recur_end_month = $12,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + adjustmentColumns

	updated, err := scanAdjustment(q.QueryRow(ctx, query,
		adj.ID,
		adj.Version,
		adj.PeriodYear,
		adj.PeriodMonth,
		adj.Type,
		adj.Label,
		adj.Amount,
		adj.Currency,
		adj.RecurStartYear,
		adj.RecurStartMonth,
		adj.RecurEndYear,
		adj.RecurEndMonth,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, adj.ID); getErr != nil {
				return payroll.Adjustment{}, getErr
			}
			return payroll.Adjustment{}, payroll.ErrStaleVersion
		}
		return payroll.Adjustment{}, err
	}
	return updated, nil
}

// Delete implements payroll.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Delete(ctx context.Context, id string, version int) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payslip_adjustments WHERE id = $1 AND version = $2`

	result, err := q.Exec(ctx, query, id, version)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return payroll.ErrStaleVersion
	}
	return nil
}
