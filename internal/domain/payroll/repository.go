package payroll

import "context"

type AdjustmentRepository interface {
	// GetForPeriod returns adjustments applicable to the period, including
	// recurring adjustments whose window covers it.
	GetForPeriod(ctx context.Context, employeeID string, year, month int) ([]Adjustment, error)

	GetByID(ctx context.Context, id string) (Adjustment, error)
	Create(ctx context.Context, adj Adjustment) (Adjustment, error)

	// Update applies the change only when the stored version matches
	// adj.Version; otherwise ErrStaleVersion.
	Update(ctx context.Context, adj Adjustment) (Adjustment, error)
	Delete(ctx context.Context, id string, version int) error
}
