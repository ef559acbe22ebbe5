package loan

import "context"

type LoanRepository interface {
	GetByID(ctx context.Context, id string) (Loan, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]Loan, error)
	Create(ctx context.Context, l Loan) (Loan, error)

	// Update applies the change only when the stored version matches
	// l.Version; otherwise ErrStaleVersion.
	Update(ctx context.Context, l Loan) (Loan, error)
}
