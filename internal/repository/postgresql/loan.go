package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

const loanColumns = `
	id, employee_id, principal, remaining, start_year, start_month,
	monthly_percent, cap_multiple, skip_periods, closed, version,
	created_at, updated_at
`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	var skips []string
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.Principal,
		&l.Remaining,
		&l.StartYear,
		&l.StartMonth,
		&l.MonthlyPercent,
		&l.CapMultiple,
		&skips,
		&l.Closed,
		&l.Version,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return loan.Loan{}, err
	}
	l.SkipPeriods = make(map[string]bool, len(skips))
	for _, p := range skips {
		l.SkipPeriods[p] = true
	}
	return l, nil
}

func skipPeriodKeys(l loan.Loan) []string {
	keys := make([]string, 0, len(l.SkipPeriods))
	for p, skipped := range l.SkipPeriods {
		if skipped {
			keys = append(keys, p)
		}
	}
	return keys
}

// GetByID implements loan.LoanRepository.
func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	l, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, err
	}
	return l, nil
}

// GetByEmployee implements loan.LoanRepository.
func (r *loanRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE employee_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// Create implements loan.LoanRepository.
func (r *loanRepositoryImpl) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (
			id, employee_id, principal, remaining, start_year, start_month,
			monthly_percent, cap_multiple, skip_periods, closed, version,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING ` + loanColumns

	return scanLoan(q.QueryRow(ctx, query,
		l.ID,
		l.EmployeeID,
		l.Principal,
		l.Remaining,
		l.StartYear,
		l.StartMonth,
		l.MonthlyPercent,
		l.CapMultiple,
		skipPeriodKeys(l),
		l.Closed,
		l.Version,
	))
}

// Update implements loan.LoanRepository. The row is only written when the
// stored version still matches l.Version; a lost race surfaces as
// ErrStaleVersion so the caller can re-read and retry.
func (r *loanRepositoryImpl) Update(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET remaining = $3, monthly_percent = $4, skip_periods = $5,
			closed = $6, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + loanColumns

	updated, err := scanLoan(q.QueryRow(ctx, query,
		l.ID,
		l.Version,
		l.Remaining,
		l.MonthlyPercent,
		skipPeriodKeys(l),
		l.Closed,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, l.ID); getErr != nil {
				return loan.Loan{}, getErr
			}
			return loan.Loan{}, loan.ErrStaleVersion
		}
		return loan.Loan{}, err
	}
	return updated, nil
}
