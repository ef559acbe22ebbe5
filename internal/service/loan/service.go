package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/loan"
)

// Policy defaults: a quarter of base salary per month, principal capped at
// three salaries.
var (
	defaultMonthlyPercent = decimal.NewFromFloat(0.25)
	defaultCapMultiple    = decimal.NewFromInt(3)
)

// ScheduledDebit is the amount debited for the period: zero when the loan
// is closed, not yet started or the period is skipped; otherwise the lesser
// of the remaining balance and the salary-percent target truncated to cents.
func ScheduledDebit(l loan.Loan, year, month int, baseSalary decimal.Decimal) decimal.Decimal {
	if l.Closed || !l.StartedBy(year, month) || l.Skipped(year, month) {
		return decimal.Zero
	}
	target := baseSalary.Mul(l.MonthlyPercent).Truncate(2)
	if l.Remaining.LessThan(target) {
		return l.Remaining
	}
	return target
}

type LoanService struct {
	loanRepo     loan.LoanRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewLoanService(loanRepo loan.LoanRepository, employeeRepo employee.EmployeeRepository) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Create validates the principal against the salary cap and stores the loan.
func (s *LoanService) Create(ctx context.Context, req loan.CreateLoanRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	monthlyPercent := defaultMonthlyPercent
	if req.MonthlyPercent != nil {
		monthlyPercent = *req.MonthlyPercent
	}
	capMultiple := defaultCapMultiple
	if req.CapMultiple != nil {
		capMultiple = *req.CapMultiple
	}

	if req.Principal.GreaterThan(emp.BaseSalary.Mul(capMultiple)) {
		return loan.LoanResponse{}, loan.ErrLoanExceedsCap
	}

	created, err := s.loanRepo.Create(ctx, loan.Loan{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		Principal:      req.Principal,
		Remaining:      req.Principal,
		StartYear:      req.StartYear,
		StartMonth:     req.StartMonth,
		MonthlyPercent: monthlyPercent,
		CapMultiple:    capMultiple,
		SkipPeriods:    map[string]bool{},
	})
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return toResponse(created), nil
}

// Payoff deducts the given amount (the full remaining balance when nil),
// clamping at zero and closing the loan when it is reached. Amounts must be
// positive so the remaining balance only ever decreases. The write is
// version-checked; a stale version surfaces as loan.ErrStaleVersion.
func (s *LoanService) Payoff(ctx context.Context, id string, req loan.PayoffRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	debit := l.Remaining
	if req.Amount != nil {
		debit = *req.Amount
	}

	l.Remaining = l.Remaining.Sub(debit)
	if !l.Remaining.IsPositive() {
		l.Remaining = decimal.Zero
		l.Closed = true
	}

	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return toResponse(updated), nil
}

// SkipPeriod excludes one period from scheduled debits.
func (s *LoanService) SkipPeriod(ctx context.Context, id string, req loan.SkipPeriodRequest) (loan.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return loan.LoanResponse{}, err
	}

	l, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return loan.LoanResponse{}, err
	}

	if l.SkipPeriods == nil {
		l.SkipPeriods = map[string]bool{}
	}
	l.SkipPeriods[loan.PeriodKey(req.Year, req.Month)] = true

	updated, err := s.loanRepo.Update(ctx, l)
	if err != nil {
		return loan.LoanResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *LoanService) ListByEmployee(ctx context.Context, employeeID string) ([]loan.LoanResponse, error) {
	loans, err := s.loanRepo.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]loan.LoanResponse, 0, len(loans))
	for _, l := range loans {
		result = append(result, toResponse(l))
	}
	return result, nil
}

func toResponse(l loan.Loan) loan.LoanResponse {
	var skips []string
	for key := range l.SkipPeriods {
		skips = append(skips, key)
	}

	return loan.LoanResponse{
		ID:             l.ID,
		EmployeeID:     l.EmployeeID,
		Principal:      l.Principal,
		Remaining:      l.Remaining,
		StartYear:      l.StartYear,
		StartMonth:     l.StartMonth,
		MonthlyPercent: l.MonthlyPercent,
		SkipPeriods:    skips,
		Closed:         l.Closed,
	}
}
