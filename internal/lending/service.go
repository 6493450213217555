package lending

import (
	"context"
	"log"

	"libraryapi/internal/platform/clock"
)

// Service is the lending ledger: it decides whether a borrow may proceed,
// drives the atomic inventory mutations, and accrues penalty points on late
// returns.
type Service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// Borrow rejects unknown books, then checks the caller's active-loan count
// against MaxActiveLoans, then checks out one available copy and records
// the loan. The checks are ordered: a capped user probing a missing title
// sees ErrNotFound, not ErrLimitExceeded.
//
// The existence and limit checks read committed state outside the inventory
// row lock, so a user firing several borrows in the same instant can
// transiently exceed the cap by the number of in-flight requests. The
// inventory counter itself can never oversell: existence and availability
// are re-checked under the row lock.
func (s *Service) Borrow(ctx context.Context, userID, bookID string) (Loan, error) {
	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return Loan{}, err
	}
	if !exists {
		return Loan{}, ErrNotFound
	}

	active, err := s.repo.CountActiveLoans(ctx, userID)
	if err != nil {
		return Loan{}, err
	}
	if active >= MaxActiveLoans {
		return Loan{}, ErrLimitExceeded
	}

	now := s.clock.Now()
	return s.repo.CreateLoan(ctx, userID, bookID, now, now.AddDate(0, 0, LoanPeriodDays))
}

// Return closes the loan, releases its copy back to inventory, and adds one
// penalty point per whole day the return is late.
func (s *Service) Return(ctx context.Context, userID, loanID string) (Loan, error) {
	loan, err := s.repo.CloseLoan(ctx, userID, loanID, s.clock.Now())
	if err != nil {
		return Loan{}, err
	}

	if late := LateDays(loan.DueDate, *loan.ReturnDate); late > 0 {
		if err := s.repo.AddPenaltyPoints(ctx, userID, late); err != nil {
			// The return has already committed; failing now would only
			// send the caller into a retry that ends in AlreadyReturned.
			log.Printf("penalty accrual failed: loan_id=%s user_id=%s late_days=%d err=%v",
				loan.ID, userID, late, err)
		}
	}
	return loan, nil
}

// Loans returns the caller's loan history, optionally active loans only.
func (s *Service) Loans(ctx context.Context, userID string, activeOnly bool) ([]Loan, error) {
	return s.repo.ListLoans(ctx, userID, activeOnly)
}
