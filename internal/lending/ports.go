package lending

import (
	"context"
	"time"
)

// Repository is the durable side of the ledger: loan records plus the
// inventory counters they mirror. CreateLoan and CloseLoan must be atomic
// with their inventory mutation; partial effects must never be observable.
type Repository interface {
	// BookExists reports whether the book is in the catalog, from
	// committed state.
	BookExists(ctx context.Context, bookID string) (bool, error)

	// CountActiveLoans reports the user's committed open-loan count.
	CountActiveLoans(ctx context.Context, userID string) (int, error)

	// CreateLoan decrements the book's available copies and inserts the
	// loan record in one unit of work, holding an exclusive lock on the
	// book's inventory row. Returns ErrNotFound, ErrOutOfStock or ErrBusy.
	CreateLoan(ctx context.Context, userID, bookID string, borrowDate, dueDate time.Time) (Loan, error)

	// CloseLoan sets the loan's return date and increments the book's
	// available copies in one unit of work. Returns ErrNotFound,
	// ErrAlreadyReturned, ErrBusy or ErrInvariantViolation.
	CloseLoan(ctx context.Context, userID, loanID string, returnDate time.Time) (Loan, error)

	// AddPenaltyPoints atomically adds delta to the user's penalty counter.
	AddPenaltyPoints(ctx context.Context, userID string, delta int) error

	// ListLoans returns the user's loans, newest first, optionally only the
	// active ones. Read-only, no locking.
	ListLoans(ctx context.Context, userID string, activeOnly bool) ([]Loan, error)
}
