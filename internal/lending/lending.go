package lending

import (
	"errors"
	"time"
)

const (
	// MaxActiveLoans is the number of open loans a user may hold at once.
	MaxActiveLoans = 3
	// LoanPeriodDays is the fixed loan period used to compute due dates.
	LoanPeriodDays = 14
)

var (
	// ErrNotFound is returned when the book or loan does not exist, or the
	// loan is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrLimitExceeded is returned when the caller already holds
	// MaxActiveLoans open loans.
	ErrLimitExceeded = errors.New("active loan limit reached")
	// ErrOutOfStock is returned when the book has no available copies.
	ErrOutOfStock = errors.New("no available copies")
	// ErrAlreadyReturned is returned on a second return of the same loan.
	ErrAlreadyReturned = errors.New("loan already returned")
	// ErrBusy is returned when the inventory row lock could not be acquired
	// within the configured bound. The failed attempt has no side effects
	// and the caller may retry.
	ErrBusy = errors.New("inventory busy")
	// ErrInvariantViolation signals that a return would push available
	// copies past total copies. It indicates a logic defect, never a
	// user-triggerable condition.
	ErrInvariantViolation = errors.New("available copies would exceed total copies")
)

// Loan is one borrow transaction: who borrowed what, when it is due and
// when it came back. A nil ReturnDate means the loan is active. Closed
// loans are terminal; records are never deleted.
type Loan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
}

// Active reports whether the loan is still open.
func (l Loan) Active() bool { return l.ReturnDate == nil }
