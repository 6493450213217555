package lending

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for tests. One mutex guards all state,
// which gives every operation the same all-or-nothing semantics the
// Postgres implementation gets from row-locked transactions.
type memRepo struct {
	mu      sync.Mutex
	books   map[string]*memBook
	loans   map[string]*Loan
	penalty map[string]int
}

type memBook struct {
	total     int
	available int
}

func newMemRepo() *memRepo {
	return &memRepo{
		books:   make(map[string]*memBook),
		loans:   make(map[string]*Loan),
		penalty: make(map[string]int),
	}
}

func (r *memRepo) addBook(total, available int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.books[id] = &memBook{total: total, available: available}
	return id
}

func (r *memRepo) availableCopies(bookID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.books[bookID].available
}

func (r *memRepo) penaltyPoints(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.penalty[userID]
}

func (r *memRepo) BookExists(_ context.Context, bookID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.books[bookID]
	return ok, nil
}

func (r *memRepo) CountActiveLoans(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, l := range r.loans {
		if l.UserID == userID && l.ReturnDate == nil {
			count++
		}
	}
	return count, nil
}

func (r *memRepo) CreateLoan(_ context.Context, userID, bookID string, borrowDate, dueDate time.Time) (Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[bookID]
	if !ok {
		return Loan{}, ErrNotFound
	}
	if book.available <= 0 {
		return Loan{}, ErrOutOfStock
	}
	book.available--

	loan := Loan{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}
	r.loans[loan.ID] = &loan
	return loan, nil
}

func (r *memRepo) CloseLoan(_ context.Context, userID, loanID string, returnDate time.Time) (Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[loanID]
	if !ok || loan.UserID != userID {
		return Loan{}, ErrNotFound
	}
	if loan.ReturnDate != nil {
		return Loan{}, ErrAlreadyReturned
	}

	book := r.books[loan.BookID]
	if book.available >= book.total {
		return Loan{}, ErrInvariantViolation
	}
	book.available++

	loan.ReturnDate = &returnDate
	return *loan, nil
}

func (r *memRepo) AddPenaltyPoints(_ context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.penalty[userID] += delta
	return nil
}

func (r *memRepo) ListLoans(_ context.Context, userID string, activeOnly bool) ([]Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loans []Loan
	for _, l := range r.loans {
		if l.UserID != userID {
			continue
		}
		if activeOnly && l.ReturnDate != nil {
			continue
		}
		loans = append(loans, *l)
	}
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowDate.After(loans[j].BorrowDate)
	})
	return loans, nil
}

// stepClock is a settable clock for walking scenarios through time.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
