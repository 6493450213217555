package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// lockNotAvailable is the SQLSTATE Postgres raises when lock_timeout
// expires while waiting for a row lock.
const lockNotAvailable = "55P03"

type PostgresRepo struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, lockTimeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, lockTimeout: lockTimeout}
}

const loanColumns = `id, user_id, book_id, borrow_date, due_date, return_date`

func (r *PostgresRepo) BookExists(ctx context.Context, bookID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`,
		bookID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) CountActiveLoans(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE user_id = $1 AND return_date IS NULL`,
		userID).Scan(&count)
	return count, err
}

func (r *PostgresRepo) CreateLoan(ctx context.Context, userID, bookID string, borrowDate, dueDate time.Time) (Loan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(ctx)

	if err := r.setLockTimeout(ctx, tx); err != nil {
		return Loan{}, err
	}

	var available int
	err = tx.QueryRow(ctx,
		`SELECT available_copies FROM books WHERE id = $1 FOR UPDATE`,
		bookID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, mapLockErr(err)
	}
	if available <= 0 {
		return Loan{}, ErrOutOfStock
	}

	if _, err := tx.Exec(ctx,
		`UPDATE books SET available_copies = available_copies - 1 WHERE id = $1`,
		bookID); err != nil {
		return Loan{}, fmt.Errorf("decrement copies: %w", err)
	}

	var loan Loan
	err = tx.QueryRow(ctx,
		`INSERT INTO loans (user_id, book_id, borrow_date, due_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+loanColumns,
		userID, bookID, borrowDate, dueDate).Scan(
		&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowDate, &loan.DueDate, &loan.ReturnDate)
	if err != nil {
		return Loan{}, fmt.Errorf("insert loan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

func (r *PostgresRepo) CloseLoan(ctx context.Context, userID, loanID string, returnDate time.Time) (Loan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(ctx)

	if err := r.setLockTimeout(ctx, tx); err != nil {
		return Loan{}, err
	}

	var loan Loan
	err = tx.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		loanID, userID).Scan(
		&loan.ID, &loan.UserID, &loan.BookID, &loan.BorrowDate, &loan.DueDate, &loan.ReturnDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNotFound
		}
		return Loan{}, mapLockErr(err)
	}
	if loan.ReturnDate != nil {
		return Loan{}, ErrAlreadyReturned
	}

	// Lock order is loan row then book row on every path, so concurrent
	// returns cannot deadlock against each other.
	var available, total int
	err = tx.QueryRow(ctx,
		`SELECT available_copies, total_copies FROM books WHERE id = $1 FOR UPDATE`,
		loan.BookID).Scan(&available, &total)
	if err != nil {
		return Loan{}, mapLockErr(err)
	}
	if available >= total {
		return Loan{}, ErrInvariantViolation
	}

	if _, err := tx.Exec(ctx,
		`UPDATE books SET available_copies = available_copies + 1 WHERE id = $1`,
		loan.BookID); err != nil {
		return Loan{}, fmt.Errorf("increment copies: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE loans SET return_date = $1 WHERE id = $2`,
		returnDate, loan.ID); err != nil {
		return Loan{}, fmt.Errorf("close loan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Loan{}, err
	}
	loan.ReturnDate = &returnDate
	return loan, nil
}

func (r *PostgresRepo) AddPenaltyPoints(ctx context.Context, userID string, delta int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET penalty_points = penalty_points + $1 WHERE id = $2`,
		delta, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListLoans(ctx context.Context, userID string, activeOnly bool) ([]Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1`
	if activeOnly {
		query += ` AND return_date IS NULL`
	}
	query += ` ORDER BY borrow_date DESC, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.BorrowDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *PostgresRepo) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds()))
	return err
}

func mapLockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return ErrBusy
	}
	return err
}
