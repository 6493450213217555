package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const bookColumns = `id, title, COALESCE(description, ''), author_id, category_id, total_copies, available_copies, created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.AuthorID, &b.CategoryID,
		&b.TotalCopies, &b.AvailableCopies, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) ListBooks(ctx context.Context, limit, offset int) ([]Book, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, total, rows.Err()
}

func (r *PostgresRepo) GetBook(ctx context.Context, id string) (Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx,
		`INSERT INTO books (title, description, author_id, category_id, total_copies, available_copies)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING `+bookColumns,
		nb.Title, nb.Description, nb.AuthorID, nb.CategoryID, nb.TotalCopies))
	if err != nil {
		if isPgErr(err, foreignKeyViolation) {
			return Book{}, ErrBadReference
		}
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) UpdateBook(ctx context.Context, id string, u BookUpdate) (Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx,
		`UPDATE books
		 SET title = $2, description = $3, author_id = $4, category_id = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+bookColumns,
		id, u.Title, u.Description, u.AuthorID, u.CategoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		if isPgErr(err, foreignKeyViolation) {
			return Book{}, ErrBadReference
		}
		return Book{}, fmt.Errorf("update book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) DeleteBook(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if isPgErr(err, foreignKeyViolation) {
			return ErrReferenced
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(bio, '') FROM authors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, name, bio string) (Author, error) {
	var a Author
	err := r.db.QueryRow(ctx,
		`INSERT INTO authors (name, bio) VALUES ($1, $2) RETURNING id, name, COALESCE(bio, '')`,
		name, bio).Scan(&a.ID, &a.Name, &a.Bio)
	if err != nil {
		return Author{}, fmt.Errorf("insert author: %w", err)
	}
	return a, nil
}

func (r *PostgresRepo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepo) CreateCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`,
		name).Scan(&c.ID, &c.Name)
	if err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
