package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, email, role, penalty_points, created_at, updated_at
		 FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.PenaltyPoints, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetPenaltySummary(ctx context.Context, id string) (PenaltySummary, error) {
	var p PenaltySummary
	err := r.db.QueryRow(ctx,
		`SELECT id, username, penalty_points FROM users WHERE id = $1`,
		id).Scan(&p.ID, &p.Username, &p.PenaltyPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PenaltySummary{}, ErrNotFound
		}
		return PenaltySummary{}, err
	}
	return p, nil
}
