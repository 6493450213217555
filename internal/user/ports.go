package user

import (
	"context"
)

// Repository defines the contract for user storage. Penalty points are
// read-only here; they are mutated only through the lending ledger.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetPenaltySummary(ctx context.Context, id string) (PenaltySummary, error)
}
