package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"` // USER, ADMIN
	PenaltyPoints int       `json:"penalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PenaltySummary is the admin view of a user's accumulated penalty points.
type PenaltySummary struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PenaltyPoints int    `json:"penalty_points"`
}
