package catalog

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book, author or category is missing.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrReferenced is returned when a delete is rejected because other
	// records still reference the entry.
	ErrReferenced = errors.New("catalog entry is still referenced")
	// ErrBadReference is returned when a book names an author or category
	// that does not exist.
	ErrBadReference = errors.New("author or category does not exist")
)

// Book is a catalog title together with its copy counters. TotalCopies is
// fixed at catalog time; AvailableCopies moves only through the lending
// ledger, never through catalog edits.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	AuthorID        string    `json:"author_id"`
	CategoryID      string    `json:"category_id"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewBook is the input for creating a catalog entry.
type NewBook struct {
	Title       string
	Description string
	AuthorID    string
	CategoryID  string
	TotalCopies int
}

// BookUpdate carries the fields a catalog edit may change. Copy counters
// are deliberately absent.
type BookUpdate struct {
	Title       string
	Description string
	AuthorID    string
	CategoryID  string
}
