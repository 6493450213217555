package catalog

import (
	"context"
)

// Repository defines the contract for catalog storage.
type Repository interface {
	ListBooks(ctx context.Context, limit, offset int) ([]Book, int, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, b NewBook) (Book, error)
	UpdateBook(ctx context.Context, id string, u BookUpdate) (Book, error)
	DeleteBook(ctx context.Context, id string) error

	ListAuthors(ctx context.Context) ([]Author, error)
	CreateAuthor(ctx context.Context, name, bio string) (Author, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
}
