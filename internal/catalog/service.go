package catalog

import (
	"context"
)

// Service provides catalog business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListBooks(ctx context.Context, limit, offset int) ([]Book, int, error) {
	return s.repo.ListBooks(ctx, limit, offset)
}

// GetBook returns a book together with its copy counters.
func (s *Service) GetBook(ctx context.Context, id string) (Book, error) {
	return s.repo.GetBook(ctx, id)
}

// CreateBook registers a title; available copies start equal to total.
func (s *Service) CreateBook(ctx context.Context, b NewBook) (Book, error) {
	return s.repo.CreateBook(ctx, b)
}

func (s *Service) UpdateBook(ctx context.Context, id string, u BookUpdate) (Book, error) {
	return s.repo.UpdateBook(ctx, id, u)
}

// DeleteBook removes a title. Deletion is rejected while loan records
// reference the book.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) CreateAuthor(ctx context.Context, name, bio string) (Author, error) {
	return s.repo.CreateAuthor(ctx, name, bio)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	return s.repo.CreateCategory(ctx, name)
}
