package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListBooks(ctx context.Context, limit, offset int) ([]Book, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Book), args.Int(1), args.Error(2)
}

func (m *mockRepo) GetBook(ctx context.Context, id string) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) CreateBook(ctx context.Context, b NewBook) (Book, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) UpdateBook(ctx context.Context, id string, u BookUpdate) (Book, error) {
	args := m.Called(ctx, id, u)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) DeleteBook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Author), args.Error(1)
}

func (m *mockRepo) CreateAuthor(ctx context.Context, name, bio string) (Author, error) {
	args := m.Called(ctx, name, bio)
	return args.Get(0).(Author), args.Error(1)
}

func (m *mockRepo) ListCategories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *mockRepo) CreateCategory(ctx context.Context, name string) (Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Category), args.Error(1)
}

const (
	testAuthorID   = "3f0cb9a4-6c3e-4b57-9f3e-2f37ae2f61a0"
	testCategoryID = "a20a9c7b-4a41-40f1-8e11-0a0f2b5a6f9a"
	testBookID     = "7b6e0d2e-94be-4dd3-91c7-3f5d3a6e8b01"
)

func asAdmin(r *http.Request) *http.Request {
	return r.WithContext(httpx.ContextWithUser(context.Background(), "admin-user", "ADMIN"))
}

func asUser(r *http.Request) *http.Request {
	return r.WithContext(httpx.ContextWithUser(context.Background(), "plain-user", "USER"))
}

func TestHTTPHandler_GetBook(t *testing.T) {
	repo := new(mockRepo)
	handler := NewHTTPHandler(NewService(repo))

	t.Run("found with copy counters", func(t *testing.T) {
		repo.On("GetBook", mock.Anything, testBookID).
			Return(Book{ID: testBookID, Title: "Dune", TotalCopies: 2, AvailableCopies: 1}, nil).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.GetBook(w, r)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "Dune", data["title"])
		assert.Equal(t, float64(2), data["total_copies"])
		assert.Equal(t, float64(1), data["available_copies"])
	})

	t.Run("missing", func(t *testing.T) {
		repo.On("GetBook", mock.Anything, testBookID).Return(Book{}, ErrNotFound).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.GetBook(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	repo.AssertExpectations(t)
}

func TestHTTPHandler_CreateBook(t *testing.T) {
	validBody := map[string]interface{}{
		"title":        "Dune",
		"author_id":    testAuthorID,
		"category_id":  testCategoryID,
		"total_copies": 4,
	}

	t.Run("admin creates book, available starts at total", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		repo.On("CreateBook", mock.Anything, NewBook{
			Title:       "Dune",
			AuthorID:    testAuthorID,
			CategoryID:  testCategoryID,
			TotalCopies: 4,
		}).Return(Book{ID: testBookID, Title: "Dune", TotalCopies: 4, AvailableCopies: 4}, nil).Once()

		b, _ := json.Marshal(validBody)
		w := httptest.NewRecorder()
		r := asAdmin(httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewReader(b)))

		handler.CreateBook(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		b, _ := json.Marshal(validBody)
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewReader(b)))

		handler.CreateBook(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown author is a bad reference", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("CreateBook", mock.Anything, mock.Anything).Return(Book{}, ErrBadReference).Once()

		b, _ := json.Marshal(validBody)
		w := httptest.NewRecorder()
		r := asAdmin(httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewReader(b)))

		handler.CreateBook(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		b, _ := json.Marshal(map[string]interface{}{
			"author_id":   testAuthorID,
			"category_id": testCategoryID,
		})
		w := httptest.NewRecorder()
		r := asAdmin(httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewReader(b)))

		handler.CreateBook(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_DeleteBook(t *testing.T) {
	t.Run("delete rejected while loans reference the book", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("DeleteBook", mock.Anything, testBookID).Return(ErrReferenced).Once()

		w := httptest.NewRecorder()
		r := asAdmin(httptest.NewRequest(http.MethodDelete, "/v1/books/"+testBookID, nil))
		r.SetPathValue("id", testBookID)

		handler.DeleteBook(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		repo.AssertExpectations(t)
	})

	t.Run("delete succeeds", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("DeleteBook", mock.Anything, testBookID).Return(nil).Once()

		w := httptest.NewRecorder()
		r := asAdmin(httptest.NewRequest(http.MethodDelete, "/v1/books/"+testBookID, nil))
		r.SetPathValue("id", testBookID)

		handler.DeleteBook(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHTTPHandler_Authors(t *testing.T) {
	t.Run("list is public", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))
		repo.On("ListAuthors", mock.Anything).
			Return([]Author{{ID: testAuthorID, Name: "Frank Herbert"}}, nil).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/authors", nil)

		handler.ListAuthors(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create is admin only", func(t *testing.T) {
		repo := new(mockRepo)
		handler := NewHTTPHandler(NewService(repo))

		b, _ := json.Marshal(map[string]string{"name": "Frank Herbert"})
		w := httptest.NewRecorder()
		r := asUser(httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewReader(b)))

		handler.CreateAuthor(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
