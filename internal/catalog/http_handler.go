package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if httpx.RoleFrom(r) != "ADMIN" {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return false
	}
	return true
}

type createBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	AuthorID    string `json:"author_id" validate:"required,uuid"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	TotalCopies int    `json:"total_copies" validate:"gte=0"`
}

type updateBookRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	AuthorID    string `json:"author_id" validate:"required,uuid"`
	CategoryID  string `json:"category_id" validate:"required,uuid"`
}

type createAuthorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Bio  string `json:"bio"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ListBooks handles GET /v1/books
func (h *HTTPHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := h.svc.ListBooks(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetBook handles GET /v1/books/{id}
func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// CreateBook handles POST /v1/books (admin)
func (h *HTTPHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var input createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	book, err := h.svc.CreateBook(r.Context(), NewBook{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    input.AuthorID,
		CategoryID:  input.CategoryID,
		TotalCopies: input.TotalCopies,
	})
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, book)
}

// UpdateBook handles PUT /v1/books/{id} (admin)
func (h *HTTPHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")

	var input updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	book, err := h.svc.UpdateBook(r.Context(), id, BookUpdate{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    input.AuthorID,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, book, nil)
}

// DeleteBook handles DELETE /v1/books/{id} (admin)
func (h *HTTPHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")

	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		writeCatalogError(w, r, err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}

// ListAuthors handles GET /v1/authors
func (h *HTTPHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.svc.ListAuthors(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, authors, nil)
}

// CreateAuthor handles POST /v1/authors (admin)
func (h *HTTPHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var input createAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	author, err := h.svc.CreateAuthor(r.Context(), input.Name, input.Bio)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, author)
}

// ListCategories handles GET /v1/categories
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, categories, nil)
}

// CreateCategory handles POST /v1/categories (admin)
func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	var input createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), input.Name)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(w, r, category)
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrBadReference):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REFERENCE", "Author or category does not exist", nil)
	case errors.Is(err, ErrReferenced):
		httpx.JSONError(w, r, http.StatusConflict, "REFERENCED", "Book has loan records and cannot be deleted", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
