package lending

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type borrowRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
}

type returnRequest struct {
	LoanID string `json:"loan_id" validate:"required,uuid"`
}

// Borrow handles POST /v1/borrow
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var input borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	loan, err := h.svc.Borrow(r.Context(), userID, input.BookID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, loan)
}

// Return handles POST /v1/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var input returnRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	loan, err := h.svc.Return(r.Context(), userID, input.LoanID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, loan, nil)
}

// ListLoans handles GET /v1/loans
func (h *HTTPHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	loans, err := h.svc.Loans(r.Context(), userID, activeOnly)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if loans == nil {
		loans = []Loan{}
	}

	httpx.JSONSuccess(w, r, loans, map[string]interface{}{
		"count":       len(loans),
		"active_only": activeOnly,
	})
}

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book or loan not found", nil)
	case errors.Is(err, ErrLimitExceeded):
		httpx.JSONError(w, r, http.StatusConflict, "LOAN_LIMIT_EXCEEDED", "You cannot borrow more than 3 books at a time", nil)
	case errors.Is(err, ErrOutOfStock):
		httpx.JSONError(w, r, http.StatusConflict, "OUT_OF_STOCK", "No available copies of the book", nil)
	case errors.Is(err, ErrAlreadyReturned):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_RETURNED", "This book is already returned", nil)
	case errors.Is(err, ErrBusy):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "BUSY", "Inventory is busy, please retry", nil)
	case errors.Is(err, ErrInvariantViolation):
		log.Printf("inventory invariant violated: request_id=%s err=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
