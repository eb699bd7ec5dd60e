package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps service error types to HTTP status codes.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *models.ValidationError:
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: e.Error(), Code: "validation"})
	case *models.NotFoundError:
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: e.Error(), Code: "not_found"})
	case *models.ConflictError:
		WriteJSON(w, http.StatusConflict, ErrorResponse{Error: e.Error(), Code: "conflict"})
	case *models.InsufficientFundsError:
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: e.Error(), Code: "insufficient_funds"})
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20) // snapshots can be large
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/accounts/{id}/transfer, calling
// PathParam(r, "/api/accounts/", "/transfer") extracts the {id} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	return strings.TrimSuffix(rest, "/")
}

// parseTransactionFilter builds a TransactionFilter from query parameters:
// type, category_id, account_id, from, to (RFC 3339 or 2006-01-02),
// include_in_reports, limit.
func parseTransactionFilter(r *http.Request) (interfaces.TransactionFilter, error) {
	q := r.URL.Query()
	var filter interfaces.TransactionFilter

	if v := q.Get("type"); v != "" {
		t := models.TransactionType(v)
		if !models.ValidTransactionType(t) {
			return filter, models.NewValidationError("invalid type %q; must be income or expense", v)
		}
		filter.Type = t
	}
	filter.CategoryID = q.Get("category_id")
	filter.AccountID = q.Get("account_id")

	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, models.NewValidationError("invalid from date %q", v)
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, models.NewValidationError("invalid to date %q", v)
		}
		// A bare date upper bound covers the whole day.
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &t
	}
	if v := q.Get("include_in_reports"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, models.NewValidationError("invalid include_in_reports %q", v)
		}
		filter.IncludeInReports = &b
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, models.NewValidationError("invalid limit %q", v)
		}
		filter.Limit = n
	}
	return filter, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
