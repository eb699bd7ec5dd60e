package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/models"
)

// transactionRequest carries caller-supplied transaction fields. Amount is a
// decimal string; include_in_reports defaults to true when omitted.
type transactionRequest struct {
	Type             models.TransactionType `json:"type"`
	Description      string                 `json:"description"`
	Amount           string                 `json:"amount"`
	Date             string                 `json:"date"`
	AccountID        string                 `json:"account_id"`
	CategoryID       string                 `json:"category_id"`
	IncludeInReports *bool                  `json:"include_in_reports"`
	Notes            string                 `json:"notes"`
}

func (req *transactionRequest) toNewTransaction(w http.ResponseWriter) (models.NewTransaction, bool) {
	var tx models.NewTransaction

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return tx, false
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid date: "+req.Date)
			return tx, false
		}
	}

	included := true
	if req.IncludeInReports != nil {
		included = *req.IncludeInReports
	}

	return models.NewTransaction{
		Type:             req.Type,
		Description:      req.Description,
		Amount:           amount,
		Date:             date,
		AccountID:        req.AccountID,
		CategoryID:       req.CategoryID,
		IncludeInReports: included,
		Notes:            req.Notes,
	}, true
}

// handleTransactions handles GET (list with filters) and POST (post a new
// transaction) on /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := parseTransactionFilter(r)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		txns, err := s.app.LedgerService.ListTransactions(r.Context(), filter)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": txns,
			"count":        len(txns),
		})

	case http.MethodPost:
		var req transactionRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		tx, ok := req.toNewTransaction(w)
		if !ok {
			return
		}
		txn, err := s.app.LedgerService.PostTransaction(r.Context(), tx)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, txn)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTransactionByID handles GET, PUT, DELETE on /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/transactions/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		txn, err := s.app.LedgerService.GetTransaction(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, txn)

	case http.MethodPut:
		var req transactionRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		tx, ok := req.toNewTransaction(w)
		if !ok {
			return
		}
		txn, err := s.app.LedgerService.UpdateTransaction(r.Context(), id, tx)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, txn)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteTransaction(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
