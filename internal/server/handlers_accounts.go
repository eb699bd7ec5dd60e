package server

import (
	"net/http"
	"strings"

	"github.com/finch-money/finch/internal/models"
)

// accountRequest carries account create/update fields. Balance is a decimal
// string ("125.50") to keep cent precision out of float JSON.
type accountRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
	Icon    string `json:"icon"`
}

func (req *accountRequest) balance(w http.ResponseWriter) (models.Money, bool) {
	if strings.TrimSpace(req.Balance) == "" {
		return 0, true
	}
	balance, err := models.ParseMoney(req.Balance)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid balance: "+err.Error())
		return 0, false
	}
	return balance, true
}

// handleAccounts handles GET (list) and POST (create) on /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.LedgerService.ListAccounts(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})

	case http.MethodPost:
		var req accountRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		balance, ok := req.balance(w)
		if !ok {
			return
		}
		account, err := s.app.LedgerService.CreateAccount(r.Context(), req.Name, balance, req.Icon)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeAccounts dispatches /api/accounts/{id} and its sub-resources.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/accounts/")

	// Collection-level actions first.
	switch path {
	case "transfer":
		s.handleTransfer(w, r)
		return
	case "recalculate":
		s.handleRecalculate(w, r)
		return
	}

	id := strings.TrimSuffix(path, "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		account, err := s.app.LedgerService.GetAccount(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodPut:
		var req accountRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		balance, ok := req.balance(w)
		if !ok {
			return
		}
		account, err := s.app.LedgerService.UpdateAccount(r.Context(), id, req.Name, balance, req.Icon)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteAccount(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleTransfer handles POST /api/accounts/transfer.
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FromAccountID string `json:"from_account_id"`
		ToAccountID   string `json:"to_account_id"`
		Amount        string `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	if err := s.app.LedgerService.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, amount); err != nil {
		WriteServiceError(w, err)
		return
	}

	accounts, err := s.app.LedgerService.ListAccounts(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// handleRecalculate handles POST /api/accounts/recalculate.
func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	balances, err := s.app.LedgerService.RecalculateBalances(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"balances": balances})
}
