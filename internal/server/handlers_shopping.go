package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/models"
)

// shoppingItemRequest carries shopping item create/update fields.
type shoppingItemRequest struct {
	Name       string          `json:"name"`
	Amount     string          `json:"amount"`
	Date       string          `json:"date"`
	AccountID  string          `json:"account_id"`
	CategoryID string          `json:"category_id"`
	Notes      string          `json:"notes"`
	Priority   models.Priority `json:"priority"`
}

func (req *shoppingItemRequest) toItem(w http.ResponseWriter) (models.ShoppingItem, bool) {
	var item models.ShoppingItem

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return item, false
	}

	var date *time.Time
	if strings.TrimSpace(req.Date) != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid date: "+req.Date)
			return item, false
		}
		date = &d
	}

	return models.ShoppingItem{
		Name:       req.Name,
		Amount:     amount,
		Date:       date,
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Notes:      req.Notes,
		Priority:   req.Priority,
	}, true
}

// handleShopping handles GET (list, ?sort=priority|date|amount) and POST
// (create) on /api/shopping.
func (s *Server) handleShopping(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.app.ShoppingService.List(r.Context(), r.URL.Query().Get("sort"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})

	case http.MethodPost:
		var req shoppingItemRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		item, ok := req.toItem(w)
		if !ok {
			return
		}
		created, err := s.app.ShoppingService.Create(r.Context(), item)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeShopping dispatches /api/shopping/{id} and /api/shopping/{id}/convert.
func (s *Server) routeShopping(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/shopping/")

	if strings.HasSuffix(path, "/convert") {
		id := strings.TrimSuffix(path, "/convert")
		s.handleShoppingConvert(w, r, id)
		return
	}

	id := strings.TrimSuffix(path, "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := s.app.ShoppingService.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, item)

	case http.MethodPut:
		var req shoppingItemRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		item, ok := req.toItem(w)
		if !ok {
			return
		}
		item.ID = id
		updated, err := s.app.ShoppingService.Update(r.Context(), item)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.ShoppingService.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleShoppingConvert handles POST /api/shopping/{id}/convert: post the
// item as an expense and remove it from the list.
func (s *Server) handleShoppingConvert(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	txn, err := s.app.ShoppingService.Convert(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, txn)
}
