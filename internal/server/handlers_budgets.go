package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/models"
)

// budgetRequest carries budget create/update fields. Amount is a decimal
// string; dates accept RFC 3339 or bare 2006-01-02.
type budgetRequest struct {
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	CategoryID string `json:"category_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (req *budgetRequest) toBudget(w http.ResponseWriter) (models.Budget, bool) {
	var b models.Budget

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return b, false
	}

	var start, end time.Time
	if strings.TrimSpace(req.StartDate) != "" {
		if start, err = parseDate(req.StartDate); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid start_date: "+req.StartDate)
			return b, false
		}
	}
	if strings.TrimSpace(req.EndDate) != "" {
		if end, err = parseDate(req.EndDate); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid end_date: "+req.EndDate)
			return b, false
		}
		// A bare end date keeps the budget active through the whole day.
		if len(strings.TrimSpace(req.EndDate)) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}

	return models.Budget{
		Name:       req.Name,
		Amount:     amount,
		CategoryID: req.CategoryID,
		StartDate:  start,
		EndDate:    end,
	}, true
}

// handleBudgets handles GET (list with per-budget progress) and POST
// (create) on /api/budgets.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.app.BudgetService.List(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}

		type budgetWithProgress struct {
			models.Budget
			Progress *models.BudgetProgress `json:"progress,omitempty"`
		}
		rows := make([]budgetWithProgress, 0, len(budgets))
		for _, b := range budgets {
			row := budgetWithProgress{Budget: b}
			if progress, err := s.app.BudgetService.Progress(r.Context(), b.ID); err == nil {
				row.Progress = progress
			}
			rows = append(rows, row)
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": rows})

	case http.MethodPost:
		var req budgetRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		b, ok := req.toBudget(w)
		if !ok {
			return
		}
		created, err := s.app.BudgetService.Create(r.Context(), b)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeBudgets dispatches /api/budgets/{id} and /api/budgets/{id}/progress.
func (s *Server) routeBudgets(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/budgets/")

	if strings.HasSuffix(path, "/progress") {
		id := strings.TrimSuffix(path, "/progress")
		s.handleBudgetProgress(w, r, id)
		return
	}

	id := strings.TrimSuffix(path, "/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.app.BudgetService.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, b)

	case http.MethodPut:
		var req budgetRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		b, ok := req.toBudget(w)
		if !ok {
			return
		}
		b.ID = id
		updated, err := s.app.BudgetService.Update(r.Context(), b)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.BudgetService.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleBudgetProgress handles GET /api/budgets/{id}/progress.
func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	progress, err := s.app.BudgetService.Progress(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, progress)
}
