package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/finch-money/finch/internal/interfaces"
)

// handleAdvice handles POST /api/advice. The user's question is grounded
// with their own aggregates before being sent to the advisor model.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.AdvisorClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "advisor is not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Question) > 2000 {
		WriteError(w, http.StatusBadRequest, "question exceeds 2000 characters")
		return
	}

	prompt, err := s.buildAdvicePrompt(r, req.Question)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	answer, err := s.app.AdvisorClient.Advise(r.Context(), prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Advisor request failed")
		WriteError(w, http.StatusBadGateway, "advisor request failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// buildAdvicePrompt assembles the user's financial aggregates and question.
func (s *Server) buildAdvicePrompt(r *http.Request, question string) (string, error) {
	summary, err := s.app.ReportService.Summary(r.Context(), interfaces.TransactionFilter{})
	if err != nil {
		return "", err
	}
	byCategory, err := s.app.ReportService.ByCategory(r.Context(), interfaces.TransactionFilter{})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Currency: %s\n", summary.Currency)
	fmt.Fprintf(&sb, "Total balance: %s\n", summary.TotalBalance)
	fmt.Fprintf(&sb, "Total income: %s\n", summary.TotalIncome)
	fmt.Fprintf(&sb, "Total expenses: %s\n", summary.TotalExpense)
	fmt.Fprintf(&sb, "Transactions: %d\n", summary.Count)

	if len(byCategory) > 0 {
		sb.WriteString("\nTotals by category:\n")
		for _, row := range byCategory {
			fmt.Fprintf(&sb, "- %s: %s\n", row.Name, row.Total)
		}
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String(), nil
}
