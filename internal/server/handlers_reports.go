package server

import (
	"net/http"
	"strconv"
)

// handleReportSummary handles GET /api/reports/summary.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	filter, err := parseTransactionFilter(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	summary, err := s.app.ReportService.Summary(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleReportByCategory handles GET /api/reports/by-category. With
// ?chart=png the response is a rendered PNG instead of JSON rows.
func (s *Server) handleReportByCategory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	filter, err := parseTransactionFilter(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if r.URL.Query().Get("chart") == "png" {
		png, err := s.app.ReportService.RenderCategoryChart(r.Context(), filter)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.WriteHeader(http.StatusOK)
		w.Write(png)
		return
	}

	rows, err := s.app.ReportService.ByCategory(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

// handleReportByAccount handles GET /api/reports/by-account.
func (s *Server) handleReportByAccount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	filter, err := parseTransactionFilter(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rows, err := s.app.ReportService.ByAccount(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}

// handleReportByTime handles GET /api/reports/by-time?bucket=day|week|month.
func (s *Server) handleReportByTime(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	filter, err := parseTransactionFilter(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rows, err := s.app.ReportService.ByTimeBucket(r.Context(), filter, r.URL.Query().Get("bucket"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}
