package server

import (
	"net/http"
	"strconv"

	"github.com/finch-money/finch/internal/models"
)

// handleExport handles GET /api/export: the full user snapshot as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	snap, err := s.app.BackupService.Export(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="finch-export.json"`)
	WriteJSON(w, http.StatusOK, snap)
}

// handleImport handles POST /api/import?recalculate=true|false.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	recalculate := false
	if v := r.URL.Query().Get("recalculate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid recalculate value: "+v)
			return
		}
		recalculate = b
	}

	var snap models.Snapshot
	if !DecodeJSON(w, r, &snap) {
		return
	}

	if recalculate {
		// Rebuilding from history discards imported opening balances.
		s.logger.Warn().Msg("Import with recalculation; balances will be rebuilt from transaction records")
	}

	if err := s.app.BackupService.Import(r.Context(), &snap, recalculate); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imported":    true,
		"recalculate": recalculate,
	})
}
