package server

import (
	"net/http"
	"time"

	"github.com/finch-money/finch/internal/common"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig returns the non-secret runtime configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	advisorEnabled := s.app.AdvisorClient != nil

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"display_currency":  common.ResolveCurrency(r.Context(), s.app.Config.DisplayCurrency),
		"storage_driver":    s.app.Config.Storage.Driver,
		"storage_data_path": s.app.Config.Storage.DataPath,
		"advisor_enabled":   advisorEnabled,
		"uptime":            time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}
