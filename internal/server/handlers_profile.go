package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// handleProfile handles GET and PUT /api/profile: the user's identity fields
// plus display settings.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleProfileGet(w, r)
	case http.MethodPut:
		s.handleProfileUpdate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	settingsRepo := repos.NewSettingsRepo(s.app.Storage.UserDataStore())
	settings, err := settingsRepo.Get(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"settings": settings}
	if user, err := s.app.Storage.InternalStore().GetUser(r.Context(), userID); err == nil {
		resp["user"] = toUserResponse(user)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())

	var req struct {
		Name     string           `json:"name"`
		Email    string           `json:"email"`
		Settings *models.Settings `json:"settings"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	store := s.app.Storage.InternalStore()
	if user, err := store.GetUser(r.Context(), userID); err == nil {
		changed := false
		if name := strings.TrimSpace(req.Name); name != "" && name != user.Name {
			user.Name = name
			changed = true
		}
		if email := strings.TrimSpace(req.Email); email != "" && email != user.Email {
			user.Email = email
			changed = true
		}
		if changed {
			user.ModifiedAt = time.Now()
			if err := store.SaveUser(r.Context(), user); err != nil {
				s.logger.Error().Err(err).Msg("Failed to save user")
				WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
		}
	}

	if req.Settings != nil {
		currency := strings.ToUpper(strings.TrimSpace(req.Settings.Currency))
		if len(currency) != 3 {
			WriteError(w, http.StatusBadRequest, "currency must be a 3-letter ISO code")
			return
		}
		req.Settings.Currency = currency
		settingsRepo := repos.NewSettingsRepo(s.app.Storage.UserDataStore())
		if err := settingsRepo.Save(r.Context(), userID, req.Settings); err != nil {
			WriteServiceError(w, err)
			return
		}
	}

	s.handleProfileGet(w, r)
}
