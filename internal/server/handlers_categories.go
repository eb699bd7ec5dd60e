package server

import (
	"net/http"

	"github.com/finch-money/finch/internal/models"
)

// handleCategories handles GET (list) and POST (create) on /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.app.CategoryService.List(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})

	case http.MethodPost:
		var c models.Category
		if !DecodeJSON(w, r, &c) {
			return
		}
		created, err := s.app.CategoryService.Create(r.Context(), c)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCategoryByID handles GET, PUT, DELETE on /api/categories/{id}.
func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/categories/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "category id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.app.CategoryService.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, c)

	case http.MethodPut:
		var c models.Category
		if !DecodeJSON(w, r, &c) {
			return
		}
		c.ID = id
		updated, err := s.app.CategoryService.Update(r.Context(), c)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.CategoryService.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
