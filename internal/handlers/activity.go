package handlers

import (
	"KeyVault/internal/middleware"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Activity — журнал проекта.
func (h *ProjectHandler) Activity(w http.ResponseWriter, r *http.Request) {
	acts, err := h.ProjectService.ListActivity(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Activity", err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

// RecentActivity — последние действия пользователя, ?limit=N.
func (h *ProjectHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.ProjectService.RecentActivity(r.Context(), middleware.GetUserFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, h.Logger, "RecentActivity", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
