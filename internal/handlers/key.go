package handlers

import (
	"KeyVault/internal/middleware"
	"KeyVault/internal/model"
	"KeyVault/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addKeyRequest struct {
	Name        string        `json:"name"`
	Label       string        `json:"key"`
	Value       string        `json:"value"`
	Type        model.KeyType `json:"type"`
	Description string        `json:"description"`
}

type updateKeyRequest struct {
	Name        *string        `json:"name"`
	Label       *string        `json:"key"`
	Value       *string        `json:"value"`
	Type        *model.KeyType `json:"type"`
	Description *string        `json:"description"`
}

// ListKeys — ключи проекта с расшифрованными значениями.
func (h *ProjectHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.ProjectService.ListKeys(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "ListKeys", err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (h *ProjectHandler) AddKey(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "AddKey", service.ErrUnauthorized)
		return
	}
	var req addKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "AddKey", err)
		return
	}
	k, err := h.ProjectService.AddKey(r.Context(), actor, chi.URLParam(r, "id"), service.NewKey{
		Name:        req.Name,
		Label:       req.Label,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.Logger, "AddKey", err)
		return
	}
	writeJSON(w, http.StatusCreated, k)
}

func (h *ProjectHandler) UpdateKey(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "UpdateKey", service.ErrUnauthorized)
		return
	}
	var req updateKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "UpdateKey", err)
		return
	}
	k, err := h.ProjectService.UpdateKey(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "keyID"), service.KeyUpdate{
		Name:        req.Name,
		Label:       req.Label,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.Logger, "UpdateKey", err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (h *ProjectHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	err := h.ProjectService.DeleteKey(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "keyID"))
	if err != nil {
		writeError(w, h.Logger, "DeleteKey", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
