package handlers

import (
	"KeyVault/internal/middleware"
	"KeyVault/internal/model"
	"KeyVault/internal/service"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProjectHandler — проекты, участники, ключи и журнал.
// Права проверяет сервис; хендлер только разбирает запрос и отдаёт ответ.
type ProjectHandler struct {
	ProjectService *service.ProjectService
	Logger         *zap.SugaredLogger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.SugaredLogger) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService, Logger: logger}
}

type createProjectRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Access      model.Access        `json:"access"`
	Status      model.ProjectStatus `json:"status"`
}

type updateProjectRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Access      *model.Access        `json:"access"`
	Status      *model.ProjectStatus `json:"status"`
}

type inviteRequest struct {
	Username string           `json:"username"`
	Role     model.MemberRole `json:"role"`
	Message  string           `json:"message"`
}

type roleRequest struct {
	Role model.MemberRole `json:"role"`
}

// List — проекты текущего пользователя.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.ProjectService.ListProjects(r.Context(), middleware.GetUserFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Logger, "ListProjects", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create — новый проект, владелец — текущий пользователь.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "CreateProject", service.ErrUnauthorized)
		return
	}
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "CreateProject", err)
		return
	}
	p, err := h.ProjectService.CreateProject(r.Context(), actor, service.NewProject{
		Name:        req.Name,
		Description: req.Description,
		Access:      req.Access,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, h.Logger, "CreateProject", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.ProjectService.GetProject(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetProject", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProjectHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "UpdateProject", service.ErrUnauthorized)
		return
	}
	var req updateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "UpdateProject", err)
		return
	}
	p, err := h.ProjectService.UpdateProjectSettings(r.Context(), actor, chi.URLParam(r, "id"), service.ProjectSettings{
		Name:        req.Name,
		Description: req.Description,
		Access:      req.Access,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, h.Logger, "UpdateProject", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.ProjectService.DeleteProject(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "DeleteProject", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Invite(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "Invite", service.ErrUnauthorized)
		return
	}
	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "Invite", err)
		return
	}
	m, err := h.ProjectService.InviteMember(r.Context(), actor, chi.URLParam(r, "id"), req.Username, req.Role, req.Message)
	if err != nil {
		writeError(w, h.Logger, "Invite", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ProjectHandler) Leave(w http.ResponseWriter, r *http.Request) {
	err := h.ProjectService.LeaveProject(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Leave", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, h.Logger, "RemoveMember", err)
		return
	}
	err = h.ProjectService.RemoveMember(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"), memberID)
	if err != nil {
		writeError(w, h.Logger, "RemoveMember", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	if actor == nil {
		writeError(w, h.Logger, "ChangeRole", service.ErrUnauthorized)
		return
	}
	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, h.Logger, "ChangeRole", err)
		return
	}
	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "ChangeRole", err)
		return
	}
	m, err := h.ProjectService.ChangeMemberRole(r.Context(), actor, chi.URLParam(r, "id"), memberID, req.Role)
	if err != nil {
		writeError(w, h.Logger, "ChangeRole", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Invites — неподтверждённые приглашения текущего пользователя.
func (h *ProjectHandler) Invites(w http.ResponseWriter, r *http.Request) {
	list, err := h.ProjectService.ListInvites(r.Context(), middleware.GetUserFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Logger, "Invites", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// RespondToInvite — /api/invites/{id}/accept или /reject.
func (h *ProjectHandler) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	action := service.InviteAction(chi.URLParam(r, "action"))
	err := h.ProjectService.RespondToInvite(r.Context(), middleware.GetUserFromContext(r.Context()), chi.URLParam(r, "id"), action)
	if err != nil {
		writeError(w, h.Logger, "RespondToInvite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func memberIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "memberID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad member id %q", service.ErrValidation, raw)
	}
	return id, nil
}
