package service

import (
	"KeyVault/internal/cli/model"
	"KeyVault/internal/cli/repo"
	"KeyVault/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// VaultService — операции над проектами, ключами и приглашениями.
type VaultService interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, in NewProject) (*model.Project, error)
	DeleteProject(ctx context.Context, projectID string) error

	Invite(ctx context.Context, projectID, username, role, message string) error
	ListInvites(ctx context.Context) ([]model.Invite, error)
	RespondToInvite(ctx context.Context, projectID string, accept bool) error
	LeaveProject(ctx context.Context, projectID string) error
	ChangeMemberRole(ctx context.Context, projectID string, userID int64, role string) error
	RemoveMember(ctx context.Context, projectID string, userID int64) error

	ListKeys(ctx context.Context, projectID string) ([]model.Key, error)
	AddKey(ctx context.Context, projectID string, in NewKey) (*model.Key, error)
	UpdateKey(ctx context.Context, projectID, keyID string, in KeyUpdate) (*model.Key, error)
	DeleteKey(ctx context.Context, projectID, keyID string) error

	ProjectActivity(ctx context.Context, projectID string) ([]model.Activity, error)
	RecentActivity(ctx context.Context, limit int) ([]model.Activity, error)
}

// NewProject — параметры создания проекта.
type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Access      string `json:"access,omitempty"`
}

// NewKey — параметры нового ключа.
type NewKey struct {
	Name        string `json:"name"`
	Label       string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// KeyUpdate — изменяемые поля ключа. nil — не менять.
type KeyUpdate struct {
	Name        *string `json:"name,omitempty"`
	Label       *string `json:"key,omitempty"`
	Value       *string `json:"value,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// VaultServiceRemote — реализация VaultService поверх HTTP API сервера.
type VaultServiceRemote struct {
	client
}

// NewVaultService конструктор. store == nil — файловое хранилище из cfg.TokenFile.
func NewVaultService(cfg *config.Config, store repo.SessionStore) *VaultServiceRemote {
	return &VaultServiceRemote{client: newClient(cfg, store)}
}

func projectPath(projectID string, parts ...string) string {
	p := "/api/projects/" + url.PathEscape(projectID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (s *VaultServiceRemote) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := s.call(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VaultServiceRemote) CreateProject(ctx context.Context, in NewProject) (*model.Project, error) {
	var out model.Project
	if err := s.call(ctx, http.MethodPost, "/api/projects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VaultServiceRemote) DeleteProject(ctx context.Context, projectID string) error {
	return s.call(ctx, http.MethodDelete, projectPath(projectID), nil, nil)
}

func (s *VaultServiceRemote) Invite(ctx context.Context, projectID, username, role, message string) error {
	req := struct {
		Username string `json:"username"`
		Role     string `json:"role"`
		Message  string `json:"message,omitempty"`
	}{username, role, message}
	return s.call(ctx, http.MethodPost, projectPath(projectID, "invite"), req, nil)
}

func (s *VaultServiceRemote) ListInvites(ctx context.Context) ([]model.Invite, error) {
	var out []model.Invite
	if err := s.call(ctx, http.MethodGet, "/api/invites", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VaultServiceRemote) RespondToInvite(ctx context.Context, projectID string, accept bool) error {
	action := "reject"
	if accept {
		action = "accept"
	}
	return s.call(ctx, http.MethodPost, "/api/invites/"+url.PathEscape(projectID)+"/"+action, nil, nil)
}

func (s *VaultServiceRemote) LeaveProject(ctx context.Context, projectID string) error {
	return s.call(ctx, http.MethodDelete, projectPath(projectID, "leave"), nil, nil)
}

func (s *VaultServiceRemote) ChangeMemberRole(ctx context.Context, projectID string, userID int64, role string) error {
	req := struct {
		Role string `json:"role"`
	}{role}
	return s.call(ctx, http.MethodPatch, projectPath(projectID, "members", strconv.FormatInt(userID, 10), "role"), req, nil)
}

func (s *VaultServiceRemote) RemoveMember(ctx context.Context, projectID string, userID int64) error {
	return s.call(ctx, http.MethodDelete, projectPath(projectID, "members", strconv.FormatInt(userID, 10)), nil, nil)
}

func (s *VaultServiceRemote) ListKeys(ctx context.Context, projectID string) ([]model.Key, error) {
	var out []model.Key
	if err := s.call(ctx, http.MethodGet, projectPath(projectID, "keys"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VaultServiceRemote) AddKey(ctx context.Context, projectID string, in NewKey) (*model.Key, error) {
	var out model.Key
	if err := s.call(ctx, http.MethodPost, projectPath(projectID, "keys"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VaultServiceRemote) UpdateKey(ctx context.Context, projectID, keyID string, in KeyUpdate) (*model.Key, error) {
	var out model.Key
	if err := s.call(ctx, http.MethodPatch, projectPath(projectID, "keys", keyID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VaultServiceRemote) DeleteKey(ctx context.Context, projectID, keyID string) error {
	return s.call(ctx, http.MethodDelete, projectPath(projectID, "keys", keyID), nil, nil)
}

func (s *VaultServiceRemote) ProjectActivity(ctx context.Context, projectID string) ([]model.Activity, error) {
	var out []model.Activity
	if err := s.call(ctx, http.MethodGet, projectPath(projectID, "activity"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *VaultServiceRemote) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	path := "/api/activities"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.Activity
	if err := s.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return out, nil
}
