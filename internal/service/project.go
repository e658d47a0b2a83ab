package service

import (
	"KeyVault/internal/access"
	"KeyVault/internal/crypto"
	"KeyVault/internal/model"
	"KeyVault/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minProjectNameLen = 3

// ProjectService — единая точка авторизации операций над проектами и их секретами.
// Каждая операция: загрузить агрегат, проверить роль через access, изменить копию в памяти,
// сохранить агрегат одной записью.
type ProjectService struct {
	projects repo.ProjectRepository
	users    repo.UserRepository
	cipher   *crypto.Cipher
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewProjectService(
	projects repo.ProjectRepository,
	users repo.UserRepository,
	cipher *crypto.Cipher,
	logger *zap.SugaredLogger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		cipher:   cipher,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewProject — входные данные создания проекта.
type NewProject struct {
	Name        string
	Description string
	Access      model.Access
	Status      model.ProjectStatus
}

// ProjectSettings — изменяемые владельцем поля. nil — не менять.
type ProjectSettings struct {
	Name        *string
	Description *string
	Access      *model.Access
	Status      *model.ProjectStatus
}

// ProjectSummary — элемент списка проектов, без значений ключей.
type ProjectSummary struct {
	model.Project
	KeyCount int         `json:"key_count"`
	Role     access.Role `json:"role"`
}

// ProjectView — проект с расшифрованными ключами и ролью текущего пользователя.
type ProjectView struct {
	model.Project
	Keys          []DecryptedKey `json:"keys"`
	Role          access.Role    `json:"role"`
	CurrentUserID int64          `json:"current_user_id"`
}

// CreateProject создаёт проект, владельцем становится actor.
func (s *ProjectService) CreateProject(ctx context.Context, actor *model.User, in NewProject) (*model.Project, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	name := strings.TrimSpace(in.Name)
	if len(name) < minProjectNameLen {
		return nil, fmt.Errorf("%w: project name must be at least %d characters", ErrValidation, minProjectNameLen)
	}
	if in.Access == "" {
		in.Access = model.AccessPersonal
	}
	if !in.Access.Valid() {
		return nil, fmt.Errorf("%w: unknown access %q", ErrValidation, in.Access)
	}
	if in.Status == "" {
		in.Status = model.ProjectActive
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}

	now := s.now()
	p := &model.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Access:      in.Access,
		Status:      in.Status,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.appendActivity(p, actor, fmt.Sprintf("%s created project %q", actor.Username, p.Name))

	if err := s.projects.Create(ctx, p); err != nil {
		s.logger.Errorw("CreateProject: repository error", "user_id", actor.ID, "error", err)
		return nil, err
	}
	p.Owner = actor
	s.logger.Infow("project created", "project_id", p.ID, "owner_id", actor.ID)
	return p, nil
}

// ListProjects возвращает проекты, где actor владелец или принятый участник.
func (s *ProjectService) ListProjects(ctx context.Context, actor *model.User) ([]ProjectSummary, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	list, err := s.projects.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectSummary, 0, len(list))
	for i := range list {
		p := list[i]
		sum := ProjectSummary{
			Project:  p,
			KeyCount: len(p.Keys),
			Role:     access.EffectiveRole(&p, actor.ID),
		}
		sum.Keys = nil
		sum.Activity = nil
		out = append(out, sum)
	}
	return out, nil
}

// GetProject возвращает проект с расшифрованными ключами.
func (s *ProjectService) GetProject(ctx context.Context, actor *model.User, projectID string) (*ProjectView, error) {
	p, role, err := s.authorize(ctx, actor, projectID, access.ViewProject)
	if err != nil {
		return nil, err
	}
	keys := s.openKeys(p)
	view := &ProjectView{Project: *p, Keys: keys, Role: role, CurrentUserID: actor.ID}
	view.Project.Keys = nil
	return view, nil
}

// UpdateProjectSettings меняет настройки проекта. Только владелец.
func (s *ProjectService) UpdateProjectSettings(ctx context.Context, actor *model.User, projectID string, in ProjectSettings) (*model.Project, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.EditProject)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < minProjectNameLen {
			return nil, fmt.Errorf("%w: project name must be at least %d characters", ErrValidation, minProjectNameLen)
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Access != nil {
		if !in.Access.Valid() {
			return nil, fmt.Errorf("%w: unknown access %q", ErrValidation, *in.Access)
		}
		p.Access = *in.Access
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
		}
		p.Status = *in.Status
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject удаляет проект. Только владелец.
func (s *ProjectService) DeleteProject(ctx context.Context, actor *model.User, projectID string) error {
	if _, _, err := s.authorize(ctx, actor, projectID, access.DeleteProject); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project", ErrNotFound)
		}
		return err
	}
	s.logger.Infow("project deleted", "project_id", projectID, "user_id", actor.ID)
	return nil
}

// load загружает агрегат проекта.
func (s *ProjectService) load(ctx context.Context, projectID string) (*model.Project, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrValidation)
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: project", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// authorize загружает проект и проверяет действие по таблице разрешений.
func (s *ProjectService) authorize(ctx context.Context, actor *model.User, projectID string, action access.Action) (*model.Project, access.Role, error) {
	if actor == nil {
		return nil, access.RoleNone, ErrUnauthorized
	}
	p, err := s.load(ctx, projectID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	role, ok := access.Check(p, actor.ID, action)
	if !ok {
		s.logger.Debugw("access denied", "project_id", projectID, "user_id", actor.ID, "role", role.String(), "action", action)
		return nil, role, fmt.Errorf("%w: %s not allowed for %s", ErrForbidden, action, role)
	}
	return p, role, nil
}

// save сохраняет агрегат одной транзакцией.
func (s *ProjectService) save(ctx context.Context, p *model.Project) error {
	if err := s.projects.Save(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project", ErrNotFound)
		}
		s.logger.Errorw("project save failed", "project_id", p.ID, "error", err)
		return err
	}
	return nil
}

func (s *ProjectService) appendActivity(p *model.Project, actor *model.User, msg string) {
	p.Activity = append(p.Activity, model.Activity{
		ProjectID: p.ID,
		Message:   msg,
		UserID:    actor.ID,
		Timestamp: s.now(),
	})
}
