package service

import (
	"KeyVault/internal/access"
	"KeyVault/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// InviteAction — ответ на приглашение.
type InviteAction string

const (
	InviteAccept InviteAction = "accept"
	InviteReject InviteAction = "reject"
)

// Invite — неподтверждённое приглашение пользователя.
type Invite struct {
	ProjectID   string             `json:"project_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InvitedBy   string             `json:"invited_by"`
	Role        model.MemberRole   `json:"role"`
	Status      model.MemberStatus `json:"status"`
	Message     string             `json:"message,omitempty"`
}

// InviteMember приглашает пользователя в командный проект. Только владелец.
func (s *ProjectService) InviteMember(ctx context.Context, actor *model.User, projectID, username string, role model.MemberRole, message string) (*model.Member, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.InviteMember)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if p.Access != model.AccessTeam {
		return nil, fmt.Errorf("%w: personal project cannot have members", ErrForbidden)
	}

	target, err := s.users.GetUserByLogin(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if err != nil {
		s.logger.Errorw("InviteMember: user lookup failed", "username", username, "error", err)
		return nil, err
	}
	if target.ID == p.OwnerID {
		return nil, fmt.Errorf("%w: user is the project owner", ErrConflict)
	}
	if m, _ := p.FindMember(target.ID); m != nil {
		return nil, fmt.Errorf("%w: user already has a membership (%s)", ErrConflict, m.Status)
	}

	now := s.now()
	p.Members = append(p.Members, model.Member{
		ProjectID: p.ID,
		UserID:    target.ID,
		Role:      role,
		Status:    model.MemberPending,
		Message:   strings.TrimSpace(message),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("member invited", "project_id", p.ID, "user_id", target.ID, "role", role)

	m, _ := p.FindMember(target.ID)
	out := *m
	out.User = target
	return &out, nil
}

// RespondToInvite принимает или отклоняет приглашение actor.
// Принятие переводит членство в accepted, отказ удаляет его.
func (s *ProjectService) RespondToInvite(ctx context.Context, actor *model.User, projectID string, action InviteAction) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if action != InviteAccept && action != InviteReject {
		return fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
	p, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	m, idx := p.FindMember(actor.ID)
	if m == nil || m.Status != model.MemberPending {
		return fmt.Errorf("%w: no pending invite", ErrNotFound)
	}

	switch action {
	case InviteAccept:
		m.Status = model.MemberAccepted
		m.UpdatedAt = s.now()
		s.appendActivity(p, actor, fmt.Sprintf("%s joined the project as %s", actor.Username, m.Role))
	case InviteReject:
		p.Members = append(p.Members[:idx], p.Members[idx+1:]...)
	}
	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.logger.Infow("invite answered", "project_id", p.ID, "user_id", actor.ID, "action", action)
	return nil
}

// ChangeMemberRole меняет роль участника в любом статусе. Только владелец.
func (s *ProjectService) ChangeMemberRole(ctx context.Context, actor *model.User, projectID string, targetUserID int64, role model.MemberRole) (*model.Member, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.ChangeMemberRole)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	m, _ := p.FindMember(targetUserID)
	if m == nil {
		return nil, fmt.Errorf("%w: member", ErrNotFound)
	}
	m.Role = role
	m.UpdatedAt = s.now()
	s.appendActivity(p, actor, fmt.Sprintf("%s changed role of %s to %s", actor.Username, memberName(m), role))

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("member role changed", "project_id", p.ID, "user_id", targetUserID, "role", role)
	out := *m
	return &out, nil
}

// RemoveMember удаляет участника или отзывает приглашение. Только владелец.
func (s *ProjectService) RemoveMember(ctx context.Context, actor *model.User, projectID string, targetUserID int64) error {
	p, _, err := s.authorize(ctx, actor, projectID, access.RemoveMember)
	if err != nil {
		return err
	}
	m, idx := p.FindMember(targetUserID)
	if m == nil {
		return fmt.Errorf("%w: member", ErrNotFound)
	}
	name := memberName(m)
	p.Members = append(p.Members[:idx], p.Members[idx+1:]...)
	s.appendActivity(p, actor, fmt.Sprintf("%s removed %s from the project", actor.Username, name))

	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.logger.Infow("member removed", "project_id", p.ID, "user_id", targetUserID)
	return nil
}

// LeaveProject — выход принятого участника из проекта. Владелец выйти не может.
func (s *ProjectService) LeaveProject(ctx context.Context, actor *model.User, projectID string) error {
	p, _, err := s.authorize(ctx, actor, projectID, access.LeaveProject)
	if err != nil {
		return err
	}
	_, idx := p.FindMember(actor.ID)
	p.Members = append(p.Members[:idx], p.Members[idx+1:]...)
	s.appendActivity(p, actor, fmt.Sprintf("%s left the project", actor.Username))

	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.logger.Infow("member left", "project_id", p.ID, "user_id", actor.ID)
	return nil
}

// ListInvites возвращает неподтверждённые приглашения actor.
func (s *ProjectService) ListInvites(ctx context.Context, actor *model.User) ([]Invite, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	list, err := s.projects.ListPendingInvites(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Invite, 0, len(list))
	for i := range list {
		p := &list[i]
		m, _ := p.FindMember(actor.ID)
		if m == nil || m.Status != model.MemberPending {
			continue
		}
		inv := Invite{
			ProjectID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Role:        m.Role,
			Status:      m.Status,
			Message:     m.Message,
		}
		if p.Owner != nil {
			inv.InvitedBy = p.Owner.Username
		}
		out = append(out, inv)
	}
	return out, nil
}

func memberName(m *model.Member) string {
	if m.User != nil {
		return m.User.Username
	}
	return fmt.Sprintf("user #%d", m.UserID)
}
