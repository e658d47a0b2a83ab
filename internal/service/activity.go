package service

import (
	"KeyVault/internal/access"
	"KeyVault/internal/model"
	"KeyVault/internal/repo"
	"context"
)

// DefaultRecentLimit — размер ленты последних действий по умолчанию.
const DefaultRecentLimit = 10

// ListActivity возвращает журнал проекта в порядке записи.
func (s *ProjectService) ListActivity(ctx context.Context, actor *model.User, projectID string) ([]model.Activity, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.ViewProject)
	if err != nil {
		return nil, err
	}
	if p.Activity == nil {
		return []model.Activity{}, nil
	}
	return p.Activity, nil
}

// RecentActivity возвращает последние действия actor по всем проектам.
func (s *ProjectService) RecentActivity(ctx context.Context, actor *model.User, limit int) ([]repo.ActivityEntry, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.projects.RecentActivity(ctx, actor.ID, limit)
}
