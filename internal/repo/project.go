package repo

import (
	"KeyVault/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRepository — доступ к проекту как к единому агрегату
// (проект + участники + ключи + журнал активности).
type ProjectRepository interface {
	// Create сохраняет новый проект вместе с дочерними записями.
	Create(ctx context.Context, p *model.Project) error

	// GetByID загружает агрегат целиком.
	GetByID(ctx context.Context, id string) (*model.Project, error)

	// Save записывает агрегат одной транзакцией: поля проекта, набор участников,
	// набор ключей и новые записи журнала. Удалённые из срезов дочерние записи удаляются.
	Save(ctx context.Context, p *model.Project) error

	// Delete удаляет проект и всё, что ему принадлежит.
	Delete(ctx context.Context, id string) error

	// ListForUser возвращает проекты, где пользователь владелец или принятый участник.
	ListForUser(ctx context.Context, userID int64) ([]model.Project, error)

	// ListPendingInvites возвращает проекты с неподтверждённым приглашением пользователя.
	ListPendingInvites(ctx context.Context, userID int64) ([]model.Project, error)

	// RecentActivity возвращает последние действия пользователя по всем проектам.
	RecentActivity(ctx context.Context, userID int64, limit int) ([]ActivityEntry, error)
}

// ActivityEntry — запись журнала с именем проекта.
type ActivityEntry struct {
	model.Activity
	ProjectName string `json:"project_name"`
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepository создаёт реализацию репозитория проектов.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		return syncChildren(tx, p)
	})
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Preload("Keys", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Activity", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC, id ASC") }).
		Preload("Activity.User").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Save(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p.UpdatedAt = time.Now().UTC()
		res := tx.Model(&model.Project{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"access":      p.Access,
			"status":      p.Status,
			"updated_at":  p.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncChildren(tx, p)
	})
}

// syncChildren приводит дочерние таблицы к состоянию срезов агрегата.
func syncChildren(tx *gorm.DB, p *model.Project) error {
	// участники
	userIDs := make([]int64, 0, len(p.Members))
	for _, m := range p.Members {
		userIDs = append(userIDs, m.UserID)
	}
	del := tx.Where("project_id = ?", p.ID)
	if len(userIDs) > 0 {
		del = del.Where("user_id NOT IN ?", userIDs)
	}
	if err := del.Delete(&model.Member{}).Error; err != nil {
		return err
	}
	for i := range p.Members {
		m := &p.Members[i]
		m.ProjectID = p.ID
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "status", "message", "updated_at"}),
		}).Create(m).Error
		if err != nil {
			return err
		}
	}

	// ключи
	keyIDs := make([]string, 0, len(p.Keys))
	for _, k := range p.Keys {
		keyIDs = append(keyIDs, k.ID)
	}
	del = tx.Where("project_id = ?", p.ID)
	if len(keyIDs) > 0 {
		del = del.Where("id NOT IN ?", keyIDs)
	}
	if err := del.Delete(&model.Key{}).Error; err != nil {
		return err
	}
	for i := range p.Keys {
		k := &p.Keys[i]
		k.ProjectID = p.ID
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "key_label", "value", "type", "description", "updated_at"}),
		}).Create(k).Error
		if err != nil {
			return err
		}
	}

	// журнал только дополняется: пишем записи без ID
	for i := range p.Activity {
		a := &p.Activity[i]
		if a.ID != 0 {
			continue
		}
		a.ProjectID = p.ID
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&model.Activity{}, &model.Key{}, &model.Member{}} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *projectRepo) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	db := r.db.WithContext(ctx)
	accepted := db.Model(&model.Member{}).Select("project_id").
		Where("user_id = ? AND status = ?", userID, model.MemberAccepted)

	var list []model.Project
	err := db.
		Preload("Owner").
		Preload("Members.User").
		Preload("Keys").
		Where("owner_id = ? OR id IN (?)", userID, accepted).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *projectRepo) ListPendingInvites(ctx context.Context, userID int64) ([]model.Project, error) {
	db := r.db.WithContext(ctx)
	pending := db.Model(&model.Member{}).Select("project_id").
		Where("user_id = ? AND status = ?", userID, model.MemberPending)

	var list []model.Project
	err := db.
		Preload("Owner").
		Preload("Members").
		Where("id IN (?)", pending).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *projectRepo) RecentActivity(ctx context.Context, userID int64, limit int) ([]ActivityEntry, error) {
	db := r.db.WithContext(ctx)
	var acts []model.Activity
	err := db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&acts).Error
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return []ActivityEntry{}, nil
	}

	ids := make([]string, 0, len(acts))
	for _, a := range acts {
		ids = append(ids, a.ProjectID)
	}
	var projects []model.Project
	if err := db.Select("id", "name").Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	out := make([]ActivityEntry, 0, len(acts))
	for _, a := range acts {
		out = append(out, ActivityEntry{Activity: a, ProjectName: names[a.ProjectID]})
	}
	return out, nil
}
