package service

import (
	"KeyVault/internal/access"
	"KeyVault/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewKey — входные данные для добавления ключа. Value — открытый текст.
type NewKey struct {
	Name        string
	Label       string
	Value       string
	Type        model.KeyType
	Description string
}

// KeyUpdate — изменяемые поля ключа. nil — не менять.
type KeyUpdate struct {
	Name        *string
	Label       *string
	Value       *string
	Type        *model.KeyType
	Description *string
}

// DecryptedKey — ключ с открытым значением для выдачи клиенту.
// Inaccessible выставляется, если конверт не прошёл проверку; Value тогда пустой.
type DecryptedKey struct {
	model.Key
	Inaccessible bool `json:"inaccessible,omitempty"`
}

// AddKey шифрует значение и добавляет ключ в проект.
func (s *ProjectService) AddKey(ctx context.Context, actor *model.User, projectID string, in NewKey) (*DecryptedKey, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.CreateKey)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	label := strings.TrimSpace(in.Label)
	if name == "" || label == "" {
		return nil, fmt.Errorf("%w: key name and label are required", ErrValidation)
	}
	if in.Value == "" {
		return nil, fmt.Errorf("%w: key value is required", ErrValidation)
	}
	if in.Type == "" {
		in.Type = model.KeySecret
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown key type %q", ErrValidation, in.Type)
	}

	sealed, err := s.cipher.Seal(in.Value)
	if err != nil {
		s.logger.Errorw("AddKey: seal failed", "project_id", projectID, "error", err)
		return nil, err
	}
	now := s.now()
	k := model.Key{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		Name:        name,
		Label:       label,
		Value:       sealed,
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		CreatedByID: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Keys = append(p.Keys, k)
	s.appendActivity(p, actor, fmt.Sprintf("%s added a new key %q", actor.Username, name))

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("key added", "project_id", p.ID, "key_id", k.ID, "user_id", actor.ID)

	out := DecryptedKey{Key: k}
	out.Value = in.Value
	return &out, nil
}

// UpdateKey меняет поля ключа. Новое значение шифруется заново.
func (s *ProjectService) UpdateKey(ctx context.Context, actor *model.User, projectID, keyID string, in KeyUpdate) (*DecryptedKey, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.UpdateKey)
	if err != nil {
		return nil, err
	}
	k, _ := p.FindKey(keyID)
	if k == nil {
		return nil, fmt.Errorf("%w: key", ErrNotFound)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: key name is required", ErrValidation)
		}
		k.Name = name
	}
	if in.Label != nil {
		label := strings.TrimSpace(*in.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: key label is required", ErrValidation)
		}
		k.Label = label
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown key type %q", ErrValidation, *in.Type)
		}
		k.Type = *in.Type
	}
	if in.Description != nil {
		k.Description = strings.TrimSpace(*in.Description)
	}
	if in.Value != nil {
		if *in.Value == "" {
			return nil, fmt.Errorf("%w: key value is required", ErrValidation)
		}
		sealed, err := s.cipher.Seal(*in.Value)
		if err != nil {
			s.logger.Errorw("UpdateKey: seal failed", "project_id", projectID, "error", err)
			return nil, err
		}
		k.Value = sealed
	}
	k.UpdatedAt = s.now()
	updated := *k
	s.appendActivity(p, actor, fmt.Sprintf("%s updated a key %q", actor.Username, updated.Name))

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("key updated", "project_id", p.ID, "key_id", keyID, "user_id", actor.ID)

	out := s.openKey(p.ID, updated)
	return &out, nil
}

// DeleteKey удаляет ключ из проекта.
func (s *ProjectService) DeleteKey(ctx context.Context, actor *model.User, projectID, keyID string) error {
	p, _, err := s.authorize(ctx, actor, projectID, access.DeleteKey)
	if err != nil {
		return err
	}
	k, idx := p.FindKey(keyID)
	if k == nil {
		return fmt.Errorf("%w: key", ErrNotFound)
	}
	name := k.Name
	p.Keys = append(p.Keys[:idx], p.Keys[idx+1:]...)
	s.appendActivity(p, actor, fmt.Sprintf("%s deleted a key %s", actor.Username, name))

	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.logger.Infow("key deleted", "project_id", p.ID, "key_id", keyID, "user_id", actor.ID)
	return nil
}

// ListKeys возвращает ключи проекта с расшифрованными значениями.
func (s *ProjectService) ListKeys(ctx context.Context, actor *model.User, projectID string) ([]DecryptedKey, error) {
	p, _, err := s.authorize(ctx, actor, projectID, access.ListKeys)
	if err != nil {
		return nil, err
	}
	return s.openKeys(p), nil
}

func (s *ProjectService) openKeys(p *model.Project) []DecryptedKey {
	out := make([]DecryptedKey, 0, len(p.Keys))
	for _, k := range p.Keys {
		out = append(out, s.openKey(p.ID, k))
	}
	return out
}

// openKey расшифровывает одно значение. Ошибка проверки не прерывает выдачу списка.
func (s *ProjectService) openKey(projectID string, k model.Key) DecryptedKey {
	plain, err := s.cipher.Open(k.Value)
	if err != nil {
		if !errors.Is(err, ErrIntegrity) {
			s.logger.Errorw("open key failed", "project_id", projectID, "key_id", k.ID, "error", err)
		} else {
			s.logger.Warnw("key integrity check failed", "project_id", projectID, "key_id", k.ID)
		}
		k.Value = ""
		return DecryptedKey{Key: k, Inaccessible: true}
	}
	k.Value = plain
	return DecryptedKey{Key: k}
}
