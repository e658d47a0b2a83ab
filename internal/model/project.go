package model

import "time"

// Access — режим доступа проекта.
type Access string

const (
	AccessPersonal Access = "personal"
	AccessTeam     Access = "team"
)

// Valid проверяет допустимость значения.
func (a Access) Valid() bool { return a == AccessPersonal || a == AccessTeam }

// ProjectStatus — состояние проекта.
type ProjectStatus string

const (
	ProjectActive ProjectStatus = "active"
	ProjectClosed ProjectStatus = "closed"
)

// Valid проверяет допустимость значения.
func (s ProjectStatus) Valid() bool { return s == ProjectActive || s == ProjectClosed }

// Project — контейнер секретов. Загружается и сохраняется целиком вместе с
// участниками, ключами и журналом активности.
type Project struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Access      Access        `gorm:"not null;default:personal" json:"access"`
	Status      ProjectStatus `gorm:"not null;default:active" json:"status"`

	// Владелец задаётся при создании и больше не меняется. В Members не хранится.
	OwnerID int64 `gorm:"not null;index" json:"owner_id"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"owner,omitempty"`

	Members  []Member   `gorm:"constraint:OnDelete:CASCADE" json:"members"`
	Keys     []Key      `gorm:"constraint:OnDelete:CASCADE" json:"keys"`
	Activity []Activity `gorm:"constraint:OnDelete:CASCADE" json:"activity"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FindMember возвращает членство пользователя и его индекс в Members.
func (p *Project) FindMember(userID int64) (*Member, int) {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i], i
		}
	}
	return nil, -1
}

// FindKey возвращает ключ по ID и его индекс в Keys.
func (p *Project) FindKey(keyID string) (*Key, int) {
	for i := range p.Keys {
		if p.Keys[i].ID == keyID {
			return &p.Keys[i], i
		}
	}
	return nil, -1
}
