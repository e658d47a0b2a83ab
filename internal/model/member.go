package model

import "time"

// MemberRole — роль участника проекта.
type MemberRole string

const (
	MemberEditor MemberRole = "editor"
	MemberViewer MemberRole = "viewer"
)

// Valid проверяет допустимость значения.
func (r MemberRole) Valid() bool { return r == MemberEditor || r == MemberViewer }

// MemberStatus — состояние приглашения.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberAccepted MemberStatus = "accepted"
)

// Member — участие пользователя в проекте. Составной ключ (project_id, user_id)
// не даёт завести второе членство того же пользователя.
type Member struct {
	ProjectID string `gorm:"primaryKey;type:uuid" json:"-"`
	UserID    int64  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`

	Role   MemberRole   `gorm:"not null" json:"role"`
	Status MemberStatus `gorm:"not null;default:pending" json:"status"`
	// Message — сопроводительный текст приглашения.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName задаёт имя таблицы.
func (Member) TableName() string { return "project_members" }
