package model

import "time"

// Activity — запись журнала проекта. Только добавляется.
type Activity struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string `gorm:"not null;index;type:uuid" json:"project_id"`
	Message   string `gorm:"not null" json:"message"`
	UserID    int64  `gorm:"not null;index" json:"user_id"`
	User      *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`

	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName задаёт имя таблицы.
func (Activity) TableName() string { return "project_activities" }
