package model

import "time"

// KeyType — тип секрета.
type KeyType string

const (
	KeyAPIKey KeyType = "apikey"
	KeySecret KeyType = "secret"
	KeyToken  KeyType = "token"
	KeyEnv    KeyType = "env"
)

// Valid проверяет допустимость значения.
func (t KeyType) Valid() bool {
	switch t {
	case KeyAPIKey, KeySecret, KeyToken, KeyEnv:
		return true
	}
	return false
}

// Key — секрет проекта. Value всегда хранит конверт шифра, не открытый текст.
type Key struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ProjectID string `gorm:"not null;index;type:uuid" json:"-"`

	Name        string  `gorm:"not null" json:"name"`
	Label       string  `gorm:"column:key_label;not null" json:"key"`
	Value       string  `gorm:"not null" json:"value"`
	Type        KeyType `gorm:"not null;default:secret" json:"type"`
	Description string  `json:"description"`

	CreatedByID int64 `gorm:"not null" json:"created_by"`
	CreatedBy   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName задаёт имя таблицы.
func (Key) TableName() string { return "project_keys" }
