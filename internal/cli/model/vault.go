package model

import "time"

// User — пользователь в ответах сервера.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Me — ответ /api/user/me и эндпоинтов входа.
type Me struct {
	IsLoggedIn bool  `json:"is_logged_in"`
	User       *User `json:"user,omitempty"`
}

// Member — участник проекта.
type Member struct {
	UserID  int64  `json:"user_id"`
	User    *User  `json:"user,omitempty"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Project — проект в списке или карточке.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Access      string    `json:"access"`
	Status      string    `json:"status"`
	OwnerID     int64     `json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	Members     []Member  `json:"members"`
	Keys        []Key     `json:"keys"`
	KeyCount    int       `json:"key_count"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key — ключ проекта с открытым значением.
type Key struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Label        string    `json:"key"`
	Value        string    `json:"value"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Inaccessible bool      `json:"inaccessible,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Invite — неподтверждённое приглашение.
type Invite struct {
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InvitedBy   string `json:"invited_by"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// Activity — запись журнала проекта.
type Activity struct {
	ID          int64     `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name,omitempty"`
	Message     string    `json:"message"`
	User        *User     `json:"user,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
