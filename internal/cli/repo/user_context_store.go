package repo

// UserContextStore абстракция для хранения контекста пользователя (последний логин).
type UserContextStore interface {
	SaveLogin(login string) error
	LoadLogin() (string, error)
}

// SessionStore — токен сессии вместе с контекстом пользователя.
type SessionStore interface {
	TokenStore
	UserContextStore
}
