package service

import (
	"KeyVault/internal/crypto"
	"errors"
)

// Ошибки сервисного слоя. Подробности добавляются через fmt.Errorf("%w: ...").
var (
	// ErrUnauthorized — нет действующей учётной записи в запросе.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — пользователь известен, но роли недостаточно.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — нет проекта, ключа, участника или пользователя.
	ErrNotFound = errors.New("not found")
	// ErrValidation — некорректные или отсутствующие входные данные.
	ErrValidation = errors.New("validation error")
	// ErrConflict — повторное приглашение или членство.
	ErrConflict = errors.New("conflict")
	// ErrIntegrity — конверт секрета не прошёл проверку тега.
	ErrIntegrity = crypto.ErrIntegrity

	// ErrLoginTaken — логин уже занят.
	ErrLoginTaken = errors.New("login already taken")
	// ErrInvalidCredentials — неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid login or password")
)
