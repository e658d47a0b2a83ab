package service

import (
	"KeyVault/internal/cli/api"
	"KeyVault/internal/cli/model"
	"KeyVault/internal/cli/repo"
	"KeyVault/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLoginTaken         = errors.New("username already in use")
)

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Register создаёт аккаунт и сохраняет сессию.
	Register(ctx context.Context, username, password string) error

	// Login логирование пользователя.
	Login(ctx context.Context, username, password string) error

	// Logout очищает локальный контекст аутентификации.
	Logout(ctx context.Context) error

	// CurrentUser спрашивает сервер, кому принадлежит сохранённая сессия.
	CurrentUser(ctx context.Context) (*model.Me, error)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthServiceRemote — реализация AuthService поверх HTTP API сервера.
type AuthServiceRemote struct {
	client
}

// NewAuthService конструктор. store == nil — файловое хранилище из cfg.TokenFile.
func NewAuthService(cfg *config.Config, store repo.SessionStore) *AuthServiceRemote {
	return &AuthServiceRemote{client: newClient(cfg, store)}
}

func (s *AuthServiceRemote) Register(ctx context.Context, username, password string) error {
	err := s.startSession(ctx, "/api/user/register", username, password)
	var re *api.ResponseError
	if errors.As(err, &re) && re.Status == http.StatusConflict {
		return ErrLoginTaken
	}
	return err
}

func (s *AuthServiceRemote) Login(ctx context.Context, username, password string) error {
	err := s.startSession(ctx, "/api/user/login", username, password)
	var re *api.ResponseError
	if errors.As(err, &re) && re.Status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return err
}

func (s *AuthServiceRemote) startSession(ctx context.Context, path, username, password string) error {
	resp, body, err := api.DoJSON(ctx, http.MethodPost, s.baseURL+path, credentials{Username: username, Password: password}, "")
	if err != nil {
		return err
	}
	if err := api.CheckResponse(resp, body); err != nil {
		return err
	}
	if err := api.PersistAuthFromResponse(resp, s.store); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	if err := s.store.SaveLogin(username); err != nil {
		return fmt.Errorf("saving login: %w", err)
	}
	return nil
}

// Logout сообщает серверу о выходе и удаляет локальную сессию даже при ошибке сети.
func (s *AuthServiceRemote) Logout(ctx context.Context) error {
	token, _ := s.store.Load()
	var remoteErr error
	if token != "" {
		remoteErr = s.send(ctx, http.MethodPost, "/api/user/logout", nil, token, nil)
	}
	if err := s.store.Clear(); err != nil {
		return err
	}
	return remoteErr
}

func (s *AuthServiceRemote) CurrentUser(ctx context.Context) (*model.Me, error) {
	token, _ := s.store.Load()
	var me model.Me
	if err := s.send(ctx, http.MethodGet, "/api/user/me", nil, token, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
