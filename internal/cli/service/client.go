package service

import (
	"KeyVault/internal/cli/api"
	"KeyVault/internal/cli/repo"
	fsrepo "KeyVault/internal/cli/repo/fs"
	"KeyVault/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoggedIn — локально нет сохранённой сессии.
var ErrNotLoggedIn = errors.New("not logged in: run login or register first")

// client — общий HTTP-транспорт сервисов CLI.
type client struct {
	baseURL string
	store   repo.SessionStore
}

func newClient(cfg *config.Config, store repo.SessionStore) client {
	if store == nil {
		store = fsrepo.AuthFSStore{TokenFile: cfg.TokenFile}
	}
	return client{baseURL: strings.TrimRight(cfg.ServerURL, "/"), store: store}
}

// call выполняет запрос с токеном сессии и декодирует ответ в out (если не nil).
func (c client) call(ctx context.Context, method, path string, payload, out any) error {
	token, err := c.store.Load()
	if err != nil || token == "" {
		return ErrNotLoggedIn
	}
	return c.send(ctx, method, path, payload, token, out)
}

func (c client) send(ctx context.Context, method, path string, payload any, token string, out any) error {
	resp, body, err := api.DoJSON(ctx, method, c.baseURL+path, payload, token)
	if err != nil {
		return err
	}
	if err := api.CheckResponse(resp, body); err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
