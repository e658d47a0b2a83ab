package handlers_test

import (
	"KeyVault/internal/auth"
	"KeyVault/internal/config"
	"KeyVault/internal/crypto"
	"KeyVault/internal/handlers"
	"KeyVault/internal/repo"
	"KeyVault/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// testServer — полный стек поверх in-memory SQLite.
type testServer struct {
	router http.Handler
	db     *gorm.DB
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{AuthSecret: "test-secret", EncryptionKey: "test-master"}
	logger := zap.NewNop().Sugar()

	users := repo.NewUserRepository(db)
	projects := repo.NewProjectRepository(db)
	cipher, err := crypto.NewCipher([]byte(cfg.EncryptionKey))
	require.NoError(t, err)
	resolver := auth.NewResolver(users, []byte(cfg.AuthSecret), auth.DefaultTTL, logger)

	h := handlers.NewHandler(
		service.NewUserService(users),
		service.NewProjectService(projects, users, cipher, logger),
		resolver, logger, cfg,
	)
	return &testServer{router: h.Router, db: db, cfg: cfg}
}

// do выполняет запрос с cookie сессии (если задана) и возвращает ответ.
func (s *testServer) do(t *testing.T, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// register создаёт пользователя и возвращает cookie его сессии.
func (s *testServer) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/user/register", map[string]string{"username": username, "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return sessionCookie(t, rr)
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" {
			return c
		}
	}
	t.Fatalf("Set-Cookie auth_token expected")
	return nil
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v), rr.Body.String())
	return v
}

// isEnvelope — значение хранится конвертом шифра {content, iv, tag}.
func isEnvelope(value string) bool {
	var env struct {
		Content string `json:"content"`
		IV      string `json:"iv"`
		Tag     string `json:"tag"`
	}
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return false
	}
	return env.Content != "" && env.IV != "" && env.Tag != ""
}
