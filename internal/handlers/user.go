package handlers

import (
	"KeyVault/internal/auth"
	"KeyVault/internal/config"
	"KeyVault/internal/middleware"
	"KeyVault/internal/model"
	"KeyVault/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход и текущая сессия.
type UserHandler struct {
	UserService *service.UserService
	Resolver    *auth.Resolver
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, resolver *auth.Resolver, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Resolver: resolver, Logger: logger, Config: cfg}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResponse struct {
	IsLoggedIn bool        `json:"is_logged_in"`
	User       *model.User `json:"user,omitempty"`
}

// Register регистрирует пользователя и сразу открывает сессию.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	u, err := h.UserService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	h.Logger.Infow("user registered", "user_id", u.ID)
	h.startSession(w, u)
}

// Login проверяет пароль и открывает сессию.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	u, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	h.startSession(w, u)
}

// Logout удаляет cookie сессии.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w, h.Config.EnableHTTPS)
	writeJSON(w, http.StatusOK, meResponse{IsLoggedIn: false})
}

// Me сообщает, кто вошёл. Анонимный запрос допустим.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{IsLoggedIn: u != nil, User: u})
}

func (h *UserHandler) startSession(w http.ResponseWriter, u *model.User) {
	token, err := h.Resolver.Issue(u.ID)
	if err != nil {
		writeError(w, h.Logger, "startSession", err)
		return
	}
	middleware.SetLoginCookie(w, token, h.Resolver.TTL(), h.Config.EnableHTTPS)
	writeJSON(w, http.StatusOK, meResponse{IsLoggedIn: true, User: u})
}
