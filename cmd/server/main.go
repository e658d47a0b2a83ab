package main

import (
	"KeyVault/internal/auth"
	"KeyVault/internal/config"
	"KeyVault/internal/crypto"
	"KeyVault/internal/handlers"
	"KeyVault/internal/middleware"
	"KeyVault/internal/repo"
	"KeyVault/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap
	newLogger := zap.NewDevelopment
	if cfg.LogProd {
		newLogger = zap.NewProduction
	}
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	// без секретов сервер не стартует
	if err := cfg.ValidateServer(); err != nil {
		sugar.Fatalw("invalid server configuration", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	cipher, err := crypto.NewCipher([]byte(cfg.EncryptionKey))
	if err != nil {
		sugar.Fatalw("failed to initialize cipher", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	projectRepo := repo.NewProjectRepository(gormDB)

	resolver := auth.NewResolver(userRepo, []byte(cfg.AuthSecret), auth.DefaultTTL, sugar)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, userRepo, cipher, sugar)

	h := handlers.NewHandler(userService, projectService, resolver, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"postgres", repo.IsPostgresDSN(cfg.DatabaseDSN),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
