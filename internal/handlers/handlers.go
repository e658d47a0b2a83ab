package handlers

import (
	"KeyVault/internal/auth"
	"KeyVault/internal/config"
	"KeyVault/internal/middleware"
	"KeyVault/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	projectService *service.ProjectService,
	resolver *auth.Resolver,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(resolver))

	userHandler := NewUserHandler(userService, resolver, logger, config)
	projectHandler := NewProjectHandler(projectService, logger)

	// User routes
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/logout", userHandler.Logout)
		r.Get("/me", userHandler.Me)
	})

	// Project routes
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", projectHandler.Get)
			r.Put("/", projectHandler.UpdateSettings)
			r.Delete("/", projectHandler.Delete)

			r.Post("/invite", projectHandler.Invite)
			r.Delete("/leave", projectHandler.Leave)
			r.Delete("/members/{memberID}", projectHandler.RemoveMember)
			r.Patch("/members/{memberID}/role", projectHandler.ChangeRole)

			r.Get("/keys", projectHandler.ListKeys)
			r.Post("/keys", projectHandler.AddKey)
			r.Patch("/keys/{keyID}", projectHandler.UpdateKey)
			r.Delete("/keys/{keyID}", projectHandler.DeleteKey)

			r.Get("/activity", projectHandler.Activity)
		})
	})

	r.Get("/api/invites", projectHandler.Invites)
	r.Post("/api/invites/{id}/{action}", projectHandler.RespondToInvite)
	r.Get("/api/activities", projectHandler.RecentActivity)

	return &Handler{Router: r}
}
