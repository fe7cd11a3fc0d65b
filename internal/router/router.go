package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vennela009/task-management-api/internal/config"
	"github.com/Vennela009/task-management-api/internal/handler"
	"github.com/Vennela009/task-management-api/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	userHandler *handler.UserHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Get("/me", userHandler.Me)
			protected.With(authMiddleware.RequireRoles("admin")).Get("/users", userHandler.List)

			protected.Post("/tasks", taskHandler.Create)
			protected.Get("/tasks", taskHandler.List)
			protected.Get("/tasks/{id}", taskHandler.Get)
			protected.Put("/tasks/{id}", taskHandler.Update)
			protected.Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	return r
}
