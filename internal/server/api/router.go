package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования и CORS для всех запросов;
//   - health-check и swagger;
//   - публичные эндпоинты аутентификации под префиксом /auth;
//   - группу защищённых JWT эндпоинтов (/users, /posts).
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	// CORS для фронтенда
	r.Use(middleware.CORSMiddleware(cfg.CORS))

	r.Get("/health", h.Health)
	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Публичные пути
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})

	// защищённые пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.CreatePost)
			r.Get("/", h.ListPosts)
			r.Get("/{id}", h.GetPost)
			r.Put("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
		})
	})

	return r
}
