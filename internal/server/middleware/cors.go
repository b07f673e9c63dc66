// Настройка CORS для фронтенда
package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/kmalyshev/go-api-template/internal/server/config"
)

// CORSMiddleware возвращает middleware с политикой CORS из конфига.
//
// Список origin'ов, заголовков и время кэширования preflight задаются
// в секции cors файла server.yaml.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{"*"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
