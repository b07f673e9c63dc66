// Package service содержит бизнес-логику приложения.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kmalyshev/go-api-template/internal/server/cache"
	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users    UsersRepo
	Posts    PostsRepo
	Sessions SessionsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth  *AuthService
	Users *UsersService
	Posts *PostsService
}

// NewServices собирает все сервисы приложения.
//
// cfg нужен AuthService (параметры хеширования пароля, JWT) и сервисам
// списков (лимиты пагинации). c может быть nil — тогда кэш выключен.
func NewServices(repos Repositories, cfg *config.Config, c *cache.Cache) *Services {
	return &Services{
		Auth:  NewAuthService(repos.Users, repos.Sessions, cfg),
		Users: NewUsersService(repos.Users, cfg, c),
		Posts: NewPostsService(repos.Posts, cfg.Pagination, c),
	}
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, email, username, passwordHash string) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// PostsRepo — репозиторий постов.
type PostsRepo interface {
	Create(ctx context.Context, authorID uuid.UUID, title, content string) (models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Post, error)
	List(ctx context.Context, offset, limit int) ([]models.Post, error)
	Update(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionsRepo — хранилище refresh-сессий.
type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (id uuid.UUID, userID uuid.UUID, expiresAt time.Time, revokedAt *time.Time, replacedBy *uuid.UUID, err error)
	RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// clampPage приводит skip/limit к допустимым значениям из конфига пагинации.
func clampPage(p config.PaginationConfig, skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return skip, limit
}
