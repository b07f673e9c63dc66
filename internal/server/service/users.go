package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kmalyshev/go-api-template/internal/server/cache"
	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/crypto"
	"github.com/kmalyshev/go-api-template/internal/server/models"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
)

// UsersService реализует бизнес-логику работы с пользователями.
// Сервис:
//   - валидирует входные данные;
//   - хеширует новый пароль при обновлении;
//   - прозрачно кэширует чтение по id (если Redis включён);
//   - не знает о HTTP и БД напрямую.
type UsersService struct {
	repo  UsersRepo
	pass  crypto.Argon2Params
	pages config.PaginationConfig
	cache *cache.Cache
}

// UpdateUserInput — частичное обновление пользователя на уровне сервиса.
// Password здесь в открытом виде, в хэш его переводит сервис.
type UpdateUserInput struct {
	Email    *string
	Username *string
	IsActive *bool
	Password *string
}

// NewUsersService создаёт новый UsersService.
func NewUsersService(repo UsersRepo, cfg *config.Config, c *cache.Cache) *UsersService {
	return &UsersService{
		repo: repo,
		pass: crypto.Argon2Params{
			Time:      cfg.Password.Argon2.Time,
			MemoryKiB: cfg.Password.Argon2.MemoryKiB,
			Threads:   cfg.Password.Argon2.Threads,
			KeyLen:    cfg.Password.Argon2.KeyLen,
			SaltLen:   cfg.Password.Argon2.SaltLen,
		},
		pages: cfg.Pagination,
		cache: c,
	}
}

// List возвращает страницу пользователей.
// skip/limit приводятся к лимитам пагинации из конфига.
func (s *UsersService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	skip, limit = clampPage(s.pages, skip, limit)
	return s.repo.List(ctx, skip, limit)
}

// Get возвращает пользователя по id.
//
// Чтение идёт через кэш: попадание не трогает базу,
// промах — читаем базу и кладём результат в кэш.
func (s *UsersService) Get(ctx context.Context, id uuid.UUID) (models.User, error) {
	key := cache.Key("users", id)

	var cached models.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	s.cache.Set(ctx, key, user)
	return user, nil
}

// Update применяет частичное обновление пользователя.
//
// Валидации:
//   - email (если передан) должен быть валидным;
//   - username (если передан) не пустой;
//   - пароль (если передан) длиной >= 8.
//
// Кэш по id инвалидируется.
//
// Ошибки:
//   - ErrInvalidInput, ErrNotFound, ErrAlreadyExists, ErrInternal
func (s *UsersService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (models.User, error) {
	upd := models.UserUpdate{IsActive: in.IsActive}

	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if !emailRe.MatchString(email) {
			return models.User{}, serr.ErrInvalidInput
		}
		upd.Email = &email
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return models.User{}, serr.ErrInvalidInput
		}
		upd.Username = &username
	}

	if in.Password != nil {
		password := strings.TrimSpace(*in.Password)
		if len(password) < 8 {
			return models.User{}, serr.ErrInvalidInput
		}
		hash, err := crypto.HashPassword(password, s.pass)
		if err != nil {
			return models.User{}, serr.ErrInternal
		}
		upd.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return models.User{}, err
	}

	s.cache.Delete(ctx, cache.Key("users", id))
	return user, nil
}

// Delete удаляет пользователя и инвалидирует кэш.
//
// Сессии и посты пользователя удаляются каскадно на уровне схемы.
func (s *UsersService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, cache.Key("users", id))
	return nil
}

// HealthCheck проверяет доступность базы и кэша.
func (s *UsersService) HealthCheck(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return serr.ErrInternal
	}
	if err := s.cache.Ping(ctx); err != nil {
		return serr.ErrInternal
	}
	return nil
}
