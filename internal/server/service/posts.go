package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kmalyshev/go-api-template/internal/server/cache"
	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/models"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
)

// Лимит длины заголовка поста.
const maxTitleLen = 200

// PostsService реализует бизнес-логику работы с постами.
//
// Сервис проверяет владение: менять и удалять пост может только его автор.
type PostsService struct {
	repo  PostsRepo
	pages config.PaginationConfig
	cache *cache.Cache
}

// NewPostsService создаёт новый PostsService.
func NewPostsService(repo PostsRepo, pages config.PaginationConfig, c *cache.Cache) *PostsService {
	return &PostsService{
		repo:  repo,
		pages: pages,
		cache: c,
	}
}

// Create создаёт пост от имени автора.
//
// Валидации:
//   - title и content не пустые;
//   - title не длиннее maxTitleLen.
//
// Ошибки:
//   - ErrInvalidInput, ErrInternal
func (s *PostsService) Create(ctx context.Context, authorID uuid.UUID, title, content string) (models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" || content == "" || len(title) > maxTitleLen {
		return models.Post{}, serr.ErrInvalidInput
	}
	if authorID == uuid.Nil {
		return models.Post{}, serr.ErrUnauthorized
	}

	return s.repo.Create(ctx, authorID, title, content)
}

// List возвращает страницу постов (свежие первыми).
func (s *PostsService) List(ctx context.Context, skip, limit int) ([]models.Post, error) {
	skip, limit = clampPage(s.pages, skip, limit)
	return s.repo.List(ctx, skip, limit)
}

// Get возвращает пост по id (через кэш).
func (s *PostsService) Get(ctx context.Context, id uuid.UUID) (models.Post, error) {
	key := cache.Key("posts", id)

	var cached models.Post
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	s.cache.Set(ctx, key, post)
	return post, nil
}

// Update применяет частичное обновление поста.
//
// Только автор может менять свой пост, иначе ErrForbidden.
// Кэш по id инвалидируется.
func (s *PostsService) Update(ctx context.Context, actorID, id uuid.UUID, upd models.PostUpdate) (models.Post, error) {
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" || len(title) > maxTitleLen {
			return models.Post{}, serr.ErrInvalidInput
		}
		upd.Title = &title
	}
	if upd.Content != nil {
		content := strings.TrimSpace(*upd.Content)
		if content == "" {
			return models.Post{}, serr.ErrInvalidInput
		}
		upd.Content = &content
	}

	// проверяем владение до обновления
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if post.AuthorID != actorID {
		return models.Post{}, serr.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return models.Post{}, err
	}

	s.cache.Delete(ctx, cache.Key("posts", id))
	return updated, nil
}

// Delete удаляет пост автора и инвалидирует кэш.
func (s *PostsService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return serr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.Key("posts", id))
	return nil
}
