package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/kmalyshev/go-api-template/internal/server/models"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
)

// PostsRepository реализует доступ к хранилищу постов (PostgreSQL).
// Отвечает исключительно за сохранение и извлечение данных без бизнес-логики.
type PostsRepository struct {
	db *sql.DB
}

// NewPostsRepository создаёт новый экземпляр PostsRepository.
func NewPostsRepository(db *sql.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

// Create сохраняет новый пост.
//
// Ошибки:
//   - ErrInvalidInput — автор не существует (fk violation)
//   - ErrInternal — прочие ошибки БД
func (r *PostsRepository) Create(ctx context.Context, authorID uuid.UUID, title, content string) (models.Post, error) {
	var p models.Post

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (author_id, title, content)
		 VALUES ($1,$2,$3)
		 RETURNING id, author_id, title, content, created_at`,
		authorID, title, content,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return models.Post{}, serr.ErrInvalidInput
		}
		return models.Post{}, serr.ErrInternal
	}

	return p, nil
}

// GetByID возвращает пост по id.
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	var p models.Post
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, title, content, created_at, updated_at
		   FROM posts
		  WHERE id=$1`,
		id,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, serr.ErrNotFound
		}
		return models.Post{}, serr.ErrInternal
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

// List возвращает страницу постов (пагинация offset/limit).
func (r *PostsRepository) List(ctx context.Context, offset, limit int) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_id, title, content, created_at, updated_at
		   FROM posts
		  ORDER BY created_at DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var updatedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &updatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			p.UpdatedAt = &t
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return posts, nil
}

// Update применяет частичное обновление поста.
//
// Ошибки:
//   - ErrNotFound — поста нет
//   - ErrInternal — прочие ошибки БД
func (r *PostsRepository) Update(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (models.Post, error) {
	var p models.Post
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`UPDATE posts
		    SET title      = COALESCE($2, title),
		        content    = COALESCE($3, content),
		        updated_at = now()
		  WHERE id = $1
		  RETURNING id, author_id, title, content, created_at, updated_at`,
		id, upd.Title, upd.Content,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, serr.ErrNotFound
		}
		return models.Post{}, serr.ErrInternal
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

// Delete удаляет пост по id.
func (r *PostsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}
