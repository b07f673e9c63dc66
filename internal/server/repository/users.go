// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
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

// Коды ошибок PostgreSQL, которые мы различаем.
const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create создаёт пользователя и возвращает его id.
//
// Ошибки:
//   - ErrAlreadyExists — email уже занят (unique_violation)
//   - ErrInternal — прочие ошибки БД
func (r *UsersRepository) Create(ctx context.Context, email, username, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		email, username, passwordHash,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, serr.ErrInternal
	}

	return id, nil
}

// GetByEmail возвращает пользователя по email (для логина).
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, username, password_hash, is_active, created_at, updated_at
		   FROM users
		  WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

// GetByID возвращает пользователя по id.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, username, password_hash, is_active, created_at, updated_at
		   FROM users
		  WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

// List возвращает страницу пользователей (пагинация offset/limit).
func (r *UsersRepository) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, username, password_hash, is_active, created_at, updated_at
		   FROM users
		  ORDER BY created_at
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var updatedAt sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &updatedAt); err != nil {
			return nil, serr.ErrInternal
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			u.UpdatedAt = &t
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return users, nil
}

// Update применяет частичное обновление пользователя.
//
// Непереданные поля (nil) не меняются — COALESCE оставляет старое значение.
//
// Ошибки:
//   - ErrNotFound — пользователя нет
//   - ErrAlreadyExists — новый email уже занят
//   - ErrInternal — прочие ошибки БД
func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error) {
	var u models.User
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET email         = COALESCE($2, email),
		        username      = COALESCE($3, username),
		        is_active     = COALESCE($4, is_active),
		        password_hash = COALESCE($5, password_hash),
		        updated_at    = now()
		  WHERE id = $1
		  RETURNING id, email, username, password_hash, is_active, created_at, updated_at`,
		id, upd.Email, upd.Username, upd.IsActive, upd.PasswordHash,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &updatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	return u, nil
}

// Delete удаляет пользователя по id.
//
// Ошибки:
//   - ErrNotFound — пользователя нет
//   - ErrInternal — прочие ошибки БД
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
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

// Ping проверяет доступность базы (health-check).
func (r *UsersRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
