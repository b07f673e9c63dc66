package tests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/kmalyshev/go-api-template/internal/server/models"
	"github.com/kmalyshev/go-api-template/internal/server/repository"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
	"github.com/kmalyshev/go-api-template/internal/shared/utils"
)

// Успех
func TestUsersRepository_Create_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("test@mail.com", "tester", "hash").
		WillReturnRows(
			sqlmock.NewRows([]string{"id"}).AddRow(id),
		)

	got, err := repo.Create(context.Background(), "test@mail.com", "tester", "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Fatalf("expected %v, got %v", id, got)
	}
}

// Такой пользователь уже есть
func TestUsersRepository_Create_AlreadyExists(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	pgErr := &pgconn.PgError{
		Code: "23505", // unique_violation
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(pgErr)

	_, err := repo.Create(context.Background(), "test@mail.com", "tester", "hash")

	if err != serr.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// Ошибка сервера
func TestUsersRepository_Create_InternalError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), "test@mail.com", "tester", "hash")

	if err != serr.ErrInternal {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

// поиск по email
func TestUsersRepository_GetByEmail_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	created := time.Now()

	mock.ExpectQuery(`SELECT id, email, username, password_hash, is_active, created_at, updated_at`).
		WithArgs("test@mail.com").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "is_active", "created_at", "updated_at"}).
				AddRow(id, "test@mail.com", "tester", "hash", true, created, nil),
		)

	got, err := repo.GetByEmail(context.Background(), "test@mail.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id || got.Email != "test@mail.com" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("expected nil UpdatedAt, got %v", got.UpdatedAt)
	}
}

// не найден по email
func TestUsersRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`SELECT id, email, username, password_hash, is_active, created_at, updated_at`).
		WithArgs("test@mail.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "test@mail.com")

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// поиск по id
func TestUsersRepository_GetByID_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	created := time.Now()
	updated := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT id, email, username, password_hash, is_active, created_at, updated_at`).
		WithArgs(id).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "is_active", "created_at", "updated_at"}).
				AddRow(id, "test@mail.com", "tester", "hash", true, created, updated),
		)

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id {
		t.Fatalf("expected %v, got %v", id, got.ID)
	}
	if got.UpdatedAt == nil {
		t.Fatalf("expected non-nil UpdatedAt")
	}
}

// список с пагинацией
func TestUsersRepository_List_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	created := time.Now()

	mock.ExpectQuery(`SELECT id, email, username, password_hash, is_active, created_at, updated_at`).
		WithArgs(0, 20).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "is_active", "created_at", "updated_at"}).
				AddRow(uuid.New(), "a@mail.com", "a", "hash", true, created, nil).
				AddRow(uuid.New(), "b@mail.com", "b", "hash", false, created, nil),
		)

	got, err := repo.List(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
}

// ошибка сервера при листинге
func TestUsersRepository_List_InternalError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`SELECT id, email, username, password_hash, is_active, created_at, updated_at`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.List(context.Background(), 0, 20)

	if err != serr.ErrInternal {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

// частичное обновление
func TestUsersRepository_Update_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	created := time.Now()
	updated := created.Add(time.Minute)

	upd := models.UserUpdate{
		Email: utils.StrPtr("new@mail.com"),
	}

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(id, upd.Email, upd.Username, upd.IsActive, upd.PasswordHash).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "is_active", "created_at", "updated_at"}).
				AddRow(id, "new@mail.com", "tester", "hash", true, created, updated),
		)

	got, err := repo.Update(context.Background(), id, upd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "new@mail.com" {
		t.Fatalf("expected new@mail.com, got %s", got.Email)
	}
}

// обновление несуществующего
func TestUsersRepository_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`UPDATE users`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), uuid.New(), models.UserUpdate{})

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// новый email уже занят
func TestUsersRepository_Update_EmailTaken(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	pgErr := &pgconn.PgError{
		Code: "23505", // unique_violation
	}

	mock.ExpectQuery(`UPDATE users`).
		WillReturnError(pgErr)

	_, err := repo.Update(context.Background(), uuid.New(), models.UserUpdate{
		Email: utils.StrPtr("taken@mail.com"),
	})

	if err != serr.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// удаление
func TestUsersRepository_Delete_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// удаление несуществующего
func TestUsersRepository_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
