// Package config содержит инициализацию подключения к базе данных сервера
// и доступ к глобальному экземпляру *sql.DB.
//
// Пакет выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - настройку пула соединений из конфига;
//   - проверку доступности базы (Ping);
//   - запуск миграций (golang-migrate) при старте сервера.
//
// Примечание: пакет использует глобальную переменную DB. Инициализация должна
// выполняться один раз при запуске сервера.
package config

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/kmalyshev/go-api-template/internal/shared/logger"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// DB — глобальный экземпляр подключения к базе данных.
//
// Инициализируется функцией InitDB и используется другими пакетами через GetDB.
var DB *sql.DB

// InitDB открывает подключение к базе данных, настраивает пул,
// проверяет доступность и применяет миграции (если включены).
//
// Миграции запускаются из каталога cfg.Migrations.Path.
// Если миграции уже применены, ошибка migrate.ErrNoChange не считается ошибкой.
func InitDB(cfg *Config) error {
	customLog := logger.NewHTTPLogger().Logger.Sugar()

	var err error
	DB, err = sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		customLog.Errorf("error to connect db: %v", err)
		return err
	}

	// пул соединений из конфига
	if cfg.DB.MaxOpenConns > 0 {
		DB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		DB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		DB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err = DB.Ping(); err != nil {
		customLog.Errorf("error check db connection: %v", err)
		return err
	}

	if !cfg.Migrations.Enabled {
		customLog.Info("migrations disabled, skipping")
		return nil
	}

	if err := RunMigrations(DB, cfg.Migrations.Path); err != nil {
		customLog.Errorf("error applying migrations: %v", err)
		return err
	}

	customLog.Info("migrations applied successfully")
	return nil
}

// RunMigrations применяет все up-миграции из каталога path к базе db.
//
// Используется и сервером при старте, и командой apictl migrate up.
func RunMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+path,
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// GetDB возвращает текущий глобальный экземпляр *sql.DB.
//
// Возвращаемое значение может быть nil, если InitDB ещё не вызывался
// или завершился ошибкой.
func GetDB() *sql.DB {
	return DB
}
