package cli

import (
	"database/sql"
	"fmt"

	"github.com/kmalyshev/go-api-template/internal/server/config"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// openDB открывает прямое подключение к PostgreSQL для административных команд.
// Подключение закрывает вызывающий код.
func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
