// Команды управления миграциями БД
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// имя миграции: строчные буквы, цифры, подчёркивания
var migrationNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// NewMigrateCmd создаёт группу команд миграций.
func NewMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление миграциями схемы БД",
	}

	cmd.AddCommand(NewMigrateCreateCmd(app))
	cmd.AddCommand(NewMigrateUpCmd(app))
	cmd.AddCommand(NewMigrateDownCmd(app))
	cmd.AddCommand(NewMigrateVersionCmd(app))

	return cmd
}

// newMigrator открывает подключение к базе и собирает migrate.Migrate
// поверх того же pgx-драйвера, которым пользуется сервер.
//
// Возвращённый *sql.DB нужно закрыть вызывающему коду.
func newMigrator(app *App) (*migrate.Migrate, *sql.DB, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Migrations.Path,
		"postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations init: %w", err)
	}

	return m, db, nil
}

// NewMigrateCreateCmd создаёт команду генерации новой миграции.
//
// Команда пишет пару пустых файлов:
//
//	<timestamp>_<name>.up.sql
//	<timestamp>_<name>.down.sql
//
// в каталог миграций из конфига (по умолчанию migrations/postgres).
//
// Пример:
//
//	apictl migrate create --name add_comments
func NewMigrateCreateCmd(app *App) *cobra.Command {
	var name string
	var dir string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Сгенерировать новую пару файлов миграции (up/down)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !migrationNameRe.MatchString(name) {
				return fmt.Errorf("некорректное имя миграции %q (допустимы a-z, 0-9, _)", name)
			}

			// каталог можно задать флагом, иначе берём из конфига;
			// если конфиг недоступен — дефолтный путь
			if dir == "" {
				if cfg, err := app.LoadConfig(); err == nil {
					dir = cfg.Migrations.Path
				} else {
					dir = "migrations/postgres"
				}
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			version := time.Now().UTC().Format("20060102150405")
			upPath := filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", version, name))
			downPath := filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", version, name))

			if err := os.WriteFile(upPath, []byte("-- +migrate up\n"), 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(downPath, []byte("-- +migrate down\n"), 0o644); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), upPath)
			fmt.Fprintln(cmd.OutOrStdout(), downPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "migration name (a-z, 0-9, _)")
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (default from config)")
	cmd.MarkFlagRequired("name")

	return cmd
}

// NewMigrateUpCmd создаёт команду применения всех миграций.
//
// Пример:
//
//	apictl migrate up
func NewMigrateUpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := newMigrator(app)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := m.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Fprintln(cmd.OutOrStdout(), "no change")
					return nil
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// NewMigrateDownCmd создаёт команду отката миграций.
//
// По умолчанию откатывает одну миграцию, количество задаётся флагом --steps.
//
// Пример:
//
//	apictl migrate down --steps 2
func NewMigrateDownCmd(app *App) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Откатить миграции (по умолчанию одну)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("steps должен быть > 0 (сейчас %d)", steps)
			}

			m, db, err := newMigrator(app)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := m.Steps(-steps); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Fprintln(cmd.OutOrStdout(), "no change")
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "how many migrations to roll back")

	return cmd
}

// NewMigrateVersionCmd создаёт команду вывода текущей версии схемы.
//
// Пример:
//
//	apictl migrate version
func NewMigrateVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать текущую версию схемы",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, db, err := newMigrator(app)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := m.Version()
			if err != nil {
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%v\n", version, dirty)
			return nil
		},
	}
}
