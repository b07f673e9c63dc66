// Package cli реализует административный командный интерфейс (apictl).
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку конфигурации сервера (server.yaml + .env);
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kmalyshev/go-api-template/internal/server/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ConfigPath — путь к файлу конфигурации сервера.
	ConfigPath string

	// Cfg — загруженная конфигурация. Заполняется лениво через LoadConfig,
	// чтобы команды вроде version работали без конфига.
	Cfg *config.Config
}

// LoadConfig загружает конфигурацию сервера (один раз).
//
// Переменные окружения из .env подхватываются в PersistentPreRunE root-команды,
// поэтому ${DATABASE_DSN} и подобные плейсхолдеры уже подставляются.
func (a *App) LoadConfig() (*config.Config, error) {
	if a.Cfg != nil {
		return a.Cfg, nil
	}
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	a.Cfg = cfg
	return cfg, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{
		ConfigPath: "./configs/server.yaml",
	}

	cmd := &cobra.Command{
		Use:   "apictl",
		Short: "apictl — административная утилита API-сервиса",
		Long: `apictl.

Команды:
  migrate create   Сгенерировать новую пару файлов миграции
  migrate up       Применить все миграции
  migrate down     Откатить миграции
  migrate version  Показать текущую версию схемы
  user create      Создать пользователя
  version          Версия и дата сборки

Примеры:

Сгенерировать миграцию:
  apictl migrate create --name add_comments

Применить миграции:
  apictl migrate up

Создать пользователя (пароль спросим интерактивно):
  apictl user create --email admin@example.com --username admin
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env опционален: без него конфиг может собраться из окружения
			_ = godotenv.Load()
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "./configs/server.yaml", "path to server config")

	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewUserCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
