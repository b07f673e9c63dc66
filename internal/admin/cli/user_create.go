// Команды управления пользователями
package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kmalyshev/go-api-template/internal/server/crypto"
	"github.com/kmalyshev/go-api-template/internal/server/repository"
)

// NewUserCmd создаёт группу команд управления пользователями.
func NewUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Управление пользователями",
	}

	cmd.AddCommand(NewUserCreateCmd(app))

	return cmd
}

// NewUserCreateCmd создаёт команду регистрации пользователя напрямую в БД,
// минуя HTTP API. Удобно для создания первого пользователя после развёртывания.
//
// Пароль можно передать флагом --password, подать через STDIN
// (--password-stdin) или ввести интерактивно со скрытым вводом.
//
// Пример:
//
//	apictl user create --email admin@example.com --username admin
func NewUserCreateCmd(app *App) *cobra.Command {
	var email string
	var username string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("флаг --email обязателен")
			}
			if strings.TrimSpace(username) == "" {
				return errors.New("флаг --username обязателен")
			}

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			if password == "" {
				password, err = readPassword(cmd, passwordStdin)
				if err != nil {
					return err
				}
			}
			if len(password) < 8 {
				return errors.New("пароль должен быть не короче 8 символов")
			}

			hash, err := crypto.HashPassword(password, crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			})
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewUsersRepository(db)
			id, err := repo.Create(cmd.Context(), email, username, hash)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user created: id=%s email=%s\n", id, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&username, "username", "", "user name")
	cmd.Flags().StringVar(&password, "password", "", "password (omit to be prompted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")

	return cmd
}

// readPassword читает пароль нового пользователя.
//
// Режимы:
//   - fromStdin=true: читает пароль из STDIN полностью (удобно для скриптов/CI);
//   - fromStdin=false: читает пароль интерактивно из терминала со скрытым вводом.
//
// Важно:
//   - если fromStdin=false, но stdin не является терминалом, функция вернёт ошибку
//     "stdin is not a terminal; use --password-stdin".
//   - пустой пароль считается ошибкой.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
