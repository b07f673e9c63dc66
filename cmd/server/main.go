// @title           Go API Template
// @version         1.0
// @description     Стартовый шаблон REST API сервиса на Go.
// @description     Auth (JWT) + users + posts поверх PostgreSQL и Redis.

// @contact.name   Kirill Malyshev
// @contact.url    https://github.com/kmalyshev

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа HTTP-сервера.
//
// Пакет отвечает за инициализацию и жизненный цикл сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - инициализацию подключения к базе данных и применение миграций;
//   - инициализацию клиента Redis (если кэш включён);
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - настройку и запуск сервера с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
// HTTP API сервера реализовано в пакете internal/server/api и документируется
// с помощью OpenAPI (Swagger).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/kmalyshev/go-api-template/internal/server/api"
	"github.com/kmalyshev/go-api-template/internal/server/cache"
	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/middleware"
	"github.com/kmalyshev/go-api-template/internal/server/repository"
	"github.com/kmalyshev/go-api-template/internal/server/service"
	"github.com/kmalyshev/go-api-template/internal/shared/logger"

	_ "github.com/kmalyshev/go-api-template/swagger/docs"
)

func main() {
	bootLog := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		bootLog.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		bootLog.Fatal(err)
	}
	cfg.ApplyEnvOverrides()

	// логгер с уровнем/форматом из конфига
	httpLogger := logger.New(cfg.Log.Level, cfg.Log.Format)
	sugar := httpLogger.Logger.Sugar()

	// подключаем базу данных (+ миграции)
	if err := config.InitDB(cfg); err != nil {
		sugar.Fatal(err)
	}

	db := config.GetDB()
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	// подключаем redis (может быть nil если кэш выключен)
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		sugar.Fatal(err)
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()
	appCache := cache.New(redisClient, cfg.Redis.TTL)

	// создаём репы
	repos := service.Repositories{
		Users:    repository.NewUsersRepository(db),
		Posts:    repository.NewPostsRepository(db),
		Sessions: repository.NewSessionsRepository(db),
	}
	// создаём сервисы
	svc := service.NewServices(repos, cfg, appCache)
	// создаём jwt
	verifier := middleware.NewJWTVerifier(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	// создаём хандлер и роутер
	handler := api.NewHandler(svc, httpLogger, verifier)
	router := api.NewRouter(handler, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s", addr)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}
