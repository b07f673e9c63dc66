// Инициализация клиента Redis (кэш)
package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmalyshev/go-api-template/internal/shared/logger"
)

// InitRedis создаёт клиент Redis по настройкам из конфига и проверяет
// доступность сервера (Ping).
//
// Если redis.enabled=false — возвращает (nil, nil): приложение работает
// без кэша, все чтения идут напрямую в базу.
func InitRedis(cfg *Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	customLog := logger.NewHTTPLogger().Logger.Sugar()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		customLog.Errorf("error check redis connection: %v", err)
		return nil, err
	}

	customLog.Infof("redis connected: %s", cfg.Redis.Addr)
	return client, nil
}
