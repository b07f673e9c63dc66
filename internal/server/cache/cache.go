// Package cache — тонкая обёртка над Redis для read-through кэширования.
//
// Кэш хранит JSON-представление доменных объектов. Любая ошибка кэша
// (недоступен, битые данные) не фатальна: вызывающий код просто идёт в базу.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss возвращается, когда ключа нет в кэше.
var ErrMiss = errors.New("cache miss")

// Cache инкапсулирует клиент Redis и TTL по умолчанию.
//
// Нулевой (nil) *Cache валиден: все операции превращаются в no-op,
// Get всегда возвращает ErrMiss. Так сервисам не нужно проверять,
// включён ли Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создаёт Cache поверх готового клиента Redis.
// Если client == nil — возвращает nil (кэш выключен).
func New(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// Key собирает ключ кэша вида "prefix:part1:part2".
func Key(prefix string, parts ...any) string {
	key := prefix
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// Get читает значение по ключу и анмаршалит его в dest.
//
// Возвращает ErrMiss, если ключа нет или данные не читаются.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil и сетевые ошибки для вызывающего кода равнозначны
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set сохраняет значение по ключу с TTL по умолчанию.
// Ошибки маршалинга и записи молча игнорируются (кэш не источник истины).
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, c.ttl)
}

// Delete инвалидирует ключи (после update/delete в базе).
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// Ping проверяет доступность Redis (health-check).
// Для выключенного кэша всегда nil.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
