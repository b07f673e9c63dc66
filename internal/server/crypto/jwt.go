// Package crypto содержит криптографические примитивы сервера:
//   - генерацию и подпись JWT access-токенов (HS256);
//   - хэширование паролей пользователей (argon2id);
//   - генерацию и хэширование refresh-токенов.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает access-токен для пользователя.
//
// userID попадает в claims.Subject; iat/exp выставляются от текущего момента.
func NewAccessToken(userID string, cfg JWTConfig) (string, error) {
	if cfg.SigningKey == "" {
		return "", errors.New("empty signing key")
	}

	issuedAt := time.Now()
	expiresAt := issuedAt.Add(cfg.AccessTTL)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    cfg.Issuer,
		Audience:  jwt.ClaimStrings{cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	return t.SignedString([]byte(cfg.SigningKey))
}
