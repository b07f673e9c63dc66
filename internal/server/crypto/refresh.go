package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// длина refresh-токена в байтах до кодирования
const refreshTokenLen = 32

// NewRefreshToken генерирует случайный refresh-токен (256 бит, base64url).
func NewRefreshToken() (string, error) {
	raw := make([]byte, refreshTokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashRefreshToken возвращает sha256-хэш токена.
// В базе храним только хэш, сам токен знает только клиент.
func HashRefreshToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
