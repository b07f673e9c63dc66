// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params — параметры argon2id из конфига.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

const hashPrefix = "argon2id$v=19$"

// HashPassword возвращает строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p Argon2Params) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	var sb strings.Builder
	sb.WriteString(hashPrefix)
	fmt.Fprintf(&sb, "m=%d,t=%d,p=%d$", p.MemoryKiB, p.Time, p.Threads)
	sb.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(base64.RawStdEncoding.EncodeToString(key))

	return sb.String(), nil
}

// VerifyPassword сравнивает пароль с закодированным хэшем.
// Параметры argon2 берутся из самой строки хэша, сравнение константное по времени.
func VerifyPassword(password, encoded string) (bool, error) {
	params, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// decodeHash разбирает строку вида argon2id$v=19$m=...,t=...,p=...$salt$hash.
func decodeHash(encoded string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0]+"$"+parts[1]+"$" != hashPrefix {
		return p, nil, nil, errors.New("invalid hash format")
	}

	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return p, nil, nil, errors.New("invalid salt")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, errors.New("invalid hash")
	}

	return p, salt, hash, nil
}
