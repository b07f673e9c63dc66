// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// ошибки проверки access-токена; наружу уходят текстом ответа 401
var (
	errTokenMissing  = errors.New("missing bearer token")
	errTokenExpired  = errors.New("token expired")
	errTokenInvalid  = errors.New("invalid token")
	errTokenIssuer   = errors.New("invalid token issuer")
	errTokenAudience = errors.New("invalid token audience")
	errTokenSubject  = errors.New("invalid token subject")
)

// JWTVerifier проверяет JWT access-токены входящих запросов.
//
// Подпись — только HS256; issuer и audience сверяются, если заданы.
type JWTVerifier struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{SigningKey: signingKey, Issuer: issuer, Audience: audience}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Второе значение false означает, что пользователь не аутентифицирован.
func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(userIDKey).(string)
	return s, ok
}

// WithUserID кладёт userID в контекст.
// Используется в тестах хендлеров, чтобы не гонять настоящий JWT.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// verify разбирает и валидирует токен, возвращает userID из claims.Subject.
func (v *JWTVerifier) verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if _, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(v.SigningKey), nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errTokenExpired
		}
		return "", errTokenInvalid
	}

	if v.Issuer != "" && claims.Issuer != v.Issuer {
		return "", errTokenIssuer
	}
	if v.Audience != "" && !containsAudience(claims.Audience, v.Audience) {
		return "", errTokenAudience
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return "", errTokenSubject
	}
	return userID, nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// AuthMiddleware возвращает middleware аутентификации.
//
// Ожидает заголовок Authorization: Bearer <token>; после успешной проверки
// кладёт userID в контекст запроса, иначе отвечает 401.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				http.Error(w, errTokenMissing.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := v.verify(tokenStr)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
