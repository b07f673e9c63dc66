package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/kmalyshev/go-api-template/internal/server/api"
	"github.com/kmalyshev/go-api-template/internal/server/config"
	"github.com/kmalyshev/go-api-template/internal/server/crypto"
	"github.com/kmalyshev/go-api-template/internal/server/middleware"
	"github.com/kmalyshev/go-api-template/internal/server/models"
	"github.com/kmalyshev/go-api-template/internal/server/service"
	svcmocks "github.com/kmalyshev/go-api-template/internal/server/service/mocks"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
	"github.com/kmalyshev/go-api-template/internal/shared/logger"
)

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockPostsRepo, *svcmocks.MockSessionsRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := svcmocks.NewMockUsersRepo(ctrl)
	posts := svcmocks.NewMockPostsRepo(ctrl)
	sessions := svcmocks.NewMockSessionsRepo(ctrl)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "issuer",
			Audience:   "audience",
			AccessTTL:  1 * time.Minute,
			RefreshTTL: 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
			Sessions: config.SessionsConfig{
				RotateRefresh:  true,
				ReuseDetection: true,
			},
		},
		Password: config.PasswordConfig{
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 64 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
		Pagination: config.PaginationConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}

	svc := &service.Services{
		Auth:  service.NewAuthService(users, sessions, cfg),
		Users: service.NewUsersService(users, cfg, nil),
		Posts: service.NewPostsService(posts, cfg.Pagination, nil),
	}

	verifier := middleware.NewJWTVerifier(cfg.Auth.JWT.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	log := logger.NewHTTPLogger()

	return api.NewHandler(svc, log, verifier), users, posts, sessions
}

func testArgonParams() crypto.Argon2Params {
	return crypto.Argon2Params{
		Time:      1,
		MemoryKiB: 64 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

func TestHandler_Register_BadJSON(t *testing.T) {
	t.Parallel()

	h, _, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec.Body.String() == "" {
		t.Fatalf("expected error body, got empty")
	}
}

func TestHandler_Register_Success(t *testing.T) {
	t.Parallel()

	h, users, _, _ := NewTestHandler(t)

	userID := uuid.New()

	users.EXPECT().
		Create(gomock.Any(), "test@example.com", "tester", gomock.Any()).
		Return(userID, nil)

	body, _ := json.Marshal(api.RegisterRequest{
		Email:    "test@example.com",
		Username: "tester",
		Password: "StrongPass123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, rec.Code)
	}

	var resp api.RegisterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.UserID != userID.String() {
		t.Fatalf("expected %s, got %s", userID, resp.UserID)
	}
}

func TestHandler_Register_Conflict(t *testing.T) {
	t.Parallel()

	h, users, _, _ := NewTestHandler(t)

	users.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.Nil, serr.ErrAlreadyExists)

	body, _ := json.Marshal(api.RegisterRequest{
		Email:    "test@example.com",
		Username: "tester",
		Password: "StrongPass123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandler_Register_InvalidInput(t *testing.T) {
	t.Parallel()

	h, _, _, _ := NewTestHandler(t)

	body, _ := json.Marshal(api.RegisterRequest{
		Email:    "not-an-email",
		Username: "tester",
		Password: "StrongPass123",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Login_Success(t *testing.T) {
	t.Parallel()

	h, users, _, sessions := NewTestHandler(t)

	userID := uuid.New()
	password := "StrongPass123"

	hash, err := crypto.HashPassword(password, testArgonParams())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users.EXPECT().
		GetByEmail(gomock.Any(), "test@example.com").
		Return(models.User{
			ID:           userID,
			Email:        "test@example.com",
			PasswordHash: hash,
			IsActive:     true,
		}, nil)

	sessions.EXPECT().
		Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)

	body, _ := json.Marshal(api.LoginRequest{
		Email:    "test@example.com",
		Password: password,
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected tokens in response")
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h, users, _, _ := NewTestHandler(t)

	users.EXPECT().
		GetByEmail(gomock.Any(), "test@example.com").
		Return(models.User{}, serr.ErrNotFound)

	body, _ := json.Marshal(api.LoginRequest{
		Email:    "test@example.com",
		Password: "whatever1",
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandler_Refresh_Success(t *testing.T) {
	t.Parallel()

	h, _, _, sessions := NewTestHandler(t)

	userID := uuid.New()
	oldSessID := uuid.New()
	newSessID := uuid.New()

	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		t.Fatalf("new refresh token: %v", err)
	}

	sessions.EXPECT().
		GetByRefreshHash(gomock.Any(), crypto.HashRefreshToken(refresh)).
		Return(oldSessID, userID, time.Now().Add(time.Hour), nil, nil, nil)

	sessions.EXPECT().
		Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(newSessID, nil)

	sessions.EXPECT().
		RevokeAndReplace(gomock.Any(), oldSessID, newSessID).
		Return(nil)

	body, _ := json.Marshal(api.RefreshRequest{RefreshToken: refresh})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestHandler_Refresh_Unauthorized(t *testing.T) {
	t.Parallel()

	h, _, _, sessions := NewTestHandler(t)

	sessions.EXPECT().
		GetByRefreshHash(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, uuid.Nil, time.Time{}, nil, nil, serr.ErrUnauthorized)

	body, _ := json.Marshal(api.RefreshRequest{RefreshToken: "stolen-token"})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
