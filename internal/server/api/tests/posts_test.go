package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/kmalyshev/go-api-template/internal/server/api"
	"github.com/kmalyshev/go-api-template/internal/server/middleware"
	"github.com/kmalyshev/go-api-template/internal/server/models"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
	"github.com/kmalyshev/go-api-template/internal/shared/utils"
)

func TestHandler_CreatePost_Success(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	authorID := uuid.New()
	postID := uuid.New()

	posts.EXPECT().
		Create(gomock.Any(), authorID, "title", "content").
		Return(models.Post{ID: postID, AuthorID: authorID, Title: "title", Content: "content", CreatedAt: time.Now()}, nil)

	body, _ := json.Marshal(api.CreatePostRequest{Title: "title", Content: "content"})

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBuffer(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), authorID.String()))
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.PostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp.ID != postID.String() || resp.AuthorID != authorID.String() {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandler_CreatePost_Unauthorized(t *testing.T) {
	t.Parallel()

	h, _, _, _ := NewTestHandler(t)

	body, _ := json.Marshal(api.CreatePostRequest{Title: "title", Content: "content"})

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandler_CreatePost_EmptyTitle(t *testing.T) {
	t.Parallel()

	h, _, _, _ := NewTestHandler(t)

	body, _ := json.Marshal(api.CreatePostRequest{Title: "   ", Content: "content"})

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBuffer(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_ListPosts_Success(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	posts.EXPECT().
		List(gomock.Any(), 0, 20).
		Return([]models.Post{
			{ID: uuid.New(), AuthorID: uuid.New(), Title: "t1", CreatedAt: time.Now()},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()

	h.ListPosts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp api.ListPostsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if len(resp.Posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(resp.Posts))
	}
}

func TestHandler_GetPost_Success(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	postID := uuid.New()

	posts.EXPECT().
		GetByID(gomock.Any(), postID).
		Return(models.Post{ID: postID, AuthorID: uuid.New(), Title: "title"}, nil)

	r := chi.NewRouter()
	r.Get("/posts/{id}", h.GetPost)

	req := httptest.NewRequest(http.MethodGet, "/posts/"+postID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetPost_NotFound(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	posts.EXPECT().
		GetByID(gomock.Any(), gomock.Any()).
		Return(models.Post{}, serr.ErrNotFound)

	r := chi.NewRouter()
	r.Get("/posts/{id}", h.GetPost)

	req := httptest.NewRequest(http.MethodGet, "/posts/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_UpdatePost_Success(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	postID := uuid.New()
	authorID := uuid.New()

	posts.EXPECT().
		GetByID(gomock.Any(), postID).
		Return(models.Post{ID: postID, AuthorID: authorID}, nil)

	posts.EXPECT().
		Update(gomock.Any(), postID, gomock.Any()).
		Return(models.Post{ID: postID, AuthorID: authorID, Title: "new"}, nil)

	r := chi.NewRouter()
	r.Put("/posts/{id}", h.UpdatePost)

	body, _ := json.Marshal(api.UpdatePostRequest{Title: utils.StrPtr("new")})

	req := httptest.NewRequest(http.MethodPut, "/posts/"+postID.String(), bytes.NewBuffer(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), authorID.String()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_UpdatePost_Forbidden(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	postID := uuid.New()

	posts.EXPECT().
		GetByID(gomock.Any(), postID).
		Return(models.Post{ID: postID, AuthorID: uuid.New()}, nil)

	r := chi.NewRouter()
	r.Put("/posts/{id}", h.UpdatePost)

	body, _ := json.Marshal(api.UpdatePostRequest{Title: utils.StrPtr("new")})

	req := httptest.NewRequest(http.MethodPut, "/posts/"+postID.String(), bytes.NewBuffer(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHandler_DeletePost_Success(t *testing.T) {
	t.Parallel()

	h, _, posts, _ := NewTestHandler(t)

	postID := uuid.New()
	authorID := uuid.New()

	posts.EXPECT().
		GetByID(gomock.Any(), postID).
		Return(models.Post{ID: postID, AuthorID: authorID}, nil)

	posts.EXPECT().
		Delete(gomock.Any(), postID).
		Return(nil)

	r := chi.NewRouter()
	r.Delete("/posts/{id}", h.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/"+postID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), authorID.String()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_DeletePost_Unauthorized(t *testing.T) {
	t.Parallel()

	h, _, _, _ := NewTestHandler(t)

	r := chi.NewRouter()
	r.Delete("/posts/{id}", h.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, "/posts/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
