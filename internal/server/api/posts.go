// HTTP-хендлеры CRUD постов
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kmalyshev/go-api-template/internal/server/models"
	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
)

// CreatePostRequest — запрос на создание поста.
// Автором становится текущий пользователь (из JWT).
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest — запрос на частичное обновление поста.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ListPostsResponse — ответ эндпоинта списка постов.
type ListPostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

// CreatePost создаёт пост от имени аутентифицированного пользователя.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Create post request"
// @Success      201 {object} PostResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	author, err := actorID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	post, err := h.Svc.Posts.Create(r.Context(), author, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		case errors.Is(err, serr.ErrUnauthorized):
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		default:
			h.Log.Logger.Sugar().Errorw("create post failed", "error", err, "author_id", author.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// ListPosts возвращает страницу постов (свежие первыми).
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        skip  query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200 {object} ListPostsResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)

	posts, err := h.Svc.Posts.List(r.Context(), skip, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	resp := ListPostsResponse{Posts: make([]PostResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, toPostResponse(p))
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GetPost возвращает пост по id.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (uuid)"
// @Success      200 {object} PostResponse
// @Failure      400 {object} ErrorResponse "Invalid id"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      404 {object} ErrorResponse "Post not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /posts/{id} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	post, err := h.Svc.Posts.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// UpdatePost обновляет пост. Доступно только автору.
//
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (uuid)"
// @Param        request body UpdatePostRequest true "Fields to update"
// @Success      200 {object} PostResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not the author"
// @Failure      404 {object} ErrorResponse "Post not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /posts/{id} [put]
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	actor, err := actorID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	post, err := h.Svc.Posts.Update(r.Context(), actor, id, models.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		case errors.Is(err, serr.ErrForbidden):
			WriteError(w, http.StatusForbidden, serr.ErrForbidden)
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("update post failed", "error", err, "post_id", id.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// DeletePost удаляет пост. Доступно только автору.
//
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id path string true "Post ID (uuid)"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse "Invalid id"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not the author"
// @Failure      404 {object} ErrorResponse "Post not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	actor, err := actorID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	if err := h.Svc.Posts.Delete(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, serr.ErrForbidden):
			WriteError(w, http.StatusForbidden, serr.ErrForbidden)
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("delete post failed", "error", err, "post_id", id.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
