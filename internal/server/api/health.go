// Health-check эндпоинт
package api

import (
	"net/http"

	serr "github.com/kmalyshev/go-api-template/internal/shared/errors"
)

// HealthResponse — ответ health-check.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health проверяет доступность базы данных и кэша.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} ErrorResponse "Dependency unavailable"
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Users.HealthCheck(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, serr.ErrInternal)
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
