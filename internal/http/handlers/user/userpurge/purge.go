// Package userpurge удаляет тестовые учётные записи.
package userpurge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

type Service interface {
	DeleteTestUsers(ctx context.Context) (int, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление тестовых пользователей
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/test-users [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userpurge"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	deleted, err := h.service.DeleteTestUsers(r.Context())
	if err != nil {
		log.Error("failed to delete test users", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to delete test users")
		return
	}

	log.Info("test users deleted", slog.Int("count", deleted))
	response.Write(w, r, http.StatusOK, response.OKWithMessage(
		fmt.Sprintf("Deleted %d test users", deleted),
		map[string]int{"deletedCount": deleted},
	))
}
