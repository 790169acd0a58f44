// Package usergenerate пересоздаёт тестовые учётные записи.
package usergenerate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	GenerateTestUsers(ctx context.Context) (*models.TestAccounts, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Тестовые пользователи
// @Description Удаляет и заново создаёт testuser@example.com и testadmin@example.com, возвращает их токены.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/generate-test-users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.usergenerate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accounts, err := h.service.GenerateTestUsers(r.Context())
	if err != nil {
		log.Error("failed to generate test users", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to generate test users")
		return
	}

	log.Info("test users generated")
	response.Write(w, r, http.StatusOK, response.OKWithMessage("Test users generated successfully", accounts))
}
