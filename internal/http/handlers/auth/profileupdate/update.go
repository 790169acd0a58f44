// Package profileupdate обновляет имя, фамилию и email текущего пользователя.
package profileupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

type Service interface {
	UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Обновление профиля
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Новые данные профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или email занят"
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profileupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	current, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidation(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), current.UUID, req)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		response.WriteError(w, r, http.StatusBadRequest, "Email already taken")
		return
	case errors.Is(err, auth.ErrUserNotFound):
		response.WriteError(w, r, http.StatusNotFound, "User not found")
		return
	case err != nil:
		log.Error("failed to update profile", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	log.Info("profile updated", slog.String("user_id", user.UUID))
	response.Write(w, r, http.StatusOK, response.OKWithMessage("Profile updated successfully", map[string]any{"user": user}))
}
