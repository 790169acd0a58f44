// Package password обрабатывает смену пароля текущего пользователя.
package password

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
	ChangePassword(ctx context.Context, userUID string, req models.ChangePasswordRequest) error
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
// @Summary Смена пароля
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль или слишком короткий новый"
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/change-password [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.password"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	current, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "NewPassword" && verrs[0].ActualTag() == "min" {
			response.WriteError(w, r, http.StatusBadRequest, "New password must be at least 6 characters long")
			return
		}
		response.WriteError(w, r, http.StatusBadRequest, "Please provide current password and new password")
		return
	}

	err := h.service.ChangePassword(r.Context(), current.UUID, req)
	switch {
	case errors.Is(err, auth.ErrWrongPassword):
		response.WriteError(w, r, http.StatusBadRequest, "Current password is incorrect")
		return
	case errors.Is(err, auth.ErrPasswordTooShort):
		response.WriteError(w, r, http.StatusBadRequest, "New password must be at least 6 characters long")
		return
	case errors.Is(err, auth.ErrUserNotFound):
		response.WriteError(w, r, http.StatusNotFound, "User not found")
		return
	case err != nil:
		log.Error("failed to change password", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to change password")
		return
	}

	log.Info("password changed", slog.String("user_id", current.UUID))
	response.Write(w, r, http.StatusOK, response.OKWithMessage("Password changed successfully", nil))
}
