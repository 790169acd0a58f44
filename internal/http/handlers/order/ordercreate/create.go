// Package ordercreate оформляет заказ текущего пользователя.
package ordercreate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/order"
)

type Service interface {
	Create(ctx context.Context, userUID string, req models.CreateOrderRequest) (*models.Order, error)
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
// @Summary Оформление заказа
// @Description Цена и название фиксируются на момент заказа, итог считается на сервере.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateOrderRequest true "Позиции, адрес и способ оплаты"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или товар не найден"
// @Failure 401 {object} response.ErrorResponse
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.ordercreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		response.WriteError(w, r, http.StatusBadRequest, "No order items")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidation(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), user.UUID, req)
	switch {
	case errors.Is(err, order.ErrProductNotFound):
		response.WriteError(w, r, http.StatusBadRequest, "Product not found")
		return
	case errors.Is(err, order.ErrEmptyOrder):
		response.WriteError(w, r, http.StatusBadRequest, "No order items")
		return
	case errors.Is(err, order.ErrInvalidQuantity):
		response.WriteError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Item quantity must be between 1 and %d", models.MaxItemQuantity))
		return
	case errors.Is(err, order.ErrMissingAddress):
		response.WriteError(w, r, http.StatusBadRequest, "Shipping address is required")
		return
	case errors.Is(err, models.ErrUnknownPaymentMethod):
		response.WriteError(w, r, http.StatusBadRequest, "Invalid payment method")
		return
	case errors.Is(err, order.ErrOrderTooLarge):
		response.WriteError(w, r, http.StatusBadRequest, "Order total is too large")
		return
	case err != nil:
		log.Error("failed to create order", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to create order")
		return
	}

	log.Info("order created", slog.String("id", created.ID), slog.String("user_id", user.UUID))
	response.Write(w, r, http.StatusCreated, response.OKWithMessage("Order created successfully", map[string]any{"order": created}))
}
