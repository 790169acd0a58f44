// Package orderstatus меняет статус заказа.
package orderstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/order"
)

type Service interface {
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
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
// @Summary Смена статуса заказа
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Param request body models.UpdateOrderStatusRequest true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id}/status [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.orderstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidation(w, r, err)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, models.ErrUnknownOrderStatus):
		response.WriteError(w, r, http.StatusBadRequest, "Invalid order status")
		return
	case errors.Is(err, order.ErrOrderNotFound):
		response.WriteError(w, r, http.StatusNotFound, "Order not found")
		return
	case err != nil:
		log.Error("failed to update order status", slog.String("id", id), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	log.Info("order status updated", slog.String("id", id), slog.String("status", string(updated.Status)))
	response.Write(w, r, http.StatusOK, response.OKWithMessage("Order status updated", map[string]any{"order": updated}))
}
