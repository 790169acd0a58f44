// Package orderread отдаёт заказ по идентификатору.
package orderread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/order"
)

type Service interface {
	Read(ctx context.Context, id string) (*models.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заказ по ID
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.orderread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	o, err := h.service.Read(r.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Error("failed to read order", slog.String("id", id), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	response.Write(w, r, http.StatusOK, response.OK(map[string]any{"order": o}))
}
