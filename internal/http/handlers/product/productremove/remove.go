// Package productremove снимает товар с продажи.
package productremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type Service interface {
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление товара
// @Description Мягкое удаление: товар пропадает из каталога, заказы не меняются.
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.productremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	err := h.service.Remove(r.Context(), id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Error("failed to remove product", slog.String("id", id), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	log.Info("product removed", slog.String("id", id))
	response.Write(w, r, http.StatusOK, response.OKWithMessage("Product deleted successfully", nil))
}
