// Package productread отдаёт один товар каталога.
package productread

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
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type Service interface {
	Read(ctx context.Context, id string) (*models.Product, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Товар по ID
// @Tags Products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.productread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	product, err := h.service.Read(r.Context(), id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		response.WriteError(w, r, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Error("failed to read product", slog.String("id", id), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	response.Write(w, r, http.StatusOK, response.OK(map[string]any{"product": product}))
}
