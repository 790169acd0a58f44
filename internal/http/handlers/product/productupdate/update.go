// Package productupdate частично обновляет товар.
package productupdate

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
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type Service interface {
	Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
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
// @Summary Обновление товара
// @Description Меняет только переданные поля.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param request body models.UpdateProductRequest true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.productupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidation(w, r, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		response.WriteError(w, r, http.StatusNotFound, "Product not found")
		return
	case errors.Is(err, models.ErrUnknownCategory), errors.Is(err, catalog.ErrInvalidProduct):
		response.WriteError(w, r, http.StatusBadRequest, invalidMessage(err))
		return
	case err != nil:
		log.Error("failed to update product", slog.String("id", id), sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to update product")
		return
	}

	response.Write(w, r, http.StatusOK, response.OKWithMessage("Product updated successfully", map[string]any{"product": product}))
}

// invalidMessage переводит ошибку проверки товара в сообщение для клиента.
func invalidMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrUnknownCategory):
		return "Unknown category"
	case errors.Is(err, catalog.ErrEmptyName):
		return "Product name is required"
	case errors.Is(err, catalog.ErrPriceRequired):
		return "Price is required"
	case errors.Is(err, catalog.ErrNegativePrice):
		return "Price must not be negative"
	case errors.Is(err, catalog.ErrPriceTooHigh):
		return "Price is too high"
	case errors.Is(err, catalog.ErrInvalidStock):
		return "Stock is out of range"
	default:
		return "Invalid product data"
	}
}
