// Package productcreate добавляет товар в каталог.
package productcreate

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
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type Service interface {
	Create(ctx context.Context, adminUID string, req models.CreateProductRequest) (*models.Product, error)
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
// @Summary Создание товара
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateProductRequest true "Данные товара"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.productcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.WriteValidation(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), admin.UUID, req)
	switch {
	case errors.Is(err, models.ErrUnknownCategory), errors.Is(err, catalog.ErrInvalidProduct):
		response.WriteError(w, r, http.StatusBadRequest, invalidMessage(err))
		return
	case err != nil:
		log.Error("failed to create product", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to create product")
		return
	}

	log.Info("product created", slog.String("id", product.ID))
	response.Write(w, r, http.StatusCreated, response.OKWithMessage("Product created successfully", map[string]any{"product": product}))
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
