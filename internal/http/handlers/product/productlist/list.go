// Package productlist отдаёт каталог активных товаров.
package productlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type Service interface {
	List(ctx context.Context, search, category string) ([]*models.Product, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список товаров
// @Description Активные товары с поиском по названию и фильтром по категории.
// @Tags Products
// @Produce json
// @Param search query string false "Подстрока названия"
// @Param category query string false "Категория"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестная категория"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.productlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	products, err := h.service.List(r.Context(), q.Get("search"), q.Get("category"))
	if errors.Is(err, models.ErrUnknownCategory) {
		response.WriteError(w, r, http.StatusBadRequest, "Unknown category")
		return
	}
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []*models.Product{}
	}

	response.Write(w, r, http.StatusOK, response.OK(map[string]any{"products": products}))
}
