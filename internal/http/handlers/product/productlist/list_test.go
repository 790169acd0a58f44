package productlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, search, category string) ([]*models.Product, error) {
	args := m.Called(ctx, search, category)
	p, _ := args.Get(0).([]*models.Product)
	return p, args.Error(1)
}

func TestListHandler_ServeHTTP(t *testing.T) {
	t.Run("passes query to service", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "linen", "Dresses").
			Return([]*models.Product{{ID: "p-1", Name: "Linen Dress"}}, nil)
		h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products?search=linen&category=Dresses", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Status string `json:"status"`
			Data   struct {
				Products []models.Product `json:"products"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "success", body.Status)
		require.Len(t, body.Data.Products, 1)
		assert.Equal(t, "p-1", body.Data.Products[0].ID)
		svc.AssertExpectations(t)
	})

	t.Run("empty catalog renders empty list", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "", "").Return(nil, nil)
		h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"products":[]`)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "", "Boots").
			Return(nil, fmt.Errorf("services.catalog.List: %w", models.ErrUnknownCategory))
		h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=Boots", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Unknown category")
	})
}
