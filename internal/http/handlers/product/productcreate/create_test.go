package productcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, adminUID string, req models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, adminUID, req)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *ServiceMock)
		wantCode int
		wantMsg  string
	}{
		{
			name: "created",
			body: `{"name":"Linen Dress","price":49.9,"category":"Dresses","stock":3}`,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "admin-1", mock.MatchedBy(func(req models.CreateProductRequest) bool {
					return req.Name == "Linen Dress" && req.Price.Equal(decimal.RequireFromString("49.9"))
				})).Return(&models.Product{ID: "p-1", Name: "Linen Dress"}, nil)
			},
			wantCode: http.StatusCreated,
			wantMsg:  "Product created successfully",
		},
		{
			name:     "missing price",
			body:     `{"name":"Linen Dress","category":"Dresses"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "field price is a required field",
		},
		{
			name:     "negative stock",
			body:     `{"name":"Linen Dress","price":1,"category":"Dresses","stock":-1}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "field stock must be greater than or equal to 0",
		},
		{
			name: "unknown category",
			body: `{"name":"Boots","price":10,"category":"Boots"}`,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "admin-1", mock.Anything).
					Return(nil, fmt.Errorf("services.catalog.Create: %w", models.ErrUnknownCategory))
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Unknown category",
		},
		{
			name: "negative price",
			body: `{"name":"Boots","price":-10,"category":"Tops"}`,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "admin-1", mock.Anything).
					Return(nil, fmt.Errorf("services.catalog.Create: %w", catalog.ErrNegativePrice))
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Price must not be negative",
		},
		{
			name: "price too high",
			body: `{"name":"Boots","price":99999999999,"category":"Tops"}`,
			setup: func(m *ServiceMock) {
				m.On("Create", mock.Anything, "admin-1", mock.Anything).
					Return(nil, fmt.Errorf("services.catalog.Create: %w", catalog.ErrPriceTooHigh))
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Price is too high",
		},
		{
			name:     "stock above limit",
			body:     `{"name":"Boots","price":1,"category":"Tops","stock":5000000}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "field stock must be less than or equal to 1000000",
		},
		{
			name:     "broken json",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User,
				&models.User{UUID: "admin-1", Role: models.RoleAdmin}))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			var resp response.Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			svc.AssertExpectations(t)
		})
	}
}
