package productread

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/catalog"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Read(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func serve(h http.Handler, id string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/products/{id}", h.ServeHTTP)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	return rr
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Read", mock.Anything, "p-1").Return(&models.Product{ID: "p-1", Name: "Knit Cardigan"}, nil)
	svc.On("Read", mock.Anything, "gone").
		Return(nil, fmt.Errorf("services.catalog.Read: %w", catalog.ErrProductNotFound))
	svc.On("Read", mock.Anything, "boom").Return(nil, fmt.Errorf("db down"))
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	rr := serve(h, "p-1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Knit Cardigan")

	rr = serve(h, "gone")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Product not found")

	rr = serve(h, "boom")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}
