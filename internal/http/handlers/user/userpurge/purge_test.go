package userpurge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) DeleteTestUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestPurgeHandler_ServeHTTP(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("DeleteTestUsers", mock.Anything).Return(2, nil).Once()
	svc.On("DeleteTestUsers", mock.Anything).Return(0, errors.New("db down")).Once()
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/users/test-users", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Deleted 2 test users")
	assert.Contains(t, rr.Body.String(), `"deletedCount":2`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/users/test-users", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
