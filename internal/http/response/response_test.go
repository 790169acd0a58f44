package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Product  string `validate:"required"`
	Quantity int    `validate:"required,min=1"`
}

type request struct {
	Email string `validate:"required,email"`
	Items []item `validate:"required,min=1,dive"`
}

func TestOK(t *testing.T) {
	resp := OK(map[string]int{"a": 1})
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Empty(t, resp.Message)
}

func TestError_OmitsData(t *testing.T) {
	raw, err := json.Marshal(Error("Product not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Product not found"}`, string(raw))
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(request{Email: "nope", Items: []item{{Quantity: 0}}})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Message, "field email must be a valid email")
	assert.Contains(t, resp.Message, "field items[0].product is a required field")
}

func TestWrite_SetsStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, http.StatusNotFound, "Order not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var got Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Order not found", got.Message)
}

func TestWriteValidation_NonValidatorError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteValidation(w, r, assert.AnError)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
