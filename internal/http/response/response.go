// Package response формирует единый JSON-конверт ответов API:
// {"status": "success"|"error", "message": ..., "data": ...}.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response стандартная структура JSON-ответа.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"Product not found"`
}

// OK успешный ответ с данными.
func OK(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// OKWithMessage успешный ответ с сообщением и, возможно, данными.
func OKWithMessage(msg string, data any) Response {
	return Response{Status: StatusSuccess, Message: msg, Data: data}
}

// Error ответ с ошибкой.
func Error(msg string) Response {
	return Response{Status: StatusError, Message: msg}
}

// ValidationError собирает сообщения об ошибках валидации в одну строку.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		field := jsonName(err.Namespace())
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", field, err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s", field, err.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than or equal to %s", field, err.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("field %s must be less than or equal to %s", field, err.Param()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid url", field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return Response{
		Status:  StatusError,
		Message: strings.Join(msgs, ", "),
	}
}

// jsonName превращает "CreateOrderRequest.Items[0].Quantity" в "items[0].quantity".
func jsonName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// Write отправляет конверт с указанным HTTP-статусом.
func Write(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// WriteError отправляет ошибку с указанным HTTP-статусом.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	Write(w, r, status, Error(msg))
}

// WriteValidation отправляет 400 с описанием ошибок валидации.
func WriteValidation(w http.ResponseWriter, r *http.Request, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		Write(w, r, http.StatusBadRequest, ValidationError(verrs))
		return
	}
	WriteError(w, r, http.StatusBadRequest, "invalid request")
}
