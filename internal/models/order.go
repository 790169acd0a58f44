package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownOrderStatus статус вне перечисления.
	ErrUnknownOrderStatus = errors.New("unknown order status")
	// ErrUnknownPaymentMethod способ оплаты вне перечисления.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// MaxItemQuantity предел количества одной позиции заказа.
const MaxItemQuantity = 1000

// MaxOrderTotal наибольшая сумма заказа, которую вмещает NUMERIC(12,2).
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// OrderStatus статус заказа: pending -> confirmed -> delivered, либо cancelled.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus проверяет строку на принадлежность перечислению.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return st, nil
	default:
		return "", ErrUnknownOrderStatus
	}
}

// PaymentMethod способ оплаты заказа.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod возвращает способ оплаты; пустая строка означает оплату при получении.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(s); pm {
	case "":
		return PaymentCashOnDelivery, nil
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer:
		return pm, nil
	default:
		return "", ErrUnknownPaymentMethod
	}
}

// ShippingAddress адрес доставки, все поля обязательны.
type ShippingAddress struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// Complete сообщает, заполнены ли все поля адреса.
func (a *ShippingAddress) Complete() bool {
	return a != nil &&
		a.FirstName != "" && a.LastName != "" && a.Street != "" &&
		a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// OrderItem позиция заказа: снимок названия и цены товара на момент оформления.
// Product заполняется при выдаче списка и на сохранённые данные не влияет.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Product   *ProductSummary `json:"productDetails,omitempty"`
}

// LineTotal стоимость позиции.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order заказ пользователя.
type Order struct {
	ID              string          `json:"id"`
	UserUID         string          `json:"user"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItemRequest позиция корзины, присланная клиентом. Цена и название
// намеренно отсутствуют: они берутся из каталога.
type OrderItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=1000"`
}

// CreateOrderRequest оформление заказа из корзины.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *ShippingAddress   `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// UpdateOrderStatusRequest смена статуса заказа администратором.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderEvent событие о заказе для брокера сообщений.
type OrderEvent struct {
	Event      string          `json:"event"`
	OrderID    string          `json:"orderId"`
	UserUID    string          `json:"userId"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurredAt"`
}
