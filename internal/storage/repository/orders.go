package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const orderColumns = `id, user_uid, items, shipping_address, payment_method, status, total, created_at, updated_at`

// storedItem снимок позиции в JSONB; данные каталога сюда не попадают.
type storedItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	var items, address []byte
	if err := row.Scan(&o.ID, &o.UserUID, &items, &address, &o.PaymentMethod,
		&o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, err
	}
	return o, nil
}

func marshalItems(items []models.OrderItem) ([]byte, error) {
	stored := make([]storedItem, len(items))
	for i, it := range items {
		stored[i] = storedItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity}
	}
	return json.Marshal(stored)
}

// CreateOrder сохраняет заказ вместе со снимком позиций и адреса.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := marshalItems(o.Items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO orders (id, user_uid, items, shipping_address, payment_method, status, total)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + orderColumns
	created, err := scanOrder(s.DB.QueryRowContext(ctx, query,
		o.ID, o.UserUID, items, address, o.PaymentMethod, o.Status, o.Total))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return created, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Storage) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	const op = "storage.GetOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return o, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	orders := []*models.Order{}
	if !validID(userUID) {
		return orders, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// UpdateOrderStatus меняет статус заказа и возвращает обновлённую запись.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	const op = "storage.UpdateOrderStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `UPDATE orders SET status = $2, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + orderColumns
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return o, nil
}
