// Package order реализует оформление заказов из корзины и работу с ними.
//
// Цена и название каждой позиции берутся из каталога в момент оформления и
// сохраняются в заказе как снимок: последующие изменения товара на заказ
// не влияют. Остатки на складе при оформлении не списываются.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/rabbitmq"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

var (
	ErrEmptyOrder      = errors.New("order items are required")
	ErrInvalidQuantity = errors.New("item quantity is out of range")
	ErrOrderTooLarge   = errors.New("order total is too large")
	ErrMissingAddress  = errors.New("shipping address is required")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

var orderEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_orders_total",
	Help: "Orders by lifecycle event.",
}, []string{"event"})

// Repository хранилище заказов.
type Repository interface {
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// ProductReader чтение живых данных каталога.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error)
}

// EventPublisher публикация событий о заказах.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service сервис заказов.
type Service struct {
	log       *slog.Logger
	orders    Repository
	products  ProductReader
	publisher EventPublisher
	now       func() time.Time
}

// New создаёт сервис заказов. publisher может быть nil.
func New(log *slog.Logger, orders Repository, products ProductReader, publisher EventPublisher) *Service {
	return &Service{
		log:       log,
		orders:    orders,
		products:  products,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create оформляет заказ. Если хотя бы один товар не найден или снят с
// продажи, заказ не создаётся.
func (s *Service) Create(ctx context.Context, userUID string, req models.CreateOrderRequest) (*models.Order, error) {
	const op = "services.order.Create"

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}
	if !req.ShippingAddress.Complete() {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingAddress)
	}
	payment, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		if it.Quantity < 1 || it.Quantity > models.MaxItemQuantity {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
		}
		p, err := s.products.GetProduct(ctx, it.Product)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrProductNotFound, it.Product)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrProductNotFound, it.Product)
		}

		item := models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	if total.GreaterThan(models.MaxOrderTotal) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderTooLarge)
	}

	created, err := s.orders.CreateOrder(ctx, models.Order{
		UserUID:         userUID,
		Items:           items,
		ShippingAddress: *req.ShippingAddress,
		PaymentMethod:   payment,
		Status:          models.OrderStatusPending,
		Total:           total,
	})
	if errors.Is(err, storage.ErrOutOfRange) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderTooLarge)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orderEvents.WithLabelValues("created").Inc()
	s.publish(ctx, rabbitmq.RoutingOrderCreated, "order.created", created)
	return created, nil
}

// ListByUser возвращает заказы пользователя, новые первыми. К позициям
// подставляются текущие данные товаров; если каталог недоступен, заказы
// возвращаются без них.
func (s *Service) ListByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "services.order.ListByUser"

	orders, err := s.orders.ListOrdersByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.ProductID]; !ok {
				seen[it.ProductID] = struct{}{}
				ids = append(ids, it.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return orders, nil
	}

	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("failed to join product details", slog.String("op", op), sl.Err(err))
		return orders, nil
	}
	for _, o := range orders {
		for i := range o.Items {
			if p, ok := products[o.Items[i].ProductID]; ok {
				o.Items[i].Product = p.Summary()
			}
		}
	}
	return orders, nil
}

// Read возвращает заказ по идентификатору любому аутентифицированному
// пользователю.
// TODO: пускать только владельца заказа и администраторов.
func (s *Service) Read(ctx context.Context, id string) (*models.Order, error) {
	const op = "services.order.Read"

	o, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// UpdateStatus меняет статус заказа. Допустим любой статус из перечисления,
// порядок переходов не проверяется.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	const op = "services.order.UpdateStatus"

	st, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.orders.UpdateOrderStatus(ctx, id, st)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orderEvents.WithLabelValues(string(st)).Inc()
	s.publish(ctx, rabbitmq.RoutingOrderStatusChanged, "order.status_changed", o)
	return o, nil
}

func (s *Service) publish(ctx context.Context, routingKey, event string, o *models.Order) {
	if s.publisher == nil {
		return
	}
	msg := models.OrderEvent{
		Event:      event,
		OrderID:    o.ID,
		UserUID:    o.UserUID,
		Status:     o.Status,
		Total:      o.Total,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, routingKey, msg); err != nil {
		s.log.Error("failed to publish order event",
			slog.String("event", event),
			slog.String("order_id", o.ID),
			sl.Err(err),
		)
	}
}
