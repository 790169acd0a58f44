package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/storefront/internal/migrations"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	cleanup := func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}

// TestDataFactory создаёт тестовые записи напрямую через репозиторий.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func (f *TestDataFactory) CreateProduct(t *testing.T, name string, category models.Category, price string) *models.Product {
	t.Helper()
	p, err := f.storage.CreateProduct(context.Background(), models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Stock:       10,
		Images:      []string{"https://example.com/" + uuid.NewString() + ".jpg"},
		IsActive:    true,
	})
	require.NoError(t, err)
	return p
}

func (f *TestDataFactory) CreateOrder(t *testing.T, userUID string, p *models.Product, qty int) *models.Order {
	t.Helper()
	item := models.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: qty}
	o, err := f.storage.CreateOrder(context.Background(), models.Order{
		UserUID:         userUID,
		Items:           []models.OrderItem{item},
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentCashOnDelivery,
		Status:          models.OrderStatusPending,
		Total:           item.LineTotal(),
	})
	require.NoError(t, err)
	return o
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName: "John",
		LastName:  "Doe",
		Street:    "123 Test Street",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62701",
		Country:   "USA",
	}
}
