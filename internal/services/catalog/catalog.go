// Package catalog реализует каталог товаров: выдачу с кэшированием в Redis и
// администрирование с мягким удалением.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")

	ErrEmptyName     = fmt.Errorf("%w: name must not be empty", ErrInvalidProduct)
	ErrPriceRequired = fmt.Errorf("%w: price is required", ErrInvalidProduct)
	ErrNegativePrice = fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	ErrPriceTooHigh  = fmt.Errorf("%w: price is too high", ErrInvalidProduct)
	ErrInvalidStock  = fmt.Errorf("%w: stock is out of range", ErrInvalidProduct)
)

// ProductRepository контракт хранилища товаров.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	SetProductActive(ctx context.Context, id string, active bool) error
}

// Cache кэш карточек товаров.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service каталог товаров.
type Service struct {
	log      *slog.Logger
	products ProductRepository
	cache    Cache
}

// New создаёт каталог. cache может быть nil, тогда чтение идёт напрямую в базу.
func New(log *slog.Logger, products ProductRepository, c Cache) *Service {
	return &Service{
		log:      log,
		products: products,
		cache:    c,
	}
}

// List возвращает активные товары по фильтру.
func (s *Service) List(ctx context.Context, search, category string) ([]*models.Product, error) {
	const op = "services.catalog.List"

	filter := models.ProductFilter{Search: strings.TrimSpace(search)}
	if strings.TrimSpace(category) != "" {
		c, err := models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		filter.Category = c
	}

	products, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Read возвращает активный товар. Неактивные товары для покупателя не существуют.
func (s *Service) Read(ctx context.Context, id string) (*models.Product, error) {
	const op = "services.catalog.Read"

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	return p, nil
}

// load читает товар из кэша, при промахе из базы. Ошибки кэша не прерывают запрос.
func (s *Service) load(ctx context.Context, id string) (*models.Product, error) {
	key := cache.ProductKey(id)
	if s.cache != nil {
		var cached models.Product
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("product cache read failed", slog.String("id", id), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, p, 0); err != nil {
			s.log.Warn("product cache write failed", slog.String("id", id), sl.Err(err))
		}
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.ProductKey(id)); err != nil {
		s.log.Warn("product cache invalidation failed", slog.String("id", id), sl.Err(err))
	}
}

// Create добавляет товар от имени администратора.
func (s *Service) Create(ctx context.Context, adminUID string, req models.CreateProductRequest) (*models.Product, error) {
	const op = "services.catalog.Create"

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPriceRequired)
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateStock(req.Stock); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.products.CreateProduct(ctx, models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Category:    category,
		Stock:       req.Stock,
		Images:      req.Images,
		IsActive:    true,
		CreatedBy:   adminUID,
	})
	if errors.Is(err, storage.ErrOutOfRange) {
		return nil, fmt.Errorf("%s: %w", op, ErrPriceTooHigh)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update применяет частичное обновление. Товар ищется и среди неактивных,
// чтобы администратор мог его восстановить.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	const op = "services.catalog.Update"

	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrEmptyName)
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Price = req.Price.Round(2)
	}
	if req.Category != nil {
		c, err := models.ParseCategory(*req.Category)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Category = c
	}
	if req.Stock != nil {
		if err := validateStock(*req.Stock); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Stock = *req.Stock
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	updated, err := s.products.UpdateProduct(ctx, *p)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if errors.Is(err, storage.ErrOutOfRange) {
		return nil, fmt.Errorf("%s: %w", op, ErrPriceTooHigh)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Remove скрывает товар из каталога. Заказы с этим товаром не меняются.
func (s *Service) Remove(ctx context.Context, id string) error {
	const op = "services.catalog.Remove"

	err := s.products.SetProductActive(ctx, id, false)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return nil
}

func validatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return ErrNegativePrice
	case price.GreaterThan(models.MaxPrice):
		return ErrPriceTooHigh
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 || stock > models.MaxStock {
		return ErrInvalidStock
	}
	return nil
}
