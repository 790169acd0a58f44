package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Пределы полей товара, согласованные со схемой БД.
const MaxStock = 1_000_000

// MaxPrice верхняя граница цены товара.
var MaxPrice = decimal.NewFromInt(1_000_000)

func init() {
	// Цены и суммы отдаются клиенту числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrUnknownCategory возвращается для категорий вне справочника.
var ErrUnknownCategory = errors.New("unknown product category")

// Category категория товара из закрытого справочника.
type Category string

const (
	CategoryAccessories Category = "Accessories"
	CategoryBlouses     Category = "Blouses"
	CategoryCardigans   Category = "Cardigans"
	CategoryDresses     Category = "Dresses"
	CategoryHoodies     Category = "Hoodies"
	CategoryJackets     Category = "Jackets"
	CategoryJeans       Category = "Jeans"
	CategoryShirts      Category = "Shirts"
	CategoryShoes       Category = "Shoes"
	CategorySkirts      Category = "Skirts"
	CategorySweaters    Category = "Sweaters"
	CategoryTShirts     Category = "T-Shirts"
	CategoryTops        Category = "Tops"
)

// Categories возвращает все допустимые категории в алфавитном порядке.
func Categories() []Category {
	return []Category{
		CategoryAccessories, CategoryBlouses, CategoryCardigans,
		CategoryDresses, CategoryHoodies, CategoryJackets,
		CategoryJeans, CategoryShirts, CategoryShoes,
		CategorySkirts, CategorySweaters, CategoryTShirts,
		CategoryTops,
	}
}

// ParseCategory приводит строку к категории справочника без учёта регистра.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Product товар каталога. Удаление мягкое: IsActive=false.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	IsActive    bool            `json:"isActive"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Summary краткое представление товара для подстановки в позиции заказа.
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Images:   p.Images,
		IsActive: p.IsActive,
	}
}

// ProductSummary текущие данные товара из каталога.
type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"images"`
	IsActive bool            `json:"isActive"`
}

// ProductFilter фильтр списка товаров.
type ProductFilter struct {
	Search   string
	Category Category
}

// CreateProductRequest данные нового товара.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	Stock       int              `json:"stock" validate:"gte=0,lte=1000000"`
	Images      []string         `json:"images" validate:"omitempty,dive,url"`
}

// UpdateProductRequest частичное обновление товара: nil-поля не меняются.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0,lte=1000000"`
	Images      []string         `json:"images" validate:"omitempty,dive,url"`
	IsActive    *bool            `json:"isActive"`
}
