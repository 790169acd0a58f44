// Package seed наполняет базу стартовым каталогом и создаёт администраторов.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

// Учётная запись, которая создаётся, если в базе нет ни одного администратора.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin123"
)

type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	FindUserByRole(ctx context.Context, role models.Role) (*models.User, error)
	UpdateUserRole(ctx context.Context, userUID string, role models.Role) error
	DeleteAllProducts(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
}

// ProductCache кэш карточек товаров, который сбрасывается после пересоздания каталога.
type ProductCache interface {
	InvalidateProducts(ctx context.Context) (int, error)
}

// Admin параметры учётной записи администратора.
type Admin struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AddAdmin создаёт администратора или повышает до администратора существующего
// пользователя с тем же email. Пароль существующего пользователя не меняется.
func AddAdmin(ctx context.Context, store Store, a Admin) (*models.User, bool, error) {
	const op = "seed.AddAdmin"

	email := strings.ToLower(strings.TrimSpace(a.Email))
	if email == "" {
		return nil, false, fmt.Errorf("%s: email is required", op)
	}

	existing, err := store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			if err := store.UpdateUserRole(ctx, existing.UUID, models.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("%s: %w", op, err)
			}
			existing.Role = models.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.Validate(a.Password); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.Hash(a.Password)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	first, last := a.FirstName, a.LastName
	if first == "" {
		first = "Admin"
	}
	if last == "" {
		last = "User"
	}
	created, err := store.CreateUser(ctx, models.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return created, true, nil
}

// Products заменяет каталог стартовым набором товаров. Товары записываются от
// имени первого администратора; если его нет, создаётся администратор по умолчанию.
// Если c не nil, после очистки каталога из него удаляются все карточки товаров.
func Products(ctx context.Context, log *slog.Logger, store Store, c ProductCache) ([]*models.Product, error) {
	const op = "seed.Products"

	admin, err := store.FindUserByRole(ctx, models.RoleAdmin)
	if errors.Is(err, storage.ErrNotFound) {
		log.Info("no admin user found, creating default admin", slog.String("email", DefaultAdminEmail))
		admin, _, err = AddAdmin(ctx, store, Admin{Email: DefaultAdminEmail, Password: DefaultAdminPassword})
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("using admin user", slog.String("email", admin.Email))

	deleted, err := store.DeleteAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("cleared existing products", slog.Int("count", deleted))

	if c != nil {
		flushed, err := c.InvalidateProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("flushed cached products", slog.Int("count", flushed))
	}

	created := make([]*models.Product, 0, len(Catalog))
	for _, p := range Catalog {
		p.CreatedBy = admin.UUID
		p.IsActive = true
		saved, err := store.CreateProduct(ctx, p)
		if err != nil {
			return created, fmt.Errorf("%s: %s: %w", op, p.Name, err)
		}
		created = append(created, saved)
	}
	return created, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func unsplash(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "https://images.unsplash.com/photo-" + id + "?w=500&h=500&fit=crop"
	}
	return out
}

// Catalog стартовый набор товаров.
var Catalog = []models.Product{
	{
		Name:        "Lavender Dreams Midi Dress",
		Description: "Lavender midi dress with lace details and flowing chiffon. Adjustable straps.",
		Price:       price("89.99"),
		Category:    models.CategoryDresses,
		Stock:       25,
		Images:      unsplash("1566479179817-c0a06b6b5bff", "1594633312681-425c7b97ccd1"),
	},
	{
		Name:        "Soft Pink Cashmere Sweater",
		Description: "Blush pink cashmere sweater with a relaxed fit.",
		Price:       price("129.99"),
		Category:    models.CategorySweaters,
		Stock:       20,
		Images:      unsplash("1434389677669-e08b4cac3105", "1618354691373-d851c5c3a990"),
	},
	{
		Name:        "Floral Butterfly Crop Top",
		Description: "Organic cotton crop top with hand-painted butterfly and flower motifs.",
		Price:       price("45.99"),
		Category:    models.CategoryTops,
		Stock:       35,
		Images:      unsplash("1571781926291-c477ebfd024b", "1594633312681-425c7b97ccd1"),
	},
	{
		Name:        "Princess Tulle Skirt",
		Description: "Layered tulle skirt in soft lavender.",
		Price:       price("69.99"),
		Category:    models.CategorySkirts,
		Stock:       18,
		Images:      unsplash("1583496661160-fb5886a13804", "1594633312681-425c7b97ccd1"),
	},
	{
		Name:        "Romantic Lace Cardigan",
		Description: "Lightweight cream cardigan with floral lace patterns.",
		Price:       price("79.99"),
		Category:    models.CategoryCardigans,
		Stock:       22,
		Images:      unsplash("1594633312681-425c7b97ccd1", "1571781926291-c477ebfd024b"),
	},
	{
		Name:        "Pastel Rainbow Striped Tee",
		Description: "Soft cotton blend t-shirt with pastel rainbow stripes.",
		Price:       price("32.99"),
		Category:    models.CategoryTShirts,
		Stock:       40,
		Images:      unsplash("1521572163474-6864f9cf17ab", "1503341960582-b45751874cf0"),
	},
	{
		Name:        "Cottagecore Floral Blouse",
		Description: "Floral print blouse with puff sleeves, pearl buttons and a bow tie.",
		Price:       price("89.99"),
		Category:    models.CategoryBlouses,
		Stock:       15,
		Images:      unsplash("1564557287817-3785e38ec1f5", "1551048632-6f0b5d3b42fa"),
	},
	{
		Name:        "Cozy Lavender Hoodie",
		Description: "Oversized lavender hoodie with embroidered moon and stars.",
		Price:       price("65.99"),
		Category:    models.CategoryHoodies,
		Stock:       30,
		Images:      unsplash("1556821840-3a63f95609a7", "1578662996442-48f60103fc96"),
	},
	{
		Name:        "Pearl Button Denim Jacket",
		Description: "Cropped light wash denim jacket with pearl buttons.",
		Price:       price("95.99"),
		Category:    models.CategoryJackets,
		Stock:       12,
		Images:      unsplash("1551028719-00167b16eac5", "1520975954732-35dd22299614"),
	},
	{
		Name:        "Aesthetic Corset Top",
		Description: "Soft pink corset top with adjustable lacing.",
		Price:       price("55.99"),
		Category:    models.CategoryTops,
		Stock:       28,
		Images:      unsplash("1594633312681-425c7b97ccd1", "1571781926291-c477ebfd024b"),
	},
	{
		Name:        "Butterfly Hair Scrunchie Set",
		Description: "Set of 5 pastel scrunchies with embroidered butterflies.",
		Price:       price("24.99"),
		Category:    models.CategoryAccessories,
		Stock:       50,
		Images:      unsplash("1594633312681-425c7b97ccd1", "1571781926291-c477ebfd024b"),
	},
	{
		Name:        "Kawaii Cat Ear Beanie",
		Description: "Lavender beanie with 3D cat ears and embroidered whiskers.",
		Price:       price("35.99"),
		Category:    models.CategoryAccessories,
		Stock:       25,
		Images:      unsplash("1594633312681-425c7b97ccd1", "1571781926291-c477ebfd024b"),
	},
}
