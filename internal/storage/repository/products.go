package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const productColumns = `id, name, description, price, category, stock, images, is_active, created_by, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var (
		images    []byte
		createdBy sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock,
		&images, &p.IsActive, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedBy = createdBy.String
	return p, nil
}

func marshalImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

func nullUUID(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateProduct сохраняет товар и возвращает его с присвоенным идентификатором.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	images, err := marshalImages(p.Images)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO products (id, name, description, price, category, stock, images, is_active, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + productColumns
	created, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, images, p.IsActive, nullUUID(p.CreatedBy)))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return created, nil
}

// GetProduct возвращает товар по идентификатору независимо от активности.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return p, nil
}

// GetProductsByIDs возвращает найденные товары по списку идентификаторов.
// Отсутствующие и некорректные идентификаторы пропускаются.
func (s *Storage) GetProductsByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	const op = "storage.GetProductsByIDs"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	out := make(map[string]*models.Product, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id::text = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, valid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListProducts возвращает активные товары, подходящие под фильтр.
// Поиск регистронезависимый, по подстроке названия.
func (s *Storage) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var (
		conds = []string{"is_active"}
		args  []any
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products
			  WHERE ` + strings.Join(conds, " AND ") + `
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// UpdateProduct перезаписывает изменяемые поля товара.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(p.ID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	images, err := marshalImages(p.Images)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE products
			  SET name = $2, description = $3, price = $4, category = $5, stock = $6,
			      images = $7, is_active = $8, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + productColumns
	updated, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, images, p.IsActive))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return updated, nil
}

// SetProductActive включает или выключает товар (мягкое удаление).
func (s *Storage) SetProductActive(ctx context.Context, id string, active bool) error {
	const op = "storage.SetProductActive"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// DeleteAllProducts физически удаляет весь каталог. Заказы хранят снимки
// позиций и не затрагиваются.
func (s *Storage) DeleteAllProducts(ctx context.Context) (int, error) {
	const op = "storage.DeleteAllProducts"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
