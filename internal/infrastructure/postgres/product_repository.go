package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.name, p.barcode, p.unit, p.description, p.category_id, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p                   entity.Product
		barcode, categoryID *string
	)
	if err := row.Scan(&p.ID, &p.Name, &barcode, &p.Unit, &p.Description, &categoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Barcode = str(barcode)
	p.CategoryID = str(categoryID)
	return &p, nil
}

// Create persiste el producto y sus etiquetas. Nombre o código de barras repetido -> ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, barcode, unit, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, nullable(product.Barcode), product.Unit, product.Description,
		nullable(product.CategoryID), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %q: %w", product.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	for _, t := range product.Tags {
		if err := r.AddTag(ctx, product.ID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un producto con sus etiquetas.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.barcode = $1`, barcode)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadTags(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ExistsByName compara sin distinguir mayúsculas.
func (r *ProductRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE lower(name) = lower($1) AND ($2::uuid IS NULL OR id <> $2))`,
		name, nullable(excludeID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product name: %w", err)
	}
	return exists, nil
}

func (r *ProductRepo) ExistsByBarcode(ctx context.Context, barcode, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE barcode = $1 AND ($2::uuid IS NULL OR id <> $2))`,
		barcode, nullable(excludeID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product barcode: %w", err)
	}
	return exists, nil
}

// Update actualiza los datos básicos; las etiquetas se gestionan con AddTag/RemoveTag.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, unit = $4, description = $5, category_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, nullable(product.Barcode), product.Unit, product.Description,
		nullable(product.CategoryID), product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %q: %w", product.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", product.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el producto (las etiquetas asociadas caen por ON DELETE CASCADE).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto %s tiene historial asociado: %w", id, domain.ErrInvalidInput)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List filtra por texto, categoría, etiqueta y unidad; ordena por nombre.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		p := arg(&args, "%"+filter.Search+"%")
		where = append(where, "(p.name ILIKE "+p+" OR p.description ILIKE "+p+")")
	}
	if filter.CategoryID != "" {
		where = append(where, "p.category_id = "+arg(&args, filter.CategoryID))
	}
	if filter.TagID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = p.id AND pt.tag_id = "+arg(&args, filter.TagID)+")")
	}
	if filter.Unit != "" {
		where = append(where, "lower(p.unit) = lower("+arg(&args, filter.Unit)+")")
	}
	query := `SELECT ` + productColumns + ` FROM products p`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.name"
	page, args := pageClause(args, limit, offset)

	rows, err := r.q.Query(ctx, query+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// AddTag es idempotente.
func (r *ProductRepo) AddTag(ctx context.Context, productID, tagID string) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		productID, tagID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto %s o etiqueta %s: %w", productID, tagID, domain.ErrNotFound)
		}
		return fmt.Errorf("add product tag: %w", err)
	}
	return nil
}

func (r *ProductRepo) RemoveTag(ctx context.Context, productID, tagID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1 AND tag_id = $2`, productID, tagID); err != nil {
		return fmt.Errorf("remove product tag: %w", err)
	}
	return nil
}

// loadTags carga las etiquetas de todos los productos en una sola consulta.
func (r *ProductRepo) loadTags(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT pt.product_id, t.id, t.name
		FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1::uuid[])
		ORDER BY t.name`, ids)
	if err != nil {
		return fmt.Errorf("list product tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID string
		var t entity.Tag
		if err := rows.Scan(&productID, &t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan product tag: %w", err)
		}
		byID[productID].Tags = append(byID[productID].Tags, t)
	}
	return rows.Err()
}
