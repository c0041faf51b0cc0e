package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `s.id, s.product_id, s.location_id, s.quantity, s.last_updated`

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.ID, &s.ProductID, &s.LocationID, &s.Quantity, &s.LastUpdated); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene la fila del par; (nil, nil) si aún no existe.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock s WHERE s.product_id = $1 AND s.location_id = $2`,
		productID, locationID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetOrCreateForUpdate inserta la fila en cero si falta y la bloquea.
// Dos transacciones que crean el mismo par a la vez: la segunda espera el commit de la
// primera en el INSERT y luego bloquea la fila ya existente.
func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (id, product_id, location_id, quantity, last_updated)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`,
		uuid.New().String(), productID, locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stock s WHERE s.product_id = $1 AND s.location_id = $2 FOR UPDATE`,
		productID, locationID,
	))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// UpdateQuantity persiste cantidad y last_updated de una fila bloqueada.
func (r *StockRepo) UpdateQuantity(ctx context.Context, stock *entity.Stock) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock SET quantity = $2, last_updated = $3 WHERE id = $1`,
		stock.ID, stock.Quantity, stock.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// TotalForProduct suma todas las ubicaciones; siempre se calcula, no se guarda.
func (r *StockRepo) TotalForProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock WHERE product_id = $1`, productID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	return r.list(ctx, `
		SELECT `+stockColumns+` FROM stock s JOIN locations l ON l.id = s.location_id
		WHERE s.product_id = $1 ORDER BY l.name`, productID)
}

func (r *StockRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Stock, error) {
	return r.list(ctx, `
		SELECT `+stockColumns+` FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.location_id = $1 ORDER BY p.name LIMIT $2 OFFSET $3`, locationID, limit, offset)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

const stockDetailQuery = `
	SELECT ` + stockColumns + `, p.name, COALESCE(p.barcode, ''), p.unit, l.name
	FROM stock s
	JOIN products p ON p.id = s.product_id
	JOIN locations l ON l.id = s.location_id`

// ListLowStock filas con cantidad <= threshold, de menor a mayor.
func (r *StockRepo) ListLowStock(ctx context.Context, threshold int64, limit, offset int) ([]*entity.StockDetail, error) {
	return r.listDetailed(ctx,
		stockDetailQuery+` WHERE s.quantity <= $1 ORDER BY s.quantity, p.name, l.name LIMIT $2 OFFSET $3`,
		threshold, limit, offset)
}

// ListDetailed todas las filas (o las de una ubicación) con nombres, para exportar.
func (r *StockRepo) ListDetailed(ctx context.Context, locationID string) ([]*entity.StockDetail, error) {
	return r.listDetailed(ctx,
		stockDetailQuery+` WHERE $1::uuid IS NULL OR s.location_id = $1 ORDER BY l.name, p.name`,
		nullable(locationID))
}

func (r *StockRepo) listDetailed(ctx context.Context, query string, args ...any) ([]*entity.StockDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock detail: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockDetail
	for rows.Next() {
		var d entity.StockDetail
		if err := rows.Scan(
			&d.ID, &d.ProductID, &d.LocationID, &d.Quantity, &d.LastUpdated,
			&d.ProductName, &d.Barcode, &d.Unit, &d.LocationName,
		); err != nil {
			return nil, fmt.Errorf("scan stock detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *StockRepo) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM stock WHERE product_id = $1)`, productID)
}

func (r *StockRepo) ExistsForLocation(ctx context.Context, locationID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM stock WHERE location_id = $1)`, locationID)
}

func (r *StockRepo) exists(ctx context.Context, query, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists stock: %w", err)
	}
	return ok, nil
}
