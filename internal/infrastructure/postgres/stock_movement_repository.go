package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, location_id, quantity_change, movement_type, reference_id, user_id, movement_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProductID, m.LocationID, m.QuantityChange, string(m.Type),
		nullable(m.ReferenceID), nullable(m.UserID), m.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		where = append(where, "product_id = "+arg(&args, f.ProductID))
	}
	if f.LocationID != "" {
		where = append(where, "location_id = "+arg(&args, f.LocationID))
	}
	if f.Type != "" {
		where = append(where, "movement_type = "+arg(&args, string(f.Type)))
	}
	if f.ReferenceID != "" {
		where = append(where, "reference_id = "+arg(&args, f.ReferenceID))
	}
	if f.From != nil {
		where = append(where, "movement_date >= "+arg(&args, *f.From))
	}
	if f.To != nil {
		where = append(where, "movement_date < "+arg(&args, *f.To))
	}
	query := `SELECT id, product_id, location_id, quantity_change, movement_type, reference_id, user_id, movement_date
		FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY movement_date DESC, id"
	page, args := pageClause(args, limit, offset)

	rows, err := r.q.Query(ctx, query+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m           entity.StockMovement
			mt          string
			ref, userID *string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.QuantityChange, &mt, &ref, &userID, &m.MovementDate); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(mt)
		m.ReferenceID = str(ref)
		m.UserID = str(userID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumForPair suma del historial del par; debe coincidir con stock.quantity.
func (r *StockMovementRepo) SumForPair(ctx context.Context, productID, locationID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_change), 0)::bigint FROM stock_movements
		WHERE product_id = $1 AND location_id = $2`,
		productID, locationID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
