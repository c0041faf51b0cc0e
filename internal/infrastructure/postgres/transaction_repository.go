package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.TransferRepository = (*TransferRepo)(nil)
)

// txFilter arma el WHERE común de compras, ventas y traslados.
// locationCols son las columnas que deben coincidir con LocationID (una basta).
// Los criterios de proveedor, lote y vencimiento solo son válidos sobre purchases.
func txFilter(f repository.TransactionFilter, dateCol string, locationCols ...string) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		where = append(where, "product_id = "+arg(&args, f.ProductID))
	}
	if f.LocationID != "" {
		p := arg(&args, f.LocationID)
		conds := make([]string, len(locationCols))
		for i, c := range locationCols {
			conds[i] = c + " = " + p
		}
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}
	if f.From != nil {
		where = append(where, dateCol+" >= "+arg(&args, *f.From))
	}
	if f.To != nil {
		where = append(where, dateCol+" < "+arg(&args, *f.To))
	}
	if f.SupplierID != "" {
		where = append(where, "supplier_id = "+arg(&args, f.SupplierID))
	}
	if f.BatchNumber != "" {
		where = append(where, "batch_number = "+arg(&args, f.BatchNumber))
	}
	if f.ExpiringFrom != nil {
		where = append(where, "expiry_date >= "+arg(&args, *f.ExpiringFrom))
	}
	if f.ExpiringBefore != nil {
		where = append(where, "expiry_date < "+arg(&args, *f.ExpiringBefore))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// PurchaseRepo compras sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, product_id, supplier_id, location_id, user_id, quantity, cost_price, batch_number, expiry_date, purchase_date`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var (
		p                  entity.Purchase
		supplierID, userID *string
	)
	if err := row.Scan(&p.ID, &p.ProductID, &supplierID, &p.LocationID, &userID, &p.Quantity,
		&p.CostPrice, &p.BatchNumber, &p.ExpiryDate, &p.PurchaseDate); err != nil {
		return nil, err
	}
	p.SupplierID = str(supplierID)
	p.UserID = str(userID)
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `INSERT INTO purchases (`+purchaseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.ProductID, nullable(p.SupplierID), p.LocationID, nullable(p.UserID), p.Quantity,
		p.CostPrice, p.BatchNumber, p.ExpiryDate, p.PurchaseDate,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

func (r *PurchaseRepo) List(ctx context.Context, f repository.TransactionFilter, limit, offset int) ([]*entity.Purchase, error) {
	where, args := txFilter(f, "purchase_date", "location_id")
	order := " ORDER BY purchase_date DESC"
	if f.ByExpiry() {
		order = " ORDER BY expiry_date, purchase_date"
	}
	page, args := pageClause(args, limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases`+where+order+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Summary totales de compras en [from, to), opcionalmente de un proveedor.
func (r *PurchaseRepo) Summary(ctx context.Context, from, to time.Time, supplierID string) (entity.PurchaseSummary, error) {
	var s entity.PurchaseSummary
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0)::bigint, COALESCE(SUM(quantity * cost_price), 0)
		FROM purchases
		WHERE purchase_date >= $1 AND purchase_date < $2
		  AND ($3::uuid IS NULL OR supplier_id = $3::uuid)`,
		from, to, nullable(supplierID),
	).Scan(&s.PurchaseCount, &s.QuantityPurchased, &s.TotalCost)
	if err != nil {
		return s, fmt.Errorf("purchase summary: %w", err)
	}
	return s, nil
}

// SaleRepo ventas sobre PostgreSQL, con agregados para reportes.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, product_id, location_id, user_id, quantity, sale_price, sale_date`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s      entity.Sale
		userID *string
	)
	if err := row.Scan(&s.ID, &s.ProductID, &s.LocationID, &userID, &s.Quantity, &s.SalePrice, &s.SaleDate); err != nil {
		return nil, err
	}
	s.UserID = str(userID)
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.ProductID, s.LocationID, nullable(s.UserID), s.Quantity, s.SalePrice, s.SaleDate,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) List(ctx context.Context, f repository.TransactionFilter, limit, offset int) ([]*entity.Sale, error) {
	where, args := txFilter(f, "sale_date", "location_id")
	page, args := pageClause(args, limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales`+where+` ORDER BY sale_date DESC`+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// TopSelling productos más vendidos en [from, to).
func (r *SaleRepo) TopSelling(ctx context.Context, from, to time.Time, byRevenue bool, limit int) ([]entity.ProductSales, error) {
	order := "quantity_sold DESC, revenue DESC"
	if byRevenue {
		order = "revenue DESC, quantity_sold DESC"
	}
	query := `
		SELECT s.product_id, p.name,
		       COALESCE(SUM(s.quantity), 0)::bigint AS quantity_sold,
		       COALESCE(SUM(s.quantity * s.sale_price), 0) AS revenue
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.sale_date >= $1 AND s.sale_date < $2
		GROUP BY s.product_id, p.name
		ORDER BY ` + order + `, p.name
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductSales
	for rows.Next() {
		var ps entity.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.QuantitySold, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("scan top selling: %w", err)
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

// Summary totales de ventas en [from, to).
func (r *SaleRepo) Summary(ctx context.Context, from, to time.Time) (entity.SalesSummary, error) {
	var s entity.SalesSummary
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0)::bigint, COALESCE(SUM(quantity * sale_price), 0)
		FROM sales WHERE sale_date >= $1 AND sale_date < $2`,
		from, to,
	).Scan(&s.SalesCount, &s.QuantitySold, &s.Revenue)
	if err != nil {
		return s, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}

// TransferRepo traslados sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, product_id, from_location_id, to_location_id, user_id, quantity, transfer_date`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var (
		t      entity.Transfer
		userID *string
	)
	if err := row.Scan(&t.ID, &t.ProductID, &t.FromLocationID, &t.ToLocationID, &userID, &t.Quantity, &t.TransferDate); err != nil {
		return nil, err
	}
	t.UserID = str(userID)
	return &t, nil
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transfers (`+transferColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.ProductID, t.FromLocationID, t.ToLocationID, nullable(t.UserID), t.Quantity, t.TransferDate,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// List con LocationID incluye traslados de salida y de entrada.
func (r *TransferRepo) List(ctx context.Context, f repository.TransactionFilter, limit, offset int) ([]*entity.Transfer, error) {
	where, args := txFilter(f, "transfer_date", "from_location_id", "to_location_id")
	page, args := pageClause(args, limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+transferColumns+` FROM transfers`+where+` ORDER BY transfer_date DESC`+page, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
