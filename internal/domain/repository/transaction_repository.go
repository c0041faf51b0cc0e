package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// TransactionFilter criterios opcionales para listar compras, ventas y traslados.
// LocationID en traslados coincide con origen o destino. To es exclusivo.
type TransactionFilter struct {
	ProductID  string
	LocationID string
	From       *time.Time
	To         *time.Time

	// Solo compras.
	SupplierID     string
	BatchNumber    string
	ExpiringFrom   *time.Time // expiry_date >= ExpiringFrom
	ExpiringBefore *time.Time // expiry_date < ExpiringBefore
}

// ByExpiry indica si el filtro pide lotes por vencimiento.
func (f TransactionFilter) ByExpiry() bool {
	return f.ExpiringFrom != nil || f.ExpiringBefore != nil
}

// PurchaseOnly indica si el filtro usa criterios que solo existen en compras.
func (f TransactionFilter) PurchaseOnly() bool {
	return f.SupplierID != "" || f.BatchNumber != "" || f.ByExpiry()
}

// PurchaseRepository define el puerto de persistencia para Purchase (DIP).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// List ordena por fecha de compra, o por vencimiento (más próximo primero) si filter.ByExpiry().
	List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Purchase, error)
	// Summary totales de compras en [from, to); supplierID vacío = todos los proveedores.
	Summary(ctx context.Context, from, to time.Time, supplierID string) (entity.PurchaseSummary, error)
}

// SaleRepository define el puerto de persistencia para Sale (DIP), con agregados para reportes.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Sale, error)
	// TopSelling ordena por cantidad vendida o por ingreso (byRevenue).
	TopSelling(ctx context.Context, from, to time.Time, byRevenue bool, limit int) ([]entity.ProductSales, error)
	Summary(ctx context.Context, from, to time.Time) (entity.SalesSummary, error)
}

// TransferRepository define el puerto de persistencia para Transfer (DIP).
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	List(ctx context.Context, filter TransactionFilter, limit, offset int) ([]*entity.Transfer, error)
}
