package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// StockRepository define el puerto del libro de existencias por (producto, ubicación).
type StockRepository interface {
	// Get devuelve (nil, nil) si todavía no hay fila para el par.
	Get(ctx context.Context, productID, locationID string) (*entity.Stock, error)
	// GetOrCreateForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetOrCreateForUpdate(ctx context.Context, productID, locationID string) (*entity.Stock, error)
	UpdateQuantity(ctx context.Context, stock *entity.Stock) error
	TotalForProduct(ctx context.Context, productID string) (int64, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Stock, error)
	// ListLowStock devuelve las filas con cantidad <= threshold, de menor a mayor.
	ListLowStock(ctx context.Context, threshold int64, limit, offset int) ([]*entity.StockDetail, error)
	ListDetailed(ctx context.Context, locationID string) ([]*entity.StockDetail, error)
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
	ExistsForLocation(ctx context.Context, locationID string) (bool, error)
}
