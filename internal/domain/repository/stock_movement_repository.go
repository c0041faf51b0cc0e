package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// MovementFilter criterios opcionales para consultar el historial de movimientos.
type MovementFilter struct {
	ProductID   string
	LocationID  string
	Type        entity.MovementType
	ReferenceID string
	From        *time.Time
	To          *time.Time
}

// StockMovementRepository puerto del historial de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	// SumForPair reproduce el historial: suma de QuantityChange del par.
	SumForPair(ctx context.Context, productID, locationID string) (int64, error)
}
