package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Stock-api/internal/domain/inventory"
)

// Adjustment cambio de cantidad a aplicar sobre un par (producto, ubicación).
type Adjustment struct {
	ProductID   string
	LocationID  string
	Delta       int64
	Type        entity.MovementType
	ReferenceID string
	UserID      string
}

// AdjustResult movimiento creado y fila del libro tras aplicarlo.
type AdjustResult struct {
	Movement *entity.StockMovement
	Stock    *entity.Stock
}

// Ledger es el único punto de mutación del libro de existencias: cada ajuste
// actualiza la fila de Stock y agrega el StockMovement correspondiente en la misma tx.
type Ledger struct {
	policy domaininv.NegativePolicy
}

// NewLedger construye el libro con la política de negativos configurada.
func NewLedger(policy domaininv.NegativePolicy) *Ledger {
	return &Ledger{policy: policy}
}

// Policy devuelve la política de negativos vigente.
func (l *Ledger) Policy() domaininv.NegativePolicy {
	return l.policy
}

// Adjust bloquea la fila (creándola en cero si no existe), aplica la política de negativos,
// persiste la nueva cantidad y agrega el movimiento. Debe llamarse dentro de TxRunner.Run.
func (l *Ledger) Adjust(ctx context.Context, r Repos, a Adjustment) (*AdjustResult, error) {
	if err := domaininv.ValidateDelta(a.Type, a.Delta); err != nil {
		return nil, err
	}
	stock, err := r.Stock.GetOrCreateForUpdate(ctx, a.ProductID, a.LocationID)
	if err != nil {
		return nil, err
	}
	newQty, err := l.policy.Apply(a.Type, stock.Quantity, a.Delta)
	if err != nil {
		return nil, fmt.Errorf("%s de %d sobre %d: %w", a.Type, a.Delta, stock.Quantity, err)
	}
	now := time.Now().UTC()
	stock.Quantity = newQty
	stock.LastUpdated = now
	if err := r.Stock.UpdateQuantity(ctx, stock); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      a.ProductID,
		LocationID:     a.LocationID,
		QuantityChange: a.Delta,
		Type:           a.Type,
		ReferenceID:    a.ReferenceID,
		UserID:         a.UserID,
		MovementDate:   now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &AdjustResult{Movement: mov, Stock: stock}, nil
}
