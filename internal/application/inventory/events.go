package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Stock-api/pkg/logger"
)

// Tipos de evento publicados tras confirmar la transacción.
const (
	EventStockAdjusted  = "inventory.stock.adjusted"
	EventSessionClosed  = "inventory.session.closed"
	ExchangeStockEvents = "inventory.events"
)

// StockAdjustedEvent payload de EventStockAdjusted.
type StockAdjustedEvent struct {
	MovementID     string    `json:"movement_id"`
	ProductID      string    `json:"product_id"`
	LocationID     string    `json:"location_id"`
	QuantityChange int64     `json:"quantity_change"`
	MovementType   string    `json:"movement_type"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	NewQuantity    int64     `json:"new_quantity"`
	MovementDate   time.Time `json:"movement_date"`
}

// SessionClosedEvent payload de EventSessionClosed.
type SessionClosedEvent struct {
	SessionID   string    `json:"session_id"`
	LocationID  string    `json:"location_id"`
	Adjustments int       `json:"adjustments"`
	ClosedAt    time.Time `json:"closed_at"`
}

// notifier publica después del commit. Un fallo del broker no revierte nada: se registra y sigue.
type notifier struct {
	pub EventPublisher
	log *logger.Logger
}

func (n notifier) adjusted(ctx context.Context, results []*AdjustResult) {
	for _, res := range results {
		m := res.Movement
		n.publish(ctx, EventStockAdjusted, StockAdjustedEvent{
			MovementID:     m.ID,
			ProductID:      m.ProductID,
			LocationID:     m.LocationID,
			QuantityChange: m.QuantityChange,
			MovementType:   string(m.Type),
			ReferenceID:    m.ReferenceID,
			UserID:         m.UserID,
			NewQuantity:    res.Stock.Quantity,
			MovementDate:   m.MovementDate,
		})
	}
}

func (n notifier) publish(ctx context.Context, eventType string, data interface{}) {
	if n.pub == nil {
		return
	}
	if err := n.pub.Publish(ctx, eventType, data); err != nil && n.log != nil {
		n.log.Warn().Err(err).Str("event_type", eventType).Msg("no se pudo publicar evento")
	}
}
