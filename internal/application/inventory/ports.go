package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Stock     repository.StockRepository
	Movements repository.StockMovementRepository
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
	Transfers repository.TransferRepository
	Sessions  repository.InventorySessionRepository
	Lines     repository.InventoryLineRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso. Puede reintentar fn completa
// ante conflictos de concurrencia, por lo que fn no debe tener efectos fuera de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// EventPublisher publica eventos de dominio hacia un broker externo.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// SessionPDFGenerator genera la planilla/acta de una sesión de conteo en PDF.
type SessionPDFGenerator interface {
	GenerateSessionPDF(ctx context.Context, report SessionReport) ([]byte, error)
}

// SessionReport datos de una sesión listos para imprimir.
type SessionReport struct {
	Session       *entity.InventorySession
	Location      *entity.Location
	StartedByName string
	Lines         []SessionReportLine
	Summary       entity.SessionSummary
	GeneratedAt   time.Time
}

// SessionReportLine línea de conteo con los datos del producto.
type SessionReportLine struct {
	Line        *entity.InventoryLine
	ProductName string
	Barcode     string
	Unit        string
}
