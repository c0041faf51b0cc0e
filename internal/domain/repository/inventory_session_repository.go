package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// InventorySessionRepository define el puerto de persistencia de sesiones de conteo.
type InventorySessionRepository interface {
	// Create devuelve domain.ErrDuplicate si ya hay una sesión OPEN en la ubicación.
	Create(ctx context.Context, session *entity.InventorySession) error
	GetByID(ctx context.Context, id string) (*entity.InventorySession, error)
	// GetByIDForUpdate bloquea la sesión mientras se agregan líneas, conteos o se cierra.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventorySession, error)
	HasOpenForLocation(ctx context.Context, locationID string) (bool, error)
	Close(ctx context.Context, id string, endTime time.Time) error
	List(ctx context.Context, locationID string, status entity.SessionStatus, limit, offset int) ([]*entity.InventorySession, error)
	ExistsForLocation(ctx context.Context, locationID string) (bool, error)
}

// InventoryLineRepository define el puerto de persistencia de líneas de conteo.
type InventoryLineRepository interface {
	// Create devuelve domain.ErrDuplicate si el producto ya tiene línea en la sesión.
	Create(ctx context.Context, line *entity.InventoryLine) error
	GetByID(ctx context.Context, id string) (*entity.InventoryLine, error)
	ExistsForProduct(ctx context.Context, sessionID, productID string) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.InventoryLine, error)
	UpdateCount(ctx context.Context, line *entity.InventoryLine) error
}
