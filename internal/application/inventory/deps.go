package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// Deps dependencias compartidas por los casos de uso de inventario.
// Los repositorios de este struct van sobre el pool (lecturas y validaciones previas);
// las escrituras se hacen con los Repos que entrega TxRunner.
type Deps struct {
	Tx        TxRunner
	Ledger    *Ledger
	Products  repository.ProductRepository
	Locations repository.LocationRepository
	Suppliers repository.SupplierRepository
	Users     repository.UserRepository
	Stock     repository.StockRepository
	Movements repository.StockMovementRepository
	Purchases repository.PurchaseRepository
	Sales     repository.SaleRepository
	Transfers repository.TransferRepository
	Sessions  repository.InventorySessionRepository
	Lines     repository.InventoryLineRepository
	Publisher EventPublisher // opcional
	Log       *logger.Logger
}

func (d Deps) notifier() notifier {
	return notifier{pub: d.Publisher, log: d.Log}
}

func checkID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s requerido: %w", kind, domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q no es un UUID: %w", kind, id, domain.ErrInvalidInput)
	}
	return nil
}

// checkFilterIDs valida filtros opcionales dados como pares (nombre, valor); vacío = sin filtro.
func checkFilterIDs(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if err := checkID(kv[i], kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (d Deps) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	if err := checkID("product_id", id); err != nil {
		return nil, err
	}
	p, err := d.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (d Deps) requireLocation(ctx context.Context, id string) (*entity.Location, error) {
	if err := checkID("location_id", id); err != nil {
		return nil, err
	}
	l, err := d.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

func (d Deps) requireSupplier(ctx context.Context, id string) error {
	if err := checkID("supplier_id", id); err != nil {
		return err
	}
	s, err := d.Suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("proveedor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// requireUser valida el usuario si viene informado; vacío es válido (operación sin usuario).
func (d Deps) requireUser(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	u, err := d.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("usuario %s: %w", id, domain.ErrUserNotFound)
	}
	return nil
}
