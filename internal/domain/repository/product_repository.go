package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ProductFilter criterios opcionales para listar productos. Campos vacíos no filtran.
type ProductFilter struct {
	Search     string // coincidencia parcial en nombre o descripción (sin distinguir mayúsculas)
	CategoryID string
	TagID      string
	Unit       string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByBarcode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// ExistsByName y ExistsByBarcode ignoran el producto excludeID (para updates).
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode, excludeID string) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	AddTag(ctx context.Context, productID, tagID string) error
	RemoveTag(ctx context.Context, productID, tagID string) error
}
