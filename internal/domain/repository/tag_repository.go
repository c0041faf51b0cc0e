package repository

import (
	"context"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// TagRepository define el puerto de persistencia para Tag (DIP).
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	GetByName(ctx context.Context, name string) (*entity.Tag, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tag, error)
	// Delete elimina la etiqueta y sus asociaciones con productos.
	Delete(ctx context.Context, id string) error
}
