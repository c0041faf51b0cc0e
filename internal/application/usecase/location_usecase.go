package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones (bodegas, tiendas, cocinas).
type LocationUseCase struct {
	repo     repository.LocationRepository
	stock    repository.StockRepository
	sessions repository.InventorySessionRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	repo repository.LocationRepository,
	stock repository.StockRepository,
	sessions repository.InventorySessionRepository,
) *LocationUseCase {
	return &LocationUseCase{repo: repo, stock: stock, sessions: sessions}
}

// Create crea una nueva ubicación.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Update actualiza una ubicación.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := domain.NormalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name vacío: %w", domain.ErrInvalidInput)
		}
		location.Name = name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una ubicación sin existencias ni sesiones de conteo.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	hasStock, err := uc.stock.ExistsForLocation(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return fmt.Errorf("la ubicación tiene existencias registradas: %w", domain.ErrInvalidInput)
	}
	hasSessions, err := uc.sessions.ExistsForLocation(ctx, id)
	if err != nil {
		return err
	}
	if hasSessions {
		return fmt.Errorf("la ubicación tiene sesiones de conteo: %w", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *LocationUseCase) get(ctx context.Context, id string) (*entity.Location, error) {
	if err := checkID("location_id", id); err != nil {
		return nil, err
	}
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return location, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
