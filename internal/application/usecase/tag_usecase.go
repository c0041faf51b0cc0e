package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// TagUseCase casos de uso de etiquetas.
type TagUseCase struct {
	repo repository.TagRepository
}

// NewTagUseCase construye el caso de uso.
func NewTagUseCase(repo repository.TagRepository) *TagUseCase {
	return &TagUseCase{repo: repo}
}

// Create crea una etiqueta con nombre único.
func (uc *TagUseCase) Create(ctx context.Context, in dto.CreateTagRequest) (*dto.TagResponse, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" || len(name) > entity.TagNameMaxLen {
		return nil, fmt.Errorf("name inválido: %w", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("etiqueta %q: %w", name, domain.ErrDuplicate)
	}
	tag := &entity.Tag{ID: uuid.New().String(), Name: name}
	if err := uc.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return &dto.TagResponse{ID: tag.ID, Name: tag.Name}, nil
}

// List lista etiquetas.
func (uc *TagUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.TagListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TagResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.TagResponse{ID: t.ID, Name: t.Name})
	}
	return &dto.TagListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina la etiqueta; las asociaciones con productos se borran en cascada.
func (uc *TagUseCase) Delete(ctx context.Context, id string) error {
	if err := checkID("tag_id", id); err != nil {
		return err
	}
	tag, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tag == nil {
		return fmt.Errorf("etiqueta %s: %w", id, domain.ErrNotFound)
	}
	return uc.repo.Delete(ctx, id)
}
