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

// ProductUseCase casos de uso CRUD para productos. Las existencias se manejan vía el libro.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	stock      repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	stock repository.StockRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, tags: tags, stock: stock}
}

// Create crea un producto. Nombre y código de barras deben ser únicos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	if err := uc.checkUnique(ctx, name, in.Barcode, ""); err != nil {
		return nil, err
	}
	if in.CategoryID != "" {
		if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	tags := make([]entity.Tag, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		tag, err := uc.requireTag(ctx, id)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Barcode:     in.Barcode,
		Unit:        in.Unit,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByBarcode busca un producto por código de barras (lector en caja).
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto con código %q: %w", barcode, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Campos nil no cambian.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, barcode := product.Name, product.Barcode
	if in.Name != nil {
		name = domain.NormalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name vacío: %w", domain.ErrInvalidInput)
		}
	}
	if in.Barcode != nil {
		barcode = *in.Barcode
	}
	if err := uc.checkUnique(ctx, name, barcode, product.ID); err != nil {
		return nil, err
	}
	product.Name, product.Barcode = name, barcode
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
				return nil, err
			}
		}
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros de texto, categoría, etiqueta y unidad.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if err := checkFilterIDs("category_id", q.CategoryID, "tag_id", q.TagID); err != nil {
		return nil, err
	}
	q.Normalize()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		TagID:      q.TagID,
		Unit:       q.Unit,
	}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Delete elimina un producto. Se rechaza si todavía tiene filas en el libro.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	inUse, err := uc.stock.ExistsForProduct(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("el producto tiene existencias registradas: %w", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(ctx, id)
}

// AddTag asocia una etiqueta al producto. Repetir la asociación no es error.
func (uc *ProductUseCase) AddTag(ctx context.Context, productID, tagID string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	tag, err := uc.requireTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if !product.HasTag(tagID) {
		if err := uc.repo.AddTag(ctx, productID, tagID); err != nil {
			return nil, err
		}
		product.Tags = append(product.Tags, *tag)
	}
	return toProductResponse(product), nil
}

// RemoveTag quita la etiqueta del producto.
func (uc *ProductUseCase) RemoveTag(ctx context.Context, productID, tagID string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasTag(tagID) {
		return nil, fmt.Errorf("el producto no tiene la etiqueta %s: %w", tagID, domain.ErrNotFound)
	}
	if err := uc.repo.RemoveTag(ctx, productID, tagID); err != nil {
		return nil, err
	}
	kept := product.Tags[:0]
	for _, t := range product.Tags {
		if t.ID != tagID {
			kept = append(kept, t)
		}
	}
	product.Tags = kept
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	if err := checkID("product_id", id); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func (uc *ProductUseCase) checkUnique(ctx context.Context, name, barcode, excludeID string) error {
	exists, err := uc.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("producto %q: %w", name, domain.ErrDuplicate)
	}
	if barcode == "" {
		return nil
	}
	exists, err = uc.repo.ExistsByBarcode(ctx, barcode, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("código de barras %q: %w", barcode, domain.ErrDuplicate)
	}
	return nil
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id string) error {
	if err := checkID("category_id", id); err != nil {
		return err
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (uc *ProductUseCase) requireTag(ctx context.Context, id string) (*entity.Tag, error) {
	if err := checkID("tag_id", id); err != nil {
		return nil, err
	}
	t, err := uc.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("etiqueta %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	tags := make([]dto.TagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, dto.TagResponse{ID: t.ID, Name: t.Name})
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Barcode:     p.Barcode,
		Unit:        p.Unit,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
