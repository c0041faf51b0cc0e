package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Barcode     string   `json:"barcode" validate:"omitempty,max=50"`
	Unit        string   `json:"unit" validate:"omitempty,max=20"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id" validate:"omitempty,uuid"`
	TagIDs      []string `json:"tag_ids" validate:"omitempty,dive,uuid"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no cambian).
// CategoryID = "" quita la categoría.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Barcode     *string `json:"barcode" validate:"omitempty,max=50"`
	Unit        *string `json:"unit" validate:"omitempty,max=20"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Barcode     string        `json:"barcode,omitempty"`
	Unit        string        `json:"unit,omitempty"`
	Description string        `json:"description,omitempty"`
	CategoryID  string        `json:"category_id,omitempty"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductQuery filtros de listado de productos.
type ProductQuery struct {
	PageRequest
	Search     string `query:"q"`
	CategoryID string `query:"category_id"`
	TagID      string `query:"tag_id"`
	Unit       string `query:"unit"`
}

// ProductTagRequest body para POST /api/products/:id/tags.
type ProductTagRequest struct {
	TagID string `json:"tag_id" validate:"required,uuid"`
}
