package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	LocationID   string          `json:"location_id" validate:"required,uuid"`
	SupplierID   string          `json:"supplier_id" validate:"omitempty,uuid"`
	Quantity     int64           `json:"quantity" validate:"gt=0"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	BatchNumber  string          `json:"batch_number" validate:"omitempty,max=50"`
	ExpiryDate   *time.Time      `json:"expiry_date"`
	PurchaseDate *time.Time      `json:"purchase_date"` // nil = ahora
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	Quantity     int64           `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	PurchaseDate time.Time       `json:"purchase_date"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id" validate:"required,uuid"`
	Quantity   int64           `json:"quantity" validate:"gt=0"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	SaleDate   *time.Time      `json:"sale_date"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	UserID     string          `json:"user_id,omitempty"`
	Quantity   int64           `json:"quantity"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	Revenue    decimal.Decimal `json:"revenue"`
	SaleDate   time.Time       `json:"sale_date"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID      string     `json:"product_id" validate:"required,uuid"`
	FromLocationID string     `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string     `json:"to_location_id" validate:"required,uuid,nefield=FromLocationID"`
	Quantity       int64      `json:"quantity" validate:"gt=0"`
	TransferDate   *time.Time `json:"transfer_date"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	FromLocationID string    `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	UserID         string    `json:"user_id,omitempty"`
	Quantity       int64     `json:"quantity"`
	TransferDate   time.Time `json:"transfer_date"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransactionQuery filtros comunes de compras, ventas y traslados.
type TransactionQuery struct {
	PageRequest
	ProductID  string
	LocationID string
	From       *time.Time
	To         *time.Time // exclusivo

	// Solo compras.
	SupplierID     string
	BatchNumber    string
	ExpiringBefore *time.Time // exclusivo
}
