package dto

import "time"

// StockResponse existencia de un producto en una ubicación.
// LastUpdated es nil si el par nunca tuvo actividad (cantidad cero).
type StockResponse struct {
	ProductID   string     `json:"product_id"`
	LocationID  string     `json:"location_id"`
	Quantity    int64      `json:"quantity"`
	LastUpdated *time.Time `json:"last_updated"`
}

// StockDetailResponse existencia con datos descriptivos (reportes).
type StockDetailResponse struct {
	StockResponse
	ProductName  string `json:"product_name"`
	Barcode      string `json:"barcode,omitempty"`
	Unit         string `json:"unit,omitempty"`
	LocationName string `json:"location_name"`
}

// ProductTotalResponse existencia total de un producto en todas las ubicaciones.
type ProductTotalResponse struct {
	ProductID  string          `json:"product_id"`
	Total      int64           `json:"total"`
	ByLocation []StockResponse `json:"by_location"`
}

// StockListResponse lista de existencias.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// LowStockResponse existencias en o por debajo del umbral.
type LowStockResponse struct {
	Threshold int64                 `json:"threshold"`
	Items     []StockDetailResponse `json:"items"`
	Page      PageResponse          `json:"page"`
}

// AdjustStockRequest body para POST /api/stock/adjust (ajuste directo del libro).
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	LocationID  string `json:"location_id" validate:"required,uuid"`
	Delta       int64  `json:"delta" validate:"ne=0"`
	Type        string `json:"type" validate:"required,oneof=PURCHASE SALE TRANSFER_IN TRANSFER_OUT INVENTORY_ADJUSTMENT"`
	ReferenceID string `json:"reference_id" validate:"omitempty,uuid"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	LocationID     string    `json:"location_id"`
	QuantityChange int64     `json:"quantity_change"`
	MovementType   string    `json:"movement_type"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	MovementDate   time.Time `json:"movement_date"`
}

// AdjustStockResponse resultado de un ajuste: movimiento creado y saldo resultante.
type AdjustStockResponse struct {
	Movement MovementResponse `json:"movement"`
	Stock    StockResponse    `json:"stock"`
}

// MovementQuery filtros del historial de movimientos.
type MovementQuery struct {
	PageRequest
	ProductID   string     `query:"product_id"`
	LocationID  string     `query:"location_id"`
	Type        string     `query:"type"`
	ReferenceID string     `query:"reference_id"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerCheckResponse comparación entre el saldo del libro y la suma del historial.
type LedgerCheckResponse struct {
	ProductID    string `json:"product_id"`
	LocationID   string `json:"location_id"`
	LedgerQty    int64  `json:"ledger_quantity"`
	MovementsSum int64  `json:"movements_sum"`
	Consistent   bool   `json:"consistent"`
	Discrepancy  int64  `json:"discrepancy"`
}
