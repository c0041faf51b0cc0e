package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopSellingItem producto en el ranking de ventas.
type TopSellingItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// TopSellingResponse ranking de productos más vendidos en el período.
type TopSellingResponse struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	By    string           `json:"by"` // quantity | revenue
	Items []TopSellingItem `json:"items"`
}

// SalesSummaryResponse totales de ventas del período.
type SalesSummaryResponse struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	SalesCount   int64            `json:"sales_count"`
	QuantitySold int64            `json:"quantity_sold"`
	Revenue      decimal.Decimal  `json:"revenue"`
	TopProducts  []TopSellingItem `json:"top_products"`
}

// PurchaseSummaryResponse totales de compras del período.
type PurchaseSummaryResponse struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	PurchaseCount     int64           `json:"purchase_count"`
	QuantityPurchased int64           `json:"quantity_purchased"`
	TotalCost         decimal.Decimal `json:"total_cost"`
}

// ExpiringBatchItem lote comprado que vence dentro de la ventana consultada.
type ExpiringBatchItem struct {
	PurchaseID  string    `json:"purchase_id"`
	ProductID   string    `json:"product_id"`
	LocationID  string    `json:"location_id"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	BatchNumber string    `json:"batch_number,omitempty"`
	Quantity    int64     `json:"quantity"`
	ExpiryDate  time.Time `json:"expiry_date"`
	DaysLeft    int       `json:"days_left"`
}

// ExpiringBatchesResponse lotes por vencer, el más próximo primero.
type ExpiringBatchesResponse struct {
	Days  int                 `json:"days"`
	Until time.Time           `json:"until"`
	Items []ExpiringBatchItem `json:"items"`
}

// ReplenishmentQuery parámetros del reporte de reposición.
type ReplenishmentQuery struct {
	Threshold int64 `query:"threshold"` // existencia <= threshold entra al reporte
	Target    int64 `query:"target"`    // existencia deseada tras reponer
	Days      int   `query:"days"`      // ventana de ventas para priorizar
	Limit     int   `query:"limit"`
}

// ReplenishmentItem sugerencia de pedido para un par (producto, ubicación).
type ReplenishmentItem struct {
	Priority       int    `json:"priority"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Barcode        string `json:"barcode,omitempty"`
	LocationID     string `json:"location_id"`
	LocationName   string `json:"location_name"`
	CurrentStock   int64  `json:"current_stock"`
	SuggestedOrder int64  `json:"suggested_order"`
	UnitsSold      int64  `json:"units_sold"`
}

// ReplenishmentResponse lista priorizada de reposición.
type ReplenishmentResponse struct {
	Threshold int64               `json:"threshold"`
	Target    int64               `json:"target"`
	Days      int                 `json:"days"`
	Items     []ReplenishmentItem `json:"items"`
}
