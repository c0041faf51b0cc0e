package dto

import "time"

// OpenSessionRequest body para POST /api/inventory-sessions.
type OpenSessionRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
}

// AddLineRequest body para POST /api/inventory-sessions/:id/lines.
type AddLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// RecordCountRequest body para PUT /api/inventory-lines/:id/count.
type RecordCountRequest struct {
	CountedQuantity *int64 `json:"counted_quantity" validate:"required,gte=0"`
	Note            string `json:"note" validate:"omitempty,max=255"`
}

// SessionResponse salida de una sesión de conteo.
type SessionResponse struct {
	ID         string     `json:"id"`
	LocationID string     `json:"location_id"`
	StartedBy  string     `json:"started_by"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Status     string     `json:"status"`
}

// LineResponse salida de una línea de conteo con sus campos derivados.
type LineResponse struct {
	ID               string `json:"id"`
	SessionID        string `json:"session_id"`
	ProductID        string `json:"product_id"`
	ExpectedQuantity int64  `json:"expected_quantity"`
	CountedQuantity  *int64 `json:"counted_quantity"`
	Note             string `json:"note,omitempty"`
	Difference       *int64 `json:"difference"`
	HasDiscrepancy   bool   `json:"has_discrepancy"`
	IsSurplus        bool   `json:"is_surplus"`
	IsShortage       bool   `json:"is_shortage"`
}

// SessionSummaryResponse totales de una sesión.
type SessionSummaryResponse struct {
	Lines         int   `json:"lines"`
	Counted       int   `json:"counted"`
	Uncounted     int   `json:"uncounted"`
	Discrepancies int   `json:"discrepancies"`
	Surpluses     int   `json:"surpluses"`
	Shortages     int   `json:"shortages"`
	TotalExpected int64 `json:"total_expected"`
	TotalCounted  int64 `json:"total_counted"`
	NetDifference int64 `json:"net_difference"`
}

// SessionDetailResponse sesión con sus líneas y totales.
type SessionDetailResponse struct {
	SessionResponse
	Lines   []LineResponse         `json:"lines"`
	Summary SessionSummaryResponse `json:"summary"`
}

// CloseSessionResponse resultado del cierre: sesión cerrada y ajustes aplicados.
type CloseSessionResponse struct {
	Session     SessionResponse    `json:"session"`
	Adjustments []MovementResponse `json:"adjustments"`
}

// SessionListResponse lista paginada de sesiones.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
