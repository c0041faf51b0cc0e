package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

// LedgerUseCase consultas del libro de existencias y ajustes directos.
type LedgerUseCase struct {
	d Deps
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(d Deps) *LedgerUseCase {
	return &LedgerUseCase{d: d}
}

// GetStock devuelve la existencia del par. Sin fila en el libro equivale a cantidad cero (no es error).
func (uc *LedgerUseCase) GetStock(ctx context.Context, productID, locationID string) (*dto.StockResponse, error) {
	if err := checkID("product_id", productID); err != nil {
		return nil, err
	}
	if err := checkID("location_id", locationID); err != nil {
		return nil, err
	}
	s, err := uc.d.Stock.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &dto.StockResponse{ProductID: productID, LocationID: locationID}, nil
	}
	out := toStockResponse(s)
	return &out, nil
}

// AdjustStock aplica un ajuste directo al libro (con su movimiento) en una transacción.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	mt := entity.MovementType(in.Type)
	if !mt.Valid() {
		return nil, fmt.Errorf("tipo %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.ReferenceID != "" {
		if err := checkID("reference_id", in.ReferenceID); err != nil {
			return nil, err
		}
	}
	if _, err := uc.d.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.d.requireLocation(ctx, in.LocationID); err != nil {
		return nil, err
	}
	if err := uc.d.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var res *AdjustResult
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		var err error
		res, err = uc.d.Ledger.Adjust(ctx, r, Adjustment{
			ProductID:   in.ProductID,
			LocationID:  in.LocationID,
			Delta:       in.Delta,
			Type:        mt,
			ReferenceID: in.ReferenceID,
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.notifier().adjusted(ctx, []*AdjustResult{res})
	return &dto.AdjustStockResponse{
		Movement: toMovementResponse(res.Movement),
		Stock:    toStockResponse(res.Stock),
	}, nil
}

// TotalForProduct suma la existencia del producto en todas las ubicaciones (sin caché).
func (uc *LedgerUseCase) TotalForProduct(ctx context.Context, productID string) (*dto.ProductTotalResponse, error) {
	if _, err := uc.d.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	total, err := uc.d.Stock.TotalForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.d.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(rows))
	for _, s := range rows {
		items = append(items, toStockResponse(s))
	}
	return &dto.ProductTotalResponse{ProductID: productID, Total: total, ByLocation: items}, nil
}

// ListByLocation existencias registradas en una ubicación.
func (uc *LedgerUseCase) ListByLocation(ctx context.Context, locationID string, page dto.PageRequest) (*dto.StockListResponse, error) {
	if _, err := uc.d.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	page.Normalize()
	rows, err := uc.d.Stock.ListByLocation(ctx, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(rows))
	for _, s := range rows {
		items = append(items, toStockResponse(s))
	}
	return &dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// LowStock existencias con cantidad menor o igual al umbral.
func (uc *LedgerUseCase) LowStock(ctx context.Context, threshold int64, page dto.PageRequest) (*dto.LowStockResponse, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("threshold negativo: %w", domain.ErrInvalidInput)
	}
	page.Normalize()
	rows, err := uc.d.Stock.ListLowStock(ctx, threshold, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockDetailResponse, 0, len(rows))
	for _, s := range rows {
		items = append(items, toStockDetailResponse(s))
	}
	return &dto.LowStockResponse{
		Threshold: threshold,
		Items:     items,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListMovements historial de movimientos con filtros opcionales.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	f := repository.MovementFilter{
		ProductID:   q.ProductID,
		LocationID:  q.LocationID,
		Type:        entity.MovementType(q.Type),
		ReferenceID: q.ReferenceID,
		From:        q.From,
		To:          q.To,
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("tipo %q: %w", q.Type, domain.ErrInvalidInput)
	}
	if err := checkFilterIDs("product_id", f.ProductID, "location_id", f.LocationID, "reference_id", f.ReferenceID); err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, fmt.Errorf("rango de fechas invertido: %w", domain.ErrInvalidInput)
	}
	q.Normalize()
	list, err := uc.d.Movements.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// VerifyLedger compara la cantidad del libro con la suma de sus movimientos.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID, locationID string) (*dto.LedgerCheckResponse, error) {
	if err := checkID("product_id", productID); err != nil {
		return nil, err
	}
	if err := checkID("location_id", locationID); err != nil {
		return nil, err
	}
	s, err := uc.d.Stock.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	var qty int64
	if s != nil {
		qty = s.Quantity
	}
	sum, err := uc.d.Movements.SumForPair(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if qty != sum && uc.d.Log != nil {
		uc.d.Log.Warn().
			Str("product_id", productID).
			Str("location_id", locationID).
			Int64("ledger", qty).
			Int64("movements", sum).
			Msg("libro y movimientos no cuadran")
	}
	return &dto.LedgerCheckResponse{
		ProductID:    productID,
		LocationID:   locationID,
		LedgerQty:    qty,
		MovementsSum: sum,
		Consistent:   qty == sum,
		Discrepancy:  qty - sum,
	}, nil
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	out := dto.StockResponse{ProductID: s.ProductID, LocationID: s.LocationID, Quantity: s.Quantity}
	if s.IsRecorded() {
		t := s.LastUpdated
		out.LastUpdated = &t
	}
	return out
}

func toStockDetailResponse(s *entity.StockDetail) dto.StockDetailResponse {
	return dto.StockDetailResponse{
		StockResponse: toStockResponse(&s.Stock),
		ProductName:   s.ProductName,
		Barcode:       s.Barcode,
		Unit:          s.Unit,
		LocationName:  s.LocationName,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		QuantityChange: m.QuantityChange,
		MovementType:   string(m.Type),
		ReferenceID:    m.ReferenceID,
		UserID:         m.UserID,
		MovementDate:   m.MovementDate,
	}
}
