package inventory

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

// TransactionUseCase registra compras, ventas y traslados. Cada registro persiste la
// transacción y ajusta el libro en la misma tx, con el id de la transacción como referencia.
type TransactionUseCase struct {
	d Deps
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(d Deps) *TransactionUseCase {
	return &TransactionUseCase{d: d}
}

// RecordPurchase valida referencias, guarda la compra y suma la cantidad en la ubicación (PURCHASE).
func (uc *TransactionUseCase) RecordPurchase(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if in.CostPrice.IsNegative() {
		return nil, fmt.Errorf("cost_price negativo: %w", domain.ErrInvalidInput)
	}
	if _, err := uc.d.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.d.requireLocation(ctx, in.LocationID); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		if err := uc.d.requireSupplier(ctx, in.SupplierID); err != nil {
			return nil, err
		}
	}
	if err := uc.d.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		SupplierID:   in.SupplierID,
		LocationID:   in.LocationID,
		UserID:       userID,
		Quantity:     in.Quantity,
		CostPrice:    in.CostPrice,
		BatchNumber:  in.BatchNumber,
		ExpiryDate:   in.ExpiryDate,
		PurchaseDate: dateOrNow(in.PurchaseDate),
	}
	var res *AdjustResult
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		if err := r.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		var err error
		res, err = uc.d.Ledger.Adjust(ctx, r, Adjustment{
			ProductID:   purchase.ProductID,
			LocationID:  purchase.LocationID,
			Delta:       purchase.Quantity,
			Type:        entity.MovementPurchase,
			ReferenceID: purchase.ID,
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.notifier().adjusted(ctx, []*AdjustResult{res})
	return toPurchaseResponse(purchase), nil
}

// RecordSale valida referencias, guarda la venta y descuenta la cantidad (SALE).
// Con la política por defecto falla con ErrInsufficientStock si no alcanza la existencia.
func (uc *TransactionUseCase) RecordSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if in.SalePrice.IsNegative() {
		return nil, fmt.Errorf("sale_price negativo: %w", domain.ErrInvalidInput)
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

	sale := &entity.Sale{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		UserID:     userID,
		Quantity:   in.Quantity,
		SalePrice:  in.SalePrice,
		SaleDate:   dateOrNow(in.SaleDate),
	}
	var res *AdjustResult
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		var err error
		res, err = uc.d.Ledger.Adjust(ctx, r, Adjustment{
			ProductID:   sale.ProductID,
			LocationID:  sale.LocationID,
			Delta:       -sale.Quantity,
			Type:        entity.MovementSale,
			ReferenceID: sale.ID,
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.notifier().adjusted(ctx, []*AdjustResult{res})
	return toSaleResponse(sale), nil
}

// RecordTransfer guarda el traslado y aplica TRANSFER_OUT en origen y TRANSFER_IN en destino.
// Ambos ajustes van en la misma tx: o se ven los dos o ninguno.
func (uc *TransactionUseCase) RecordTransfer(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("origen y destino deben ser distintos: %w", domain.ErrInvalidInput)
	}
	if _, err := uc.d.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.d.requireLocation(ctx, in.FromLocationID); err != nil {
		return nil, err
	}
	if _, err := uc.d.requireLocation(ctx, in.ToLocationID); err != nil {
		return nil, err
	}
	if err := uc.d.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	transfer := &entity.Transfer{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		UserID:         userID,
		Quantity:       in.Quantity,
		TransferDate:   dateOrNow(in.TransferDate),
	}
	var results []*AdjustResult
	err := uc.d.Tx.Run(ctx, func(r Repos) error {
		results = results[:0]
		// Bloquear ambas filas en orden fijo para que traslados cruzados no se bloqueen mutuamente.
		first, second := transfer.FromLocationID, transfer.ToLocationID
		if second < first {
			first, second = second, first
		}
		for _, loc := range []string{first, second} {
			if _, err := r.Stock.GetOrCreateForUpdate(ctx, transfer.ProductID, loc); err != nil {
				return err
			}
		}
		if err := r.Transfers.Create(ctx, transfer); err != nil {
			return err
		}
		out, err := uc.d.Ledger.Adjust(ctx, r, Adjustment{
			ProductID:   transfer.ProductID,
			LocationID:  transfer.FromLocationID,
			Delta:       -transfer.Quantity,
			Type:        entity.MovementTransferOut,
			ReferenceID: transfer.ID,
			UserID:      userID,
		})
		if err != nil {
			return err
		}
		inRes, err := uc.d.Ledger.Adjust(ctx, r, Adjustment{
			ProductID:   transfer.ProductID,
			LocationID:  transfer.ToLocationID,
			Delta:       transfer.Quantity,
			Type:        entity.MovementTransferIn,
			ReferenceID: transfer.ID,
			UserID:      userID,
		})
		if err != nil {
			return err
		}
		results = append(results, out, inRes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.d.notifier().adjusted(ctx, results)
	return toTransferResponse(transfer), nil
}

// GetPurchase obtiene una compra por ID.
func (uc *TransactionUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	if err := checkID("purchase_id", id); err != nil {
		return nil, err
	}
	p, err := uc.d.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
	}
	return toPurchaseResponse(p), nil
}

// GetSale obtiene una venta por ID.
func (uc *TransactionUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if err := checkID("sale_id", id); err != nil {
		return nil, err
	}
	s, err := uc.d.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
	}
	return toSaleResponse(s), nil
}

// GetTransfer obtiene un traslado por ID.
func (uc *TransactionUseCase) GetTransfer(ctx context.Context, id string) (*dto.TransferResponse, error) {
	if err := checkID("transfer_id", id); err != nil {
		return nil, err
	}
	t, err := uc.d.Transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
	}
	return toTransferResponse(t), nil
}

// ListPurchases lista compras filtradas por producto, ubicación, proveedor, lote y fechas.
// Con expiring_before devuelve los lotes que vencen antes de esa fecha, el más próximo primero.
func (uc *TransactionUseCase) ListPurchases(ctx context.Context, q dto.TransactionQuery) (*dto.PurchaseListResponse, error) {
	f, err := toTransactionFilter(&q)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Purchases.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// ListSales lista ventas filtradas por producto, ubicación y fechas.
func (uc *TransactionUseCase) ListSales(ctx context.Context, q dto.TransactionQuery) (*dto.SaleListResponse, error) {
	f, err := toTransactionFilter(&q)
	if err != nil {
		return nil, err
	}
	if f.PurchaseOnly() {
		return nil, fmt.Errorf("proveedor, lote y vencimiento solo filtran compras: %w", domain.ErrInvalidInput)
	}
	list, err := uc.d.Sales.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// ListTransfers lista traslados; LocationID coincide con origen o destino.
func (uc *TransactionUseCase) ListTransfers(ctx context.Context, q dto.TransactionQuery) (*dto.TransferListResponse, error) {
	f, err := toTransactionFilter(&q)
	if err != nil {
		return nil, err
	}
	if f.PurchaseOnly() {
		return nil, fmt.Errorf("proveedor, lote y vencimiento solo filtran compras: %w", domain.ErrInvalidInput)
	}
	list, err := uc.d.Transfers.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

func toTransactionFilter(q *dto.TransactionQuery) (repository.TransactionFilter, error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return repository.TransactionFilter{}, fmt.Errorf("rango de fechas invertido: %w", domain.ErrInvalidInput)
	}
	if err := checkFilterIDs("product_id", q.ProductID, "location_id", q.LocationID, "supplier_id", q.SupplierID); err != nil {
		return repository.TransactionFilter{}, err
	}
	q.Normalize()
	return repository.TransactionFilter{
		ProductID:      q.ProductID,
		LocationID:     q.LocationID,
		From:           q.From,
		To:             q.To,
		SupplierID:     q.SupplierID,
		BatchNumber:    q.BatchNumber,
		ExpiringBefore: q.ExpiringBefore,
	}, nil
}

func dateOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:           p.ID,
		ProductID:    p.ProductID,
		LocationID:   p.LocationID,
		SupplierID:   p.SupplierID,
		UserID:       p.UserID,
		Quantity:     p.Quantity,
		CostPrice:    p.CostPrice,
		TotalCost:    p.TotalCost(),
		BatchNumber:  p.BatchNumber,
		ExpiryDate:   p.ExpiryDate,
		PurchaseDate: p.PurchaseDate,
	}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:         s.ID,
		ProductID:  s.ProductID,
		LocationID: s.LocationID,
		UserID:     s.UserID,
		Quantity:   s.Quantity,
		SalePrice:  s.SalePrice,
		Revenue:    s.Revenue(),
		SaleDate:   s.SaleDate,
	}
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:             t.ID,
		ProductID:      t.ProductID,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		UserID:         t.UserID,
		Quantity:       t.Quantity,
		TransferDate:   t.TransferDate,
	}
}
