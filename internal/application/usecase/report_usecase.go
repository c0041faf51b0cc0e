package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

const (
	defaultTopN         = 10
	maxTopN             = 100
	summaryTopN         = 5
	defaultSalesDays    = 90
	maxSalesDays        = 365
	defaultExpiryDays   = 30
	maxExpiryDays       = 365
	defaultReplenishN   = 50
	maxReplenishN       = 500
	replenishSalesScope = 500
)

// StockExporter genera la planilla de existencias (XLSX).
type StockExporter interface {
	ExportStock(ctx context.Context, rows []*entity.StockDetail, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase reportes de ventas, reposición y exportación de existencias.
type ReportUseCase struct {
	sales     repository.SaleRepository
	purchases repository.PurchaseRepository
	stock     repository.StockRepository
	locations repository.LocationRepository
	exporter  StockExporter
}

// NewReportUseCase construye el caso de uso. exporter puede ser nil si no se expone la exportación.
func NewReportUseCase(
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
	stock repository.StockRepository,
	locations repository.LocationRepository,
	exporter StockExporter,
) *ReportUseCase {
	return &ReportUseCase{sales: sales, purchases: purchases, stock: stock, locations: locations, exporter: exporter}
}

// TopSelling ranking de productos vendidos en el período, por cantidad o por ingreso.
func (uc *ReportUseCase) TopSelling(ctx context.Context, fromStr, toStr, by string, limit int) (*dto.TopSellingResponse, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	switch by {
	case "":
		by = "quantity"
	case "quantity", "revenue":
	default:
		return nil, fmt.Errorf("by debe ser quantity o revenue: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultTopN
	}
	if limit > maxTopN {
		limit = maxTopN
	}
	rows, err := uc.sales.TopSelling(ctx, from, to, by == "revenue", limit)
	if err != nil {
		return nil, fmt.Errorf("reporte: top ventas: %w", err)
	}
	return &dto.TopSellingResponse{From: from, To: to, By: by, Items: toTopSellingItems(rows)}, nil
}

// SalesSummary totales del período junto con los productos más vendidos.
// Ambas consultas son independientes y se lanzan en paralelo.
func (uc *ReportUseCase) SalesSummary(ctx context.Context, fromStr, toStr string) (*dto.SalesSummaryResponse, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	type summaryResult struct {
		summary entity.SalesSummary
		err     error
	}
	type topResult struct {
		rows []entity.ProductSales
		err  error
	}
	sumChan := make(chan summaryResult, 1)
	topChan := make(chan topResult, 1)

	go func() {
		s, err := uc.sales.Summary(ctx, from, to)
		sumChan <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.sales.TopSelling(ctx, from, to, false, summaryTopN)
		topChan <- topResult{rows, err}
	}()

	sumRes := <-sumChan
	topRes := <-topChan
	if sumRes.err != nil {
		return nil, fmt.Errorf("reporte: resumen: %w", sumRes.err)
	}
	if topRes.err != nil {
		return nil, fmt.Errorf("reporte: top ventas: %w", topRes.err)
	}

	return &dto.SalesSummaryResponse{
		From:         from,
		To:           to,
		SalesCount:   sumRes.summary.SalesCount,
		QuantitySold: sumRes.summary.QuantitySold,
		Revenue:      sumRes.summary.Revenue.Round(2),
		TopProducts:  toTopSellingItems(topRes.rows),
	}, nil
}

// PurchaseSummary totales de compras del período, opcionalmente de un solo proveedor.
func (uc *ReportUseCase) PurchaseSummary(ctx context.Context, fromStr, toStr, supplierID string) (*dto.PurchaseSummaryResponse, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	if err := checkFilterIDs("supplier_id", supplierID); err != nil {
		return nil, err
	}
	s, err := uc.purchases.Summary(ctx, from, to, supplierID)
	if err != nil {
		return nil, fmt.Errorf("reporte: compras: %w", err)
	}
	return &dto.PurchaseSummaryResponse{
		From:              from,
		To:                to,
		SupplierID:        supplierID,
		PurchaseCount:     s.PurchaseCount,
		QuantityPurchased: s.QuantityPurchased,
		TotalCost:         s.TotalCost.Round(2),
	}, nil
}

// ExpiringBatches lotes comprados que vencen entre hoy y dentro de days días (incluido).
func (uc *ReportUseCase) ExpiringBatches(ctx context.Context, days, limit int) (*dto.ExpiringBatchesResponse, error) {
	if days <= 0 {
		days = defaultExpiryDays
	}
	if days > maxExpiryDays {
		return nil, fmt.Errorf("days máximo %d: %w", maxExpiryDays, domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > dto.MaxLimit {
		limit = dto.MaxLimit
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := today.AddDate(0, 0, days+1)
	list, err := uc.purchases.List(ctx, repository.TransactionFilter{ExpiringFrom: &today, ExpiringBefore: &until}, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("reporte: vencimientos: %w", err)
	}
	items := make([]dto.ExpiringBatchItem, 0, len(list))
	for _, p := range list {
		if p.ExpiryDate == nil {
			continue
		}
		exp := time.Date(p.ExpiryDate.Year(), p.ExpiryDate.Month(), p.ExpiryDate.Day(), 0, 0, 0, 0, now.Location())
		items = append(items, dto.ExpiringBatchItem{
			PurchaseID:  p.ID,
			ProductID:   p.ProductID,
			LocationID:  p.LocationID,
			SupplierID:  p.SupplierID,
			BatchNumber: p.BatchNumber,
			Quantity:    p.Quantity,
			ExpiryDate:  *p.ExpiryDate,
			DaysLeft:    int(exp.Sub(today).Hours()/24 + 0.5),
		})
	}
	return &dto.ExpiringBatchesResponse{Days: days, Until: until.AddDate(0, 0, -1), Items: items}, nil
}

// Replenishment devuelve los pares con existencia <= threshold y la cantidad a pedir para llegar
// a target. Prioriza por unidades vendidas en los últimos días y luego por déficit.
func (uc *ReportUseCase) Replenishment(ctx context.Context, q dto.ReplenishmentQuery) (*dto.ReplenishmentResponse, error) {
	if q.Threshold < 0 {
		return nil, fmt.Errorf("threshold negativo: %w", domain.ErrInvalidInput)
	}
	if q.Target == 0 {
		q.Target = q.Threshold*2 + 1
	}
	if q.Target <= q.Threshold {
		return nil, fmt.Errorf("target debe ser mayor que threshold: %w", domain.ErrInvalidInput)
	}
	if q.Days <= 0 {
		q.Days = defaultSalesDays
	}
	if q.Days > maxSalesDays {
		q.Days = maxSalesDays
	}
	if q.Limit <= 0 {
		q.Limit = defaultReplenishN
	}
	if q.Limit > maxReplenishN {
		q.Limit = maxReplenishN
	}

	// 1. Pares bajo el umbral
	low, err := uc.stock.ListLowStock(ctx, q.Threshold, maxReplenishN, 0)
	if err != nil {
		return nil, fmt.Errorf("reporte: existencias bajas: %w", err)
	}
	if len(low) == 0 {
		return &dto.ReplenishmentResponse{Threshold: q.Threshold, Target: q.Target, Days: q.Days, Items: []dto.ReplenishmentItem{}}, nil
	}

	// 2. Ventas recientes por producto (sin historial cuenta como cero)
	end := time.Now()
	start := end.AddDate(0, 0, -q.Days)
	sold, err := uc.sales.TopSelling(ctx, start, end, false, replenishSalesScope)
	if err != nil {
		return nil, fmt.Errorf("reporte: ventas recientes: %w", err)
	}
	unitsByProduct := make(map[string]int64, len(sold))
	for _, s := range sold {
		unitsByProduct[s.ProductID] = s.QuantitySold
	}

	// 3. Sugerencias
	items := make([]dto.ReplenishmentItem, 0, len(low))
	for _, row := range low {
		items = append(items, dto.ReplenishmentItem{
			ProductID:      row.ProductID,
			ProductName:    row.ProductName,
			Barcode:        row.Barcode,
			LocationID:     row.LocationID,
			LocationName:   row.LocationName,
			CurrentStock:   row.Quantity,
			SuggestedOrder: q.Target - row.Quantity,
			UnitsSold:      unitsByProduct[row.ProductID],
		})
	}

	// 4. Orden: más vendidos primero, luego mayor déficit, luego nombre
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		if a.SuggestedOrder != b.SuggestedOrder {
			return a.SuggestedOrder > b.SuggestedOrder
		}
		return a.ProductName < b.ProductName
	})
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	for i := range items {
		items[i].Priority = i + 1
	}
	return &dto.ReplenishmentResponse{Threshold: q.Threshold, Target: q.Target, Days: q.Days, Items: items}, nil
}

// ExportStock genera el XLSX de existencias; locationID vacío exporta todas las ubicaciones.
func (uc *ReportUseCase) ExportStock(ctx context.Context, locationID string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación no configurada")
	}
	if locationID != "" {
		if err := checkID("location_id", locationID); err != nil {
			return nil, "", err
		}
		l, err := uc.locations.GetByID(ctx, locationID)
		if err != nil {
			return nil, "", err
		}
		if l == nil {
			return nil, "", fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
		}
	}
	rows, err := uc.stock.ListDetailed(ctx, locationID)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: existencias: %w", err)
	}
	now := time.Now()
	data, err := uc.exporter.ExportStock(ctx, rows, now)
	if err != nil {
		return nil, "", fmt.Errorf("exportar existencias: %w", err)
	}
	return data, fmt.Sprintf("existencias-%s.xlsx", now.Format("20060102-1504")), nil
}

func toTopSellingItems(rows []entity.ProductSales) []dto.TopSellingItem {
	items := make([]dto.TopSellingItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.TopSellingItem{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue.Round(2),
		})
	}
	return items
}

// parsePeriod convierte las fechas YYYY-MM-DD del query; sin from usa el primer día del mes,
// sin to usa ahora. El día de to se incluye completo: el límite devuelto es la medianoche
// siguiente y se usa como cota exclusiva.
func parsePeriod(fromStr, toStr string) (from, to time.Time, err error) {
	now := time.Now()

	if toStr == "" {
		to = now
	} else {
		to, err = time.ParseInLocation("2006-01-02", toStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to inválido: %w", domain.ErrInvalidInput)
		}
		to = to.AddDate(0, 0, 1)
	}

	if fromStr == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		from, err = time.ParseInLocation("2006-01-02", fromStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from inválido: %w", domain.ErrInvalidInput)
		}
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("from no puede ser posterior a to: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}
