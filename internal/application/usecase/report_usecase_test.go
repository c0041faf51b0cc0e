package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
)

func detail(product, name string, qty int64) *entity.StockDetail {
	return &entity.StockDetail{
		Stock:        entity.Stock{ProductID: product, LocationID: locationID, Quantity: qty},
		ProductName:  name,
		LocationName: "Bodega",
	}
}

func TestReplenishment_PriorizaVentasYLuegoDeficit(t *testing.T) {
	stock := &mockStock{}
	sales := &mockSales{}
	uc := usecase.NewReportUseCase(sales, nil, stock, &mockLocations{}, nil)

	stock.On("ListLowStock", mock.Anything, int64(5), mock.Anything, 0).Return([]*entity.StockDetail{
		detail("p1", "Avena", 4),
		detail("p2", "Miel", 0),
		detail("p3", "Sal", 2),
	}, nil)
	sales.On("TopSelling", mock.Anything, mock.Anything, mock.Anything, false, mock.Anything).Return([]entity.ProductSales{
		{ProductID: "p1", QuantitySold: 40},
	}, nil)

	got, err := uc.Replenishment(context.Background(), dto.ReplenishmentQuery{Threshold: 5, Target: 20})
	require.NoError(t, err)
	require.Len(t, got.Items, 3)

	assert.Equal(t, "p1", got.Items[0].ProductID, "el más vendido va primero")
	assert.Equal(t, int64(16), got.Items[0].SuggestedOrder)
	assert.Equal(t, "p2", got.Items[1].ProductID, "sin ventas, mayor déficit primero")
	assert.Equal(t, int64(20), got.Items[1].SuggestedOrder)
	assert.Equal(t, 3, got.Items[2].Priority)
	assert.Equal(t, 90, got.Days)
}

func TestReplenishment_TargetMenorQueUmbral(t *testing.T) {
	uc := usecase.NewReportUseCase(&mockSales{}, nil, &mockStock{}, &mockLocations{}, nil)

	_, err := uc.Replenishment(context.Background(), dto.ReplenishmentQuery{Threshold: 10, Target: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTopSelling_CriterioInvalido(t *testing.T) {
	uc := usecase.NewReportUseCase(&mockSales{}, nil, &mockStock{}, &mockLocations{}, nil)

	_, err := uc.TopSelling(context.Background(), "", "", "margin", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTopSelling_FechaInvalida(t *testing.T) {
	uc := usecase.NewReportUseCase(&mockSales{}, nil, &mockStock{}, &mockLocations{}, nil)

	_, err := uc.TopSelling(context.Background(), "2024-13-40", "", "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.TopSelling(context.Background(), "2024-05-10", "2024-05-01", "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSalesSummary_CombinaTotalesYRanking(t *testing.T) {
	sales := &mockSales{}
	uc := usecase.NewReportUseCase(sales, nil, &mockStock{}, &mockLocations{}, nil)

	may31End := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	sales.On("Summary", mock.Anything, mock.Anything, may31End).Return(entity.SalesSummary{
		SalesCount: 3, QuantitySold: 12, Revenue: decimal.RequireFromString("45.555"),
	}, nil)
	sales.On("TopSelling", mock.Anything, mock.Anything, mock.Anything, false, 5).Return([]entity.ProductSales{
		{ProductID: "p1", ProductName: "Pan", QuantitySold: 12, Revenue: decimal.RequireFromString("45.555")},
	}, nil)

	got, err := uc.SalesSummary(context.Background(), "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.SalesCount)
	assert.True(t, decimal.RequireFromString("45.56").Equal(got.Revenue))
	require.Len(t, got.TopProducts, 1)
	assert.True(t, got.To.Equal(may31End), "to es la medianoche siguiente: incluye el último segundo del día")
	sales.AssertExpectations(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseSummary_PorProveedor(t *testing.T) {
	purchases := &mockPurchases{}
	uc := usecase.NewReportUseCase(&mockSales{}, purchases, &mockStock{}, &mockLocations{}, nil)
	supplier := "6f1d1a8e-3c1b-4a4e-9a53-1f6c1d2e3f40"

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	purchases.On("Summary", mock.Anything, from, to, supplier).Return(entity.PurchaseSummary{
		PurchaseCount: 2, QuantityPurchased: 30, TotalCost: decimal.RequireFromString("75.005"),
	}, nil)

	got, err := uc.PurchaseSummary(context.Background(), "2024-05-01", "2024-05-31", supplier)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.PurchaseCount)
	assert.Equal(t, int64(30), got.QuantityPurchased)
	assert.True(t, decimal.RequireFromString("75.01").Equal(got.TotalCost))
	assert.Equal(t, supplier, got.SupplierID)
	purchases.AssertExpectations(t)
}

func TestPurchaseSummary_ProveedorMalformado(t *testing.T) {
	uc := usecase.NewReportUseCase(&mockSales{}, &mockPurchases{}, &mockStock{}, &mockLocations{}, nil)

	_, err := uc.PurchaseSummary(context.Background(), "", "", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpiringBatches_VentanaYDiasRestantes(t *testing.T) {
	purchases := &mockPurchases{}
	uc := usecase.NewReportUseCase(&mockSales{}, purchases, &mockStock{}, &mockLocations{}, nil)

	now := time.Now()
	in3 := time.Date(now.Year(), now.Month(), now.Day()+3, 0, 0, 0, 0, time.UTC)
	purchases.On("List", mock.Anything, mock.MatchedBy(func(f repository.TransactionFilter) bool {
		return f.ExpiringFrom != nil && f.ExpiringBefore != nil &&
			f.ExpiringBefore.Sub(*f.ExpiringFrom) >= 7*24*time.Hour-time.Hour
	}), dto.MaxLimit, 0).Return([]*entity.Purchase{
		{ID: "c1", ProductID: "p1", BatchNumber: "L-9", Quantity: 6, ExpiryDate: &in3},
	}, nil)

	got, err := uc.ExpiringBatches(context.Background(), 6, 0)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].DaysLeft)
	assert.Equal(t, "L-9", got.Items[0].BatchNumber)
	purchases.AssertExpectations(t)

	_, err = uc.ExpiringBatches(context.Background(), 1000, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubExporter struct{ rows int }

func (s *stubExporter) ExportStock(_ context.Context, rows []*entity.StockDetail, _ time.Time) ([]byte, error) {
	s.rows = len(rows)
	return []byte("xlsx"), nil
}

func TestExportStock_UbicacionInexistente(t *testing.T) {
	locations := &mockLocations{}
	uc := usecase.NewReportUseCase(&mockSales{}, nil, &mockStock{}, locations, &stubExporter{})

	locations.On("GetByID", mock.Anything, locationID).Return(nil, nil)

	_, _, err := uc.ExportStock(context.Background(), locationID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportStock_Todas(t *testing.T) {
	stock := &mockStock{}
	exp := &stubExporter{}
	uc := usecase.NewReportUseCase(&mockSales{}, nil, stock, &mockLocations{}, exp)

	stock.On("ListDetailed", mock.Anything, "").Return([]*entity.StockDetail{detail("p1", "Pan", 3)}, nil)

	data, name, err := uc.ExportStock(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Contains(t, name, ".xlsx")
	assert.Equal(t, 1, exp.rows)
}
