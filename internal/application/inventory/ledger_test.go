package inventory_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStock_SinFilaEsCero(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Arroz")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	got, err := uc.GetStock(context.Background(), p, l)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Nil(t, got.LastUpdated, "sin fila no hay fecha de actualización")
}

func TestGetStock_IDInvalido(t *testing.T) {
	uc := inventory.NewLedgerUseCase(newHarness().deps)

	_, err := uc.GetStock(context.Background(), "no-uuid", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStock_LecturaIdempotente(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Arroz")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 7, Type: "PURCHASE"})
	require.NoError(t, err)

	first, err := uc.GetStock(ctx, p, l)
	require.NoError(t, err)
	second, err := uc.GetStock(ctx, p, l)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, h.store.movementsFor(p, l), 1, "leer no genera movimientos")
}

func TestTotalForProduct_SumaUbicaciones(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Harina")
	a := h.store.addLocation("A")
	b := h.store.addLocation("B")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: a, Delta: 4, Type: "PURCHASE"})
	require.NoError(t, err)
	_, err = uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: b, Delta: 6, Type: "PURCHASE"})
	require.NoError(t, err)

	got, err := uc.TotalForProduct(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Total)
	assert.Len(t, got.ByLocation, 2)
}

func TestTotalForProduct_ProductoInexistente(t *testing.T) {
	uc := inventory.NewLedgerUseCase(newHarness().deps)

	_, err := uc.TotalForProduct(context.Background(), "00000000-0000-0000-0000-0000000000aa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_ValidacionAntesDeMutar(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	cases := []struct {
		name string
		in   dto.AdjustStockRequest
		want error
	}{
		{"tipo desconocido", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 1, Type: "GIFT"}, domain.ErrInvalidInput},
		{"compra negativa", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: -1, Type: "PURCHASE"}, domain.ErrInvalidInput},
		{"venta positiva", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 1, Type: "SALE"}, domain.ErrInvalidInput},
		{"ajuste cero", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 0, Type: "INVENTORY_ADJUSTMENT"}, domain.ErrInvalidInput},
		{"producto inexistente", dto.AdjustStockRequest{ProductID: "00000000-0000-0000-0000-0000000000aa", LocationID: l, Delta: 1, Type: "PURCHASE"}, domain.ErrNotFound},
		{"ubicación inexistente", dto.AdjustStockRequest{ProductID: p, LocationID: "00000000-0000-0000-0000-0000000000bb", Delta: 1, Type: "PURCHASE"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AdjustStock(ctx, "", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, h.store.movements, "ningún caso inválido debe dejar movimientos")
	assert.Empty(t, h.store.stock)
}

func TestAdjustStock_UsuarioInexistente(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(context.Background(), "00000000-0000-0000-0000-0000000000cc",
		dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 1, Type: "PURCHASE"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAdjustStock_AjusteNegativoPermitido(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	got, err := uc.AdjustStock(context.Background(), "",
		dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: -3, Type: "INVENTORY_ADJUSTMENT"})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), got.Stock.Quantity)
	assert.Equal(t, "INVENTORY_ADJUSTMENT", got.Movement.MovementType)
}

func TestAdjustStock_DesbordeNoAlteraElLibro(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)
	tx := inventory.NewTransactionUseCase(h.deps)

	_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: -5, Type: "INVENTORY_ADJUSTMENT"})
	require.NoError(t, err)

	_, err = tx.RecordSale(ctx, "", dto.CreateSaleRequest{ProductID: p, LocationID: l, Quantity: math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(-5), h.store.quantity(p, l))

	_, err = uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 10, Type: "PURCHASE"})
	require.NoError(t, err)
	_, err = uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: math.MaxInt64, Type: "PURCHASE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(5), h.store.quantity(p, l))
	assert.Len(t, h.store.movementsFor(p, l), 2)
}

func TestAdjustStock_PublicaEventoTrasCommit(t *testing.T) {
	h := newHarness()
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(context.Background(), "",
		dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 5, Type: "PURCHASE"})
	require.NoError(t, err)

	events := h.pub.ofType(inventory.EventStockAdjusted)
	require.Len(t, events, 1)
	ev := events[0].Data.(inventory.StockAdjustedEvent)
	assert.Equal(t, int64(5), ev.NewQuantity)
	assert.Equal(t, int64(5), ev.QuantityChange)
}

func TestAdjustStock_FalloDelBrokerNoRevierte(t *testing.T) {
	h := newHarness()
	h.pub.err = errors.New("broker caído")
	p := h.store.addProduct("Sal")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(context.Background(), "",
		dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 5, Type: "PURCHASE"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), h.store.quantity(p, l))
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante de conciliación: cantidad == suma de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_CantidadIgualASumaDeMovimientos(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	products := []string{h.store.addProduct("A"), h.store.addProduct("B")}
	locations := []string{h.store.addLocation("X"), h.store.addLocation("Y")}
	uc := inventory.NewLedgerUseCase(h.deps)

	rng := rand.New(rand.NewSource(42))
	types := entity.MovementTypes
	for i := 0; i < 300; i++ {
		mt := types[rng.Intn(len(types))]
		qty := int64(rng.Intn(20) + 1)
		delta := qty
		switch mt {
		case entity.MovementSale, entity.MovementTransferOut:
			delta = -qty
		case entity.MovementAdjustment:
			if rng.Intn(2) == 0 {
				delta = -qty
			}
		}
		// Los rechazos (stock insuficiente) también cuentan: no deben romper el invariante.
		_, _ = uc.AdjustStock(ctx, "", dto.AdjustStockRequest{
			ProductID:  products[rng.Intn(len(products))],
			LocationID: locations[rng.Intn(len(locations))],
			Delta:      delta,
			Type:       string(mt),
		})
	}

	for _, p := range products {
		for _, l := range locations {
			check, err := uc.VerifyLedger(ctx, p, l)
			require.NoError(t, err)
			assert.True(t, check.Consistent, "producto %s ubicación %s", p, l)
			assert.Equal(t, h.store.quantity(p, l), check.MovementsSum)
		}
	}
}

func TestLedger_VentasConcurrentesNoSobrevenden(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Pan")
	l := h.store.addLocation("Tienda")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 10, Type: "PURCHASE"})
	require.NoError(t, err)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: -1, Type: "SALE"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, rejected)
	assert.Equal(t, int64(0), h.store.quantity(p, l))
	assert.Len(t, h.store.movementsFor(p, l), 11)
}

func TestListMovements_FiltraPorTipo(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Pan")
	l := h.store.addLocation("Tienda")
	uc := inventory.NewLedgerUseCase(h.deps)

	_, err := uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: 10, Type: "PURCHASE"})
	require.NoError(t, err)
	_, err = uc.AdjustStock(ctx, "", dto.AdjustStockRequest{ProductID: p, LocationID: l, Delta: -2, Type: "SALE"})
	require.NoError(t, err)

	got, err := uc.ListMovements(ctx, dto.MovementQuery{ProductID: p, Type: "SALE"})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(-2), got.Items[0].QuantityChange)
	assert.Equal(t, dto.DefaultLimit, got.Page.Limit)

	_, err = uc.ListMovements(ctx, dto.MovementQuery{Type: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_IDsMalformados(t *testing.T) {
	uc := inventory.NewLedgerUseCase(newHarness().deps)
	ctx := context.Background()

	for _, q := range []dto.MovementQuery{
		{ProductID: "abc"},
		{LocationID: "abc"},
		{ReferenceID: "abc"},
	} {
		_, err := uc.ListMovements(ctx, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}
