package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Stock-api/internal/domain/inventory"
)

func count(n int64) dto.RecordCountRequest {
	return dto.RecordCountRequest{CountedQuantity: &n}
}

// seedStock deja la cantidad indicada en el libro mediante una compra.
func seedStock(t *testing.T, h *harness, productID, locationID string, qty int64) {
	t.Helper()
	_, err := inventory.NewLedgerUseCase(h.deps).AdjustStock(context.Background(), "", dto.AdjustStockRequest{
		ProductID: productID, LocationID: locationID, Delta: qty, Type: "PURCHASE",
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenSession_SegundaSesionAbiertaEsDuplicada(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	l := h.store.addLocation("Bodega")
	u := h.store.addUser("ana")
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	first, err := uc.OpenSession(ctx, u, l)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", first.Status)

	_, err = uc.OpenSession(ctx, u, l)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, h.store.sessions, 1, "no se crea una segunda sesión")
}

func TestOpenSession_OtraUbicacionNoChoca(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	_, err := uc.OpenSession(ctx, "", h.store.addLocation("A"))
	require.NoError(t, err)
	_, err = uc.OpenSession(ctx, "", h.store.addLocation("B"))
	require.NoError(t, err)
}

func TestOpenSession_UbicacionInexistente(t *testing.T) {
	uc := inventory.NewReconciliationUseCase(newHarness().deps, nil)

	_, err := uc.OpenSession(context.Background(), "", "00000000-0000-0000-0000-0000000000aa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas y conteos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_TomaFotoDelLibro(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Aceite")
	l := h.store.addLocation("Bodega")
	seedStock(t, h, p, l, 40)
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)
	assert.Equal(t, int64(40), line.ExpectedQuantity)
	assert.Nil(t, line.CountedQuantity)
	assert.Nil(t, line.Difference)

	_, err = uc.AddLine(ctx, s.ID, p)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "un producto por sesión")
}

func TestAddLine_SinFilaEsperadoCero(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", h.store.addLocation("Bodega"))
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, h.store.addProduct("Vinagre"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), line.ExpectedQuantity)
}

func TestRecordCount_UltimoConteoGana(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Aceite")
	l := h.store.addLocation("Bodega")
	seedStock(t, h, p, l, 10)
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)

	_, err = uc.RecordCount(ctx, line.ID, count(8))
	require.NoError(t, err)
	got, err := uc.RecordCount(ctx, line.ID, count(12))
	require.NoError(t, err)

	assert.Equal(t, int64(12), *got.CountedQuantity)
	assert.Equal(t, int64(2), *got.Difference)
	assert.True(t, got.IsSurplus)
}

func TestRecordCount_Negativo(t *testing.T) {
	uc := inventory.NewReconciliationUseCase(newHarness().deps, nil)

	_, err := uc.RecordCount(context.Background(), "00000000-0000-0000-0000-0000000000aa", count(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestCloseSession_SoloAjustaLineasContadasConDiferencia(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.store.addProduct("A")
	b := h.store.addProduct("B")
	l := h.store.addLocation("Bodega")
	u := h.store.addUser("ana")
	seedStock(t, h, a, l, 100)
	seedStock(t, h, b, l, 50)
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, u, l)
	require.NoError(t, err)
	lineA, err := uc.AddLine(ctx, s.ID, a)
	require.NoError(t, err)
	_, err = uc.AddLine(ctx, s.ID, b)
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, lineA.ID, count(95))
	require.NoError(t, err)

	got, err := uc.CloseSession(ctx, u, s.ID)
	require.NoError(t, err)

	require.Len(t, got.Adjustments, 1)
	adj := got.Adjustments[0]
	assert.Equal(t, "INVENTORY_ADJUSTMENT", adj.MovementType)
	assert.Equal(t, int64(-5), adj.QuantityChange)
	assert.Equal(t, lineA.ID, adj.ReferenceID)
	assert.Equal(t, u, adj.UserID)

	assert.Equal(t, int64(95), h.store.quantity(a, l))
	assert.Equal(t, int64(50), h.store.quantity(b, l), "la línea sin contar no se toca")
	assert.Len(t, h.store.movementsFor(b, l), 1)

	assert.Equal(t, "CLOSED", got.Session.Status)
	require.NotNil(t, got.Session.EndTime)

	assert.Len(t, h.pub.ofType(inventory.EventSessionClosed), 1)
}

// sessionWithSaleAfterSnapshot: foto de 10 en AddLine, venta de 8 después y conteo de 5.
func sessionWithSaleAfterSnapshot(t *testing.T, h *harness, uc *inventory.ReconciliationUseCase) (sessionID, productID, locationID string) {
	t.Helper()
	ctx := context.Background()
	p := h.store.addProduct("A")
	l := h.store.addLocation("Bodega")
	seedStock(t, h, p, l, 10)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)
	require.Equal(t, int64(10), line.ExpectedQuantity)

	_, err = inventory.NewTransactionUseCase(h.deps).RecordSale(ctx, "", dto.CreateSaleRequest{
		ProductID: p, LocationID: l, Quantity: 8,
	})
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, line.ID, count(5))
	require.NoError(t, err)
	return s.ID, p, l
}

func TestCloseSession_AjusteEsDeltaSobreLaFotoNoElConteo(t *testing.T) {
	h := newHarness()
	uc := inventory.NewReconciliationUseCase(h.deps, nil)
	sid, p, l := sessionWithSaleAfterSnapshot(t, h, uc)

	got, err := uc.CloseSession(context.Background(), "", sid)
	require.NoError(t, err)

	require.Len(t, got.Adjustments, 1)
	assert.Equal(t, int64(-5), got.Adjustments[0].QuantityChange)
	// 2 tras la venta, menos 5: el libro no queda en el valor contado.
	assert.Equal(t, int64(-3), h.store.quantity(p, l))
}

func TestCloseSession_PoliticaEstrictaRevierteElCierre(t *testing.T) {
	h := newHarness()
	h.deps.Ledger = inventory.NewLedger(domaininv.NewNegativePolicy())
	uc := inventory.NewReconciliationUseCase(h.deps, nil)
	sid, p, l := sessionWithSaleAfterSnapshot(t, h, uc)

	_, err := uc.CloseSession(context.Background(), "", sid)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), h.store.quantity(p, l))
	assert.Equal(t, entity.SessionOpen, h.store.sessions[sid].Status, "la sesión sigue abierta")
}

func TestCloseSession_CerradaNoAdmiteCambios(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("A")
	l := h.store.addLocation("Bodega")
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)
	_, err = uc.CloseSession(ctx, "", s.ID)
	require.NoError(t, err)

	_, err = uc.CloseSession(ctx, "", s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RecordCount(ctx, line.ID, count(3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AddLine(ctx, s.ID, h.store.addProduct("B"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Cerrada, la ubicación admite una nueva sesión.
	_, err = uc.OpenSession(ctx, "", l)
	assert.NoError(t, err)
}

func TestCloseSession_FalloEnAjusteDejaSesionAbierta(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("A")
	l := h.store.addLocation("Bodega")
	seedStock(t, h, p, l, 10)
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	line, err := uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, line.ID, count(7))
	require.NoError(t, err)

	h.store.failMovement = entity.MovementAdjustment
	_, err = uc.CloseSession(ctx, "", s.ID)
	require.Error(t, err)

	detail, err := uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", detail.Status)
	assert.Equal(t, int64(10), h.store.quantity(p, l))
}

func TestCloseSession_Inexistente(t *testing.T) {
	uc := inventory.NewReconciliationUseCase(newHarness().deps, nil)

	_, err := uc.CloseSession(context.Background(), "", "00000000-0000-0000-0000-0000000000aa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y reporte
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSession_Resumen(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	a := h.store.addProduct("A")
	b := h.store.addProduct("B")
	c := h.store.addProduct("C")
	l := h.store.addLocation("Bodega")
	seedStock(t, h, a, l, 10)
	seedStock(t, h, b, l, 10)
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s, err := uc.OpenSession(ctx, "", l)
	require.NoError(t, err)
	la, _ := uc.AddLine(ctx, s.ID, a)
	lb, _ := uc.AddLine(ctx, s.ID, b)
	_, _ = uc.AddLine(ctx, s.ID, c)
	_, err = uc.RecordCount(ctx, la.ID, count(12))
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, lb.ID, count(9))
	require.NoError(t, err)

	got, err := uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 3)
	assert.Equal(t, 2, got.Summary.Counted)
	assert.Equal(t, 1, got.Summary.Uncounted)
	assert.Equal(t, 2, got.Summary.Discrepancies)
	assert.Equal(t, 1, got.Summary.Surpluses)
	assert.Equal(t, 1, got.Summary.Shortages)
	assert.Equal(t, int64(1), got.Summary.NetDifference)
}

func TestListSessions_FiltraPorEstado(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	uc := inventory.NewReconciliationUseCase(h.deps, nil)

	s1, err := uc.OpenSession(ctx, "", h.store.addLocation("A"))
	require.NoError(t, err)
	_, err = uc.OpenSession(ctx, "", h.store.addLocation("B"))
	require.NoError(t, err)
	_, err = uc.CloseSession(ctx, "", s1.ID)
	require.NoError(t, err)

	open, err := uc.ListSessions(ctx, "", "OPEN", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, open.Items, 1)

	_, err = uc.ListSessions(ctx, "", "PAUSED", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionReportPDF_ArmaReporte(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	p := h.store.addProduct("Aceite")
	l := h.store.addLocation("Bodega")
	u := h.store.addUser("ana")
	gen := &fakePDF{}
	uc := inventory.NewReconciliationUseCase(h.deps, gen)

	s, err := uc.OpenSession(ctx, u, l)
	require.NoError(t, err)
	_, err = uc.AddLine(ctx, s.ID, p)
	require.NoError(t, err)

	pdf, name, err := uc.SessionReportPDF(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Contains(t, name, "inventario-")
	assert.Equal(t, "ana", gen.got.StartedByName)
	assert.Equal(t, "Bodega", gen.got.Location.Name)
	require.Len(t, gen.got.Lines, 1)
	assert.Equal(t, "Aceite", gen.got.Lines[0].ProductName)
}

func TestListSessions_UbicacionMalformada(t *testing.T) {
	uc := inventory.NewReconciliationUseCase(newHarness().deps, &fakePDF{})

	_, err := uc.ListSessions(context.Background(), "abc", "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
