package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
)

// StockHandler consultas y ajustes del libro de existencias.
type StockHandler struct {
	ledger  *inventory.LedgerUseCase
	reports *usecase.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.LedgerUseCase, reports *usecase.ReportUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, reports: reports}
}

// Get godoc
// @Summary      Existencia de un producto en una ubicación
// @Description  Un par sin actividad devuelve cantidad 0.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productId}/{locationId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	out, err := h.ledger.GetStock(c.UserContext(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Total godoc
// @Summary      Existencia total de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId}/total [get]
func (h *StockHandler) Total(c *fiber.Ctx) error {
	out, err := h.ledger.TotalForProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ByProduct godoc
// @Summary      Existencias de un producto por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}   dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId} [get]
func (h *StockHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.ledger.TotalForProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out.ByLocation)
}

// ByLocation godoc
// @Summary      Existencias de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        locationId  path   string  true   "ID de la ubicación"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/location/{locationId} [get]
func (h *StockHandler) ByLocation(c *fiber.Ctx) error {
	out, err := h.ledger.ListByLocation(c.UserContext(), c.Params("locationId"), page(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Low godoc
// @Summary      Existencias en o por debajo del umbral
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral"  default(10)
// @Param        limit      query  int  false  "Límite"  default(20)
// @Param        offset     query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) Low(c *fiber.Ctx) error {
	out, err := h.ledger.LowStock(c.UserContext(), int64(c.QueryInt("threshold", 10)), page(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste directo del libro
// @Description  Registra un movimiento con el delta indicado. Rechaza si deja existencia negativa y la política no lo permite.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.ledger.AdjustStock(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Verify godoc
// @Summary      Verificar el libro contra el historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Router       /api/stock/verify/{productId}/{locationId} [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	out, err := h.ledger.VerifyLedger(c.UserContext(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar existencias a Excel
// @Tags         stock
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200  {file}  binary
// @Router       /api/stock/export.xlsx [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.reports.ExportStock(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment(filename)
	return c.Send(data)
}

// Movements godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        type          query  string  false  "Tipo de movimiento"
// @Param        reference_id  query  string  false  "Operación de origen"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return fail(c, err)
	}
	q := dto.MovementQuery{
		PageRequest: page(c),
		ProductID:   c.Query("product_id"),
		LocationID:  c.Query("location_id"),
		Type:        c.Query("type"),
		ReferenceID: c.Query("reference_id"),
		From:        from,
		To:          to,
	}
	out, err := h.ledger.ListMovements(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
