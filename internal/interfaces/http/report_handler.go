package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
)

// ReportHandler reportes de ventas y reposición.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// TopSelling godoc
// @Summary      Productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD), por defecto hace 30 días"
// @Param        to     query  string  false  "Hasta (YYYY-MM-DD), por defecto hoy"
// @Param        by     query  string  false  "quantity | revenue"  default(quantity)
// @Param        limit  query  int     false  "Cantidad de productos"  default(10)
// @Success      200  {object}  dto.TopSellingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/top-selling [get]
func (h *ReportHandler) TopSelling(c *fiber.Ctx) error {
	out, err := h.uc.TopSelling(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("by"), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SalesSummary godoc
// @Summary      Resumen de ventas del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	out, err := h.uc.SalesSummary(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// PurchaseSummary godoc
// @Summary      Resumen de compras del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Success      200  {object}  dto.PurchaseSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/purchase-summary [get]
func (h *ReportHandler) PurchaseSummary(c *fiber.Ctx) error {
	out, err := h.uc.PurchaseSummary(c.UserContext(), c.Query("from"), c.Query("to"), c.Query("supplier_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ExpiringBatches godoc
// @Summary      Lotes por vencer
// @Description  Compras cuyo vencimiento cae entre hoy y dentro de days días, el más próximo primero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days   query  int  false  "Ventana en días"  default(30)
// @Param        limit  query  int  false  "Máximo de lotes"
// @Success      200  {object}  dto.ExpiringBatchesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/expiring-batches [get]
func (h *ReportHandler) ExpiringBatches(c *fiber.Ctx) error {
	out, err := h.uc.ExpiringBatches(c.UserContext(), c.QueryInt("days", 0), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Pares con existencia en o bajo el umbral, priorizados por ventas recientes.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral"
// @Param        target     query  int  false  "Existencia objetivo"
// @Param        days       query  int  false  "Ventana de ventas en días"
// @Param        limit      query  int  false  "Máximo de sugerencias"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	var q dto.ReplenishmentQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Replenishment(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
