package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
)

// TransactionHandler compras, ventas y traslados.
type TransactionHandler struct {
	uc *inventory.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *inventory.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

func (h *TransactionHandler) query(c *fiber.Ctx) (dto.TransactionQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return dto.TransactionQuery{}, err
	}
	expiring, err := queryDate(c, "expiring_before")
	if err != nil {
		return dto.TransactionQuery{}, err
	}
	return dto.TransactionQuery{
		PageRequest:    page(c),
		ProductID:      c.Query("product_id"),
		LocationID:     c.Query("location_id"),
		From:           from,
		To:             to,
		SupplierID:     c.Query("supplier_id"),
		BatchNumber:    c.Query("batch_number"),
		ExpiringBefore: expiring,
	}, nil
}

// CreatePurchase godoc
// @Summary      Registrar compra
// @Description  Crea la compra y suma la cantidad a la existencia de la ubicación en una sola transacción.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *TransactionHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordPurchase(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPurchase godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *TransactionHandler) GetPurchase(c *fiber.Ctx) error {
	out, err := h.uc.GetPurchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "Producto"
// @Param        location_id      query  string  false  "Ubicación"
// @Param        supplier_id      query  string  false  "Proveedor"
// @Param        batch_number     query  string  false  "Lote"
// @Param        expiring_before  query  string  false  "Lotes que vencen antes de (YYYY-MM-DD)"
// @Param        from             query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to               query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *TransactionHandler) ListPurchases(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ListPurchases(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Descuenta la cantidad de la ubicación. Sin existencia suficiente responde 409 y no registra nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *TransactionHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *TransactionHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *TransactionHandler) ListSales(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ListSales(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateTransfer godoc
// @Summary      Registrar traslado
// @Description  Mueve la cantidad entre dos ubicaciones distintas; ambos lados se aplican o ninguno.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordTransfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetTransfer godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransactionHandler) GetTransfer(c *fiber.Ctx) error {
	out, err := h.uc.GetTransfer(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListTransfers godoc
// @Summary      Listar traslados
// @Description  location_id coincide con origen o destino.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransactionHandler) ListTransfers(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ListTransfers(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
