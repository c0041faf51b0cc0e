package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
)

// SessionHandler sesiones de conteo físico y sus líneas.
type SessionHandler struct {
	uc *inventory.ReconciliationUseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *inventory.ReconciliationUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir sesión de conteo
// @Description  Solo puede haber una sesión OPEN por ubicación.
// @Tags         inventory-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Ubicación"
// @Success      201   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-sessions [post]
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.OpenSession(c.UserContext(), GetUserID(c), in.LocationID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         inventory-sessions
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación"
// @Param        status       query  string  false  "OPEN | CLOSED"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SessionListResponse
// @Router       /api/inventory-sessions [get]
func (h *SessionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListSessions(c.UserContext(), c.Query("location_id"), c.Query("status"), page(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de sesión con sus líneas
// @Tags         inventory-sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar producto a la sesión
// @Description  Toma la existencia actual como cantidad esperada.
// @Tags         inventory-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.AddLineRequest  true  "Producto"
// @Success      201   {object}  dto.LineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-sessions/{id}/lines [post]
func (h *SessionHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.UserContext(), c.Params("id"), in.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordCount godoc
// @Summary      Registrar cantidad contada
// @Tags         inventory-sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la línea"
// @Param        body  body  dto.RecordCountRequest  true  "Conteo"
// @Success      200   {object}  dto.LineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-lines/{id}/count [put]
func (h *SessionHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordCount(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar sesión de conteo
// @Description  Ajusta el libro por cada línea contada con diferencia y marca la sesión CLOSED, todo en una transacción.
// @Tags         inventory-sessions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CloseSessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-sessions/{id}/close [post]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.CloseSession(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Acta de conteo en PDF
// @Tags         inventory-sessions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-sessions/{id}/report.pdf [get]
func (h *SessionHandler) Report(c *fiber.Ctx) error {
	data, filename, err := h.uc.SessionReportPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}
