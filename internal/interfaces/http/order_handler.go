package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/orders"
	"github.com/construtech/obras-api/internal/application/policy"
)

// OrderHandler maneja las peticiones HTTP del ciclo de vida de pedidos.
type OrderHandler struct {
	lifecycle *orders.Lifecycle
}

// NewOrderHandler construye el handler.
func NewOrderHandler(lifecycle *orders.Lifecycle) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle}
}

// Submit godoc
// @Summary      Crear y enviar pedido
// @Description  Arma el pedido contra el catálogo, congela costos por línea y lo deja PENDING.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "obra_id, priority, items"
// @Success      201   {object}  dto.OrderView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ObraID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "obra_id es requerido"})
	}
	actor := GetActor(c)
	order, err := h.lifecycle.Submit(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	view, err := policy.ProjectOrder(actor, order)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Description  Proyectado según el rol: el rol user no ve costos ni subtotal.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderView
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.lifecycle.Get(GetActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Description  Admin ve todos, con filtro opcional por obra; el rol user solo sus propios pedidos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        obra_id  query  string  false  "Filtrar por obra (solo admin)"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200      {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	items, err := h.lifecycle.List(GetActor(c), c.Query("obra_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// Approve godoc
// @Summary      Aprobar pedido (solo admin)
// @Description  Descuenta el stock de todas las líneas en una transacción; si alguna línea no alcanza, nada cambia.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	actor := GetActor(c)
	if err := h.lifecycle.Approve(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	out, err := h.lifecycle.Get(actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar pedido (solo admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.RejectOrderRequest  false  "Motivo del rechazo"
// @Success      200   {object}  dto.OrderView
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.RejectOrderRequest
	// El cuerpo es opcional: sin body el motivo queda vacío.
	_ = c.BodyParser(&in)
	actor := GetActor(c)
	if err := h.lifecycle.Reject(c.UserContext(), actor, id, in.Reason); err != nil {
		return writeError(c, err)
	}
	out, err := h.lifecycle.Get(actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Marcar pedido entregado (solo admin)
// @Description  Solo desde APPROVED; el stock ya fue descontado al aprobar.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	actor := GetActor(c)
	if err := h.lifecycle.Complete(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}
	out, err := h.lifecycle.Get(actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
